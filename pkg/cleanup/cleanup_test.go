package cleanup_test

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/limbo/questboard/pkg/cleanup"
)

func TestCleanUp(t *testing.T) {
	jobs := cleanup.New(slog.New(slog.NewTextHandler(io.Discard, nil)))
	var order []string
	for _, name := range []string{"pool", "server", "cache"} {
		jobs.Register(&cleanup.Job{Name: name, F: func() error {
			order = append(order, name)
			if name == "server" {
				return errors.New("already closed")
			}
			return nil
		}})
	}

	assert.Equal(t, 1, jobs.CleanUp())
	assert.Equal(t, []string{"cache", "server", "pool"}, order)
	assert.Zero(t, jobs.CleanUp(), "jobs run once")
	assert.Len(t, order, 3)
}
