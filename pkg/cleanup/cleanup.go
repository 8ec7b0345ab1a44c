package cleanup

import (
	"log/slog"
	"sync"
)

type Job struct {
	Name string
	F    func() error
}

// Registry collects shutdown jobs. Jobs run in reverse registration order so
// that resources are released before the ones they depend on.
type Registry struct {
	mu     sync.Mutex
	jobs   []*Job
	logger *slog.Logger
}

func New(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{logger: logger}
}

func (r *Registry) Register(j *Job) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs = append(r.jobs, j)
}

// CleanUp runs every job once and forgets them. Returns the number of failed jobs.
func (r *Registry) CleanUp() int {
	r.mu.Lock()
	jobs := r.jobs
	r.jobs = nil
	r.mu.Unlock()

	failed := 0
	for i := len(jobs) - 1; i >= 0; i-- {
		j := jobs[i]
		r.logger.Info("cleanup job started", slog.String("job", j.Name))
		if err := j.F(); err != nil {
			failed++
			r.logger.Error("cleanup job finished with error", slog.String("job", j.Name), slog.String("error", err.Error()))
			continue
		}
		r.logger.Info("cleaned", slog.String("job", j.Name))
	}
	return failed
}
