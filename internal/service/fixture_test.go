package service_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/limbo/questboard/internal/repository/memory"
	"github.com/limbo/questboard/internal/service"
	"github.com/limbo/questboard/pkg/entity"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// fixture wires every service over a fresh in-memory store.
type fixture struct {
	store        *memory.Store
	users        *service.UserService
	scoring      *service.ScoringService
	achievements *service.AchievementsService
	tasks        *service.TasksService
	leaderboard  *service.LeaderboardService
}

func newFixture(t *testing.T, catalog []*entity.Achievement) *fixture {
	return newFixtureWith(t, catalog, service.ScoringOpts{Logger: discardLogger})
}

func newFixtureWith(t *testing.T, catalog []*entity.Achievement, opts service.ScoringOpts) *fixture {
	t.Helper()
	store := memory.NewStore()
	for _, a := range catalog {
		_, err := store.Achievements.Create(context.Background(), a)
		require.NoError(t, err)
	}
	scoring := service.NewScoringService(store.Users, opts)
	achievements := service.NewAchievementsService(store.Achievements, store.Tasks, scoring)
	return &fixture{
		store:        store,
		users:        service.NewUserService(store.Users),
		scoring:      scoring,
		achievements: achievements,
		tasks:        service.NewTasksService(store.Tasks, scoring, achievements, time.UTC),
		leaderboard:  service.NewLeaderboardService(store.Users),
	}
}

func (f *fixture) createUser(t *testing.T, name, region, country string) *entity.User {
	t.Helper()
	user, err := f.users.Create(context.Background(), &service.CreateUserRequest{
		Username: name,
		Password: "password123",
		Region:   region,
		Country:  country,
	})
	require.NoError(t, err)
	return user
}

func (f *fixture) createTask(t *testing.T, uid int64, priority entity.Priority, difficulty entity.Difficulty) *entity.Task {
	t.Helper()
	task, err := f.tasks.CreateTask(context.Background(), &service.CreateTaskRequest{
		Title:      "task",
		Priority:   priority,
		Difficulty: difficulty,
		UserID:     &uid,
	})
	require.NoError(t, err)
	return task
}

// complete creates a task for uid and moves it to complete.
func (f *fixture) complete(t *testing.T, uid int64, priority entity.Priority, difficulty entity.Difficulty) *service.StatusChange {
	t.Helper()
	task := f.createTask(t, uid, priority, difficulty)
	change, err := f.tasks.SetTaskStatus(context.Background(), task.ID, entity.StatusComplete)
	require.NoError(t, err)
	return change
}

func (f *fixture) user(t *testing.T, uid int64) *entity.User {
	t.Helper()
	user, err := f.users.GetByID(context.Background(), uid)
	require.NoError(t, err)
	return user
}

func achievementNames(as []*entity.Achievement) []string {
	names := make([]string, 0, len(as))
	for _, a := range as {
		names = append(names, a.Name)
	}
	return names
}

func ptr[T any](v T) *T {
	return &v
}
