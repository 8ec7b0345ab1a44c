// Package memory keeps every entity in process memory. It implements the same
// repository interfaces as the Postgres adapters and is the default storage
// for single-process deployments and tests.
package memory

import (
	"maps"
	"slices"

	"github.com/limbo/questboard/internal/repository"
)

var (
	_ repository.UsersRepositoryI        = (*UsersRepo)(nil)
	_ repository.CategoriesRepositoryI   = (*CategoriesRepo)(nil)
	_ repository.TasksRepositoryI        = (*TasksRepo)(nil)
	_ repository.GoalsRepositoryI        = (*GoalsRepo)(nil)
	_ repository.AchievementsRepositoryI = (*AchievementsRepo)(nil)
)

// Store bundles one repository per entity.
type Store struct {
	Users        *UsersRepo
	Categories   *CategoriesRepo
	Tasks        *TasksRepo
	Goals        *GoalsRepo
	Achievements *AchievementsRepo
}

func NewStore() *Store {
	return &Store{
		Users:        NewUsersRepo(),
		Categories:   NewCategoriesRepo(),
		Tasks:        NewTasksRepo(),
		Goals:        NewGoalsRepo(),
		Achievements: NewAchievementsRepo(),
	}
}

// sorted returns map values in ascending key order.
func sorted[V any](m map[int64]V) []V {
	keys := slices.Sorted(maps.Keys(m))
	out := make([]V, 0, len(keys))
	for _, k := range keys {
		out = append(out, m[k])
	}
	return out
}

func ptr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
