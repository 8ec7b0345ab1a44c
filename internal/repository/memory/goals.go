package memory

import (
	"context"
	"sync"
	"time"

	errorvalues "github.com/limbo/questboard/internal/error_values"
	"github.com/limbo/questboard/pkg/entity"
)

type GoalsRepo struct {
	mu     sync.RWMutex
	goals  map[int64]*entity.Goal
	nextID int64
}

func NewGoalsRepo() *GoalsRepo {
	return &GoalsRepo{
		goals:  make(map[int64]*entity.Goal),
		nextID: 1,
	}
}

func (r *GoalsRepo) Create(ctx context.Context, goal *entity.Goal) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := copyGoal(goal)
	stored.ID = r.nextID
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	r.goals[stored.ID] = stored
	r.nextID++
	return stored.ID, nil
}

func (r *GoalsRepo) GetByID(ctx context.Context, id int64) (*entity.Goal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.goals[id]
	if !ok {
		return nil, errorvalues.ErrGoalNotFound
	}
	return copyGoal(g), nil
}

func (r *GoalsRepo) GetAll(ctx context.Context) ([]*entity.Goal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	goals := sorted(r.goals)
	for i, g := range goals {
		goals[i] = copyGoal(g)
	}
	return goals, nil
}

func (r *GoalsRepo) GetByUserID(ctx context.Context, uid int64) ([]*entity.Goal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	goals := make([]*entity.Goal, 0)
	for _, g := range sorted(r.goals) {
		if g.UserID == uid {
			goals = append(goals, copyGoal(g))
		}
	}
	return goals, nil
}

func (r *GoalsRepo) Update(ctx context.Context, goal *entity.Goal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, ok := r.goals[goal.ID]
	if !ok {
		return errorvalues.ErrGoalNotFound
	}
	stored := copyGoal(goal)
	stored.UserID = old.UserID
	stored.CreatedAt = old.CreatedAt
	r.goals[goal.ID] = stored
	return nil
}

func (r *GoalsRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.goals[id]; !ok {
		return errorvalues.ErrGoalNotFound
	}
	delete(r.goals, id)
	return nil
}

// Roadmaps are replaced, never mutated in place.
func copyGoal(g *entity.Goal) *entity.Goal {
	out := *g
	out.Description = ptr(g.Description)
	out.CompletedAt = ptr(g.CompletedAt)
	return &out
}
