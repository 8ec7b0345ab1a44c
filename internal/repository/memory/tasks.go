package memory

import (
	"context"
	"sync"
	"time"

	errorvalues "github.com/limbo/questboard/internal/error_values"
	"github.com/limbo/questboard/pkg/entity"
)

type TasksRepo struct {
	mu     sync.RWMutex
	tasks  map[int64]*entity.Task
	nextID int64
}

func NewTasksRepo() *TasksRepo {
	return &TasksRepo{
		tasks:  make(map[int64]*entity.Task),
		nextID: 1,
	}
}

func (r *TasksRepo) Create(ctx context.Context, task *entity.Task) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := copyTask(task)
	stored.ID = r.nextID
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	r.tasks[stored.ID] = stored
	r.nextID++
	return stored.ID, nil
}

func (r *TasksRepo) GetByID(ctx context.Context, id int64) (*entity.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tasks[id]
	if !ok {
		return nil, errorvalues.ErrTaskNotFound
	}
	return copyTask(t), nil
}

func (r *TasksRepo) GetAll(ctx context.Context) ([]*entity.Task, error) {
	return r.filter(func(*entity.Task) bool { return true }), nil
}

func (r *TasksRepo) GetByUserID(ctx context.Context, uid int64) ([]*entity.Task, error) {
	return r.filter(func(t *entity.Task) bool {
		return t.UserID != nil && *t.UserID == uid
	}), nil
}

func (r *TasksRepo) GetByCategoryID(ctx context.Context, categoryID int64) ([]*entity.Task, error) {
	return r.filter(func(t *entity.Task) bool {
		return t.CategoryID != nil && *t.CategoryID == categoryID
	}), nil
}

func (r *TasksRepo) GetByGoalID(ctx context.Context, goalID int64) ([]*entity.Task, error) {
	return r.filter(func(t *entity.Task) bool {
		return t.GoalID != nil && *t.GoalID == goalID
	}), nil
}

func (r *TasksRepo) GetDueBetween(ctx context.Context, from, to time.Time) ([]*entity.Task, error) {
	return r.filter(func(t *entity.Task) bool {
		return t.DueDate != nil && !t.DueDate.Before(from) && t.DueDate.Before(to)
	}), nil
}

func (r *TasksRepo) GetHighPriority(ctx context.Context) ([]*entity.Task, error) {
	return r.filter(func(t *entity.Task) bool {
		return t.Priority == entity.PriorityHigh
	}), nil
}

func (r *TasksRepo) GetCompleted(ctx context.Context) ([]*entity.Task, error) {
	return r.filter(func(t *entity.Task) bool {
		return t.Completed || t.Status == entity.StatusComplete
	}), nil
}

func (r *TasksRepo) Update(ctx context.Context, task *entity.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, ok := r.tasks[task.ID]
	if !ok {
		return errorvalues.ErrTaskNotFound
	}
	stored := copyTask(task)
	stored.CreatedAt = old.CreatedAt
	r.tasks[task.ID] = stored
	return nil
}

func (r *TasksRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[id]; !ok {
		return errorvalues.ErrTaskNotFound
	}
	delete(r.tasks, id)
	return nil
}

func (r *TasksRepo) filter(keep func(*entity.Task) bool) []*entity.Task {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entity.Task, 0)
	for _, t := range sorted(r.tasks) {
		if keep(t) {
			out = append(out, copyTask(t))
		}
	}
	return out
}

func copyTask(t *entity.Task) *entity.Task {
	out := *t
	out.Description = ptr(t.Description)
	out.DueDate = ptr(t.DueDate)
	out.CompletedAt = ptr(t.CompletedAt)
	out.CategoryID = ptr(t.CategoryID)
	out.UserID = ptr(t.UserID)
	out.ReminderTime = ptr(t.ReminderTime)
	out.GoalID = ptr(t.GoalID)
	return &out
}
