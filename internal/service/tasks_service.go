package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	errorvalues "github.com/limbo/questboard/internal/error_values"
	"github.com/limbo/questboard/internal/repository"
	"github.com/limbo/questboard/pkg/entity"
)

type TasksService struct {
	repo         repository.TasksRepositoryI
	scoring      *ScoringService
	achievements *AchievementsService
	// Held from reading a task until its transition is scored
	transitions  *idLocks
	loc          *time.Location
	now          func() time.Time
	logger       *slog.Logger
}

// NewTasksService builds the task lifecycle service. Due dates without
// explicit zone are interpreted in loc.
func NewTasksService(repo repository.TasksRepositoryI, scoring *ScoringService, achievements *AchievementsService, loc *time.Location) *TasksService {
	if loc == nil {
		loc = time.Local
	}
	return &TasksService{
		repo:         repo,
		scoring:      scoring,
		achievements: achievements,
		transitions:  newIDLocks(),
		loc:          loc,
		now:          time.Now,
		logger:       scoring.logger,
	}
}

// CreateTask stores a new task. A task created as complete gets CompletedAt
// but is not scored.
func (ts *TasksService) CreateTask(ctx context.Context, req *CreateTaskRequest) (*entity.Task, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	task := &entity.Task{
		Title:        req.Title,
		Description:  req.Description,
		Priority:     req.Priority,
		Status:       req.Status,
		Points:       DefaultTaskPoints,
		Difficulty:   req.Difficulty,
		CategoryID:   req.CategoryID,
		UserID:       req.UserID,
		HasReminder:  req.HasReminder,
		ReminderTime: req.ReminderTime,
		IsGoalTask:   req.IsGoalTask,
		GoalID:       req.GoalID,
		CreatedAt:    ts.now(),
	}
	if task.Priority == "" {
		task.Priority = entity.PriorityMedium
	}
	if task.Status == "" {
		task.Status = entity.StatusIncomplete
	}
	if task.Difficulty == "" {
		task.Difficulty = entity.DifficultyNormal
	}
	if req.Points != nil {
		task.Points = *req.Points
	}
	if task.Status == entity.StatusComplete {
		completedAt := task.CreatedAt
		task.Completed = true
		task.CompletedAt = &completedAt
	}
	due, err := ts.dueFromRequest(req.DueDate, req.DueTime, nil)
	if err != nil {
		return nil, err
	}
	task.DueDate = due

	id, err := ts.repo.Create(ctx, task)
	if err != nil {
		return nil, errors.New("repository creating error: " + err.Error())
	}
	task.ID = id
	return task, nil
}

func (ts *TasksService) GetTask(ctx context.Context, id int64) (*entity.Task, error) {
	task, err := ts.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrTaskNotFound) {
			return nil, err
		}
		return nil, errors.New("repository searching error: " + err.Error())
	}
	return task, nil
}

// ListTasks returns tasks matching every non-nil field of filter in id order.
func (ts *TasksService) ListTasks(ctx context.Context, filter TaskFilter) ([]*entity.Task, error) {
	var (
		tasks []*entity.Task
		err   error
	)
	switch {
	case filter.GoalID != nil:
		tasks, err = ts.repo.GetByGoalID(ctx, *filter.GoalID)
	case filter.CategoryID != nil:
		tasks, err = ts.repo.GetByCategoryID(ctx, *filter.CategoryID)
	case filter.UserID != nil:
		tasks, err = ts.repo.GetByUserID(ctx, *filter.UserID)
	default:
		tasks, err = ts.repo.GetAll(ctx)
	}
	if err != nil {
		return nil, errors.New("repository listing error: " + err.Error())
	}
	out := make([]*entity.Task, 0, len(tasks))
	for _, t := range tasks {
		if !matchID(filter.GoalID, t.GoalID) || !matchID(filter.CategoryID, t.CategoryID) || !matchID(filter.UserID, t.UserID) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func matchID(want, got *int64) bool {
	if want == nil {
		return true
	}
	return got != nil && *got == *want
}

func (ts *TasksService) UpdateTask(ctx context.Context, id int64, req *UpdateTaskRequest) (*StatusChange, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	defer ts.transitions.lock(id)()
	task, err := ts.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = req.Description
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}
	if req.Difficulty != nil {
		task.Difficulty = *req.Difficulty
	}
	if req.Points != nil {
		task.Points = *req.Points
	}
	if req.CategoryID != nil {
		task.CategoryID = req.CategoryID
	}
	if req.HasReminder != nil {
		task.HasReminder = *req.HasReminder
	}
	if req.ReminderTime != nil {
		task.ReminderTime = req.ReminderTime
	}
	if req.DueDate != nil || req.DueTime != nil {
		due, err := ts.dueFromRequest(req.DueDate, req.DueTime, task.DueDate)
		if err != nil {
			return nil, err
		}
		task.DueDate = due
	}
	newly := false
	if req.Status != nil {
		newly = ts.applyStatus(task, *req.Status)
	}
	if err = ts.save(ctx, task); err != nil {
		return nil, err
	}
	return ts.afterTransition(ctx, task, newly)
}

// SetTaskStatus moves task to status. Entering complete awards completion
// points to the owner and evaluates achievements before returning. Leaving
// complete does not take points back.
func (ts *TasksService) SetTaskStatus(ctx context.Context, id int64, status entity.TaskStatus) (*StatusChange, error) {
	if status != entity.StatusComplete && status != entity.StatusIncomplete {
		return nil, errors.Join(errorvalues.ErrValidation, errors.New("unknown status: "+string(status)))
	}
	defer ts.transitions.lock(id)()
	task, err := ts.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	newly := ts.applyStatus(task, status)
	if err = ts.save(ctx, task); err != nil {
		return nil, err
	}
	return ts.afterTransition(ctx, task, newly)
}

func (ts *TasksService) DeleteTask(ctx context.Context, id int64) error {
	err := ts.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrTaskNotFound) {
			return err
		}
		return errors.New("repository deletion error: " + err.Error())
	}
	return nil
}

// Stats counts tasks overall, due today, completed and high priority.
func (ts *TasksService) Stats(ctx context.Context) (*entity.TaskStats, error) {
	all, err := ts.repo.GetAll(ctx)
	if err != nil {
		return nil, errors.New("repository listing error: " + err.Error())
	}
	from, to := dayBounds(ts.now(), ts.loc)
	dueToday, err := ts.repo.GetDueBetween(ctx, from, to)
	if err != nil {
		return nil, errors.New("repository listing due error: " + err.Error())
	}
	completed, err := ts.repo.GetCompleted(ctx)
	if err != nil {
		return nil, errors.New("repository listing completed error: " + err.Error())
	}
	high, err := ts.repo.GetHighPriority(ctx)
	if err != nil {
		return nil, errors.New("repository listing high priority error: " + err.Error())
	}
	return &entity.TaskStats{
		TotalTasks:   len(all),
		DueToday:     len(dueToday),
		Completed:    len(completed),
		HighPriority: len(high),
	}, nil
}

// applyStatus keeps Completed and CompletedAt in line with status. Reports
// whether task has just entered complete.
func (ts *TasksService) applyStatus(task *entity.Task, status entity.TaskStatus) bool {
	wasComplete := task.Status == entity.StatusComplete
	task.Status = status
	if status != entity.StatusComplete {
		task.Completed = false
		task.CompletedAt = nil
		return false
	}
	task.Completed = true
	if wasComplete && task.CompletedAt != nil {
		return false
	}
	now := ts.now()
	task.CompletedAt = &now
	return !wasComplete
}

func (ts *TasksService) save(ctx context.Context, task *entity.Task) error {
	if err := ts.repo.Update(ctx, task); err != nil {
		if errors.Is(err, errorvalues.ErrTaskNotFound) {
			return err
		}
		return errors.New("repository updating error: " + err.Error())
	}
	return nil
}

// afterTransition scores a task that has just been completed and evaluates
// achievements of its owner. Tasks whose owner can't be resolved are returned
// unscored.
func (ts *TasksService) afterTransition(ctx context.Context, task *entity.Task, newly bool) (*StatusChange, error) {
	change := &StatusChange{Task: task, Unlocked: []*entity.Achievement{}}
	if !newly {
		return change, nil
	}
	var updated *entity.User
	user, points, err := ts.scoring.AwardCompletion(ctx, task, func(uid int64) {
		var unlocked []*entity.Achievement
		var evalErr error
		unlocked, updated, evalErr = ts.achievements.evaluate(ctx, uid)
		if evalErr != nil {
			ts.logger.Error("achievement evaluation failed",
				slog.Int64("user_id", uid), slog.String("error", evalErr.Error()))
		}
		change.Unlocked = append(change.Unlocked, unlocked...)
	})
	switch {
	case errors.Is(err, errorvalues.ErrTaskOwnerMissing):
		ts.logger.Warn("completed task has no owner, skipping scoring", slog.Int64("task_id", task.ID))
		return change, nil
	case errors.Is(err, errorvalues.ErrUserNotFound):
		ts.logger.Warn("owner of completed task not found, skipping scoring", slog.Int64("task_id", task.ID))
		return change, nil
	case err != nil:
		return nil, err
	}
	change.PointsAwarded = points
	change.User = user
	if updated != nil {
		change.User = updated
	}
	return change, nil
}

// dueFromRequest builds due date from request fields. An empty date clears
// it. A clock without date is applied to current, or today's, date.
func (ts *TasksService) dueFromRequest(date, clock *string, current *time.Time) (*time.Time, error) {
	switch {
	case date != nil && *date == "":
		return nil, nil
	case date != nil:
		due, err := parseDueDate(*date, clock, ts.loc)
		if err != nil {
			return nil, err
		}
		return &due, nil
	case clock != nil && *clock != "":
		base, _ := dayBounds(ts.now(), ts.loc)
		if current != nil {
			base = current.In(ts.loc)
		}
		due, err := withClock(base, *clock)
		if err != nil {
			return nil, err
		}
		return &due, nil
	default:
		return current, nil
	}
}
