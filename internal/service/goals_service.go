package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	errorvalues "github.com/limbo/questboard/internal/error_values"
	"github.com/limbo/questboard/internal/repository"
	"github.com/limbo/questboard/pkg/entity"
)

type GoalsService struct {
	repo      repository.GoalsRepositoryI
	tasks     repository.TasksRepositoryI
	users     repository.UsersRepositoryI
	generator RoadmapGenerator
	logger    *slog.Logger
	now       func() time.Time
}

// NewGoalsService builds the goals service. generator may be nil, goals then
// get a roadmap carrying only an error.
func NewGoalsService(repo repository.GoalsRepositoryI, tasks repository.TasksRepositoryI, users repository.UsersRepositoryI, generator RoadmapGenerator, logger *slog.Logger) *GoalsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &GoalsService{
		repo:      repo,
		tasks:     tasks,
		users:     users,
		generator: generator,
		logger:    logger,
		now:       time.Now,
	}
}

func (gs *GoalsService) CreateGoal(ctx context.Context, req *CreateGoalRequest) (*GoalPlan, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if _, err := gs.users.FindByID(ctx, req.UserID); err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, err
		}
		return nil, errors.New("repository searching error: " + err.Error())
	}
	goal := &entity.Goal{
		UserID:      req.UserID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Timeframe:   req.Timeframe,
		CreatedAt:   gs.now(),
	}
	if req.GenerateRoadmap == nil || *req.GenerateRoadmap {
		goal.Roadmap = gs.roadmapFor(ctx, goal)
	}
	id, err := gs.repo.Create(ctx, goal)
	if err != nil {
		return nil, errors.New("repository creating error: " + err.Error())
	}
	goal.ID = id

	tasks, err := gs.materialize(ctx, goal)
	if err != nil {
		return nil, err
	}
	return &GoalPlan{Goal: goal, Tasks: tasks}, nil
}

func (gs *GoalsService) GetGoal(ctx context.Context, id int64) (*entity.Goal, error) {
	goal, err := gs.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrGoalNotFound) {
			return nil, err
		}
		return nil, errors.New("repository searching error: " + err.Error())
	}
	return goal, nil
}

// ListGoals returns goals of uid, or every goal if uid is nil.
func (gs *GoalsService) ListGoals(ctx context.Context, uid *int64) ([]*entity.Goal, error) {
	var (
		goals []*entity.Goal
		err   error
	)
	if uid != nil {
		goals, err = gs.repo.GetByUserID(ctx, *uid)
	} else {
		goals, err = gs.repo.GetAll(ctx)
	}
	if err != nil {
		return nil, errors.New("repository listing error: " + err.Error())
	}
	return goals, nil
}

func (gs *GoalsService) UpdateGoal(ctx context.Context, id int64, req *UpdateGoalRequest) (*entity.Goal, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	goal, err := gs.GetGoal(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		goal.Title = *req.Title
	}
	if req.Description != nil {
		goal.Description = req.Description
	}
	if req.Category != nil {
		goal.Category = *req.Category
	}
	if req.Timeframe != nil {
		goal.Timeframe = *req.Timeframe
	}
	if req.Progress != nil {
		goal.Progress = *req.Progress
	}
	if req.Completed != nil {
		switch {
		case *req.Completed && goal.CompletedAt == nil:
			now := gs.now()
			goal.CompletedAt = &now
		case !*req.Completed:
			goal.CompletedAt = nil
		}
	}
	if err = gs.save(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

// DeleteGoal removes goal only. Tasks created from its roadmap stay.
func (gs *GoalsService) DeleteGoal(ctx context.Context, id int64) error {
	if err := gs.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, errorvalues.ErrGoalNotFound) {
			return err
		}
		return errors.New("repository deletion error: " + err.Error())
	}
	return nil
}

func (gs *GoalsService) GoalTasks(ctx context.Context, id int64) ([]*entity.Task, error) {
	if _, err := gs.GetGoal(ctx, id); err != nil {
		return nil, err
	}
	tasks, err := gs.tasks.GetByGoalID(ctx, id)
	if err != nil {
		return nil, errors.New("repository listing tasks error: " + err.Error())
	}
	return tasks, nil
}

// RegenerateRoadmap replaces the roadmap of goal. Existing tasks are kept and
// no new ones are created.
func (gs *GoalsService) RegenerateRoadmap(ctx context.Context, id int64) (*entity.Goal, error) {
	goal, err := gs.GetGoal(ctx, id)
	if err != nil {
		return nil, err
	}
	goal.Roadmap = gs.roadmapFor(ctx, goal)
	if err = gs.save(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

func (gs *GoalsService) save(ctx context.Context, goal *entity.Goal) error {
	if err := gs.repo.Update(ctx, goal); err != nil {
		if errors.Is(err, errorvalues.ErrGoalNotFound) {
			return err
		}
		return errors.New("repository updating error: " + err.Error())
	}
	return nil
}

// roadmapFor never fails. Generation errors end up in Roadmap.Error.
func (gs *GoalsService) roadmapFor(ctx context.Context, goal *entity.Goal) *entity.Roadmap {
	if gs.generator == nil {
		return &entity.Roadmap{Error: errorvalues.ErrRoadmapGeneration.Error() + ": generator is not configured"}
	}
	roadmap, err := gs.generator.GenerateRoadmap(ctx, goal)
	if err != nil {
		gs.logger.Warn("roadmap generation failed",
			slog.String("goal", goal.Title), slog.String("error", err.Error()))
		return &entity.Roadmap{Error: errorvalues.ErrRoadmapGeneration.Error() + ": " + err.Error()}
	}
	if roadmap == nil {
		return &entity.Roadmap{Error: errorvalues.ErrRoadmapGeneration.Error() + ": empty roadmap"}
	}
	return roadmap
}

// materialize stores the tasks of the first milestone as goal tasks.
func (gs *GoalsService) materialize(ctx context.Context, goal *entity.Goal) ([]*entity.Task, error) {
	tasks := make([]*entity.Task, 0)
	if goal.Roadmap == nil || len(goal.Roadmap.Milestones) == 0 {
		return tasks, nil
	}
	for _, rt := range goal.Roadmap.Milestones[0].Tasks {
		if strings.TrimSpace(rt.Title) == "" {
			continue
		}
		uid, gid := goal.UserID, goal.ID
		task := &entity.Task{
			Title:       rt.Title,
			Description: roadmapTaskDescription(rt),
			Priority:    normalizePriority(rt.Priority),
			Status:      entity.StatusIncomplete,
			Points:      DefaultTaskPoints,
			Difficulty:  normalizeDifficulty(rt.Difficulty),
			UserID:      &uid,
			IsGoalTask:  true,
			GoalID:      &gid,
			CreatedAt:   gs.now(),
		}
		id, err := gs.tasks.Create(ctx, task)
		if err != nil {
			return tasks, errors.New("repository creating task error: " + err.Error())
		}
		task.ID = id
		tasks = append(tasks, task)
	}
	return tasks, nil
}

func roadmapTaskDescription(rt entity.RoadmapTask) *string {
	desc := rt.Description
	if rt.EstimatedTime != "" {
		if desc != "" {
			desc += "\n\n"
		}
		desc += "Estimated time: " + rt.EstimatedTime
	}
	if desc == "" {
		return nil
	}
	return &desc
}

func normalizePriority(p string) entity.Priority {
	switch entity.Priority(strings.ToLower(strings.TrimSpace(p))) {
	case entity.PriorityHigh:
		return entity.PriorityHigh
	case entity.PriorityLow:
		return entity.PriorityLow
	default:
		return entity.PriorityMedium
	}
}

func normalizeDifficulty(d string) entity.Difficulty {
	switch entity.Difficulty(strings.ToLower(strings.TrimSpace(d))) {
	case entity.DifficultyHard:
		return entity.DifficultyHard
	case entity.DifficultyEasy:
		return entity.DifficultyEasy
	default:
		return entity.DifficultyNormal
	}
}
