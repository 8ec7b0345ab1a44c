package service

import (
	"context"

	"github.com/limbo/questboard/pkg/entity"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

type CreateUserRequest struct {
	Username string `json:"username" validate:"required,alphanum_underscore,min=3,max=100"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Region   string `json:"region" validate:"max=100"`
	Country  string `json:"country" validate:"max=100"`
}

type UpdateUserRequest struct {
	Region  *string `json:"region" validate:"omitempty,max=100"`
	Country *string `json:"country" validate:"omitempty,max=100"`
}

type CreateTaskRequest struct {
	Title       string  `json:"title" validate:"required,max=255"`
	Description *string `json:"description" validate:"omitempty,max=4000"`
	// YYYY-MM-DD or RFC3339
	DueDate *string `json:"due_date" validate:"omitempty,due_date"`
	// HH:MM, applied to DueDate
	DueTime      *string           `json:"due_time" validate:"omitempty,clock"`
	Priority     entity.Priority   `json:"priority" validate:"omitempty,oneof=high medium low"`
	Status       entity.TaskStatus `json:"status" validate:"omitempty,oneof=complete incomplete"`
	Difficulty   entity.Difficulty `json:"difficulty" validate:"omitempty,oneof=easy normal hard"`
	Points       *int              `json:"points" validate:"omitempty,min=1,max=10000"`
	CategoryID   *int64            `json:"category_id"`
	UserID       *int64            `json:"user_id"`
	HasReminder  bool              `json:"has_reminder"`
	ReminderTime *int              `json:"reminder_time" validate:"omitempty,min=0"`
	IsGoalTask   bool              `json:"is_goal_task"`
	GoalID       *int64            `json:"goal_id"`
}

// Nil fields are left untouched. DueDate "" clears the due date.
type UpdateTaskRequest struct {
	Title        *string            `json:"title" validate:"omitempty,min=1,max=255"`
	Description  *string            `json:"description" validate:"omitempty,max=4000"`
	DueDate      *string            `json:"due_date" validate:"omitempty,due_date"`
	DueTime      *string            `json:"due_time" validate:"omitempty,clock"`
	Priority     *entity.Priority   `json:"priority" validate:"omitempty,oneof=high medium low"`
	Status       *entity.TaskStatus `json:"status" validate:"omitempty,oneof=complete incomplete"`
	Difficulty   *entity.Difficulty `json:"difficulty" validate:"omitempty,oneof=easy normal hard"`
	Points       *int               `json:"points" validate:"omitempty,min=1,max=10000"`
	CategoryID   *int64             `json:"category_id"`
	HasReminder  *bool              `json:"has_reminder"`
	ReminderTime *int               `json:"reminder_time" validate:"omitempty,min=0"`
}

type TaskFilter struct {
	UserID     *int64
	CategoryID *int64
	GoalID     *int64
}

// StatusChange is the outcome of a task status transition. User is nil when
// nothing was scored.
type StatusChange struct {
	Task          *entity.Task          `json:"task"`
	PointsAwarded int                   `json:"points_awarded"`
	User          *entity.User          `json:"user,omitempty"`
	Unlocked      []*entity.Achievement `json:"unlocked_achievements"`
}

type CreateCategoryRequest struct {
	Name   string `json:"name" validate:"required,max=100"`
	Color  string `json:"color" validate:"required,max=32"`
	UserID *int64 `json:"user_id"`
}

type UpdateCategoryRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=1,max=100"`
	Color *string `json:"color" validate:"omitempty,min=1,max=32"`
}

type CreateGoalRequest struct {
	UserID      int64            `json:"user_id" validate:"required,min=1"`
	Title       string           `json:"title" validate:"required,max=255"`
	Description *string          `json:"description" validate:"omitempty,max=4000"`
	Category    string           `json:"category" validate:"required,max=100"`
	Timeframe   entity.Timeframe `json:"timeframe" validate:"required,oneof=short-term medium-term long-term"`
	// Defaults to true
	GenerateRoadmap *bool `json:"generate_roadmap"`
}

type UpdateGoalRequest struct {
	Title       *string           `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string           `json:"description" validate:"omitempty,max=4000"`
	Category    *string           `json:"category" validate:"omitempty,min=1,max=100"`
	Timeframe   *entity.Timeframe `json:"timeframe" validate:"omitempty,oneof=short-term medium-term long-term"`
	Progress    *int              `json:"progress" validate:"omitempty,min=0"`
	Completed   *bool             `json:"completed"`
}

// GoalPlan is a created goal together with the tasks materialized from its roadmap.
type GoalPlan struct {
	Goal  *entity.Goal   `json:"goal"`
	Tasks []*entity.Task `json:"tasks"`
}

type CreateAchievementRequest struct {
	Name        string                     `json:"name" validate:"required,max=100"`
	Description string                     `json:"description" validate:"max=500"`
	Icon        string                     `json:"icon" validate:"max=16"`
	Points      int                        `json:"points" validate:"min=0,max=10000"`
	Requirement int                        `json:"requirement" validate:"min=1"`
	Category    entity.AchievementCategory `json:"category" validate:"required,max=50"`
}

type AwardRequest struct {
	UserID        int64 `json:"user_id" validate:"required,min=1"`
	AchievementID int64 `json:"achievement_id" validate:"required,min=1"`
}

type Award struct {
	UserAchievement *entity.UserAchievement `json:"user_achievement"`
	Achievement     *entity.Achievement     `json:"achievement"`
	User            *entity.User            `json:"user"`
}

// RoadmapGenerator turns a goal into a roadmap. Implemented by the roadmap client.
type RoadmapGenerator interface {
	GenerateRoadmap(ctx context.Context, goal *entity.Goal) (*entity.Roadmap, error)
}

type UserServiceI interface {
	// Validates request, hashes password and stores new user with zero score
	Create(ctx context.Context, req *CreateUserRequest) (*entity.User, error)
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	// Changes region and/or country. Empty value resets to Global
	UpdateLocation(ctx context.Context, id int64, req *UpdateUserRequest) (*entity.User, error)
}

type TasksServiceI interface {
	CreateTask(ctx context.Context, req *CreateTaskRequest) (*entity.Task, error)
	GetTask(ctx context.Context, id int64) (*entity.Task, error)
	ListTasks(ctx context.Context, filter TaskFilter) ([]*entity.Task, error)
	// Applies partial update. Status changes go through the same path as SetTaskStatus
	UpdateTask(ctx context.Context, id int64, req *UpdateTaskRequest) (*StatusChange, error)
	// Moves task to status; entering complete awards points and evaluates achievements
	SetTaskStatus(ctx context.Context, id int64, status entity.TaskStatus) (*StatusChange, error)
	DeleteTask(ctx context.Context, id int64) error
	Stats(ctx context.Context) (*entity.TaskStats, error)
}

type CategoriesServiceI interface {
	CreateCategory(ctx context.Context, req *CreateCategoryRequest) (*entity.Category, error)
	GetCategory(ctx context.Context, id int64) (*entity.Category, error)
	ListCategories(ctx context.Context) ([]*entity.Category, error)
	UpdateCategory(ctx context.Context, id int64, req *UpdateCategoryRequest) (*entity.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
}

type GoalsServiceI interface {
	// Stores goal, attaches generated roadmap and materializes first milestone tasks
	CreateGoal(ctx context.Context, req *CreateGoalRequest) (*GoalPlan, error)
	GetGoal(ctx context.Context, id int64) (*entity.Goal, error)
	ListGoals(ctx context.Context, uid *int64) ([]*entity.Goal, error)
	UpdateGoal(ctx context.Context, id int64, req *UpdateGoalRequest) (*entity.Goal, error)
	DeleteGoal(ctx context.Context, id int64) error
	GoalTasks(ctx context.Context, id int64) ([]*entity.Task, error)
	RegenerateRoadmap(ctx context.Context, id int64) (*entity.Goal, error)
}

type AchievementsServiceI interface {
	ListAchievements(ctx context.Context) ([]*entity.Achievement, error)
	CreateAchievement(ctx context.Context, req *CreateAchievementRequest) (*entity.Achievement, error)
	UserAchievements(ctx context.Context, uid int64) ([]*entity.Achievement, error)
	// Manual award. Fails with ErrAchievementEarned if user already has it
	Award(ctx context.Context, req *AwardRequest) (*Award, error)
	EvaluateAfterCompletion(ctx context.Context, uid int64) ([]*entity.Achievement, error)
}

type LeaderboardServiceI interface {
	GetLeaderboard(ctx context.Context, scope entity.LeaderboardScope, limit int) ([]*entity.LeaderboardEntry, error)
	// Returns -1 for unknown user or user outside any group of scope
	GetUserRank(ctx context.Context, uid int64, scope entity.LeaderboardScope) (int, error)
}
