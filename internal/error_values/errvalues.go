package errorvalues

import "errors"

// Users
var (
	ErrUserExists   = errors.New("such user already exists")
	ErrUserNotFound = errors.New("user doesn't exists")
)

// Tasks and categories
var (
	ErrTaskNotFound     = errors.New("task doesn't exist")
	ErrTaskOwnerMissing = errors.New("task has no owner and no default user is configured")
	ErrCategoryNotFound = errors.New("category doesn't exist")
)

// Goals
var (
	ErrGoalNotFound      = errors.New("goal doesn't exist")
	ErrRoadmapGeneration = errors.New("roadmap generation failed")
)

// Achievements and leaderboard
var (
	ErrAchievementNotFound = errors.New("achievement doesn't exist")
	ErrAchievementEarned   = errors.New("achievement already earned by user")
	ErrInvalidScope        = errors.New("unknown leaderboard scope")
)

var ErrValidation = errors.New("validation error")
