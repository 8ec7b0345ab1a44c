package service

import (
	"context"
	"errors"
	"log/slog"
	"math"

	errorvalues "github.com/limbo/questboard/internal/error_values"
	"github.com/limbo/questboard/internal/repository"
	"github.com/limbo/questboard/pkg/entity"
)

// Base reward of a task that has no points set
const DefaultTaskPoints = 10

var priorityMultipliers = map[entity.Priority]float64{
	entity.PriorityHigh:   1.5,
	entity.PriorityMedium: 1.0,
	entity.PriorityLow:    0.8,
}

var difficultyMultipliers = map[entity.Difficulty]float64{
	entity.DifficultyHard:   1.5,
	entity.DifficultyNormal: 1.0,
	entity.DifficultyEasy:   0.7,
}

// Highest matching threshold wins
var levelThresholds = []struct {
	min   int
	level entity.Level
}{
	{1000, entity.LevelDiamond},
	{500, entity.LevelPlatinum},
	{250, entity.LevelGold},
	{100, entity.LevelSilver},
	{0, entity.LevelBronze},
}

// LevelFor maps score to level. Negative scores are Bronze.
func LevelFor(score int) entity.Level {
	for _, t := range levelThresholds {
		if score >= t.min {
			return t.level
		}
	}
	return entity.LevelBronze
}

// CompletionPoints is the reward for completing task. Unknown priority or
// difficulty counts as 1.0.
func CompletionPoints(task *entity.Task) int {
	base := task.Points
	if base <= 0 {
		base = DefaultTaskPoints
	}
	pm, ok := priorityMultipliers[task.Priority]
	if !ok {
		pm = 1.0
	}
	dm, ok := difficultyMultipliers[task.Difficulty]
	if !ok {
		dm = 1.0
	}
	return int(math.Round(float64(base) * pm * dm))
}

type ScoringOpts struct {
	// Owner of tasks without user. 0 disables the fallback
	DefaultUserID int64
	Logger        *slog.Logger
}

type ScoringService struct {
	users         repository.UsersRepositoryI
	locks         *idLocks
	defaultUserID int64
	logger        *slog.Logger
}

func NewScoringService(users repository.UsersRepositoryI, opts ScoringOpts) *ScoringService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ScoringService{
		users:         users,
		locks:         newIDLocks(),
		defaultUserID: opts.DefaultUserID,
		logger:        logger,
	}
}

// ResolveOwner returns the user credited for completing task.
func (ss *ScoringService) ResolveOwner(task *entity.Task) (int64, error) {
	if task.UserID != nil {
		return *task.UserID, nil
	}
	if ss.defaultUserID > 0 {
		return ss.defaultUserID, nil
	}
	return 0, errorvalues.ErrTaskOwnerMissing
}

// AwardCompletion credits the owner of task with its completion points.
// then, when not nil, runs right after the credit while the owner is still
// locked.
func (ss *ScoringService) AwardCompletion(ctx context.Context, task *entity.Task, then func(uid int64)) (*entity.User, int, error) {
	uid, err := ss.ResolveOwner(task)
	if err != nil {
		return nil, 0, err
	}
	defer ss.locks.lock(uid)()
	points := CompletionPoints(task)
	user, err := ss.credit(ctx, uid, points)
	if err != nil {
		return nil, 0, err
	}
	if then != nil {
		then(uid)
	}
	return user, points, nil
}

// CreditPoints adds points to user score and recomputes level.
func (ss *ScoringService) CreditPoints(ctx context.Context, uid int64, points int) (*entity.User, error) {
	defer ss.locks.lock(uid)()
	return ss.credit(ctx, uid, points)
}

// credit expects the caller to hold the lock of uid.
func (ss *ScoringService) credit(ctx context.Context, uid int64, points int) (*entity.User, error) {
	user, err := ss.users.FindByID(ctx, uid)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, err
		}
		return nil, errors.New("repository searching error: " + err.Error())
	}
	prev := user.Level
	user.Score += points
	user.Level = LevelFor(user.Score)
	if err = ss.users.UpdateScore(ctx, uid, user.Score, user.Level); err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, err
		}
		return nil, errors.New("repository updating score error: " + err.Error())
	}
	if prev != user.Level {
		ss.logger.Info("user level changed",
			slog.Int64("user_id", uid),
			slog.String("from", string(prev)),
			slog.String("to", string(user.Level)),
			slog.Int("score", user.Score))
	}
	return user, nil
}
