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

// Progress is what achievement rules look at.
type Progress struct {
	Completed             int
	CompletedHighPriority int
}

// Rule reports whether progress meets requirement.
type Rule func(p Progress, requirement int) bool

// DefaultRules returns the rules for built-in achievement categories.
// Categories without a rule are never awarded automatically.
func DefaultRules() map[entity.AchievementCategory]Rule {
	return map[entity.AchievementCategory]Rule{
		entity.AchievementCompletion: func(p Progress, requirement int) bool {
			return p.Completed >= requirement
		},
		entity.AchievementPriority: func(p Progress, requirement int) bool {
			return p.CompletedHighPriority >= requirement
		},
	}
}

type AchievementsService struct {
	repo    repository.AchievementsRepositoryI
	tasks   repository.TasksRepositoryI
	scoring *ScoringService
	rules   map[entity.AchievementCategory]Rule
	logger  *slog.Logger
	now     func() time.Time
}

func NewAchievementsService(repo repository.AchievementsRepositoryI, tasks repository.TasksRepositoryI, scoring *ScoringService) *AchievementsService {
	return &AchievementsService{
		repo:    repo,
		tasks:   tasks,
		scoring: scoring,
		rules:   DefaultRules(),
		logger:  scoring.logger,
		now:     time.Now,
	}
}

// RegisterRule sets the rule for category, replacing any existing one.
// Must be called before the service is used.
func (as *AchievementsService) RegisterRule(category entity.AchievementCategory, rule Rule) {
	as.rules[category] = rule
}

func (as *AchievementsService) ListAchievements(ctx context.Context) ([]*entity.Achievement, error) {
	achievements, err := as.repo.GetAll(ctx)
	if err != nil {
		return nil, errors.New("repository listing error: " + err.Error())
	}
	return achievements, nil
}

func (as *AchievementsService) CreateAchievement(ctx context.Context, req *CreateAchievementRequest) (*entity.Achievement, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	achievement := &entity.Achievement{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		Points:      req.Points,
		Requirement: req.Requirement,
		Category:    req.Category,
	}
	id, err := as.repo.Create(ctx, achievement)
	if err != nil {
		return nil, errors.New("repository creating error: " + err.Error())
	}
	achievement.ID = id
	return achievement, nil
}

func (as *AchievementsService) UserAchievements(ctx context.Context, uid int64) ([]*entity.Achievement, error) {
	if _, err := as.scoring.users.FindByID(ctx, uid); err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, err
		}
		return nil, errors.New("repository searching error: " + err.Error())
	}
	earned, err := as.repo.GetEarnedByUser(ctx, uid)
	if err != nil {
		return nil, errors.New("repository listing error: " + err.Error())
	}
	return earned, nil
}

func (as *AchievementsService) Award(ctx context.Context, req *AwardRequest) (*Award, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	defer as.scoring.locks.lock(req.UserID)()

	if _, err := as.scoring.users.FindByID(ctx, req.UserID); err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, err
		}
		return nil, errors.New("repository searching error: " + err.Error())
	}
	achievement, err := as.repo.GetByID(ctx, req.AchievementID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrAchievementNotFound) {
			return nil, err
		}
		return nil, errors.New("repository searching error: " + err.Error())
	}
	earned, err := as.earnedIDs(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if _, ok := earned[achievement.ID]; ok {
		return nil, errorvalues.ErrAchievementEarned
	}
	ua, user, err := as.award(ctx, req.UserID, achievement)
	if err != nil {
		return nil, err
	}
	return &Award{UserAchievement: ua, Achievement: achievement, User: user}, nil
}

// EvaluateAfterCompletion awards every achievement whose rule the user now
// satisfies and returns the newly awarded ones. Repeated calls on the same
// state award nothing.
func (as *AchievementsService) EvaluateAfterCompletion(ctx context.Context, uid int64) ([]*entity.Achievement, error) {
	defer as.scoring.locks.lock(uid)()
	unlocked, _, err := as.evaluate(ctx, uid)
	return unlocked, err
}

// evaluate expects the caller to hold the lock of uid. The returned user is
// the state after the last award, nil if nothing was awarded.
func (as *AchievementsService) evaluate(ctx context.Context, uid int64) ([]*entity.Achievement, *entity.User, error) {
	tasks, err := as.tasks.GetByUserID(ctx, uid)
	if err != nil {
		return nil, nil, errors.New("repository listing tasks error: " + err.Error())
	}
	var progress Progress
	for _, t := range tasks {
		if !t.Completed {
			continue
		}
		progress.Completed++
		if t.Priority == entity.PriorityHigh {
			progress.CompletedHighPriority++
		}
	}

	catalog, err := as.repo.GetAll(ctx)
	if err != nil {
		return nil, nil, errors.New("repository listing error: " + err.Error())
	}

	unlocked := make([]*entity.Achievement, 0)
	var user *entity.User
	for _, achievement := range catalog {
		rule, ok := as.rules[achievement.Category]
		if !ok || !rule(progress, achievement.Requirement) {
			continue
		}
		// Storage has no uniqueness guarantee, membership is rechecked every pass
		earned, err := as.earnedIDs(ctx, uid)
		if err != nil {
			return unlocked, user, err
		}
		if _, ok := earned[achievement.ID]; ok {
			continue
		}
		_, u, err := as.award(ctx, uid, achievement)
		if err != nil {
			return unlocked, user, err
		}
		user = u
		unlocked = append(unlocked, achievement)
	}
	return unlocked, user, nil
}

// award records achievement and credits its points. It never triggers evaluation.
func (as *AchievementsService) award(ctx context.Context, uid int64, achievement *entity.Achievement) (*entity.UserAchievement, *entity.User, error) {
	ua := &entity.UserAchievement{
		UserID:        uid,
		AchievementID: achievement.ID,
		EarnedAt:      as.now(),
	}
	id, err := as.repo.Award(ctx, ua)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, nil, err
		}
		return nil, nil, errors.New("repository awarding error: " + err.Error())
	}
	ua.ID = id
	user, err := as.scoring.credit(ctx, uid, achievement.Points)
	if err != nil {
		return ua, nil, err
	}
	as.logger.Info("achievement awarded",
		slog.Int64("user_id", uid),
		slog.String("achievement", achievement.Name),
		slog.Int("points", achievement.Points))
	return ua, user, nil
}

func (as *AchievementsService) earnedIDs(ctx context.Context, uid int64) (map[int64]struct{}, error) {
	earned, err := as.repo.GetEarnedByUser(ctx, uid)
	if err != nil {
		return nil, errors.New("repository listing earned error: " + err.Error())
	}
	ids := make(map[int64]struct{}, len(earned))
	for _, a := range earned {
		ids[a.ID] = struct{}{}
	}
	return ids, nil
}
