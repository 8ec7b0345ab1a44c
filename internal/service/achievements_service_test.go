package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errorvalues "github.com/limbo/questboard/internal/error_values"
	"github.com/limbo/questboard/internal/repository/mocks"
	"github.com/limbo/questboard/internal/service"
	"github.com/limbo/questboard/pkg/entity"
)

func TestFirstTaskAchievement(t *testing.T) {
	f := newFixture(t, service.DefaultAchievements())
	ctx := context.Background()
	user := f.createUser(t, "alice", "", "")

	first := f.complete(t, user.ID, entity.PriorityMedium, entity.DifficultyNormal)
	assert.Equal(t, []string{"First Task Complete"}, achievementNames(first.Unlocked))
	assert.Equal(t, 10, first.PointsAwarded)
	assert.Equal(t, 20, first.User.Score)

	second := f.complete(t, user.ID, entity.PriorityMedium, entity.DifficultyNormal)
	assert.Empty(t, second.Unlocked)
	assert.Equal(t, 30, second.User.Score)

	again, err := f.achievements.EvaluateAfterCompletion(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, again)
	assert.Equal(t, 30, f.user(t, user.ID).Score)

	earned, err := f.achievements.UserAchievements(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"First Task Complete"}, achievementNames(earned))
}

func TestTenTasksAchievement(t *testing.T) {
	f := newFixture(t, service.DefaultAchievements())
	ctx := context.Background()
	user := f.createUser(t, "alice", "", "")

	for i := 1; i <= 9; i++ {
		change := f.complete(t, user.ID, entity.PriorityMedium, entity.DifficultyNormal)
		assert.NotContains(t, achievementNames(change.Unlocked), "High Achiever", "task %d", i)
	}
	tenth := f.complete(t, user.ID, entity.PriorityMedium, entity.DifficultyNormal)
	assert.Equal(t, []string{"High Achiever"}, achievementNames(tenth.Unlocked))
	eleventh := f.complete(t, user.ID, entity.PriorityMedium, entity.DifficultyNormal)
	assert.Empty(t, eleventh.Unlocked)

	earned, err := f.achievements.UserAchievements(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"First Task Complete", "High Achiever"}, achievementNames(earned))
	// 11 tasks, first task and ten tasks rewards
	assert.Equal(t, 110+10+25, f.user(t, user.ID).Score)
}

func TestPriorityAchievement(t *testing.T) {
	f := newFixture(t, service.DefaultAchievements())
	user := f.createUser(t, "alice", "", "")

	f.complete(t, user.ID, entity.PriorityLow, entity.DifficultyNormal)
	for i := 1; i <= 4; i++ {
		change := f.complete(t, user.ID, entity.PriorityHigh, entity.DifficultyNormal)
		assert.NotContains(t, achievementNames(change.Unlocked), "Priority Master")
	}
	fifth := f.complete(t, user.ID, entity.PriorityHigh, entity.DifficultyNormal)
	assert.Equal(t, []string{"Priority Master"}, achievementNames(fifth.Unlocked))
}

func TestIncompleteTasksDoNotCount(t *testing.T) {
	f := newFixture(t, service.DefaultAchievements())
	ctx := context.Background()
	user := f.createUser(t, "alice", "", "")
	for i := 0; i < 3; i++ {
		f.createTask(t, user.ID, entity.PriorityHigh, entity.DifficultyHard)
	}
	unlocked, err := f.achievements.EvaluateAfterCompletion(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, unlocked)
}

func TestRegisterRule(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	user := f.createUser(t, "alice", "", "")
	streak, err := f.achievements.CreateAchievement(ctx, &service.CreateAchievementRequest{
		Name:        "On Fire",
		Description: "Three tasks in a row",
		Icon:        "🔥",
		Points:      15,
		Requirement: 3,
		Category:    entity.AchievementStreak,
	})
	require.NoError(t, err)

	f.complete(t, user.ID, entity.PriorityMedium, entity.DifficultyNormal)
	f.complete(t, user.ID, entity.PriorityMedium, entity.DifficultyNormal)
	third := f.complete(t, user.ID, entity.PriorityMedium, entity.DifficultyNormal)
	assert.Empty(t, third.Unlocked, "categories without rule are never awarded")

	f.achievements.RegisterRule(entity.AchievementStreak, func(p service.Progress, requirement int) bool {
		return p.Completed >= requirement
	})
	unlocked, err := f.achievements.EvaluateAfterCompletion(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, unlocked, 1)
	assert.Equal(t, streak.ID, unlocked[0].ID)
	assert.Equal(t, 45, f.user(t, user.ID).Score)
}

func TestManualAward(t *testing.T) {
	f := newFixture(t, service.DefaultAchievements())
	ctx := context.Background()
	user := f.createUser(t, "alice", "", "")

	award, err := f.achievements.Award(ctx, &service.AwardRequest{UserID: user.ID, AchievementID: 3})
	require.NoError(t, err)
	assert.Equal(t, "Priority Master", award.Achievement.Name)
	assert.Equal(t, user.ID, award.UserAchievement.UserID)
	assert.False(t, award.UserAchievement.EarnedAt.IsZero())
	assert.Equal(t, 30, award.User.Score)

	testCases := []struct {
		name string
		req  service.AwardRequest
		err  error
	}{
		{"already earned", service.AwardRequest{UserID: user.ID, AchievementID: 3}, errorvalues.ErrAchievementEarned},
		{"unknown achievement", service.AwardRequest{UserID: user.ID, AchievementID: 99}, errorvalues.ErrAchievementNotFound},
		{"unknown user", service.AwardRequest{UserID: 99, AchievementID: 1}, errorvalues.ErrUserNotFound},
		{"invalid request", service.AwardRequest{AchievementID: 1}, errorvalues.ErrValidation},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.achievements.Award(ctx, &tc.req)
			assert.ErrorIs(t, err, tc.err)
		})
	}
	assert.Equal(t, 30, f.user(t, user.ID).Score)
}

func TestListAndCreateAchievements(t *testing.T) {
	f := newFixture(t, service.DefaultAchievements())
	ctx := context.Background()

	all, err := f.achievements.ListAchievements(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = f.achievements.CreateAchievement(ctx, &service.CreateAchievementRequest{Name: "Zero", Category: entity.AchievementCompletion})
	assert.ErrorIs(t, err, errorvalues.ErrValidation, "requirement must be positive")

	_, err = f.achievements.UserAchievements(ctx, 404)
	assert.ErrorIs(t, err, errorvalues.ErrUserNotFound)
}

func TestConcurrentCompletionsAwardOnce(t *testing.T) {
	f := newFixture(t, service.DefaultAchievements())
	ctx := context.Background()
	user := f.createUser(t, "alice", "", "")

	tasks := make([]*entity.Task, 20)
	for i := range tasks {
		tasks[i] = f.createTask(t, user.ID, entity.PriorityMedium, entity.DifficultyNormal)
	}
	var wg sync.WaitGroup
	for _, task := range tasks {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			_, err := f.tasks.SetTaskStatus(ctx, id, entity.StatusComplete)
			assert.NoError(t, err)
		}(task.ID)
	}
	wg.Wait()

	earned, err := f.achievements.UserAchievements(ctx, user.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"First Task Complete", "High Achiever"}, achievementNames(earned))
	assert.Equal(t, 200+10+25, f.user(t, user.ID).Score)
}

func TestEvaluateRepositoryErrors(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUsersRepositoryI(ctrl)
	tasks := mocks.NewMockTasksRepositoryI(ctrl)
	repo := mocks.NewMockAchievementsRepositoryI(ctrl)
	scoring := service.NewScoringService(users, service.ScoringOpts{Logger: discardLogger})
	as := service.NewAchievementsService(repo, tasks, scoring)
	uid := int64(1)
	done := []*entity.Task{{ID: 1, UserID: &uid, Completed: true, Status: entity.StatusComplete}}
	first := &entity.Achievement{ID: 1, Name: "First", Points: 10, Requirement: 1, Category: entity.AchievementCompletion}

	t.Run("tasks listing error", func(t *testing.T) {
		tasks.EXPECT().GetByUserID(gomock.Any(), uid).Return(nil, errors.New("db error"))
		_, err := as.EvaluateAfterCompletion(ctx, uid)
		assert.Error(t, err)
	})
	t.Run("catalog error", func(t *testing.T) {
		tasks.EXPECT().GetByUserID(gomock.Any(), uid).Return(done, nil)
		repo.EXPECT().GetAll(gomock.Any()).Return(nil, errors.New("db error"))
		_, err := as.EvaluateAfterCompletion(ctx, uid)
		assert.Error(t, err)
	})
	t.Run("award error", func(t *testing.T) {
		tasks.EXPECT().GetByUserID(gomock.Any(), uid).Return(done, nil)
		repo.EXPECT().GetAll(gomock.Any()).Return([]*entity.Achievement{first}, nil)
		repo.EXPECT().GetEarnedByUser(gomock.Any(), uid).Return([]*entity.Achievement{}, nil)
		repo.EXPECT().Award(gomock.Any(), gomock.Any()).Return(int64(0), errors.New("db error"))
		unlocked, err := as.EvaluateAfterCompletion(ctx, uid)
		assert.Error(t, err)
		assert.Empty(t, unlocked)
	})
	t.Run("earned is rechecked", func(t *testing.T) {
		tasks.EXPECT().GetByUserID(gomock.Any(), uid).Return(done, nil)
		repo.EXPECT().GetAll(gomock.Any()).Return([]*entity.Achievement{first}, nil)
		repo.EXPECT().GetEarnedByUser(gomock.Any(), uid).Return([]*entity.Achievement{first}, nil)
		unlocked, err := as.EvaluateAfterCompletion(ctx, uid)
		assert.NoError(t, err)
		assert.Empty(t, unlocked)
	})
	t.Run("awarded and credited", func(t *testing.T) {
		tasks.EXPECT().GetByUserID(gomock.Any(), uid).Return(done, nil)
		repo.EXPECT().GetAll(gomock.Any()).Return([]*entity.Achievement{first}, nil)
		repo.EXPECT().GetEarnedByUser(gomock.Any(), uid).Return([]*entity.Achievement{}, nil)
		repo.EXPECT().Award(gomock.Any(), gomock.Any()).Return(int64(7), nil)
		users.EXPECT().FindByID(gomock.Any(), uid).Return(&entity.User{ID: uid, Score: 95, Level: entity.LevelBronze}, nil)
		users.EXPECT().UpdateScore(gomock.Any(), uid, 105, entity.LevelSilver).Return(nil)
		unlocked, err := as.EvaluateAfterCompletion(ctx, uid)
		require.NoError(t, err)
		assert.Equal(t, []*entity.Achievement{first}, unlocked)
	})
}
