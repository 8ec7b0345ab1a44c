package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	errorvalues "github.com/limbo/questboard/internal/error_values"
	"github.com/limbo/questboard/internal/repository/memory"
	"github.com/limbo/questboard/internal/repository/mocks"
	"github.com/limbo/questboard/internal/service"
	"github.com/limbo/questboard/pkg/entity"
)

func TestMain(m *testing.M) {
	service.InitValidator()
	m.Run()
}

func TestUserService(t *testing.T) {
	repo := memory.NewUsersRepo()
	us := service.NewUserService(repo)
	ctx := context.Background()
	var user *entity.User
	var err error

	t.Run("created", func(t *testing.T) {
		user, err = us.Create(ctx, &service.CreateUserRequest{
			Username: "test_user",
			Password: "test_password",
			Country:  "Kenya",
		})
		require.NoError(t, err)
		assert.Equal(t, "test_user", user.Username)
		assert.Zero(t, user.Score)
		assert.Equal(t, entity.LevelBronze, user.Level)
		assert.Equal(t, "Kenya", user.Country)
		assert.Equal(t, entity.GlobalLocation, user.Region)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("test_password")))
	})
	t.Run("duplicate username", func(t *testing.T) {
		_, err := us.Create(ctx, &service.CreateUserRequest{Username: "test_user", Password: "test_password"})
		assert.ErrorIs(t, err, errorvalues.ErrUserExists)
	})
	t.Run("invalid", func(t *testing.T) {
		testCases := []service.CreateUserRequest{
			{Username: "ab", Password: "test_password"},
			{Username: "1user", Password: "test_password"},
			{Username: "bad-name", Password: "test_password"},
			{Username: "good_name", Password: "short"},
		}
		for _, req := range testCases {
			_, err := us.Create(ctx, &req)
			assert.ErrorIs(t, err, errorvalues.ErrValidation, req.Username)
		}
	})
	t.Run("found by id", func(t *testing.T) {
		res, err := us.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, *user, *res)
	})
	t.Run("not found by id", func(t *testing.T) {
		_, err := us.GetByID(ctx, 404)
		assert.ErrorIs(t, err, errorvalues.ErrUserNotFound)
	})
	t.Run("location updated", func(t *testing.T) {
		res, err := us.UpdateLocation(ctx, user.ID, &service.UpdateUserRequest{Region: ptr("Africa"), Country: ptr("")})
		require.NoError(t, err)
		assert.Equal(t, "Africa", res.Region)
		assert.Equal(t, entity.GlobalLocation, res.Country)
	})
	t.Run("location of missing user", func(t *testing.T) {
		_, err := us.UpdateLocation(ctx, 404, &service.UpdateUserRequest{Region: ptr("Asia")})
		assert.ErrorIs(t, err, errorvalues.ErrUserNotFound)
	})
}

func TestEnsureUser(t *testing.T) {
	ctx := context.Background()

	t.Run("created on empty store", func(t *testing.T) {
		repo := memory.NewUsersRepo()
		us := service.NewUserService(repo)
		id, err := us.EnsureUser(ctx, 1, "demo_user", discardLogger)
		require.NoError(t, err)
		assert.Equal(t, int64(1), id)
		again, err := us.EnsureUser(ctx, 1, "demo_user", discardLogger)
		require.NoError(t, err)
		assert.Equal(t, id, again)
		all, err := repo.GetAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})
	t.Run("found by name under another id", func(t *testing.T) {
		repo := memory.NewUsersRepo()
		us := service.NewUserService(repo)
		_, err := repo.Create(ctx, &entity.User{Username: "someone"})
		require.NoError(t, err)
		demo, err := repo.Create(ctx, &entity.User{Username: "demo_user"})
		require.NoError(t, err)
		id, err := us.EnsureUser(ctx, 7, "demo_user", discardLogger)
		require.NoError(t, err)
		assert.Equal(t, demo, id)
	})
	t.Run("repository error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mocks.NewMockUsersRepositoryI(ctrl)
		us := service.NewUserService(repo)
		repo.EXPECT().FindByID(gomock.Any(), int64(1)).Return(nil, errors.New("db error"))
		_, err := us.EnsureUser(ctx, 1, "demo_user", discardLogger)
		assert.Error(t, err)
	})
}

func TestUserServiceRepositoryErrors(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockUsersRepositoryI(ctrl)
	us := service.NewUserService(repo)

	t.Run("create db error", func(t *testing.T) {
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(int64(0), errors.New("db error"))
		_, err := us.Create(ctx, &service.CreateUserRequest{Username: "test_user", Password: "test_password"})
		assert.Error(t, err)
		assert.NotErrorIs(t, err, errorvalues.ErrUserExists)
	})
	t.Run("get db error", func(t *testing.T) {
		repo.EXPECT().FindByID(gomock.Any(), int64(1)).Return(nil, errors.New("db error"))
		_, err := us.GetByID(ctx, 1)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, errorvalues.ErrUserNotFound)
	})
	t.Run("update db error", func(t *testing.T) {
		repo.EXPECT().FindByID(gomock.Any(), int64(1)).Return(&entity.User{ID: 1, Username: "test_user"}, nil)
		repo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(errors.New("db error"))
		_, err := us.UpdateLocation(ctx, 1, &service.UpdateUserRequest{Country: ptr("Peru")})
		assert.Error(t, err)
	})
}
