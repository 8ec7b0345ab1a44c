package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	errorvalues "github.com/limbo/questboard/internal/error_values"
	"github.com/limbo/questboard/internal/repository"
	"github.com/limbo/questboard/pkg/entity"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	repo repository.UsersRepositoryI
}

func NewUserService(usersRepo repository.UsersRepositoryI) *UserService {
	return &UserService{
		repo: usersRepo,
	}
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// location treats empty value as Global.
func location(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return entity.GlobalLocation
	}
	return v
}

func (us *UserService) Create(ctx context.Context, req *CreateUserRequest) (*entity.User, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	passwordHash, err := hashPassword(req.Password)
	if err != nil {
		return nil, errors.New("hashing password error: " + err.Error())
	}
	user := &entity.User{
		Username:     req.Username,
		PasswordHash: passwordHash,
		Score:        0,
		Level:        LevelFor(0),
		Region:       location(req.Region),
		Country:      location(req.Country),
	}
	id, err := us.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserExists) {
			return nil, err
		}
		return nil, errors.New("repository creating error: " + err.Error())
	}
	created, err := us.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("repository searching error: " + err.Error())
	}
	return created, nil
}

func (us *UserService) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	user, err := us.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, err
		}
		return nil, errors.New("repository searching error: " + err.Error())
	}
	return user, nil
}

func (us *UserService) UpdateLocation(ctx context.Context, id int64, req *UpdateUserRequest) (*entity.User, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	user, err := us.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Region != nil {
		user.Region = location(*req.Region)
	}
	if req.Country != nil {
		user.Country = location(*req.Country)
	}
	if err = us.repo.Update(ctx, user); err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) || errors.Is(err, errorvalues.ErrUserExists) {
			return nil, err
		}
		return nil, errors.New("repository updating error: " + err.Error())
	}
	return user, nil
}

// EnsureUser makes sure a user with id exists, creating one named name
// otherwise. Storage assigns ids itself, so a created user may end up with a
// different id; the id of the existing or created user is returned.
func (us *UserService) EnsureUser(ctx context.Context, id int64, name string, logger *slog.Logger) (int64, error) {
	if user, err := us.repo.FindByID(ctx, id); err == nil {
		return user.ID, nil
	} else if !errors.Is(err, errorvalues.ErrUserNotFound) {
		return 0, errors.New("repository searching error: " + err.Error())
	}
	if user, err := us.repo.FindByName(ctx, name); err == nil {
		logger.Warn("default user found under another id",
			slog.Int64("configured_id", id), slog.Int64("id", user.ID))
		return user.ID, nil
	} else if !errors.Is(err, errorvalues.ErrUserNotFound) {
		return 0, errors.New("repository searching error: " + err.Error())
	}
	passwordHash, err := hashPassword(uuid.NewString())
	if err != nil {
		return 0, errors.New("hashing password error: " + err.Error())
	}
	created, err := us.repo.Create(ctx, &entity.User{
		Username:     name,
		PasswordHash: passwordHash,
		Level:        LevelFor(0),
		Region:       entity.GlobalLocation,
		Country:      entity.GlobalLocation,
	})
	if err != nil {
		return 0, errors.New("repository creating error: " + err.Error())
	}
	if created != id {
		logger.Warn("default user created under another id",
			slog.Int64("configured_id", id), slog.Int64("id", created))
	}
	logger.Info("default user created", slog.Int64("id", created), slog.String("username", name))
	return created, nil
}
