package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/limbo/questboard/pkg/entity"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

type UsersRepositoryI interface {
	// Creates new user and returns its id. Username must be unique
	Create(ctx context.Context, user *entity.User) (int64, error)
	// Looks up user by id
	FindByID(ctx context.Context, id int64) (*entity.User, error)
	// Looks up user by name
	FindByName(ctx context.Context, name string) (*entity.User, error)
	// Lists every user in ascending id order
	GetAll(ctx context.Context) ([]*entity.User, error)
	// Updates profile fields (username, region, country). Score and level are untouched
	Update(ctx context.Context, user *entity.User) error
	// Stores new score and level of user
	UpdateScore(ctx context.Context, id int64, score int, level entity.Level) error
	// Deletes user
	Delete(ctx context.Context, id int64) error
}

type CategoriesRepositoryI interface {
	Create(ctx context.Context, category *entity.Category) (int64, error)
	GetByID(ctx context.Context, id int64) (*entity.Category, error)
	GetAll(ctx context.Context) ([]*entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	Delete(ctx context.Context, id int64) error
}

type TasksRepositoryI interface {
	// Creates new task and returns its id. Defaults must be filled by caller
	Create(ctx context.Context, task *entity.Task) (int64, error)
	GetByID(ctx context.Context, id int64) (*entity.Task, error)
	GetAll(ctx context.Context) ([]*entity.Task, error)
	GetByUserID(ctx context.Context, uid int64) ([]*entity.Task, error)
	GetByCategoryID(ctx context.Context, categoryID int64) ([]*entity.Task, error)
	GetByGoalID(ctx context.Context, goalID int64) ([]*entity.Task, error)
	// Tasks with due date in [from, to)
	GetDueBetween(ctx context.Context, from, to time.Time) ([]*entity.Task, error)
	GetHighPriority(ctx context.Context) ([]*entity.Task, error)
	// Tasks that are completed or have status complete
	GetCompleted(ctx context.Context) ([]*entity.Task, error)
	// Overwrites every mutable column of task with given ID
	Update(ctx context.Context, task *entity.Task) error
	Delete(ctx context.Context, id int64) error
}

type GoalsRepositoryI interface {
	Create(ctx context.Context, goal *entity.Goal) (int64, error)
	GetByID(ctx context.Context, id int64) (*entity.Goal, error)
	GetAll(ctx context.Context) ([]*entity.Goal, error)
	GetByUserID(ctx context.Context, uid int64) ([]*entity.Goal, error)
	Update(ctx context.Context, goal *entity.Goal) error
	Delete(ctx context.Context, id int64) error
}

type AchievementsRepositoryI interface {
	Create(ctx context.Context, achievement *entity.Achievement) (int64, error)
	GetByID(ctx context.Context, id int64) (*entity.Achievement, error)
	// Whole catalog in ascending id order
	GetAll(ctx context.Context) ([]*entity.Achievement, error)
	// Achievements earned by user in the order they were earned
	GetEarnedByUser(ctx context.Context, uid int64) ([]*entity.Achievement, error)
	// Inserts user achievement record. No uniqueness is enforced here
	Award(ctx context.Context, ua *entity.UserAchievement) (int64, error)
}

type DBConfig interface {
	ConnString() string
}

type PgConnection interface {
	Ping(ctx context.Context) error
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PGCfg struct {
	Address  string
	Username string
	Password string
	DB       string
}

func (pgcfg *PGCfg) ConnString() string {
	return fmt.Sprintf("postgresql://%s:%s@%s/%s", pgcfg.Username, pgcfg.Password, pgcfg.Address, pgcfg.DB)
}
