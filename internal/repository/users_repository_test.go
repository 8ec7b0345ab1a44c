package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errorvalues "github.com/limbo/questboard/internal/error_values"
	"github.com/limbo/questboard/internal/repository"
	"github.com/limbo/questboard/pkg/entity"
)

var userColumns = []string{"id", "username", "password_hash", "score", "level", "region", "country", "created_at"}

func testUser() entity.User {
	return entity.User{
		ID:           1,
		Username:     "test_user",
		PasswordHash: "test_password_hash",
		Score:        120,
		Level:        entity.LevelSilver,
		Region:       "Europe",
		Country:      "Germany",
		CreatedAt:    time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func userRow(u entity.User) *pgxmock.Rows {
	return pgxmock.NewRows(userColumns).
		AddRow(u.ID, u.Username, u.PasswordHash, u.Score, u.Level, u.Region, u.Country, u.CreatedAt)
}

func TestCreateUser(t *testing.T) {
	conn, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer conn.Close()
	user := testUser()
	query := regexp.QuoteMeta(`INSERT INTO users (username, password_hash, score, level, region, country) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id;`)
	ctx := context.Background()
	repo := repository.NewUsersRepo(conn)
	t.Run("successfully created", func(t *testing.T) {
		conn.ExpectQuery(query).
			WithArgs(user.Username, user.PasswordHash, user.Score, user.Level, user.Region, user.Country).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(7)))
		id, err := repo.Create(ctx, &user)
		assert.NoError(t, err)
		assert.Equal(t, int64(7), id)
	})
	t.Run("unique violation error", func(t *testing.T) {
		conn.ExpectQuery(query).
			WithArgs(user.Username, user.PasswordHash, user.Score, user.Level, user.Region, user.Country).
			WillReturnError(&pgconn.PgError{Code: "23505"})
		_, err := repo.Create(ctx, &user)
		assert.ErrorIs(t, err, errorvalues.ErrUserExists)
	})
	t.Run("db error", func(t *testing.T) {
		conn.ExpectQuery(query).
			WithArgs(user.Username, user.PasswordHash, user.Score, user.Level, user.Region, user.Country).
			WillReturnError(errors.New("db error"))
		_, err := repo.Create(ctx, &user)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, errorvalues.ErrUserExists)
	})
	t.Run("nil user", func(t *testing.T) {
		_, err := repo.Create(ctx, nil)
		assert.Error(t, err)
	})
	assert.NoError(t, conn.ExpectationsWereMet())
}

func TestFindUser(t *testing.T) {
	conn, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer conn.Close()
	ctx := context.Background()
	repo := repository.NewUsersRepo(conn)
	user := testUser()
	byID := regexp.QuoteMeta(`SELECT id, username, password_hash, score, level, region, country, created_at FROM users WHERE id = $1;`)
	byName := regexp.QuoteMeta(`SELECT id, username, password_hash, score, level, region, country, created_at FROM users WHERE username = $1;`)

	t.Run("found by id", func(t *testing.T) {
		conn.ExpectQuery(byID).WithArgs(user.ID).WillReturnRows(userRow(user))
		result, err := repo.FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, user, *result)
	})
	t.Run("not found by id", func(t *testing.T) {
		conn.ExpectQuery(byID).WithArgs(int64(404)).WillReturnError(pgx.ErrNoRows)
		_, err := repo.FindByID(ctx, 404)
		assert.ErrorIs(t, err, errorvalues.ErrUserNotFound)
	})
	t.Run("found by name", func(t *testing.T) {
		conn.ExpectQuery(byName).WithArgs(user.Username).WillReturnRows(userRow(user))
		result, err := repo.FindByName(ctx, user.Username)
		require.NoError(t, err)
		assert.Equal(t, user, *result)
	})
	t.Run("not found by name", func(t *testing.T) {
		conn.ExpectQuery(byName).WithArgs("ghost").WillReturnError(pgx.ErrNoRows)
		_, err := repo.FindByName(ctx, "ghost")
		assert.ErrorIs(t, err, errorvalues.ErrUserNotFound)
	})
	t.Run("db error", func(t *testing.T) {
		conn.ExpectQuery(byName).WithArgs(user.Username).WillReturnError(errors.New("db error"))
		_, err := repo.FindByName(ctx, user.Username)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, errorvalues.ErrUserNotFound)
	})
	assert.NoError(t, conn.ExpectationsWereMet())
}

func TestGetAllUsers(t *testing.T) {
	conn, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer conn.Close()
	ctx := context.Background()
	repo := repository.NewUsersRepo(conn)
	first, second := testUser(), testUser()
	second.ID, second.Username, second.Score = 2, "second", 5
	query := regexp.QuoteMeta(`SELECT id, username, password_hash, score, level, region, country, created_at FROM users ORDER BY id;`)

	t.Run("listed in id order", func(t *testing.T) {
		rows := userRow(first).
			AddRow(second.ID, second.Username, second.PasswordHash, second.Score, second.Level, second.Region, second.Country, second.CreatedAt)
		conn.ExpectQuery(query).WillReturnRows(rows)
		users, err := repo.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, users, 2)
		assert.Equal(t, first, *users[0])
		assert.Equal(t, second, *users[1])
	})
	t.Run("empty", func(t *testing.T) {
		conn.ExpectQuery(query).WillReturnRows(pgxmock.NewRows(userColumns))
		users, err := repo.GetAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, users)
	})
	t.Run("db error", func(t *testing.T) {
		conn.ExpectQuery(query).WillReturnError(errors.New("db error"))
		_, err := repo.GetAll(ctx)
		assert.Error(t, err)
	})
	assert.NoError(t, conn.ExpectationsWereMet())
}

func TestUpdateUser(t *testing.T) {
	conn, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer conn.Close()
	ctx := context.Background()
	repo := repository.NewUsersRepo(conn)
	user := testUser()
	profile := regexp.QuoteMeta(`UPDATE users SET username = $1, region = $2, country = $3 WHERE id = $4;`)
	score := regexp.QuoteMeta(`UPDATE users SET score = $1, level = $2 WHERE id = $3;`)

	t.Run("profile updated", func(t *testing.T) {
		conn.ExpectExec(profile).WithArgs(user.Username, user.Region, user.Country, user.ID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		assert.NoError(t, repo.Update(ctx, &user))
	})
	t.Run("profile of missing user", func(t *testing.T) {
		conn.ExpectExec(profile).WithArgs(user.Username, user.Region, user.Country, user.ID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))
		assert.ErrorIs(t, repo.Update(ctx, &user), errorvalues.ErrUserNotFound)
	})
	t.Run("username taken", func(t *testing.T) {
		conn.ExpectExec(profile).WithArgs(user.Username, user.Region, user.Country, user.ID).
			WillReturnError(&pgconn.PgError{Code: "23505"})
		assert.ErrorIs(t, repo.Update(ctx, &user), errorvalues.ErrUserExists)
	})
	t.Run("score updated", func(t *testing.T) {
		conn.ExpectExec(score).WithArgs(250, entity.LevelGold, user.ID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		assert.NoError(t, repo.UpdateScore(ctx, user.ID, 250, entity.LevelGold))
	})
	t.Run("score of missing user", func(t *testing.T) {
		conn.ExpectExec(score).WithArgs(10, entity.LevelBronze, int64(404)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))
		assert.ErrorIs(t, repo.UpdateScore(ctx, 404, 10, entity.LevelBronze), errorvalues.ErrUserNotFound)
	})
	t.Run("score db error", func(t *testing.T) {
		conn.ExpectExec(score).WithArgs(10, entity.LevelBronze, user.ID).
			WillReturnError(errors.New("db error"))
		assert.Error(t, repo.UpdateScore(ctx, user.ID, 10, entity.LevelBronze))
	})
	assert.NoError(t, conn.ExpectationsWereMet())
}

func TestDeleteUser(t *testing.T) {
	conn, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer conn.Close()
	ctx := context.Background()
	repo := repository.NewUsersRepo(conn)
	query := regexp.QuoteMeta(`DELETE FROM users WHERE id = $1;`)
	t.Run("deleted", func(t *testing.T) {
		conn.ExpectExec(query).WithArgs(int64(1)).WillReturnResult(pgxmock.NewResult("DELETE", 1))
		assert.NoError(t, repo.Delete(ctx, 1))
	})
	t.Run("not found", func(t *testing.T) {
		conn.ExpectExec(query).WithArgs(int64(1)).WillReturnResult(pgxmock.NewResult("DELETE", 0))
		assert.ErrorIs(t, repo.Delete(ctx, 1), errorvalues.ErrUserNotFound)
	})
	t.Run("db error", func(t *testing.T) {
		conn.ExpectExec(query).WithArgs(int64(1)).WillReturnError(errors.New("db error"))
		assert.Error(t, repo.Delete(ctx, 1))
	})
	assert.NoError(t, conn.ExpectationsWereMet())
}
