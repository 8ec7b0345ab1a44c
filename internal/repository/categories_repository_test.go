package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errorvalues "github.com/limbo/questboard/internal/error_values"
	"github.com/limbo/questboard/internal/repository"
	"github.com/limbo/questboard/pkg/entity"
)

var categoryColumns = []string{"id", "name", "color", "user_id"}

func testCategory() entity.Category {
	uid := int64(1)
	return entity.Category{ID: 3, Name: "Work", Color: "#3B82F6", UserID: &uid}
}

func TestCreateCategory(t *testing.T) {
	conn, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer conn.Close()
	ctx := context.Background()
	repo := repository.NewCategoriesRepo(conn)
	category := testCategory()
	query := regexp.QuoteMeta(`INSERT INTO categories (name, color, user_id) VALUES ($1, $2, $3) RETURNING id;`)

	t.Run("created", func(t *testing.T) {
		conn.ExpectQuery(query).WithArgs(category.Name, category.Color, category.UserID).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(3)))
		id, err := repo.Create(ctx, &category)
		assert.NoError(t, err)
		assert.Equal(t, int64(3), id)
	})
	t.Run("db error", func(t *testing.T) {
		conn.ExpectQuery(query).WithArgs(category.Name, category.Color, category.UserID).
			WillReturnError(errors.New("db error"))
		_, err := repo.Create(ctx, &category)
		assert.Error(t, err)
	})
	assert.NoError(t, conn.ExpectationsWereMet())
}

func TestGetCategories(t *testing.T) {
	conn, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer conn.Close()
	ctx := context.Background()
	repo := repository.NewCategoriesRepo(conn)
	category := testCategory()
	shared := entity.Category{ID: 4, Name: "Health", Color: "#10B981"}
	byID := regexp.QuoteMeta(`SELECT id, name, color, user_id FROM categories WHERE id = $1;`)
	all := regexp.QuoteMeta(`SELECT id, name, color, user_id FROM categories ORDER BY id;`)

	t.Run("found", func(t *testing.T) {
		conn.ExpectQuery(byID).WithArgs(category.ID).
			WillReturnRows(pgxmock.NewRows(categoryColumns).AddRow(category.ID, category.Name, category.Color, category.UserID))
		got, err := repo.GetByID(ctx, category.ID)
		require.NoError(t, err)
		assert.Equal(t, category, *got)
	})
	t.Run("not found", func(t *testing.T) {
		conn.ExpectQuery(byID).WithArgs(int64(404)).WillReturnError(pgx.ErrNoRows)
		_, err := repo.GetByID(ctx, 404)
		assert.ErrorIs(t, err, errorvalues.ErrCategoryNotFound)
	})
	t.Run("all", func(t *testing.T) {
		rows := pgxmock.NewRows(categoryColumns).
			AddRow(category.ID, category.Name, category.Color, category.UserID).
			AddRow(shared.ID, shared.Name, shared.Color, shared.UserID)
		conn.ExpectQuery(all).WillReturnRows(rows)
		got, err := repo.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, category, *got[0])
		assert.Nil(t, got[1].UserID)
	})
	t.Run("all db error", func(t *testing.T) {
		conn.ExpectQuery(all).WillReturnError(errors.New("db error"))
		_, err := repo.GetAll(ctx)
		assert.Error(t, err)
	})
	assert.NoError(t, conn.ExpectationsWereMet())
}

func TestUpdateDeleteCategory(t *testing.T) {
	conn, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer conn.Close()
	ctx := context.Background()
	repo := repository.NewCategoriesRepo(conn)
	category := testCategory()
	update := regexp.QuoteMeta(`UPDATE categories SET name = $1, color = $2, user_id = $3 WHERE id = $4;`)
	del := regexp.QuoteMeta(`DELETE FROM categories WHERE id = $1;`)

	t.Run("updated", func(t *testing.T) {
		conn.ExpectExec(update).WithArgs(category.Name, category.Color, category.UserID, category.ID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		assert.NoError(t, repo.Update(ctx, &category))
	})
	t.Run("update missing", func(t *testing.T) {
		conn.ExpectExec(update).WithArgs(category.Name, category.Color, category.UserID, category.ID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))
		assert.ErrorIs(t, repo.Update(ctx, &category), errorvalues.ErrCategoryNotFound)
	})
	t.Run("deleted", func(t *testing.T) {
		conn.ExpectExec(del).WithArgs(category.ID).WillReturnResult(pgxmock.NewResult("DELETE", 1))
		assert.NoError(t, repo.Delete(ctx, category.ID))
	})
	t.Run("delete missing", func(t *testing.T) {
		conn.ExpectExec(del).WithArgs(category.ID).WillReturnResult(pgxmock.NewResult("DELETE", 0))
		assert.ErrorIs(t, repo.Delete(ctx, category.ID), errorvalues.ErrCategoryNotFound)
	})
	t.Run("delete db error", func(t *testing.T) {
		conn.ExpectExec(del).WithArgs(category.ID).WillReturnError(errors.New("db error"))
		err := repo.Delete(ctx, category.ID)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, errorvalues.ErrCategoryNotFound)
	})
	assert.NoError(t, conn.ExpectationsWereMet())
}
