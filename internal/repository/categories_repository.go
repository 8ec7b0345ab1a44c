package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	errorvalues "github.com/limbo/questboard/internal/error_values"
	"github.com/limbo/questboard/pkg/entity"
)

type CategoriesRepository struct {
	conn PgConnection
}

func NewCategoriesRepo(conn PgConnection) *CategoriesRepository {
	return &CategoriesRepository{
		conn: conn,
	}
}

func (cr *CategoriesRepository) Create(ctx context.Context, category *entity.Category) (int64, error) {
	var id int64
	row := cr.conn.QueryRow(ctx, `INSERT INTO categories (name, color, user_id) VALUES ($1, $2, $3) RETURNING id;`,
		category.Name,
		category.Color,
		category.UserID,
	)
	if err := row.Scan(&id); err != nil {
		return 0, errors.New("creating category db error: " + err.Error())
	}
	return id, nil
}

func (cr *CategoriesRepository) GetByID(ctx context.Context, id int64) (*entity.Category, error) {
	var category entity.Category
	row := cr.conn.QueryRow(ctx, `SELECT id, name, color, user_id FROM categories WHERE id = $1;`, id)
	if err := row.Scan(&category.ID, &category.Name, &category.Color, &category.UserID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrCategoryNotFound
		}
		return nil, errors.New("getting category by id error: " + err.Error())
	}
	return &category, nil
}

func (cr *CategoriesRepository) GetAll(ctx context.Context) ([]*entity.Category, error) {
	rows, err := cr.conn.Query(ctx, `SELECT id, name, color, user_id FROM categories ORDER BY id;`)
	if err != nil {
		return nil, errors.New("listing categories error: " + err.Error())
	}
	defer rows.Close()
	categories := make([]*entity.Category, 0)
	for rows.Next() {
		c := entity.Category{}
		if err = rows.Scan(&c.ID, &c.Name, &c.Color, &c.UserID); err != nil {
			return nil, errors.New("unmarshalling category error: " + err.Error())
		}
		categories = append(categories, &c)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.New("unexpected error after scanning categories: " + err.Error())
	}
	return categories, nil
}

func (cr *CategoriesRepository) Update(ctx context.Context, category *entity.Category) error {
	ct, err := cr.conn.Exec(ctx, `UPDATE categories SET name = $1, color = $2, user_id = $3 WHERE id = $4;`,
		category.Name,
		category.Color,
		category.UserID,
		category.ID,
	)
	if err != nil {
		return errors.New("updating category error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrCategoryNotFound
	}
	return nil
}

func (cr *CategoriesRepository) Delete(ctx context.Context, id int64) error {
	ct, err := cr.conn.Exec(ctx, `DELETE FROM categories WHERE id = $1;`, id)
	if err != nil {
		return errors.New("deleting category error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrCategoryNotFound
	}
	return nil
}
