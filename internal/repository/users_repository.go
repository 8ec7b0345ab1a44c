package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	errorvalues "github.com/limbo/questboard/internal/error_values"
	"github.com/limbo/questboard/pkg/entity"
)

type UsersRepository struct {
	conn PgConnection
}

func NewUsersRepo(conn PgConnection) *UsersRepository {
	return &UsersRepository{
		conn: conn,
	}
}

func (ur *UsersRepository) Create(ctx context.Context, user *entity.User) (int64, error) {
	if user == nil {
		return 0, errors.New("user is nil")
	}
	var id int64
	row := ur.conn.QueryRow(ctx, `INSERT INTO users (username, password_hash, score, level, region, country) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id;`,
		user.Username,
		user.PasswordHash,
		user.Score,
		user.Level,
		user.Region,
		user.Country,
	)
	if err := row.Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return 0, errorvalues.ErrUserExists
		}
		return 0, errors.New("creating user db error: " + err.Error())
	}
	return id, nil
}

func (ur *UsersRepository) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	row := ur.conn.QueryRow(ctx, `SELECT id, username, password_hash, score, level, region, country, created_at FROM users WHERE id = $1;`, id)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrUserNotFound
		}
		return nil, errors.New("searching user by id error: " + err.Error())
	}
	return user, nil
}

func (ur *UsersRepository) FindByName(ctx context.Context, name string) (*entity.User, error) {
	row := ur.conn.QueryRow(ctx, `SELECT id, username, password_hash, score, level, region, country, created_at FROM users WHERE username = $1;`, name)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrUserNotFound
		}
		return nil, errors.New("searching user by name error: " + err.Error())
	}
	return user, nil
}

func (ur *UsersRepository) GetAll(ctx context.Context) ([]*entity.User, error) {
	rows, err := ur.conn.Query(ctx, `SELECT id, username, password_hash, score, level, region, country, created_at FROM users ORDER BY id;`)
	if err != nil {
		return nil, errors.New("listing users error: " + err.Error())
	}
	defer rows.Close()
	users := make([]*entity.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, errors.New("unmarshalling user error: " + err.Error())
		}
		users = append(users, user)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.New("unexpected error after scanning users: " + err.Error())
	}
	return users, nil
}

func (ur *UsersRepository) Update(ctx context.Context, user *entity.User) error {
	ct, err := ur.conn.Exec(ctx, `UPDATE users SET username = $1, region = $2, country = $3 WHERE id = $4;`,
		user.Username,
		user.Region,
		user.Country,
		user.ID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return errorvalues.ErrUserExists
		}
		return errors.New("updating user error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrUserNotFound
	}
	return nil
}

func (ur *UsersRepository) UpdateScore(ctx context.Context, id int64, score int, level entity.Level) error {
	ct, err := ur.conn.Exec(ctx, `UPDATE users SET score = $1, level = $2 WHERE id = $3;`, score, level, id)
	if err != nil {
		return errors.New("updating user score error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrUserNotFound
	}
	return nil
}

func (ur *UsersRepository) Delete(ctx context.Context, id int64) error {
	ct, err := ur.conn.Exec(ctx, `DELETE FROM users WHERE id = $1;`, id)
	if err != nil {
		return errors.New("deleting user error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrUserNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var user entity.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.Score,
		&user.Level,
		&user.Region,
		&user.Country,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
