package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	errorvalues "github.com/limbo/questboard/internal/error_values"
	"github.com/limbo/questboard/pkg/entity"
)

type AchievementsRepository struct {
	conn PgConnection
}

func NewAchievementsRepo(conn PgConnection) *AchievementsRepository {
	return &AchievementsRepository{
		conn: conn,
	}
}

func (ar *AchievementsRepository) Create(ctx context.Context, achievement *entity.Achievement) (int64, error) {
	var id int64
	row := ar.conn.QueryRow(ctx, `INSERT INTO achievements (name, description, icon, points, requirement, category) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id;`,
		achievement.Name,
		achievement.Description,
		achievement.Icon,
		achievement.Points,
		achievement.Requirement,
		achievement.Category,
	)
	if err := row.Scan(&id); err != nil {
		return 0, errors.New("creating achievement db error: " + err.Error())
	}
	return id, nil
}

func (ar *AchievementsRepository) GetByID(ctx context.Context, id int64) (*entity.Achievement, error) {
	var a entity.Achievement
	row := ar.conn.QueryRow(ctx, `SELECT id, name, description, icon, points, requirement, category FROM achievements WHERE id = $1;`, id)
	if err := row.Scan(&a.ID, &a.Name, &a.Description, &a.Icon, &a.Points, &a.Requirement, &a.Category); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrAchievementNotFound
		}
		return nil, errors.New("getting achievement by id error: " + err.Error())
	}
	return &a, nil
}

func (ar *AchievementsRepository) GetAll(ctx context.Context) ([]*entity.Achievement, error) {
	return ar.list(ctx, `SELECT id, name, description, icon, points, requirement, category FROM achievements ORDER BY id;`)
}

func (ar *AchievementsRepository) GetEarnedByUser(ctx context.Context, uid int64) ([]*entity.Achievement, error) {
	return ar.list(ctx, `SELECT a.id, a.name, a.description, a.icon, a.points, a.requirement, a.category
		FROM user_achievements ua JOIN achievements a ON a.id = ua.achievement_id
		WHERE ua.user_id = $1 ORDER BY ua.id;`, uid)
}

func (ar *AchievementsRepository) Award(ctx context.Context, ua *entity.UserAchievement) (int64, error) {
	var id int64
	row := ar.conn.QueryRow(ctx, `INSERT INTO user_achievements (user_id, achievement_id, earned_at) VALUES ($1, $2, $3) RETURNING id;`,
		ua.UserID,
		ua.AchievementID,
		ua.EarnedAt,
	)
	if err := row.Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// FK violation. Achievement is resolved by caller before awarding
			case "23503":
				return 0, errorvalues.ErrUserNotFound
			}
		}
		return 0, errors.New("awarding achievement error: " + err.Error())
	}
	return id, nil
}

func (ar *AchievementsRepository) list(ctx context.Context, query string, args ...any) ([]*entity.Achievement, error) {
	rows, err := ar.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.New("listing achievements error: " + err.Error())
	}
	defer rows.Close()
	achievements := make([]*entity.Achievement, 0)
	for rows.Next() {
		a := entity.Achievement{}
		if err = rows.Scan(&a.ID, &a.Name, &a.Description, &a.Icon, &a.Points, &a.Requirement, &a.Category); err != nil {
			return nil, errors.New("unmarshalling achievement error: " + err.Error())
		}
		achievements = append(achievements, &a)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.New("unexpected error after scanning achievements: " + err.Error())
	}
	return achievements, nil
}
