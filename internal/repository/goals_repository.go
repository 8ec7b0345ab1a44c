package repository

import (
	"context"
	"errors"

	"github.com/bytedance/sonic"
	"github.com/jackc/pgx/v5"
	errorvalues "github.com/limbo/questboard/internal/error_values"
	"github.com/limbo/questboard/pkg/entity"
)

const goalColumns = `id, user_id, title, description, category, timeframe, progress, roadmap, completed_at, created_at`

type GoalsRepository struct {
	conn PgConnection
}

func NewGoalsRepo(conn PgConnection) *GoalsRepository {
	return &GoalsRepository{
		conn: conn,
	}
}

func (gr *GoalsRepository) Create(ctx context.Context, goal *entity.Goal) (int64, error) {
	roadmap, err := marshalRoadmap(goal.Roadmap)
	if err != nil {
		return 0, err
	}
	var id int64
	row := gr.conn.QueryRow(ctx, `INSERT INTO goals (user_id, title, description, category, timeframe, progress, roadmap, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id;`,
		goal.UserID,
		goal.Title,
		goal.Description,
		goal.Category,
		goal.Timeframe,
		goal.Progress,
		roadmap,
		goal.CompletedAt,
	)
	if err = row.Scan(&id); err != nil {
		return 0, errors.New("creating goal db error: " + err.Error())
	}
	return id, nil
}

func (gr *GoalsRepository) GetByID(ctx context.Context, id int64) (*entity.Goal, error) {
	row := gr.conn.QueryRow(ctx, `SELECT `+goalColumns+` FROM goals WHERE id = $1;`, id)
	goal, err := scanGoal(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrGoalNotFound
		}
		return nil, errors.New("getting goal by id error: " + err.Error())
	}
	return goal, nil
}

func (gr *GoalsRepository) GetAll(ctx context.Context) ([]*entity.Goal, error) {
	return gr.list(ctx, `SELECT `+goalColumns+` FROM goals ORDER BY id;`)
}

func (gr *GoalsRepository) GetByUserID(ctx context.Context, uid int64) ([]*entity.Goal, error) {
	return gr.list(ctx, `SELECT `+goalColumns+` FROM goals WHERE user_id = $1 ORDER BY id;`, uid)
}

func (gr *GoalsRepository) Update(ctx context.Context, goal *entity.Goal) error {
	roadmap, err := marshalRoadmap(goal.Roadmap)
	if err != nil {
		return err
	}
	ct, err := gr.conn.Exec(ctx, `UPDATE goals SET title = $1, description = $2, category = $3, timeframe = $4, progress = $5, roadmap = $6, completed_at = $7 WHERE id = $8;`,
		goal.Title,
		goal.Description,
		goal.Category,
		goal.Timeframe,
		goal.Progress,
		roadmap,
		goal.CompletedAt,
		goal.ID,
	)
	if err != nil {
		return errors.New("updating goal error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrGoalNotFound
	}
	return nil
}

func (gr *GoalsRepository) Delete(ctx context.Context, id int64) error {
	ct, err := gr.conn.Exec(ctx, `DELETE FROM goals WHERE id = $1;`, id)
	if err != nil {
		return errors.New("deleting goal error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrGoalNotFound
	}
	return nil
}

func (gr *GoalsRepository) list(ctx context.Context, query string, args ...any) ([]*entity.Goal, error) {
	rows, err := gr.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.New("listing goals error: " + err.Error())
	}
	defer rows.Close()
	goals := make([]*entity.Goal, 0)
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, errors.New("unmarshalling goal error: " + err.Error())
		}
		goals = append(goals, goal)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.New("unexpected error after scanning goals: " + err.Error())
	}
	return goals, nil
}

func scanGoal(row pgx.Row) (*entity.Goal, error) {
	var (
		g       entity.Goal
		roadmap []byte
	)
	err := row.Scan(
		&g.ID,
		&g.UserID,
		&g.Title,
		&g.Description,
		&g.Category,
		&g.Timeframe,
		&g.Progress,
		&roadmap,
		&g.CompletedAt,
		&g.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(roadmap) > 0 {
		g.Roadmap = &entity.Roadmap{}
		if err = sonic.Unmarshal(roadmap, g.Roadmap); err != nil {
			return nil, errors.New("decoding roadmap error: " + err.Error())
		}
	}
	return &g, nil
}

// nil roadmap is stored as SQL NULL
func marshalRoadmap(roadmap *entity.Roadmap) ([]byte, error) {
	if roadmap == nil {
		return nil, nil
	}
	data, err := sonic.Marshal(roadmap)
	if err != nil {
		return nil, errors.New("encoding roadmap error: " + err.Error())
	}
	return data, nil
}
