package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	errorvalues "github.com/limbo/questboard/internal/error_values"
	"github.com/limbo/questboard/pkg/entity"
)

const taskColumns = `id, title, description, due_date, priority, status, completed, completed_at, points, difficulty, category_id, user_id, has_reminder, reminder_time, is_goal_task, goal_id, created_at`

type TasksRepository struct {
	conn PgConnection
}

func NewTasksRepo(conn PgConnection) *TasksRepository {
	return &TasksRepository{
		conn: conn,
	}
}

func (tr *TasksRepository) Create(ctx context.Context, task *entity.Task) (int64, error) {
	var id int64
	row := tr.conn.QueryRow(ctx, `INSERT INTO tasks (title, description, due_date, priority, status, completed, completed_at, points, difficulty, category_id, user_id, has_reminder, reminder_time, is_goal_task, goal_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15) RETURNING id;`,
		task.Title,
		task.Description,
		task.DueDate,
		task.Priority,
		task.Status,
		task.Completed,
		task.CompletedAt,
		task.Points,
		task.Difficulty,
		task.CategoryID,
		task.UserID,
		task.HasReminder,
		task.ReminderTime,
		task.IsGoalTask,
		task.GoalID,
	)
	if err := row.Scan(&id); err != nil {
		return 0, errors.New("creating task db error: " + err.Error())
	}
	return id, nil
}

func (tr *TasksRepository) GetByID(ctx context.Context, id int64) (*entity.Task, error) {
	row := tr.conn.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1;`, id)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrTaskNotFound
		}
		return nil, errors.New("getting task by id error: " + err.Error())
	}
	return task, nil
}

func (tr *TasksRepository) GetAll(ctx context.Context) ([]*entity.Task, error) {
	return tr.list(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY id;`)
}

func (tr *TasksRepository) GetByUserID(ctx context.Context, uid int64) ([]*entity.Task, error) {
	return tr.list(ctx, `SELECT `+taskColumns+` FROM tasks WHERE user_id = $1 ORDER BY id;`, uid)
}

func (tr *TasksRepository) GetByCategoryID(ctx context.Context, categoryID int64) ([]*entity.Task, error) {
	return tr.list(ctx, `SELECT `+taskColumns+` FROM tasks WHERE category_id = $1 ORDER BY id;`, categoryID)
}

func (tr *TasksRepository) GetByGoalID(ctx context.Context, goalID int64) ([]*entity.Task, error) {
	return tr.list(ctx, `SELECT `+taskColumns+` FROM tasks WHERE goal_id = $1 ORDER BY id;`, goalID)
}

func (tr *TasksRepository) GetDueBetween(ctx context.Context, from, to time.Time) ([]*entity.Task, error) {
	return tr.list(ctx, `SELECT `+taskColumns+` FROM tasks WHERE due_date >= $1 AND due_date < $2 ORDER BY id;`, from, to)
}

func (tr *TasksRepository) GetHighPriority(ctx context.Context) ([]*entity.Task, error) {
	return tr.list(ctx, `SELECT `+taskColumns+` FROM tasks WHERE priority = $1 ORDER BY id;`, entity.PriorityHigh)
}

func (tr *TasksRepository) GetCompleted(ctx context.Context) ([]*entity.Task, error) {
	return tr.list(ctx, `SELECT `+taskColumns+` FROM tasks WHERE completed OR status = $1 ORDER BY id;`, entity.StatusComplete)
}

func (tr *TasksRepository) Update(ctx context.Context, task *entity.Task) error {
	ct, err := tr.conn.Exec(ctx, `UPDATE tasks SET title = $1, description = $2, due_date = $3, priority = $4, status = $5, completed = $6, completed_at = $7, points = $8, difficulty = $9, category_id = $10, user_id = $11, has_reminder = $12, reminder_time = $13, is_goal_task = $14, goal_id = $15 WHERE id = $16;`,
		task.Title,
		task.Description,
		task.DueDate,
		task.Priority,
		task.Status,
		task.Completed,
		task.CompletedAt,
		task.Points,
		task.Difficulty,
		task.CategoryID,
		task.UserID,
		task.HasReminder,
		task.ReminderTime,
		task.IsGoalTask,
		task.GoalID,
		task.ID,
	)
	if err != nil {
		return errors.New("updating task error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrTaskNotFound
	}
	return nil
}

func (tr *TasksRepository) Delete(ctx context.Context, id int64) error {
	ct, err := tr.conn.Exec(ctx, `DELETE FROM tasks WHERE id = $1;`, id)
	if err != nil {
		return errors.New("deleting task error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrTaskNotFound
	}
	return nil
}

func (tr *TasksRepository) list(ctx context.Context, query string, args ...any) ([]*entity.Task, error) {
	rows, err := tr.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.New("listing tasks error: " + err.Error())
	}
	defer rows.Close()
	tasks := make([]*entity.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, errors.New("unmarshalling task error: " + err.Error())
		}
		tasks = append(tasks, task)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.New("unexpected error after scanning tasks: " + err.Error())
	}
	return tasks, nil
}

func scanTask(row pgx.Row) (*entity.Task, error) {
	var t entity.Task
	err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.DueDate,
		&t.Priority,
		&t.Status,
		&t.Completed,
		&t.CompletedAt,
		&t.Points,
		&t.Difficulty,
		&t.CategoryID,
		&t.UserID,
		&t.HasReminder,
		&t.ReminderTime,
		&t.IsGoalTask,
		&t.GoalID,
		&t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
