package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/taskhub/taskhub-backend/internal/task/domain"
	"github.com/taskhub/taskhub-backend/pkg/database"
	"github.com/taskhub/taskhub-backend/pkg/errors"
)

// DefaultPerPage is the page size used when none is requested
const DefaultPerPage = 15

// ListParams filters and paginates task listings
type ListParams struct {
	UserID   string
	Status   domain.Status
	Priority domain.Priority
	Page     int
	PerPage  int
}

func (p *ListParams) normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = DefaultPerPage
	}
}

// TaskRepository handles task persistence
type TaskRepository struct {
	db *database.DB
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *database.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create creates a new task
func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) error {
	if task.ID == "" {
		task.ID = uuid.New().String()
	}

	query := `
		INSERT INTO tasks (id, user_id, created_by, title, description, status, priority, due_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		task.ID,
		task.UserID,
		task.CreatedBy,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		task.DueDate,
	).Scan(&task.CreatedAt, &task.UpdatedAt)

	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return err
	}

	return nil
}

// GetByID gets a task by ID
func (r *TaskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	var task domain.Task
	query := `
		SELECT id, user_id, created_by, title, description, status, priority, due_date, created_at, updated_at
		FROM tasks
		WHERE id = $1
	`
	err := r.db.GetContext(ctx, &task, query, id)

	if err == sql.ErrNoRows {
		return nil, errors.NotFound("task")
	}
	if err != nil {
		return nil, err
	}

	return &task, nil
}

// List lists tasks matching the params, ordered by due date.
// Tasks without a due date sort last.
func (r *TaskRepository) List(ctx context.Context, params *ListParams) ([]*domain.Task, int, error) {
	params.normalize()

	conditions := []string{}
	args := []interface{}{}
	arg := 1

	if params.UserID != "" {
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", arg))
		args = append(args, params.UserID)
		arg++
	}
	if params.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", arg))
		args = append(args, params.Status)
		arg++
	}
	if params.Priority != "" {
		conditions = append(conditions, fmt.Sprintf("priority = $%d", arg))
		args = append(args, params.Priority)
		arg++
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM tasks %s", where)
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT id, user_id, created_by, title, description, status, priority, due_date, created_at, updated_at
		FROM tasks
		%s
		ORDER BY due_date ASC NULLS LAST, created_at ASC
		LIMIT $%d OFFSET $%d
	`, where, arg, arg+1)

	args = append(args, params.PerPage, (params.Page-1)*params.PerPage)

	var tasks []*domain.Task
	if err := r.db.SelectContext(ctx, &tasks, query, args...); err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// Update updates a task's mutable fields
func (r *TaskRepository) Update(ctx context.Context, task *domain.Task) error {
	query := `
		UPDATE tasks
		SET user_id = $2, title = $3, description = $4, status = $5, priority = $6, due_date = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		task.ID,
		task.UserID,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		task.DueDate,
	).Scan(&task.UpdatedAt)

	if err == sql.ErrNoRows {
		return errors.NotFound("task")
	}
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return err
	}

	return nil
}

// Delete removes a task
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("task")
	}

	return nil
}
