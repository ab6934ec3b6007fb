package service

import (
	"context"
	"time"

	"github.com/taskhub/taskhub-backend/internal/task/domain"
	"github.com/taskhub/taskhub-backend/internal/task/repository"
	userrepo "github.com/taskhub/taskhub-backend/internal/user/repository"
	"github.com/taskhub/taskhub-backend/pkg/errors"
	"github.com/taskhub/taskhub-backend/pkg/logger"
	"github.com/taskhub/taskhub-backend/pkg/principal"
)

// EventPublisher announces task lifecycle changes
type EventPublisher interface {
	PublishTaskCreated(ctx context.Context, task *domain.Task)
	PublishTaskUpdated(ctx context.Context, task *domain.Task)
	PublishTaskDeleted(ctx context.Context, task *domain.Task)
}

// TaskService handles task business logic
type TaskService struct {
	taskRepo *repository.TaskRepository
	userRepo *userrepo.UserRepository
	events   EventPublisher
	logger   *logger.Logger
}

// NewTaskService creates a new task service
func NewTaskService(
	taskRepo *repository.TaskRepository,
	userRepo *userrepo.UserRepository,
	publisher EventPublisher,
	log *logger.Logger,
) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
		userRepo: userRepo,
		events:   publisher,
		logger:   log,
	}
}

// CreateTaskRequest represents a task creation request
type CreateTaskRequest struct {
	Title       string     `json:"title" validate:"required,max=255"`
	Description *string    `json:"description" validate:"omitempty,max=5000"`
	Status      *string    `json:"status" validate:"omitempty,oneof=todo in_progress done"`
	Priority    *string    `json:"priority" validate:"omitempty,oneof=low medium high"`
	DueDate     *time.Time `json:"due_date"`
	UserID      *string    `json:"user_id" validate:"omitempty,uuid"`
}

// UpdateTaskRequest represents a task update request
type UpdateTaskRequest struct {
	Title       *string    `json:"title" validate:"omitempty,max=255"`
	Description *string    `json:"description" validate:"omitempty,max=5000"`
	Status      *string    `json:"status" validate:"omitempty,oneof=todo in_progress done"`
	Priority    *string    `json:"priority" validate:"omitempty,oneof=low medium high"`
	DueDate     *time.Time `json:"due_date"`
	UserID      *string    `json:"user_id" validate:"omitempty,uuid"`
}

// ListTasksRequest represents a task listing request
type ListTasksRequest struct {
	Status   string
	Priority string
	Page     int
	PerPage  int
}

// TaskList is a paginated task listing
type TaskList struct {
	Tasks   []*domain.Task `json:"tasks"`
	Total   int            `json:"total"`
	Page    int            `json:"page"`
	PerPage int            `json:"per_page"`
}

// Create creates a new task. Admin only. The task is assigned to
// the requested user, defaulting to the creator.
func (s *TaskService) Create(ctx context.Context, p *principal.Principal, req *CreateTaskRequest) (*domain.Task, error) {
	if !principal.CanCreateTask(p) {
		return nil, errors.Forbidden("admin role required")
	}

	assignee := p.ID
	if req.UserID != nil {
		if _, err := s.userRepo.GetByID(ctx, *req.UserID); err != nil {
			if errors.IsNotFound(err) {
				return nil, errors.BadRequest("assignee does not exist")
			}
			return nil, err
		}
		assignee = *req.UserID
	}

	task := &domain.Task{
		UserID:      assignee,
		CreatedBy:   p.ID,
		Title:       req.Title,
		Description: req.Description,
		Status:      domain.StatusTodo,
		Priority:    domain.PriorityMedium,
		DueDate:     req.DueDate,
	}
	if req.Status != nil {
		task.Status = domain.Status(*req.Status)
	}
	if req.Priority != nil {
		task.Priority = domain.Priority(*req.Priority)
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Str("user_id", task.UserID).
		Str("created_by", task.CreatedBy).
		Msg("task created")

	s.events.PublishTaskCreated(ctx, task)

	return task, nil
}

// Get returns a task if the principal may view it
func (s *TaskService) Get(ctx context.Context, p *principal.Principal, id string) (*domain.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !principal.CanViewTask(p, task.UserID) {
		return nil, errors.Forbidden("you do not have access to this task")
	}

	return task, nil
}

// List lists tasks visible to the principal. Admins see every task;
// regular users see only tasks assigned to them.
func (s *TaskService) List(ctx context.Context, p *principal.Principal, req *ListTasksRequest) (*TaskList, error) {
	params := &repository.ListParams{
		Status:   domain.Status(req.Status),
		Priority: domain.Priority(req.Priority),
		Page:     req.Page,
		PerPage:  req.PerPage,
	}

	if req.Status != "" && !params.Status.Valid() {
		return nil, errors.Validation(map[string]string{"status": "must be todo, in_progress or done"})
	}
	if req.Priority != "" && !params.Priority.Valid() {
		return nil, errors.Validation(map[string]string{"priority": "must be low, medium or high"})
	}

	if !principal.CanListAllTasks(p) {
		params.UserID = p.ID
	}

	tasks, total, err := s.taskRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	if tasks == nil {
		tasks = []*domain.Task{}
	}

	return &TaskList{
		Tasks:   tasks,
		Total:   total,
		Page:    params.Page,
		PerPage: params.PerPage,
	}, nil
}

// Update updates a task if the principal may modify it. Only admins
// may reassign a task to a different user.
func (s *TaskService) Update(ctx context.Context, p *principal.Principal, id string, req *UpdateTaskRequest) (*domain.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !principal.CanUpdateTask(p, task.UserID) {
		return nil, errors.Forbidden("you do not have access to this task")
	}

	if req.UserID != nil && *req.UserID != task.UserID {
		if !p.IsAdmin() {
			return nil, errors.Forbidden("only admins can reassign tasks")
		}
		if _, err := s.userRepo.GetByID(ctx, *req.UserID); err != nil {
			if errors.IsNotFound(err) {
				return nil, errors.BadRequest("assignee does not exist")
			}
			return nil, err
		}
		task.UserID = *req.UserID
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = req.Description
	}
	if req.Status != nil {
		task.Status = domain.Status(*req.Status)
	}
	if req.Priority != nil {
		task.Priority = domain.Priority(*req.Priority)
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, err
	}

	s.logger.Info().Str("task_id", task.ID).Msg("task updated")

	s.events.PublishTaskUpdated(ctx, task)

	return task, nil
}

// Delete removes a task. Admin only.
func (s *TaskService) Delete(ctx context.Context, p *principal.Principal, id string) error {
	if !principal.CanDeleteTask(p) {
		return errors.Forbidden("admin role required")
	}

	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.taskRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Str("task_id", task.ID).Msg("task deleted")

	s.events.PublishTaskDeleted(ctx, task)

	return nil
}
