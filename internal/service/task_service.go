package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/uetodo/uetodo-api/internal/domain"
	"github.com/uetodo/uetodo-api/internal/platform/logger"
	"github.com/uetodo/uetodo-api/internal/store"
)

// TaskService provides task CRUD scoped to the requesting user.
type TaskService interface {
	// CreateTask creates a task owned by userID from the fields in input.
	// input.Name is required.
	CreateTask(ctx context.Context, userID uuid.UUID, input domain.TaskPatch) (*domain.Task, error)

	// GetTask returns the task if userID owns it, ErrNotOwned otherwise.
	GetTask(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error)

	// ListTasks returns one page of every task.
	ListTasks(ctx context.Context, page store.Page) ([]domain.Task, error)

	// ListUserTasks returns one page of the user's tasks.
	ListUserTasks(ctx context.Context, userID uuid.UUID, page store.Page) ([]domain.Task, error)

	// UpdateTask applies a partial update to a task userID owns.
	UpdateTask(ctx context.Context, userID, taskID uuid.UUID, patch domain.TaskPatch) (*domain.Task, error)

	// DeleteTask removes a task userID owns.
	DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error
}

// TaskServiceImpl implements TaskService.
type TaskServiceImpl struct {
	taskStore store.TaskStore
	db        *sql.DB
	logger    *slog.Logger
}

var _ TaskService = (*TaskServiceImpl)(nil)

// NewTaskService creates a new TaskService.
func NewTaskService(taskStore store.TaskStore, db *sql.DB, logger *slog.Logger) *TaskServiceImpl {
	return &TaskServiceImpl{
		taskStore: taskStore,
		db:        db,
		logger:    logger.With("component", "task_service"),
	}
}

// CreateTask implements TaskService.
func (s *TaskServiceImpl) CreateTask(
	ctx context.Context,
	userID uuid.UUID,
	input domain.TaskPatch,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var name string
	if input.Name != nil {
		name = *input.Name
	}
	task, err := domain.NewTask(userID, name)
	if err != nil {
		return nil, err
	}
	input.Name = nil
	if err := input.Apply(task); err != nil {
		return nil, err
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.taskStore.WithTx(tx).Create(ctx, task)
	})
	if err != nil {
		log.Error("failed to create task", "error", err, "user_id", userID)
		return nil, NewServiceError("task", "create", err)
	}

	log.Info("task created", "task_id", task.ID, "user_id", userID)
	return task, nil
}

// GetTask implements TaskService.
func (s *TaskServiceImpl) GetTask(ctx context.Context, userID, taskID uuid.UUID) (*domain.Task, error) {
	task, err := s.taskStore.GetByID(ctx, taskID)
	if err != nil {
		s.logStoreError(ctx, "get", err, taskID)
		return nil, NewServiceError("task", "get", err)
	}
	if err := s.checkOwner(ctx, task, userID); err != nil {
		return nil, err
	}
	return task, nil
}

// ListTasks implements TaskService.
func (s *TaskServiceImpl) ListTasks(ctx context.Context, page store.Page) ([]domain.Task, error) {
	tasks, err := s.taskStore.List(ctx, page)
	if err != nil {
		s.logStoreError(ctx, "list", err, uuid.Nil)
		return nil, NewServiceError("task", "list", err)
	}
	return tasks, nil
}

// ListUserTasks implements TaskService.
func (s *TaskServiceImpl) ListUserTasks(
	ctx context.Context,
	userID uuid.UUID,
	page store.Page,
) ([]domain.Task, error) {
	tasks, err := s.taskStore.ListByUser(ctx, userID, page)
	if err != nil {
		s.logStoreError(ctx, "list_by_user", err, uuid.Nil)
		return nil, NewServiceError("task", "list_by_user", err)
	}
	return tasks, nil
}

// UpdateTask implements TaskService.
func (s *TaskServiceImpl) UpdateTask(
	ctx context.Context,
	userID, taskID uuid.UUID,
	patch domain.TaskPatch,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if patch.IsEmpty() {
		return nil, ErrEmptyPatch
	}

	var task *domain.Task
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.taskStore.WithTx(tx)

		var err error
		task, err = txStore.GetByID(ctx, taskID)
		if err != nil {
			return err
		}
		if err := s.checkOwner(ctx, task, userID); err != nil {
			return err
		}
		if err := patch.Apply(task); err != nil {
			return err
		}
		return txStore.Update(ctx, task)
	})
	if err != nil {
		if isClientError(err) {
			return nil, err
		}
		s.logStoreError(ctx, "update", err, taskID)
		return nil, NewServiceError("task", "update", err)
	}

	log.Info("task updated", "task_id", taskID, "user_id", userID)
	return task, nil
}

// DeleteTask implements TaskService.
func (s *TaskServiceImpl) DeleteTask(ctx context.Context, userID, taskID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.taskStore.WithTx(tx)

		task, err := txStore.GetByID(ctx, taskID)
		if err != nil {
			return err
		}
		if err := s.checkOwner(ctx, task, userID); err != nil {
			return err
		}
		return txStore.Delete(ctx, taskID)
	})
	if err != nil {
		if errors.Is(err, ErrNotOwned) {
			return err
		}
		s.logStoreError(ctx, "delete", err, taskID)
		return NewServiceError("task", "delete", err)
	}

	log.Info("task deleted", "task_id", taskID, "user_id", userID)
	return nil
}

func (s *TaskServiceImpl) checkOwner(ctx context.Context, task *domain.Task, userID uuid.UUID) error {
	if task.UserID != userID {
		logger.FromContextOrDefault(ctx, s.logger).Debug("task access denied",
			"task_id", task.ID,
			"owner_id", task.UserID,
			"user_id", userID)
		return ErrNotOwned
	}
	return nil
}

func (s *TaskServiceImpl) logStoreError(ctx context.Context, op string, err error, taskID uuid.UUID) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	if errors.Is(err, store.ErrNotFound) {
		log.Debug("task not found", "op", op, "task_id", taskID)
		return
	}
	log.Error("task operation failed", "op", op, "task_id", taskID, "error", err)
}

// isClientError reports whether err stems from the request rather than the system.
func isClientError(err error) bool {
	return errors.Is(err, ErrNotOwned) ||
		errors.Is(err, domain.ErrTaskNameEmpty)
}
