package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/uetodo/uetodo-api/internal/domain"
)

// TaskStore defines the interface for task data persistence.
type TaskStore interface {
	// Create inserts a task. Returns ErrInvalidEntity if the owner does not exist.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID returns ErrTaskNotFound if no task has the ID.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// List returns one page of all tasks ordered by creation time.
	List(ctx context.Context, page Page) ([]domain.Task, error)

	// ListByUser returns one page of the user's tasks ordered by creation time.
	ListByUser(ctx context.Context, userID uuid.UUID, page Page) ([]domain.Task, error)

	// ListAllByUser returns every task the user owns, unpaginated.
	ListAllByUser(ctx context.Context, userID uuid.UUID) ([]domain.Task, error)

	// Update writes every mutable column. Returns ErrTaskNotFound.
	Update(ctx context.Context, task *domain.Task) error

	// Delete returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a TaskStore bound to tx.
	WithTx(tx *sql.Tx) TaskStore
}
