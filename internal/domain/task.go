package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Priority labels understood by the dashboard. The column itself accepts any string.
const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
)

// Priorities is the fixed, ordered label set used for breakdowns.
var Priorities = [3]string{PriorityLow, PriorityMedium, PriorityHigh}

// Task validation errors
var (
	ErrTaskIDEmpty     = errors.New("task ID cannot be empty")
	ErrTaskUserIDEmpty = errors.New("task user ID cannot be empty")
	ErrTaskNameEmpty   = errors.New("task name cannot be empty")
)

// Task is a user's to-do item. UpdatedAt doubles as the completion time
// once Status is true.
type Task struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	Status      bool       `json:"status"`
	StartDate   *time.Time `json:"start_date"`
	DueDate     *time.Time `json:"due_date"`
	Priority    *string    `json:"priority"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewTask creates an incomplete task owned by userID.
func NewTask(userID uuid.UUID, name string) (*Task, error) {
	now := time.Now().UTC()
	task := &Task{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      strings.TrimSpace(name),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := task.Validate(); err != nil {
		return nil, err
	}
	return task, nil
}

// Validate checks the task's required fields. Start and due dates are
// independent; a due date earlier than the start date is stored as given.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrTaskIDEmpty
	}
	if t.UserID == uuid.Nil {
		return ErrTaskUserIDEmpty
	}
	if t.Name == "" {
		return ErrTaskNameEmpty
	}
	return nil
}

// TaskPatch carries the fields of a partial task update. Nullable columns use
// Optional so an explicit null clears them.
type TaskPatch struct {
	Name        *string
	Description Optional[string]
	Status      *bool
	StartDate   Optional[time.Time]
	DueDate     Optional[time.Time]
	Priority    Optional[string]
}

// IsEmpty reports whether the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Name == nil && !p.Description.Set && p.Status == nil &&
		!p.StartDate.Set && !p.DueDate.Set && !p.Priority.Set
}

// Apply copies the present fields onto t, validates, and touches UpdatedAt.
// t is left untouched when validation fails.
func (p TaskPatch) Apply(t *Task) error {
	next := *t
	if p.Name != nil {
		next.Name = strings.TrimSpace(*p.Name)
	}
	if p.Description.Set {
		next.Description = p.Description.Value
	}
	if p.Status != nil {
		next.Status = *p.Status
	}
	if p.StartDate.Set {
		next.StartDate = utcPtr(p.StartDate.Value)
	}
	if p.DueDate.Set {
		next.DueDate = utcPtr(p.DueDate.Value)
	}
	if p.Priority.Set {
		next.Priority = p.Priority.Value
	}
	if err := next.Validate(); err != nil {
		return err
	}
	next.UpdatedAt = time.Now().UTC()
	*t = next
	return nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
