package task

import (
	"context"

	"github.com/google/uuid"
)

// State tracks a background job from enqueue to its outcome.
type State string

const (
	StatePending State = "pending"
	StateRunning State = "running"
	StateDone    State = "done"
	StateFailed  State = "failed"
)

// Kind names what a job does; workers log it with every attempt.
type Kind string

// KindEmail sends one account email: a verification or a reset code.
const KindEmail Kind = "email"

// Task is one unit of fire-and-forget work handed off by a request handler.
// Execute must honor ctx; the pool cancels it on shutdown.
type Task interface {
	ID() uuid.UUID
	Kind() Kind
	// Payload is safe to log. It never carries codes or message bodies.
	Payload() []byte
	State() State
	Execute(ctx context.Context) error
}

// Source is the consuming end of a queue.
type Source interface {
	Tasks() <-chan Task
}

// Sink is the producing end of a queue. Enqueue never blocks.
type Sink interface {
	Enqueue(task Task) error
	Close()
}
