package task

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/uetodo/uetodo-api/internal/platform/logger"
	"github.com/uetodo/uetodo-api/internal/platform/mail"
)

// emailPayload is the loggable part of an email task. The body and the
// code it carries are deliberately absent.
type emailPayload struct {
	To       string        `json:"to"`
	Template mail.Template `json:"template"`
}

// EmailTask sends one message through a mail.Sender.
type EmailTask struct {
	id      uuid.UUID
	msg     mail.Message
	sender  mail.Sender
	payload []byte

	mu     sync.Mutex
	state State
}

var _ Task = (*EmailTask)(nil)

// NewEmailTask creates a pending email task.
func NewEmailTask(sender mail.Sender, msg mail.Message) (*EmailTask, error) {
	if sender == nil {
		return nil, fmt.Errorf("email task requires a sender")
	}
	payload, err := json.Marshal(emailPayload{To: msg.To, Template: msg.Template})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal email payload: %w", err)
	}
	return &EmailTask{
		id:      uuid.New(),
		msg:     msg,
		sender:  sender,
		payload: payload,
		state:   StatePending,
	}, nil
}

// ID implements Task.
func (t *EmailTask) ID() uuid.UUID { return t.id }

// Kind implements Task.
func (t *EmailTask) Kind() Kind { return KindEmail }

// Payload implements Task.
func (t *EmailTask) Payload() []byte { return t.payload }

// State implements Task.
func (t *EmailTask) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

func (t *EmailTask) setState(state State) {
	t.mu.Lock()
	t.state = state
	t.mu.Unlock()
}

// Execute implements Task.
func (t *EmailTask) Execute(ctx context.Context) error {
	t.setState(StateRunning)
	if err := t.sender.Send(ctx, t.msg); err != nil {
		t.setState(StateFailed)
		return err
	}
	t.setState(StateDone)
	return nil
}

// EmailDispatcher hands messages to the background workers.
type EmailDispatcher struct {
	queue  Sink
	sender mail.Sender
	logger *slog.Logger
}

// NewEmailDispatcher creates a dispatcher that enqueues onto queue.
func NewEmailDispatcher(queue Sink, sender mail.Sender, logger *slog.Logger) *EmailDispatcher {
	return &EmailDispatcher{
		queue:  queue,
		sender: sender,
		logger: logger.With(slog.String("component", "email_dispatcher")),
	}
}

// Dispatch enqueues msg for delivery. It never blocks; a full or closed
// queue is reported as an error.
func (d *EmailDispatcher) Dispatch(ctx context.Context, msg mail.Message) error {
	log := logger.FromContextOrDefault(ctx, d.logger)

	task, err := NewEmailTask(d.sender, msg)
	if err != nil {
		return err
	}
	if err := d.queue.Enqueue(task); err != nil {
		log.Warn("failed to enqueue email",
			"template", msg.Template,
			"error", err)
		return fmt.Errorf("failed to enqueue %s email: %w", msg.Template, err)
	}

	log.Debug("email enqueued", "task_id", task.ID(), "template", msg.Template)
	return nil
}
