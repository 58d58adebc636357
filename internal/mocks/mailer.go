package mocks

import (
	"context"
	"io"
	"sync"

	"github.com/uetodo/uetodo-api/internal/platform/mail"
)

// MockMailer records dispatched messages.
type MockMailer struct {
	mu       sync.Mutex
	Messages []mail.Message
	Err      error
}

// Dispatch implements service.Mailer
func (m *MockMailer) Dispatch(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Messages = append(m.Messages, msg)
	return nil
}

// Sent returns a copy of the dispatched messages.
func (m *MockMailer) Sent() []mail.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mail.Message(nil), m.Messages...)
}

// MockUploader implements objectstore.Uploader for testing.
type MockUploader struct {
	UploadFn func(ctx context.Context, key string, body io.ReadSeeker, size int64, contentType string) (string, error)

	LastKey         string
	LastSize        int64
	LastContentType string
}

// Upload implements objectstore.Uploader
func (m *MockUploader) Upload(
	ctx context.Context,
	key string,
	body io.ReadSeeker,
	size int64,
	contentType string,
) (string, error) {
	m.LastKey = key
	m.LastSize = size
	m.LastContentType = contentType
	if m.UploadFn != nil {
		return m.UploadFn(ctx, key, body, size, contentType)
	}
	return "https://cdn.example.com/" + key, nil
}
