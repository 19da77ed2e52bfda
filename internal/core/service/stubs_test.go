package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/locadora/rental-system/internal/core/domain"
	"github.com/locadora/rental-system/internal/core/ports"
)

var nopLogger = zerolog.Nop()

// stubStore is an in-memory blob store with switchable failure modes.
type stubStore struct {
	mu     sync.Mutex
	data   map[string][]byte
	getErr error
	setErr error
}

func newStubStore() *stubStore {
	return &stubStore{data: map[string][]byte{}}
}

func (s *stubStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	value, ok := s.data[key]
	if !ok {
		return nil, ports.ErrKeyNotFound
	}
	return value, nil
}

func (s *stubStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setErr != nil {
		return s.setErr
	}
	s.data[key] = value
	return nil
}

func (s *stubStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// stubNotifier counts notifications per type without any expiry machinery.
type stubNotifier struct {
	mu       sync.Mutex
	messages map[domain.NotificationType][]string
}

func newStubNotifier() *stubNotifier {
	return &stubNotifier{messages: map[domain.NotificationType][]string{}}
}

func (n *stubNotifier) Add(input ports.NotificationInput) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages[input.Type] = append(n.messages[input.Type], input.Message)
	return "stub"
}

func (n *stubNotifier) Remove(string)               {}
func (n *stubNotifier) ClearAll()                   {}
func (n *stubNotifier) List() []domain.Notification { return nil }

func (n *stubNotifier) Success(message string) string {
	return n.Add(ports.NotificationInput{Type: domain.NotificationSuccess, Message: message})
}

func (n *stubNotifier) Error(message string) string {
	return n.Add(ports.NotificationInput{Type: domain.NotificationError, Message: message})
}

func (n *stubNotifier) Warning(message string) string {
	return n.Add(ports.NotificationInput{Type: domain.NotificationWarning, Message: message})
}

func (n *stubNotifier) Info(message string) string {
	return n.Add(ports.NotificationInput{Type: domain.NotificationInfo, Message: message})
}

func (n *stubNotifier) count(t domain.NotificationType) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.messages[t])
}

// stubSession implements the sessionSink seen by the user service.
type stubSession struct {
	currentID string
	updated   []domain.User
}

func (s *stubSession) UpdateCurrentUser(_ context.Context, user domain.User) {
	s.updated = append(s.updated, user)
}

func (s *stubSession) CurrentUserID() string { return s.currentID }
