package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/wolfman30/medbook-assistant/internal/dialogue"
)

// ErrSessionNotFound is returned when no session exists for an id.
var ErrSessionNotFound = errors.New("conversation: session not found")

// SessionStore persists dialogue sessions between turns.
type SessionStore interface {
	Load(ctx context.Context, id string) (*dialogue.Session, error)
	Save(ctx context.Context, s *dialogue.Session) error
	Delete(ctx context.Context, id string) error
}

func encodeSession(s *dialogue.Session) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("conversation: marshal session: %w", err)
	}
	return data, nil
}

func decodeSession(data []byte) (*dialogue.Session, error) {
	var s dialogue.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("conversation: decode session: %w", err)
	}
	return &s, nil
}

// MemoryStore keeps sessions in process. Sessions are stored encoded so
// callers never share pointers with the store.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (m *MemoryStore) Load(ctx context.Context, id string) (*dialogue.Session, error) {
	m.mu.RLock()
	data, ok := m.data[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return decodeSession(data)
}

func (m *MemoryStore) Save(ctx context.Context, s *dialogue.Session) error {
	if s == nil || s.ID == "" {
		return errors.New("conversation: session id required")
	}
	data, err := encodeSession(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.data[s.ID] = data
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	delete(m.data, id)
	m.mu.Unlock()
	return nil
}
