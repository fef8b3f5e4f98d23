package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"acredge.in/internal/ids"
)

// Memory implements Store in process. Documents are stored as encoded JSON
// so reads always hand back independent copies.
type Memory struct {
	mu   sync.RWMutex
	cols map[string]map[string][]byte
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{cols: make(map[string]map[string][]byte)}
}

func (s *Memory) Add(ctx context.Context, collection string, data any) (string, error) {
	body, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("docstore: encode %s: %w", collection, err)
	}
	id := ids.New()
	s.mu.Lock()
	defer s.mu.Unlock()
	col, ok := s.cols[collection]
	if !ok {
		col = make(map[string][]byte)
		s.cols[collection] = col
	}
	col[id] = body
	return id, nil
}

func (s *Memory) Get(ctx context.Context, collection, id string, dst any) error {
	s.mu.RLock()
	body, ok := s.cols[collection][id]
	s.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("docstore: decode %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *Memory) List(ctx context.Context, collection string) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs := make([]Document, 0, len(s.cols[collection]))
	for id, body := range s.cols[collection] {
		body := body
		docs = append(docs, Document{
			ID:     id,
			dataTo: func(dst any) error { return json.Unmarshal(body, dst) },
		})
	}
	return docs, nil
}

func (s *Memory) Set(ctx context.Context, collection, id string, data any) error {
	body, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("docstore: encode %s/%s: %w", collection, id, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	col, ok := s.cols[collection]
	if !ok {
		col = make(map[string][]byte)
		s.cols[collection] = col
	}
	col[id] = body
	return nil
}

func (s *Memory) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cols[collection], id)
	return nil
}

func (s *Memory) Count(ctx context.Context, collection string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cols[collection]), nil
}
