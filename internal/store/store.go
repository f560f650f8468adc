// Package store holds the durable backends used to persist JSON snapshots.
// A snapshot is always rewritten as a whole; backends never append.
package store

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned by Read when nothing has been written yet.
var ErrNotFound = errors.New("snapshot not found")

// Blob is a single named snapshot in some backend.
type Blob interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
	// Location describes where the snapshot lives, for logs.
	Location() string
}

// Memory keeps the snapshot in process memory. Useful for tests.
type Memory struct {
	mu     sync.Mutex
	data   []byte
	writes int
}

func NewMemory(initial []byte) *Memory {
	m := &Memory{}
	if initial != nil {
		m.data = append([]byte(nil), initial...)
	}
	return m
}

func (m *Memory) Read(ctx context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, ErrNotFound
	}
	return append([]byte(nil), m.data...), nil
}

func (m *Memory) Write(ctx context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = append([]byte(nil), data...)
	m.writes++
	return nil
}

func (m *Memory) Location() string {
	return "memory"
}

// Writes returns how many times the snapshot was written.
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
