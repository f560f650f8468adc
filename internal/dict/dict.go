// Package dict is a small persistent phrase dictionary. Every change
// rewrites the whole dictionary to its store.Blob.
package dict

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/susu3304/slashbot/internal/metrics"
	"github.com/susu3304/slashbot/internal/store"
	"go.uber.org/zap"
)

const persistTimeout = 5 * time.Second

var ErrPersist = errors.New("failed to persist dictionary")

type Dict struct {
	mu      sync.Mutex
	blob    store.Blob
	logger  *zap.Logger
	entries map[string]string
}

// New loads the dictionary from blob; a missing snapshot gives an empty one.
func New(blob store.Blob, logger *zap.Logger) (*Dict, error) {
	d := &Dict{blob: blob, logger: logger, entries: make(map[string]string)}

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	data, err := blob.Read(ctx)
	switch {
	case errors.Is(err, store.ErrNotFound):
		logger.Warn("No persisted dictionary found, starting empty", zap.String("location", blob.Location()))
		return d, nil
	case err != nil:
		return nil, fmt.Errorf("failed to load dictionary from %s: %w", blob.Location(), err)
	}

	if err := json.Unmarshal(data, &d.entries); err != nil {
		return nil, fmt.Errorf("malformed dictionary at %s: %w", blob.Location(), err)
	}
	if d.entries == nil {
		d.entries = make(map[string]string)
	}
	return d, nil
}

// Add sets key to value. Nothing is written if the value is unchanged.
func (d *Dict) Add(key, value string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if current, ok := d.entries[key]; ok && current == value {
		return nil
	}
	d.entries[key] = value
	return d.persistLocked()
}

// Delete removes key and reports whether it was present.
func (d *Dict) Delete(key string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.entries[key]; !ok {
		return false, nil
	}
	delete(d.entries, key)
	return true, d.persistLocked()
}

// Keys returns all keys, sorted.
func (d *Dict) Keys() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	keys := make([]string, 0, len(d.entries))
	for k := range d.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get looks up phrase as an exact key first, then as a case-insensitive
// substring of the keys in sorted order.
func (d *Dict) Get(phrase string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if v, ok := d.entries[phrase]; ok {
		return v, true
	}

	keys := make([]string, 0, len(d.entries))
	for k := range d.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	needle := strings.ToLower(phrase)
	for _, k := range keys {
		if strings.Contains(strings.ToLower(k), needle) {
			return d.entries[k], true
		}
	}
	return "", false
}

func (d *Dict) persistLocked() error {
	data, err := json.Marshal(d.entries)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	if err := d.blob.Write(ctx, data); err != nil {
		metrics.PersistFailures.WithLabelValues("dict").Inc()
		return fmt.Errorf("%w to %s: %v", ErrPersist, d.blob.Location(), err)
	}
	d.logger.Debug("Dictionary persisted", zap.String("location", d.blob.Location()), zap.Int("entries", len(d.entries)))
	return nil
}
