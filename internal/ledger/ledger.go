// Package ledger keeps per-identity integer balances that can never go
// negative. Every successful mutation rewrites the whole table to a
// store.Blob while the ledger lock is held.
package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/susu3304/slashbot/internal/metrics"
	"github.com/susu3304/slashbot/internal/store"
	"go.uber.org/zap"
)

const persistTimeout = 5 * time.Second

var ErrPersist = errors.New("failed to persist ledger")

// PersistError is returned when the in-memory table changed but the snapshot
// could not be written. The change is kept.
type PersistError struct {
	Location string
	Err      error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("%v to %s: %v", ErrPersist, e.Location, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

func (e *PersistError) Is(target error) bool { return target == ErrPersist }

// Entry is one row of the ledger.
type Entry struct {
	Identity string
	Balance  int
}

// Ledger is a mutex-guarded identity to balance table backed by a store.Blob.
type Ledger struct {
	mu       sync.Mutex
	blob     store.Blob
	logger   *zap.Logger
	balances map[string]int
}

// New loads the ledger from blob. A missing snapshot yields an empty ledger;
// a snapshot that cannot be decoded is an error.
func New(blob store.Blob, logger *zap.Logger) (*Ledger, error) {
	l := &Ledger{
		blob:     blob,
		logger:   logger,
		balances: make(map[string]int),
	}

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	data, err := blob.Read(ctx)
	switch {
	case errors.Is(err, store.ErrNotFound):
		logger.Warn("No persisted ledger found, starting empty", zap.String("location", blob.Location()))
		return l, nil
	case err != nil:
		return nil, fmt.Errorf("failed to load ledger from %s: %w", blob.Location(), err)
	}

	balances, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("malformed ledger at %s: %w", blob.Location(), err)
	}
	l.balances = balances

	logger.Info("Ledger loaded",
		zap.String("location", blob.Location()),
		zap.Int("entries", len(balances)),
	)
	return l, nil
}

// decode keeps balances as exact integers. Going through float64 would
// round anything above 2^53.
func decode(data []byte) (map[string]int, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	balances := make(map[string]int, len(raw))
	for identity, value := range raw {
		n, ok := value.(json.Number)
		if !ok {
			return nil, fmt.Errorf("invalid balance %v for %q", value, identity)
		}
		v, err := n.Int64()
		if err != nil || v < 0 || v > math.MaxInt {
			return nil, fmt.Errorf("invalid balance %s for %q", n, identity)
		}
		balances[identity] = int(v)
	}
	return balances, nil
}

// Adjust adds delta to the identity's balance, creating the entry at 0 on
// first reference. If the result would be negative or would not fit in an int
// the call is refused, the balance is unchanged and nothing is persisted.
// A non-nil error together with accepted == true means the change was applied
// but not persisted.
func (l *Ledger) Adjust(identity string, delta int) (accepted bool, value int, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	current := l.balances[identity]
	l.balances[identity] = current
	if current+delta < 0 || (delta > 0 && current > math.MaxInt-delta) {
		metrics.LedgerAdjustments.WithLabelValues("refused").Inc()
		return false, 0, nil
	}

	l.balances[identity] = current + delta
	metrics.LedgerAdjustments.WithLabelValues("accepted").Inc()
	return true, current + delta, l.persistLocked()
}

// Clear empties the table and persists the empty state.
func (l *Ledger) Clear() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.balances = make(map[string]int)
	return l.persistLocked()
}

// Snapshot returns a copy of the current balances.
func (l *Ledger) Snapshot() map[string]int {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make(map[string]int, len(l.balances))
	for k, v := range l.balances {
		out[k] = v
	}
	return out
}

// Entries returns the balances sorted by identity.
func (l *Ledger) Entries() []Entry {
	snapshot := l.Snapshot()
	entries := make([]Entry, 0, len(snapshot))
	for identity, balance := range snapshot {
		entries = append(entries, Entry{Identity: identity, Balance: balance})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Identity < entries[j].Identity })
	return entries
}

// Empty reports whether the table has no entries, including entries at 0.
func (l *Ledger) Empty() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.balances) == 0
}

func (l *Ledger) persistLocked() error {
	data, err := json.Marshal(l.balances)
	if err != nil {
		return &PersistError{Location: l.blob.Location(), Err: err}
	}

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	if err := l.blob.Write(ctx, data); err != nil {
		metrics.PersistFailures.WithLabelValues("ledger").Inc()
		return &PersistError{Location: l.blob.Location(), Err: err}
	}

	l.logger.Debug("Ledger persisted",
		zap.String("location", l.blob.Location()),
		zap.Int("entries", len(l.balances)),
	)
	return nil
}
