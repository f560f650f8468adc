package ledger

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/susu3304/slashbot/internal/store"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type failingBlob struct {
	store.Memory
	fail bool
}

func (f *failingBlob) Write(ctx context.Context, data []byte) error {
	if f.fail {
		return errors.New("disk full")
	}
	return f.Memory.Write(ctx, data)
}

func newLedger(t *testing.T, blob store.Blob) *Ledger {
	t.Helper()
	l, err := New(blob, zaptest.NewLogger(t))
	require.NoError(t, err)
	return l
}

func TestLedger_Adjust(t *testing.T) {
	l := newLedger(t, store.NewMemory(nil))

	accepted, value, err := l.Adjust("alice", 3)
	require.NoError(t, err)
	assert.True(t, accepted)
	assert.Equal(t, 3, value)

	accepted, value, err = l.Adjust("alice", -2)
	require.NoError(t, err)
	assert.True(t, accepted)
	assert.Equal(t, 1, value)

	assert.Equal(t, map[string]int{"alice": 1}, l.Snapshot())
}

func TestLedger_AdjustNeverNegative(t *testing.T) {
	tests := []struct {
		name     string
		deltas   []int
		expected int
		refused  []int
	}{
		{name: "refuse below zero", deltas: []int{2, -3}, expected: 2, refused: []int{1}},
		{name: "exactly zero is fine", deltas: []int{2, -2}, expected: 0},
		{name: "first reference negative", deltas: []int{-1, 1}, expected: 1, refused: []int{0}},
		{name: "refusal keeps going", deltas: []int{1, -5, -1, -1, 4}, expected: 4, refused: []int{1, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blob := store.NewMemory(nil)
			l := newLedger(t, blob)

			var refused []int
			for i, d := range tt.deltas {
				accepted, value, err := l.Adjust("bob", d)
				require.NoError(t, err)
				if !accepted {
					refused = append(refused, i)
					assert.Equal(t, 0, value)
				}
				assert.GreaterOrEqual(t, l.Snapshot()["bob"], 0)
			}

			assert.Equal(t, tt.refused, refused)
			assert.Equal(t, tt.expected, l.Snapshot()["bob"])
		})
	}
}

func TestLedger_RefusedAdjustCreatesEntryWithoutPersisting(t *testing.T) {
	blob := store.NewMemory(nil)
	l := newLedger(t, blob)

	accepted, _, err := l.Adjust("carol", -1)
	require.NoError(t, err)
	assert.False(t, accepted)
	assert.False(t, l.Empty())
	assert.Equal(t, map[string]int{"carol": 0}, l.Snapshot())
	assert.Equal(t, []Entry{{Identity: "carol", Balance: 0}}, l.Entries())
	assert.Equal(t, 0, blob.Writes())
}

func TestLedger_AdjustRefusesOverflow(t *testing.T) {
	blob := store.NewMemory(nil)
	l := newLedger(t, blob)

	accepted, value, err := l.Adjust("alice", math.MaxInt)
	require.NoError(t, err)
	assert.True(t, accepted)
	assert.Equal(t, math.MaxInt, value)

	accepted, _, err = l.Adjust("alice", 1)
	require.NoError(t, err)
	assert.False(t, accepted)
	assert.Equal(t, math.MaxInt, l.Snapshot()["alice"])
	assert.Equal(t, 1, blob.Writes())

	accepted, value, err = l.Adjust("alice", -math.MaxInt)
	require.NoError(t, err)
	assert.True(t, accepted)
	assert.Equal(t, 0, value)
}

func TestLedger_Clear(t *testing.T) {
	ctx := context.Background()
	blob := store.NewMemory(nil)
	l := newLedger(t, blob)

	_, _, err := l.Adjust("alice", 2)
	require.NoError(t, err)
	assert.False(t, l.Empty())

	require.NoError(t, l.Clear())

	assert.True(t, l.Empty())
	assert.Empty(t, l.Snapshot())

	data, err := blob.Read(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(data))
}

func TestLedger_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persistence.json")

	first := newLedger(t, store.NewFile(path))
	for _, step := range []struct {
		who   string
		delta int
	}{{"alice", 3}, {"bob", 1}, {"alice", -1}, {"Alice", 7}} {
		_, _, err := first.Adjust(step.who, step.delta)
		require.NoError(t, err)
	}

	second := newLedger(t, store.NewFile(path))

	assert.Equal(t, first.Snapshot(), second.Snapshot())
	assert.Equal(t, map[string]int{"alice": 2, "bob": 1, "Alice": 7}, second.Snapshot())
}

func TestLedger_RoundTripLargeBalances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persistence.json")

	first := newLedger(t, store.NewFile(path))
	for who, delta := range map[string]int{
		"above2p53": 1<<53 + 1,
		"above2p60": 1<<60 + 3,
		"max":       math.MaxInt,
	} {
		_, _, err := first.Adjust(who, delta)
		require.NoError(t, err)
	}

	second := newLedger(t, store.NewFile(path))

	assert.Equal(t, map[string]int{
		"above2p53": 9007199254740993,
		"above2p60": 1152921504606846979,
		"max":       math.MaxInt,
	}, second.Snapshot())
}

func TestLedger_Entries(t *testing.T) {
	l := newLedger(t, store.NewMemory([]byte(`{"zoe":1,"adam":4,"mia":0}`)))

	assert.Equal(t, []Entry{
		{Identity: "adam", Balance: 4},
		{Identity: "mia", Balance: 0},
		{Identity: "zoe", Balance: 1},
	}, l.Entries())
}

func TestNew_MissingSnapshotIsTolerated(t *testing.T) {
	l, err := New(store.NewFile(filepath.Join(t.TempDir(), "absent.json")), zap.NewNop())
	require.NoError(t, err)
	assert.True(t, l.Empty())
}

func TestNew_MalformedSnapshot(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "not json", data: `{alice: 1`},
		{name: "array", data: `[1,2]`},
		{name: "string balance", data: `{"alice":"1"}`},
		{name: "negative balance", data: `{"alice":-1}`},
		{name: "fractional balance", data: `{"alice":1.5}`},
		{name: "exponent balance", data: `{"alice":1e3}`},
		{name: "null balance", data: `{"alice":null}`},
		{name: "beyond int64", data: `{"alice":9223372036854775808}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(store.NewMemory([]byte(tt.data)), zap.NewNop())
			assert.Error(t, err)
		})
	}
}

func TestLedger_PersistFailureIsSurfaced(t *testing.T) {
	blob := &failingBlob{}
	l := newLedger(t, blob)
	blob.fail = true

	accepted, value, err := l.Adjust("alice", 2)

	assert.True(t, accepted)
	assert.Equal(t, 2, value)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPersist)

	var persistErr *PersistError
	require.True(t, errors.As(err, &persistErr))
	assert.Equal(t, "memory", persistErr.Location)

	assert.ErrorIs(t, l.Clear(), ErrPersist)
}

func TestLedger_ConcurrentAdjust(t *testing.T) {
	blob := store.NewMemory(nil)
	l := newLedger(t, blob)

	const workers = 16
	const perWorker = 50

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				if w%2 == 0 {
					l.Adjust("shared", 1)
				} else {
					l.Adjust("shared", -1)
				}
				l.Snapshot()
			}
		}(w)
	}
	wg.Wait()

	final := l.Snapshot()["shared"]
	assert.GreaterOrEqual(t, final, 0)
	assert.LessOrEqual(t, final, workers/2*perWorker)

	second := newLedger(t, store.NewMemory(mustRead(t, blob)))
	assert.Equal(t, l.Snapshot(), second.Snapshot())
}

func mustRead(t *testing.T, blob store.Blob) []byte {
	t.Helper()
	data, err := blob.Read(context.Background())
	require.NoError(t, err)
	return data
}
