package memory_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsledger/ops_ledger_app/internal/adapters/store/memory"
	"github.com/opsledger/ops_ledger_app/internal/apperrors"
)

func TestReadAbsentPathIsNotFound(t *testing.T) {
	s := memory.NewStore()

	_, err := s.Read(context.Background(), "sales/nope")

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestWriteThenRead(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, "sales/k1", map[string]any{"market": "Central Market", "total": 12}))

	raw, err := s.Read(ctx, "sales/k1")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "Central Market", got["market"])
}

func TestWriteNilDeletesSubtree(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, "sales/k1", map[string]any{"total": 1}))
	require.NoError(t, s.Write(ctx, "sales/k1", nil))

	_, err := s.Read(ctx, "sales/k1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	// parent pruned too: the collection reads as absent, not as {}
	_, err = s.Read(ctx, "sales")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestMergeFieldsLeavesSiblingsAlone(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, "sales/k1", map[string]any{"market": "North Souq", "total": 5}))
	require.NoError(t, s.MergeFields(ctx, "sales/k1", map[string]any{"total": 9}))

	raw, err := s.Read(ctx, "sales/k1")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "North Souq", got["market"])
	assert.Equal(t, float64(9), got["total"])
}

func TestMultiWriteIsAtomicForSubscribers(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()

	type snapshot struct {
		balance json.RawMessage
		history json.RawMessage
	}
	snaps := make(chan snapshot, 8)

	// one subscription spanning both collections observes each committed state
	unsub, err := s.Subscribe(ctx, "leave", func(raw json.RawMessage) {
		var tree struct {
			Balances map[string]json.RawMessage `json:"balances"`
			History  map[string]json.RawMessage `json:"history"`
		}
		if raw != nil {
			_ = json.Unmarshal(raw, &tree)
		}
		var snap snapshot
		if len(tree.Balances) > 0 {
			snap.balance = tree.Balances["emp-1"]
		}
		for _, h := range tree.History {
			snap.history = h
		}
		snaps <- snap
	})
	require.NoError(t, err)
	defer unsub()

	<-snaps // initial empty delivery

	require.NoError(t, s.MultiWrite(ctx, map[string]any{
		"leave/balances/emp-1": map[string]any{"annual": 18},
		"leave/history/h1":     map[string]any{"days": 3},
	}))

	select {
	case snap := <-snaps:
		// both records or neither, never one without the other
		assert.Equal(t, snap.balance != nil, snap.history != nil)
		assert.NotNil(t, snap.balance)
	case <-time.After(time.Second):
		t.Fatal("no snapshot after MultiWrite")
	}
}

func TestSubscribeDeliversInitialAndSubsequent(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, s.Write(ctx, "settings/app", map[string]any{"appName": "Ops Ledger"}))

	var mu sync.Mutex
	var got []json.RawMessage
	deliveries := make(chan struct{}, 8)

	unsub, err := s.Subscribe(ctx, "settings/app", func(raw json.RawMessage) {
		mu.Lock()
		got = append(got, raw)
		mu.Unlock()
		deliveries <- struct{}{}
	})
	require.NoError(t, err)
	defer unsub()

	<-deliveries // initial value

	require.NoError(t, s.Write(ctx, "settings/app", map[string]any{"appName": "Renamed"}))
	select {
	case <-deliveries:
	case <-time.After(time.Second):
		t.Fatal("no delivery after write")
	}

	mu.Lock()
	defer mu.Unlock()
	require.GreaterOrEqual(t, len(got), 2)
	assert.Contains(t, string(got[0]), "Ops Ledger")
	assert.Contains(t, string(got[len(got)-1]), "Renamed")
}

func TestSubscribeOverlapAncestorAndDescendant(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()

	deliveries := make(chan json.RawMessage, 8)
	unsub, err := s.Subscribe(ctx, "sales", func(raw json.RawMessage) {
		deliveries <- raw
	})
	require.NoError(t, err)
	defer unsub()

	<-deliveries // initial nil

	// a write below the subscribed path must fire it
	require.NoError(t, s.Write(ctx, "sales/k1", map[string]any{"total": 1}))
	select {
	case raw := <-deliveries:
		assert.Contains(t, string(raw), "k1")
	case <-time.After(time.Second):
		t.Fatal("no delivery for descendant write")
	}

	// an unrelated write must not
	require.NoError(t, s.Write(ctx, "inventory/k9", map[string]any{"qty": 2}))
	select {
	case <-deliveries:
		t.Fatal("delivery for non-overlapping write")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUnsubscribeStopsDeliveries(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()

	deliveries := make(chan struct{}, 8)
	unsub, err := s.Subscribe(ctx, "sales", func(json.RawMessage) {
		deliveries <- struct{}{}
	})
	require.NoError(t, err)

	<-deliveries
	unsub()
	unsub() // idempotent

	require.NoError(t, s.Write(ctx, "sales/k1", map[string]any{"total": 1}))
	select {
	case <-deliveries:
		t.Fatal("delivery after unsubscribe")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestGenerateKeysSortInCreationOrder(t *testing.T) {
	s := memory.NewStore()

	k1 := s.GenerateKey("sales")
	time.Sleep(2 * time.Millisecond)
	k2 := s.GenerateKey("sales")

	assert.NotEqual(t, k1, k2)
	assert.Less(t, k1, k2)
}

func TestDisconnectedStoreFailsWithTransportError(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()

	states := make(chan bool, 4)
	unwatch := s.Connected(func(connected bool) { states <- connected })
	defer unwatch()
	assert.True(t, <-states) // current state pushed on registration

	s.SetConnected(false)
	assert.False(t, <-states)

	assert.ErrorIs(t, s.Write(ctx, "sales/k1", map[string]any{}), apperrors.ErrTransport)
	_, err := s.Read(ctx, "sales/k1")
	assert.ErrorIs(t, err, apperrors.ErrTransport)
	assert.ErrorIs(t, s.Delete(ctx, "sales/k1"), apperrors.ErrTransport)
	_, err = s.Subscribe(ctx, "sales", func(json.RawMessage) {})
	assert.ErrorIs(t, err, apperrors.ErrTransport)

	s.SetConnected(true)
	assert.True(t, <-states)
	assert.NoError(t, s.Write(ctx, "sales/k1", map[string]any{"total": 1}))
}
