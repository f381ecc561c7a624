// Package memory provides an in-memory implementation of the remote
// synchronized store, used for tests and single-node ephemeral deployments.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/opsledger/ops_ledger_app/internal/apperrors"
	"github.com/opsledger/ops_ledger_app/internal/core/ports/store"
)

// Compile-time contract assertion.
var _ store.RemoteStore = (*Store)(nil)

type subscriber struct {
	path string
	slot chan json.RawMessage // capacity 1; newer snapshots replace queued ones
	stop chan struct{}
}

type connWatcher struct {
	fn func(bool)
}

// Store keeps the whole document tree as nested maps guarded by one RWMutex.
// Subscription delivery is asynchronous and coalescing: a subscriber that is
// slow to drain observes only the latest committed state, never every
// intermediate write.
type Store struct {
	mu        sync.RWMutex
	root      map[string]any
	subs      map[*subscriber]struct{}
	connSubs  map[*connWatcher]struct{}
	connected bool
}

// NewStore returns an empty connected store.
func NewStore() *Store {
	return &Store{
		root:      make(map[string]any),
		subs:      make(map[*subscriber]struct{}),
		connSubs:  make(map[*connWatcher]struct{}),
		connected: true,
	}
}

func splitPath(path string) []string {
	parts := strings.Split(path, "/")
	segs := parts[:0]
	for _, p := range parts {
		if p != "" {
			segs = append(segs, p)
		}
	}
	return segs
}

// normalize round-trips a value through JSON so the tree holds only plain
// maps, slices and scalars regardless of the caller's concrete types.
func normalize(value any) (any, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to encode value: %w", err)
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode value: %w", err)
	}
	return out, nil
}

func lookup(root map[string]any, segs []string) (any, bool) {
	var cur any = root
	for _, seg := range segs {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[seg]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func setAt(root map[string]any, segs []string, value any) {
	m := root
	for _, seg := range segs[:len(segs)-1] {
		child, ok := m[seg].(map[string]any)
		if !ok {
			child = make(map[string]any)
			m[seg] = child
		}
		m = child
	}
	m[segs[len(segs)-1]] = value
}

func deleteAt(root map[string]any, segs []string) {
	if len(segs) == 0 {
		return
	}
	parents := make([]map[string]any, 0, len(segs))
	m := root
	for _, seg := range segs[:len(segs)-1] {
		parents = append(parents, m)
		child, ok := m[seg].(map[string]any)
		if !ok {
			return
		}
		m = child
	}
	delete(m, segs[len(segs)-1])
	// prune now-empty intermediate maps so absent paths read as not found
	for i := len(parents) - 1; i >= 0; i-- {
		if len(m) != 0 {
			break
		}
		delete(parents[i], segs[i])
		m = parents[i]
	}
}

func (s *Store) checkConnected() error {
	if !s.connected {
		return apperrors.ErrTransport
	}
	return nil
}

// Read returns the JSON value at path.
func (s *Store) Read(ctx context.Context, path string) (json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkConnected(); err != nil {
		return nil, err
	}
	val, ok := lookup(s.root, splitPath(path))
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	raw, err := json.Marshal(val)
	if err != nil {
		return nil, fmt.Errorf("failed to encode subtree at %q: %w", path, err)
	}
	return raw, nil
}

// Write overwrites the subtree at path.
func (s *Store) Write(ctx context.Context, path string, value any) error {
	norm, err := normalize(value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	if err := s.checkConnected(); err != nil {
		s.mu.Unlock()
		return err
	}
	segs := splitPath(path)
	if norm == nil {
		deleteAt(s.root, segs)
	} else {
		setAt(s.root, segs, norm)
	}
	s.notifyLocked(path)
	s.mu.Unlock()
	return nil
}

// MergeFields updates the named child keys at path, leaving siblings alone.
func (s *Store) MergeFields(ctx context.Context, path string, fields map[string]any) error {
	s.mu.Lock()
	if err := s.checkConnected(); err != nil {
		s.mu.Unlock()
		return err
	}
	for key, value := range fields {
		norm, err := normalize(value)
		if err != nil {
			s.mu.Unlock()
			return err
		}
		segs := append(splitPath(path), key)
		if norm == nil {
			deleteAt(s.root, segs)
		} else {
			setAt(s.root, segs, norm)
		}
	}
	s.notifyLocked(path)
	s.mu.Unlock()
	return nil
}

// MultiWrite applies every path→value pair under one lock section; either
// all of them are visible to readers and subscribers, or none.
func (s *Store) MultiWrite(ctx context.Context, writes map[string]any) error {
	normalized := make(map[string]any, len(writes))
	for path, value := range writes {
		if value == nil {
			normalized[path] = nil
			continue
		}
		norm, err := normalize(value)
		if err != nil {
			return err
		}
		normalized[path] = norm
	}
	s.mu.Lock()
	if err := s.checkConnected(); err != nil {
		s.mu.Unlock()
		return err
	}
	for path, value := range normalized {
		segs := splitPath(path)
		if value == nil {
			deleteAt(s.root, segs)
		} else {
			setAt(s.root, segs, value)
		}
	}
	for path := range normalized {
		s.notifyLocked(path)
	}
	s.mu.Unlock()
	return nil
}

// GenerateKey allocates a time-ordered unique child key. The millisecond
// prefix keeps generated keys sortable in creation order.
func (s *Store) GenerateKey(path string) string {
	return fmt.Sprintf("%013d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}

// Delete removes the subtree at path. Absent paths are not an error.
func (s *Store) Delete(ctx context.Context, path string) error {
	s.mu.Lock()
	if err := s.checkConnected(); err != nil {
		s.mu.Unlock()
		return err
	}
	deleteAt(s.root, splitPath(path))
	s.notifyLocked(path)
	s.mu.Unlock()
	return nil
}

// Subscribe registers onValue for path. The current value is delivered
// immediately, then again after every overlapping mutation until the
// returned unsubscribe runs or ctx is done.
func (s *Store) Subscribe(ctx context.Context, path string, onValue func(json.RawMessage)) (store.Unsubscribe, error) {
	sub := &subscriber{
		path: path,
		slot: make(chan json.RawMessage, 1),
		stop: make(chan struct{}),
	}

	s.mu.Lock()
	if err := s.checkConnected(); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.subs[sub] = struct{}{}
	s.pushLocked(sub)
	s.mu.Unlock()

	done := ctx.Done()
	go func() {
		for {
			select {
			case raw := <-sub.slot:
				onValue(raw)
			case <-sub.stop:
				return
			case <-done:
				s.removeSub(sub)
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.removeSub(sub)
			close(sub.stop)
		})
	}, nil
}

func (s *Store) removeSub(sub *subscriber) {
	s.mu.Lock()
	delete(s.subs, sub)
	s.mu.Unlock()
}

// Connected registers fn for connection-state changes.
func (s *Store) Connected(fn func(bool)) store.Unsubscribe {
	w := &connWatcher{fn: fn}
	s.mu.Lock()
	s.connSubs[w] = struct{}{}
	state := s.connected
	s.mu.Unlock()
	fn(state)
	return func() {
		s.mu.Lock()
		delete(s.connSubs, w)
		s.mu.Unlock()
	}
}

// SetConnected simulates transport loss and recovery. While disconnected,
// every operation fails with apperrors.ErrTransport.
func (s *Store) SetConnected(connected bool) {
	s.mu.Lock()
	changed := s.connected != connected
	s.connected = connected
	watchers := make([]*connWatcher, 0, len(s.connSubs))
	for w := range s.connSubs {
		watchers = append(watchers, w)
	}
	s.mu.Unlock()
	if !changed {
		return
	}
	for _, w := range watchers {
		w.fn(connected)
	}
}

// overlaps reports whether a mutation at changed affects the value at sub.
// True when either path is an ancestor of the other (or they are equal).
func overlaps(sub, changed []string) bool {
	n := len(sub)
	if len(changed) < n {
		n = len(changed)
	}
	for i := 0; i < n; i++ {
		if sub[i] != changed[i] {
			return false
		}
	}
	return true
}

// notifyLocked re-reads and enqueues the value for every subscriber whose
// path overlaps the changed one. Callers hold s.mu.
func (s *Store) notifyLocked(changedPath string) {
	changed := splitPath(changedPath)
	for sub := range s.subs {
		if overlaps(splitPath(sub.path), changed) {
			s.pushLocked(sub)
		}
	}
}

// pushLocked marshals the subscriber's current value into its slot,
// displacing any undelivered older snapshot.
func (s *Store) pushLocked(sub *subscriber) {
	var raw json.RawMessage
	if val, ok := lookup(s.root, splitPath(sub.path)); ok {
		raw, _ = json.Marshal(val)
	}
	for {
		select {
		case sub.slot <- raw:
			return
		default:
			select {
			case <-sub.slot:
			default:
			}
		}
	}
}
