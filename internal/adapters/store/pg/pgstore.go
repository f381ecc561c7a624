// Package pg implements the remote synchronized store on PostgreSQL. Every
// document lives in one row of store_documents keyed by its full path, and
// change fan-out rides LISTEN/NOTIFY so all backend instances sharing the
// database see each other's writes.
package pg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/opsledger/ops_ledger_app/internal/apperrors"
	"github.com/opsledger/ops_ledger_app/internal/core/ports/store"
)

const notifyChannel = "store_changes"

// reconnectDelay paces listener reconnect attempts after a dropped
// connection.
const reconnectDelay = 2 * time.Second

type subscriber struct {
	path    string
	onValue func(json.RawMessage)
	kick    chan struct{}
	done    chan struct{}
}

type connSub struct {
	fn func(bool)
}

// Store is the PostgreSQL-backed RemoteStore.
type Store struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
	cancel context.CancelFunc

	mu        sync.Mutex
	subs      map[*subscriber]struct{}
	connSubs  map[*connSub]struct{}
	connected bool
}

var _ store.RemoteStore = (*Store)(nil)

// New creates a PostgreSQL store over an established pool and starts the
// notification listener. Close releases the listener; the pool stays owned
// by the caller.
func New(pool *pgxpool.Pool, logger *slog.Logger) *Store {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Store{
		pool:     pool,
		logger:   logger,
		cancel:   cancel,
		subs:     make(map[*subscriber]struct{}),
		connSubs: make(map[*connSub]struct{}),
	}
	go s.listen(ctx)
	return s
}

// Close stops the notification listener and tears down subscriptions.
func (s *Store) Close() {
	s.cancel()
}

// listen holds a dedicated connection on the notify channel, re-acquiring
// it after failures. Connection state tracks whether the listener is live.
func (s *Store) listen(ctx context.Context) {
	for ctx.Err() == nil {
		if err := s.listenOnce(ctx); err != nil && ctx.Err() == nil {
			s.logger.Warn("Store listener lost, reconnecting", slog.String("error", err.Error()))
		}
		s.setConnected(false)

		select {
		case <-ctx.Done():
			return
		case <-time.After(reconnectDelay):
		}
	}
}

func (s *Store) listenOnce(ctx context.Context) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+notifyChannel); err != nil {
		return err
	}
	s.setConnected(true)

	// Notifications may have been missed while disconnected; re-push every
	// live subscription once the channel is up again.
	s.kickAll()

	for {
		notification, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return err
		}
		s.dispatch(notification.Payload)
	}
}

func (s *Store) setConnected(connected bool) {
	s.mu.Lock()
	if s.connected == connected {
		s.mu.Unlock()
		return
	}
	s.connected = connected
	fns := make([]func(bool), 0, len(s.connSubs))
	for cs := range s.connSubs {
		fns = append(fns, cs.fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(connected)
	}
}

func (s *Store) kickAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for sub := range s.subs {
		select {
		case sub.kick <- struct{}{}:
		default:
		}
	}
}

func (s *Store) dispatch(changedPath string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for sub := range s.subs {
		if overlaps(sub.path, changedPath) {
			select {
			case sub.kick <- struct{}{}:
			default:
			}
		}
	}
}

// overlaps reports whether one path is the other or an ancestor of it.
func overlaps(a, b string) bool {
	return a == b || strings.HasPrefix(b, a+"/") || strings.HasPrefix(a, b+"/")
}

func transportErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", apperrors.ErrTransport, op, err)
}

func (s *Store) Read(ctx context.Context, path string) (json.RawMessage, error) {
	var doc []byte
	err := s.pool.QueryRow(ctx, `SELECT doc FROM store_documents WHERE path = $1`, path).Scan(&doc)
	if err == nil {
		return doc, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, transportErr("read", err)
	}

	// No document at the exact path; assemble the subtree rooted there from
	// descendant rows, the way a hierarchical store reads a collection.
	rows, err := s.pool.Query(ctx, `SELECT path, doc FROM store_documents WHERE path LIKE $1`, likePrefix(path))
	if err != nil {
		return nil, transportErr("read subtree", err)
	}
	defer rows.Close()

	tree := make(map[string]any)
	for rows.Next() {
		var childPath string
		var childDoc []byte
		if err := rows.Scan(&childPath, &childDoc); err != nil {
			return nil, transportErr("read subtree", err)
		}
		var value any
		if err := json.Unmarshal(childDoc, &value); err != nil {
			return nil, fmt.Errorf("corrupt document at %s: %w", childPath, err)
		}
		insertAt(tree, strings.Split(strings.TrimPrefix(childPath, path+"/"), "/"), value)
	}
	if err := rows.Err(); err != nil {
		return nil, transportErr("read subtree", err)
	}
	if len(tree) == 0 {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrNotFound, path)
	}
	return json.Marshal(tree)
}

// likePrefix escapes LIKE metacharacters in path segments so keys containing
// % or _ cannot widen the match.
func likePrefix(path string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(path)
	return escaped + "/%"
}

func insertAt(tree map[string]any, segments []string, value any) {
	node := tree
	for _, seg := range segments[:len(segments)-1] {
		child, ok := node[seg].(map[string]any)
		if !ok {
			child = make(map[string]any)
			node[seg] = child
		}
		node = child
	}
	node[segments[len(segments)-1]] = value
}

func (s *Store) Write(ctx context.Context, path string, value any) error {
	return s.inTx(ctx, "write", func(tx pgx.Tx) error {
		return writeTx(ctx, tx, path, value)
	})
}

func (s *Store) MergeFields(ctx context.Context, path string, fields map[string]any) error {
	doc, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("unencodable merge fields at %s: %w", path, err)
	}
	return s.inTx(ctx, "merge", func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO store_documents (path, doc, updated_at) VALUES ($1, $2, now())
			ON CONFLICT (path) DO UPDATE SET doc = store_documents.doc || EXCLUDED.doc, updated_at = now()`,
			path, doc)
		if err != nil {
			return err
		}
		return notifyTx(ctx, tx, path)
	})
}

func (s *Store) MultiWrite(ctx context.Context, writes map[string]any) error {
	return s.inTx(ctx, "multiwrite", func(tx pgx.Tx) error {
		for path, value := range writes {
			if err := writeTx(ctx, tx, path, value); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) GenerateKey(_ string) string {
	// Millisecond prefix keeps generated keys sortable by creation time.
	return fmt.Sprintf("%013d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}

func (s *Store) Delete(ctx context.Context, path string) error {
	return s.inTx(ctx, "delete", func(tx pgx.Tx) error {
		return writeTx(ctx, tx, path, nil)
	})
}

func (s *Store) Subscribe(ctx context.Context, path string, onValue func(json.RawMessage)) (store.Unsubscribe, error) {
	sub := &subscriber{
		path:    path,
		onValue: onValue,
		kick:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	sub.kick <- struct{}{} // initial delivery

	s.mu.Lock()
	s.subs[sub] = struct{}{}
	s.mu.Unlock()

	go s.deliver(ctx, sub)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, sub)
			s.mu.Unlock()
			close(sub.done)
		})
	}, nil
}

// deliver re-reads the subscribed path on every kick and pushes the value.
// Running in one goroutine per subscriber serializes callbacks.
func (s *Store) deliver(ctx context.Context, sub *subscriber) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.done:
			return
		case <-sub.kick:
			value, err := s.Read(ctx, sub.path)
			if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
				s.logger.Warn("Subscription read failed",
					slog.String("path", sub.path), slog.String("error", err.Error()))
				continue
			}
			sub.onValue(value)
		}
	}
}

func (s *Store) Connected(fn func(bool)) store.Unsubscribe {
	cs := &connSub{fn: fn}
	s.mu.Lock()
	s.connSubs[cs] = struct{}{}
	current := s.connected
	s.mu.Unlock()

	fn(current)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.connSubs, cs)
			s.mu.Unlock()
		})
	}
}

func (s *Store) inTx(ctx context.Context, op string, fn func(tx pgx.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return transportErr(op, err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return transportErr(op, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return transportErr(op, err)
	}
	return nil
}

// writeTx overwrites the subtree at path inside tx. A nil value deletes the
// subtree. pg_notify fires on commit, so readers only ever see committed
// state.
func writeTx(ctx context.Context, tx pgx.Tx, path string, value any) error {
	if _, err := tx.Exec(ctx,
		`DELETE FROM store_documents WHERE path = $1 OR path LIKE $2`, path, likePrefix(path)); err != nil {
		return err
	}
	if value != nil {
		doc, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("unencodable value at %s: %w", path, err)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO store_documents (path, doc, updated_at) VALUES ($1, $2, now())`, path, doc); err != nil {
			return err
		}
	}
	return notifyTx(ctx, tx, path)
}

func notifyTx(ctx context.Context, tx pgx.Tx, path string) error {
	_, err := tx.Exec(ctx, `SELECT pg_notify($1, $2)`, notifyChannel, path)
	return err
}
