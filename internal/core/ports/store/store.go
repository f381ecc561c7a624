// Package store defines the remote synchronized store port every record
// store is built on. The store is a hierarchical, eventually-consistent
// key-path document tree with push-based live subscriptions.
package store

import (
	"context"
	"encoding/json"
)

// Unsubscribe tears down a live subscription. Callers must invoke it when
// the consumer goes away or the subscriber list leaks.
type Unsubscribe func()

// RemoteStore is the generic key-path read/write/subscribe contract.
//
// Paths are slash-separated segment chains ("sales/<key>"); a write at a
// path overwrites the whole subtree beneath it, and a merge updates only the
// named child fields. Concurrent writers observe last-write-wins at the
// granularity of the call. Subscriptions push the current value immediately
// and again on every subsequent change; intermediate states may be coalesced.
type RemoteStore interface {
	// Read returns the JSON value at path, or apperrors.ErrNotFound when the
	// path holds nothing.
	Read(ctx context.Context, path string) (json.RawMessage, error)

	// Write overwrites the subtree at path with value.
	Write(ctx context.Context, path string, value any) error

	// MergeFields updates the named child keys at path, leaving siblings
	// untouched.
	MergeFields(ctx context.Context, path string, fields map[string]any) error

	// MultiWrite applies every path→value pair as one atomic update. A nil
	// value deletes the path. Used for multi-record operations that must not
	// partially complete.
	MultiWrite(ctx context.Context, writes map[string]any) error

	// GenerateKey allocates a globally unique, time-ordered child key under
	// path and returns the key (not the full path).
	GenerateKey(path string) string

	// Delete removes the subtree at path. Deleting an absent path is not an
	// error.
	Delete(ctx context.Context, path string) error

	// Subscribe registers onValue for the path. The current value (nil when
	// absent) is delivered immediately, then again on every change until the
	// returned Unsubscribe runs or ctx is done.
	Subscribe(ctx context.Context, path string, onValue func(json.RawMessage)) (Unsubscribe, error)

	// Connected registers fn for connection-state changes, delivering the
	// current state immediately.
	Connected(fn func(bool)) Unsubscribe
}
