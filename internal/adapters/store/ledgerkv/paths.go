// Package ledgerkv implements the repository facades on top of the remote
// synchronized store, mapping each record collection to a key path.
package ledgerkv

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Collection roots. Every record lives under one of these.
const (
	salesPath         = "sales"
	inventoryPath     = "inventory"
	templatesPath     = "competitor/templates"
	reportsPath       = "competitor/reports"
	leaveBalancesPath = "leave/balances"
	leaveHistoryPath  = "leave/history"
	catalogsPath      = "catalogs"
	settingsPath      = "settings/app"
	usersPath         = "users"
)

// keyEscaper replaces the characters the store forbids in path segments.
var keyEscaper = strings.NewReplacer(
	".", "_",
	"#", "_",
	"$", "_",
	"[", "_",
	"]", "_",
	"/", "_",
)

// EscapeKey makes an arbitrary string safe to use as one path segment.
func EscapeKey(s string) string {
	return keyEscaper.Replace(s)
}

func join(segs ...string) string {
	return strings.Join(segs, "/")
}

// decodeMap decodes a collection subtree (store key → record) into typed
// records. A nil raw value decodes to an empty map.
func decodeMap[T any](raw json.RawMessage) (map[string]T, error) {
	out := make(map[string]T)
	if len(raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode collection: %w", err)
	}
	return out, nil
}

// decodeOne decodes a single record subtree.
func decodeOne[T any](raw json.RawMessage) (*T, error) {
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode record: %w", err)
	}
	return &out, nil
}
