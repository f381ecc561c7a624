package domain

import "time"

// DateLayout is the wire format for record dates.
const DateLayout = "2006-01-02"

// Clock supplies the current time; injected so tests can pin timestamps.
type Clock func() time.Time

// StampOf returns the unix-millisecond timestamp stored on records.
func StampOf(t time.Time) int64 {
	return t.UnixMilli()
}

// DateOf returns the record date string for t.
func DateOf(t time.Time) string {
	return t.Format(DateLayout)
}
