// Package calendar turns placement plans into painted calendar cells.
package calendar

import "sync/atomic"

// Latest hands out sequence numbers for overlapping fetches so that only the
// most recently started one is rendered.
type Latest struct {
	seq atomic.Uint64
}

// Begin starts a fetch and returns its ticket.
func (l *Latest) Begin() uint64 {
	return l.seq.Add(1)
}

// IsCurrent reports whether no fetch was started after the ticket.
func (l *Latest) IsCurrent(ticket uint64) bool {
	return l.seq.Load() == ticket
}
