package domain

import "time"

// OrderUpdate is a tagged command for mutating a single aspect of an
// order. Exactly one field may be set per call; the service rejects
// commands with zero or more than one field set, so a caller can never
// trigger a partial multi-field apply.
//
// Variants:
//   - Status: move the order to a terminal status (completed/deleted),
//     triggering queue promotion for the record.
//   - Location: move the record to a new physical location, triggering
//     the reading-room deadline reaction where applicable.
//   - Comment: staff note on the order; a plain field write.
//   - ExpireAt: direct deadline override. Test support only; bypasses
//     the deadline policy.
type OrderUpdate struct {
	Status   *OrderStatus
	Location *RecordLocation
	Comment  *string
	ExpireAt *time.Time
}

// StatusUpdate builds a command that moves the order to status s.
func StatusUpdate(s OrderStatus) OrderUpdate { return OrderUpdate{Status: &s} }

// LocationUpdate builds a command that moves the record to location l.
func LocationUpdate(l RecordLocation) OrderUpdate { return OrderUpdate{Location: &l} }

// CommentUpdate builds a command that replaces the order comment.
func CommentUpdate(c string) OrderUpdate { return OrderUpdate{Comment: &c} }

// ExpireAtUpdate builds a command that overrides the deadline directly.
// Intended for tests.
func ExpireAtUpdate(t time.Time) OrderUpdate { return OrderUpdate{ExpireAt: &t} }

// variants counts how many fields of the command are set.
func (u OrderUpdate) variants() int {
	n := 0
	if u.Status != nil {
		n++
	}
	if u.Location != nil {
		n++
	}
	if u.Comment != nil {
		n++
	}
	if u.ExpireAt != nil {
		n++
	}
	return n
}

// Valid reports whether exactly one variant is set.
func (u OrderUpdate) Valid() bool { return u.variants() == 1 }
