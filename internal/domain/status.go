package domain

// OrderStatus is the lifecycle status of an order. The numeric values
// are stable and stored in the database; do not renumber.
type OrderStatus int

const (
	// StatusOrdered marks the single active holder of a record.
	StatusOrdered OrderStatus = 1
	// StatusCompleted is a terminal status: the holder finished (or the
	// order expired).
	StatusCompleted OrderStatus = 2
	// StatusQueued marks an order waiting for the current holder to
	// finish. Queued orders are promoted in creation order.
	StatusQueued OrderStatus = 3
	// StatusDeleted is a terminal status; the row is kept for history.
	StatusDeleted OrderStatus = 4
	// StatusApplication marks an order awaiting manual staff review
	// before it may enter the queue.
	StatusApplication OrderStatus = 5
)

// ActiveStatuses are the statuses that count as "active" for the
// one-active-order-per-(user,record) rule.
var ActiveStatuses = []OrderStatus{StatusApplication, StatusQueued, StatusOrdered}

// TerminalStatuses are the statuses an order can be moved to by a
// status update; reaching one of them triggers queue promotion.
var TerminalStatuses = []OrderStatus{StatusCompleted, StatusDeleted}

// IsActive reports whether the status counts against the
// one-active-order-per-user rule.
func (s OrderStatus) IsActive() bool {
	return s == StatusApplication || s == StatusQueued || s == StatusOrdered
}

// IsTerminal reports whether the status ends an order's lifecycle.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusDeleted
}

// String returns a stable lowercase name for logging and display.
func (s OrderStatus) String() string {
	switch s {
	case StatusOrdered:
		return "ordered"
	case StatusCompleted:
		return "completed"
	case StatusQueued:
		return "queued"
	case StatusDeleted:
		return "deleted"
	case StatusApplication:
		return "application"
	default:
		return "unknown"
	}
}

// RecordLocation is the physical location of a record. The numeric
// values are stable and stored in the database; do not renumber.
type RecordLocation int

const (
	// LocationInStorage means the material must be retrieved before it
	// can be viewed.
	LocationInStorage RecordLocation = 2
	// LocationReadingRoom means the material is available in the
	// reading room; arriving here starts the holder's deadline.
	LocationReadingRoom RecordLocation = 3
	// LocationOnline means the material is available digitally.
	LocationOnline RecordLocation = 4
)

// String returns a stable lowercase name for logging and display.
func (l RecordLocation) String() string {
	switch l {
	case LocationInStorage:
		return "in_storage"
	case LocationReadingRoom:
		return "reading_room"
	case LocationOnline:
		return "online"
	default:
		return "unknown"
	}
}
