package domain

import "time"

// OrderView is the joined read model of an order together with its
// record and user rows. It backs the staff listing, the patron order
// pages, and the internal state-machine reads (which need the record's
// location next to the order's status in one row).
type OrderView struct {
	OrderID     int64       `json:"order_id"`
	UserID      string      `json:"user_id"`
	RecordID    string      `json:"record_id"`
	Status      OrderStatus `json:"order_status" gorm:"column:order_status"`
	ExpireAt    *time.Time  `json:"expire_at"`
	MessageSent bool        `json:"message_sent"`
	Comment     string      `json:"comment"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`

	// From the joined record row.
	Location RecordLocation `json:"location"`
	Label    string         `json:"label"`

	// From the joined user row.
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Verified    bool   `json:"verified"`

	// Computed fields, filled by the service layer where relevant.
	DaysRemaining       int   `json:"days_remaining"        gorm:"-"`
	RenewalPossible     bool  `json:"renewal_possible"      gorm:"-"`
	QueuedCount         int64 `json:"queued_count"          gorm:"-"`
	AllowLocationChange bool  `json:"allow_location_change" gorm:"-"`
}

// LogView is the joined read model of an audit entry with the names
// needed for display.
type LogView struct {
	LogID     int64          `json:"log_id"`
	UserID    string         `json:"user_id"`
	OrderID   int64          `json:"order_id"`
	RecordID  string         `json:"record_id"`
	Location  RecordLocation `json:"location"`
	Status    OrderStatus    `json:"order_status" gorm:"column:order_status"`
	Message   string         `json:"message"`
	CreatedAt time.Time      `json:"created_at"`

	DisplayName string `json:"display_name"`
	Label       string `json:"label"`
}
