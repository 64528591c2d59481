// Package domain defines the persistence models for users, records,
// orders, and the order audit log. These types are mapped with GORM and
// form the core data layer of the reservation system.
package domain

import (
	"time"
)

// User represents a patron (or staff member) known to the order system.
// Users are upserted whenever they interact with the system and are
// never deleted by this core.
//
// Fields:
//   - UserID: stable external identifier (primary key).
//   - DisplayName: human-readable name shown in staff views.
//   - Email: address used by the notification collaborator.
//   - Verified: whether the patron's email address has been verified.
type User struct {
	UserID      string    `json:"user_id"      gorm:"type:varchar(64);primaryKey"`
	DisplayName string    `json:"display_name" gorm:"type:varchar(255);not null"`
	Email       string    `json:"email"        gorm:"type:varchar(255);not null;index"`
	Verified    bool      `json:"verified"     gorm:"not null;default:false"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// Record represents a physical archive material that can be reserved.
// A record row is created on the first order for that material; after
// creation, Location is the only field this core mutates.
//
// Invariant: a record has at most one order in StatusOrdered at any time.
type Record struct {
	RecordID  string         `json:"record_id" gorm:"type:varchar(64);primaryKey"`
	Label     string         `json:"label"     gorm:"type:varchar(512);not null"`
	Location  RecordLocation `json:"location"  gorm:"not null;index"`
	Meta      string         `json:"meta"      gorm:"type:text"` // descriptive metadata, JSON from the metadata collaborator
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// TableName returns the database table name for Record.
func (Record) TableName() string { return "records" }

// Order represents a single reservation request by a user against a
// record. Orders are never physically deleted: StatusDeleted is a
// terminal status, not a row removal.
//
// Fields:
//   - OrderID: autoincrement primary key; creation order doubles as
//     queue order (lowest ID is promoted first).
//   - ExpireAt: reading-room deadline; nil until the order is ORDERED
//     with the record in the reading room.
//   - MessageSent: guards the one-time "ready for pickup" notification.
//     It transitions false to true at most once and is never reset.
type Order struct {
	OrderID     int64       `json:"order_id"     gorm:"primaryKey;autoIncrement"`
	UserID      string      `json:"user_id"      gorm:"type:varchar(64);not null;index:idx_user_orders"`
	RecordID    string      `json:"record_id"    gorm:"type:varchar(64);not null;index:idx_record_orders"`
	Status      OrderStatus `json:"order_status" gorm:"column:order_status;not null;index"`
	ExpireAt    *time.Time  `json:"expire_at"`
	MessageSent bool        `json:"message_sent" gorm:"not null;default:false"`
	Comment     string      `json:"comment"      gorm:"type:text"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`

	User   User   `json:"-" gorm:"foreignKey:UserID;references:UserID"`
	Record Record `json:"-" gorm:"foreignKey:RecordID;references:RecordID"`
}

// TableName returns the database table name for Order.
func (Order) TableName() string { return "orders" }

// OrderLog is an append-only audit entry. One entry is written per
// state-changing operation, capturing the order's location and status
// at the time of the event. Entries are never mutated or deleted.
type OrderLog struct {
	LogID     int64          `json:"log_id"       gorm:"primaryKey;autoIncrement"`
	UserID    string         `json:"user_id"      gorm:"type:varchar(64);not null;index"`
	OrderID   int64          `json:"order_id"     gorm:"not null;index"`
	RecordID  string         `json:"record_id"    gorm:"type:varchar(64);not null;index"`
	Location  RecordLocation `json:"location"     gorm:"not null"`
	Status    OrderStatus    `json:"order_status" gorm:"column:order_status;not null"`
	Message   string         `json:"message"      gorm:"type:varchar(512);not null"`
	CreatedAt time.Time      `json:"created_at"`
}

// TableName returns the database table name for OrderLog.
func (OrderLog) TableName() string { return "orders_log" }
