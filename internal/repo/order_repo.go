// Package repo implements the data persistence layer for domain
// entities, backed by GORM. This file provides repository functions for
// the Order model and the structured order query builder.
//
// All functions are context-aware and accept a *gorm.DB handle, making
// them safe for use within transactions or connection-scoped
// operations. They follow the "thin repository" approach: no business
// logic, only CRUD persistence and query composition.
//
// Error semantics:
//   - When an order is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/arkivdk/readingroom/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer.
var ErrNotFound = gorm.ErrRecordNotFound

// OrderQuery is a structured filter for order lookups. Zero-valued
// fields are ignored, so callers list only the predicates they need.
// It replaces ad-hoc SQL string building with one explicit, parameter-
// bound composition point.
type OrderQuery struct {
	OrderID  int64
	UserID   string
	RecordID string
	Statuses []domain.OrderStatus
	// Location filters on the joined record's location.
	Location domain.RecordLocation
	// ExpireBefore matches orders whose deadline is strictly before the
	// given instant (nil deadlines never match).
	ExpireBefore *time.Time
	// ExpireAt matches orders whose deadline equals the given instant.
	ExpireAt *time.Time
}

// apply attaches the query's predicates to tx. The orders table is
// aliased "o" and the joined records table "r".
func (q OrderQuery) apply(tx *gorm.DB) *gorm.DB {
	if q.OrderID != 0 {
		tx = tx.Where("o.order_id = ?", q.OrderID)
	}
	if q.UserID != "" {
		tx = tx.Where("o.user_id = ?", q.UserID)
	}
	if q.RecordID != "" {
		tx = tx.Where("o.record_id = ?", q.RecordID)
	}
	if len(q.Statuses) > 0 {
		tx = tx.Where("o.order_status IN ?", q.Statuses)
	}
	if q.Location != 0 {
		tx = tx.Where("r.location = ?", q.Location)
	}
	if q.ExpireBefore != nil {
		tx = tx.Where("o.expire_at IS NOT NULL AND o.expire_at < ?", *q.ExpireBefore)
	}
	if q.ExpireAt != nil {
		tx = tx.Where("o.expire_at IS NOT NULL AND o.expire_at = ?", *q.ExpireAt)
	}
	return tx
}

// orderViewSelect is the joined projection backing OrderView.
const orderViewSelect = "o.order_id, o.user_id, o.record_id, o.order_status, o.expire_at, " +
	"o.message_sent, o.comment, o.created_at, o.updated_at, " +
	"r.location, r.label, u.display_name, u.email, u.verified"

// viewQuery starts a joined orders/records/users query.
func viewQuery(ctx context.Context, db *gorm.DB) *gorm.DB {
	return db.WithContext(ctx).
		Table("orders o").
		Select(orderViewSelect).
		Joins("LEFT JOIN records r ON o.record_id = r.record_id").
		Joins("LEFT JOIN users u ON o.user_id = u.user_id")
}

// FindOrders returns all joined order views matching q, newest first.
func FindOrders(ctx context.Context, db *gorm.DB, q OrderQuery) ([]domain.OrderView, error) {
	var out []domain.OrderView
	err := q.apply(viewQuery(ctx, db)).
		Order("o.order_id DESC").
		Find(&out).Error
	return out, err
}

// FindOrder returns the single joined order view matching q, or
// ErrNotFound when no order matches. With multiple matches the newest
// (highest order id) wins.
func FindOrder(ctx context.Context, db *gorm.DB, q OrderQuery) (*domain.OrderView, error) {
	var v domain.OrderView
	err := q.apply(viewQuery(ctx, db)).
		Order("o.order_id DESC").
		Take(&v).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// FirstQueued returns the earliest-created queued order on the record
// (lowest order id), or ErrNotFound when the queue is empty. The
// ordering is what guarantees FIFO promotion.
func FirstQueued(ctx context.Context, db *gorm.DB, recordID string) (*domain.OrderView, error) {
	var v domain.OrderView
	err := viewQuery(ctx, db).
		Where("o.record_id = ? AND o.order_status = ?", recordID, domain.StatusQueued).
		Order("o.order_id ASC").
		Take(&v).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// CreateOrder inserts a new order row and returns it with the
// generated id. Timestamps are set to UTC.
func CreateOrder(ctx context.Context, db *gorm.DB, userID, recordID string, status domain.OrderStatus) (*domain.Order, error) {
	now := time.Now().UTC()
	o := &domain.Order{
		UserID:    userID,
		RecordID:  recordID,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := db.WithContext(ctx).Create(o).Error; err != nil {
		return nil, err
	}
	return o, nil
}

// UpdateOrderFields applies a column map to a single order row and
// bumps updated_at. Returns ErrNotFound when the order does not exist.
func UpdateOrderFields(ctx context.Context, db *gorm.DB, orderID int64, fields map[string]any) error {
	fields["updated_at"] = time.Now().UTC()
	res := db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("order_id = ?", orderID).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// HasActiveOrder reports whether the user holds an order in an active
// status (application, queued, or ordered) on the record.
func HasActiveOrder(ctx context.Context, db *gorm.DB, userID, recordID string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("user_id = ? AND record_id = ? AND order_status IN ?", userID, recordID, domain.ActiveStatuses).
		Count(&n).Error
	return n > 0, err
}

// IsOwner reports whether the order exists and belongs to the user.
func IsOwner(ctx context.Context, db *gorm.DB, userID string, orderID int64) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("order_id = ? AND user_id = ?", orderID, userID).
		Count(&n).Error
	return n > 0, err
}

// HasOrderedOrder reports whether any order on the record is currently
// in StatusOrdered (the single-holder slot is taken).
func HasOrderedOrder(ctx context.Context, db *gorm.DB, recordID string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("record_id = ? AND order_status = ?", recordID, domain.StatusOrdered).
		Count(&n).Error
	return n > 0, err
}

// HasQueuedOrder reports whether any order on the record is waiting in
// the queue.
func HasQueuedOrder(ctx context.Context, db *gorm.DB, recordID string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.Order{}).
		Where("record_id = ? AND order_status = ?", recordID, domain.StatusQueued).
		Count(&n).Error
	return n > 0, err
}

// HasReadingRoomHolder reports whether some order other than
// exceptOrderID is ORDERED on the record while the record sits in the
// reading room. Such a holder locks the record's location until it
// finishes. Pass exceptOrderID 0 to consider every order.
func HasReadingRoomHolder(ctx context.Context, db *gorm.DB, recordID string, exceptOrderID int64) (bool, error) {
	var n int64
	tx := db.WithContext(ctx).
		Table("orders o").
		Joins("JOIN records r ON o.record_id = r.record_id").
		Where("o.record_id = ? AND o.order_status = ? AND r.location = ?",
			recordID, domain.StatusOrdered, domain.LocationReadingRoom)
	if exceptOrderID != 0 {
		tx = tx.Where("o.order_id <> ?", exceptOrderID)
	}
	err := tx.Count(&n).Error
	return n > 0, err
}
