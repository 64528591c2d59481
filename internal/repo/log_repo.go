// Package repo – audit log repository. Entries are append-only: there
// is no update or delete path for orders_log.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/arkivdk/readingroom/internal/domain"
)

// logListLimit caps the staff log view to the most recent entries.
const logListLimit = 100

// AppendLog writes one audit entry capturing the order's location and
// status at the time of the event.
func AppendLog(ctx context.Context, db *gorm.DB, userID string, o *domain.OrderView, message string) error {
	entry := &domain.OrderLog{
		UserID:    userID,
		OrderID:   o.OrderID,
		RecordID:  o.RecordID,
		Location:  o.Location,
		Status:    o.Status,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
	return db.WithContext(ctx).Create(entry).Error
}

// ListLogs returns the most recent audit entries, newest first, joined
// with user and record names. With orderID > 0 only that order's
// entries are returned.
func ListLogs(ctx context.Context, db *gorm.DB, orderID int64) ([]domain.LogView, error) {
	tx := db.WithContext(ctx).
		Table("orders_log l").
		Select("l.log_id, l.user_id, l.order_id, l.record_id, l.location, l.order_status, "+
			"l.message, l.created_at, u.display_name, r.label").
		Joins("LEFT JOIN users u ON l.user_id = u.user_id").
		Joins("LEFT JOIN records r ON l.record_id = r.record_id")
	if orderID > 0 {
		tx = tx.Where("l.order_id = ?", orderID)
	}
	var out []domain.LogView
	err := tx.Order("l.log_id DESC").Limit(logListLimit).Find(&out).Error
	return out, err
}

// CountLogs returns the number of audit entries for an order.
func CountLogs(ctx context.Context, db *gorm.DB, orderID int64) (int64, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.OrderLog{}).
		Where("order_id = ?", orderID).
		Count(&n).Error
	return n, err
}
