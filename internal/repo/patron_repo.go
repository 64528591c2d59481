// Package repo – patron order queries. These back the "my orders"
// pages: materials ready in the reading room, and reservations still
// waiting (queued, or ordered but not yet retrieved).
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/arkivdk/readingroom/internal/domain"
)

// ListUserActiveOrders returns the user's orders that are ready for
// viewing: ORDERED with the record in the reading room. Newest first.
func ListUserActiveOrders(ctx context.Context, db *gorm.DB, userID string) ([]domain.OrderView, error) {
	var out []domain.OrderView
	err := viewQuery(ctx, db).
		Where("o.user_id = ? AND o.order_status = ? AND r.location = ?",
			userID, domain.StatusOrdered, domain.LocationReadingRoom).
		Order("o.order_id DESC").
		Find(&out).Error
	return out, err
}

// ListUserReservedOrders returns the user's orders still waiting:
// queued behind another holder, or ordered with the material not yet in
// the reading room. Newest first.
func ListUserReservedOrders(ctx context.Context, db *gorm.DB, userID string) ([]domain.OrderView, error) {
	var out []domain.OrderView
	err := viewQuery(ctx, db).
		Where("o.user_id = ?", userID).
		Where("o.order_status = ? OR (o.order_status = ? AND r.location <> ?)",
			domain.StatusQueued, domain.StatusOrdered, domain.LocationReadingRoom).
		Order("o.order_id DESC").
		Find(&out).Error
	return out, err
}
