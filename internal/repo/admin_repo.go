// Package repo – staff listing queries. These back the admin order
// pages: active holders, completed materials awaiting return to
// storage, and the full order history.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/arkivdk/readingroom/internal/domain"
)

// AdminFilter narrows the staff listing. Zero-valued fields are
// ignored. Email and Name match by prefix.
type AdminFilter struct {
	Location   domain.RecordLocation
	Email      string
	Name       string
	ShowQueued bool
	Limit      int
	Offset     int
}

// applySearch attaches the optional location/email/name predicates.
func (f AdminFilter) applySearch(tx *gorm.DB) *gorm.DB {
	if f.Location != 0 {
		tx = tx.Where("r.location = ?", f.Location)
	}
	if f.Email != "" {
		tx = tx.Where("u.email LIKE ?", f.Email+"%")
	}
	if f.Name != "" {
		tx = tx.Where("u.display_name LIKE ?", f.Name+"%")
	}
	return tx
}

// ListActiveOrders returns the page of currently active orders, newest
// first. Applications count as active so staff can see pending reviews;
// queued orders are included only when ShowQueued is set.
func ListActiveOrders(ctx context.Context, db *gorm.DB, f AdminFilter, offset int) ([]domain.OrderView, error) {
	statuses := []domain.OrderStatus{domain.StatusOrdered, domain.StatusApplication}
	if f.ShowQueued {
		statuses = append(statuses, domain.StatusQueued)
	}
	var out []domain.OrderView
	err := f.applySearch(viewQuery(ctx, db)).
		Where("o.order_status IN ?", statuses).
		Order("o.order_id DESC").
		Limit(f.Limit).
		Offset(offset).
		Find(&out).Error
	return out, err
}

// ListCompletedOrders returns the page of materials whose last order
// finished but which have not been returned to storage yet: the most
// recent completed/deleted order per record, excluding records that
// already have a new holder and records back in storage.
func ListCompletedOrders(ctx context.Context, db *gorm.DB, f AdminFilter, offset int) ([]domain.OrderView, error) {
	terminal := domain.TerminalStatuses

	latestPerRecord := db.
		Table("orders o2").
		Select("o2.order_id").
		Where("o2.record_id = o.record_id AND o2.order_status IN ?", terminal).
		Order("o2.updated_at DESC").
		Order("o2.order_id DESC").
		Limit(1)

	orderedRecords := db.
		Model(&domain.Order{}).
		Select("record_id").
		Where("order_status = ?", domain.StatusOrdered)

	var out []domain.OrderView
	err := f.applySearch(viewQuery(ctx, db)).
		Where("o.order_status IN ?", terminal).
		Where("o.order_id = (?)", latestPerRecord).
		Where("o.record_id NOT IN (?)", orderedRecords).
		Where("r.location <> ?", domain.LocationInStorage).
		Order("o.updated_at DESC").
		Limit(f.Limit).
		Offset(offset).
		Find(&out).Error
	return out, err
}

// ListHistoryOrders returns the page of all completed and deleted
// orders, most recently updated first.
func ListHistoryOrders(ctx context.Context, db *gorm.DB, f AdminFilter, offset int) ([]domain.OrderView, error) {
	var out []domain.OrderView
	err := f.applySearch(viewQuery(ctx, db)).
		Where("o.order_status IN ?", domain.TerminalStatuses).
		Order("o.updated_at DESC").
		Limit(f.Limit).
		Offset(offset).
		Find(&out).Error
	return out, err
}

// QueuedCounts returns, for each given record id, the number of queued
// orders waiting on it. Records without queued orders are absent from
// the map.
func QueuedCounts(ctx context.Context, db *gorm.DB, recordIDs []string) (map[string]int64, error) {
	if len(recordIDs) == 0 {
		return map[string]int64{}, nil
	}
	type row struct {
		RecordID    string
		QueuedCount int64
	}
	var rows []row
	err := db.WithContext(ctx).
		Model(&domain.Order{}).
		Select("record_id, COUNT(*) AS queued_count").
		Where("order_status = ? AND record_id IN ?", domain.StatusQueued, recordIDs).
		Group("record_id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.RecordID] = r.QueuedCount
	}
	return out, nil
}
