// Package repo – record repository. A record row is created on the
// first order for the material; the location column is the only field
// the order core mutates afterwards.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/arkivdk/readingroom/internal/domain"
)

// GetRecord fetches a record by id, or ErrNotFound if missing.
func GetRecord(ctx context.Context, db *gorm.DB, recordID string) (*domain.Record, error) {
	var r domain.Record
	if err := db.WithContext(ctx).First(&r, "record_id = ?", recordID).Error; err != nil {
		return nil, err
	}
	return &r, nil
}

// UpsertRecord inserts or refreshes the record row from material
// metadata. An existing row keeps its current location; only the
// descriptive fields are replaced.
func UpsertRecord(ctx context.Context, db *gorm.DB, meta domain.MaterialMeta) (*domain.Record, error) {
	now := time.Now().UTC()
	r := &domain.Record{
		RecordID:  meta.RecordID,
		Label:     meta.Label,
		Location:  meta.Location,
		Meta:      meta.Meta,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "record_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"label", "meta", "updated_at"}),
		}).
		Create(r).Error
	if err != nil {
		return nil, err
	}
	// The insert struct carries the metadata location; re-read so the
	// caller sees the persisted location of a pre-existing row.
	return GetRecord(ctx, db, meta.RecordID)
}

// UpdateRecordLocation moves the record to a new physical location.
// Returns ErrNotFound when the record does not exist.
func UpdateRecordLocation(ctx context.Context, db *gorm.DB, recordID string, loc domain.RecordLocation) error {
	res := db.WithContext(ctx).
		Model(&domain.Record{}).
		Where("record_id = ?", recordID).
		Updates(map[string]any{"location": loc, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
