// Package repo – user repository. Users are written with replace-by-key
// semantics: every patron interaction refreshes the stored identity.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/arkivdk/readingroom/internal/domain"
)

// UpsertUser inserts the user row or refreshes its mutable fields when
// it already exists.
func UpsertUser(ctx context.Context, db *gorm.DB, info domain.UserInfo) (*domain.User, error) {
	now := time.Now().UTC()
	u := &domain.User{
		UserID:      info.UserID,
		DisplayName: info.DisplayName,
		Email:       info.Email,
		Verified:    info.Verified,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"display_name", "email", "verified", "updated_at"}),
		}).
		Create(u).Error
	if err != nil {
		return nil, err
	}
	return u, nil
}

// GetUser fetches a user by id, or ErrNotFound if missing.
func GetUser(ctx context.Context, db *gorm.DB, userID string) (*domain.User, error) {
	var u domain.User
	if err := db.WithContext(ctx).First(&u, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &u, nil
}
