package repo

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/arkivdk/readingroom/internal/domain"
)

// newTestDB opens a fresh temp-file SQLite database with the full
// schema migrated.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("repo_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	// Ensure the file handle is released before TempDir cleanup (Windows needs this).
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	if err := AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

// seedUser inserts a user row.
func seedUser(t *testing.T, db *gorm.DB, id string) {
	t.Helper()
	_, err := UpsertUser(context.Background(), db, domain.UserInfo{
		UserID:      id,
		DisplayName: "User " + id,
		Email:       id + "@example.com",
		Verified:    true,
	})
	if err != nil {
		t.Fatalf("seed user %s: %v", id, err)
	}
}

// seedRecord inserts a record row at the given location.
func seedRecord(t *testing.T, db *gorm.DB, id string, loc domain.RecordLocation) {
	t.Helper()
	_, err := UpsertRecord(context.Background(), db, domain.MaterialMeta{
		RecordID: id,
		Label:    "Material " + id,
		Location: loc,
	})
	if err != nil {
		t.Fatalf("seed record %s: %v", id, err)
	}
}

// seedOrder inserts an order row and returns its id.
func seedOrder(t *testing.T, db *gorm.DB, userID, recordID string, status domain.OrderStatus) int64 {
	t.Helper()
	o, err := CreateOrder(context.Background(), db, userID, recordID, status)
	if err != nil {
		t.Fatalf("seed order %s/%s: %v", userID, recordID, err)
	}
	return o.OrderID
}
