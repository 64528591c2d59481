package services

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/arkivdk/readingroom/internal/config"
	"github.com/arkivdk/readingroom/internal/domain"
	"github.com/arkivdk/readingroom/internal/repo"
)

// ----- Fake notifier -----

type sentMail struct {
	Title   string
	Body    string
	OrderID int64
	Email   string
}

type fakeNotifier struct {
	sends []sentMail
	err   error
}

func (f *fakeNotifier) Send(ctx context.Context, title, body string, order *domain.OrderView) error {
	if f.err != nil {
		return f.err
	}
	f.sends = append(f.sends, sentMail{Title: title, Body: body, OrderID: order.OrderID, Email: order.Email})
	return nil
}

// ----- Test service -----

var testPolicy = config.Policy{
	LoanPeriodDays:    30,
	RenewalWindowDays: 5,
	ReminderLeadDays:  5,
}

// newTestService wires an OrderService against a fresh temp-file SQLite
// database with a capturing notifier and a Nop logger.
func newTestService(t *testing.T) (*OrderService, *fakeNotifier) {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("services_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	n := &fakeNotifier{}
	svc := NewOrderService(db, n, testPolicy, "https://archive.example.org", zerolog.Nop())
	return svc, n
}

// ----- Fixtures -----

func patron(id string) domain.UserInfo {
	return domain.UserInfo{
		UserID:      id,
		DisplayName: "Patron " + id,
		Email:       id + "@example.com",
		Verified:    true,
	}
}

func material(id string, loc domain.RecordLocation) domain.MaterialMeta {
	return domain.MaterialMeta{
		RecordID: id,
		Label:    "Material " + id,
		Location: loc,
	}
}

func formMaterial(id string) domain.MaterialMeta {
	m := material(id, domain.LocationInStorage)
	m.OrderableByForm = true
	return m
}

// mustCreate creates an order and fails the test on error.
func mustCreate(t *testing.T, svc *OrderService, meta domain.MaterialMeta, user domain.UserInfo) *domain.OrderView {
	t.Helper()
	v, err := svc.Create(context.Background(), meta, user)
	if err != nil {
		t.Fatalf("Create(%s, %s): %v", meta.RecordID, user.UserID, err)
	}
	return v
}

// orderStatus reloads an order's status straight from the store.
func orderStatus(t *testing.T, svc *OrderService, orderID int64) domain.OrderStatus {
	t.Helper()
	var o domain.Order
	if err := svc.DB.First(&o, "order_id = ?", orderID).Error; err != nil {
		t.Fatalf("load order %d: %v", orderID, err)
	}
	return o.Status
}

// loadOrder reloads the full order row.
func loadOrder(t *testing.T, svc *OrderService, orderID int64) domain.Order {
	t.Helper()
	var o domain.Order
	if err := svc.DB.First(&o, "order_id = ?", orderID).Error; err != nil {
		t.Fatalf("load order %d: %v", orderID, err)
	}
	return o
}

// countLogs returns the number of audit entries for an order.
func countLogs(t *testing.T, svc *OrderService, orderID int64) int64 {
	t.Helper()
	n, err := repo.CountLogs(context.Background(), svc.DB, orderID)
	if err != nil {
		t.Fatalf("count logs: %v", err)
	}
	return n
}

// lastLog returns the most recent audit entry for an order.
func lastLog(t *testing.T, svc *OrderService, orderID int64) domain.LogView {
	t.Helper()
	entries, err := repo.ListLogs(context.Background(), svc.DB, orderID)
	if err != nil {
		t.Fatalf("list logs: %v", err)
	}
	if len(entries) == 0 {
		t.Fatalf("no log entries for order %d", orderID)
	}
	return entries[0]
}
