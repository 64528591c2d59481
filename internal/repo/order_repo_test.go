package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/arkivdk/readingroom/internal/domain"
)

func TestCreateOrder_SetsFieldsAndAutoincrementID(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "u1")
	seedRecord(t, db, "r1", domain.LocationInStorage)

	o, err := CreateOrder(context.Background(), db, "u1", "r1", domain.StatusOrdered)
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if o.OrderID == 0 {
		t.Fatalf("expected generated order id, got 0")
	}
	if o.Status != domain.StatusOrdered || o.ExpireAt != nil || o.MessageSent {
		t.Fatalf("unexpected order fields: %+v", o)
	}

	second, err := CreateOrder(context.Background(), db, "u1", "r1", domain.StatusQueued)
	if err != nil {
		t.Fatalf("CreateOrder second: %v", err)
	}
	if second.OrderID <= o.OrderID {
		t.Fatalf("ids must be increasing: %d then %d", o.OrderID, second.OrderID)
	}
}

func TestFindOrder_JoinsRecordAndUser(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "u1")
	seedRecord(t, db, "r1", domain.LocationReadingRoom)
	id := seedOrder(t, db, "u1", "r1", domain.StatusOrdered)

	v, err := FindOrder(context.Background(), db, OrderQuery{OrderID: id})
	if err != nil {
		t.Fatalf("FindOrder: %v", err)
	}
	if v.Location != domain.LocationReadingRoom {
		t.Fatalf("joined location = %v; want reading room", v.Location)
	}
	if v.Email != "u1@example.com" || v.DisplayName != "User u1" {
		t.Fatalf("joined user fields missing: %+v", v)
	}
}

func TestFindOrder_NotFound(t *testing.T) {
	db := newTestDB(t)
	_, err := FindOrder(context.Background(), db, OrderQuery{OrderID: 42})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v; want ErrNotFound", err)
	}
}

func TestFirstQueued_PicksLowestOrderID(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "u1")
	seedUser(t, db, "u2")
	seedUser(t, db, "u3")
	seedRecord(t, db, "r1", domain.LocationInStorage)
	seedOrder(t, db, "u1", "r1", domain.StatusOrdered)
	first := seedOrder(t, db, "u2", "r1", domain.StatusQueued)
	seedOrder(t, db, "u3", "r1", domain.StatusQueued)

	next, err := FirstQueued(context.Background(), db, "r1")
	if err != nil {
		t.Fatalf("FirstQueued: %v", err)
	}
	if next.OrderID != first {
		t.Fatalf("FirstQueued = order %d; want %d", next.OrderID, first)
	}
}

func TestFirstQueued_EmptyQueue(t *testing.T) {
	db := newTestDB(t)
	seedUser(t, db, "u1")
	seedRecord(t, db, "r1", domain.LocationInStorage)
	seedOrder(t, db, "u1", "r1", domain.StatusOrdered)

	_, err := FirstQueued(context.Background(), db, "r1")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v; want ErrNotFound", err)
	}
}

func TestHasActiveOrder_CountsAllActiveStatuses(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	seedUser(t, db, "u1")
	seedRecord(t, db, "r1", domain.LocationInStorage)

	for _, status := range []domain.OrderStatus{
		domain.StatusApplication, domain.StatusQueued, domain.StatusOrdered,
	} {
		id := seedOrder(t, db, "u1", "r1", status)
		active, err := HasActiveOrder(ctx, db, "u1", "r1")
		if err != nil {
			t.Fatalf("HasActiveOrder(%v): %v", status, err)
		}
		if !active {
			t.Fatalf("HasActiveOrder = false for status %v", status)
		}
		if err := UpdateOrderFields(ctx, db, id, map[string]any{"order_status": domain.StatusDeleted}); err != nil {
			t.Fatalf("reset order: %v", err)
		}
	}

	active, err := HasActiveOrder(ctx, db, "u1", "r1")
	if err != nil {
		t.Fatalf("HasActiveOrder: %v", err)
	}
	if active {
		t.Fatalf("HasActiveOrder = true with only terminal orders")
	}
}

func TestUpdateOrderFields_NotFound(t *testing.T) {
	db := newTestDB(t)
	err := UpdateOrderFields(context.Background(), db, 99, map[string]any{"comment": "x"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v; want ErrNotFound", err)
	}
}

func TestUpdateOrderFields_BumpsUpdatedAt(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	seedUser(t, db, "u1")
	seedRecord(t, db, "r1", domain.LocationInStorage)
	id := seedOrder(t, db, "u1", "r1", domain.StatusOrdered)

	var before domain.Order
	if err := db.First(&before, "order_id = ?", id).Error; err != nil {
		t.Fatalf("load order: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if err := UpdateOrderFields(ctx, db, id, map[string]any{}); err != nil {
		t.Fatalf("UpdateOrderFields: %v", err)
	}
	var after domain.Order
	if err := db.First(&after, "order_id = ?", id).Error; err != nil {
		t.Fatalf("reload order: %v", err)
	}
	if !after.UpdatedAt.After(before.UpdatedAt) {
		t.Fatalf("updated_at not bumped: %v -> %v", before.UpdatedAt, after.UpdatedAt)
	}
}

func TestHasReadingRoomHolder_ExcludesGivenOrder(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	seedUser(t, db, "u1")
	seedRecord(t, db, "r1", domain.LocationReadingRoom)
	holder := seedOrder(t, db, "u1", "r1", domain.StatusOrdered)

	locked, err := HasReadingRoomHolder(ctx, db, "r1", 0)
	if err != nil {
		t.Fatalf("HasReadingRoomHolder: %v", err)
	}
	if !locked {
		t.Fatalf("expected holder to lock the record")
	}

	// The holder itself is not "another" order.
	locked, err = HasReadingRoomHolder(ctx, db, "r1", holder)
	if err != nil {
		t.Fatalf("HasReadingRoomHolder(except): %v", err)
	}
	if locked {
		t.Fatalf("holder should be excluded from its own check")
	}
}

func TestIsOwner(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	seedUser(t, db, "u1")
	seedRecord(t, db, "r1", domain.LocationInStorage)
	id := seedOrder(t, db, "u1", "r1", domain.StatusOrdered)

	ok, err := IsOwner(ctx, db, "u1", id)
	if err != nil || !ok {
		t.Fatalf("IsOwner(owner) = %v, %v; want true, nil", ok, err)
	}
	ok, err = IsOwner(ctx, db, "u2", id)
	if err != nil || ok {
		t.Fatalf("IsOwner(stranger) = %v, %v; want false, nil", ok, err)
	}
}

func TestUpsertRecord_KeepsExistingLocation(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	seedRecord(t, db, "r1", domain.LocationInStorage)
	if err := UpdateRecordLocation(ctx, db, "r1", domain.LocationReadingRoom); err != nil {
		t.Fatalf("UpdateRecordLocation: %v", err)
	}

	// A later order for the same material must not reset the location.
	r, err := UpsertRecord(ctx, db, domain.MaterialMeta{
		RecordID: "r1",
		Label:    "Material r1 (renamed)",
		Location: domain.LocationInStorage,
	})
	if err != nil {
		t.Fatalf("UpsertRecord: %v", err)
	}
	if r.Location != domain.LocationReadingRoom {
		t.Fatalf("location = %v; want reading room preserved", r.Location)
	}
	if r.Label != "Material r1 (renamed)" {
		t.Fatalf("label not refreshed: %q", r.Label)
	}
}

func TestUpsertUser_ReplacesByKey(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	seedUser(t, db, "u1")

	if _, err := UpsertUser(ctx, db, domain.UserInfo{
		UserID: "u1", DisplayName: "Renamed", Email: "new@example.com",
	}); err != nil {
		t.Fatalf("UpsertUser: %v", err)
	}
	u, err := GetUser(ctx, db, "u1")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if u.DisplayName != "Renamed" || u.Email != "new@example.com" {
		t.Fatalf("user not replaced: %+v", u)
	}

	var n int64
	if err := db.Model(&domain.User{}).Count(&n).Error; err != nil {
		t.Fatalf("count users: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected single user row, got %d", n)
	}
}
