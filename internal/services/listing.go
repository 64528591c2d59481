// Package services – order query layer
//
// Read-side operations for the patron and staff views. These stay thin:
// query composition lives in the repo, and the only logic added here is
// the per-row computed fields (days remaining, renewal eligibility,
// queued counts) and probe-ahead pagination.
package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/arkivdk/readingroom/internal/domain"
	"github.com/arkivdk/readingroom/internal/repo"
)

// Staff listing views.
const (
	AdminActive    = "active"
	AdminCompleted = "completed"
	AdminHistory   = "order_history"
)

// Pagination describes navigation around a listed page, computed by
// probing one extra page ahead at offset+limit.
type Pagination struct {
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
	NextOffset int  `json:"next_offset"`
	PrevOffset int  `json:"prev_offset"`
}

// UserScope selects which of the patron's orders to list.
type UserScope string

const (
	// ScopeActive lists orders ready for viewing in the reading room.
	ScopeActive UserScope = "active"
	// ScopeReserved lists orders still waiting for the material.
	ScopeReserved UserScope = "reserved"
)

// HasActiveOrder reports whether the user holds an active order
// (application, queued, or ordered) on the record.
func (s *OrderService) HasActiveOrder(ctx context.Context, userID, recordID string) (bool, error) {
	return repo.HasActiveOrder(ctx, s.DB, userID, recordID)
}

// IsOwner reports whether the order belongs to the user.
func (s *OrderService) IsOwner(ctx context.Context, userID string, orderID int64) (bool, error) {
	return repo.IsOwner(ctx, s.DB, userID, orderID)
}

// UpsertUser refreshes the stored identity of a user, for interactions
// that touch no order (e.g. a staff member logging in).
func (s *OrderService) UpsertUser(ctx context.Context, user domain.UserInfo) error {
	_, err := repo.UpsertUser(ctx, s.DB, user)
	return err
}

// GetOrder returns the joined order view for the staff edit page,
// including whether the record's location may currently be changed.
func (s *OrderService) GetOrder(ctx context.Context, orderID int64) (*domain.OrderView, error) {
	var view *domain.OrderView
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		view, err = s.getOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}
		// Same exclusion as the location-change path itself: the
		// order's own reading-room hold does not lock it out.
		locked, err := repo.HasReadingRoomHolder(ctx, tx, view.RecordID, view.OrderID)
		if err != nil {
			return err
		}
		view.AllowLocationChange = !locked
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// GetOrderByRecord returns the user's newest order on the record, or
// ErrOrderNotFound.
func (s *OrderService) GetOrderByRecord(ctx context.Context, userID, recordID string) (*domain.OrderView, error) {
	view, err := repo.FindOrder(ctx, s.DB, repo.OrderQuery{UserID: userID, RecordID: recordID})
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %s, record %s", ErrOrderNotFound, userID, recordID)
		}
		return nil, err
	}
	return view, nil
}

// ListUserOrders returns the patron's orders for the given scope, with
// days remaining and renewal eligibility computed per row.
func (s *OrderService) ListUserOrders(ctx context.Context, userID string, scope UserScope) ([]domain.OrderView, error) {
	var out []domain.OrderView
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		switch scope {
		case ScopeReserved:
			out, err = repo.ListUserReservedOrders(ctx, tx, userID)
		default:
			out, err = repo.ListUserActiveOrders(ctx, tx, userID)
		}
		if err != nil {
			return err
		}
		for i := range out {
			out[i].DaysRemaining = s.daysRemaining(&out[i])
			ok, err := s.canRenew(ctx, tx, &out[i])
			if err != nil {
				return err
			}
			out[i].RenewalPossible = ok
		}
		return nil
	})
	return out, err
}

// Logs returns the most recent audit entries, optionally narrowed to
// one order (orderID > 0).
func (s *OrderService) Logs(ctx context.Context, orderID int64) ([]domain.LogView, error) {
	return repo.ListLogs(ctx, s.DB, orderID)
}

// ListAdmin returns one page of the staff listing for the given view
// (AdminActive, AdminCompleted, or AdminHistory) plus pagination
// metadata. The active view carries per-record queued counts and a
// location-change hint for records not yet in the reading room.
func (s *OrderService) ListAdmin(ctx context.Context, view string, f repo.AdminFilter) ([]domain.OrderView, Pagination, error) {
	if f.Limit <= 0 {
		f.Limit = 50
	}
	var (
		rows []domain.OrderView
		page Pagination
	)
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		list := func(offset int) ([]domain.OrderView, error) {
			switch view {
			case AdminCompleted:
				return repo.ListCompletedOrders(ctx, tx, f, offset)
			case AdminHistory:
				return repo.ListHistoryOrders(ctx, tx, f, offset)
			default:
				return repo.ListActiveOrders(ctx, tx, f, offset)
			}
		}

		var err error
		rows, err = list(f.Offset)
		if err != nil {
			return err
		}

		switch view {
		case AdminCompleted:
			for i := range rows {
				rows[i].AllowLocationChange = true
			}
		case AdminHistory:
			// terminal rows; no per-row flags
		default:
			recordIDs := make([]string, len(rows))
			for i := range rows {
				recordIDs[i] = rows[i].RecordID
			}
			counts, err := repo.QueuedCounts(ctx, tx, recordIDs)
			if err != nil {
				return err
			}
			for i := range rows {
				rows[i].QueuedCount = counts[rows[i].RecordID]
				if rows[i].Location != domain.LocationReadingRoom {
					rows[i].AllowLocationChange = true
				}
			}
		}

		// Probe one page ahead for pagination.
		next, err := list(f.Offset + f.Limit)
		if err != nil {
			return err
		}
		page = paginate(f.Offset, f.Limit, len(next) > 0)
		return nil
	})
	if err != nil {
		return nil, Pagination{}, err
	}
	return rows, page, nil
}

// paginate computes navigation offsets around the current page.
func paginate(offset, limit int, hasNext bool) Pagination {
	p := Pagination{HasNext: hasNext, HasPrev: offset > 0}
	if p.HasNext {
		p.NextOffset = offset + limit
	}
	if p.HasPrev {
		p.PrevOffset = offset - limit
	}
	return p
}
