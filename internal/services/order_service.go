// Package services – OrderService
//
// This file implements the order state machine: creating reservations,
// promoting applications and queued orders, applying single-field
// updates, and renewing reading-room deadlines. Every public operation
// runs inside one database transaction: read current state, compute,
// write new state, append the audit entry, commit. The queue and
// reading-room reactions run synchronously inside the owning
// transaction, never on their own.
package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/arkivdk/readingroom/internal/config"
	"github.com/arkivdk/readingroom/internal/domain"
	"github.com/arkivdk/readingroom/internal/repo"
)

// SystemUserID is the actor recorded for changes made by the sweeps
// rather than a person.
const SystemUserID = "SYSTEM"

// Audit log messages. Cascading reactions append to the triggering
// message, joined with ". " (e.g. "Status changed. Mail sent").
const (
	msgOrderCreated    = "Order created"
	msgOrderRenewed    = "Order renewed"
	msgStatusChanged   = "Status changed"
	msgLocationChanged = "Location changed"
	msgMailSent        = "Mail sent"
	msgRenewalSent     = "Renewal mail sent"
)

// OrderService coordinates the reservation state machine. It owns no
// state beyond its collaborators; all order state lives in the store.
type OrderService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Notifier dispatches patron notifications.
	Notifier Notifier
	// Policy holds the loan-period, renewal-window, and reminder-lead
	// constants.
	Policy config.Policy
	// ClientURL is the public site URL referenced in reminder bodies.
	ClientURL string
	// Log is the service logger.
	Log zerolog.Logger

	// Now returns the current time; overridable in tests.
	Now func() time.Time
}

// NewOrderService constructs an OrderService with the given
// collaborators and the real clock.
func NewOrderService(db *gorm.DB, n Notifier, policy config.Policy, clientURL string, log zerolog.Logger) *OrderService {
	return &OrderService{
		DB:        db,
		Notifier:  n,
		Policy:    policy,
		ClientURL: clientURL,
		Log:       log,
		Now:       time.Now,
	}
}

// Create registers a reservation for the material on behalf of the
// user. The user and record rows are upserted first. The initial
// status is, in priority order: APPLICATION when the material requires
// a manual application, QUEUED when another order currently holds the
// record, otherwise ORDERED. An order created as ORDERED with the
// record already in the reading room gets its deadline and the ready
// notification immediately.
//
// Returns ErrDuplicateActiveOrder when the user already holds an
// active order on the record.
func (s *OrderService) Create(ctx context.Context, meta domain.MaterialMeta, user domain.UserInfo) (*domain.OrderView, error) {
	var created *domain.OrderView
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		active, err := repo.HasActiveOrder(ctx, tx, user.UserID, meta.RecordID)
		if err != nil {
			return err
		}
		if active {
			return fmt.Errorf("%w: user %s, record %s", ErrDuplicateActiveOrder, user.UserID, meta.RecordID)
		}

		if _, err := repo.UpsertUser(ctx, tx, user); err != nil {
			return err
		}
		record, err := repo.UpsertRecord(ctx, tx, meta)
		if err != nil {
			return err
		}

		status := domain.StatusOrdered
		switch {
		case meta.OrderableByForm:
			status = domain.StatusApplication
		default:
			held, err := repo.HasOrderedOrder(ctx, tx, meta.RecordID)
			if err != nil {
				return err
			}
			if held {
				status = domain.StatusQueued
			}
		}

		order, err := repo.CreateOrder(ctx, tx, user.UserID, meta.RecordID, status)
		if err != nil {
			return err
		}
		view, err := repo.FindOrder(ctx, tx, repo.OrderQuery{OrderID: order.OrderID})
		if err != nil {
			return err
		}

		messages := []string{msgOrderCreated}
		if status == domain.StatusOrdered && record.Location == domain.LocationReadingRoom {
			sent, err := s.assignReadingRoom(ctx, tx, view)
			if err != nil {
				return err
			}
			if sent {
				messages = append(messages, msgMailSent)
			}
		}

		if err := repo.AppendLog(ctx, tx, user.UserID, view, strings.Join(messages, ". ")); err != nil {
			return err
		}
		created = view
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.Log.Info().
		Int64("order_id", created.OrderID).
		Str("record_id", created.RecordID).
		Stringer("status", created.Status).
		Msg("order created")
	return created, nil
}

// Promote moves an APPLICATION order into the regular flow: QUEUED when
// the record currently has a holder, otherwise ORDERED (with the
// reading-room reaction when the record is already there). Calling it
// on an order in any other status is a deliberate no-op, so repeated
// promotion attempts are harmless.
func (s *OrderService) Promote(ctx context.Context, orderID int64, actorID string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		view, err := s.getOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if view.Status != domain.StatusApplication {
			return nil
		}

		target := domain.StatusOrdered
		held, err := repo.HasOrderedOrder(ctx, tx, view.RecordID)
		if err != nil {
			return err
		}
		if held {
			target = domain.StatusQueued
		}
		if err := repo.UpdateOrderFields(ctx, tx, orderID, map[string]any{"order_status": target}); err != nil {
			return err
		}
		view.Status = target

		messages := []string{msgStatusChanged}
		if target == domain.StatusOrdered && view.Location == domain.LocationReadingRoom {
			sent, err := s.assignReadingRoom(ctx, tx, view)
			if err != nil {
				return err
			}
			if sent {
				messages = append(messages, msgMailSent)
			}
		}
		return repo.AppendLog(ctx, tx, actorID, view, strings.Join(messages, ". "))
	})
}

// Update applies a single-field update command to an order. Exactly one
// variant of cmd must be set; anything else fails with
// ErrConflictingUpdate before any state is touched.
func (s *OrderService) Update(ctx context.Context, orderID int64, actorID string, cmd domain.OrderUpdate) error {
	if !cmd.Valid() {
		return ErrConflictingUpdate
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		view, err := s.getOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}
		switch {
		case cmd.Status != nil:
			return s.updateStatus(ctx, tx, actorID, view, *cmd.Status)
		case cmd.Location != nil:
			return s.changeLocation(ctx, tx, actorID, view, *cmd.Location)
		case cmd.Comment != nil:
			return repo.UpdateOrderFields(ctx, tx, orderID, map[string]any{"comment": *cmd.Comment})
		default:
			// Deadline override; test support, bypasses the policy.
			return repo.UpdateOrderFields(ctx, tx, orderID, map[string]any{"expire_at": cmd.ExpireAt.UTC()})
		}
	})
}

// updateStatus moves the order to a terminal status and promotes the
// next queued order on the record. A repeated call with the current
// status is a no-op.
func (s *OrderService) updateStatus(ctx context.Context, tx *gorm.DB, actorID string, view *domain.OrderView, newStatus domain.OrderStatus) error {
	if newStatus == view.Status {
		return nil
	}
	if !newStatus.IsTerminal() {
		return fmt.Errorf("%w: got %s", ErrInvalidStatus, newStatus)
	}
	if err := repo.UpdateOrderFields(ctx, tx, view.OrderID, map[string]any{"order_status": newStatus}); err != nil {
		return err
	}
	view.Status = newStatus
	if err := repo.AppendLog(ctx, tx, actorID, view, msgStatusChanged); err != nil {
		return err
	}
	return s.promoteNextQueued(ctx, tx, actorID, view.RecordID)
}

// promoteNextQueued hands the freed holder slot to the earliest queued
// order on the record, if any. At most one order is promoted per event:
// the freed slot is the only one there is.
func (s *OrderService) promoteNextQueued(ctx context.Context, tx *gorm.DB, actorID, recordID string) error {
	// The slot is only free when no order holds the record anymore.
	// Deleting a queued order while a holder is active must not promote.
	held, err := repo.HasOrderedOrder(ctx, tx, recordID)
	if err != nil {
		return err
	}
	if held {
		return nil
	}

	next, err := repo.FirstQueued(ctx, tx, recordID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if err := repo.UpdateOrderFields(ctx, tx, next.OrderID, map[string]any{"order_status": domain.StatusOrdered}); err != nil {
		return err
	}
	next.Status = domain.StatusOrdered

	messages := []string{msgStatusChanged}
	if next.Location == domain.LocationReadingRoom {
		s.Log.Info().Int64("order_id", next.OrderID).Msg("promoted order is in the reading room")
		sent, err := s.assignReadingRoom(ctx, tx, next)
		if err != nil {
			return err
		}
		if sent {
			messages = append(messages, msgMailSent)
		}
	}
	return repo.AppendLog(ctx, tx, actorID, next, strings.Join(messages, ". "))
}

// changeLocation moves the order's record to a new physical location.
// A move to the reading room while this order is ORDERED starts the
// loan deadline and sends the ready notification (once per order).
func (s *OrderService) changeLocation(ctx context.Context, tx *gorm.DB, actorID string, view *domain.OrderView, newLocation domain.RecordLocation) error {
	if view.Location == newLocation {
		return nil
	}

	locked, err := repo.HasReadingRoomHolder(ctx, tx, view.RecordID, view.OrderID)
	if err != nil {
		return err
	}
	if locked {
		return fmt.Errorf("%w: record %s", ErrLocationLocked, view.RecordID)
	}

	if err := repo.UpdateRecordLocation(ctx, tx, view.RecordID, newLocation); err != nil {
		return err
	}
	view.Location = newLocation

	messages := []string{msgLocationChanged}
	if newLocation == domain.LocationReadingRoom && view.Status == domain.StatusOrdered {
		sent, err := s.assignReadingRoom(ctx, tx, view)
		if err != nil {
			return err
		}
		if sent {
			messages = append(messages, msgMailSent)
		}
	} else if err := repo.UpdateOrderFields(ctx, tx, view.OrderID, map[string]any{}); err != nil {
		// Field-less update still bumps updated_at so the history view
		// sorts the move correctly.
		return err
	}
	return repo.AppendLog(ctx, tx, actorID, view, strings.Join(messages, ". "))
}

// assignReadingRoom runs the reading-room reaction for an ORDERED order
// whose record is (or just arrived) in the reading room: the deadline
// starts now, and the ready notification goes out unless it was already
// sent for this order. Reports whether a notification was dispatched.
func (s *OrderService) assignReadingRoom(ctx context.Context, tx *gorm.DB, view *domain.OrderView) (bool, error) {
	expireAt := s.expireAt()
	fields := map[string]any{"expire_at": expireAt}

	sent := false
	if !view.MessageSent {
		fields["message_sent"] = true
		sent = true
	}
	if err := repo.UpdateOrderFields(ctx, tx, view.OrderID, fields); err != nil {
		return false, err
	}
	view.ExpireAt = &expireAt
	if sent {
		view.MessageSent = true
		if err := s.Notifier.Send(ctx, mailReadyTitle, mailReadyBody, view); err != nil {
			return false, err
		}
	}
	return sent, nil
}

// CanRenew reports whether the order currently qualifies for renewal.
func (s *OrderService) CanRenew(ctx context.Context, orderID int64) (bool, error) {
	var ok bool
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		view, err := s.getOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}
		ok, err = s.canRenew(ctx, tx, view)
		return err
	})
	return ok, err
}

// canRenew evaluates renewal eligibility inside the caller's
// transaction. An order qualifies when it has a deadline, the deadline
// is inside the renewal window, and nobody is queued on the record
// (fairness over continuity).
func (s *OrderService) canRenew(ctx context.Context, tx *gorm.DB, view *domain.OrderView) (bool, error) {
	if view.ExpireAt == nil {
		return false, nil
	}
	if s.daysRemaining(view) > s.Policy.RenewalWindowDays {
		return false, nil
	}
	queued, err := repo.HasQueuedOrder(ctx, tx, view.RecordID)
	if err != nil {
		return false, err
	}
	return !queued, nil
}

// Renew extends the order's deadline to a fresh loan period. Fails with
// ErrRenewalNotEligible when the order does not qualify. MessageSent is
// left untouched: renewal never re-arms the ready notification.
func (s *OrderService) Renew(ctx context.Context, orderID int64, actorID string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		view, err := s.getOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}
		ok, err := s.canRenew(ctx, tx, view)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: order %d", ErrRenewalNotEligible, orderID)
		}
		expireAt := s.expireAt()
		if err := repo.UpdateOrderFields(ctx, tx, orderID, map[string]any{"expire_at": expireAt}); err != nil {
			return err
		}
		view.ExpireAt = &expireAt
		return repo.AppendLog(ctx, tx, actorID, view, msgOrderRenewed)
	})
}

// getOrder loads the joined order view or reports ErrOrderNotFound.
func (s *OrderService) getOrder(ctx context.Context, tx *gorm.DB, orderID int64) (*domain.OrderView, error) {
	view, err := repo.FindOrder(ctx, tx, repo.OrderQuery{OrderID: orderID})
	if errors.Is(err, repo.ErrNotFound) {
		return nil, fmt.Errorf("%w: order %d", ErrOrderNotFound, orderID)
	}
	return view, err
}

// expireAt computes a fresh deadline: start of the current UTC day plus
// the loan period, so deadlines always land on day boundaries.
func (s *OrderService) expireAt() time.Time {
	return startOfDay(s.Now()).AddDate(0, 0, s.Policy.LoanPeriodDays)
}

// daysRemaining returns the whole days left until the order's deadline,
// floor semantics; negative once the deadline has passed.
func (s *OrderService) daysRemaining(view *domain.OrderView) int {
	if view.ExpireAt == nil {
		return 0
	}
	return int(math.Floor(view.ExpireAt.Sub(s.Now().UTC()).Hours() / 24))
}

// startOfDay truncates t to its UTC day boundary.
func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
