// Package services – scheduler sweeps
//
// The two sweeps are stateless, idempotent job functions driven by an
// external scheduler (cron, timer, orchestrator); the core exposes only
// the run-once entrypoints. Each sweep selects its candidate set in one
// transaction, then processes every candidate in its own transaction so
// that a single failure cannot roll back or block the rest of the run.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/arkivdk/readingroom/internal/domain"
	"github.com/arkivdk/readingroom/internal/metrics"
	"github.com/arkivdk/readingroom/internal/repo"
)

// ExpireSweep moves every ORDERED order whose deadline has passed to
// COMPLETED, cascading into queue promotion for the freed records.
// Per-candidate failures are logged and skipped. Returns the number of
// orders expired. Safe to re-run: an expired order no longer matches.
func (s *OrderService) ExpireSweep(ctx context.Context) (int, error) {
	now := s.Now().UTC()
	var candidates []domain.OrderView
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		candidates, err = repo.FindOrders(ctx, tx, repo.OrderQuery{
			Statuses:     []domain.OrderStatus{domain.StatusOrdered},
			ExpireBefore: &now,
		})
		return err
	})
	if err != nil {
		return 0, err
	}
	s.Log.Debug().Int("candidates", len(candidates)).Msg("expire sweep selected orders")

	expired := 0
	for _, order := range candidates {
		err := s.DB.Transaction(func(tx *gorm.DB) error {
			view, err := s.getOrder(ctx, tx, order.OrderID)
			if err != nil {
				return err
			}
			s.Log.Info().Int64("order_id", view.OrderID).Msg("order passed its deadline, completing")
			return s.updateStatus(ctx, tx, SystemUserID, view, domain.StatusCompleted)
		})
		if err != nil {
			metrics.SweepFailures.WithLabelValues("expire").Inc()
			s.Log.Error().Err(err).Int64("order_id", order.OrderID).Msg("failed to expire order")
			continue
		}
		metrics.OrdersExpired.Inc()
		expired++
	}
	return expired, nil
}

// RenewalReminderSweep sends a renewal reminder for every ORDERED order
// whose deadline falls exactly ReminderLeadDays from today. Candidates
// that no longer qualify for renewal (someone queued meanwhile) are
// skipped without counting as failures. Returns the number of reminders
// sent.
//
// The exact-date match keeps a once-daily schedule idempotent across
// days; running the sweep more than once on the same day can
// double-send.
func (s *OrderService) RenewalReminderSweep(ctx context.Context) (int, error) {
	target := startOfDay(s.Now()).AddDate(0, 0, s.Policy.ReminderLeadDays)
	var candidates []domain.OrderView
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		candidates, err = repo.FindOrders(ctx, tx, repo.OrderQuery{
			Statuses: []domain.OrderStatus{domain.StatusOrdered},
			ExpireAt: &target,
		})
		return err
	})
	if err != nil {
		return 0, err
	}
	s.Log.Debug().Int("candidates", len(candidates)).Time("expire_at", target).Msg("reminder sweep selected orders")

	sent := 0
	for _, order := range candidates {
		err := s.DB.Transaction(func(tx *gorm.DB) error {
			view, err := s.getOrder(ctx, tx, order.OrderID)
			if err != nil {
				return err
			}
			ok, err := s.canRenew(ctx, tx, view)
			if err != nil {
				return err
			}
			if !ok {
				s.Log.Info().Int64("order_id", view.OrderID).Msg("order not renewable, skipping reminder")
				return errSkipped
			}
			body := renewalBody(s.Policy.ReminderLeadDays, s.ClientURL)
			if err := s.Notifier.Send(ctx, mailRenewalTitle, body, view); err != nil {
				return err
			}
			return repo.AppendLog(ctx, tx, SystemUserID, view, msgRenewalSent)
		})
		switch {
		case err == nil:
			metrics.RenewalReminders.Inc()
			sent++
		case errors.Is(err, errSkipped):
			// not renewable; logged above, not a failure
		default:
			metrics.SweepFailures.WithLabelValues("reminder").Inc()
			s.Log.Error().Err(err).Int64("order_id", order.OrderID).Msg("failed to send renewal reminder")
		}
	}
	return sent, nil
}
