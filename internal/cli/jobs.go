package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arkivdk/readingroom/internal/metrics"
)

// NewExpireCommand creates the expire command: one run of the expiry
// sweep. Meant to be invoked once per day by an external scheduler.
func NewExpireCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "expire",
		Short: "Complete all orders whose reading-room deadline has passed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB(opts)
			if err != nil {
				return err
			}
			svc := newService(opts, db)
			n, err := svc.ExpireSweep(cmd.Context())
			if err != nil {
				return err
			}
			pushMetrics(opts, "readingroom_expire")
			fmt.Fprintf(cmd.OutOrStdout(), "expired %d order(s)\n", n)
			return nil
		},
	}
}

// NewRemindCommand creates the remind command: one run of the renewal
// reminder sweep. Running it more than once on the same day can send
// duplicate reminders; schedule it once daily.
func NewRemindCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remind",
		Short: "Send renewal reminders for orders approaching their deadline",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB(opts)
			if err != nil {
				return err
			}
			svc := newService(opts, db)
			n, err := svc.RenewalReminderSweep(cmd.Context())
			if err != nil {
				return err
			}
			pushMetrics(opts, "readingroom_remind")
			fmt.Fprintf(cmd.OutOrStdout(), "sent %d reminder(s)\n", n)
			return nil
		},
	}
}

// pushMetrics ships the sweep counters to the configured Pushgateway.
// A push failure is logged, not fatal: the sweep itself already ran.
func pushMetrics(opts *RootOptions, job string) {
	if opts.cfg.MetricsPushURL == "" {
		return
	}
	if err := metrics.PushToGateway(opts.cfg.MetricsPushURL, job); err != nil {
		opts.log.Warn().Err(err).Str("job", job).Msg("metrics push failed")
	}
}
