package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arkivdk/readingroom/internal/utils"
)

// NewLogsCommand creates the logs command: print the most recent audit
// entries, optionally narrowed to a single order.
func NewLogsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logs [order-id]",
		Short: "Show recent order audit entries",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var orderID int64
			if len(args) == 1 {
				orderID = int64(utils.AtoiDefault(args[0], 0))
				if orderID <= 0 {
					return fmt.Errorf("invalid order id %q", args[0])
				}
			}
			db, err := openDB(opts)
			if err != nil {
				return err
			}
			svc := newService(opts, db)
			entries, err := svc.Logs(cmd.Context(), orderID)
			if err != nil {
				return err
			}
			for _, e := range entries {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  order=%d  record=%s  %s/%s  %s  (%s)\n",
					e.CreatedAt.Format("2006-01-02 15:04:05"),
					e.OrderID, e.RecordID, e.Status, e.Location, e.Message, e.DisplayName)
			}
			return nil
		},
	}
}
