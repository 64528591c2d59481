package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arkivdk/readingroom/internal/repo"
)

// NewMigrateCommand creates the migrate command: open the database
// (creating it when missing) and bring the schema up to date.
func NewMigrateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the orders database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB(opts)
			if err != nil {
				return err
			}
			if err := repo.AutoMigrate(db); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema up to date: %s\n", opts.cfg.DBPath)
			return nil
		},
	}
}
