package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/flux/internal/wire"
)

// CycleCmd returns the cycle command group.
func CycleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cycle",
		Short: "Inspect the cycle ledger",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all cycles, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.LedgerAdapter().List(NewContext())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show [cycle-id]",
		Short: "Show a cycle (defaults to the latest)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var cycleID string
			if len(args) == 1 {
				cycleID = args[0]
			}
			if err := validateEntityID(cycleID, "cycle"); err != nil {
				return err
			}
			_, err := wire.LedgerAdapter().Show(NewContext(), cycleID)
			return err
		},
	})

	return cmd
}
