package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/flux/internal/wire"
)

var periodCmd = &cobra.Command{
	Use:   "period",
	Short: "Record period starts and ends",
	Long: `Record and correct period boundaries in the cycle ledger.

Commands that act on a cycle default to the latest one; pass --cycle to
target an older cycle. Dates default to today.`,
}

var periodStartCmd = &cobra.Command{
	Use:   "start [date]",
	Short: "Start a new period (opens a cycle)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := dateArg(args)
		if err != nil {
			return err
		}
		return wire.LedgerAdapter().Start(NewContext(), date)
	},
}

var periodEndCmd = &cobra.Command{
	Use:   "end [date]",
	Short: "End the current period",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cycleID, err := cycleFlag(cmd)
		if err != nil {
			return err
		}
		date, err := dateArg(args)
		if err != nil {
			return err
		}
		return wire.LedgerAdapter().End(NewContext(), cycleID, date)
	},
}

var periodCorrectStartCmd = &cobra.Command{
	Use:   "correct-start <date>",
	Short: "Move the start date of a cycle",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cycleID, err := cycleFlag(cmd)
		if err != nil {
			return err
		}
		if err := validateDate(args[0]); err != nil {
			return err
		}
		return wire.LedgerAdapter().CorrectStart(NewContext(), cycleID, args[0])
	},
}

var periodCorrectEndCmd = &cobra.Command{
	Use:   "correct-end <date>",
	Short: "Move the end date of a cycle",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cycleID, err := cycleFlag(cmd)
		if err != nil {
			return err
		}
		if err := validateDate(args[0]); err != nil {
			return err
		}
		return wire.LedgerAdapter().CorrectEnd(NewContext(), cycleID, args[0])
	},
}

var periodUndoEndCmd = &cobra.Command{
	Use:   "undo-end",
	Short: "Reopen the latest cycle",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cycleID, err := cycleFlag(cmd)
		if err != nil {
			return err
		}
		return wire.LedgerAdapter().UndoEnd(NewContext(), cycleID)
	},
}

var periodUndoStartCmd = &cobra.Command{
	Use:   "undo-start",
	Short: "Delete a cycle started by mistake",
	Long: `Delete an open cycle that was started by mistake.

Only a cycle without an end date can be removed. The previous cycle becomes
the latest again and the prediction is re-seeded from its start.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cycleID, err := cycleFlag(cmd)
		if err != nil {
			return err
		}
		return wire.LedgerAdapter().UndoStart(NewContext(), cycleID)
	},
}

func cycleFlag(cmd *cobra.Command) (string, error) {
	cycleID, _ := cmd.Flags().GetString("cycle")
	if err := validateEntityID(cycleID, "cycle"); err != nil {
		return "", err
	}
	return cycleID, nil
}

func init() {
	for _, c := range []*cobra.Command{periodEndCmd, periodCorrectStartCmd, periodCorrectEndCmd, periodUndoEndCmd, periodUndoStartCmd} {
		c.Flags().StringP("cycle", "c", "", "Cycle ID (defaults to the latest cycle)")
	}

	periodCmd.AddCommand(periodStartCmd)
	periodCmd.AddCommand(periodEndCmd)
	periodCmd.AddCommand(periodCorrectStartCmd)
	periodCmd.AddCommand(periodCorrectEndCmd)
	periodCmd.AddCommand(periodUndoEndCmd)
	periodCmd.AddCommand(periodUndoStartCmd)
}

// PeriodCmd returns the period command
func PeriodCmd() *cobra.Command {
	return periodCmd
}
