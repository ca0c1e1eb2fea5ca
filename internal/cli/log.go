package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/flux/internal/models"
	"github.com/example/flux/internal/wire"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Record daily observations",
	Long:  "Save, view, and delete per-day logs (flow, symptoms, mood, temperature)",
}

var logSaveCmd = &cobra.Command{
	Use:   "save [date]",
	Short: "Save the log for a day (replaces any existing log)",
	Long: `Save the log for a day. Any existing log for the same date is replaced.

Logging flow on a day after the latest period has ended starts a new cycle.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := dateArg(args)
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		log := &models.DailyLog{Date: date}
		log.Flow, _ = flags.GetString("flow")
		log.Symptoms, _ = flags.GetStringSlice("symptom")
		log.Mood, _ = flags.GetString("mood")
		log.Fluid, _ = flags.GetString("fluid")
		log.SexDrive, _ = flags.GetString("sex-drive")
		log.Disturbers, _ = flags.GetStringSlice("disturber")
		log.Notes, _ = flags.GetString("notes")
		log.IsPeriod, _ = flags.GetBool("period")
		if flags.Changed("temp") {
			temp, _ := flags.GetFloat64("temp")
			log.Temperature = &temp
		}

		return wire.LogAdapter().Save(NewContext(), log)
	},
}

var logShowCmd = &cobra.Command{
	Use:   "show [date]",
	Short: "Show the log for a day",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := dateArg(args)
		if err != nil {
			return err
		}
		return wire.LogAdapter().Show(NewContext(), date)
	},
}

var logListCmd = &cobra.Command{
	Use:   "list",
	Short: "List logs in a date range",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		from, _ := cmd.Flags().GetString("from")
		to, _ := cmd.Flags().GetString("to")
		return wire.LogAdapter().List(NewContext(), from, to)
	},
}

var logDeleteCmd = &cobra.Command{
	Use:   "delete <date>",
	Short: "Delete the log for a day",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateDate(args[0]); err != nil {
			return err
		}
		return wire.LogAdapter().Delete(NewContext(), args[0])
	},
}

func init() {
	logSaveCmd.Flags().String("flow", "", "Flow intensity (spotting, light, medium, heavy)")
	logSaveCmd.Flags().StringSlice("symptom", nil, "Symptom (repeatable)")
	logSaveCmd.Flags().String("mood", "", "Mood")
	logSaveCmd.Flags().String("fluid", "", "Cervical fluid")
	logSaveCmd.Flags().String("sex-drive", "", "Sex drive")
	logSaveCmd.Flags().StringSlice("disturber", nil, "Temperature disturber (repeatable)")
	logSaveCmd.Flags().Float64("temp", 0, "Basal body temperature")
	logSaveCmd.Flags().String("notes", "", "Free-text notes")
	logSaveCmd.Flags().Bool("period", false, "Mark as a period day without recording flow")

	logListCmd.Flags().String("from", "", "First date (inclusive)")
	logListCmd.Flags().String("to", "", "Last date (inclusive)")

	logCmd.AddCommand(logSaveCmd)
	logCmd.AddCommand(logShowCmd)
	logCmd.AddCommand(logListCmd)
	logCmd.AddCommand(logDeleteCmd)
}

// LogCmd returns the log command
func LogCmd() *cobra.Command {
	return logCmd
}
