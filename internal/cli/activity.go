package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/flux/internal/ports/primary"
	"github.com/example/flux/internal/wire"
)

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "View the audit trail",
	Long:  "View and prune the activity log of every ledger, log and model change",
}

var activityListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show recent activity (default 50)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		entityType, _ := cmd.Flags().GetString("type")
		entityID, _ := cmd.Flags().GetString("entity")
		actor, _ := cmd.Flags().GetString("actor")
		action, _ := cmd.Flags().GetString("action")

		if limit <= 0 {
			limit = 50
		}

		return wire.ActivityAdapter().List(NewContext(), primary.ActivityFilters{
			EntityType: entityType,
			EntityID:   entityID,
			Actor:      actor,
			Action:     action,
			Limit:      limit,
		})
	},
}

var activityPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete old activity entries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		days, _ := cmd.Flags().GetInt("older-than")
		return wire.ActivityAdapter().Prune(NewContext(), days)
	},
}

func init() {
	activityListCmd.Flags().IntP("limit", "n", 50, "Number of entries to show")
	activityListCmd.Flags().String("type", "", "Filter by entity type (cycle, daily_log, model_params)")
	activityListCmd.Flags().String("entity", "", "Filter by entity ID")
	activityListCmd.Flags().String("actor", "", "Filter by actor (cli, http, import)")
	activityListCmd.Flags().String("action", "", "Filter by action (create, update, delete)")

	activityPruneCmd.Flags().Int("older-than", 90, "Delete entries older than this many days")

	activityCmd.AddCommand(activityListCmd)
	activityCmd.AddCommand(activityPruneCmd)
}

// ActivityCmd returns the activity command
func ActivityCmd() *cobra.Command {
	return activityCmd
}
