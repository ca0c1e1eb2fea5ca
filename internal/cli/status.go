package cli

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/flux/internal/wire"
)

// StatusCmd returns the status command
func StatusCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show today's cycle day, phase and next period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := NewContext()
			if !asJSON {
				return wire.PredictionAdapter().Status(ctx)
			}

			st, err := wire.PredictionService().Status(ctx)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(st)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the status as JSON")
	return cmd
}
