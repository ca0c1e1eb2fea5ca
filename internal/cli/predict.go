package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/flux/internal/wire"
)

// PredictCmd returns the predict command group.
func PredictCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Show or refresh the next-period prediction",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the stored prediction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.PredictionAdapter().Show(NewContext())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "recompute",
		Short: "Re-seed the prediction from the latest cycle start",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.PredictionAdapter().Recompute(NewContext())
		},
	})

	return cmd
}

// ModelCmd returns the model command group.
func ModelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "model",
		Short: "Manage the trained model parameters",
		Long: `Manage the model parameters produced by the external trainer.

The trainer writes snake_case JSON; keys are converted on import. Use "-" as
the file name to read from stdin.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "import <file>",
		Short: "Import trainer output and re-seed the prediction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			return wire.PredictionAdapter().ImportModel(NewContext(), raw)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the stored model parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.PredictionAdapter().ShowModel(NewContext())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove the stored model parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.PredictionAdapter().ClearModel(NewContext())
		},
	})

	return cmd
}

// readInput reads path, or stdin when path is "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		raw, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return raw, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return raw, nil
}
