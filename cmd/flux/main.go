package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/flux/internal/cli"
	"github.com/example/flux/internal/version"
	"github.com/example/flux/internal/wire"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "flux",
		Short:   "flux - local-first period and cycle tracker",
		Version: version.String(),
		Long: `flux records period starts and ends, daily observations and an externally
trained model, and keeps the next-period prediction in sync with the ledger.`,
		SilenceUsage: true,
	}
	cli.RegisterGlobalFlags(rootCmd)

	// Ledger
	rootCmd.AddCommand(cli.PeriodCmd())
	rootCmd.AddCommand(cli.CycleCmd())
	rootCmd.AddCommand(cli.LogCmd())

	// Prediction
	rootCmd.AddCommand(cli.StatusCmd())
	rootCmd.AddCommand(cli.PredictCmd())
	rootCmd.AddCommand(cli.ModelCmd())

	// Data movement
	rootCmd.AddCommand(cli.ImportCmd())
	rootCmd.AddCommand(cli.BackupCmd())
	rootCmd.AddCommand(cli.ActivityCmd())

	rootCmd.AddCommand(cli.ServeCmd())
	rootCmd.AddCommand(cli.ConfigCmd())
	rootCmd.AddCommand(cli.VersionCmd())

	// Developer tools
	rootCmd.AddCommand(cli.DevCmd())

	err := rootCmd.Execute()
	wire.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
