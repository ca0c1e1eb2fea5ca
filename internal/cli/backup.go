package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/flux/internal/adapters/backup"
	"github.com/example/flux/internal/wire"
)

// ImportCmd returns the import command
func ImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import cycles and logs from a third-party export",
		Long: `Import cycles and daily logs from a JSON export of another tracking app.

The document layout is detected automatically. Existing cycles and logs are
matched by date, so importing the same file twice changes nothing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.DataAdapter().Import(NewContext(), args[0])
		},
	}
}

// BackupCmd returns the backup command group.
func BackupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export and restore flux backups",
	}

	var compress bool
	exportCmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Write all cycles, logs and model parameters to a file",
		Long: fmt.Sprintf(`Write all cycles, logs and model parameters to a file.

Defaults to flux-backup-<date>.json in the current directory. Files ending in
%s are snappy-compressed; --compress (or backup.compress in the config)
compresses regardless of the name.`, backup.CompressedExt),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := fmt.Sprintf("flux-backup-%s.json", time.Now().Format("2006-01-02"))
			if len(args) == 1 {
				path = args[0]
			}
			if !cmd.Flags().Changed("compress") {
				compress = wire.Config().Backup.Compress
			}
			return wire.DataAdapter().Export(NewContext(), path, compress)
		},
	}
	exportCmd.Flags().BoolVar(&compress, "compress", false, "Snappy-compress the backup")

	restoreCmd := &cobra.Command{
		Use:   "restore <file>",
		Short: "Restore a backup written by 'flux backup export'",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.DataAdapter().Restore(NewContext(), args[0])
		},
	}

	cmd.AddCommand(exportCmd)
	cmd.AddCommand(restoreCmd)
	return cmd
}
