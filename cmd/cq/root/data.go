package root

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"cleanquest/internal/backup"
	"cleanquest/internal/storage"
	"cleanquest/internal/ui"
)

func newDataCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "data",
		Short: "Export, import and inspect backups",
	}
	cmd.AddCommand(newDataExportCmd(), newDataImportCmd(), newDataHistoryCmd())
	return cmd
}

func newDataExportCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the whole state to a JSON backup file",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if dir == "" {
				dir = a.cfg.Export.Dir
			}
			now := time.Now()
			path, size, err := backup.WriteFile(dir, a.svc.State(), now)
			if err != nil {
				return err
			}
			if _, err := a.backups.Record(ctx, storage.BackupExport, path, size, now); err != nil {
				a.log.WarnContext(ctx, "record export", "path", path, "err", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", ui.Good.Render(ui.IconDisk+" Exported"), path, ui.Muted.Render(fmt.Sprintf("(%d bytes)", size)))
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Target directory (default export.dir)")
	return cmd
}

func newDataImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the whole state with a JSON backup",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("backup file is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			state, size, err := backup.ReadFile(args[0])
			if err != nil {
				var ve *backup.ValidationError
				if errors.As(err, &ve) {
					out := cmd.ErrOrStderr()
					for _, p := range ve.Problems {
						fmt.Fprintf(out, "  %s %s\n", ui.Key.Render(p.Path), p.Message)
					}
				}
				return err
			}
			a.svc.Import(ctx, state)
			if _, err := a.backups.Record(ctx, storage.BackupImport, args[0], size, time.Now()); err != nil {
				a.log.WarnContext(ctx, "record import", "path", args[0], "err", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.Good.Render(ui.IconDisk+" Imported"), args[0])
			return nil
		},
	}

	return cmd
}

func newDataHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent exports and imports",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			entries, err := a.backups.List(ctx, limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("No backups yet."))
				return nil
			}
			for _, e := range entries {
				fmt.Fprintf(out, "%s %-6s %s %s\n", ui.Muted.Render(e.CreatedAt.Local().Format("2006-01-02 15:04")), e.Kind, e.Path, ui.Muted.Render(fmt.Sprintf("(%d bytes)", e.Bytes)))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of entries")
	return cmd
}
