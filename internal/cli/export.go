package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/objectcentric/oced/internal/store"
)

// ExportResult holds the export command's success payload.
type ExportResult struct {
	Database string `json:"database"`
	Output   string `json:"output"`
	Events   int64  `json:"events"`
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <db> <output>",
		Short: "Export a SQLite journal to a model dump",
		Long: `Export a SQLite journal to a JSON or XML model dump.

The journal's events are replayed into a fresh model, so the exported
dump carries both the event log and the materialized current state.

Examples:
  ocedctl export orders.db orders.json
  ocedctl export orders.db orders.xml --format json`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(rootOpts, args[0], args[1], cmd)
		},
	}

	return cmd
}

func runExport(opts *RootOptions, dbPath, outPath string, cmd *cobra.Command) error {
	formatter := commandFormatter(opts, cmd)

	if _, err := os.Stat(dbPath); err != nil {
		msg := fmt.Sprintf("database not found: %s", dbPath)
		_ = formatter.Error(ErrCodeNotFound, msg, nil)
		return NewExitError(ExitCommandError, msg)
	}

	slog.Debug("opening journal", "path", dbPath)
	st, err := store.Open(dbPath)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	m, err := st.LoadModel(commandContext(cmd))
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "export failed", err)
	}

	if err := dumpModel(outPath, m); err != nil {
		_ = formatter.Error(ErrCodeDumpFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "export failed", err)
	}

	slog.Debug("export complete", "events", m.EventCount(), "output", outPath)

	if opts.Format == "json" {
		return formatter.Success(ExportResult{
			Database: dbPath,
			Output:   outPath,
			Events:   m.EventCount(),
		})
	}

	fmt.Fprintf(formatter.Writer, "✓ exported %s to %s (%d event(s))\n", dbPath, outPath, m.EventCount())
	return nil
}
