package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/objectcentric/oced/internal/store"
)

// ImportResult holds the import command's success payload.
type ImportResult struct {
	Database string `json:"database"`
	StoreID  string `json:"store_id"`
	Events   int64  `json:"events"`
	Appended int64  `json:"appended"`
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <model-file> <db>",
		Short: "Import a model dump into a SQLite journal",
		Long: `Import a model dump into a SQLite journal, creating the database if
it does not exist.

The import is idempotent: events already in the journal are skipped by
id, so re-importing the same dump, or a dump extended with new events,
appends only what is missing.

Examples:
  ocedctl import orders.json orders.db
  ocedctl import orders.xml orders.db --format json`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(rootOpts, args[0], args[1], cmd)
		},
	}

	return cmd
}

func runImport(opts *RootOptions, modelPath, dbPath string, cmd *cobra.Command) error {
	formatter := commandFormatter(opts, cmd)

	if err := requireFile(formatter, modelPath); err != nil {
		return err
	}

	m, err := loadModel(modelPath)
	if err != nil {
		_ = formatter.Error(ErrCodeLoadFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "import failed", err)
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

	ctx := commandContext(cmd)

	appended, err := st.SyncModel(ctx, m)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "import failed", err)
	}

	storeID, err := st.StoreID(ctx)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "import failed", err)
	}

	slog.Debug("import complete", "events", m.EventCount(), "appended", appended, "store_id", storeID)

	if opts.Format == "json" {
		return formatter.Success(ImportResult{
			Database: dbPath,
			StoreID:  storeID,
			Events:   m.EventCount(),
			Appended: appended,
		})
	}

	fmt.Fprintf(formatter.Writer, "✓ imported %s into %s\n", modelPath, dbPath)
	fmt.Fprintf(formatter.Writer, "  events: %d total, %d appended\n", m.EventCount(), appended)
	fmt.Fprintf(formatter.Writer, "  store: %s\n", storeID)
	return nil
}

// commandContext returns the command's context, falling back to Background
// when the command runs outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
