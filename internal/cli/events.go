package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/objectcentric/oced/internal/store"
)

// EventsOptions holds flags for the events command.
type EventsOptions struct {
	*RootOptions
	Type  string
	Since string
	Until string
	Limit int
}

// NewEventsCommand creates the events command.
func NewEventsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EventsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "events <db>",
		Short: "List events in a SQLite journal",
		Long: `List events stored in a SQLite journal, oldest first, optionally
filtered by type and time bounds.

Time bounds compare as text against the stored event times: --since is
inclusive, --until is exclusive.

Examples:
  ocedctl events orders.db
  ocedctl events orders.db --type order_created
  ocedctl events orders.db --since 2024-01-01T00:00:00Z --limit 10
  ocedctl events orders.db --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEvents(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Type, "type", "", "only events of this type")
	cmd.Flags().StringVar(&opts.Since, "since", "", "only events at or after this time")
	cmd.Flags().StringVar(&opts.Until, "until", "", "only events before this time")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum number of events (0 = unlimited)")

	return cmd
}

func runEvents(opts *EventsOptions, dbPath string, cmd *cobra.Command) error {
	formatter := commandFormatter(opts.RootOptions, cmd)

	if _, err := os.Stat(dbPath); err != nil {
		msg := fmt.Sprintf("database not found: %s", dbPath)
		_ = formatter.Error(ErrCodeNotFound, msg, nil)
		return NewExitError(ExitCommandError, msg)
	}
	if opts.Limit < 0 {
		msg := fmt.Sprintf("limit must be non-negative, got %d", opts.Limit)
		_ = formatter.Error(ErrCodeGeneric, msg, nil)
		return NewExitError(ExitCommandError, msg)
	}

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

	events, err := st.QueryEvents(commandContext(cmd), store.Filter{
		Type:  opts.Type,
		Since: opts.Since,
		Until: opts.Until,
		Limit: opts.Limit,
	})
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "events failed", err)
	}

	result := buildHistoryResult(events)

	if opts.Format == "json" {
		return formatter.Success(result)
	}

	writeEventsText(formatter.Writer, result)
	return nil
}
