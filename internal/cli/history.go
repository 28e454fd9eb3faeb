package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/objectcentric/oced"
)

// EventRow is one event in the history and events commands' JSON payload.
// Qualifiers are summarized by kind; the full batch lives in the dump.
type EventRow struct {
	EventID    int64             `json:"event_id"`
	EventTime  string            `json:"event_time"`
	EventType  string            `json:"event_type"`
	Attributes map[string]string `json:"attributes"`
	Qualifiers []string          `json:"qualifiers"`
}

// HistoryResult holds the history and events commands' success payload.
type HistoryResult struct {
	Events []EventRow `json:"events"`
	Total  int        `json:"total"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history <model-file>",
		Short: "Print the event log of a model dump",
		Long: `Print the committed event log of a model dump, oldest first.

Each line shows the event id, time, type, and a summary of the qualifier
batch. Use convert to see the complete batches.

Examples:
  ocedctl history orders.json
  ocedctl history orders.xml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runHistory(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := commandFormatter(opts, cmd)

	if err := requireFile(formatter, path); err != nil {
		return err
	}

	m, err := loadModel(path)
	if err != nil {
		_ = formatter.Error(ErrCodeLoadFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "history failed", err)
	}

	result := buildHistoryResult(m.Events())

	if opts.Format == "json" {
		return formatter.Success(result)
	}

	writeEventsText(formatter.Writer, result)
	return nil
}

// buildHistoryResult flattens events into output rows, preserving log order.
func buildHistoryResult(events []oced.Event) HistoryResult {
	rows := make([]EventRow, 0, len(events))
	for _, ev := range events {
		attrs := ev.Attributes
		if attrs == nil {
			attrs = map[string]string{}
		}
		kinds := make([]string, 0, len(ev.Qualifiers))
		for _, q := range ev.Qualifiers {
			kinds = append(kinds, string(q.Kind()))
		}
		rows = append(rows, EventRow{
			EventID:    ev.ID,
			EventTime:  ev.Time,
			EventType:  ev.Type,
			Attributes: attrs,
			Qualifiers: kinds,
		})
	}
	return HistoryResult{Events: rows, Total: len(rows)}
}

// writeEventsText prints event rows one per line, then a count.
func writeEventsText(out io.Writer, result HistoryResult) {
	if result.Total == 0 {
		fmt.Fprintln(out, "No events.")
		return
	}

	for _, row := range result.Events {
		fmt.Fprintf(out, "#%d  %s  %s", row.EventID, row.EventTime, row.EventType)
		if len(row.Qualifiers) > 0 {
			fmt.Fprintf(out, "  [%d qualifier(s)]", len(row.Qualifiers))
		}
		fmt.Fprintln(out)
		for _, key := range sortedAttributeKeys(row.Attributes) {
			fmt.Fprintf(out, "    %s=%s\n", key, row.Attributes[key])
		}
	}
	fmt.Fprintf(out, "%d event(s)\n", result.Total)
}

// sortedAttributeKeys returns attribute keys in order for stable output.
func sortedAttributeKeys(attrs map[string]string) []string {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
