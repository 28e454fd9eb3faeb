package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

// ConvertResult holds the convert command's success payload.
type ConvertResult struct {
	Input  string `json:"input"`
	Output string `json:"output"`
	Events int64  `json:"events"`
}

// NewConvertCommand creates the convert command.
func NewConvertCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <input> <output>",
		Short: "Convert a model dump between JSON and XML",
		Long: `Convert a model dump between the JSON and XML wire formats.

Both directions go through a full decode: the event log is replayed and
cross-checked against the stored snapshot before anything is written, so
a successful convert also proves the input is internally consistent.

Examples:
  ocedctl convert orders.json orders.xml
  ocedctl convert orders.xml orders.json`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(rootOpts, args[0], args[1], cmd)
		},
	}

	return cmd
}

func runConvert(opts *RootOptions, inPath, outPath string, cmd *cobra.Command) error {
	formatter := commandFormatter(opts, cmd)

	if err := requireFile(formatter, inPath); err != nil {
		return err
	}

	slog.Debug("loading model", "path", inPath)
	m, err := loadModel(inPath)
	if err != nil {
		_ = formatter.Error(ErrCodeLoadFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "convert failed", err)
	}

	slog.Debug("writing model", "path", outPath, "events", m.EventCount())
	if err := dumpModel(outPath, m); err != nil {
		_ = formatter.Error(ErrCodeDumpFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "convert failed", err)
	}

	if opts.Format == "json" {
		return formatter.Success(ConvertResult{
			Input:  inPath,
			Output: outPath,
			Events: m.EventCount(),
		})
	}

	fmt.Fprintf(formatter.Writer, "✓ converted %s -> %s (%d event(s))\n", inPath, outPath, m.EventCount())
	return nil
}
