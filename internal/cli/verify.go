package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/objectcentric/oced"
	"github.com/objectcentric/oced/internal/canonical"
	"github.com/objectcentric/oced/ocedjson"
)

// VerifyResult holds the verify command's success payload.
type VerifyResult struct {
	Valid  bool   `json:"valid"`
	Events int64  `json:"events"`
	Digest string `json:"digest"`
}

// NewVerifyCommand creates the verify command.
func NewVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify <model-file>",
		Short: "Verify a model dump and print its canonical digest",
		Long: `Verify the integrity of a model dump.

Decoding replays the event log from scratch and cross-checks the result
against the stored snapshot, so any tampering or corruption in either
half surfaces as a failure. On success the canonical content digest is
printed; two dumps with the same history and state always share one
digest, regardless of format or field order.

Exit codes:
  0 - dump verified
  1 - dump failed verification
  2 - command error (file not found, unsupported extension)

Examples:
  ocedctl verify orders.json
  ocedctl verify orders.xml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runVerify(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := commandFormatter(opts, cmd)

	if err := requireFile(formatter, path); err != nil {
		return err
	}
	if ext := modelExt(path); ext != ".json" && ext != ".xml" {
		msg := fmt.Sprintf("unsupported model format %q: want .json or .xml", ext)
		_ = formatter.Error(ErrCodeBadFormat, msg, nil)
		return NewExitError(ExitCommandError, msg)
	}

	// A decode failure is the finding this command exists to report, so
	// it maps to ExitFailure rather than ExitCommandError.
	m, err := loadModel(path)
	if err != nil {
		_ = formatter.Error(ErrCodeLoadFailed, err.Error(), nil)
		return WrapExitError(ExitFailure, "verification failed", err)
	}

	digest, err := modelDigest(m)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "verification failed", err)
	}

	slog.Debug("model verified", "path", path, "events", m.EventCount(), "digest", digest)

	if opts.Format == "json" {
		return formatter.Success(VerifyResult{
			Valid:  true,
			Events: m.EventCount(),
			Digest: digest,
		})
	}

	fmt.Fprintf(formatter.Writer, "✓ verified %s: %d event(s)\n", path, m.EventCount())
	fmt.Fprintf(formatter.Writer, "digest: %s\n", digest)
	return nil
}

// modelDigest computes the format-independent content digest of a model.
// The model is encoded to JSON wire form, then canonicalized and hashed,
// so JSON and XML dumps of the same model agree.
func modelDigest(m *oced.Model) (string, error) {
	data, err := ocedjson.Encode(m)
	if err != nil {
		return "", fmt.Errorf("encode model: %w", err)
	}
	return canonical.DigestJSON(data)
}
