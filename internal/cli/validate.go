package cli

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"github.com/spf13/cobra"
)

// modelSchema is the CUE wire schema validated against JSON dumps.
//
//go:embed schema/model.cue
var modelSchema []byte

// SchemaViolation is one schema finding with its position in the dump.
type SchemaViolation struct {
	Path    string `json:"path,omitempty"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid      bool              `json:"valid"`
	Violations []SchemaViolation `json:"violations,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <model.json>",
		Short: "Validate a JSON model dump against the wire schema",
		Long: `Validate a JSON model dump against the embedded wire schema.

This is a structural check, independent of decoding: the dump is unified
with a CUE schema describing format version 1. It catches unknown
fields, wrong types, bad qualifier kinds, and qualifier fields that are
meaningless for the declared kind. It does not replay the event log; use
verify for semantic integrity.

Exit codes:
  0 - dump matches the schema
  1 - schema violations found
  2 - command error (file not found, not a .json file)

Examples:
  ocedctl validate orders.json
  ocedctl validate orders.json --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := commandFormatter(opts, cmd)

	if err := requireFile(formatter, path); err != nil {
		return err
	}
	if modelExt(path) != ".json" {
		msg := fmt.Sprintf("validate reads JSON dumps only, got %q", path)
		_ = formatter.Error(ErrCodeBadFormat, msg, nil)
		return NewExitError(ExitCommandError, msg)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		_ = formatter.Error(ErrCodeLoadFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "validate failed", err)
	}

	formatter.VerboseLog("Validating %s against wire schema", path)

	violations, err := validateAgainstSchema(path, data)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "validate failed", err)
	}

	if len(violations) > 0 {
		return outputValidationErrors(formatter, violations)
	}

	return outputValidateSuccess(formatter)
}

// validateAgainstSchema unifies the dump with the embedded schema's #Model
// definition and reports every finding. A nil slice means the dump is
// valid; the error return is for schema compilation problems only.
func validateAgainstSchema(path string, data []byte) ([]SchemaViolation, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileBytes(modelSchema, cue.Filename("model.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compiling wire schema: %w", err)
	}
	modelDef := schema.LookupPath(cue.ParsePath("#Model"))
	if err := modelDef.Err(); err != nil {
		return nil, fmt.Errorf("wire schema has no #Model definition: %w", err)
	}

	// JSON is a subset of CUE, so the dump compiles directly. A syntax
	// error here is a finding about the dump, not a command error.
	doc := ctx.CompileBytes(data, cue.Filename(path))
	if err := doc.Err(); err != nil {
		return collectViolations(err), nil
	}

	unified := modelDef.Unify(doc)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return collectViolations(err), nil
	}

	return nil, nil
}

// collectViolations flattens a CUE error into individual findings.
func collectViolations(err error) []SchemaViolation {
	var out []SchemaViolation
	for _, e := range cueerrors.Errors(err) {
		v := SchemaViolation{Message: e.Error()}
		if pos := e.Position(); pos.IsValid() {
			v.Line = pos.Line()
		}
		if p := e.Path(); len(p) > 0 {
			v.Path = strings.Join(p, ".")
		}
		out = append(out, v)
	}
	return out
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter) error {
	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true})
	}

	fmt.Fprintln(formatter.Writer, "✓ dump matches the wire schema")
	return nil
}

// outputValidationErrors outputs schema violations and fails the command.
func outputValidationErrors(formatter *OutputFormatter, violations []SchemaViolation) error {
	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data: ValidationResult{
				Valid:      false,
				Violations: violations,
			},
			Error: &CLIError{
				Code:    ErrCodeSchemaViolation,
				Message: violations[0].Message,
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}

		// Schema violations = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d violation(s)", len(violations)))
	}

	// Text format
	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, v := range violations {
		if v.Line > 0 {
			fmt.Fprintf(formatter.Writer, "line %d\n", v.Line)
		}
		fmt.Fprintf(formatter.Writer, "  %s\n\n", v.Message)
	}

	// Schema violations = exit code 1
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d violation(s)", len(violations)))
}
