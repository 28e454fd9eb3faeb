package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/objectcentric/oced"
	"github.com/objectcentric/oced/ocedjson"
	"github.com/objectcentric/oced/ocedxml"
)

// Error codes for CLI error responses.
const (
	ErrCodeGeneric    = "E001" // generic/unknown error
	ErrCodeNotFound   = "E002" // input path does not exist
	ErrCodeBadFormat  = "E003" // unsupported file extension
	ErrCodeLoadFailed = "E004" // model dump failed to read or decode
	ErrCodeDumpFailed = "E005" // model dump failed to encode or write
	ErrCodeStore      = "E006" // journal database error

	// Schema validation codes (validate command).
	ErrCodeSchemaViolation = "E101" // dump violates the wire schema
)

// loadModel reads and decodes a model dump, dispatching on the file
// extension. Decoding replays the event log and cross-checks the stored
// snapshot, so a non-nil model is always internally consistent.
func loadModel(path string) (*oced.Model, error) {
	switch modelExt(path) {
	case ".json":
		return ocedjson.Load(path)
	case ".xml":
		return ocedxml.Load(path)
	default:
		return nil, fmt.Errorf("unsupported model format %q: want .json or .xml", filepath.Ext(path))
	}
}

// dumpModel encodes and writes a model dump, dispatching on the file
// extension.
func dumpModel(path string, m *oced.Model) error {
	switch modelExt(path) {
	case ".json":
		return ocedjson.Dump(path, m)
	case ".xml":
		return ocedxml.Dump(path, m)
	default:
		return fmt.Errorf("unsupported model format %q: want .json or .xml", filepath.Ext(path))
	}
}

// modelExt normalizes a model file extension for dispatch.
func modelExt(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// requireFile fails with ExitCommandError when path does not name an
// existing regular file. Commands call this before loading so a typo in
// the path is reported as a command error, not a domain failure.
func requireFile(formatter *OutputFormatter, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		msg := fmt.Sprintf("file not found: %s", path)
		_ = formatter.Error(ErrCodeNotFound, msg, nil)
		return NewExitError(ExitCommandError, msg)
	}
	if info.IsDir() {
		msg := fmt.Sprintf("expected a file, got a directory: %s", path)
		_ = formatter.Error(ErrCodeNotFound, msg, nil)
		return NewExitError(ExitCommandError, msg)
	}
	return nil
}

// commandFormatter builds the output formatter for a command. Verbose and
// diagnostic output goes to stderr so JSON output stays parseable.
func commandFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}
