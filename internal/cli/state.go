package cli

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/objectcentric/oced"
)

// ObjectRow is one object in the state command's JSON payload.
type ObjectRow struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Alive bool   `json:"alive"`
}

// AttributeValueRow is one attribute value in the state command's JSON payload.
type AttributeValueRow struct {
	ID       string `json:"id"`
	ObjectID string `json:"object_id"`
	Name     string `json:"name"`
	Value    string `json:"value"`
	Alive    bool   `json:"alive"`
}

// RelationRow is one relation in the state command's JSON payload.
type RelationRow struct {
	ID           string `json:"id"`
	FromObjectID string `json:"from_object_id"`
	ToObjectID   string `json:"to_object_id"`
	Type         string `json:"type"`
	Alive        bool   `json:"alive"`
}

// StateResult holds the state command's success payload. Rows are sorted
// by id so output is stable across runs.
type StateResult struct {
	Objects         []ObjectRow         `json:"objects"`
	AttributeValues []AttributeValueRow `json:"attribute_values"`
	Relations       []RelationRow       `json:"relations"`
}

// NewStateCommand creates the state command.
func NewStateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state <model-file>",
		Short: "Print the materialized current state of a model dump",
		Long: `Print the materialized current state of a model dump: every object,
attribute value and relation ever created, with its latest fields and
whether it is still alive or tombstoned.

Examples:
  ocedctl state orders.json
  ocedctl state orders.xml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runState(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runState(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := commandFormatter(opts, cmd)

	if err := requireFile(formatter, path); err != nil {
		return err
	}

	m, err := loadModel(path)
	if err != nil {
		_ = formatter.Error(ErrCodeLoadFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "state failed", err)
	}

	result := buildStateResult(m.CurrentState())

	if opts.Format == "json" {
		return formatter.Success(result)
	}

	writeStateText(formatter.Writer, result)
	return nil
}

// buildStateResult flattens a state snapshot into id-sorted rows.
func buildStateResult(cs oced.CurrentState) StateResult {
	result := StateResult{
		Objects:         make([]ObjectRow, 0, len(cs.Objects)),
		AttributeValues: make([]AttributeValueRow, 0, len(cs.AttributeValues)),
		Relations:       make([]RelationRow, 0, len(cs.Relations)),
	}

	for id, o := range cs.Objects {
		result.Objects = append(result.Objects, ObjectRow{ID: id, Type: o.Type, Alive: o.Alive})
	}
	for id, v := range cs.AttributeValues {
		result.AttributeValues = append(result.AttributeValues, AttributeValueRow{
			ID:       id,
			ObjectID: v.ObjectID,
			Name:     v.Name,
			Value:    v.Value,
			Alive:    v.Alive,
		})
	}
	for id, r := range cs.Relations {
		result.Relations = append(result.Relations, RelationRow{
			ID:           id,
			FromObjectID: r.FromObjectID,
			ToObjectID:   r.ToObjectID,
			Type:         r.Type,
			Alive:        r.Alive,
		})
	}

	sort.Slice(result.Objects, func(i, j int) bool { return result.Objects[i].ID < result.Objects[j].ID })
	sort.Slice(result.AttributeValues, func(i, j int) bool { return result.AttributeValues[i].ID < result.AttributeValues[j].ID })
	sort.Slice(result.Relations, func(i, j int) bool { return result.Relations[i].ID < result.Relations[j].ID })

	return result
}

// writeStateText prints the state as aligned tables, one section per
// entity kind. Empty sections are skipped.
func writeStateText(out io.Writer, result StateResult) {
	if len(result.Objects) == 0 && len(result.AttributeValues) == 0 && len(result.Relations) == 0 {
		fmt.Fprintln(out, "Empty model: no entities.")
		return
	}

	if len(result.Objects) > 0 {
		fmt.Fprintln(out, "Objects:")
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "  ID\tTYPE\tSTATUS")
		for _, o := range result.Objects {
			fmt.Fprintf(w, "  %s\t%s\t%s\n", o.ID, o.Type, aliveLabel(o.Alive))
		}
		w.Flush()
	}

	if len(result.AttributeValues) > 0 {
		fmt.Fprintln(out, "Attribute values:")
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "  ID\tOBJECT\tNAME\tVALUE\tSTATUS")
		for _, v := range result.AttributeValues {
			fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%s\n", v.ID, v.ObjectID, v.Name, v.Value, aliveLabel(v.Alive))
		}
		w.Flush()
	}

	if len(result.Relations) > 0 {
		fmt.Fprintln(out, "Relations:")
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "  ID\tFROM\tTO\tTYPE\tSTATUS")
		for _, r := range result.Relations {
			fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%s\n", r.ID, r.FromObjectID, r.ToObjectID, r.Type, aliveLabel(r.Alive))
		}
		w.Flush()
	}
}

func aliveLabel(alive bool) string {
	if alive {
		return "alive"
	}
	return "tombstoned"
}
