package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/kgraph/internal/document"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Update bool // check as an update document
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid   bool   `json:"valid"`
	File    string `json:"file"`
	Mode    string `json:"mode"`
	Columns int    `json:"columns"`
	Rows    int    `json:"rows"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a table document without a database",
		Long: `Validate a table document without touching a database.

Performs syntax checking, schema validation, temp id checks and table
dimension checks. References to existing things are not resolved; that
needs the graph and happens when the document is applied.

Use --update to check a document meant for "table update", where the
rows may be omitted.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "validate as an update document (rows optional)")

	return cmd
}

func runValidate(opts *ValidateOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	doc, err := LoadDocument(path)
	if err != nil {
		return formatter.Fail(err)
	}
	formatter.VerboseLog("Loaded %s", path)

	mode, modeName := document.ModeCreate, "create"
	if opts.Update {
		mode, modeName = document.ModeUpdate, "update"
	}
	formatter.VerboseLog("Checking %s document: %d temp id(s), %d row(s)",
		modeName, len(doc.Things.Definitions().TempIDs()), len(doc.Rows))

	if err := doc.Check(mode); err != nil {
		return formatter.Fail(err)
	}

	result := ValidationResult{Valid: true, File: path, Mode: modeName, Rows: max(len(doc.Rows)-1, 0)}
	if len(doc.Rows) > 0 {
		result.Columns = len(doc.Rows[0].Data)
	}
	if opts.Format == "json" {
		return formatter.Success(result)
	}
	return formatter.Success(fmt.Sprintf("✓ %s is a valid %s document", path, modeName))
}
