package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/kgraph/internal/actions/tables"
	"github.com/roach88/kgraph/internal/document"
	"github.com/roach88/kgraph/internal/graph"
	"github.com/roach88/kgraph/internal/store"
)

// TableResult is the JSON payload of table create and update.
type TableResult struct {
	TableID graph.ThingID `json:"table_id"`
	Columns int           `json:"columns,omitempty"`
	Rows    int           `json:"rows,omitempty"`
	Deleted int           `json:"deleted,omitempty"`
}

// NewTableCommand creates the table command group.
func NewTableCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Create, update and show tables",
	}
	cmd.AddCommand(newTableCreateCommand(rootOpts))
	cmd.AddCommand(newTableUpdateCommand(rootOpts))
	cmd.AddCommand(newTableShowCommand(rootOpts))
	return cmd
}

func newTableCreateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "create <file>",
		Short: "Create a table from a document",
		Long: `Create a table from a YAML, JSON or CUE document.

The document's things are created first, then the table, its columns,
rows and cells. Nothing is written if any check fails.

Exit codes:
  0 - Table created
  1 - Command rejected (invalid temp id, missing header value, etc.)
  2 - Command error (unreadable document, database error)

Examples:
  kgraph table create results.yaml
  kgraph --db graph.db --format json table create results.cue`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTableCreate(cmd.Context(), rootOpts, args[0], cmd)
		},
	}
}

func runTableCreate(ctx context.Context, opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	doc, err := LoadDocument(path)
	if err != nil {
		return formatter.Fail(err)
	}
	formatter.VerboseLog("Loaded %s: %d row(s)", path, len(doc.Rows))

	session, err := OpenSession(opts, StoreModeCreate)
	if err != nil {
		return formatter.Fail(err)
	}
	defer session.Close()

	var id graph.ThingID
	err = session.Tx(ctx, func(tx *store.Store) error {
		var err error
		id, err = tables.NewService(tx, session.Options...).Create(ctx, doc.CreateCommand(session.Contributor))
		return err
	})
	if err != nil {
		return formatter.Fail(err)
	}

	result := TableResult{TableID: id, Rows: max(len(doc.Rows)-1, 0)}
	if len(doc.Rows) > 0 {
		result.Columns = len(doc.Rows[0].Data)
	}
	if err := outputTableResult(formatter, "Created", result); err != nil {
		return err
	}
	return session.WriteMetrics(formatter.GetErrWriter())
}

func newTableUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "update <table-id> <file>",
		Short: "Reconcile a table with a document",
		Long: `Update a table so that it matches a document.

A document without rows leaves the table contents untouched; a document
without a label keeps the current label. Rows and columns are matched by
position and only the differences are written.

Examples:
  kgraph table update R12 results.yaml`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTableUpdate(cmd.Context(), rootOpts, graph.ThingID(args[0]), args[1], cmd)
		},
	}
}

func runTableUpdate(ctx context.Context, opts *RootOptions, id graph.ThingID, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	doc, err := LoadDocument(path)
	if err != nil {
		return formatter.Fail(err)
	}

	session, err := OpenSession(opts, StoreModeExisting)
	if err != nil {
		return formatter.Fail(err)
	}
	defer session.Close()

	var state tables.UpdateTableState
	err = session.Tx(ctx, func(tx *store.Store) error {
		var err error
		state, err = tables.NewService(tx, session.Options...).Update(ctx, doc.UpdateCommand(id, session.Contributor))
		return err
	})
	if err != nil {
		return formatter.Fail(err)
	}

	result := TableResult{
		TableID: id,
		Columns: len(state.Columns),
		Rows:    len(state.Rows),
		Deleted: len(state.ThingsToDelete),
	}
	if err := outputTableResult(formatter, "Updated", result); err != nil {
		return err
	}
	return session.WriteMetrics(formatter.GetErrWriter())
}

func outputTableResult(f *OutputFormatter, verb string, r TableResult) error {
	if f.Format == "json" {
		return f.Success(r)
	}
	msg := fmt.Sprintf("✓ %s table %s", verb, r.TableID)
	if r.Columns > 0 || r.Rows > 0 {
		msg += fmt.Sprintf(" (%d column(s), %d row(s))", r.Columns, r.Rows)
	}
	return f.Success(msg)
}

func newTableShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <table-id>",
		Short: "Print a table",
		Long: `Print a table read back from the graph.

Text output renders the header and every row; JSON output is a table
document referencing the persisted things, which can be fed back to
"table update" unchanged.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTableShow(cmd.Context(), rootOpts, graph.ThingID(args[0]), cmd)
		},
	}
}

func runTableShow(ctx context.Context, opts *RootOptions, id graph.ThingID, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	session, err := OpenSession(opts, StoreModeExisting)
	if err != nil {
		return formatter.Fail(err)
	}
	defer session.Close()

	table, err := tables.NewReader(session.Store).FindByID(ctx, id)
	if err != nil {
		return formatter.Fail(err)
	}

	if opts.Format == "json" {
		return formatter.Success(document.FromTable(table))
	}
	return table.WriteText(cmd.OutOrStdout())
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}
}
