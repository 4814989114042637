package cli

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose     bool
	Format      string // "json" | "text"
	DB          string
	Contributor string
	Metrics     bool
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the kgraph CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "kgraph",
		Short: "kgraph - knowledge graph tables",
		Long: `Create and reconcile tables stored as knowledge graph statements.

Commands read table documents (YAML or CUE), validate them and apply
the minimal set of statement changes to a SQLite graph store.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Validate format flag
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}

			level := slog.LevelWarn
			if opts.Verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.DB, "db", "kgraph.db", "path to the SQLite graph store")
	cmd.PersistentFlags().StringVar(&opts.Contributor, "contributor", uuid.Nil.String(), "contributor UUID recorded on every write")
	cmd.PersistentFlags().BoolVar(&opts.Metrics, "metrics", false, "print pipeline metrics after the command")

	// Add subcommands
	cmd.AddCommand(NewTableCommand(opts))
	cmd.AddCommand(NewTemplateCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// contributorID parses the --contributor flag.
func (o *RootOptions) contributorID() (uuid.UUID, error) {
	id, err := uuid.Parse(o.Contributor)
	if err != nil {
		return uuid.Nil, &CommandError{Code: ErrCodeInvalidFlag, Message: fmt.Sprintf("invalid contributor %q: %v", o.Contributor, err)}
	}
	return id, nil
}
