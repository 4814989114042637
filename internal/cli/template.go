package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/kgraph/internal/actions/templates"
	"github.com/roach88/kgraph/internal/graph"
	"github.com/roach88/kgraph/internal/store"
)

// PropertiesResult is the JSON payload of template properties.
type PropertiesResult struct {
	TemplateID graph.ThingID   `json:"template_id"`
	Properties []graph.ThingID `json:"properties"`
	Removed    []graph.ThingID `json:"removed,omitempty"`
	Deleted    []graph.ThingID `json:"deleted,omitempty"`
}

// NewTemplateCommand creates the template command group.
func NewTemplateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Maintain template property shapes",
	}
	cmd.AddCommand(newTemplatePropertiesCommand(rootOpts))
	return cmd
}

func newTemplatePropertiesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "properties <template-id> [property-id...]",
		Short: "Set the ordered property shapes of a template",
		Long: `Set the ordered property shapes of a template.

Properties no longer listed are detached from the template; a detached
property shape that no other template uses is deleted with its
statements. Passing no property ids removes every property.

Examples:
  kgraph template properties R40 R41 R42`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			properties := make([]graph.ThingID, len(args)-1)
			for i, arg := range args[1:] {
				properties[i] = graph.ThingID(arg)
			}
			return runTemplateProperties(cmd.Context(), rootOpts, graph.ThingID(args[0]), properties, cmd)
		},
	}
}

func runTemplateProperties(ctx context.Context, opts *RootOptions, id graph.ThingID, properties []graph.ThingID, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	session, err := OpenSession(opts, StoreModeExisting)
	if err != nil {
		return formatter.Fail(err)
	}
	defer session.Close()

	var state templates.UpdatePropertiesState
	err = session.Tx(ctx, func(tx *store.Store) error {
		var err error
		state, err = templates.NewService(tx, session.Options...).UpdateProperties(ctx, templates.UpdatePropertiesCommand{
			TemplateID:    id,
			ContributorID: session.Contributor,
			Properties:    properties,
		})
		return err
	})
	if err != nil {
		return formatter.Fail(err)
	}

	result := PropertiesResult{
		TemplateID: id,
		Properties: properties,
		Removed:    state.Removed,
		Deleted:    state.Deleted,
	}
	if opts.Format == "json" {
		err = formatter.Success(result)
	} else {
		err = formatter.Success(fmt.Sprintf("✓ Template %s has %d property shape(s); %d removed, %d deleted",
			id, len(properties), len(state.Removed), len(state.Deleted)))
	}
	if err != nil {
		return err
	}
	return session.WriteMetrics(formatter.GetErrWriter())
}
