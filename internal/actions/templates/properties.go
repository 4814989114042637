package templates

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/roach88/kgraph/internal/actions"
	"github.com/roach88/kgraph/internal/graph"
)

// PropertiesPipeline is the name of the property update pipeline.
const PropertiesPipeline = "template.properties"

// UpdatePropertiesCommand sets the ordered property shapes of a template.
type UpdatePropertiesCommand struct {
	TemplateID    graph.ThingID
	ContributorID uuid.UUID
	Properties    []graph.ThingID
}

// UpdatePropertiesState is threaded through the pipeline.
type UpdatePropertiesState struct {
	Template graph.Resource
	Cache    actions.ValidationCache

	// Existing are the template's sh:property links before the update.
	Existing []graph.Statement

	// Removed lists the properties detached from the template, and
	// Deleted the subset that was deleted because nothing else used it.
	Removed []graph.ThingID
	Deleted []graph.ThingID
}

// Service updates template properties.
type Service struct {
	repo        graph.Repository
	resolver    *actions.Resolver
	parts       *actions.PartDeleter
	collections *actions.StatementCollectionUpdater
	pipeline    *actions.Pipeline[UpdatePropertiesCommand, UpdatePropertiesState]
}

// NewService wires the property update pipeline over repo.
func NewService(repo graph.Repository, opts ...actions.PipelineOption) *Service {
	s := &Service{
		repo:        repo,
		resolver:    actions.NewResolver(repo),
		parts:       actions.NewPartDeleter(repo, repo),
		collections: actions.NewStatementCollectionUpdater(repo, repo),
	}
	s.pipeline = actions.MustPipeline(PropertiesPipeline, []actions.Step[UpdatePropertiesCommand, UpdatePropertiesState]{
		actions.Validator("template", s.validateTemplate),
		actions.Validator("properties", s.validateProperties),
		actions.Validator("existing-properties", s.loadExisting),
		actions.Mutator("removed-properties", s.deleteRemoved),
		actions.Mutator("properties", s.linkProperties),
	}, opts...)
	return s
}

// UpdateProperties runs the pipeline for cmd.
func (s *Service) UpdateProperties(ctx context.Context, cmd UpdatePropertiesCommand) (UpdatePropertiesState, error) {
	return s.pipeline.Execute(ctx, cmd, UpdatePropertiesState{Cache: actions.NewValidationCache()})
}

func (s *Service) validateTemplate(ctx context.Context, cmd UpdatePropertiesCommand, state UpdatePropertiesState) (UpdatePropertiesState, error) {
	thing, ok, err := s.repo.FindThing(ctx, cmd.TemplateID)
	if err != nil {
		return state, fmt.Errorf("load template %s: %w", cmd.TemplateID, err)
	}
	template, isResource := thing.(graph.Resource)
	if !ok || !isResource || !template.HasClass(graph.ClassNodeShape) {
		return state, TemplateNotFound(cmd.TemplateID)
	}
	state.Template = template
	return state, nil
}

func (s *Service) validateProperties(ctx context.Context, cmd UpdatePropertiesCommand, state UpdatePropertiesState) (UpdatePropertiesState, error) {
	for _, id := range cmd.Properties {
		ref, err := s.resolver.Resolve(ctx, string(id), nil, state.Cache)
		if err != nil {
			return state, err
		}
		property, ok := ref.Thing.(graph.Resource)
		if !ok || !property.HasClass(graph.ClassPropertyShape) {
			return state, ThingIsNotAPropertyShape(id)
		}
	}
	return state, nil
}

func (s *Service) loadExisting(ctx context.Context, cmd UpdatePropertiesCommand, state UpdatePropertiesState) (UpdatePropertiesState, error) {
	existing, err := s.repo.FindStatements(ctx, graph.StatementQuery{
		Subject:   cmd.TemplateID,
		Predicate: graph.PredicateSHProperty,
	})
	if err != nil {
		return state, fmt.Errorf("load properties of %s: %w", cmd.TemplateID, err)
	}
	state.Existing = existing
	return state, nil
}

// deleteRemoved detaches every property that is no longer wanted. A
// property used only by this template is deleted with its statements.
func (s *Service) deleteRemoved(ctx context.Context, cmd UpdatePropertiesCommand, state UpdatePropertiesState) (UpdatePropertiesState, error) {
	wanted := actions.NewSet(cmd.Properties...)
	seen := actions.NewSet[graph.ThingID]()

	for _, link := range state.Existing {
		property := link.ObjectID()
		if wanted.Contains(property) || seen.Contains(property) {
			continue
		}
		seen = seen.With(property)

		deleted, err := s.parts.Delete(ctx, cmd.TemplateID, property, s.deleteProperty(property))
		if err != nil {
			return state, err
		}
		state.Removed = append(state.Removed, property)
		if deleted {
			state.Deleted = append(state.Deleted, property)
		}
		slog.Debug("property removed from template",
			"template", cmd.TemplateID,
			"property", property,
			"deleted", deleted,
		)
	}
	return state, nil
}

// deleteProperty removes a property shape together with its own
// statements and the links pointing at it.
func (s *Service) deleteProperty(property graph.ThingID) actions.DeleteAllFunc {
	return func(ctx context.Context, incoming []graph.Statement) error {
		own, err := s.repo.FindStatements(ctx, graph.StatementQuery{Subject: property})
		if err != nil {
			return err
		}
		ids := append(graph.StatementIDs(incoming), graph.StatementIDs(own)...)
		if len(ids) > 0 {
			if err := s.repo.DeleteStatements(ctx, ids); err != nil {
				return err
			}
		}
		return s.repo.DeleteResource(ctx, property)
	}
}

func (s *Service) linkProperties(ctx context.Context, cmd UpdatePropertiesCommand, state UpdatePropertiesState) (UpdatePropertiesState, error) {
	_, err := s.collections.UpdateObjectSequence(ctx, actions.CollectionTarget{
		Contributor: cmd.ContributorID.String(),
		Subject:     cmd.TemplateID,
		Predicate:   graph.PredicateSHProperty,
	}, cmd.Properties)
	return state, err
}
