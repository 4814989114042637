package tables

import (
	"context"

	"github.com/roach88/kgraph/internal/actions"
	"github.com/roach88/kgraph/internal/graph"
)

// Pipeline names, used in logs and metrics.
const (
	CreatePipeline = "table.create"
	UpdatePipeline = "table.update"
)

// Service creates and updates tables.
type Service struct {
	repo        graph.Repository
	resolver    *actions.Resolver
	definitions *actions.ThingDefinitionValidator
	subgraphs   *actions.SubgraphCreator
	titles      *actions.SingleStatementUpdater
	rows        rowsValidator

	create *actions.Pipeline[CreateTableCommand, CreateTableState]
	update *actions.Pipeline[UpdateTableCommand, UpdateTableState]
}

// NewService wires both table pipelines over repo. opts apply to both.
func NewService(repo graph.Repository, opts ...actions.PipelineOption) *Service {
	resolver := actions.NewResolver(repo)
	s := &Service{
		repo:        repo,
		resolver:    resolver,
		definitions: actions.NewThingDefinitionValidator(resolver, repo),
		subgraphs:   actions.NewSubgraphCreator(repo, repo),
		titles:      actions.NewSingleStatementUpdater(repo),
		rows:        rowsValidator{resolver: resolver},
	}
	s.create = actions.MustPipeline(CreatePipeline, s.createSteps(), opts...)
	s.update = actions.MustPipeline(UpdatePipeline, s.updateSteps(), opts...)
	return s
}

// Create creates a table and returns its id.
func (s *Service) Create(ctx context.Context, cmd CreateTableCommand) (graph.ThingID, error) {
	state, err := s.create.Execute(ctx, cmd, NewCreateTableState())
	if err != nil {
		return "", err
	}
	return state.TableID, nil
}

// Update reconciles an existing table with cmd and returns the final state.
func (s *Service) Update(ctx context.Context, cmd UpdateTableCommand) (UpdateTableState, error) {
	return s.update.Execute(ctx, cmd, NewUpdateTableState())
}
