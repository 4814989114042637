package actions

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// StepKind separates side-effect-free validators from mutators.
type StepKind int

const (
	// KindValidate steps read the graph and fill in the plan.
	KindValidate StepKind = iota
	// KindMutate steps apply the plan.
	KindMutate
)

// String returns the kind name used in logs.
func (k StepKind) String() string {
	if k == KindMutate {
		return "mutate"
	}
	return "validate"
}

// StepFunc advances state for one command. It returns the next state or
// the domain error that aborts the run.
type StepFunc[C, S any] func(ctx context.Context, cmd C, state S) (S, error)

// Step is one named action of a pipeline.
type Step[C, S any] struct {
	Name string
	Kind StepKind
	Run  StepFunc[C, S]
}

// Validator declares a validator step.
func Validator[C, S any](name string, run StepFunc[C, S]) Step[C, S] {
	return Step[C, S]{Name: name, Kind: KindValidate, Run: run}
}

// Mutator declares a mutator step.
func Mutator[C, S any](name string, run StepFunc[C, S]) Step[C, S] {
	return Step[C, S]{Name: name, Kind: KindMutate, Run: run}
}

// Pipeline folds a fixed list of steps over (command, state).
type Pipeline[C, S any] struct {
	name    string
	steps   []Step[C, S]
	metrics *Metrics
	ids     RequestIDGenerator
}

// PipelineOption configures a pipeline.
type PipelineOption func(*pipelineConfig)

type pipelineConfig struct {
	metrics *Metrics
	ids     RequestIDGenerator
}

// WithMetrics records step and run metrics.
func WithMetrics(m *Metrics) PipelineOption {
	return func(c *pipelineConfig) {
		c.metrics = m
	}
}

// WithRequestIDs replaces the request id generator (default UUIDv7).
func WithRequestIDs(ids RequestIDGenerator) PipelineOption {
	return func(c *pipelineConfig) {
		c.ids = ids
	}
}

// NewPipeline builds a pipeline. Every validator must precede every
// mutator so that all references are resolved before the first write.
func NewPipeline[C, S any](name string, steps []Step[C, S], opts ...PipelineOption) (*Pipeline[C, S], error) {
	cfg := pipelineConfig{ids: UUIDv7Generator{}}
	for _, opt := range opts {
		opt(&cfg)
	}

	mutating := ""
	for i, step := range steps {
		if step.Run == nil {
			return nil, fmt.Errorf("pipeline %s: step %d (%s) has no function", name, i, step.Name)
		}
		if step.Kind == KindMutate && mutating == "" {
			mutating = step.Name
		}
		if step.Kind == KindValidate && mutating != "" {
			return nil, fmt.Errorf("pipeline %s: validator %s follows mutator %s", name, step.Name, mutating)
		}
	}

	return &Pipeline[C, S]{
		name:    name,
		steps:   steps,
		metrics: cfg.metrics,
		ids:     cfg.ids,
	}, nil
}

// MustPipeline is NewPipeline for statically known step lists.
func MustPipeline[C, S any](name string, steps []Step[C, S], opts ...PipelineOption) *Pipeline[C, S] {
	p, err := NewPipeline(name, steps, opts...)
	if err != nil {
		panic(err)
	}
	return p
}

// Name returns the pipeline name.
func (p *Pipeline[C, S]) Name() string {
	return p.name
}

// Execute runs every step in order. The first error aborts the run and is
// returned unchanged together with the zero state.
func (p *Pipeline[C, S]) Execute(ctx context.Context, cmd C, state S) (S, error) {
	requestID := p.ids.Generate()
	start := time.Now()

	slog.Debug("pipeline starting",
		"pipeline", p.name,
		"request_id", requestID,
		"steps", len(p.steps),
	)

	for i, step := range p.steps {
		stepStart := time.Now()
		next, err := step.Run(ctx, cmd, state)
		p.metrics.recordStep(p.name, step.Name, err, time.Since(stepStart))

		if err != nil {
			p.metrics.recordRun(p.name, err)
			slog.Info("pipeline aborted",
				"pipeline", p.name,
				"request_id", requestID,
				"step", step.Name,
				"index", i,
				"kind", step.Kind.String(),
				"error", err,
			)
			var zero S
			return zero, err
		}

		slog.Debug("pipeline step done",
			"pipeline", p.name,
			"request_id", requestID,
			"step", step.Name,
			"kind", step.Kind.String(),
		)
		state = next
	}

	p.metrics.recordRun(p.name, nil)
	slog.Info("pipeline completed",
		"pipeline", p.name,
		"request_id", requestID,
		"duration", time.Since(start),
	)
	return state, nil
}

// Execute folds steps over (cmd, state) without logging identity or
// metrics; it is the bare form of Pipeline.Execute.
func Execute[C, S any](ctx context.Context, steps []Step[C, S], cmd C, state S) (S, error) {
	for _, step := range steps {
		next, err := step.Run(ctx, cmd, state)
		if err != nil {
			var zero S
			return zero, err
		}
		state = next
	}
	return state, nil
}
