package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/roach88/kgraph/internal/actions"
	"github.com/roach88/kgraph/internal/actions/tables"
	"github.com/roach88/kgraph/internal/document"
	"github.com/roach88/kgraph/internal/graph"
	"github.com/roach88/kgraph/internal/store"
	"github.com/roach88/kgraph/internal/testutil"
)

// AliasPrefix marks a reference to a setup thing or a table of the
// scenario inside a step document.
const AliasPrefix = "$"

// Harness is the test execution engine.
// It runs scenarios with a deterministic clock and request ids.
type Harness struct {
	store       *store.Store
	repo        *testutil.CountingRepository
	tables      *tables.Service
	reader      *tables.Reader
	contributor uuid.UUID
	aliases     map[string]graph.ThingID
	logger      *slog.Logger
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
//
// Execution flow:
// 1. Create fresh in-memory database
// 2. Create the setup things
// 3. Execute the steps, checking each expect clause
// 4. Read back every table and evaluate the assertions
func Run(scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:",
		store.WithSequencer(testutil.NewDeterministicClock()),
		store.WithNow(testutil.FixedNow),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	repo := testutil.NewCountingRepository(st)
	h := &Harness{
		store:       st,
		repo:        repo,
		tables:      tables.NewService(repo, actions.WithRequestIDs(testutil.NewSequentialRequestIDs())),
		reader:      tables.NewReader(repo),
		contributor: testutil.ContributorID(1),
		aliases:     map[string]graph.ThingID{},
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
	}

	ctx := context.Background()
	result := NewResult()
	if err := h.executeSetup(ctx, scenario.Setup); err != nil {
		return nil, fmt.Errorf("failed to execute setup: %w", err)
	}
	if err := h.executeSteps(ctx, scenario.Steps, result); err != nil {
		return nil, fmt.Errorf("failed to execute steps: %w", err)
	}

	for _, step := range scenario.Steps {
		if step.Kind() != StepCreate {
			continue
		}
		id, ok := h.aliases[step.Table]
		if !ok {
			continue
		}
		table, err := h.reader.FindByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to read table %s: %w", step.Table, err)
		}
		result.Tables[step.Table] = table
	}

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError("%s", msg)
	}
	return result, nil
}

// executeSetup creates the setup things in alias order so that ids are
// stable across runs.
func (h *Harness) executeSetup(ctx context.Context, setup Setup) error {
	contributor := h.contributor.String()
	for _, alias := range sortedKeys(setup.Literals) {
		id, err := h.store.CreateLiteral(ctx, graph.CreateLiteral{Label: setup.Literals[alias], Contributor: contributor})
		if err != nil {
			return fmt.Errorf("literal %s: %w", alias, err)
		}
		h.aliases[alias] = id
	}
	for _, alias := range sortedKeys(setup.Resources) {
		r := setup.Resources[alias]
		classes := make([]graph.ThingID, len(r.Classes))
		for i, c := range r.Classes {
			classes[i] = graph.ThingID(c)
		}
		id, err := h.store.CreateResource(ctx, graph.CreateResource{Label: r.Label, Classes: classes, Contributor: contributor})
		if err != nil {
			return fmt.Errorf("resource %s: %w", alias, err)
		}
		h.aliases[alias] = id
	}
	return nil
}

// executeSteps runs every step and checks its expect clause. Domain errors
// are outcomes to compare; any other error aborts the scenario.
func (h *Harness) executeSteps(ctx context.Context, steps []Step, result *Result) error {
	for i, step := range steps {
		h.repo.Reset()
		err := h.executeStep(ctx, step)

		code, isDomain := graph.CodeOf(err)
		if err != nil && !isDomain {
			return fmt.Errorf("step %d: %w", i+1, err)
		}

		sr := StepResult{
			Kind:      step.Kind(),
			Table:     step.Table,
			Error:     code,
			Mutations: h.repo.Mutations(),
		}
		result.Steps = append(result.Steps, sr)
		checkExpect(i+1, step.Expect, sr, result)

		h.logger.Info("step completed",
			"step", i+1,
			"kind", sr.Kind,
			"table", sr.Table,
			"error", string(sr.Error),
			"mutations", sr.Mutations.Total(),
		)
	}
	return nil
}

func (h *Harness) executeStep(ctx context.Context, step Step) error {
	switch step.Kind() {
	case StepCreate:
		doc, err := h.bind(step.Document)
		if err != nil {
			return err
		}
		id, err := h.tables.Create(ctx, doc.CreateCommand(h.contributor))
		if err != nil {
			return err
		}
		h.aliases[step.Table] = id
		return nil
	case StepUpdate:
		id, err := h.table(step.Table)
		if err != nil {
			return err
		}
		doc, err := h.bind(step.Document)
		if err != nil {
			return err
		}
		_, err = h.tables.Update(ctx, doc.UpdateCommand(id, h.contributor))
		return err
	default:
		id, err := h.table(step.Table)
		if err != nil {
			return err
		}
		return h.store.SetModifiable(ctx, id, false)
	}
}

func (h *Harness) table(alias string) (graph.ThingID, error) {
	id, ok := h.aliases[alias]
	if !ok {
		return "", fmt.Errorf("unknown table %q", alias)
	}
	return id, nil
}

// bind returns a copy of doc with every $alias reference replaced by the
// id it stands for.
func (h *Harness) bind(doc *document.Document) (*document.Document, error) {
	out := *doc
	resolve := func(ref string) (string, error) {
		alias, ok := strings.CutPrefix(ref, AliasPrefix)
		if !ok {
			return ref, nil
		}
		id, ok := h.aliases[alias]
		if !ok {
			return "", fmt.Errorf("unknown alias %q", ref)
		}
		return string(id), nil
	}

	if doc.Rows != nil {
		out.Rows = make([]document.Row, len(doc.Rows))
		for i, row := range doc.Rows {
			data := make([]*string, len(row.Data))
			for j, v := range row.Data {
				if v == nil {
					continue
				}
				ref, err := resolve(*v)
				if err != nil {
					return nil, fmt.Errorf("rows[%d].data[%d]: %w", i, j, err)
				}
				data[j] = &ref
			}
			out.Rows[i] = document.Row{Label: row.Label, Data: data}
		}
	}

	if doc.Things.Resources != nil {
		out.Things.Resources = make(map[string]document.Resource, len(doc.Things.Resources))
		for id, r := range doc.Things.Resources {
			classes, err := resolveAll(r.Classes, resolve)
			if err != nil {
				return nil, fmt.Errorf("things.resources[%s]: %w", id, err)
			}
			out.Things.Resources[id] = document.Resource{Label: r.Label, Classes: classes}
		}
	}
	if doc.Things.Lists != nil {
		out.Things.Lists = make(map[string]document.List, len(doc.Things.Lists))
		for id, l := range doc.Things.Lists {
			elements, err := resolveAll(l.Elements, resolve)
			if err != nil {
				return nil, fmt.Errorf("things.lists[%s]: %w", id, err)
			}
			out.Things.Lists[id] = document.List{Label: l.Label, Elements: elements}
		}
	}
	return &out, nil
}

func resolveAll(refs []string, resolve func(string) (string, error)) ([]string, error) {
	if refs == nil {
		return nil, nil
	}
	out := make([]string, len(refs))
	for i, ref := range refs {
		r, err := resolve(ref)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}

// checkExpect compares a step's outcome with its expect clause.
func checkExpect(n int, expect *Expect, sr StepResult, result *Result) {
	var want graph.ErrorCode
	if expect != nil {
		want = expect.Error
	}
	if sr.Error != want {
		result.AddError("step %d: expected error %q, got %q", n, want, sr.Error)
	}
	if expect == nil || expect.Mutations == nil {
		return
	}
	if got, want := sr.Mutations, expect.Mutations.counters(); got != want {
		result.AddError("step %d: expected mutations %+v, got %+v", n, want, got)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
