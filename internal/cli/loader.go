package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/roach88/kgraph/internal/actions"
	"github.com/roach88/kgraph/internal/document"
	"github.com/roach88/kgraph/internal/store"
)

// StoreMode controls whether a command may create the database file.
type StoreMode int

const (
	// StoreModeCreate opens the database, creating it if needed.
	StoreModeCreate StoreMode = iota
	// StoreModeExisting fails with E005 if the database does not exist.
	StoreModeExisting
)

// Session is the state shared by the commands that touch the store: the
// open database, the contributor of every write and the pipeline options.
type Session struct {
	Store       *store.Store
	Contributor uuid.UUID
	Options     []actions.PipelineOption

	registry *prometheus.Registry
}

// OpenSession opens the store named by --db and wires metrics when
// --metrics is set. Callers must Close the session.
func OpenSession(opts *RootOptions, mode StoreMode) (*Session, error) {
	contributor, err := opts.contributorID()
	if err != nil {
		return nil, err
	}

	if mode == StoreModeExisting {
		if _, err := os.Stat(opts.DB); errors.Is(err, os.ErrNotExist) {
			return nil, &CommandError{Code: ErrCodeNotFound, Message: fmt.Sprintf("database not found: %s", opts.DB)}
		}
	}

	st, err := store.Open(opts.DB)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", opts.DB, err)
	}

	s := &Session{Store: st, Contributor: contributor}
	if opts.Metrics {
		s.registry = prometheus.NewRegistry()
		metrics, err := actions.NewMetrics(s.registry)
		if err != nil {
			st.Close()
			return nil, fmt.Errorf("register metrics: %w", err)
		}
		s.Options = append(s.Options, actions.WithMetrics(metrics))
	}
	return s, nil
}

// Tx runs fn in a store transaction. A returned error rolls back every
// write of fn.
func (s *Session) Tx(ctx context.Context, fn func(tx *store.Store) error) error {
	return s.Store.WithTx(ctx, fn)
}

// WriteMetrics writes the collected pipeline metrics in the Prometheus
// text exposition format. It writes nothing when metrics are disabled.
func (s *Session) WriteMetrics(w io.Writer) error {
	if s.registry == nil {
		return nil
	}
	families, err := s.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}

// Close closes the store.
func (s *Session) Close() error {
	return s.Store.Close()
}

// LoadDocument reads a table document from a YAML, JSON or CUE file.
func LoadDocument(path string) (*document.Document, error) {
	loader, err := document.NewLoader()
	if err != nil {
		return nil, fmt.Errorf("compile document schema: %w", err)
	}
	return loader.LoadFile(path)
}
