package document

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaSource string

// Error codes, shared with the CLI's E-code range.
const (
	ErrCodeNotFound = "E005" // Document file not found
	ErrCodeFormat   = "E008" // Unsupported file extension
	ErrCodeParse    = "E009" // YAML or CUE syntax error
	ErrCodeSchema   = "E010" // Document violates the #Document schema
)

// LoadError reports a document that could not be loaded.
type LoadError struct {
	Code    string
	Message string
	File    string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	if e.File != "" {
		return fmt.Sprintf("%s: %s: %s", e.File, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Loader decodes documents against the embedded schema. A Loader is not
// safe for concurrent use.
type Loader struct {
	ctx    *cue.Context
	schema cue.Value
}

// NewLoader compiles the document schema.
func NewLoader() (*Loader, error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("compile document schema: %w", err)
	}
	schema := v.LookupPath(cue.ParsePath("#Document"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("lookup #Document: %w", err)
	}
	return &Loader{ctx: ctx, schema: schema}, nil
}

// LoadFile reads path and decodes it by extension: .yaml, .yml and .json
// are read as YAML, .cue as CUE.
func (l *Loader) LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, &LoadError{Code: ErrCodeNotFound, File: path, Message: "document not found"}
	}
	if err != nil {
		return nil, fmt.Errorf("read document %s: %w", path, err)
	}

	switch filepath.Ext(path) {
	case ".yaml", ".yml", ".json":
		return l.LoadYAML(path, data)
	case ".cue":
		return l.LoadCUE(path, data)
	default:
		return nil, &LoadError{
			Code:    ErrCodeFormat,
			File:    path,
			Message: fmt.Sprintf("unsupported document format %q (want .yaml, .yml, .json or .cue)", filepath.Ext(path)),
		}
	}
}

// LoadYAML decodes a YAML document. name is used in error messages only.
func (l *Loader) LoadYAML(name string, data []byte) (*Document, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &LoadError{Code: ErrCodeParse, File: name, Message: err.Error()}
	}
	return l.LoadData(name, raw)
}

// LoadData decodes a document that was already parsed into plain maps,
// slices and scalars, such as a document embedded in a larger YAML file.
func (l *Loader) LoadData(name string, raw any) (*Document, error) {
	if raw == nil {
		raw = map[string]any{}
	}
	value := l.ctx.Encode(raw)
	if err := value.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeSchema, File: name, Message: err.Error()}
	}
	return l.decode(name, value)
}

// LoadCUE compiles and decodes a CUE document.
func (l *Loader) LoadCUE(name string, data []byte) (*Document, error) {
	value := l.ctx.CompileBytes(data, cue.Filename(name))
	if err := value.Err(); err != nil {
		return nil, newCUEError(ErrCodeParse, name, err)
	}
	return l.decode(name, value)
}

func (l *Loader) decode(name string, value cue.Value) (*Document, error) {
	unified := l.schema.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, newCUEError(ErrCodeSchema, name, err)
	}

	var doc Document
	if err := unified.Decode(&doc); err != nil {
		return nil, newCUEError(ErrCodeSchema, name, err)
	}
	// An explicit empty list must stay distinguishable from absent rows.
	if doc.Rows == nil && value.LookupPath(cue.ParsePath("rows")).Exists() {
		doc.Rows = []Row{}
	}
	return &doc, nil
}

// newCUEError keeps the first error and the first of its positions that
// lies in the document itself rather than in the schema.
func newCUEError(code, name string, err error) *LoadError {
	le := &LoadError{Code: code, File: name, Message: err.Error()}
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return le
	}
	first := errs[0]
	le.Message = first.Error()
	positions := append([]token.Pos{first.Position()}, first.InputPositions()...)
	for _, p := range positions {
		if p.IsValid() && p.Filename() == name {
			le.Pos = p
			break
		}
	}
	return le
}
