package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDocument(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestValidateValidDocument(t *testing.T) {
	out, _, err := runCLI(t, "validate", resultsDocument)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ "+resultsDocument+" is a valid create document")
}

func TestValidateValidDocumentJSON(t *testing.T) {
	out, _, err := runCLI(t, "--format", "json", "validate", resultsDocument)
	require.NoError(t, err)

	resp := decodeResponse(t, out)
	assert.Equal(t, "ok", resp.Status)
	var result ValidationResult
	require.NoError(t, json.Unmarshal(resp.Data, &result))
	assert.Equal(t, ValidationResult{Valid: true, File: resultsDocument, Mode: "create", Columns: 2, Rows: 2}, result)
}

func TestValidateCUEDocument(t *testing.T) {
	path := filepath.Join("..", "document", "testdata", "results.cue")
	_, _, err := runCLI(t, "validate", path)
	require.NoError(t, err)
}

func TestValidateNonExistentFile(t *testing.T) {
	out, _, err := runCLI(t, "validate", "/nonexistent/table.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "E005")
	assert.Contains(t, out, "not found")
}

func TestValidateUnsupportedExtension(t *testing.T) {
	path := writeDocument(t, "table.txt", "label: T\n")

	_, _, err := runCLI(t, "validate", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "E008")
}

func TestValidateSchemaViolation(t *testing.T) {
	path := writeDocument(t, "bad.yaml", "label: T\nrows:\n  - data: [1]\n")

	out, _, err := runCLI(t, "--format", "json", "validate", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	resp := decodeResponse(t, out)
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "E010", resp.Error.Code)
}

func TestValidateDomainErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		code string
	}{
		{
			name: "rows required on create",
			doc:  "label: T\n",
			code: "MISSING_TABLE_ROWS",
		},
		{
			name: "undeclared temp id",
			doc:  "label: T\nrows:\n  - data: [\"#c1\"]\n",
			code: "THING_NOT_DEFINED",
		},
		{
			name: "ragged row",
			doc: `label: T
things:
  literals:
    "#c1": {label: A}
    "#c2": {label: B}
rows:
  - data: ["#c1", "#c2"]
  - data: ["#c1"]
`,
			code: "MISSING_TABLE_ROW_VALUES",
		},
		{
			name: "invalid temp id",
			doc:  "label: T\nthings:\n  literals:\n    c1: {label: A}\nrows:\n  - data: [c1]\n",
			code: "INVALID_TEMP_ID",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeDocument(t, "doc.yaml", tt.doc)

			out, _, err := runCLI(t, "--format", "json", "validate", path)
			require.Error(t, err)
			assert.Equal(t, ExitFailure, GetExitCode(err))
			assert.Equal(t, tt.code, decodeResponse(t, out).Error.Code)
		})
	}
}

func TestValidateUpdateModeAllowsMissingRows(t *testing.T) {
	path := writeDocument(t, "rename.yaml", "label: Renamed\n")

	_, _, err := runCLI(t, "validate", path)
	require.Error(t, err)

	out, _, err := runCLI(t, "validate", "--update", path)
	require.NoError(t, err)
	assert.Contains(t, out, "valid update document")
}

func TestValidateVerboseOutput(t *testing.T) {
	stdout, stderr, err := runCLI(t, "--verbose", "validate", resultsDocument)
	require.NoError(t, err)

	// Verbose logs go to stderr to avoid corrupting JSON output
	assert.NotContains(t, stdout, "Checking")
	assert.Contains(t, stderr, "Loaded "+resultsDocument)
	assert.Contains(t, stderr, "Checking create document: 5 temp id(s), 3 row(s)")
}
