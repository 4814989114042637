// Package harness runs conformance scenarios against the table pipelines.
//
// # Scenario Format
//
// Scenarios are YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	setup:
//	  literals:
//	    a: Alpha
//	  resources:
//	    model: {label: BERT}
//	steps:
//	  - create:
//	      label: Results
//	      rows:
//	        - data: [$a]
//	    table: results
//	    expect:
//	      mutations: {statements_created: 3, things_created: 3}
//	  - lock: true
//	    table: results
//	  - update: {label: Renamed}
//	    table: results
//	    expect:
//	      error: TABLE_NOT_MODIFIABLE
//	assertions:
//	  - type: cell
//	    table: results
//	    row: 0
//	    column: 0
//	    value: Alpha
//
// Setup things are created directly in the store and are referenced from
// documents as $alias. Step documents use the format of package document
// and are validated against its schema when the scenario is loaded.
//
// # Assertion Types
//
//   - cell: the label of one cell; row 0 is the header
//   - dimensions: the number of data rows and columns
//   - row_labels: the labels of the data rows, null for an untitled row
//
// # Deterministic Testing
//
// Every scenario runs in a fresh in-memory SQLite database with a
// deterministic logical clock and sequential request ids. Writes are
// counted per step by testutil.CountingRepository so that the golden
// snapshot records exactly what each step changed.
package harness
