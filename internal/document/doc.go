// Package document reads table documents, the file format behind the
// kgraph CLI and the conformance harness.
//
// A document names a table label, the things the request declares under
// temp ids, and the rows of the table:
//
//	label: Results
//	things:
//	  literals:
//	    "#c1": {label: Accuracy}
//	rows:
//	  - data: ["#c1"]
//	  - label: Run 1
//	    data: [R42]
//
// Documents are written in YAML or CUE. Both are checked against the
// embedded #Document schema (schema.cue) before they are decoded.
package document
