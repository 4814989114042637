// Package tables implements the table content type: creating a table
// from a header row and data rows, and reconciling an existing table
// with an updated version.
//
// A table is stored as a subgraph:
//
//	Table -CSVW_Columns-> Column -CSVW_Number-> "1"^^xsd:integer
//	                             -CSVW_Titles-> header literal
//	Table -CSVW_Rows-> Row -CSVW_Number-> "1"^^xsd:integer
//	                       -CSVW_Titles-> optional title literal
//	                       -CSVW_Cells-> Cell -CSVW_Column-> Column
//	                                          -CSVW_Value-> optional value
//
// The first row of a command is the header; its values must be literals
// and become the column titles. Every further row must have exactly as
// many values as the header. Values are thing ids or temp ids declared in
// the command's thing definitions.
//
// Updates match columns and rows by position. Kept columns and rows keep
// their resources; their titles and cell values are relinked when they
// change. Surplus columns and rows are deleted together with their cells,
// and missing ones are created. Deletions are collected while the
// updaters run and applied in one batch at the end.
package tables
