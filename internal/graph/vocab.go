package graph

// Well-known predicates. These are seeded by every store on open.
const (
	PredicateCSVWColumns    ThingID = "CSVW_Columns"
	PredicateCSVWRows       ThingID = "CSVW_Rows"
	PredicateCSVWCells      ThingID = "CSVW_Cells"
	PredicateCSVWColumn     ThingID = "CSVW_Column"
	PredicateCSVWNumber     ThingID = "CSVW_Number"
	PredicateCSVWTitles     ThingID = "CSVW_Titles"
	PredicateCSVWValue      ThingID = "CSVW_Value"
	PredicateDescription    ThingID = "description"
	PredicateHasListElement ThingID = "hasListElement"
	PredicateSHProperty     ThingID = "sh:property"
	PredicateSHPath         ThingID = "sh:path"
	PredicateSHOrder        ThingID = "sh:order"
)

// Well-known classes.
const (
	ClassTable         ThingID = "Table"
	ClassRow           ThingID = "Row"
	ClassColumn        ThingID = "Column"
	ClassCell          ThingID = "Cell"
	ClassList          ThingID = "List"
	ClassNodeShape     ThingID = "NodeShape"
	ClassPropertyShape ThingID = "PropertyShape"

	ClassResource  ThingID = "Resource"
	ClassLiteral   ThingID = "Literal"
	ClassClass     ThingID = "Class"
	ClassPredicate ThingID = "Predicate"
	ClassThing     ThingID = "Thing"
)

// WellKnownPredicates maps every seeded predicate to its label.
var WellKnownPredicates = map[ThingID]string{
	PredicateCSVWColumns:    "columns",
	PredicateCSVWRows:       "rows",
	PredicateCSVWCells:      "cells",
	PredicateCSVWColumn:     "column",
	PredicateCSVWNumber:     "number",
	PredicateCSVWTitles:     "titles",
	PredicateCSVWValue:      "value",
	PredicateDescription:    "description",
	PredicateHasListElement: "has list element",
	PredicateSHProperty:     "property",
	PredicateSHPath:         "path",
	PredicateSHOrder:        "order",
}

// WellKnownClasses maps every seeded class to its label.
var WellKnownClasses = map[ThingID]string{
	ClassTable:         "Table",
	ClassRow:           "Row",
	ClassColumn:        "Column",
	ClassCell:          "Cell",
	ClassList:          "List",
	ClassNodeShape:     "Node shape",
	ClassPropertyShape: "Property shape",
	ClassResource:      "Resource",
	ClassLiteral:       "Literal",
	ClassClass:         "Class",
	ClassPredicate:     "Predicate",
	ClassThing:         "Thing",
}

var reservedClasses = map[ThingID]struct{}{
	ClassResource:  {},
	ClassLiteral:   {},
	ClassClass:     {},
	ClassPredicate: {},
	ClassList:      {},
	ClassThing:     {},
}

// IsReservedClass reports whether id is a system class that clients may not
// assign to resources directly.
func IsReservedClass(id ThingID) bool {
	_, ok := reservedClasses[id]
	return ok
}
