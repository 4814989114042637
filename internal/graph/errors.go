package graph

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Error is a domain error raised by a validator or mutator.
//
// Domain errors are never recovered in place: a pipeline aborts on the
// first one and hands it unchanged to the caller.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Details contains additional context (ids, indices, counts).
	Details map[string]string
}

// ErrorCode categorizes domain errors.
type ErrorCode string

const (
	// Reference errors.
	CodeThingNotFound            ErrorCode = "THING_NOT_FOUND"
	CodeThingNotDefined          ErrorCode = "THING_NOT_DEFINED"
	CodeThingIsNotAClass         ErrorCode = "THING_IS_NOT_A_CLASS"
	CodeThingIsNotAPredicate     ErrorCode = "THING_IS_NOT_A_PREDICATE"
	CodeThingIsNotAPropertyShape ErrorCode = "THING_IS_NOT_A_PROPERTY_SHAPE"
	CodeThingInUse               ErrorCode = "THING_IN_USE"

	// Declaration errors.
	CodeInvalidTempID    ErrorCode = "INVALID_TEMP_ID"
	CodeDuplicateTempIDs ErrorCode = "DUPLICATE_TEMP_IDS"

	// Definition errors.
	CodeInvalidLabel           ErrorCode = "INVALID_LABEL"
	CodeInvalidLiteralLabel    ErrorCode = "INVALID_LITERAL_LABEL"
	CodeInvalidLiteralDatatype ErrorCode = "INVALID_LITERAL_DATATYPE"
	CodeReservedClass          ErrorCode = "RESERVED_CLASS"
	CodeURINotAbsolute         ErrorCode = "URI_NOT_ABSOLUTE"
	CodeURIAlreadyInUse        ErrorCode = "URI_ALREADY_IN_USE"

	// Shape and dimension errors.
	CodeMissingTableRows              ErrorCode = "MISSING_TABLE_ROWS"
	CodeMissingTableHeaderValue       ErrorCode = "MISSING_TABLE_HEADER_VALUE"
	CodeTableHeaderValueMustBeLiteral ErrorCode = "TABLE_HEADER_VALUE_MUST_BE_LITERAL"
	CodeTooManyTableRowValues         ErrorCode = "TOO_MANY_TABLE_ROW_VALUES"
	CodeMissingTableRowValues         ErrorCode = "MISSING_TABLE_ROW_VALUES"

	// Business-rule errors.
	CodeTableNotFound      ErrorCode = "TABLE_NOT_FOUND"
	CodeTableNotModifiable ErrorCode = "TABLE_NOT_MODIFIABLE"
	CodeTemplateNotFound   ErrorCode = "TEMPLATE_NOT_FOUND"
)

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// CodeOf returns the code of the first *Error in err's chain.
func CodeOf(err error) (ErrorCode, bool) {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Code, true
	}
	return "", false
}

// IsCode reports whether err is (or wraps) a domain error with code.
func IsCode(err error, code ErrorCode) bool {
	c, ok := CodeOf(err)
	return ok && c == code
}

// NewError creates a domain error without details.
func NewError(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithDetail returns e with key set in its details.
func (e *Error) WithDetail(key, value string) *Error {
	if e.Details == nil {
		e.Details = map[string]string{}
	}
	e.Details[key] = value
	return e
}

func ThingNotFound(id ThingID) *Error {
	return NewError(CodeThingNotFound, "Thing %q not found.", id).WithDetail("id", string(id))
}

func ThingNotDefined(id string) *Error {
	return NewError(CodeThingNotDefined, "Thing %q not defined.", id).WithDetail("id", id)
}

func ThingIsNotAClass(id ThingID) *Error {
	return NewError(CodeThingIsNotAClass, "Thing %q is not a class.", id).WithDetail("id", string(id))
}

func ThingIsNotAPredicate(id ThingID) *Error {
	return NewError(CodeThingIsNotAPredicate, "Thing %q is not a predicate.", id).WithDetail("id", string(id))
}

func ThingInUse(id ThingID) *Error {
	return NewError(CodeThingInUse, "Thing %q is still used in a statement.", id).WithDetail("id", string(id))
}

func InvalidTempID(id string) *Error {
	return NewError(CodeInvalidTempID, "Invalid temp id %q. Requires \"#\" as prefix.", id).WithDetail("id", id)
}

// DuplicateTempIDs reports every temp id declared more than once together
// with its declaration count.
func DuplicateTempIDs(counts map[string]int) *Error {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	details := make(map[string]string, len(keys))
	for _, k := range keys {
		n := strconv.Itoa(counts[k])
		parts = append(parts, k+"="+n)
		details[k] = n
	}
	return &Error{
		Code:    CodeDuplicateTempIDs,
		Message: "Duplicate temp ids: " + strings.Join(parts, ", ") + ".",
		Details: details,
	}
}

func InvalidLabel(property string) *Error {
	return NewError(CodeInvalidLabel, "A label must not be blank or contain newlines and must be at most %d characters long.", MaxLabelLength).
		WithDetail("property", property)
}

func InvalidLiteralLabel(label, datatype string) *Error {
	if datatype == "" {
		return NewError(CodeInvalidLiteralLabel, "A literal must be at most %d characters long.", MaxLabelLength)
	}
	return NewError(CodeInvalidLiteralLabel, "Literal value %q is not a valid %q.", label, datatype).
		WithDetail("datatype", datatype)
}

func InvalidLiteralDatatype() *Error {
	return NewError(CodeInvalidLiteralDatatype, "A literal datatype must be a URI or a \"xsd:\"-prefixed type.")
}

func ReservedClass(id ThingID) *Error {
	return NewError(CodeReservedClass, "Class %q is reserved and therefore cannot be set.", id).WithDetail("id", string(id))
}

func URINotAbsolute(uri string) *Error {
	return NewError(CodeURINotAbsolute, "The URI <%s> must be absolute.", uri).WithDetail("uri", uri)
}

func URIAlreadyInUse(uri string, id ThingID) *Error {
	return NewError(CodeURIAlreadyInUse, "The URI <%s> is already assigned to class with ID %q.", uri, id).
		WithDetail("uri", uri).
		WithDetail("id", string(id))
}
