package graph

import (
	"math/big"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Recognised literal datatypes.
const (
	DatatypeString   = "xsd:string"
	DatatypeInteger  = "xsd:integer"
	DatatypeInt      = "xsd:int"
	DatatypeDecimal  = "xsd:decimal"
	DatatypeFloat    = "xsd:float"
	DatatypeBoolean  = "xsd:boolean"
	DatatypeDate     = "xsd:date"
	DatatypeDateTime = "xsd:dateTime"
	DatatypeAnyURI   = "xsd:anyURI"
)

var decimalPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)$`)

var datatypeParsers = map[string]func(string) bool{
	DatatypeString: func(string) bool { return true },
	DatatypeInteger: func(s string) bool {
		_, ok := new(big.Int).SetString(s, 10)
		return ok
	},
	DatatypeInt: func(s string) bool {
		_, err := strconv.ParseInt(s, 10, 32)
		return err == nil
	},
	DatatypeDecimal: decimalPattern.MatchString,
	DatatypeFloat: func(s string) bool {
		switch s {
		case "INF", "+INF", "-INF", "NaN":
			return true
		}
		_, err := strconv.ParseFloat(s, 32)
		return err == nil
	},
	DatatypeBoolean: func(s string) bool {
		switch s {
		case "true", "false", "1", "0":
			return true
		}
		return false
	},
	DatatypeDate: func(s string) bool {
		_, err := time.Parse(time.DateOnly, s)
		return err == nil
	},
	DatatypeDateTime: func(s string) bool {
		_, err := time.Parse(time.RFC3339, s)
		return err == nil
	},
	DatatypeAnyURI: func(s string) bool {
		_, err := url.Parse(s)
		return err == nil
	},
}

// IsKnownDatatype reports whether name is one of the recognised xsd datatypes.
func IsKnownDatatype(name string) bool {
	_, ok := datatypeParsers[name]
	return ok
}

// IsValidDatatype reports whether name may be used as a literal datatype:
// either a recognised xsd datatype or an absolute URI outside the xsd prefix.
func IsValidDatatype(name string) bool {
	if IsKnownDatatype(name) {
		return true
	}
	if strings.HasPrefix(name, "xsd:") {
		return false
	}
	return IsAbsoluteURI(name)
}

// AcceptsLabel reports whether label parses as a value of datatype.
// Datatypes given as absolute URIs accept any label.
func AcceptsLabel(datatype, label string) bool {
	parse, ok := datatypeParsers[datatype]
	if !ok {
		return true
	}
	return parse(label)
}

// IsAbsoluteURI reports whether s parses as a URI with a scheme.
func IsAbsoluteURI(s string) bool {
	if s == "" || strings.ContainsAny(s, " \t\n\r") {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.IsAbs()
}
