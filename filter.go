package xsdgen

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ConstraintOperator is the operator of a structural constraint.
type ConstraintOperator string

const (
	OpNotIn           ConstraintOperator = "not_in"
	OpEmpty           ConstraintOperator = "empty"
	OpIn              ConstraintOperator = "in"
	OpEquals          ConstraintOperator = "equals"
	OpNoEventsWithIDs ConstraintOperator = "no_events_with_ids"
)

// Constraint is a structural rule extracted from a complex filter. Path is a
// dotted chain of element names from a logical root; it is matched against
// fields by suffix rather than by exact depth.
type Constraint struct {
	Path     string             `json:"path"`
	Operator ConstraintOperator `json:"operator"`
	Value    string             `json:"value,omitempty"`
	Values   []string           `json:"values,omitempty"`
}

// Comparison is the operator of a simple filter condition.
type Comparison string

const (
	CmpEqual        Comparison = "="
	CmpNotEqual     Comparison = "!="
	CmpLess         Comparison = "<"
	CmpLessEqual    Comparison = "<="
	CmpGreater      Comparison = ">"
	CmpGreaterEqual Comparison = ">="
)

// comparisonPrecedence lists operators in the order they are tried. Two
// character operators come before their one character prefixes.
var comparisonPrecedence = []Comparison{
	CmpLessEqual, CmpGreaterEqual, CmpLess, CmpGreater, CmpNotEqual, CmpEqual,
}

// Condition is one field comparison. Value holds a bool, a float64 or a string.
type Condition struct {
	Operator Comparison `json:"operator"`
	Value    any        `json:"value"`
}

// SimpleFilter maps field names to the comparison their values must honor.
type SimpleFilter map[string]Condition

// FilterSet is the normalized form of a filter string. Complex filters carry
// Constraints; simple filters carry Simple. An empty filter has neither.
type FilterSet struct {
	Complex     bool         `json:"complex"`
	Constraints []Constraint `json:"constraints,omitempty"`
	Simple      SimpleFilter `json:"simple,omitempty"`
}

// IsEmpty reports whether the set constrains nothing.
func (f FilterSet) IsEmpty() bool {
	return len(f.Constraints) == 0 && len(f.Simple) == 0
}

// Constraint returns the first constraint with the given operator.
func (f FilterSet) Constraint(op ConstraintOperator) (Constraint, bool) {
	for _, c := range f.Constraints {
		if c.Operator == op {
			return c, true
		}
	}
	return Constraint{}, false
}

// Constraint paths for the recognized complex filter patterns.
const (
	PathDeliveryType         = "Delivery.DeliveryHeader.DeliveryType"
	PathParentDeliveryNumber = "Delivery.DeliveryHeader.ParentDeliveryNumber"
	PathDistributionCenter   = "Delivery.DeliveryItemList.DeliveryItem.DistributionCenter"
	PathStorageLocation      = "Delivery.DeliveryItemList.DeliveryItem.StorageLocation"
	PathEvent                = "Delivery.DeliveryHeader.EventList.Event"
)

var (
	complexMarkers = []string{"$Start", "ns21:", "not("}

	andSeparator            = regexp.MustCompile(`(?i)\s+and\s+`)
	quoteChars              = regexp.MustCompile(`['"]`)
	distributionCenterRegex = regexp.MustCompile(`DistributionCenter=\('([^']+)','([^']+)'\)`)
	storageLocationRegex    = regexp.MustCompile(`StorageLocation='([^']+)'`)
	eventIDsRegex           = regexp.MustCompile(`Event\[@eventID=\('([^)]+)'\)\]`)
)

// ParseFilterCondition normalizes a free-text filter. Text containing one of
// the markers $Start, ns21: or not( is read as an XPath-flavored complex
// filter; anything else as "field op value" conditions joined by "and".
// Unrecognized text yields an empty set, never an error.
func ParseFilterCondition(text string) FilterSet {
	if strings.TrimSpace(text) == "" {
		return FilterSet{}
	}
	if !isComplexFilter(text) {
		return FilterSet{Simple: parseSimpleFilter(text)}
	}
	return FilterSet{Complex: true, Constraints: parseXPathFilter(text)}
}

func isComplexFilter(text string) bool {
	for _, marker := range complexMarkers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

func parseSimpleFilter(text string) SimpleFilter {
	filters := SimpleFilter{}
	for _, condition := range andSeparator.Split(text, -1) {
		condition = strings.TrimSpace(condition)
		for _, op := range comparisonPrecedence {
			if !strings.Contains(condition, string(op)) {
				continue
			}
			parts := strings.Split(condition, string(op))
			field := quoteChars.ReplaceAllString(strings.TrimSpace(parts[0]), "")
			filters[field] = Condition{Operator: op, Value: parseFilterValue(parts[1])}
			break
		}
	}
	return filters
}

// parseFilterValue coerces a literal: true/false become booleans, fully
// numeric text becomes a float64, the rest stays a string.
func parseFilterValue(raw string) any {
	v := quoteChars.ReplaceAllString(strings.TrimSpace(raw), "")
	switch strings.ToLower(v) {
	case "true":
		return true
	case "false":
		return false
	}
	if isNumericLiteral(v) {
		f, _ := strconv.ParseFloat(v, 64)
		return f
	}
	return v
}

func isNumericLiteral(v string) bool {
	if v == "" {
		return false
	}
	lower := strings.ToLower(v)
	if strings.Contains(lower, "0x") || strings.Contains(lower, "inf") || strings.Contains(lower, "nan") || strings.Contains(v, "_") {
		return false
	}
	f, err := strconv.ParseFloat(v, 64)
	return err == nil && !math.IsInf(f, 0)
}

// parseXPathFilter extracts constraints for the fixed set of recognized
// patterns. Each pattern is matched independently against the whole text.
func parseXPathFilter(text string) []Constraint {
	var constraints []Constraint

	if strings.Contains(text, "DeliveryType='ZLR'") || strings.Contains(text, "DeliveryType='ZRET'") {
		constraints = append(constraints, Constraint{
			Path:     PathDeliveryType,
			Operator: OpNotIn,
			Values:   []string{"ZLR", "ZRET"},
		})
	}

	if strings.Contains(text, "ParentDeliveryNumber") && strings.Contains(text, "string-length") && strings.Contains(text, "=0") {
		constraints = append(constraints, Constraint{
			Path:     PathParentDeliveryNumber,
			Operator: OpEmpty,
		})
	}

	if m := distributionCenterRegex.FindStringSubmatch(text); m != nil {
		constraints = append(constraints, Constraint{
			Path:     PathDistributionCenter,
			Operator: OpIn,
			Values:   []string{m[1], m[2]},
		})
	}

	if m := storageLocationRegex.FindStringSubmatch(text); m != nil {
		constraints = append(constraints, Constraint{
			Path:     PathStorageLocation,
			Operator: OpEquals,
			Value:    m[1],
		})
	}

	if strings.Contains(text, "Event[@eventID=") && strings.Contains(text, "count(") && strings.Contains(text, "=0") {
		if m := eventIDsRegex.FindStringSubmatch(text); m != nil {
			constraints = append(constraints, Constraint{
				Path:     PathEvent,
				Operator: OpNoEventsWithIDs,
				Values:   strings.Split(m[1], "','"),
			})
		}
	}

	return constraints
}
