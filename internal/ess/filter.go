package ess

import (
	"strconv"
	"strings"

	"github.com/galileo-map/galileo-vt-styler/internal/style"
)

// filterAliases maps the schema's alternate operator spellings to the
// canonical tokens.
var filterAliases = map[string]string{
	"!in":  "not in",
	"has":  "exist",
	"!has": "not exist",
}

// ParseFilter converts a decoded filter expression to a flat predicate
// list. The expected shape is ["op", ...operands]. "all" flattens
// recursively; a sub-filter that fails to parse is logged and dropped
// while the remainder is kept. Predicates on "$"-prefixed pseudo
// properties (such as "$type") are dropped silently. A nil filter parses
// to no predicates. Unknown heads and malformed operands yield false.
func ParseFilter(v any) ([]style.PropertyFilter, bool) {
	if v == nil {
		return nil, true
	}

	expr, ok := v.([]any)
	if !ok || len(expr) == 0 {
		return nil, false
	}
	op, ok := expr[0].(string)
	if !ok {
		return nil, false
	}
	if alias, found := filterAliases[op]; found {
		op = alias
	}

	if op == "all" {
		var filters []style.PropertyFilter
		for _, sub := range expr[1:] {
			parsed, ok := ParseFilter(sub)
			if !ok {
				tracer().Infof("dropping unparseable sub-filter %v", sub)
				continue
			}
			filters = append(filters, parsed...)
		}
		return filters, true
	}

	return parsePredicate(op, expr[1:])
}

func parsePredicate(op string, operands []any) ([]style.PropertyFilter, bool) {
	if len(operands) == 0 {
		return nil, false
	}
	property, ok := operands[0].(string)
	if !ok || property == "" {
		return nil, false
	}
	// Pseudo properties like "$type" have no feature-property counterpart.
	if strings.HasPrefix(property, "$") {
		return nil, true
	}

	var value string
	switch op {
	case "in", "not in":
		parts := make([]string, 0, len(operands)-1)
		for _, operand := range operands[1:] {
			s, ok := valueToString(operand)
			if !ok {
				return nil, false
			}
			parts = append(parts, s)
		}
		value = strings.Join(parts, ",")

	case "exist", "not exist":
		value = ""

	default:
		if len(operands) != 2 {
			return nil, false
		}
		v, ok := valueToString(operands[1])
		if !ok {
			return nil, false
		}
		value = v
	}

	operator, ok := style.OperatorFromText(op, value)
	if !ok {
		tracer().Infof("unsupported filter operator %q", op)
		return nil, false
	}
	return []style.PropertyFilter{{PropertyName: property, Operator: operator}}, true
}

// valueToString renders a filter operand the way features present their
// properties: numbers in canonical decimal form, booleans as words,
// nested arrays flattened with commas.
func valueToString(v any) (string, bool) {
	switch value := v.(type) {
	case string:
		return value, true
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(value), true
	case []any:
		parts := make([]string, 0, len(value))
		for _, item := range value {
			s, ok := valueToString(item)
			if !ok {
				return "", false
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, ","), true
	}
	return "", false
}
