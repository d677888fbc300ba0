package style

import (
	"fmt"
	"strconv"
	"strings"
)

// OperatorKind enumerates the supported predicate operators.
type OperatorKind int

const (
	OpEq OperatorKind = iota
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpIn
	OpNotIn
	OpExist
	OpNotExist
)

// Token returns the textual operator token as used both by the stylesheet
// filter grammar and the editor DSL.
func (k OperatorKind) Token() string {
	switch k {
	case OpEq:
		return "=="
	case OpNe:
		return "!="
	case OpLt:
		return "<"
	case OpLe:
		return "<="
	case OpGt:
		return ">"
	case OpGe:
		return ">="
	case OpIn:
		return "in"
	case OpNotIn:
		return "not in"
	case OpExist:
		return "exist"
	case OpNotExist:
		return "not exist"
	}
	return ""
}

// FilterOperator is a predicate operator together with its operand. Value
// is set for Eq/Ne, Number for the four comparisons, Values for In/NotIn.
type FilterOperator struct {
	Kind   OperatorKind
	Value  string
	Number float64
	Values []string
}

// OperatorFromText constructs an operator from its token and a raw operand
// string. Comparison operands must parse as numbers; membership operands
// are comma-separated lists; existence operands must be empty. Unknown
// tokens and malformed operands yield ok == false.
func OperatorFromText(op, value string) (FilterOperator, bool) {
	switch op {
	case "==":
		return FilterOperator{Kind: OpEq, Value: value}, true
	case "!=":
		return FilterOperator{Kind: OpNe, Value: value}, true
	case "<", "<=", ">", ">=":
		n, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return FilterOperator{}, false
		}
		kind := map[string]OperatorKind{"<": OpLt, "<=": OpLe, ">": OpGt, ">=": OpGe}[op]
		return FilterOperator{Kind: kind, Number: n}, true
	case "in", "not in":
		kind := OpIn
		if op == "not in" {
			kind = OpNotIn
		}
		var values []string
		for _, v := range strings.Split(value, ",") {
			v = strings.TrimSpace(v)
			if v != "" {
				values = append(values, v)
			}
		}
		if len(values) == 0 {
			return FilterOperator{}, false
		}
		return FilterOperator{Kind: kind, Values: values}, true
	case "exist", "not exist":
		if value != "" {
			return FilterOperator{}, false
		}
		kind := OpExist
		if op == "not exist" {
			kind = OpNotExist
		}
		return FilterOperator{Kind: kind}, true
	default:
		return FilterOperator{}, false
	}
}

// String renders the operator with its operand, e.g. "== street",
// "in [bridge,tunnel]" or "exist".
func (f FilterOperator) String() string {
	switch f.Kind {
	case OpEq, OpNe:
		return fmt.Sprintf("%s %s", f.Kind.Token(), f.Value)
	case OpLt, OpLe, OpGt, OpGe:
		return fmt.Sprintf("%s %s", f.Kind.Token(), strconv.FormatFloat(f.Number, 'f', -1, 64))
	case OpIn, OpNotIn:
		return fmt.Sprintf("%s [%s]", f.Kind.Token(), strings.Join(f.Values, ","))
	case OpExist, OpNotExist:
		return f.Kind.Token()
	}
	return ""
}

// Matches evaluates the operator against a feature property. The value is
// the property's textual form; present reports whether the property exists
// on the feature at all.
func (f FilterOperator) Matches(value string, present bool) bool {
	switch f.Kind {
	case OpExist:
		return present
	case OpNotExist:
		return !present
	}
	if !present {
		return false
	}

	switch f.Kind {
	case OpEq:
		return value == f.Value
	case OpNe:
		return value != f.Value
	case OpIn:
		return containsValue(f.Values, value)
	case OpNotIn:
		return !containsValue(f.Values, value)
	case OpLt, OpLe, OpGt, OpGe:
		n, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return false
		}
		switch f.Kind {
		case OpLt:
			return n < f.Number
		case OpLe:
			return n <= f.Number
		case OpGt:
			return n > f.Number
		default:
			return n >= f.Number
		}
	}
	return false
}

func containsValue(values []string, v string) bool {
	for _, c := range values {
		if c == v {
			return true
		}
	}
	return false
}

// PropertyFilter is a single predicate: a feature-property name and the
// operator tested against it.
type PropertyFilter struct {
	PropertyName string
	Operator     FilterOperator
}

// String renders the predicate in the editor's infix form.
func (p PropertyFilter) String() string {
	return fmt.Sprintf("%s %s", p.PropertyName, p.Operator)
}
