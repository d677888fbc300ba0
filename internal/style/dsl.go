package style

import (
	"strings"

	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return tracing.Select("vtstyler.style")
}

// dslOperators is the operator scan table for the editor's filter text.
// The order is part of the observable contract: each block is matched
// against the tokens in this order, and a token whose predicate fails to
// construct falls through to the next token. That fall-through is what
// lets "z >= 5" survive the ">" token matching first (its operand "= 5" is
// not a number), and "x not exist" survive "exist" matching first (its
// property half "x not" contains a space). Rearranging the table changes
// which predicates parse.
var dslOperators = []string{
	"==", "!=", ">", "<", ">=", "<=", " not in ", " in ", "exist", "not exist",
}

// ParseFilters parses the editor's infix filter text: predicates of the
// form "<name> <op> <value>" joined by "&&". Membership lists are written
// bracketed, "name in [a,b]". An empty text yields no predicates; any
// block that matches no operator fails the whole filter.
func ParseFilters(text string) ([]PropertyFilter, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, true
	}

	var filters []PropertyFilter
	for _, block := range strings.Split(text, "&&") {
		filter, ok := parseBlock(block)
		if !ok {
			tracer().Debugf("cannot parse filter block %q", strings.TrimSpace(block))
			return nil, false
		}
		filters = append(filters, filter)
	}
	return filters, true
}

func parseBlock(block string) (PropertyFilter, bool) {
	for _, token := range dslOperators {
		if !strings.Contains(block, token) {
			continue
		}

		name, value, _ := strings.Cut(block, token)
		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)
		if name == "" || strings.ContainsAny(name, " \t") {
			continue
		}

		opText := strings.TrimSpace(token)
		if opText == "in" || opText == "not in" {
			value = strings.TrimPrefix(value, "[")
			value = strings.TrimSuffix(value, "]")
		}

		op, ok := OperatorFromText(opText, value)
		if !ok {
			continue
		}
		return PropertyFilter{PropertyName: name, Operator: op}, true
	}
	return PropertyFilter{}, false
}

// FormatFilters renders predicates back to the editor's infix form.
// ParseFilters of the result yields the same predicates.
func FormatFilters(filters []PropertyFilter) string {
	parts := make([]string, len(filters))
	for i, f := range filters {
		parts[i] = f.String()
	}
	return strings.Join(parts, " && ")
}
