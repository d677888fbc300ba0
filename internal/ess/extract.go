package ess

import (
	"github.com/galileo-map/galileo-vt-styler/internal/colors"
)

// extractValue reduces a paint-or-layout property to a single constant.
// Literals pass through. A {"stops": [...]} object collapses to the first
// stop's output, an ["interpolate", ...] expression of length five or more
// collapses to its first output operand. Every other shape has no value.
func extractValue(props map[string]any, name string) (any, bool) {
	v, ok := props[name]
	if !ok {
		return nil, false
	}

	switch value := v.(type) {
	case string, float64, bool:
		return value, true

	case map[string]any:
		stops, ok := value["stops"].([]any)
		if !ok || len(stops) == 0 {
			return nil, false
		}
		first, ok := stops[0].([]any)
		if !ok || len(first) < 2 {
			return nil, false
		}
		return first[1], true

	case []any:
		if len(value) >= 5 && value[0] == "interpolate" {
			return value[4], true
		}
		tracer().Debugf("unsupported expression for %q, head %v", name, head(value))
		return nil, false
	}

	return nil, false
}

func head(expr []any) any {
	if len(expr) == 0 {
		return nil
	}
	return expr[0]
}

// ExtractColor resolves a property to a color constant. Expression-valued
// properties degrade to the first stop; unparseable literals yield false.
func ExtractColor(props map[string]any, name string) (colors.Color, bool) {
	v, ok := extractValue(props, name)
	if !ok {
		return colors.Color{}, false
	}
	literal, ok := v.(string)
	if !ok {
		return colors.Color{}, false
	}
	return colors.Parse(literal)
}

// ExtractNumber resolves a property to a numeric constant.
func ExtractNumber(props map[string]any, name string) (float64, bool) {
	v, ok := extractValue(props, name)
	if !ok {
		return 0, false
	}
	n, ok := v.(float64)
	return n, ok
}

// ExtractString resolves a property to a string literal. Unlike the color
// and number extractors it does not look inside expressions; label
// patterns are taken verbatim or not at all.
func ExtractString(props map[string]any, name string) (string, bool) {
	v, ok := props[name]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
