// Package formatters renders style documents for terminal output.
package formatters

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/galileo-map/galileo-vt-styler/internal/editor"
)

// RuleOutput represents one rule in the JSON report.
type RuleOutput struct {
	ID        uint64  `json:"id"`
	LayerName string  `json:"layer_name"`
	Filter    string  `json:"filter,omitempty"`
	Symbol    string  `json:"symbol"`
	Color     string  `json:"color"`
	Size      float64 `json:"size"`
	HaloColor string  `json:"halo_color,omitempty"`
	HaloWidth float64 `json:"halo_width,omitempty"`
	Pattern   string  `json:"pattern,omitempty"`
}

// DocumentOutput represents the complete document report.
type DocumentOutput struct {
	Background string       `json:"background"`
	RuleCount  int          `json:"rule_count"`
	Rules      []RuleOutput `json:"rules"`
}

// JSON renders the document as an indented JSON report.
func JSON(doc *editor.StyleDoc) (string, error) {
	rules := doc.Rules()
	output := DocumentOutput{
		Background: doc.Background().String(),
		RuleCount:  len(rules),
		Rules:      make([]RuleOutput, 0, len(rules)),
	}
	for _, rule := range rules {
		out := RuleOutput{
			ID:        rule.ID,
			LayerName: rule.LayerName,
			Filter:    rule.Filter,
			Symbol:    rule.Symbol.String(),
			Color:     rule.Color.String(),
			Size:      rule.Size,
		}
		if rule.Symbol == editor.SymbolLabel {
			out.HaloColor = rule.HaloColor.String()
			out.HaloWidth = rule.HaloWidth
			out.Pattern = rule.Pattern
		}
		output.Rules = append(output.Rules, out)
	}

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling document report: %w", err)
	}
	return string(data), nil
}

// Text renders the document as a human-readable report.
func Text(doc *editor.StyleDoc) string {
	var output strings.Builder
	rules := doc.Rules()

	output.WriteString("Style Document\n")
	output.WriteString("==============\n\n")
	output.WriteString(fmt.Sprintf("Background: %s\n", doc.Background()))
	output.WriteString(fmt.Sprintf("Rules: %d\n\n", len(rules)))

	for _, rule := range rules {
		layer := rule.LayerName
		if layer == "" {
			layer = "(any layer)"
		}
		output.WriteString(fmt.Sprintf("#%d %s: %s\n", rule.ID, layer, symbolSummary(rule)))
		if rule.Filter != "" {
			output.WriteString(fmt.Sprintf("    where %s\n", rule.Filter))
		}
	}

	return output.String()
}

// symbolSummary renders the drawing side of a rule in one line.
func symbolSummary(rule editor.EditRule) string {
	switch rule.Symbol {
	case editor.SymbolPoint:
		return fmt.Sprintf("point size %s color %s", num(rule.Size), rule.Color)
	case editor.SymbolLine:
		return fmt.Sprintf("line width %s stroke %s", num(rule.Size), rule.Color)
	case editor.SymbolPolygon:
		return fmt.Sprintf("polygon fill %s", rule.Color)
	case editor.SymbolLabel:
		return fmt.Sprintf("label %q size %s color %s halo %s width %s",
			rule.Pattern, num(rule.Size), rule.Color, rule.HaloColor, num(rule.HaloWidth))
	}
	return "hidden"
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
