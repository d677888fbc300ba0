// Package editor holds the editable style document: an ordered rule list
// with stable identities, debounced change tracking and a persistent form.
package editor

import (
	"github.com/npillmayer/schuko/tracing"

	"github.com/galileo-map/galileo-vt-styler/internal/colors"
	"github.com/galileo-map/galileo-vt-styler/internal/style"
)

func tracer() tracing.Trace {
	return tracing.Select("vtstyler.editor")
}

// EditAction is a one-shot request attached to a rule by the editor view
// and consumed on the next tick.
type EditAction int

const (
	ActionNone EditAction = iota
	ActionModified
	ActionMoveUp
	ActionMoveDown
	ActionRemove
)

// SymbolType selects the visual form a rule draws.
type SymbolType int

const (
	SymbolNone SymbolType = iota
	SymbolPoint
	SymbolLine
	SymbolPolygon
	SymbolLabel
)

var symbolTypeNames = map[SymbolType]string{
	SymbolNone:    "none",
	SymbolPoint:   "point",
	SymbolLine:    "line",
	SymbolPolygon: "polygon",
	SymbolLabel:   "label",
}

func (s SymbolType) String() string {
	if name, ok := symbolTypeNames[s]; ok {
		return name
	}
	return "none"
}

// SymbolTypeFromName is the inverse of String. Unknown names map to
// SymbolNone.
func SymbolTypeFromName(name string) SymbolType {
	for s, n := range symbolTypeNames {
		if n == name {
			return s
		}
	}
	return SymbolNone
}

// EditRule is one editable row. ID is stable across reorders and never
// reused, so rows with identical visible content stay distinguishable.
// Size doubles as point size, line width or font size depending on the
// symbol type; Color likewise is the point, stroke, fill or font color.
type EditRule struct {
	ID        uint64
	LayerName string
	Filter    string
	Color     colors.Color
	Size      float64
	HaloColor colors.Color
	HaloWidth float64
	Pattern   string
	Symbol    SymbolType
	Action    EditAction
}

// newEditRule returns a rule with the editor defaults: no symbol, unit
// size, transparent color and a white halo two units wide.
func newEditRule(id uint64) EditRule {
	return EditRule{
		ID:        id,
		Size:      1.0,
		Color:     colors.Transparent,
		HaloColor: colors.White,
		HaloWidth: 2.0,
	}
}

// fromStyleRule converts a translated rule into its editable form.
func fromStyleRule(id uint64, r style.StyleRule) EditRule {
	rule := newEditRule(id)
	rule.LayerName = r.LayerName
	rule.Filter = style.FormatFilters(r.Properties)

	switch symbol := r.Symbol.(type) {
	case style.PointSymbol:
		rule.Symbol = SymbolPoint
		rule.Size = symbol.Size
		rule.Color = symbol.Color
	case style.LineSymbol:
		rule.Symbol = SymbolLine
		rule.Size = symbol.Width
		rule.Color = symbol.StrokeColor
	case style.PolygonSymbol:
		rule.Symbol = SymbolPolygon
		rule.Color = symbol.FillColor
	case style.LabelSymbol:
		rule.Symbol = SymbolLabel
		rule.Pattern = symbol.Pattern
		rule.Size = symbol.TextStyle.FontSize
		rule.Color = symbol.TextStyle.FontColor
		rule.HaloColor = symbol.TextStyle.OutlineColor
		rule.HaloWidth = symbol.TextStyle.OutlineWidth
	}
	return rule
}

// toStyleRule compiles the editable rule back into a matcher. Unparseable
// filter text degrades to an unconditional match for the layer.
func (r EditRule) toStyleRule() style.StyleRule {
	properties, ok := style.ParseFilters(r.Filter)
	if !ok {
		tracer().Errorf("rule %d: unparseable filter %q, matching all features", r.ID, r.Filter)
		properties = nil
	}

	var symbol style.Symbol
	switch r.Symbol {
	case SymbolPoint:
		symbol = style.PointSymbol{Size: r.Size, Color: r.Color}
	case SymbolLine:
		symbol = style.LineSymbol{Width: r.Size, StrokeColor: r.Color}
	case SymbolPolygon:
		symbol = style.PolygonSymbol{FillColor: r.Color}
	case SymbolLabel:
		symbol = style.LabelSymbol{
			Pattern: r.Pattern,
			TextStyle: style.TextStyle{
				FontFamily:   style.DefaultFontFamily,
				FontSize:     r.Size,
				FontColor:    r.Color,
				Weight:       style.FontWeightBold,
				OutlineWidth: r.HaloWidth,
				OutlineColor: r.HaloColor,
			},
		}
	}

	return style.StyleRule{
		LayerName:  r.LayerName,
		Properties: properties,
		Symbol:     symbol,
	}
}
