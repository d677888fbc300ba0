package style

import (
	"github.com/galileo-map/galileo-vt-styler/internal/colors"
)

// Symbol is the visual form a matched feature takes. A nil Symbol means the
// feature is not drawn.
type Symbol interface {
	symbol()
}

// PointSymbol draws a feature as a dot.
type PointSymbol struct {
	Size  float64
	Color colors.Color
}

// LineSymbol draws a feature as a stroked path.
type LineSymbol struct {
	Width       float64
	StrokeColor colors.Color
}

// PolygonSymbol draws a feature as a filled area.
type PolygonSymbol struct {
	FillColor colors.Color
}

// LabelSymbol draws a feature as text. Pattern is the label template with
// feature-property placeholders, e.g. "{name}".
type LabelSymbol struct {
	Pattern   string
	TextStyle TextStyle
}

func (PointSymbol) symbol()   {}
func (LineSymbol) symbol()    {}
func (PolygonSymbol) symbol() {}
func (LabelSymbol) symbol()   {}

// FontWeight is a CSS-style numeric font weight.
type FontWeight uint16

const (
	FontWeightNormal FontWeight = 400
	FontWeightBold   FontWeight = 700
)

// TextAlignment positions a label relative to its anchor point.
type TextAlignment int

const (
	AlignCenter TextAlignment = iota
	AlignStart
	AlignEnd
)

// FontStyle selects between upright and slanted glyphs.
type FontStyle int

const (
	FontStyleNormal FontStyle = iota
	FontStyleItalic
)

// TextStyle carries everything the rasterizer needs to shape a label.
type TextStyle struct {
	FontFamily          []string
	FontSize            float64
	FontColor           colors.Color
	HorizontalAlignment TextAlignment
	VerticalAlignment   TextAlignment
	Weight              FontWeight
	Style               FontStyle
	OutlineWidth        float64
	OutlineColor        colors.Color
}

// DefaultFontFamily is the fixed fallback chain used for translated labels.
// It covers Latin plus the major CJK, Arabic and Hebrew scripts.
var DefaultFontFamily = []string{
	"Noto Sans",
	"Noto Sans Arabic",
	"Noto Sans Hebrew",
	"Noto Sans SC",
	"Noto Sans KR",
	"Noto Sans JP",
}
