// Package translate converts a decoded stylesheet into the engine's rule
// list. The conversion is lossy on purpose: expression-valued styling
// degrades to constants and unsupported layer kinds are dropped, so that
// real-world stylesheets still produce a usable preview.
package translate

import (
	"github.com/npillmayer/schuko/tracing"

	"github.com/galileo-map/galileo-vt-styler/internal/colors"
	"github.com/galileo-map/galileo-vt-styler/internal/ess"
	"github.com/galileo-map/galileo-vt-styler/internal/style"
)

func tracer() tracing.Trace {
	return tracing.Select("vtstyler.translate")
}

// Translate builds a complete style from a stylesheet. Layer order is
// preserved: the i-th rule comes from the i-th translatable layer. A bad
// layer is skipped with a diagnostic, never a failure.
func Translate(sheet *ess.Stylesheet) style.VectorTileStyle {
	out := style.VectorTileStyle{Background: backgroundColor(sheet)}

	for _, layer := range sheet.Layers {
		rule, ok := translateLayer(layer)
		if !ok {
			continue
		}
		out.Rules = append(out.Rules, rule)
	}

	tracer().Infof("translated %d of %d layers", len(out.Rules), len(sheet.Layers))
	return out
}

// backgroundColor takes the first background layer with a resolvable
// background-color; without one the default stands.
func backgroundColor(sheet *ess.Stylesheet) colors.Color {
	for _, layer := range sheet.Layers {
		if layer.Type != ess.LayerBackground {
			continue
		}
		if c, ok := ess.ExtractColor(layer.Paint, "background-color"); ok {
			return c
		}
	}
	return style.DefaultBackground
}

func translateLayer(layer ess.Layer) (style.StyleRule, bool) {
	if layer.SourceLayer == "" {
		return style.StyleRule{}, false
	}

	var symbol style.Symbol
	switch layer.Type {
	case ess.LayerFill, ess.LayerFillExtrusion:
		symbol = polygonSymbol(layer)
	case ess.LayerLine:
		symbol = lineSymbol(layer)
	case ess.LayerCircle, ess.LayerSymbol:
		symbol = labelSymbol(layer)
	default:
		// raster, heatmap, hillshade and background carry nothing the
		// rule model can draw.
		return style.StyleRule{}, false
	}
	if symbol == nil {
		return style.StyleRule{}, false
	}

	properties, ok := ess.ParseFilter(layer.Filter)
	if !ok {
		// The layer still draws, it just matches unconditionally.
		tracer().Errorf("layer %q: unparseable filter, matching all features", layer.ID)
		properties = nil
	}

	return style.StyleRule{
		LayerName:  layer.SourceLayer,
		Properties: properties,
		Symbol:     symbol,
	}, true
}

func polygonSymbol(layer ess.Layer) style.Symbol {
	fill, ok := ess.ExtractColor(layer.Paint, "fill-color")
	if !ok {
		tracer().Errorf("layer %q: no fill-color, skipping", layer.ID)
		return nil
	}
	opacity := 1.0
	if o, ok := ess.ExtractNumber(layer.Paint, "fill-opacity"); ok {
		opacity = o
	}
	return style.PolygonSymbol{FillColor: applyOpacity(fill, opacity, layer.ID)}
}

func lineSymbol(layer ess.Layer) style.Symbol {
	stroke := colors.Black
	if c, ok := ess.ExtractColor(layer.Paint, "line-color"); ok {
		stroke = c
	}
	width := 1.0
	if w, ok := ess.ExtractNumber(layer.Paint, "line-width"); ok {
		width = w
	}
	opacity := 1.0
	if o, ok := ess.ExtractNumber(layer.Paint, "line-opacity"); ok {
		opacity = o
	}
	return style.LineSymbol{Width: width, StrokeColor: applyOpacity(stroke, opacity, layer.ID)}
}

// applyOpacity overwrites the color's alpha channel with the opacity
// value. A translucent input color loses its own alpha here; that matches
// how the stylesheet's opacity properties are defined, so it is kept and
// only flagged.
func applyOpacity(c colors.Color, opacity float64, layerID string) colors.Color {
	if c.A != 255 {
		tracer().Infof("layer %q: opacity replaces the color's own alpha %d", layerID, c.A)
	}
	return c.WithOpacity(opacity)
}

func labelSymbol(layer ess.Layer) style.Symbol {
	pattern, okPattern := ess.ExtractString(layer.Layout, "text-field")
	size, okSize := ess.ExtractNumber(layer.Layout, "text-size")
	color, okColor := ess.ExtractColor(layer.Paint, "text-color")
	haloWidth, okHaloWidth := ess.ExtractNumber(layer.Paint, "text-halo-width")
	haloColor, okHaloColor := ess.ExtractColor(layer.Paint, "text-halo-color")
	if !okPattern || !okSize || !okColor || !okHaloWidth || !okHaloColor {
		tracer().Errorf("layer %q: incomplete text styling, skipping", layer.ID)
		return nil
	}

	return style.LabelSymbol{
		Pattern: pattern,
		TextStyle: style.TextStyle{
			FontFamily: style.DefaultFontFamily,
			FontSize:   size,
			FontColor:  color,
			Weight:     style.FontWeightBold,
			// Halo widths are measured as radius by the stylesheet and
			// as diameter by the rasterizer.
			OutlineWidth: haloWidth * 2,
			OutlineColor: haloColor,
		},
	}
}
