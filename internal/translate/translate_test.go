package translate

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"

	"github.com/galileo-map/galileo-vt-styler/internal/colors"
	"github.com/galileo-map/galileo-vt-styler/internal/ess"
	"github.com/galileo-map/galileo-vt-styler/internal/style"
)

func TestTranslateLineLayer(t *testing.T) {
	layer := ess.Layer{
		ID:          "roads",
		Type:        ess.LayerLine,
		SourceLayer: "roads",
		Paint:       map[string]any{"line-color": "#abc", "line-width": float64(2)},
		Filter: []any{
			"all",
			[]any{"==", "class", "street"},
			[]any{"in", "brunnel", "bridge", "tunnel"},
		},
	}

	rule, ok := translateLayer(layer)
	if !ok {
		t.Fatalf("layer not translated")
	}
	if rule.LayerName != "roads" {
		t.Errorf("layer name = %q", rule.LayerName)
	}
	if len(rule.Properties) != 2 {
		t.Fatalf("expected 2 predicates, got %d", len(rule.Properties))
	}
	if rule.Properties[0].PropertyName != "class" || rule.Properties[0].Operator.Kind != style.OpEq {
		t.Errorf("first predicate = %+v", rule.Properties[0])
	}
	if rule.Properties[1].PropertyName != "brunnel" || rule.Properties[1].Operator.Kind != style.OpIn {
		t.Errorf("second predicate = %+v", rule.Properties[1])
	}

	line, ok := rule.Symbol.(style.LineSymbol)
	if !ok {
		t.Fatalf("symbol = %T, want LineSymbol", rule.Symbol)
	}
	if line.Width != 2 {
		t.Errorf("width = %v, want 2", line.Width)
	}
	if line.StrokeColor != colors.RGBA(170, 187, 204, 255) {
		t.Errorf("stroke = %v, want #aabbcc", line.StrokeColor)
	}
}

func TestTranslateLineDefaults(t *testing.T) {
	rule, ok := translateLayer(ess.Layer{
		ID:          "bare",
		Type:        ess.LayerLine,
		SourceLayer: "waterway",
	})
	if !ok {
		t.Fatalf("layer not translated")
	}
	line := rule.Symbol.(style.LineSymbol)
	if line.Width != 1 || line.StrokeColor != colors.Black {
		t.Errorf("defaults = %+v, want width 1 opaque black", line)
	}
	if len(rule.Properties) != 0 {
		t.Errorf("no filter should yield no predicates")
	}
}

func TestTranslateLineOpacity(t *testing.T) {
	rule, _ := translateLayer(ess.Layer{
		ID:          "casing",
		Type:        ess.LayerLine,
		SourceLayer: "roads",
		Paint:       map[string]any{"line-color": "#000000", "line-opacity": 0.5},
	})
	line := rule.Symbol.(style.LineSymbol)
	if line.StrokeColor.A != 128 {
		t.Errorf("alpha = %d, want round(0.5*255)", line.StrokeColor.A)
	}
}

func TestTranslateFillLayer(t *testing.T) {
	rule, ok := translateLayer(ess.Layer{
		ID:          "water",
		Type:        ess.LayerFill,
		SourceLayer: "water",
		Paint:       map[string]any{"fill-color": "rgb(158,189,255)"},
	})
	if !ok {
		t.Fatalf("layer not translated")
	}
	polygon, ok := rule.Symbol.(style.PolygonSymbol)
	if !ok {
		t.Fatalf("symbol = %T, want PolygonSymbol", rule.Symbol)
	}
	if polygon.FillColor != colors.RGBA(158, 189, 255, 255) {
		t.Errorf("fill = %v", polygon.FillColor)
	}

	// Without a resolvable fill color the layer is dropped.
	if _, ok := translateLayer(ess.Layer{
		ID:          "nofill",
		Type:        ess.LayerFill,
		SourceLayer: "water",
	}); ok {
		t.Errorf("fill layer without fill-color should be skipped")
	}
}

func TestTranslateLabelLayer(t *testing.T) {
	layer := ess.Layer{
		ID:          "place-names",
		Type:        ess.LayerSymbol,
		SourceLayer: "place",
		Layout:      map[string]any{"text-field": "{name}", "text-size": float64(12)},
		Paint: map[string]any{
			"text-color":      "#333",
			"text-halo-color": "#fff",
			"text-halo-width": 1.2,
		},
	}

	rule, ok := translateLayer(layer)
	if !ok {
		t.Fatalf("layer not translated")
	}
	label, ok := rule.Symbol.(style.LabelSymbol)
	if !ok {
		t.Fatalf("symbol = %T, want LabelSymbol", rule.Symbol)
	}
	if label.Pattern != "{name}" {
		t.Errorf("pattern = %q", label.Pattern)
	}
	if label.TextStyle.FontSize != 12 {
		t.Errorf("font size = %v", label.TextStyle.FontSize)
	}
	if label.TextStyle.OutlineWidth != 2.4 {
		t.Errorf("outline width = %v, want doubled halo", label.TextStyle.OutlineWidth)
	}
	if label.TextStyle.Weight != style.FontWeightBold {
		t.Errorf("weight = %v, want bold", label.TextStyle.Weight)
	}
	if len(label.TextStyle.FontFamily) == 0 || label.TextStyle.FontFamily[0] != "Noto Sans" {
		t.Errorf("font family = %v", label.TextStyle.FontFamily)
	}

	// A missing required text property drops the layer.
	incomplete := layer
	incomplete.Paint = map[string]any{"text-color": "#333"}
	if _, ok := translateLayer(incomplete); ok {
		t.Errorf("incomplete label layer should be skipped")
	}
}

func TestTranslateSkipsUnsupportedKinds(t *testing.T) {
	for _, kind := range []string{ess.LayerRaster, ess.LayerHeatmap, ess.LayerHillshade, ess.LayerBackground} {
		if _, ok := translateLayer(ess.Layer{ID: kind, Type: kind, SourceLayer: "x"}); ok {
			t.Errorf("%s layer should be skipped", kind)
		}
	}
	// No source-layer, nothing to match against.
	if _, ok := translateLayer(ess.Layer{ID: "odd", Type: ess.LayerLine}); ok {
		t.Errorf("layer without source-layer should be skipped")
	}
}

func TestTranslateBadFilterKeepsLayer(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "vtstyler.translate")
	defer teardown()

	rule, ok := translateLayer(ess.Layer{
		ID:          "roads",
		Type:        ess.LayerLine,
		SourceLayer: "roads",
		Filter:      []any{"any", []any{"==", "a", "b"}},
	})
	if !ok {
		t.Fatalf("layer with bad filter must still translate")
	}
	if len(rule.Properties) != 0 {
		t.Errorf("bad filter should degrade to no predicates, got %v", rule.Properties)
	}
}

func TestTranslatePreservesOrderAndBackground(t *testing.T) {
	sheet := &ess.Stylesheet{
		Version: 8,
		Layers: []ess.Layer{
			{ID: "bg", Type: ess.LayerBackground, Paint: map[string]any{"background-color": "hsl(47,79%,94%)"}},
			{ID: "water", Type: ess.LayerFill, SourceLayer: "water", Paint: map[string]any{"fill-color": "#9ebdff"}},
			{ID: "sat", Type: ess.LayerRaster, SourceLayer: "sat"},
			{ID: "roads", Type: ess.LayerLine, SourceLayer: "transportation"},
		},
	}

	translated := Translate(sheet)

	wantBg, _ := colors.Parse("hsl(47,79%,94%)")
	if translated.Background != wantBg {
		t.Errorf("background = %v, want %v", translated.Background, wantBg)
	}
	if len(translated.Rules) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(translated.Rules))
	}
	if translated.Rules[0].LayerName != "water" || translated.Rules[1].LayerName != "transportation" {
		t.Errorf("rule order = %q, %q", translated.Rules[0].LayerName, translated.Rules[1].LayerName)
	}
}

func TestTranslateDefaultBackground(t *testing.T) {
	translated := Translate(&ess.Stylesheet{Version: 8})
	if translated.Background != style.DefaultBackground {
		t.Errorf("background = %v, want default", translated.Background)
	}
}
