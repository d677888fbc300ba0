// Package ess decodes MapLibre-style v8 stylesheets and degrades their
// paint, layout and filter expressions to the constants the rule
// translator can represent.
package ess

import (
	"encoding/json"

	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return tracing.Select("vtstyler.ess")
}

// Layer kinds defined by the v8 schema.
const (
	LayerBackground    = "background"
	LayerFill          = "fill"
	LayerLine          = "line"
	LayerSymbol        = "symbol"
	LayerCircle        = "circle"
	LayerHeatmap       = "heatmap"
	LayerFillExtrusion = "fill-extrusion"
	LayerRaster        = "raster"
	LayerHillshade     = "hillshade"
)

// Stylesheet is a decoded v8 style document. Top-level fields the
// translator does not consume (glyphs, sprite, center, metadata and so on)
// are kept verbatim in Extra.
type Stylesheet struct {
	Version int64             `json:"version"`
	ID      string            `json:"id"`
	Name    string            `json:"name"`
	Sources map[string]Source `json:"sources"`
	Layers  []Layer           `json:"layers"`
	Extra   map[string]json.RawMessage
}

// Source describes a tile or data source referenced by layers.
type Source struct {
	Type    string   `json:"type"`
	URL     string   `json:"url,omitempty"`
	Tiles   []string `json:"tiles,omitempty"`
	MinZoom float64  `json:"minzoom,omitempty"`
	MaxZoom float64  `json:"maxzoom,omitempty"`
}

// Layer is one styling layer. Paint, Layout and Filter are opaque decoded
// JSON handed to the extractors and the filter parser.
type Layer struct {
	ID          string         `json:"id"`
	Type        string         `json:"type"`
	Source      string         `json:"source,omitempty"`
	SourceLayer string         `json:"source-layer,omitempty"`
	MinZoom     float64        `json:"minzoom,omitempty"`
	MaxZoom     float64        `json:"maxzoom,omitempty"`
	Layout      map[string]any `json:"layout,omitempty"`
	Paint       map[string]any `json:"paint,omitempty"`
	Filter      any            `json:"filter,omitempty"`
}

// knownTopLevel lists the Stylesheet fields decoded structurally; anything
// else lands in Extra.
var knownTopLevel = map[string]bool{
	"version": true,
	"id":      true,
	"name":    true,
	"sources": true,
	"layers":  true,
}

// UnmarshalJSON decodes the known fields and preserves the rest in Extra.
func (s *Stylesheet) UnmarshalJSON(data []byte) error {
	type plain Stylesheet
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for field := range raw {
		if knownTopLevel[field] {
			delete(raw, field)
		}
	}
	if len(raw) > 0 {
		p.Extra = raw
	}

	*s = Stylesheet(p)
	return nil
}

// MarshalJSON re-emits the known fields together with the preserved ones.
func (s Stylesheet) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(s.Extra)+5)
	for field, raw := range s.Extra {
		out[field] = raw
	}
	out["version"] = s.Version
	out["id"] = s.ID
	out["name"] = s.Name
	out["sources"] = s.Sources
	out["layers"] = s.Layers
	return json.Marshal(out)
}
