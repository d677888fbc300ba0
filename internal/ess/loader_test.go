package ess

import (
	"os"
	"path/filepath"
	"testing"
)

const testStylesheet = `{
	"version": 8,
	"id": "basic",
	"name": "Basic",
	"glyphs": "https://example.com/fonts/{fontstack}/{range}.pbf",
	"sources": {
		"openmaptiles": {"type": "vector", "url": "https://example.com/tiles.json"}
	},
	"layers": [
		{"id": "bg", "type": "background", "paint": {"background-color": "hsl(47,79%,94%)"}},
		{
			"id": "roads",
			"type": "line",
			"source": "openmaptiles",
			"source-layer": "transportation",
			"filter": ["==", "class", "street"],
			"paint": {"line-color": "#abc", "line-width": 2}
		}
	]
}`

func TestParseStylesheet(t *testing.T) {
	sheet, err := Parse([]byte(testStylesheet))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if sheet.Version != 8 || sheet.Name != "Basic" {
		t.Errorf("header = version %d name %q", sheet.Version, sheet.Name)
	}
	if len(sheet.Layers) != 2 {
		t.Fatalf("expected 2 layers, got %d", len(sheet.Layers))
	}
	if sheet.Layers[1].SourceLayer != "transportation" {
		t.Errorf("source-layer = %q", sheet.Layers[1].SourceLayer)
	}
	if sheet.Layers[1].Filter == nil {
		t.Errorf("filter not decoded")
	}
	if src, ok := sheet.Sources["openmaptiles"]; !ok || src.Type != "vector" {
		t.Errorf("sources = %+v", sheet.Sources)
	}
}

func TestParsePreservesUnknownFields(t *testing.T) {
	sheet, err := Parse([]byte(testStylesheet))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if _, ok := sheet.Extra["glyphs"]; !ok {
		t.Fatalf("glyphs not preserved, extra = %v", sheet.Extra)
	}

	out, err := sheet.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON failed: %v", err)
	}
	reparsed, err := Parse(out)
	if err != nil {
		t.Fatalf("re-Parse failed: %v", err)
	}
	if _, ok := reparsed.Extra["glyphs"]; !ok {
		t.Errorf("glyphs lost on round-trip")
	}
}

func TestParseRejectsWrongVersion(t *testing.T) {
	if _, err := Parse([]byte(`{"version": 7, "layers": []}`)); err == nil {
		t.Errorf("version 7 should be rejected")
	}
	if _, err := Parse([]byte(`not json`)); err == nil {
		t.Errorf("malformed JSON should be rejected")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "style.json")
	if err := os.WriteFile(path, []byte(testStylesheet), 0644); err != nil {
		t.Fatalf("writing test file: %v", err)
	}

	sheet, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(sheet.Layers) != 2 {
		t.Errorf("expected 2 layers, got %d", len(sheet.Layers))
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Errorf("missing file should fail")
	}
}
