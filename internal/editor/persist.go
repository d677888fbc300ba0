package editor

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/galileo-map/galileo-vt-styler/internal/colors"
)

// docRecord is the persisted form of a StyleDoc. The debounce clock and
// the changed flag are transient and deliberately absent.
type docRecord struct {
	Background [4]uint8     `yaml:"background,flow"`
	LastRuleID uint64       `yaml:"last_rule_id"`
	Rules      []ruleRecord `yaml:"rules"`
}

type ruleRecord struct {
	ID        uint64   `yaml:"id"`
	LayerName string   `yaml:"layer_name"`
	Filter    string   `yaml:"filter"`
	Color     [4]uint8 `yaml:"color,flow"`
	Size      float64  `yaml:"size"`
	Symbol    string   `yaml:"symbol_type"`
	HaloColor [4]uint8 `yaml:"halo_color,flow"`
	HaloWidth float64  `yaml:"halo_width"`
	Pattern   string   `yaml:"pattern,omitempty"`
}

func colorBytes(c colors.Color) [4]uint8 {
	return [4]uint8{c.R, c.G, c.B, c.A}
}

func colorFromBytes(b [4]uint8) colors.Color {
	return colors.RGBA(b[0], b[1], b[2], b[3])
}

// Encode serializes the document.
func Encode(doc *StyleDoc) ([]byte, error) {
	doc.mu.RLock()
	record := docRecord{
		Background: colorBytes(doc.background),
		LastRuleID: doc.lastRuleID,
	}
	for _, rule := range doc.rules {
		record.Rules = append(record.Rules, ruleRecord{
			ID:        rule.ID,
			LayerName: rule.LayerName,
			Filter:    rule.Filter,
			Color:     colorBytes(rule.Color),
			Size:      rule.Size,
			Symbol:    rule.Symbol.String(),
			HaloColor: colorBytes(rule.HaloColor),
			HaloWidth: rule.HaloWidth,
			Pattern:   rule.Pattern,
		})
	}
	doc.mu.RUnlock()

	data, err := yaml.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("encoding style document: %w", err)
	}
	return data, nil
}

// Decode builds a document from its serialized form. Rule ids are kept;
// the id counter resumes past the highest id ever issued. The loaded
// document starts with a change pending so observers pick it up.
func Decode(data []byte) (*StyleDoc, error) {
	var record docRecord
	if err := yaml.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("decoding style document: %w", err)
	}

	doc := NewStyleDoc()
	doc.background = colorFromBytes(record.Background)
	doc.lastRuleID = record.LastRuleID
	for _, r := range record.Rules {
		doc.rules = append(doc.rules, EditRule{
			ID:        r.ID,
			LayerName: r.LayerName,
			Filter:    r.Filter,
			Color:     colorFromBytes(r.Color),
			Size:      r.Size,
			HaloColor: colorFromBytes(r.HaloColor),
			HaloWidth: r.HaloWidth,
			Pattern:   r.Pattern,
			Symbol:    SymbolTypeFromName(r.Symbol),
		})
		if r.ID > doc.lastRuleID {
			doc.lastRuleID = r.ID
		}
	}

	doc.snapshot = doc.compile()
	doc.markChanged()
	return doc, nil
}

// Save writes the document to a file.
func Save(doc *StyleDoc, path string) error {
	data, err := Encode(doc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing style document %s: %w", path, err)
	}
	return nil
}

// Load reads a document from a file.
func Load(path string) (*StyleDoc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading style document %s: %w", path, err)
	}
	return Decode(data)
}
