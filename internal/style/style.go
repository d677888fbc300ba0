// Package style defines the engine's internal style representation: an
// ordered list of rules mapping vector-tile features to drawing symbols,
// plus the map background color.
package style

import (
	"github.com/galileo-map/galileo-vt-styler/internal/colors"
)

// StyleRule matches features conjunctively: the feature's source-layer must
// equal LayerName (an empty LayerName matches any layer) and every
// predicate in Properties must hold. Symbol is what a matched feature is
// drawn as; a nil Symbol draws nothing.
type StyleRule struct {
	LayerName  string
	Properties []PropertyFilter
	Symbol     Symbol
}

// Matches reports whether a feature from the given source-layer with the
// given textual properties satisfies the rule.
func (r StyleRule) Matches(layer string, properties map[string]string) bool {
	if r.LayerName != "" && r.LayerName != layer {
		return false
	}
	for _, p := range r.Properties {
		value, present := properties[p.PropertyName]
		if !p.Operator.Matches(value, present) {
			return false
		}
	}
	return true
}

// VectorTileStyle is the complete style: background color plus rules in
// draw order. Rule order is significant and preserved by the translator.
type VectorTileStyle struct {
	Background colors.Color
	Rules      []StyleRule
}

// DefaultBackground is used when a stylesheet carries no background layer.
var DefaultBackground = colors.RGBA(240, 240, 240, 255)

// Default returns an empty style with the default background.
func Default() VectorTileStyle {
	return VectorTileStyle{Background: DefaultBackground}
}
