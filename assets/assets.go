// Package assets bundles the demo stylesheet shipped with the tool.
package assets

import (
	_ "embed"
)

//go:embed demo-style.json
var DemoStylesheet []byte
