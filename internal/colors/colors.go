package colors

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/npillmayer/schuko/tracing"
)

// tracer returns the diagnostics sink for the color codec.
func tracer() tracing.Trace {
	return tracing.Select("vtstyler.colors")
}

// Color is a 4-tuple of 8-bit sRGB channels with premultiplied-alpha
// semantics at storage. CSS literals are straight-alpha at the parse
// boundary; the channels are stored as given and only the alpha channel is
// rewritten by opacity application.
type Color struct {
	R uint8
	G uint8
	B uint8
	A uint8
}

// Black is the default stroke color.
var Black = Color{0, 0, 0, 255}

// Transparent is fully transparent black.
var Transparent = Color{0, 0, 0, 0}

// White is opaque white.
var White = Color{255, 255, 255, 255}

// RGBA builds a color from its four channels.
func RGBA(r, g, b, a uint8) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// Parse converts a CSS color literal to a Color. Accepted forms are #RGB,
// #RRGGBB, rgb(r,g,b), rgba(r,g,b,a), hsl(h,s%,l%) and hsla(h,s%,l%,a).
// Whitespace around commas is ignored. The second return value is false
// when any token is unparseable.
func Parse(s string) (Color, bool) {
	s = strings.TrimSpace(s)

	switch {
	case strings.HasPrefix(s, "#"):
		return parseHex(strings.TrimSpace(s[1:]))
	case strings.HasPrefix(s, "hsla("):
		return parseHSLA(s)
	case strings.HasPrefix(s, "hsl("):
		return parseHSL(s)
	case strings.HasPrefix(s, "rgba("):
		return parseRGBA(s)
	case strings.HasPrefix(s, "rgb("):
		return parseRGB(s)
	}

	tracer().Debugf("unrecognized color literal %q", s)
	return Color{}, false
}

// String renders the canonical form of the color: #rrggbb when the color is
// opaque, rgba(r,g,b,a) with a decimal alpha otherwise. Parsing the result
// yields the identical tuple.
func (c Color) String() string {
	if c.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("rgba(%d,%d,%d,%s)", c.R, c.G, c.B, formatAlpha(c.A))
}

// WithOpacity replaces the alpha channel with round(o*255). It does not
// multiply into the existing alpha; this matches the stylesheet semantics
// the translator targets.
func (c Color) WithOpacity(o float64) Color {
	c.A = clampChannel(o * 255.0)
	return c
}

// Linear converts the color to linear RGBA in 0..1. The transfer function
// is the standard sRGB piecewise curve; alpha is scaled linearly.
func (c Color) Linear() [4]float64 {
	return [4]float64{
		srgbToLinear(float64(c.R) / 255.0),
		srgbToLinear(float64(c.G) / 255.0),
		srgbToLinear(float64(c.B) / 255.0),
		float64(c.A) / 255.0,
	}
}

// FromLinear converts linear RGBA in 0..1 back to an 8-bit sRGB color.
func FromLinear(v [4]float64) Color {
	return Color{
		R: clampChannel(linearToSRGB(v[0]) * 255.0),
		G: clampChannel(linearToSRGB(v[1]) * 255.0),
		B: clampChannel(linearToSRGB(v[2]) * 255.0),
		A: clampChannel(v[3] * 255.0),
	}
}

func srgbToLinear(c float64) float64 {
	if c <= 0.04045 {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}

func linearToSRGB(c float64) float64 {
	if c <= 0.0031308 {
		return c * 12.92
	}
	return 1.055*math.Pow(c, 1.0/2.4) - 0.055
}

func parseHex(hex string) (Color, bool) {
	switch len(hex) {
	case 3:
		r, okR := hexChannel(hex[0:1] + hex[0:1])
		g, okG := hexChannel(hex[1:2] + hex[1:2])
		b, okB := hexChannel(hex[2:3] + hex[2:3])
		if !okR || !okG || !okB {
			return Color{}, false
		}
		return Color{r, g, b, 255}, true
	case 6:
		r, okR := hexChannel(hex[0:2])
		g, okG := hexChannel(hex[2:4])
		b, okB := hexChannel(hex[4:6])
		if !okR || !okG || !okB {
			return Color{}, false
		}
		return Color{r, g, b, 255}, true
	default:
		return Color{}, false
	}
}

func hexChannel(s string) (uint8, bool) {
	v, err := strconv.ParseUint(s, 16, 8)
	if err != nil {
		return 0, false
	}
	return uint8(v), true
}

func parseRGB(s string) (Color, bool) {
	parts, ok := innerParts(s, "rgb(", 3)
	if !ok {
		return Color{}, false
	}
	r, okR := intChannel(parts[0])
	g, okG := intChannel(parts[1])
	b, okB := intChannel(parts[2])
	if !okR || !okG || !okB {
		return Color{}, false
	}
	return Color{r, g, b, 255}, true
}

func parseRGBA(s string) (Color, bool) {
	parts, ok := innerParts(s, "rgba(", 4)
	if !ok {
		return Color{}, false
	}
	r, okR := intChannel(parts[0])
	g, okG := intChannel(parts[1])
	b, okB := intChannel(parts[2])
	a, err := strconv.ParseFloat(parts[3], 64)
	if !okR || !okG || !okB || err != nil {
		return Color{}, false
	}
	return Color{r, g, b, clampChannel(a * 255.0)}, true
}

func parseHSL(s string) (Color, bool) {
	parts, ok := innerParts(s, "hsl(", 3)
	if !ok {
		return Color{}, false
	}
	h, sat, l, okHSL := hslComponents(parts)
	if !okHSL {
		return Color{}, false
	}
	return hslToRGB(h, sat, l, 255), true
}

func parseHSLA(s string) (Color, bool) {
	parts, ok := innerParts(s, "hsla(", 4)
	if !ok {
		return Color{}, false
	}
	h, sat, l, okHSL := hslComponents(parts[:3])
	a, err := strconv.ParseFloat(parts[3], 64)
	if !okHSL || err != nil {
		return Color{}, false
	}
	return hslToRGB(h, sat, l, clampChannel(a*255.0)), true
}

// hslComponents parses hue as a plain degree value (not clamped) and
// requires the saturation and lightness tokens to end in '%'.
func hslComponents(parts []string) (h, s, l float64, ok bool) {
	h, errH := strconv.ParseFloat(parts[0], 64)
	sPct, okS := strings.CutSuffix(parts[1], "%")
	lPct, okL := strings.CutSuffix(parts[2], "%")
	if errH != nil || !okS || !okL {
		return 0, 0, 0, false
	}
	s, errS := strconv.ParseFloat(sPct, 64)
	l, errL := strconv.ParseFloat(lPct, 64)
	if errS != nil || errL != nil {
		return 0, 0, 0, false
	}
	return h, s / 100.0, l / 100.0, true
}

// hslToRGB is the canonical piecewise-linear HSL conversion. Hue is
// normalized by dividing by 360; out-of-range values are only corrected
// modulo 1 after scaling.
func hslToRGB(h, s, l float64, a uint8) Color {
	h = h / 360.0

	var r, g, b float64
	if s == 0 {
		r, g, b = l, l, l
	} else {
		var q float64
		if l < 0.5 {
			q = l * (1.0 + s)
		} else {
			q = l + s - l*s
		}
		p := 2.0*l - q

		r = hueToChannel(p, q, h+1.0/3.0)
		g = hueToChannel(p, q, h)
		b = hueToChannel(p, q, h-1.0/3.0)
	}

	return Color{
		R: clampChannel(r * 255.0),
		G: clampChannel(g * 255.0),
		B: clampChannel(b * 255.0),
		A: a,
	}
}

func hueToChannel(p, q, t float64) float64 {
	if t < 0 {
		t += 1.0
	}
	if t > 1 {
		t -= 1.0
	}
	switch {
	case t < 1.0/6.0:
		return p + (q-p)*6.0*t
	case t < 1.0/2.0:
		return q
	case t < 2.0/3.0:
		return p + (q-p)*(2.0/3.0-t)*6.0
	default:
		return p
	}
}

// innerParts strips prefix and the closing parenthesis and splits the rest
// on commas, trimming whitespace around each token.
func innerParts(s, prefix string, n int) ([]string, bool) {
	inner, ok := strings.CutPrefix(s, prefix)
	if !ok {
		return nil, false
	}
	inner, ok = strings.CutSuffix(inner, ")")
	if !ok {
		return nil, false
	}
	parts := strings.Split(inner, ",")
	if len(parts) != n {
		return nil, false
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts, true
}

func intChannel(s string) (uint8, bool) {
	v, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, false
	}
	return uint8(v), true
}

func clampChannel(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// formatAlpha renders an 8-bit alpha as a decimal in 0..1 with three
// digits, which is enough precision for round(a*255) to recover the exact
// channel value.
func formatAlpha(a uint8) string {
	s := strconv.FormatFloat(float64(a)/255.0, 'f', 3, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
