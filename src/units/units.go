// Package units converts a pixel distance into the CSS length units. All
// conversions are pure arithmetic over the caller-supplied reference values;
// there is no state and no I/O.
package units

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidSettings is returned when a reference value (DPI, base font size,
// viewport dimension) is zero or negative. The converter refuses to produce
// infinities or NaN; callers substitute defaults before retrying.
var ErrInvalidSettings = errors.New("invalid conversion settings")

// Settings are the user-editable reference values for conversion.
type Settings struct {
	DPI            float64
	BaseFontSizePx float64
}

const (
	DefaultDPI            = 96
	DefaultBaseFontSizePx = 16
)

// DefaultSettings returns the documented defaults (96 DPI, 16px base font).
func DefaultSettings() Settings {
	return Settings{DPI: DefaultDPI, BaseFontSizePx: DefaultBaseFontSizePx}
}

// Valid reports whether the settings can be fed to Convert.
func (s Settings) Valid() bool {
	return s.DPI > 0 && s.BaseFontSizePx > 0
}

// Unit is a CSS length unit symbol.
type Unit string

const (
	Px   Unit = "px"
	Pt   Unit = "pt"
	Pc   Unit = "pc"
	In   Unit = "in"
	Cm   Unit = "cm"
	Mm   Unit = "mm"
	Q    Unit = "Q"
	Em   Unit = "em"
	Rem  Unit = "rem"
	Ch   Unit = "ch"
	Ex   Unit = "ex"
	Vw   Unit = "vw"
	Vh   Unit = "vh"
	Pct  Unit = "%"
	Vmin Unit = "vmin"
	Vmax Unit = "vmax"
)

// Info describes one unit for display purposes.
type Info struct {
	Label       string
	Symbol      Unit
	Description string
}

// catalog is the display order of the output list.
var catalog = []Info{
	{"Pixels (px)", Px, "Absolute pixel measurement"},
	{"Points (pt)", Pt, "1pt = 1/72 inch"},
	{"Em (em)", Em, "Relative to font-size (default 16px)"},
	{"Rem (rem)", Rem, "Relative to root font-size"},
	{"Percentage (%)", Pct, "Relative to parent (% of screen width)"},
	{"Viewport Width (vw)", Vw, "1vw = 1% of viewport width"},
	{"Viewport Height (vh)", Vh, "1vh = 1% of viewport height"},
	{"Viewport Min (vmin)", Vmin, "1vmin = 1% of smaller dimension"},
	{"Viewport Max (vmax)", Vmax, "1vmax = 1% of larger dimension"},
	{"Centimeters (cm)", Cm, "Physical unit"},
	{"Millimeters (mm)", Mm, "Physical unit"},
	{"Inches (in)", In, "Physical unit"},
	{"Picas (pc)", Pc, "1pc = 12pt"},
	{"Quarter-mm (Q)", Q, "1Q = 1/4 millimeter"},
	{"Character (ch)", Ch, "Width of '0' (~0.5em)"},
	{"Ex height (ex)", Ex, "Height of 'x' (~0.5em)"},
}

// All returns the unit catalog in display order.
func All() []Info {
	out := make([]Info, len(catalog))
	copy(out, catalog)
	return out
}

// Convert maps a pixel distance to every unit in the catalog.
// viewportWidth/viewportHeight are the dimensions of the measured surface in
// pixels. Returns ErrInvalidSettings when any reference value is non-positive;
// a zero distance with valid references yields all zeros.
func Convert(distancePx float64, s Settings, viewportWidth, viewportHeight float64) (map[Unit]float64, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: dpi=%v baseFontSizePx=%v", ErrInvalidSettings, s.DPI, s.BaseFontSizePx)
	}
	if viewportWidth <= 0 || viewportHeight <= 0 {
		return nil, fmt.Errorf("%w: viewport=%vx%v", ErrInvalidSettings, viewportWidth, viewportHeight)
	}
	if distancePx < 0 || math.IsNaN(distancePx) || math.IsInf(distancePx, 0) {
		return nil, fmt.Errorf("%w: distance=%v", ErrInvalidSettings, distancePx)
	}

	inches := distancePx / s.DPI
	halfFont := s.BaseFontSizePx * 0.5
	vmin := math.Min(viewportWidth, viewportHeight)
	vmax := math.Max(viewportWidth, viewportHeight)

	return map[Unit]float64{
		Px:   distancePx,
		Pt:   distancePx * 0.75,
		Pc:   distancePx * 0.75 / 12,
		In:   inches,
		Cm:   inches * 2.54,
		Mm:   inches * 25.4,
		Q:    inches * 25.4 * 4,
		Em:   distancePx / s.BaseFontSizePx,
		Rem:  distancePx / s.BaseFontSizePx,
		Ch:   distancePx / halfFont,
		Ex:   distancePx / halfFont,
		Vw:   distancePx / viewportWidth * 100,
		Vh:   distancePx / viewportHeight * 100,
		Pct:  distancePx / viewportWidth * 100,
		Vmin: distancePx / vmin * 100,
		Vmax: distancePx / vmax * 100,
	}, nil
}

// Format renders a converted value with the unit's customary precision:
// px and pt with two decimals, everything else with four.
func Format(u Unit, value float64) string {
	switch u {
	case Px, Pt:
		return fmt.Sprintf("%.2f %s", value, u)
	default:
		return fmt.Sprintf("%.4f %s", value, u)
	}
}
