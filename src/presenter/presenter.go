// Package presenter derives the displayed measurement values from the
// current points and settings. Nothing here is stored incrementally; every
// read recomputes from the inputs.
package presenter

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"pixel-measure/src/measure"
	"pixel-measure/src/units"
)

// Placeholder shown before the first completed measurement.
const Placeholder = "--"

// Row is one line of the unit list.
type Row struct {
	Label       string
	Symbol      units.Unit
	Value       string
	Description string
}

// Presenter holds the session-scoped display state: the last measurement,
// the conversion settings, and the viewport the points were picked on.
type Presenter struct {
	settings    units.Settings
	viewportW   int
	viewportH   int
	measurement *measure.Measurement
}

func New(settings units.Settings) *Presenter {
	if !settings.Valid() {
		settings = units.DefaultSettings()
	}
	return &Presenter{settings: settings}
}

// SetMeasurement records a completed measurement and the viewport it was
// made on.
func (p *Presenter) SetMeasurement(p1, p2 measure.Point, viewportW, viewportH int) {
	p.measurement = &measure.Measurement{Point1: p1, Point2: p2}
	p.viewportW = viewportW
	p.viewportH = viewportH
}

// Reset clears the measurement; the unit list falls back to placeholders.
func (p *Presenter) Reset() {
	p.measurement = nil
}

// HasMeasurement reports whether two points are set.
func (p *Presenter) HasMeasurement() bool { return p.measurement != nil }

// Settings returns the active conversion settings.
func (p *Presenter) Settings() units.Settings { return p.settings }

// ApplySettings parses the user-entered DPI and base font size. Non-numeric
// or non-positive input silently falls back to the documented defaults; the
// measurement is never aborted over bad settings.
func (p *Presenter) ApplySettings(dpiText, fontText string) {
	p.settings = units.Settings{
		DPI:            parsePositive(dpiText, units.DefaultDPI),
		BaseFontSizePx: parsePositive(fontText, units.DefaultBaseFontSizePx),
	}
}

func parsePositive(text string, fallback float64) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || f <= 0 {
		return fallback
	}
	return f
}

// Points returns the display strings for the two point readouts.
func (p *Presenter) Points() (string, string) {
	if p.measurement == nil {
		return "Point 1: Not set", "Point 2: Not set"
	}
	m := p.measurement
	return fmt.Sprintf("Point 1: (%d, %d)", m.Point1.X, m.Point1.Y),
		fmt.Sprintf("Point 2: (%d, %d)", m.Point2.X, m.Point2.Y)
}

// DeltaLine returns the per-axis summary under the unit list, empty before
// the first measurement.
func (p *Presenter) DeltaLine() string {
	if p.measurement == nil {
		return ""
	}
	dx, dy := p.measurement.Delta()
	return fmt.Sprintf("Δx: %dpx | Δy: %dpx | Diagonal: %.2fpx", dx, dy, p.measurement.Distance())
}

// Rows derives the full unit list. Before a measurement every value is the
// placeholder. Conversion runs against the recorded viewport; an invalid
// viewport (never expected past a completed session) also yields
// placeholders rather than an error.
func (p *Presenter) Rows() []Row {
	values := p.convert()

	rows := make([]Row, 0, len(units.All()))
	for _, info := range units.All() {
		value := Placeholder
		if values != nil {
			value = units.Format(info.Symbol, values[info.Symbol])
		}
		rows = append(rows, Row{
			Label:       info.Label,
			Symbol:      info.Symbol,
			Value:       value,
			Description: info.Description,
		})
	}
	return rows
}

func (p *Presenter) convert() map[units.Unit]float64 {
	if p.measurement == nil {
		return nil
	}
	values, err := units.Convert(p.measurement.Distance(), p.settings, float64(p.viewportW), float64(p.viewportH))
	if err != nil {
		log.Printf("presenter: conversion rejected: %v", err)
		return nil
	}
	return values
}

// Text renders the measurement as a plain-text block for the clipboard.
func (p *Presenter) Text() string {
	if p.measurement == nil {
		return ""
	}

	var b strings.Builder
	p1, p2 := p.Points()
	fmt.Fprintf(&b, "%s\n%s\n%s\n\n", p1, p2, p.DeltaLine())
	for _, row := range p.Rows() {
		fmt.Fprintf(&b, "%-22s %s\n", row.Label, row.Value)
	}
	return b.String()
}
