// Package monitor detects the attached displays and resolves a user's
// monitor selection to the geometry used for cropping and surface sizing.
package monitor

import (
	"context"
	"fmt"
	"image"
	"log"
	"sort"
)

// Monitor is one detected display. Immutable once detected.
type Monitor struct {
	Name   string
	Width  int
	Height int
	X      int
	Y      int
}

// Rect returns the monitor's bounding rectangle in virtual-screen coordinates.
func (m Monitor) Rect() image.Rectangle {
	return image.Rect(m.X, m.Y, m.X+m.Width, m.Y+m.Height)
}

func (m Monitor) String() string {
	return fmt.Sprintf("%s: %dx%d at (%d,%d)", m.Name, m.Width, m.Height, m.X, m.Y)
}

// Source is one display-geometry provider. Sources differ in reliability and
// format but normalize to the same Monitor shape.
type Source interface {
	Name() string
	Detect(ctx context.Context) ([]Monitor, error)
}

// fallback covers the case where every source fails. Detection degrades to
// this instead of returning an error.
var fallback = Monitor{Name: "Default", Width: 1920, Height: 1080}

// DefaultSources returns the detection providers in priority order.
func DefaultSources() []Source {
	return []Source{
		xrandrSource{},
		wlrRandrSource{},
		nativeSource{},
	}
}

// Detect queries the sources in order and returns the monitors of the first
// one that yields at least one record, sorted left-to-right, top-to-bottom.
// Total failure returns the synthetic fallback monitor; Detect never errors.
func Detect(ctx context.Context, sources ...Source) []Monitor {
	if len(sources) == 0 {
		sources = DefaultSources()
	}

	for _, src := range sources {
		monitors, err := src.Detect(ctx)
		if err != nil {
			log.Printf("monitor: source %s failed: %v", src.Name(), err)
			continue
		}
		if len(monitors) == 0 {
			continue
		}
		Sort(monitors)
		log.Printf("monitor: %d monitor(s) via %s", len(monitors), src.Name())
		return monitors
	}

	log.Printf("monitor: all sources failed, using %v", fallback)
	return []Monitor{fallback}
}

// Sort orders monitors by (X, Y) ascending.
func Sort(monitors []Monitor) {
	sort.Slice(monitors, func(i, j int) bool {
		if monitors[i].X != monitors[j].X {
			return monitors[i].X < monitors[j].X
		}
		return monitors[i].Y < monitors[j].Y
	})
}

// VirtualBounds returns the union bounding box of all monitors.
func VirtualBounds(monitors []Monitor) image.Rectangle {
	var union image.Rectangle
	for i, m := range monitors {
		if i == 0 {
			union = m.Rect()
			continue
		}
		union = union.Union(m.Rect())
	}
	return union
}

// SelectionKind discriminates a monitor selection.
type SelectionKind int

const (
	// SelectionNone means the user dismissed the choice.
	SelectionNone SelectionKind = iota
	// SelectionIndex picks one monitor by position in the detected list.
	SelectionIndex
	// SelectionAll means the full virtual desktop, no cropping.
	SelectionAll
)

// Selection is the transient outcome of a monitor choice.
type Selection struct {
	Kind  SelectionKind
	Index int
}

func SelectIndex(i int) Selection { return Selection{Kind: SelectionIndex, Index: i} }
func SelectAll() Selection        { return Selection{Kind: SelectionAll} }
func SelectNone() Selection       { return Selection{Kind: SelectionNone} }

// Resolve maps a selection to the geometry rectangle used for crop and
// surface sizing. ok is false for SelectionNone or an out-of-range index;
// callers must not feed such a selection to conversion logic.
func Resolve(sel Selection, monitors []Monitor) (image.Rectangle, bool) {
	switch sel.Kind {
	case SelectionIndex:
		if sel.Index < 0 || sel.Index >= len(monitors) {
			return image.Rectangle{}, false
		}
		return monitors[sel.Index].Rect(), true
	case SelectionAll:
		if len(monitors) == 0 {
			return image.Rectangle{}, false
		}
		return VirtualBounds(monitors), true
	default:
		return image.Rectangle{}, false
	}
}
