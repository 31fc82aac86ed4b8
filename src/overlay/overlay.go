package overlay

import (
	"context"
	"image"

	"pixel-measure/src/measure"
	"pixel-measure/src/monitor"
)

// MonitorChooser presents the monitor list plus an "all monitors" option and
// blocks until the user chooses or dismisses. A dismissal returns a
// SelectionNone selection with a nil error. The call is blocking and MUST be
// invoked only from the single event-loop goroutine (or a session goroutine
// it owns), never from a UI callback.
type MonitorChooser interface {
	Choose(ctx context.Context, monitors []monitor.Monitor) (monitor.Selection, error)
}

// PointPicker shows img full-screen at native size and collects two clicks.
// firstPicked fires as soon as the first point lands so the caller can track
// the transition between the two click states. cancelled is true when the
// user pressed escape; the points are then undefined and err is nil.
type PointPicker interface {
	Pick(ctx context.Context, img image.Image, firstPicked func(measure.Point)) (p1, p2 measure.Point, cancelled bool, err error)
}
