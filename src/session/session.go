// Package session drives one measurement from monitor choice through capture
// to the second click. Execute is synchronous; the surrounding event loop
// runs it off the UI thread and posts the result back.
package session

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"time"

	"pixel-measure/src/capture"
	"pixel-measure/src/measure"
	"pixel-measure/src/monitor"
	"pixel-measure/src/overlay"
)

// ErrCancelled is returned when the user dismisses the monitor dialog or
// presses escape on the capture surface.
var ErrCancelled = errors.New("measurement cancelled")

// State is the session's position in its lifecycle.
type State int

const (
	Idle State = iota
	AwaitingMonitorChoice
	CapturingScreenshot
	AwaitingFirstClick
	AwaitingSecondClick
	Completed
	Cancelled
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case AwaitingMonitorChoice:
		return "AwaitingMonitorChoice"
	case CapturingScreenshot:
		return "CapturingScreenshot"
	case AwaitingFirstClick:
		return "AwaitingFirstClick"
	case AwaitingSecondClick:
		return "AwaitingSecondClick"
	case Completed:
		return "Completed"
	case Cancelled:
		return "Cancelled"
	case Failed:
		return "Failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Capturer produces the screenshot artifact; satisfied by *capture.Manager.
type Capturer interface {
	Capture(ctx context.Context) (*capture.Artifact, error)
}

// Options carry the session's collaborators.
type Options struct {
	Monitors []monitor.Monitor
	Chooser  overlay.MonitorChooser
	Capturer Capturer
	Picker   overlay.PointPicker
	// ConfirmDelay is the pause after the second click so the user sees the
	// final line before the surface closes.
	ConfirmDelay time.Duration
	// OnState observes transitions; optional, called from the session
	// goroutine.
	OnState func(State)
}

// Result is the terminal outcome. Point1/Point2 and the viewport dimensions
// are only meaningful when State is Completed; Err is only set when State is
// Failed or Cancelled. The viewport is the pixel size of the surface the
// points were picked on; relative units are computed against it.
type Result struct {
	State     State
	Point1    measure.Point
	Point2    measure.Point
	ViewportW int
	ViewportH int
	Err       error
}

// Execute runs one measurement session. The capture artifact is removed on
// every exit path: success, cancellation, or failure.
func Execute(ctx context.Context, opts Options) Result {
	if opts.Capturer == nil || opts.Picker == nil {
		return failed(opts, errors.New("session: capturer and picker are required"))
	}

	emit(opts, Idle)

	sel, res := chooseMonitor(ctx, opts)
	if res != nil {
		return *res
	}

	emit(opts, CapturingScreenshot)
	artifact, err := opts.Capturer.Capture(ctx)
	if err != nil {
		return failed(opts, err)
	}
	defer func() {
		if err := artifact.Cleanup(); err != nil {
			log.Printf("session: artifact cleanup failed: %v", err)
		}
	}()

	img := artifact.Image
	if rect, ok := cropRect(sel, opts.Monitors); ok {
		img = artifact.Crop(rect)
	}

	emit(opts, AwaitingFirstClick)
	p1, p2, cancelled, err := opts.Picker.Pick(ctx, img, func(measure.Point) {
		emit(opts, AwaitingSecondClick)
	})
	if err != nil {
		return failed(opts, err)
	}
	if cancelled {
		return cancelledResult(opts)
	}

	if opts.ConfirmDelay > 0 {
		time.Sleep(opts.ConfirmDelay)
	}

	emit(opts, Completed)
	b := img.Bounds()
	return Result{State: Completed, Point1: p1, Point2: p2, ViewportW: b.Dx(), ViewportH: b.Dy()}
}

// chooseMonitor resolves the monitor selection. With exactly one monitor the
// dialog is skipped and the selection is implicit.
func chooseMonitor(ctx context.Context, opts Options) (monitor.Selection, *Result) {
	if len(opts.Monitors) <= 1 {
		if len(opts.Monitors) == 0 {
			sel := monitor.SelectAll()
			return sel, nil
		}
		return monitor.SelectIndex(0), nil
	}

	if opts.Chooser == nil {
		return monitor.SelectAll(), nil
	}

	emit(opts, AwaitingMonitorChoice)
	sel, err := opts.Chooser.Choose(ctx, opts.Monitors)
	if err != nil {
		r := failed(opts, err)
		return sel, &r
	}
	if sel.Kind == monitor.SelectionNone {
		r := cancelledResult(opts)
		return sel, &r
	}
	return sel, nil
}

// cropRect returns the crop rectangle for an index selection. "All" shows
// the capture uncropped.
func cropRect(sel monitor.Selection, monitors []monitor.Monitor) (image.Rectangle, bool) {
	if sel.Kind != monitor.SelectionIndex {
		return image.Rectangle{}, false
	}
	return monitor.Resolve(sel, monitors)
}

func emit(opts Options, s State) {
	log.Printf("session: state -> %s", s)
	if opts.OnState != nil {
		opts.OnState(s)
	}
}

func failed(opts Options, err error) Result {
	emit(opts, Failed)
	return Result{State: Failed, Err: err}
}

func cancelledResult(opts Options) Result {
	emit(opts, Cancelled)
	return Result{State: Cancelled, Err: ErrCancelled}
}
