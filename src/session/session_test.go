package session

import (
	"context"
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pixel-measure/src/capture"
	"pixel-measure/src/measure"
	"pixel-measure/src/monitor"
)

type stubChooser struct {
	sel monitor.Selection
	err error
	// records that the dialog actually opened
	called bool
}

func (c *stubChooser) Choose(context.Context, []monitor.Monitor) (monitor.Selection, error) {
	c.called = true
	return c.sel, c.err
}

type stubCapturer struct {
	artifact *capture.Artifact
	err      error
}

func (c stubCapturer) Capture(context.Context) (*capture.Artifact, error) {
	return c.artifact, c.err
}

type stubPicker struct {
	p1, p2    measure.Point
	cancelled bool
	err       error
	imgSeen   image.Image
}

func (p *stubPicker) Pick(_ context.Context, img image.Image, firstPicked func(measure.Point)) (measure.Point, measure.Point, bool, error) {
	p.imgSeen = img
	if p.err != nil {
		return measure.Point{}, measure.Point{}, false, p.err
	}
	if p.cancelled {
		return measure.Point{}, measure.Point{}, true, nil
	}
	if firstPicked != nil {
		firstPicked(p.p1)
	}
	return p.p1, p.p2, false, nil
}

func testArtifact(t *testing.T, w, h int) *capture.Artifact {
	t.Helper()
	path := filepath.Join(t.TempDir(), "capture.png")
	require.NoError(t, os.WriteFile(path, []byte("placeholder"), 0644))
	return &capture.Artifact{Path: path, Image: image.NewRGBA(image.Rect(0, 0, w, h))}
}

func twoMonitors() []monitor.Monitor {
	return []monitor.Monitor{
		{Name: "left", Width: 1920, Height: 1080, X: 0, Y: 0},
		{Name: "right", Width: 1280, Height: 1024, X: 1920, Y: 0},
	}
}

func TestExecuteCompletes(t *testing.T) {
	art := testArtifact(t, 3200, 1080)
	picker := &stubPicker{p1: measure.Point{X: 10, Y: 20}, p2: measure.Point{X: 110, Y: 20}}
	var states []State

	res := Execute(context.Background(), Options{
		Monitors: twoMonitors(),
		Chooser:  &stubChooser{sel: monitor.SelectAll()},
		Capturer: stubCapturer{artifact: art},
		Picker:   picker,
		OnState:  func(s State) { states = append(states, s) },
	})

	assert.Equal(t, Completed, res.State)
	assert.Equal(t, measure.Point{X: 10, Y: 20}, res.Point1)
	assert.Equal(t, measure.Point{X: 110, Y: 20}, res.Point2)
	assert.Equal(t, 3200, res.ViewportW)
	assert.Equal(t, 1080, res.ViewportH)

	assert.Equal(t, []State{
		Idle, AwaitingMonitorChoice, CapturingScreenshot,
		AwaitingFirstClick, AwaitingSecondClick, Completed,
	}, states)

	// Scoped-resource guarantee: artifact gone after the session.
	assert.NoFileExists(t, art.Path)
}

func TestExecuteSingleMonitorSkipsChoice(t *testing.T) {
	art := testArtifact(t, 1920, 1080)
	chooser := &stubChooser{sel: monitor.SelectAll()}

	res := Execute(context.Background(), Options{
		Monitors: []monitor.Monitor{{Name: "only", Width: 1920, Height: 1080}},
		Chooser:  chooser,
		Capturer: stubCapturer{artifact: art},
		Picker:   &stubPicker{p1: measure.Point{X: 1, Y: 1}, p2: measure.Point{X: 2, Y: 2}},
	})

	assert.Equal(t, Completed, res.State)
	assert.False(t, chooser.called, "dialog must be skipped for a single monitor")
}

func TestExecuteMonitorCrop(t *testing.T) {
	art := testArtifact(t, 3200, 1080)
	picker := &stubPicker{p1: measure.Point{X: 0, Y: 0}, p2: measure.Point{X: 5, Y: 5}}

	res := Execute(context.Background(), Options{
		Monitors: twoMonitors(),
		Chooser:  &stubChooser{sel: monitor.SelectIndex(1)},
		Capturer: stubCapturer{artifact: art},
		Picker:   picker,
	})

	require.Equal(t, Completed, res.State)
	// Cropped to the right monitor, clamped to the 1080px-tall capture.
	assert.Equal(t, 1280, res.ViewportW)
	assert.Equal(t, 1024, res.ViewportH)
	assert.Equal(t, 1280, picker.imgSeen.Bounds().Dx())
}

func TestExecuteCropClampsStaleGeometry(t *testing.T) {
	// Geometry says 1280x1024 at x=1920; the tool only captured 1920x1080.
	art := testArtifact(t, 1920, 1080)

	res := Execute(context.Background(), Options{
		Monitors: twoMonitors(),
		Chooser:  &stubChooser{sel: monitor.SelectIndex(1)},
		Capturer: stubCapturer{artifact: art},
		Picker:   &stubPicker{p1: measure.Point{X: 1, Y: 1}, p2: measure.Point{X: 2, Y: 2}},
	})

	// Crop is fully outside the image: full capture is shown instead of
	// failing the session.
	require.Equal(t, Completed, res.State)
	assert.Equal(t, 1920, res.ViewportW)
	assert.Equal(t, 1080, res.ViewportH)
}

func TestExecuteCancelledAtMonitorChoice(t *testing.T) {
	art := testArtifact(t, 100, 100)

	res := Execute(context.Background(), Options{
		Monitors: twoMonitors(),
		Chooser:  &stubChooser{sel: monitor.SelectNone()},
		Capturer: stubCapturer{artifact: art},
		Picker:   &stubPicker{},
	})

	assert.Equal(t, Cancelled, res.State)
	assert.ErrorIs(t, res.Err, ErrCancelled)
	assert.Equal(t, measure.Point{}, res.Point1)
	assert.Equal(t, measure.Point{}, res.Point2)
	// Cancelled before capture: the artifact was never created, so its
	// placeholder file is untouched but no capture file leaks.
}

func TestExecuteCancelledDuringPick(t *testing.T) {
	art := testArtifact(t, 100, 100)

	res := Execute(context.Background(), Options{
		Monitors: []monitor.Monitor{{Name: "only", Width: 100, Height: 100}},
		Capturer: stubCapturer{artifact: art},
		Picker:   &stubPicker{cancelled: true},
	})

	assert.Equal(t, Cancelled, res.State)
	assert.ErrorIs(t, res.Err, ErrCancelled)
	assert.NoFileExists(t, art.Path, "artifact must be removed on cancel")
}

func TestExecuteCaptureFailure(t *testing.T) {
	res := Execute(context.Background(), Options{
		Monitors: []monitor.Monitor{{Name: "only", Width: 100, Height: 100}},
		Capturer: stubCapturer{err: capture.ErrToolUnavailable},
		Picker:   &stubPicker{},
	})

	assert.Equal(t, Failed, res.State)
	assert.ErrorIs(t, res.Err, capture.ErrToolUnavailable)
}

func TestExecutePickerFailure(t *testing.T) {
	art := testArtifact(t, 100, 100)
	bang := errors.New("surface exploded")

	res := Execute(context.Background(), Options{
		Monitors: []monitor.Monitor{{Name: "only", Width: 100, Height: 100}},
		Capturer: stubCapturer{artifact: art},
		Picker:   &stubPicker{err: bang},
	})

	assert.Equal(t, Failed, res.State)
	assert.ErrorIs(t, res.Err, bang)
	assert.NoFileExists(t, art.Path, "artifact must be removed on failure")
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "AwaitingFirstClick", AwaitingFirstClick.String())
	assert.Equal(t, "State(42)", State(42).String())
}
