package gui

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"log"
	"math"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"pixel-measure/src/measure"
)

var (
	markerFirstColor  = color.NRGBA{R: 0xff, G: 0x30, B: 0x30, A: 0xff}
	markerSecondColor = color.NRGBA{R: 0x30, G: 0x60, B: 0xff, A: 0xff}
	lineColor         = color.NRGBA{R: 0x00, G: 0xe5, B: 0xff, A: 0xff}
	bannerColor       = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	bannerBackColor   = color.NRGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xb0}
)

const (
	markerRadius = 5
	dashLen      = 8
	gapLen       = 6
	maxDashes    = 256
)

// Surface renders the captured image full screen and collects the two
// measurement clicks. It satisfies overlay.PointPicker; Pick blocks the
// calling (session) goroutine while the fyne window runs on the UI thread.
type Surface struct {
	app fyne.App
	// confirmDelay keeps the window open after the second click so the
	// final line stays visible while the session finishes.
	confirmDelay time.Duration
}

func NewSurface(a fyne.App, confirmDelay time.Duration) *Surface {
	return &Surface{app: a, confirmDelay: confirmDelay}
}

type pickOutcome struct {
	p1, p2    measure.Point
	cancelled bool
}

// Pick shows the surface and blocks until two clicks land or the user
// presses Escape. Must not be called from the UI thread.
func (s *Surface) Pick(ctx context.Context, img image.Image, firstPicked func(measure.Point)) (measure.Point, measure.Point, bool, error) {
	outcomeCh := make(chan pickOutcome, 1)

	var win fyne.Window
	fyne.DoAndWait(func() {
		win = s.app.NewWindow("Measure")
		win.SetPadded(false)
		win.SetFullScreen(true)

		mc := newMeasureCanvas(img)
		mc.onFirst = func(p measure.Point) {
			if firstPicked != nil {
				go firstPicked(p)
			}
		}
		mc.onDone = func(p1, p2 measure.Point) {
			outcomeCh <- pickOutcome{p1: p1, p2: p2}
			time.AfterFunc(s.confirmDelay, func() {
				fyne.Do(win.Close)
			})
		}

		win.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
			if ev.Name == fyne.KeyEscape {
				outcomeCh <- pickOutcome{cancelled: true}
				win.Close()
			}
		})
		win.SetContent(mc)
		win.Show()
	})

	select {
	case <-ctx.Done():
		fyne.Do(func() {
			if win != nil {
				win.Close()
			}
		})
		return measure.Point{}, measure.Point{}, true, ctx.Err()
	case out := <-outcomeCh:
		if out.cancelled {
			log.Printf("surface: measurement cancelled by user")
		}
		return out.p1, out.p2, out.cancelled, nil
	}
}

// measureCanvas is the interactive layer: the screenshot at native size,
// click markers, the rubber band, and the instruction banner.
type measureCanvas struct {
	widget.BaseWidget

	img     *canvas.Image
	banner  *canvas.Text
	bannerB *canvas.Rectangle
	marker1 *canvas.Circle
	marker2 *canvas.Circle
	final   *canvas.Line
	label   *canvas.Text
	labelB  *canvas.Rectangle
	dashes  []*canvas.Line

	content *fyne.Container

	clicks  int
	p1, p2  measure.Point
	onFirst func(measure.Point)
	onDone  func(p1, p2 measure.Point)
}

func newMeasureCanvas(img image.Image) *measureCanvas {
	m := &measureCanvas{}

	m.img = canvas.NewImageFromImage(img)
	m.img.FillMode = canvas.ImageFillOriginal
	m.img.ScaleMode = canvas.ImageScalePixels

	m.bannerB = canvas.NewRectangle(bannerBackColor)
	m.banner = canvas.NewText("Click the FIRST point  (Esc to cancel)", bannerColor)
	m.banner.TextSize = 18
	m.banner.TextStyle = fyne.TextStyle{Bold: true}

	m.marker1 = canvas.NewCircle(markerFirstColor)
	m.marker2 = canvas.NewCircle(markerSecondColor)
	m.marker1.Hide()
	m.marker2.Hide()

	m.final = canvas.NewLine(lineColor)
	m.final.StrokeWidth = 2
	m.final.Hide()

	m.labelB = canvas.NewRectangle(bannerBackColor)
	m.label = canvas.NewText("", lineColor)
	m.label.TextSize = 14
	m.label.TextStyle = fyne.TextStyle{Bold: true}
	m.labelB.Hide()
	m.label.Hide()

	m.content = container.NewWithoutLayout(m.img, m.final, m.marker1, m.marker2, m.labelB, m.label, m.bannerB, m.banner)

	bounds := img.Bounds()
	m.img.Resize(fyne.NewSize(float32(bounds.Dx()), float32(bounds.Dy())))
	m.img.Move(fyne.NewPos(0, 0))
	m.layoutBanner()

	m.ExtendBaseWidget(m)
	return m
}

func (m *measureCanvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(m.content)
}

// Cursor implements desktop.Cursorable.
func (m *measureCanvas) Cursor() desktop.Cursor { return desktop.CrosshairCursor }

func (m *measureCanvas) layoutBanner() {
	ts := fyne.MeasureText(m.banner.Text, m.banner.TextSize, m.banner.TextStyle)
	m.bannerB.Resize(fyne.NewSize(ts.Width+24, ts.Height+12))
	m.bannerB.Move(fyne.NewPos(12, 12))
	m.banner.Move(fyne.NewPos(24, 18))
	m.bannerB.Refresh()
	m.banner.Refresh()
}

func (m *measureCanvas) placeMarker(c *canvas.Circle, p measure.Point) {
	c.Resize(fyne.NewSize(markerRadius*2, markerRadius*2))
	c.Move(fyne.NewPos(float32(p.X)-markerRadius, float32(p.Y)-markerRadius))
	c.Show()
	c.Refresh()
}

// Tapped implements fyne.Tappable; each primary click lands one point.
func (m *measureCanvas) Tapped(ev *fyne.PointEvent) {
	p := measure.Point{X: int(ev.Position.X), Y: int(ev.Position.Y)}

	switch m.clicks {
	case 0:
		m.clicks = 1
		m.p1 = p
		m.placeMarker(m.marker1, p)
		m.banner.Text = "Click the SECOND point  (Esc to cancel)"
		m.layoutBanner()
		if m.onFirst != nil {
			m.onFirst(p)
		}
	case 1:
		m.clicks = 2
		m.p2 = p
		m.placeMarker(m.marker2, p)
		m.clearRubberBand()
		m.drawFinalLine()
		m.banner.Text = fmt.Sprintf("%.1f px", measure.Distance(m.p1, m.p2))
		m.layoutBanner()
		if m.onDone != nil {
			m.onDone(m.p1, m.p2)
		}
	}
}

// MouseMoved implements desktop.Hoverable; between the clicks it redraws the
// rubber band and the running distance label from scratch on every move.
func (m *measureCanvas) MouseMoved(ev *desktop.MouseEvent) {
	if m.clicks != 1 {
		return
	}
	cur := measure.Point{X: int(ev.Position.X), Y: int(ev.Position.Y)}
	m.clearRubberBand()
	m.drawRubberBand(cur)
	m.moveDistanceLabel(cur)
}

func (m *measureCanvas) MouseIn(*desktop.MouseEvent) {}
func (m *measureCanvas) MouseOut()                   {}

func (m *measureCanvas) clearRubberBand() {
	for _, d := range m.dashes {
		m.content.Remove(d)
	}
	m.dashes = m.dashes[:0]
}

// drawRubberBand approximates a dashed line with short solid segments.
func (m *measureCanvas) drawRubberBand(cur measure.Point) {
	x1, y1 := float64(m.p1.X), float64(m.p1.Y)
	dx := float64(cur.X) - x1
	dy := float64(cur.Y) - y1
	dist := math.Hypot(dx, dy)
	if dist < 1 {
		return
	}
	ux, uy := dx/dist, dy/dist

	for off := 0.0; off < dist && len(m.dashes) < maxDashes; off += dashLen + gapLen {
		end := math.Min(off+dashLen, dist)
		seg := canvas.NewLine(lineColor)
		seg.StrokeWidth = 1
		seg.Position1 = fyne.NewPos(float32(x1+ux*off), float32(y1+uy*off))
		seg.Position2 = fyne.NewPos(float32(x1+ux*end), float32(y1+uy*end))
		m.content.Add(seg)
		m.dashes = append(m.dashes, seg)
	}
}

func (m *measureCanvas) moveDistanceLabel(cur measure.Point) {
	m.label.Text = fmt.Sprintf("%.1f px", measure.Distance(m.p1, cur))
	ts := fyne.MeasureText(m.label.Text, m.label.TextSize, m.label.TextStyle)
	midX := float32(m.p1.X+cur.X) / 2
	midY := float32(m.p1.Y+cur.Y) / 2
	m.labelB.Resize(fyne.NewSize(ts.Width+12, ts.Height+6))
	m.labelB.Move(fyne.NewPos(midX+10, midY-ts.Height-10))
	m.label.Move(fyne.NewPos(midX+16, midY-ts.Height-7))
	m.labelB.Show()
	m.label.Show()
	m.labelB.Refresh()
	m.label.Refresh()
}

func (m *measureCanvas) drawFinalLine() {
	m.final.Position1 = fyne.NewPos(float32(m.p1.X), float32(m.p1.Y))
	m.final.Position2 = fyne.NewPos(float32(m.p2.X), float32(m.p2.Y))
	m.final.Show()
	m.final.Refresh()
	m.labelB.Hide()
	m.label.Hide()
}
