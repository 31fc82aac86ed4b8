// Package gui is the fyne shell: the resident main window, the monitor
// choice dialog, and the full-screen capture surface.
package gui

import (
	"fmt"
	"log"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"pixel-measure/src/clipboard"
	"pixel-measure/src/monitor"
	"pixel-measure/src/presenter"
	"pixel-measure/src/session"
)

// Window is the resident main window. All exported mutators are safe to call
// from any goroutine; they hop onto the UI thread internally.
type Window struct {
	app  fyne.App
	win  fyne.Window
	pres *presenter.Presenter

	startBtn   *widget.Button
	resetBtn   *widget.Button
	copyBtn    *widget.Button
	statusLbl  *widget.Label
	monitorLbl *widget.Label
	point1Lbl  *widget.Label
	point2Lbl  *widget.Label
	deltaLbl   *widget.Label
	dpiEntry   *widget.Entry
	fontEntry  *widget.Entry
	unitList   *widget.List

	rows []presenter.Row

	// OnStart is invoked from the UI thread when the user requests a
	// measurement (button press).
	OnStart func()
}

// New builds the main window on a fresh fyne app.
func New(pres *presenter.Presenter) *Window {
	return NewWithApp(app.New(), pres)
}

// NewWithApp builds the main window on an existing app.
func NewWithApp(a fyne.App, pres *presenter.Presenter) *Window {
	w := &Window{
		app:  a,
		win:  a.NewWindow("Pixel Measure"),
		pres: pres,
	}
	w.build()
	return w
}

// App exposes the underlying fyne app so the surface can open windows on it.
func (w *Window) App() fyne.App { return w.app }

// Fyne returns the main window for dialog parenting.
func (w *Window) Fyne() fyne.Window { return w.win }

func (w *Window) build() {
	w.startBtn = widget.NewButton("Start Measurement", func() {
		if w.OnStart != nil {
			w.OnStart()
		}
	})
	w.startBtn.Importance = widget.HighImportance

	w.resetBtn = widget.NewButton("Reset", func() {
		w.pres.Reset()
		w.refreshLocked()
	})

	w.copyBtn = widget.NewButton("Copy Results", func() {
		text := w.pres.Text()
		if text == "" {
			w.statusLbl.SetText("Nothing to copy yet")
			return
		}
		if err := clipboard.Write(text); err != nil {
			log.Printf("gui: clipboard write failed: %v", err)
			w.statusLbl.SetText("Clipboard unavailable")
			return
		}
		w.statusLbl.SetText("Results copied to clipboard")
	})

	w.statusLbl = widget.NewLabel("Ready")
	w.monitorLbl = widget.NewLabel("Monitors: detecting...")
	w.monitorLbl.Wrapping = fyne.TextWrapWord

	p1, p2 := w.pres.Points()
	w.point1Lbl = widget.NewLabel(p1)
	w.point2Lbl = widget.NewLabel(p2)
	w.deltaLbl = widget.NewLabel("")
	w.deltaLbl.TextStyle = fyne.TextStyle{Bold: true}

	s := w.pres.Settings()
	w.dpiEntry = widget.NewEntry()
	w.dpiEntry.SetText(strconv.FormatFloat(s.DPI, 'f', -1, 64))
	w.fontEntry = widget.NewEntry()
	w.fontEntry.SetText(strconv.FormatFloat(s.BaseFontSizePx, 'f', -1, 64))
	applyBtn := widget.NewButton("Apply", func() {
		w.pres.ApplySettings(w.dpiEntry.Text, w.fontEntry.Text)
		applied := w.pres.Settings()
		w.dpiEntry.SetText(strconv.FormatFloat(applied.DPI, 'f', -1, 64))
		w.fontEntry.SetText(strconv.FormatFloat(applied.BaseFontSizePx, 'f', -1, 64))
		w.refreshLocked()
		w.statusLbl.SetText("Settings applied")
	})

	w.rows = w.pres.Rows()
	w.unitList = widget.NewList(
		func() int { return len(w.rows) },
		func() fyne.CanvasObject {
			name := widget.NewLabel("unit")
			desc := widget.NewLabel("description")
			desc.TextStyle = fyne.TextStyle{Italic: true}
			value := widget.NewLabel("value")
			value.Alignment = fyne.TextAlignTrailing
			value.TextStyle = fyne.TextStyle{Bold: true}
			return container.NewBorder(nil, nil, container.NewVBox(name, desc), value)
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id < 0 || id >= len(w.rows) {
				return
			}
			row := w.rows[id]
			box := obj.(*fyne.Container)
			left := box.Objects[0].(*fyne.Container)
			left.Objects[0].(*widget.Label).SetText(row.Label)
			left.Objects[1].(*widget.Label).SetText(row.Description)
			box.Objects[1].(*widget.Label).SetText(row.Value)
		},
	)

	settingsForm := widget.NewForm(
		widget.NewFormItem("DPI", w.dpiEntry),
		widget.NewFormItem("Base font px", w.fontEntry),
		widget.NewFormItem("", applyBtn),
	)

	top := container.NewVBox(
		container.NewGridWithColumns(2, w.startBtn, w.resetBtn),
		w.statusLbl,
		w.monitorLbl,
		widget.NewSeparator(),
		w.point1Lbl,
		w.point2Lbl,
		w.deltaLbl,
		widget.NewSeparator(),
	)
	bottom := container.NewVBox(
		widget.NewSeparator(),
		widget.NewCard("Settings", "", settingsForm),
		w.copyBtn,
	)

	w.win.SetContent(container.NewBorder(top, bottom, nil, nil, w.unitList))
	w.win.Resize(fyne.NewSize(420, 720))

	// Closing the window keeps the resident alive; quit comes from the tray.
	w.win.SetCloseIntercept(w.win.Hide)
}

// refreshLocked re-derives all displayed values. UI thread only.
func (w *Window) refreshLocked() {
	p1, p2 := w.pres.Points()
	w.point1Lbl.SetText(p1)
	w.point2Lbl.SetText(p2)
	w.deltaLbl.SetText(w.pres.DeltaLine())
	w.rows = w.pres.Rows()
	w.unitList.Refresh()
}

// SetMonitors updates the detected-monitor summary line.
func (w *Window) SetMonitors(monitors []monitor.Monitor) {
	text := "Monitors: none detected"
	if len(monitors) > 0 {
		text = fmt.Sprintf("Monitors (%d):", len(monitors))
		for _, m := range monitors {
			text += "\n  " + m.String()
		}
	}
	fyne.Do(func() { w.monitorLbl.SetText(text) })
}

// SetStatus replaces the status line.
func (w *Window) SetStatus(text string) {
	fyne.Do(func() { w.statusLbl.SetText(text) })
}

// SetBusy disables the start control while a session runs.
func (w *Window) SetBusy(busy bool) {
	fyne.Do(func() {
		if busy {
			w.startBtn.Disable()
		} else {
			w.startBtn.Enable()
		}
	})
}

// ShowResult applies a finished session to the presenter and redraws.
func (w *Window) ShowResult(res session.Result) {
	fyne.Do(func() {
		switch res.State {
		case session.Completed:
			w.pres.SetMeasurement(res.Point1, res.Point2, res.ViewportW, res.ViewportH)
			w.statusLbl.SetText("Measurement complete")
		case session.Cancelled:
			w.statusLbl.SetText("Measurement cancelled")
		case session.Failed:
			w.statusLbl.SetText("Measurement failed: " + errText(res.Err))
		}
		w.refreshLocked()
		w.win.Show()
		w.win.RequestFocus()
	})
}

func errText(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}

// ShowAbout raises the main window with an info dialog, used for the tray
// About entry.
func (w *Window) ShowAbout(info string) {
	fyne.Do(func() {
		w.win.Show()
		dialog.ShowInformation("About Pixel Measure", info, w.win)
	})
}

// Show brings the main window up.
func (w *Window) Show() {
	fyne.Do(func() {
		w.win.Show()
		w.win.RequestFocus()
	})
}

// Run shows the window and takes over the calling goroutine; it returns when
// the app quits.
func (w *Window) Run() {
	w.win.ShowAndRun()
}

// Quit stops the fyne app.
func (w *Window) Quit() {
	fyne.Do(w.app.Quit)
}
