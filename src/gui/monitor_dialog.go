package gui

import (
	"context"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"pixel-measure/src/monitor"
)

const allMonitorsOption = "All Monitors (Full Desktop)"

// MonitorDialog asks which monitor to capture. It satisfies
// overlay.MonitorChooser; Choose blocks the session goroutine while the
// dialog runs on the UI thread.
type MonitorDialog struct {
	parent fyne.Window
}

func NewMonitorDialog(parent fyne.Window) *MonitorDialog {
	return &MonitorDialog{parent: parent}
}

// Choose presents the radio list and blocks until the user confirms or
// dismisses. Dismissal (Cancel, close, Escape) yields SelectNone with a nil
// error. With an empty monitor list only the "all" option is offered.
func (d *MonitorDialog) Choose(ctx context.Context, monitors []monitor.Monitor) (monitor.Selection, error) {
	resCh := make(chan monitor.Selection, 1)

	fyne.Do(func() {
		options := make([]string, 0, len(monitors)+1)
		for i, m := range monitors {
			options = append(options, fmt.Sprintf("Monitor %d - %s", i+1, m.String()))
		}
		options = append(options, allMonitorsOption)

		radio := widget.NewRadioGroup(options, nil)
		radio.SetSelected(options[0])

		decided := false
		decide := func(sel monitor.Selection) {
			if decided {
				return
			}
			decided = true
			resCh <- sel
		}

		dlg := dialog.NewCustomConfirm("Select Monitor", "Capture", "Cancel", radio,
			func(confirmed bool) {
				if !confirmed {
					decide(monitor.SelectNone())
					return
				}
				for i, opt := range options {
					if radio.Selected == opt && opt != allMonitorsOption {
						decide(monitor.SelectIndex(i))
						return
					}
				}
				decide(monitor.SelectAll())
			}, d.parent)

		prevKey := d.parent.Canvas().OnTypedKey()
		d.parent.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
			if ev.Name == fyne.KeyEscape {
				dlg.Hide()
				decide(monitor.SelectNone())
				return
			}
			if prevKey != nil {
				prevKey(ev)
			}
		})
		dlg.SetOnClosed(func() {
			d.parent.Canvas().SetOnTypedKey(prevKey)
			decide(monitor.SelectNone())
		})
		dlg.Show()
	})

	select {
	case <-ctx.Done():
		return monitor.SelectNone(), ctx.Err()
	case sel := <-resCh:
		return sel, nil
	}
}
