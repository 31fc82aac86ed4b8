package tray

import (
	"log"
	"sync/atomic"

	"github.com/getlantern/systray"
)

const defaultTooltip = "Pixel Measure"

// Callbacks for tray menu actions. OnAbout receives the composed about text
// so the shell can show it in a dialog.
type Callbacks struct {
	OnMeasure func()
	OnAbout   func(info string)
	OnQuit    func()
}

var (
	ready      atomic.Bool
	aboutExtra atomic.Value // string
)

// Run starts the systray loop. Blocks until systray.Quit; call from a
// dedicated goroutine.
func Run(cb Callbacks) {
	systray.Run(func() { onReady(cb) }, onExit)
}

// Quit stops the systray loop.
func Quit() {
	if ready.Load() {
		systray.Quit()
	}
}

func onReady(cb Callbacks) {
	systray.SetIcon([]byte(SVGContent))
	systray.SetTitle(defaultTooltip)
	systray.SetTooltip(defaultTooltip)
	ready.Store(true)

	mMeasure := systray.AddMenuItem("Start Measuring", "Capture the screen and measure two points")
	mAbout := systray.AddMenuItem("About", "About Pixel Measure")
	mQuit := systray.AddMenuItem("Quit", "Quit the application")

	go func() {
		for {
			select {
			case <-mMeasure.ClickedCh:
				if cb.OnMeasure != nil {
					cb.OnMeasure()
				}
			case <-mAbout.ClickedCh:
				info := AboutText()
				log.Printf("tray: about clicked (%s)", info)
				if cb.OnAbout != nil {
					cb.OnAbout(info)
				}
			case <-mQuit.ClickedCh:
				if cb.OnQuit != nil {
					cb.OnQuit()
				}
				systray.Quit()
				return
			}
		}
	}()
}

func onExit() {
	ready.Store(false)
}

// UpdateTooltip reflects loop state on the tray icon. Safe before Run.
func UpdateTooltip(text string) {
	if !ready.Load() {
		return
	}
	if text == "" {
		text = defaultTooltip
	}
	systray.SetTooltip(text)
}

// SetAboutExtra attaches runtime info (such as the trigger port) to the
// About entry.
func SetAboutExtra(text string) {
	aboutExtra.Store(text)
}

// AboutText composes the About message shown to the user.
func AboutText() string {
	text := "Pixel Measure\nMeasure on-screen distances in CSS units."
	if extra, _ := aboutExtra.Load().(string); extra != "" {
		text += "\n\n" + extra
	}
	return text
}
