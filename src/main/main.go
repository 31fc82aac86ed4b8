package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"pixel-measure/src/capture"
	"pixel-measure/src/clipboard"
	"pixel-measure/src/config"
	"pixel-measure/src/eventloop"
	"pixel-measure/src/gui"
	"pixel-measure/src/logutil"
	"pixel-measure/src/monitor"
	"pixel-measure/src/presenter"
	"pixel-measure/src/session"
	"pixel-measure/src/singleinstance"
	"pixel-measure/src/tray"
)

// normalizeFlagDashes maps GNU-style --measure-now to Go's -measure-now.
func normalizeFlagDashes() {
	for i := 1; i < len(os.Args); i++ {
		if strings.HasPrefix(os.Args[i], "--measure-now") {
			os.Args[i] = os.Args[i][1:]
		}
	}
}

func main() {
	enableDPIAwareness()

	measureNow := flag.Bool("measure-now", false, "Ask the resident instance to start a measurement and exit")
	normalizeFlagDashes()
	flag.Parse()

	// Load .env early so PIXEL_MEASURE_PORT_* apply before any port scan.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if *measureNow {
		runMeasureNow()
		return
	}

	lock, err := singleinstance.AcquireLock()
	if err != nil {
		fmt.Fprintf(os.Stderr, "pixel-measure is already running (%v)\n", err)
		os.Exit(1)
	}
	defer func() { _ = lock.Release() }()

	logutil.Setup(cfg.EnableFileLogging)

	if err := clipboard.Init(); err != nil {
		// Copying is optional; measuring still works without a clipboard.
		log.Printf("Clipboard unavailable: %v", err)
	}

	log.Printf("Pixel Measure starting")
	log.Printf("Hotkey: %s", cfg.Hotkey)
	log.Printf("DPI: %.1f, base font: %.1fpx", cfg.Settings.DPI, cfg.Settings.BaseFontSizePx)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pres := presenter.New(cfg.Settings)
	window := gui.New(pres)
	surface := gui.NewSurface(window.App(), loopConfirmDelay(cfg))
	chooser := gui.NewMonitorDialog(window.Fyne())
	capturer := capture.NewManager(cfg.CaptureTools, cfg.CaptureTimeoutSec)

	detect := func(ctx context.Context) []monitor.Monitor {
		monitors := monitor.Detect(ctx)
		window.SetMonitors(monitors)
		return monitors
	}

	loop := eventloop.New(cfg, eventloop.Options{
		Monitors: detect,
		Chooser:  chooser,
		Picker:   surface,
		Capturer: capturer,
		OnState: func(s session.State) {
			switch s {
			case session.Idle:
				window.SetBusy(true)
				window.SetStatus("Measuring...")
			case session.AwaitingMonitorChoice:
				window.SetStatus("Choose a monitor")
			case session.CapturingScreenshot:
				window.SetStatus("Capturing screenshot...")
			case session.AwaitingFirstClick:
				window.SetStatus("Click the first point")
			case session.AwaitingSecondClick:
				window.SetStatus("Click the second point")
			}
		},
		OnResult: func(res session.Result) {
			window.SetBusy(false)
			window.ShowResult(res)
		},
	})
	loop.SetDefaultTooltip(fmt.Sprintf("Pixel Measure - Press %s to measure", cfg.Hotkey))

	window.OnStart = loop.Trigger

	go tray.Run(tray.Callbacks{
		OnMeasure: loop.Trigger,
		OnAbout:   window.ShowAbout,
		OnQuit: func() {
			cancel()
			window.Quit()
		},
	})

	loop.StartHotkey(cfg.Hotkey)

	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		<-ch
		cancel()
		window.Quit()
	}()

	go func() {
		if err := loop.Run(ctx); err != nil && ctx.Err() == nil {
			log.Printf("event loop stopped: %v", err)
			window.Quit()
		}
	}()

	// Show initial monitor state before the first session.
	go detect(ctx)

	// fyne owns the main goroutine; returns when the app quits.
	window.Run()
	tray.Quit()
}

func loopConfirmDelay(cfg *config.Config) (d time.Duration) {
	ms := cfg.ConfirmDelayMs
	if ms <= 0 {
		ms = config.DefaultConfirmDelayMs
	}
	return time.Duration(ms) * time.Millisecond
}

// runMeasureNow delegates a measurement trigger to the resident and exits.
func runMeasureNow() {
	ctx := context.Background()
	client := singleinstance.NewClient()

	delegated, err := client.TriggerMeasure(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Resident refused the trigger: %v\n", err)
		os.Exit(1)
	}
	if !delegated {
		fmt.Fprintln(os.Stderr, "No resident pixel-measure instance is running; start it first.")
		os.Exit(1)
	}
	fmt.Println("Measurement started on the resident instance.")
}
