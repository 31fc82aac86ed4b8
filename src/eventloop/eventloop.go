package eventloop

import (
	"context"
	"fmt"
	"log"
	"time"

	"pixel-measure/src/config"
	"pixel-measure/src/hotkey"
	"pixel-measure/src/monitor"
	"pixel-measure/src/overlay"
	"pixel-measure/src/session"
	"pixel-measure/src/singleinstance"
	"pixel-measure/src/tray"
	"pixel-measure/src/worker"
)

// Loop is the single-threaded coordinator for measurement triggers. Triggers
// arrive from the main window, the tray menu, the global hotkey, and remote
// --measure-now clients; the loop serializes them so at most one session runs
// at a time.
type Loop struct {
	opts           Options
	pool           *worker.Pool
	srv            singleinstance.Server
	busy           bool
	results        chan result
	triggerCh      chan struct{}
	defaultTooltip string
	confirmDelay   time.Duration
}

// Options wires the loop's collaborators. Monitors is called at the start of
// every session so geometry changes between sessions are picked up. OnState
// is invoked from the session goroutine; OnResult from the loop goroutine.
type Options struct {
	Monitors func(ctx context.Context) []monitor.Monitor
	Chooser  overlay.MonitorChooser
	Picker   overlay.PointPicker
	Capturer session.Capturer
	Server   singleinstance.Server
	OnResult func(res session.Result)
	OnState  func(s session.State)
}

type result struct {
	res    session.Result
	cancel context.CancelFunc
}

// New creates the loop. ConfirmDelayMs comes from cfg; 200ms when unset.
func New(cfg *config.Config, opts Options) *Loop {
	delayMs := 200
	if cfg != nil && cfg.ConfirmDelayMs > 0 {
		delayMs = cfg.ConfirmDelayMs
	}

	return &Loop{
		opts:           opts,
		pool:           worker.New(0),
		srv:            opts.Server,
		results:        make(chan result, 1),
		triggerCh:      make(chan struct{}, 4),
		defaultTooltip: "Pixel Measure",
		confirmDelay:   time.Duration(delayMs) * time.Millisecond,
	}
}

// SetDefaultTooltip optionally sets the tray tooltip base text.
func (l *Loop) SetDefaultTooltip(tt string) { l.defaultTooltip = tt }

// Trigger requests a measurement session. Safe to call from any goroutine;
// drops the request when the trigger queue is saturated.
func (l *Loop) Trigger() {
	select {
	case l.triggerCh <- struct{}{}:
	default:
	}
}

// StartHotkey registers a global hotkey that posts triggers into the loop.
func (l *Loop) StartHotkey(combo string) {
	if combo == "" {
		return
	}
	hotkey.Listen(combo, l.Trigger)
}

func (l *Loop) setBusy(b bool) {
	l.busy = b
	if b {
		tray.UpdateTooltip("Pixel Measure: measuring...")
	} else {
		tray.UpdateTooltip(l.defaultTooltip)
	}
}

// Run starts the singleinstance server and processes triggers until ctx is
// cancelled.
func (l *Loop) Run(ctx context.Context) error {
	if l.srv == nil {
		l.srv = singleinstance.NewServer()
	}
	if err := l.srv.Start(ctx); err != nil {
		return err
	}
	if p := l.srv.Port(); p > 0 {
		log.Printf("Resident listening on 127.0.0.1:%d", p)
		tray.SetAboutExtra(fmt.Sprintf("Resident TCP port: %d", p))
	}
	defer l.pool.Close()

	// Accept loop in background so remote clients never block result handling.
	reqCh := make(chan singleinstance.Conn, 4)
	go func() {
		for {
			conn, err := l.srv.Next(ctx)
			if err != nil {
				close(reqCh)
				return
			}
			reqCh <- conn
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.triggerCh:
			l.handleTrigger(ctx)
		case conn, ok := <-reqCh:
			if !ok {
				return nil
			}
			l.handleConn(ctx, conn)
		case res := <-l.results:
			l.handleResult(res)
		}
	}
}

func (l *Loop) handleTrigger(ctx context.Context) {
	if l.busy {
		log.Printf("handleTrigger: busy, dropping trigger")
		return
	}
	l.startSession(ctx)
}

func (l *Loop) handleConn(ctx context.Context, conn singleinstance.Conn) {
	if l.busy {
		log.Printf("handleConn: busy, rejecting remote trigger")
		_ = conn.Reject("busy, measurement in progress")
		_ = conn.Close()
		return
	}
	// The remote client only triggers; the result shows in the resident UI.
	_ = conn.Accept()
	_ = conn.Close()
	l.startSession(ctx)
}

func (l *Loop) startSession(ctx context.Context) {
	var monitors []monitor.Monitor
	if l.opts.Monitors != nil {
		monitors = l.opts.Monitors(ctx)
	}

	jobCtx, cancel := context.WithCancel(ctx)
	sessOpts := session.Options{
		Monitors:     monitors,
		Chooser:      l.opts.Chooser,
		Capturer:     l.opts.Capturer,
		Picker:       l.opts.Picker,
		ConfirmDelay: l.confirmDelay,
		OnState:      l.opts.OnState,
	}

	l.setBusy(true)
	submitted := l.pool.Submit(jobCtx, sessOpts, func(res session.Result) {
		l.results <- result{res: res, cancel: cancel}
	})
	if !submitted {
		cancel()
		l.setBusy(false)
		log.Printf("startSession: worker queue full, dropping session")
	}
}

func (l *Loop) handleResult(res result) {
	log.Printf("handleResult: state=%s err=%v", res.res.State, res.res.Err)
	defer func() {
		l.setBusy(false)
		if res.cancel != nil {
			res.cancel()
		}
	}()
	if l.opts.OnResult != nil {
		l.opts.OnResult(res.res)
	}
}

// ConfirmDelay returns the post-measurement confirmation delay for this loop.
func (l *Loop) ConfirmDelay() time.Duration { return l.confirmDelay }
