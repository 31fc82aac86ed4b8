package monitor

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/kbinani/screenshot"
)

// Geometry queries against external utilities are short and bounded.
const sourceTimeout = 3 * time.Second

// xrandrSource parses `xrandr --query`. Works on X11 and XWayland and is the
// only source that reliably reports both size and position per output.
type xrandrSource struct{}

func (xrandrSource) Name() string { return "xrandr" }

// Matches "DP-3 connected 1920x1080+0+600" and
// "DP-3 connected primary 1920x1080+1920+600".
var xrandrConnected = regexp.MustCompile(`^(\S+)\s+connected\s+(?:primary\s+)?(\d+)x(\d+)\+(\d+)\+(\d+)`)

func (xrandrSource) Detect(ctx context.Context) ([]Monitor, error) {
	ctx, cancel := context.WithTimeout(ctx, sourceTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, "xrandr", "--query").Output()
	if err != nil {
		return nil, fmt.Errorf("xrandr --query: %w", err)
	}

	var monitors []Monitor
	scanner := bufio.NewScanner(strings.NewReader(string(out)))
	for scanner.Scan() {
		m := xrandrConnected.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		monitors = append(monitors, Monitor{
			Name:   m[1],
			Width:  atoi(m[2]),
			Height: atoi(m[3]),
			X:      atoi(m[4]),
			Y:      atoi(m[5]),
		})
	}
	return monitors, nil
}

// wlrRandrSource parses `wlr-randr` output (wlroots-based Wayland
// compositors). Output names sit at column zero; "Position:" and the mode
// line flagged "current" belong to the most recent output.
type wlrRandrSource struct{}

func (wlrRandrSource) Name() string { return "wlr-randr" }

var (
	wlrPosition = regexp.MustCompile(`Position:\s*(\d+),(\d+)`)
	wlrMode     = regexp.MustCompile(`(\d+)x(\d+)`)
)

func (wlrRandrSource) Detect(ctx context.Context) ([]Monitor, error) {
	ctx, cancel := context.WithTimeout(ctx, sourceTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, "wlr-randr").Output()
	if err != nil {
		return nil, fmt.Errorf("wlr-randr: %w", err)
	}
	return parseWlrRandr(string(out)), nil
}

func parseWlrRandr(out string) []Monitor {
	var (
		monitors []Monitor
		block    Monitor
		open     bool
	)
	flush := func() {
		if open && block.Width > 0 && block.Height > 0 {
			monitors = append(monitors, block)
		}
		open = false
	}

	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		line := scanner.Text()
		if line != "" && !strings.HasPrefix(line, " ") && !strings.HasPrefix(line, "\t") {
			flush()
			block = Monitor{Name: strings.TrimSpace(line)}
			open = true
			continue
		}
		if !open {
			continue
		}
		// "Position: x,y" may appear before or after the mode list
		// depending on the wlr-randr version.
		if pos := wlrPosition.FindStringSubmatch(line); pos != nil {
			block.X, block.Y = atoi(pos[1]), atoi(pos[2])
			continue
		}
		if block.Width == 0 && strings.Contains(strings.ToLower(line), "current") {
			if mode := wlrMode.FindStringSubmatch(line); mode != nil {
				block.Width, block.Height = atoi(mode[1]), atoi(mode[2])
			}
		}
	}
	flush()
	return monitors
}

// nativeSource enumerates displays in-process. Always available when a
// display is attached, but names are synthetic.
type nativeSource struct{}

func (nativeSource) Name() string { return "native" }

func (nativeSource) Detect(ctx context.Context) ([]Monitor, error) {
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return nil, fmt.Errorf("no active displays")
	}

	monitors := make([]Monitor, 0, n)
	for i := 0; i < n; i++ {
		b := screenshot.GetDisplayBounds(i)
		monitors = append(monitors, Monitor{
			Name:   fmt.Sprintf("Display %d", i+1),
			Width:  b.Dx(),
			Height: b.Dy(),
			X:      b.Min.X,
			Y:      b.Min.Y,
		})
	}
	return monitors, nil
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
