package capture

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"os/exec"

	"github.com/kbinani/screenshot"
)

// nativeTool captures in-process via the screenshot library. It grabs the
// union rectangle of all active displays, so the returned origin is the
// union's top-left corner in virtual-screen coordinates.
type nativeTool struct{}

func (nativeTool) Name() string { return "native" }

func (nativeTool) Capture(_ context.Context, outPath string) (image.Point, error) {
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return image.Point{}, fmt.Errorf("no active displays")
	}
	union := screenshot.GetDisplayBounds(0)
	for i := 1; i < n; i++ {
		union = union.Union(screenshot.GetDisplayBounds(i))
	}

	img, err := screenshot.CaptureRect(union)
	if err != nil {
		return image.Point{}, err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return image.Point{}, err
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return image.Point{}, err
	}
	return union.Min, nil
}

// execTool shells out to an external screenshot utility that takes the
// output path on its command line. The capture origin is assumed to be the
// zero point; see Artifact.Crop for how a mismatch degrades.
type execTool struct {
	name string
	argv func(outPath string) []string
}

func (t execTool) Name() string { return t.name }

func (t execTool) Capture(ctx context.Context, outPath string) (image.Point, error) {
	args := t.argv(outPath)
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return image.Point{}, fmt.Errorf("%s: %w (%s)", t.name, err, firstLine(out))
	}
	return image.Point{}, nil
}

func firstLine(b []byte) string {
	for i, c := range b {
		if c == '\n' {
			return string(b[:i])
		}
	}
	return string(b)
}

// defaultTools is the provider priority order. The native provider goes
// first: it captures exactly the union of the detected displays, which keeps
// monitor geometry and image pixels consistent. The external tools match the
// classic Linux capture chain.
func defaultTools() []Tool {
	return []Tool{
		nativeTool{},
		execTool{name: "gnome-screenshot", argv: func(out string) []string {
			return []string{"gnome-screenshot", "-f", out}
		}},
		execTool{name: "grim", argv: func(out string) []string {
			return []string{"grim", out}
		}},
		execTool{name: "scrot", argv: func(out string) []string {
			return []string{"scrot", out}
		}},
	}
}

// toolsByName resolves a configured order override against the known
// providers; unknown names are logged and skipped. Empty input keeps the
// default order.
func toolsByName(names []string) []Tool {
	known := defaultTools()
	if len(names) == 0 {
		return known
	}

	byName := make(map[string]Tool, len(known))
	for _, t := range known {
		byName[t.Name()] = t
	}

	var tools []Tool
	for _, name := range names {
		t, ok := byName[name]
		if !ok {
			log.Printf("capture: unknown tool %q in CAPTURE_TOOLS, skipping", name)
			continue
		}
		tools = append(tools, t)
	}
	if len(tools) == 0 {
		return known
	}
	return tools
}
