// Package capture produces the transient full-desktop screenshot a
// measurement session works on. Capture is tried against an ordered list of
// providers; the first one that yields a viewable image wins.
package capture

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/png"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrToolUnavailable means every candidate tool failed to produce a file.
	ErrToolUnavailable = errors.New("no screenshot tool available")
	// ErrArtifactInvalid means the capture file is missing or implausibly
	// small (blank/corrupt capture guard).
	ErrArtifactInvalid = errors.New("capture artifact invalid")
	// ErrImageLoad means the capture file could not be decoded.
	ErrImageLoad = errors.New("capture image load failed")
)

// MinArtifactBytes guards against blank or truncated captures.
const MinArtifactBytes = 1000

// Tool is one screenshot capability. Capture writes a raster image to
// outPath and returns the virtual-screen coordinate of the image's top-left
// pixel. External tools report the zero origin; the native provider reports
// the union origin of the detected displays so monitor geometry and image
// pixels line up even when the desktop does not start at (0,0).
type Tool interface {
	Name() string
	Capture(ctx context.Context, outPath string) (image.Point, error)
}

// Artifact is the captured screenshot. Owned exclusively by one session and
// deleted at session end; never retained.
type Artifact struct {
	Path   string
	Image  image.Image
	Origin image.Point

	removed bool
}

// Cleanup removes the temp file. Idempotent; safe on every session exit path.
func (a *Artifact) Cleanup() error {
	if a == nil || a.removed {
		return nil
	}
	a.removed = true
	if err := os.Remove(a.Path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Removed reports whether Cleanup already ran.
func (a *Artifact) Removed() bool { return a != nil && a.removed }

// Manager tries the configured tools in order with a per-tool timeout.
type Manager struct {
	tools   []Tool
	timeout time.Duration
}

// NewManager builds a manager. Empty toolNames selects the default order
// (native first, then gnome-screenshot, grim, scrot); unknown names are
// logged and skipped. timeoutSec bounds each tool invocation.
func NewManager(toolNames []string, timeoutSec int) *Manager {
	if timeoutSec <= 0 {
		timeoutSec = 10
	}
	return &Manager{
		tools:   toolsByName(toolNames),
		timeout: time.Duration(timeoutSec) * time.Second,
	}
}

// Tools returns the names of the configured providers in order.
func (m *Manager) Tools() []string {
	names := make([]string, len(m.tools))
	for i, t := range m.tools {
		names[i] = t.Name()
	}
	return names
}

// Capture runs the providers in order and returns the loaded artifact.
// The caller owns the artifact and must run Cleanup on every exit path.
func (m *Manager) Capture(ctx context.Context) (*Artifact, error) {
	path := filepath.Join(os.TempDir(), fmt.Sprintf("pixel-measure-%s.png", uuid.NewString()))

	origin, err := m.run(ctx, path)
	if err != nil {
		return nil, err
	}

	st, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s not found", ErrArtifactInvalid, path)
	}
	if st.Size() < MinArtifactBytes {
		_ = os.Remove(path)
		return nil, fmt.Errorf("%w: %d bytes", ErrArtifactInvalid, st.Size())
	}

	img, err := loadImage(path)
	if err != nil {
		_ = os.Remove(path)
		return nil, err
	}

	log.Printf("capture: %dx%d image at %s (origin %v)", img.Bounds().Dx(), img.Bounds().Dy(), path, origin)
	return &Artifact{Path: path, Image: img, Origin: origin}, nil
}

func (m *Manager) run(ctx context.Context, path string) (image.Point, error) {
	for _, tool := range m.tools {
		toolCtx, cancel := context.WithTimeout(ctx, m.timeout)
		origin, err := tool.Capture(toolCtx, path)
		cancel()
		if err != nil {
			log.Printf("capture: %s failed: %v", tool.Name(), err)
			// A tool killed mid-write (timeout) may have flushed a
			// partial file. Reclaim it so failed attempts never leak
			// temp files.
			_ = os.Remove(path)
			continue
		}
		if _, err := os.Stat(path); err != nil {
			log.Printf("capture: %s reported success but wrote nothing", tool.Name())
			continue
		}
		log.Printf("capture: screenshot via %s", tool.Name())
		return origin, nil
	}
	return image.Point{}, ErrToolUnavailable
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageLoad, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageLoad, err)
	}
	return img, nil
}

// Crop cuts rect (given in virtual-screen coordinates) out of the artifact
// image. The rectangle is translated by the capture origin and clamped to
// the image's actual bounds; a stale or mismatched geometry report therefore
// shrinks the crop instead of failing. An empty clamped rectangle returns
// the full image.
func (a *Artifact) Crop(rect image.Rectangle) image.Image {
	clamped := rect.Sub(a.Origin).Intersect(a.Image.Bounds())
	if clamped.Empty() {
		log.Printf("capture: crop %v outside image bounds %v, keeping full image", rect, a.Image.Bounds())
		return a.Image
	}
	out := image.NewRGBA(image.Rect(0, 0, clamped.Dx(), clamped.Dy()))
	draw.Draw(out, out.Bounds(), a.Image, clamped.Min, draw.Src)
	return out
}
