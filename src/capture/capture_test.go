package capture

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubTool writes a pre-rendered PNG, fails, or writes nothing. With
// failAfterWrite it flushes its output and then reports failure, like an
// external tool killed by the per-tool timeout after writing.
type stubTool struct {
	name           string
	data           []byte
	origin         image.Point
	err            error
	silent         bool // claim success without writing
	failAfterWrite bool
}

func (s stubTool) Name() string { return s.name }

func (s stubTool) Capture(_ context.Context, outPath string) (image.Point, error) {
	if s.err != nil && !s.failAfterWrite {
		return image.Point{}, s.err
	}
	if s.silent {
		return s.origin, nil
	}
	if werr := os.WriteFile(outPath, s.data, 0644); werr != nil {
		return image.Point{}, werr
	}
	return s.origin, s.err
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func managerWith(tools ...Tool) *Manager {
	return &Manager{tools: tools, timeout: 2 * time.Second}
}

func TestCaptureFirstWorkingToolWins(t *testing.T) {
	data := testPNG(t, 100, 80)
	m := managerWith(
		stubTool{name: "broken", err: errors.New("not installed")},
		stubTool{name: "empty", silent: true},
		stubTool{name: "good", data: data, origin: image.Pt(-1920, 0)},
	)

	art, err := m.Capture(context.Background())
	require.NoError(t, err)
	defer art.Cleanup()

	assert.Equal(t, image.Pt(-1920, 0), art.Origin)
	assert.Equal(t, 100, art.Image.Bounds().Dx())
	assert.Equal(t, 80, art.Image.Bounds().Dy())
	assert.FileExists(t, art.Path)
}

func TestCaptureAllToolsFail(t *testing.T) {
	m := managerWith(
		stubTool{name: "a", err: errors.New("no")},
		stubTool{name: "b", err: errors.New("also no")},
	)

	_, err := m.Capture(context.Background())
	require.ErrorIs(t, err, ErrToolUnavailable)
}

func TestCaptureFailedToolLeavesNoFile(t *testing.T) {
	before, err := filepath.Glob(filepath.Join(os.TempDir(), "pixel-measure-*.png"))
	require.NoError(t, err)

	m := managerWith(stubTool{
		name:           "killed",
		data:           testPNG(t, 100, 80),
		err:            context.DeadlineExceeded,
		failAfterWrite: true,
	})

	_, err = m.Capture(context.Background())
	require.ErrorIs(t, err, ErrToolUnavailable)

	after, err := filepath.Glob(filepath.Join(os.TempDir(), "pixel-measure-*.png"))
	require.NoError(t, err)
	assert.Equal(t, before, after, "failed capture must not leave temp files behind")
}

func TestCaptureRecoversAfterPartialWrite(t *testing.T) {
	// A later tool must not inherit the partial output of an earlier one.
	data := testPNG(t, 60, 40)
	m := managerWith(
		stubTool{name: "flaky", data: []byte("partial"), err: errors.New("killed"), failAfterWrite: true},
		stubTool{name: "good", data: data},
	)

	art, err := m.Capture(context.Background())
	require.NoError(t, err)
	defer art.Cleanup()

	assert.Equal(t, 60, art.Image.Bounds().Dx())
	assert.Equal(t, 40, art.Image.Bounds().Dy())
}

func TestCaptureTooSmallArtifact(t *testing.T) {
	m := managerWith(stubTool{name: "tiny", data: []byte("PNG?")})

	_, err := m.Capture(context.Background())
	require.ErrorIs(t, err, ErrArtifactInvalid)
}

func TestCaptureCorruptArtifact(t *testing.T) {
	junk := make([]byte, MinArtifactBytes+10)
	m := managerWith(stubTool{name: "junk", data: junk})

	_, err := m.Capture(context.Background())
	require.ErrorIs(t, err, ErrImageLoad)
}

func TestArtifactCleanupIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "artifact.png")
	require.NoError(t, os.WriteFile(path, testPNG(t, 10, 10), 0644))

	art := &Artifact{Path: path}
	require.NoError(t, art.Cleanup())
	assert.NoFileExists(t, path)
	assert.True(t, art.Removed())

	// Second cleanup is a no-op, not an error.
	require.NoError(t, art.Cleanup())
}

func TestCropClampsToImageBounds(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 200, 100))
	art := &Artifact{Image: img}

	t.Run("Rect inside bounds", func(t *testing.T) {
		got := art.Crop(image.Rect(10, 10, 60, 40))
		assert.Equal(t, image.Rect(0, 0, 50, 30), got.Bounds())
	})

	t.Run("Rect exceeding bounds shrinks", func(t *testing.T) {
		got := art.Crop(image.Rect(150, 50, 500, 400))
		assert.Equal(t, image.Rect(0, 0, 50, 50), got.Bounds())
	})

	t.Run("Rect fully outside keeps full image", func(t *testing.T) {
		got := art.Crop(image.Rect(1000, 1000, 2000, 2000))
		assert.Equal(t, img.Bounds(), got.Bounds())
	})
}

func TestCropHonorsCaptureOrigin(t *testing.T) {
	// A desktop whose union starts at (-1920, 0): monitor coordinates are
	// negative but image pixels start at zero.
	img := image.NewRGBA(image.Rect(0, 0, 3840, 1080))
	art := &Artifact{Image: img, Origin: image.Pt(-1920, 0)}

	got := art.Crop(image.Rect(-1920, 0, 0, 1080))
	assert.Equal(t, image.Rect(0, 0, 1920, 1080), got.Bounds())
}

func TestToolsByName(t *testing.T) {
	m := NewManager([]string{"grim", "bogus", "native"}, 5)
	assert.Equal(t, []string{"grim", "native"}, m.Tools())

	def := NewManager(nil, 5)
	assert.Equal(t, []string{"native", "gnome-screenshot", "grim", "scrot"}, def.Tools())
}
