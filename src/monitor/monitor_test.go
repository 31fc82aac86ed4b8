package monitor

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	name     string
	monitors []Monitor
	err      error
}

func (s stubSource) Name() string                            { return s.name }
func (s stubSource) Detect(context.Context) ([]Monitor, error) { return s.monitors, s.err }

func TestDetectFirstSourceWins(t *testing.T) {
	first := stubSource{name: "a", monitors: []Monitor{{Name: "A", Width: 800, Height: 600}}}
	second := stubSource{name: "b", monitors: []Monitor{{Name: "B", Width: 1024, Height: 768}}}

	got := Detect(context.Background(), first, second)
	require.Len(t, got, 1)
	assert.Equal(t, "A", got[0].Name)
}

func TestDetectSkipsFailingAndEmptySources(t *testing.T) {
	failing := stubSource{name: "broken", err: errors.New("no such tool")}
	empty := stubSource{name: "empty"}
	working := stubSource{name: "ok", monitors: []Monitor{{Name: "OK", Width: 1920, Height: 1080}}}

	got := Detect(context.Background(), failing, empty, working)
	require.Len(t, got, 1)
	assert.Equal(t, "OK", got[0].Name)
}

func TestDetectFallsBackToSyntheticMonitor(t *testing.T) {
	got := Detect(context.Background(), stubSource{name: "broken", err: errors.New("nope")})
	require.Len(t, got, 1)
	assert.Equal(t, "Default", got[0].Name)
	assert.Equal(t, 1920, got[0].Width)
	assert.Equal(t, 1080, got[0].Height)
}

func TestDetectSortsByPosition(t *testing.T) {
	src := stubSource{name: "unsorted", monitors: []Monitor{
		{Name: "right", Width: 1920, Height: 1080, X: 1920, Y: 0},
		{Name: "left-bottom", Width: 1920, Height: 1080, X: 0, Y: 1080},
		{Name: "left-top", Width: 1920, Height: 1080, X: 0, Y: 0},
	}}

	got := Detect(context.Background(), src)
	require.Len(t, got, 3)
	assert.Equal(t, "left-top", got[0].Name)
	assert.Equal(t, "left-bottom", got[1].Name)
	assert.Equal(t, "right", got[2].Name)
}

func TestParseWlrRandr(t *testing.T) {
	out := "DP-1 \"Some Vendor\"\n" +
		"  Position: 1920,0\n" +
		"  Modes:\n" +
		"    1920x1080 px, 60.000000 Hz (preferred, current)\n" +
		"eDP-1 \"Builtin\"\n" +
		"  Position: 0,0\n" +
		"  Modes:\n" +
		"    2560x1440 px, 59.951000 Hz (current)\n"

	got := parseWlrRandr(out)
	require.Len(t, got, 2)
	assert.Equal(t, Monitor{Name: `DP-1 "Some Vendor"`, Width: 1920, Height: 1080, X: 1920, Y: 0}, got[0])
	assert.Equal(t, Monitor{Name: `eDP-1 "Builtin"`, Width: 2560, Height: 1440, X: 0, Y: 0}, got[1])
}

func TestParseWlrRandrPositionAfterModes(t *testing.T) {
	// Newer wlr-randr prints Position after the mode list.
	out := "HDMI-A-1 \"Acme 27\"\n" +
		"  Modes:\n" +
		"    3840x2160 px, 30.000000 Hz\n" +
		"    1920x1080 px, 60.000000 Hz (preferred, current)\n" +
		"  Position: 2560,0\n" +
		"  Scale: 1.000000\n"

	got := parseWlrRandr(out)
	require.Len(t, got, 1)
	assert.Equal(t, Monitor{Name: `HDMI-A-1 "Acme 27"`, Width: 1920, Height: 1080, X: 2560, Y: 0}, got[0])
}

func TestXrandrPattern(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		match bool
	}{
		{name: "Plain connected", line: "DP-3 connected 1920x1080+0+600", match: true},
		{name: "Primary connected", line: "DP-3 connected primary 1920x1080+1920+600", match: true},
		{name: "Disconnected", line: "HDMI-1 disconnected (normal left inverted)", match: false},
		{name: "Header", line: "Screen 0: minimum 320 x 200", match: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.match, xrandrConnected.MatchString(tt.line))
		})
	}

	m := xrandrConnected.FindStringSubmatch("DP-3 connected primary 1920x1080+1920+600")
	require.NotNil(t, m)
	assert.Equal(t, []string{"DP-3", "1920", "1080", "1920", "600"}, m[1:])
}

func TestResolve(t *testing.T) {
	monitors := []Monitor{
		{Name: "left", Width: 1920, Height: 1080, X: 0, Y: 0},
		{Name: "right", Width: 1280, Height: 1024, X: 1920, Y: 300},
	}

	t.Run("Index selection", func(t *testing.T) {
		rect, ok := Resolve(SelectIndex(1), monitors)
		require.True(t, ok)
		assert.Equal(t, image.Rect(1920, 300, 3200, 1324), rect)
	})

	t.Run("All monitors is the union box", func(t *testing.T) {
		rect, ok := Resolve(SelectAll(), monitors)
		require.True(t, ok)
		assert.Equal(t, image.Rect(0, 0, 3200, 1324), rect)
	})

	t.Run("None is not resolvable", func(t *testing.T) {
		_, ok := Resolve(SelectNone(), monitors)
		assert.False(t, ok)
	})

	t.Run("Out of range index", func(t *testing.T) {
		_, ok := Resolve(SelectIndex(5), monitors)
		assert.False(t, ok)
	})

	t.Run("All with empty list", func(t *testing.T) {
		_, ok := Resolve(SelectAll(), nil)
		assert.False(t, ok)
	})
}

func TestVirtualBounds(t *testing.T) {
	monitors := []Monitor{
		{Name: "a", Width: 1920, Height: 1080, X: 0, Y: 600},
		{Name: "b", Width: 1920, Height: 1080, X: 1920, Y: 0},
	}
	assert.Equal(t, image.Rect(0, 0, 3840, 1680), VirtualBounds(monitors))
	assert.True(t, VirtualBounds(nil).Empty())
}
