package worker

import (
	"context"
	"image"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pixel-measure/src/capture"
	"pixel-measure/src/measure"
	"pixel-measure/src/session"
)

// failingCapturer keeps sessions short and deterministic in tests.
type failingCapturer struct {
	started chan struct{}
	release chan struct{}
}

func (c failingCapturer) Capture(context.Context) (*capture.Artifact, error) {
	if c.started != nil {
		close(c.started)
	}
	if c.release != nil {
		<-c.release
	}
	return nil, capture.ErrToolUnavailable
}

// nopPicker satisfies the session's collaborator check; the failing capturer
// guarantees it is never reached.
type nopPicker struct{}

func (nopPicker) Pick(context.Context, image.Image, func(measure.Point)) (measure.Point, measure.Point, bool, error) {
	return measure.Point{}, measure.Point{}, true, nil
}

func TestSubmitRunsSession(t *testing.T) {
	p := New(1)
	defer p.Close()

	done := make(chan session.Result, 1)
	ok := p.Submit(context.Background(), session.Options{
		Capturer: failingCapturer{},
		Picker:   nopPicker{},
	}, func(res session.Result) { done <- res })
	require.True(t, ok)

	select {
	case res := <-done:
		// The capturer fails fast; what matters here is that the pool ran
		// the session and delivered the callback.
		assert.Equal(t, session.Failed, res.State)
	case <-time.After(2 * time.Second):
		t.Fatal("session result not delivered")
	}
}

func TestSubmitBackPressure(t *testing.T) {
	p := New(1)
	defer p.Close()

	started := make(chan struct{})
	release := make(chan struct{})
	var wg sync.WaitGroup

	// First job occupies the worker.
	wg.Add(1)
	ok := p.Submit(context.Background(), session.Options{
		Capturer: failingCapturer{started: started, release: release},
		Picker:   nopPicker{},
	}, func(session.Result) { wg.Done() })
	require.True(t, ok)

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("worker never picked up the first job")
	}

	// Second job takes the single queue slot.
	wg.Add(1)
	ok = p.Submit(context.Background(), session.Options{
		Capturer: failingCapturer{},
		Picker:   nopPicker{},
	}, func(session.Result) { wg.Done() })
	require.True(t, ok)

	// Third is dropped.
	assert.False(t, p.Submit(context.Background(), session.Options{
		Capturer: failingCapturer{},
		Picker:   nopPicker{},
	}, func(session.Result) {}))

	close(release)
	wg.Wait()
}
