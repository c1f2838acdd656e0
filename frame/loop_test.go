package frame

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/andewx/vkforge/vkerr"
)

func TestNewRenderLoopDerivesPeriodFromFrameRate(t *testing.T) {
	r := NewRenderLoop(func() error { return nil }, 100, nil)
	assert.Equal(t, 10*time.Millisecond, r.period)
}

func TestNewRenderLoopDefaultsPeriodWhenFrameRateNonPositive(t *testing.T) {
	r := NewRenderLoop(func() error { return nil }, 0, nil)
	assert.Equal(t, time.Second, r.period)
}

func TestNewRenderLoopDefaultsOnErrorWhenNil(t *testing.T) {
	r := NewRenderLoop(func() error { return nil }, 60, nil)
	assert.NotPanics(t, func() { r.onError(errors.New("boom")) })
}

func TestTickNotifiesListenersOnSuccess(t *testing.T) {
	var notified int32
	r := NewRenderLoop(func() error { return nil }, 60, nil)
	r.AddListener(ListenerFunc(func(elapsed time.Duration) {
		atomic.AddInt32(&notified, 1)
	}))
	r.tick()
	assert.Equal(t, int32(1), notified)
}

func TestTickRoutesErrorsAndSkipsListeners(t *testing.T) {
	var gotErr error
	var notified int32
	boom := errors.New("draw failed")
	r := NewRenderLoop(func() error { return boom }, 60, func(err error) { gotErr = err })
	r.AddListener(ListenerFunc(func(elapsed time.Duration) {
		atomic.AddInt32(&notified, 1)
	}))
	r.tick()
	assert.Equal(t, boom, gotErr)
	assert.Equal(t, int32(0), notified)
}

func TestTickRoutesSwapchainInvalidatedToRebuilderInsteadOfOnError(t *testing.T) {
	var gotErr error
	var rebuilt int32
	invalidated := vkerr.NewSwapchainInvalidated("vkAcquireNextImageKHR", 0)
	r := NewRenderLoop(func() error { return invalidated }, 60, func(err error) { gotErr = err })
	r.SetRebuilder(func() error {
		atomic.AddInt32(&rebuilt, 1)
		return nil
	})
	r.tick()
	assert.Equal(t, int32(1), rebuilt)
	assert.Nil(t, gotErr, "a successful rebuild must not also reach onError")
}

func TestTickRoutesRebuildFailureToOnError(t *testing.T) {
	var gotErr error
	invalidated := vkerr.NewSwapchainInvalidated("vkQueuePresentKHR", 0)
	rebuildErr := errors.New("rebuild failed")
	r := NewRenderLoop(func() error { return invalidated }, 60, func(err error) { gotErr = err })
	r.SetRebuilder(func() error { return rebuildErr })
	r.tick()
	assert.Equal(t, rebuildErr, gotErr)
}

func TestTickRoutesSwapchainInvalidatedToOnErrorWhenNoRebuilderSet(t *testing.T) {
	var gotErr error
	invalidated := vkerr.NewSwapchainInvalidated("vkQueuePresentKHR", 0)
	r := NewRenderLoop(func() error { return invalidated }, 60, func(err error) { gotErr = err })
	r.tick()
	assert.Equal(t, invalidated, gotErr)
}

func TestStartStopRunsTaskRepeatedlyThenStops(t *testing.T) {
	var calls int32
	r := NewRenderLoop(func() error {
		atomic.AddInt32(&calls, 1)
		return nil
	}, 1000, nil)
	r.Start()
	time.Sleep(25 * time.Millisecond)
	r.Stop()
	seen := atomic.LoadInt32(&calls)
	assert.True(t, seen > 0, "expected at least one tick before Stop")
}

func TestStopIsIdempotentWhenNeverStarted(t *testing.T) {
	r := NewRenderLoop(func() error { return nil }, 60, nil)
	assert.NotPanics(t, r.Stop)
}

func TestStartIsIdempotentWhileRunning(t *testing.T) {
	r := NewRenderLoop(func() error { return nil }, 1000, nil)
	r.Start()
	r.Start()
	r.Stop()
}
