package session_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cory-johannsen/solace/internal/game/session"
)

func TestDeadline_Fires(t *testing.T) {
	var called atomic.Int32
	dl := session.NewDeadline(20*time.Millisecond, func() { called.Add(1) })
	assert.Eventually(t, func() bool { return called.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.True(t, dl.Expired())
	assert.False(t, dl.Stop(), "stopping an expired deadline reports false")
}

func TestDeadline_StopPreventsCallback(t *testing.T) {
	var called atomic.Int32
	dl := session.NewDeadline(50*time.Millisecond, func() { called.Add(1) })
	assert.True(t, dl.Stop())
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, int32(0), called.Load())
	assert.False(t, dl.Expired())
}

func TestDeadline_ResetExtends(t *testing.T) {
	var first, second atomic.Int32
	dl := session.NewDeadline(30*time.Millisecond, func() { first.Add(1) })
	dl.Reset(200*time.Millisecond, func() { second.Add(1) })
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(0), first.Load(), "the replaced callback never runs")
	assert.Equal(t, int32(0), second.Load())
	assert.Eventually(t, func() bool { return second.Load() == 1 }, time.Second, 5*time.Millisecond)
}

func TestDeadline_StopIdempotent(t *testing.T) {
	dl := session.NewDeadline(50*time.Millisecond, func() {})
	dl.Stop()
	dl.Stop()
	dl.Stop()
}
