package services

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebouncerCoalescesBursts(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)
	var fires int32

	for i := 0; i < 5; i++ {
		d.Schedule(func() { atomic.AddInt32(&fires, 1) })
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&fires))
}

func TestDebouncerCancelDropsPending(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	var fires int32

	d.Schedule(func() { atomic.AddInt32(&fires, 1) })
	assert.True(t, d.Cancel())

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&fires))
	assert.False(t, d.Cancel())
}

func TestDebouncerFlushNowRunsSynchronously(t *testing.T) {
	d := NewDebouncer(time.Hour)
	var fires int32

	d.Schedule(func() { atomic.AddInt32(&fires, 1) })
	assert.True(t, d.FlushNow())
	assert.Equal(t, int32(1), atomic.LoadInt32(&fires))

	// nothing pending after a flush, and the timer never fires later
	assert.False(t, d.FlushNow())
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&fires))
}
