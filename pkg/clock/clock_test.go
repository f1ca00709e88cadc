package clock

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVirtual_RunsInDueOrder(t *testing.T) {
	v := NewVirtual()
	var order []string

	v.Schedule(30*time.Millisecond, func() { order = append(order, "c") })
	v.Schedule(10*time.Millisecond, func() { order = append(order, "a") })
	v.Schedule(10*time.Millisecond, func() { order = append(order, "b") })

	v.Advance(9 * time.Millisecond)
	assert.Empty(t, order)

	v.Advance(21 * time.Millisecond)
	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.Equal(t, 30*time.Millisecond, v.Now())
}

func TestVirtual_NestedScheduling(t *testing.T) {
	v := NewVirtual()
	var at []time.Duration

	v.Schedule(10*time.Millisecond, func() {
		at = append(at, v.Now())
		v.Schedule(5*time.Millisecond, func() {
			at = append(at, v.Now())
		})
	})

	v.Advance(100 * time.Millisecond)
	assert.Equal(t, []time.Duration{10 * time.Millisecond, 15 * time.Millisecond}, at)
	assert.Equal(t, 100*time.Millisecond, v.Now())
}

func TestVirtual_Drain(t *testing.T) {
	v := NewVirtual()
	v.Schedule(40*time.Millisecond, func() {
		v.Schedule(60*time.Millisecond, func() {})
	})

	assert.Equal(t, 100*time.Millisecond, v.Drain())
	assert.Zero(t, v.Pending())
}

func TestCompletion(t *testing.T) {
	c := NewCompletion()
	var calls []int

	c.Then(func() { calls = append(calls, 1) })
	c.Then(func() { calls = append(calls, 2) })
	assert.False(t, c.Done())

	c.Resolve()
	c.Resolve()
	assert.True(t, c.Done())
	assert.Equal(t, []int{1, 2}, calls)

	c.Then(func() { calls = append(calls, 3) })
	assert.Equal(t, []int{1, 2, 3}, calls)

	ran := false
	Resolved().Then(func() { ran = true })
	assert.True(t, ran)
}

func TestLoop_ScheduleAndCall(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := NewLoop()
	go func() { _ = l.Run(ctx) }()

	var fired atomic.Int32
	l.Schedule(5*time.Millisecond, func() { fired.Add(1) })
	l.Schedule(0, func() { fired.Add(1) })

	assert.Eventually(t, func() bool { return fired.Load() == 2 }, time.Second, 5*time.Millisecond)

	value := 0
	require.NoError(t, l.Call(ctx, func() { value = 42 }))
	assert.Equal(t, 42, value)
}

func TestLoop_CallAfterStop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	l := NewLoop()
	stopped := make(chan struct{})
	go func() {
		_ = l.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	err := l.Call(context.Background(), func() {})
	assert.ErrorIs(t, err, ErrLoopStopped)
}

func TestLoop_RecoversPanics(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := NewLoop()
	go func() { _ = l.Run(ctx) }()

	l.Schedule(0, func() { panic("boom") })
	value := 0
	require.NoError(t, l.Call(ctx, func() { value = 1 }))
	assert.Equal(t, 1, value)
}

func TestLoop_TaskSchedulesManyImmediateTasks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := NewLoop(WithQueueSize(1))
	go func() { _ = l.Run(ctx) }()

	var order []int
	var fired atomic.Int32
	l.Schedule(0, func() {
		for i := 0; i < 8; i++ {
			l.Schedule(0, func() {
				order = append(order, i)
				fired.Add(1)
			})
		}
	})

	assert.Eventually(t, func() bool { return fired.Load() == 8 }, time.Second, 5*time.Millisecond)
	require.NoError(t, l.Call(ctx, func() {
		assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7}, order)
	}))
}

func TestAll(t *testing.T) {
	a, b := NewCompletion(), NewCompletion()
	all := All(a, b, Resolved())

	b.Resolve()
	assert.False(t, all.Done())
	a.Resolve()
	assert.True(t, all.Done())
	assert.True(t, All().Done())
}
