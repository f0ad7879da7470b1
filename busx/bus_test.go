package busx_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abraxas-365/dispatchable/busx"
	"github.com/Abraxas-365/dispatchable/errx"
	"github.com/Abraxas-365/dispatchable/logx"
)

type message struct {
	Text string
}

type baseTask struct {
	ID string
}

type taskDone struct {
	baseTask
	Code int
}

type cancellableClick struct {
	busx.CancelState
	X, Y int
}

type cancellableTask struct {
	baseTask
	busx.CancelState
}

func newQuietBus() *busx.Bus {
	l := logx.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logx.OffLevel)
	return busx.New(busx.WithLogger(l))
}

func TestPostDeliversToTypedHandler(t *testing.T) {
	bus := newQuietBus()

	var got string
	busx.On(bus, func(e message) error {
		got = e.Text
		return nil
	}, busx.Normal)

	require.NoError(t, bus.Post(message{Text: "hello!"}))
	assert.Equal(t, "hello!", got)
}

func TestPostPointerEventReachesValueHandler(t *testing.T) {
	bus := newQuietBus()

	var got string
	busx.On(bus, func(e message) error {
		got = e.Text
		return nil
	}, busx.Normal)

	require.NoError(t, bus.Post(&message{Text: "via pointer"}))
	assert.Equal(t, "via pointer", got)
}

func TestPriorityOrder(t *testing.T) {
	bus := newQuietBus()

	var order []string
	record := func(label string) func(message) error {
		return func(message) error {
			order = append(order, label)
			return nil
		}
	}

	busx.On(bus, record("LOWEST"), busx.Lowest)
	busx.On(bus, record("LOW"), busx.Low)
	busx.On(bus, record("NORMAL"), busx.Normal)
	busx.On(bus, record("HIGH"), busx.High)
	busx.On(bus, record("HIGHEST"), busx.Highest)

	require.NoError(t, bus.Post(message{Text: "priority"}))
	assert.Equal(t, []string{"HIGHEST", "HIGH", "NORMAL", "LOW", "LOWEST"}, order)
}

func TestHighThenLow(t *testing.T) {
	bus := newQuietBus()

	var order []string
	busx.On(bus, func(message) error {
		order = append(order, "HIGH")
		return nil
	}, busx.High)
	busx.On(bus, func(message) error {
		order = append(order, "LOW")
		return nil
	}, busx.Low)

	require.NoError(t, bus.Post(message{}))
	assert.Equal(t, []string{"HIGH", "LOW"}, order)
}

func TestEqualPriorityKeepsRegistrationOrder(t *testing.T) {
	bus := newQuietBus()

	var order []string
	for _, label := range []string{"first", "second", "third"} {
		label := label
		busx.On(bus, func(message) error {
			order = append(order, label)
			return nil
		}, busx.Normal)
	}

	require.NoError(t, bus.Post(message{}))
	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestSupertypeDelivery(t *testing.T) {
	bus := newQuietBus()

	var seen []string
	busx.On(bus, func(e taskDone) error {
		seen = append(seen, "done:"+e.ID)
		return nil
	}, busx.Normal)
	busx.On(bus, func(e baseTask) error {
		seen = append(seen, "base:"+e.ID)
		return nil
	}, busx.Normal)

	require.NoError(t, bus.Post(taskDone{baseTask: baseTask{ID: "42"}, Code: 0}))
	assert.Equal(t, []string{"done:42", "base:42"}, seen,
		"the concrete tier runs before ancestor tiers")
}

func TestCancellationStopsLowerPriority(t *testing.T) {
	bus := newQuietBus()

	busx.On(bus, func(e *cancellableClick) error {
		e.Cancel()
		return nil
	}, busx.Highest)

	lowRan := false
	busx.On(bus, func(*cancellableClick) error {
		lowRan = true
		return nil
	}, busx.Low)

	require.NoError(t, bus.Post(&cancellableClick{X: 1, Y: 2}))
	assert.False(t, lowRan, "low priority handler must not run after cancellation")
}

func TestCancellationStopsAncestorTiers(t *testing.T) {
	bus := newQuietBus()

	busx.On(bus, func(e *cancellableTask) error {
		e.Cancel()
		return nil
	}, busx.Normal)

	baseRan := false
	busx.On(bus, func(baseTask) error {
		baseRan = true
		return nil
	}, busx.Normal)

	require.NoError(t, bus.Post(&cancellableTask{baseTask: baseTask{ID: "7"}}))
	assert.False(t, baseRan, "cancellation aborts all remaining tiers, not just the current one")
}

func TestOnceHandlerFiresExactlyOnce(t *testing.T) {
	bus := newQuietBus()

	calls := 0
	busx.On(bus, func(message) error {
		calls++
		return nil
	}, busx.Normal, busx.Once())

	assert.True(t, bus.HasSubscribers(busx.TypeOf[message]()))
	require.NoError(t, bus.Post(message{}))
	require.NoError(t, bus.Post(message{}))

	assert.Equal(t, 1, calls)
	assert.False(t, bus.HasSubscribers(busx.TypeOf[message]()))
}

func TestUnsubscribeAndResubscribe(t *testing.T) {
	bus := newQuietBus()

	calls := 0
	id := busx.On(bus, func(message) error {
		calls++
		return nil
	}, busx.Normal)

	bus.Unsubscribe(id)
	require.NoError(t, bus.Post(message{}))
	assert.Equal(t, 0, calls)
	assert.False(t, bus.HasSubscribers(busx.TypeOf[message]()))

	bus.Subscribe(id)
	require.NoError(t, bus.Post(message{}))
	assert.Equal(t, 1, calls, "subscribe resumes delivery without re-registration")
}

func TestUnregisterRemovesAcrossTypes(t *testing.T) {
	bus := newQuietBus()

	id := busx.On(bus, func(message) error { return nil }, busx.Normal)
	busx.On(bus, func(baseTask) error { return nil }, busx.Normal, busx.As(id))

	bus.Unregister(id)
	assert.Equal(t, 0, bus.CountSubscribers(busx.TypeOf[message]()))
	assert.Equal(t, 0, bus.CountSubscribers(busx.TypeOf[baseTask]()))
	assert.Empty(t, bus.Subscribers(busx.TypeOf[message]()))
}

func TestCountSubscribersIsActiveOnly(t *testing.T) {
	bus := newQuietBus()

	kept := busx.On(bus, func(message) error { return nil }, busx.Normal)
	paused := busx.On(bus, func(message) error { return nil }, busx.Normal)
	bus.Unsubscribe(paused)

	assert.Equal(t, 1, bus.CountSubscribers(busx.TypeOf[message]()))
	assert.Equal(t, []busx.SubscriberID{kept}, bus.Subscribers(busx.TypeOf[message]()))
}

func TestPostWithoutHandlersIsNoop(t *testing.T) {
	bus := newQuietBus()
	assert.NoError(t, bus.Post(message{Text: "nobody listens"}))
	assert.NoError(t, bus.Post(nil))
}

func TestPostReturnsHandlerError(t *testing.T) {
	bus := newQuietBus()

	boom := errors.New("boom")
	busx.On(bus, func(message) error { return boom }, busx.Normal)

	assert.ErrorIs(t, bus.Post(message{}), boom)
}

func TestHandlerErrorStopsDispatch(t *testing.T) {
	bus := newQuietBus()

	busx.On(bus, func(message) error { return errors.New("boom") }, busx.High)
	lowRan := false
	busx.On(bus, func(message) error {
		lowRan = true
		return nil
	}, busx.Low)

	require.Error(t, bus.Post(message{}))
	assert.False(t, lowRan)
}

func TestHandlerPanicBecomesError(t *testing.T) {
	bus := newQuietBus()

	busx.On(bus, func(message) error {
		panic("handler exploded")
	}, busx.Normal)

	err := bus.Post(message{})
	require.Error(t, err)
	assert.True(t, errx.IsCode(err, busx.ErrHandlerPanic))
}

func TestPostAsync(t *testing.T) {
	bus := newQuietBus()

	done := make(chan string, 1)
	busx.On(bus, func(e message) error {
		done <- e.Text
		return nil
	}, busx.Normal)

	f := bus.PostAsync(message{Text: "async"})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := f.Wait(ctx)
	require.NoError(t, err)

	select {
	case got := <-done:
		assert.Equal(t, "async", got)
	default:
		t.Fatal("handler did not run")
	}
}

func TestSchedule(t *testing.T) {
	bus := newQuietBus()

	done := make(chan struct{})
	busx.On(bus, func(message) error {
		close(done)
		return nil
	}, busx.Normal)

	bus.Schedule(message{}, 10*time.Millisecond)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduled event never fired")
	}
}

func TestScheduleStop(t *testing.T) {
	bus := newQuietBus()

	fired := make(chan struct{}, 1)
	busx.On(bus, func(message) error {
		fired <- struct{}{}
		return nil
	}, busx.Normal)

	timer := bus.Schedule(message{}, 50*time.Millisecond)
	require.True(t, timer.Stop())

	select {
	case <-fired:
		t.Fatal("stopped timer still delivered")
	case <-time.After(150 * time.Millisecond):
	}
}
