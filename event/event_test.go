package event_test

import (
	"fmt"
	"testing"

	"github.com/plus3/slidedeck/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSource(t *testing.T) {
	t.Run("emits in subscription order", func(t *testing.T) {
		src := event.NewSource[int]("numbers")
		var got []string
		src.Subscribe(func(v int) { got = append(got, fmt.Sprintf("a%d", v)) })
		src.Subscribe(func(v int) { got = append(got, fmt.Sprintf("b%d", v)) })

		src.Emit(1)
		src.Emit(2)
		assert.Equal(t, []string{"a1", "b1", "a2", "b2"}, got)
		assert.Equal(t, "numbers", src.Name())
	})

	t.Run("unsubscribe", func(t *testing.T) {
		src := event.NewSource[int]("numbers")
		calls := 0
		sub := src.Subscribe(func(int) { calls++ })
		assert.True(t, src.Unsubscribe(sub))
		assert.False(t, src.Unsubscribe(sub))
		src.Emit(1)
		assert.Equal(t, 0, calls)
		assert.Equal(t, 0, src.Len())
	})

	t.Run("handler removed mid emission is skipped", func(t *testing.T) {
		src := event.NewSource[int]("numbers")
		var second event.Subscription
		calls := 0
		src.Subscribe(func(int) { src.Unsubscribe(second) })
		second = src.Subscribe(func(int) { calls++ })

		src.Emit(1)
		assert.Equal(t, 0, calls)
		assert.Equal(t, 1, src.Len())
	})

	t.Run("handler added mid emission waits for the next one", func(t *testing.T) {
		src := event.NewSource[int]("numbers")
		late := 0
		src.Subscribe(func(int) {
			src.Subscribe(func(int) { late++ })
		})

		src.Emit(1)
		assert.Equal(t, 0, late)
		src.Emit(2)
		assert.Equal(t, 1, late)
	})

	t.Run("nil handler panics", func(t *testing.T) {
		src := event.NewSource[int]("numbers")
		assert.Panics(t, func() { src.Subscribe(nil) })
	})
}

func TestWaitOnceResolvesEachWaiterOnce(t *testing.T) {
	src := event.NewSource[event.Click]("click")

	first := event.WaitOnce(src)
	second := event.WaitOnce(src)
	require.Equal(t, 2, src.Len())

	var resolved []string
	first.OnResolve(func(event.Click) { resolved = append(resolved, "first") })
	second.OnResolve(func(event.Click) { resolved = append(resolved, "second") })

	src.Emit(event.Click{X: 3, Y: 4})

	assert.True(t, first.Done())
	assert.True(t, second.Done())
	assert.Equal(t, []string{"first", "second"}, resolved)
	assert.Equal(t, 0, src.Len(), "no subscriptions remain")

	src.Emit(event.Click{X: 9, Y: 9})
	assert.Equal(t, []string{"first", "second"}, resolved)

	v, ok := first.Value()
	assert.True(t, ok)
	assert.Equal(t, event.Click{X: 3, Y: 4}, v)
}

func TestWaitOnceUnsubscribesBeforeDelivery(t *testing.T) {
	src := event.NewSource[int]("numbers")
	p := event.WaitOnce(src)

	var lenDuringResolve int
	p.OnResolve(func(int) { lenDuringResolve = src.Len() })
	src.Emit(7)

	assert.Equal(t, 0, lenDuringResolve)
}

func TestWaitOnceCancel(t *testing.T) {
	src := event.NewSource[int]("numbers")
	p := event.WaitOnce(src)

	called := false
	p.OnResolve(func(int) { called = true })

	assert.True(t, p.Cancel())
	assert.False(t, p.Cancel())
	assert.True(t, p.Canceled())
	assert.Equal(t, 0, src.Len())

	src.Emit(1)
	assert.False(t, called)
	assert.False(t, p.Done())

	p.OnResolve(func(int) { called = true })
	assert.False(t, called)
}

func TestWaitOnceFunc(t *testing.T) {
	in := event.NewInput()
	p := event.WaitOnceFunc(in.Keys, event.AnyKey("space", "enter"))

	in.Press("a")
	assert.False(t, p.Done())
	assert.Equal(t, 1, in.Keys.Len())

	in.Press("enter")
	assert.True(t, p.Done())
	k, _ := p.Value()
	assert.Equal(t, event.Key("enter"), k)
	assert.Equal(t, 0, in.Keys.Len())
}

func TestOnResolveAfterDone(t *testing.T) {
	in := event.NewInput()
	p := event.WaitOnce(in.Clicks)
	in.Click(1, 2)

	var got event.Click
	p.OnResolve(func(c event.Click) { got = c })
	assert.Equal(t, event.Click{X: 1, Y: 2, Button: event.ButtonLeft}, got)
}

func ExampleWaitOnce() {
	in := event.NewInput()
	wait := event.WaitOnce(in.Clicks)
	wait.OnResolve(func(c event.Click) {
		fmt.Printf("clicked at %.0f,%.0f\n", c.X, c.Y)
	})

	in.Click(40, 12)
	in.Click(80, 24)
	fmt.Println("subscriptions:", in.Clicks.Len())
	// Output:
	// clicked at 40,12
	// subscriptions: 0
}
