package loading

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStart_ResetsProgress(t *testing.T) {
	o := New()
	o.Start("Loading...")
	o.UpdateProgress(40)
	o.Start("Again")

	assert.Equal(t, State{Active: true, Message: "Again", Progress: 0}, o.State())
}

func TestUpdateProgress_Clamps(t *testing.T) {
	o := New()
	o.Start("x")

	o.UpdateProgress(-5)
	assert.Equal(t, 0, o.State().Progress)

	o.UpdateProgress(150)
	assert.Equal(t, 100, o.State().Progress)

	o.UpdateProgress(42)
	assert.Equal(t, 42, o.State().Progress)
}

func TestUpdates_IgnoredWhileInactive(t *testing.T) {
	o := New()
	o.UpdateProgress(50)
	o.UpdateMessage("nobody is loading")

	assert.Equal(t, State{}, o.State())
}

func TestUpdateMessage(t *testing.T) {
	o := New()
	o.Start("step 1")
	o.UpdateMessage("step 2")
	assert.Equal(t, "step 2", o.State().Message)
}

// A second Start overwrites the first and a single Stop ends both: the
// indicator is a shared flag, not a reference count.
func TestOverlappingStarts_SingleStopEndsBoth(t *testing.T) {
	o := New()
	o.Start("Loading...")
	o.Start("Uploading...")
	assert.Equal(t, "Uploading...", o.State().Message)

	o.Stop()
	assert.Equal(t, State{Active: false, Message: "", Progress: 0}, o.State())
}

func TestWithLoading_StopsOnSuccess(t *testing.T) {
	o := New()
	var during State

	err := o.WithLoading(context.Background(), "Fetching events", func(ctx context.Context) error {
		during = o.State()
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, State{Active: true, Message: "Fetching events"}, during)
	assert.Equal(t, State{}, o.State())
}

func TestWithLoading_StopsAndReturnsOriginalError(t *testing.T) {
	o := New()
	boom := errors.New("boom")

	err := o.WithLoading(context.Background(), "x", func(ctx context.Context) error { return boom })

	require.ErrorIs(t, err, boom)
	assert.Equal(t, State{}, o.State())
}

func TestWithLoading_StopsOnPanic(t *testing.T) {
	o := New()

	require.Panics(t, func() {
		_ = o.WithLoading(context.Background(), "x", func(ctx context.Context) error { panic("kaput") })
	})
	assert.Equal(t, State{}, o.State())
}

func TestWithLoadingAndProgress_ReportsAndFinishesAt100(t *testing.T) {
	o := New()
	var seen []State
	unsubscribe := o.Subscribe(func(s State) { seen = append(seen, s) })
	defer unsubscribe()

	err := o.WithLoadingAndProgress(context.Background(), ProgressOptions{Message: "Syncing"}, func(ctx context.Context, p Progress) error {
		p.UpdateProgress(30)
		p.UpdateMessage("Half way")
		p.UpdateProgress(60)
		return nil
	})
	require.NoError(t, err)

	want := []State{
		{Active: true, Message: "Syncing", Progress: 0},
		{Active: true, Message: "Syncing", Progress: 30},
		{Active: true, Message: "Half way", Progress: 30},
		{Active: true, Message: "Half way", Progress: 60},
		{Active: true, Message: "Half way", Progress: 100},
		{},
	}
	assert.Equal(t, want, seen)
}

func TestWithLoadingAndProgress_ErrorSkipsFinalProgress(t *testing.T) {
	o := New()
	var last []int
	o.Subscribe(func(s State) { last = append(last, s.Progress) })
	boom := errors.New("boom")

	err := o.WithLoadingAndProgress(context.Background(), ProgressOptions{Message: "x"}, func(ctx context.Context, p Progress) error {
		p.UpdateProgress(10)
		return boom
	})

	require.ErrorIs(t, err, boom)
	assert.Equal(t, []int{0, 10, 0}, last)
	assert.Equal(t, State{}, o.State())
}

func TestSubscribe_Unsubscribe(t *testing.T) {
	o := New()
	calls := 0
	unsubscribe := o.Subscribe(func(State) { calls++ })

	o.Start("a")
	unsubscribe()
	o.Stop()

	assert.Equal(t, 1, calls)
}

func TestSubscribe_UnsubscribeReleasesSlot(t *testing.T) {
	o := New()
	var got []string
	keep := o.Subscribe(func(State) { got = append(got, "keep") })
	defer keep()

	for range 100 {
		o.Subscribe(func(State) { got = append(got, "gone") })()
	}
	last := o.Subscribe(func(State) { got = append(got, "last") })
	defer last()

	o.Start("x")

	assert.Equal(t, []string{"keep", "last"}, got)
	assert.Len(t, o.order, 2)
	assert.Len(t, o.listeners, 2)
}

func TestConcurrentStartStop_NoRace(t *testing.T) {
	o := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = o.WithLoading(context.Background(), "job", func(ctx context.Context) error {
				o.UpdateProgress(i)
				return nil
			})
		}(i)
	}
	wg.Wait()

	assert.Equal(t, State{}, o.State())
}
