// ABOUTME: Tests for the typed fan-out broadcaster
// ABOUTME: Covers delivery, key isolation, exclusion, slow consumers and cleanup

package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signal struct {
	Kind string
	ID   string
}

func recv(t *testing.T, ch <-chan signal) signal {
	t.Helper()
	select {
	case v, ok := <-ch:
		require.True(t, ok, "channel closed unexpectedly")
		return v
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for value")
	}
	return signal{}
}

func assertNothing(t *testing.T, ch <-chan signal) {
	t.Helper()
	select {
	case v := <-ch:
		t.Fatalf("unexpected value %+v", v)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBroadcaster_AllSubscribersReceive(t *testing.T) {
	b := NewBroadcaster[signal](nil)
	defer b.Close()

	ch1, _ := b.Subscribe(t.Context(), "page-1")
	ch2, _ := b.Subscribe(t.Context(), "page-1")

	b.Publish("page-1", signal{Kind: "ended", ID: "7"}, "")

	assert.Equal(t, "7", recv(t, ch1).ID)
	assert.Equal(t, "7", recv(t, ch2).ID)
}

func TestBroadcaster_KeysAreIsolated(t *testing.T) {
	b := NewBroadcaster[signal](nil)
	defer b.Close()

	ch1, _ := b.Subscribe(t.Context(), "page-1")
	ch2, _ := b.Subscribe(t.Context(), "page-2")

	b.Publish("page-1", signal{Kind: "list"}, "")

	assert.Equal(t, "list", recv(t, ch1).Kind)
	assertNothing(t, ch2)
}

func TestBroadcaster_ExcludeSkipsOriginator(t *testing.T) {
	b := NewBroadcaster[signal](nil)
	defer b.Close()

	ch1, sub1 := b.Subscribe(t.Context(), "page-1")
	ch2, _ := b.Subscribe(t.Context(), "page-1")

	b.Publish("page-1", signal{Kind: "thread"}, sub1)

	assertNothing(t, ch1)
	assert.Equal(t, "thread", recv(t, ch2).Kind)
}

func TestBroadcaster_NoReplayForLateSubscribers(t *testing.T) {
	b := NewBroadcaster[signal](nil)
	defer b.Close()

	b.Publish("page-1", signal{Kind: "ended"}, "")
	ch, _ := b.Subscribe(t.Context(), "page-1")

	assertNothing(t, ch)
}

func TestBroadcaster_SlowConsumerDoesNotBlockPublisher(t *testing.T) {
	b := NewBroadcaster[signal](nil)
	defer b.Close()

	_, _ = b.Subscribe(t.Context(), "page-1")
	fast, _ := b.Subscribe(t.Context(), "page-1")

	done := make(chan struct{})
	go func() {
		defer close(done)
		for range 3 * subscriberBufferSize {
			b.Publish("page-1", signal{Kind: "thread"}, "")
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publisher blocked on a slow subscriber")
	}
	assert.Equal(t, "thread", recv(t, fast).Kind)
}

func TestBroadcaster_ContextCancellationCleansUp(t *testing.T) {
	b := NewBroadcaster[signal](nil)
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	ch, _ := b.Subscribe(ctx, "page-1")
	assert.Equal(t, 1, b.Subscribers("page-1"))

	cancel()

	select {
	case _, ok := <-ch:
		assert.False(t, ok, "channel should be closed after context cancel")
	case <-time.After(time.Second):
		t.Fatal("channel not closed after context cancel")
	}
	assert.Equal(t, 0, b.Subscribers("page-1"))
}

func TestBroadcaster_UnsubscribeThenPublish(t *testing.T) {
	b := NewBroadcaster[signal](nil)
	defer b.Close()

	ch, subID := b.Subscribe(t.Context(), "page-1")
	b.Unsubscribe("page-1", subID)
	b.Unsubscribe("page-1", subID)

	_, ok := <-ch
	assert.False(t, ok)

	b.Publish("page-1", signal{Kind: "list"}, "")
}

func TestBroadcaster_CloseClosesEverything(t *testing.T) {
	b := NewBroadcaster[signal](nil)

	ch1, _ := b.Subscribe(t.Context(), "page-1")
	ch2, _ := b.Subscribe(t.Context(), "page-2")
	b.Close()

	for _, ch := range []<-chan signal{ch1, ch2} {
		_, ok := <-ch
		assert.False(t, ok)
	}

	late, _ := b.Subscribe(t.Context(), "page-1")
	_, ok := <-late
	assert.False(t, ok, "subscriptions after Close get a closed channel")
}

func TestBroadcaster_ConcurrentPublishSubscribe(t *testing.T) {
	b := NewBroadcaster[signal](nil)
	defer b.Close()

	var wg sync.WaitGroup
	ctx := t.Context()

	for range 10 {
		wg.Go(func() {
			ch, _ := b.Subscribe(ctx, "page-concurrent")
			for range 5 {
				select {
				case <-ch:
				case <-time.After(200 * time.Millisecond):
					return
				}
			}
		})
	}
	for range 10 {
		wg.Go(func() {
			for range 10 {
				b.Publish("page-concurrent", signal{Kind: "thread"}, "")
			}
		})
	}

	wg.Wait()
}
