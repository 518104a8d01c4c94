package monitor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func recvMessage(t *testing.T, ch <-chan Message) Message {
	t.Helper()
	select {
	case msg, ok := <-ch:
		require.True(t, ok, "channel closed unexpectedly")
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
		return Message{}
	}
}

func TestSubscribeReceivesCurrentStatusFirst(t *testing.T) {
	b := NewBroadcaster(8, zap.NewNop())
	b.PublishStatus(Status{Running: true, MonitoredPaths: []string{"/tmp/watched"}})

	id, ch := b.Subscribe()
	defer b.Unsubscribe(id)

	b.Publish(Event{FilePath: "/tmp/watched/a.js", EventType: EventCreated})

	first := recvMessage(t, ch)
	require.Equal(t, MessageStatus, first.Type)
	require.NotNil(t, first.Status)
	assert.True(t, first.Status.Running)
	assert.Equal(t, []string{"/tmp/watched"}, first.Status.MonitoredPaths)

	second := recvMessage(t, ch)
	assert.Equal(t, MessageFileEvent, second.Type)
	require.NotNil(t, second.Event)
	assert.Equal(t, "/tmp/watched/a.js", second.Event.FilePath)
}

func TestSubscribeBeforeAnyStatus(t *testing.T) {
	b := NewBroadcaster(8, zap.NewNop())
	id, ch := b.Subscribe()
	defer b.Unsubscribe(id)

	// Nothing published yet: the queue must be empty, not seeded.
	select {
	case msg := <-ch:
		t.Fatalf("unexpected message %+v", msg)
	default:
	}
}

func TestPublishFansOutToAllSubscribers(t *testing.T) {
	b := NewBroadcaster(8, zap.NewNop())
	id1, ch1 := b.Subscribe()
	defer b.Unsubscribe(id1)
	id2, ch2 := b.Subscribe()
	defer b.Unsubscribe(id2)
	require.Equal(t, 2, b.SubscriberCount())

	b.Publish(Event{FilePath: "/x/evil.ps1"})

	for _, ch := range []<-chan Message{ch1, ch2} {
		msg := recvMessage(t, ch)
		require.Equal(t, MessageFileEvent, msg.Type)
		assert.Equal(t, "/x/evil.ps1", msg.Event.FilePath)
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	b := NewBroadcaster(8, zap.NewNop())
	id, ch := b.Subscribe()

	b.Unsubscribe(id)
	_, ok := <-ch
	assert.False(t, ok)
	assert.Zero(t, b.SubscriberCount())

	// Double unsubscribe is harmless.
	b.Unsubscribe(id)
}

func TestOverflowDropsOldest(t *testing.T) {
	b := NewBroadcaster(2, zap.NewNop())
	id, ch := b.Subscribe()
	defer b.Unsubscribe(id)

	b.Publish(Event{FilePath: "/a"})
	b.Publish(Event{FilePath: "/b"})
	b.Publish(Event{FilePath: "/c"}) // overflows: /a is dropped

	first := recvMessage(t, ch)
	assert.Equal(t, "/b", first.Event.FilePath)
	second := recvMessage(t, ch)
	assert.Equal(t, "/c", second.Event.FilePath)

	select {
	case msg := <-ch:
		t.Fatalf("unexpected extra message %+v", msg)
	default:
	}
}

func TestSlowSubscriberDoesNotBlockPublish(t *testing.T) {
	b := NewBroadcaster(1, zap.NewNop())
	id, _ := b.Subscribe() // never reads
	defer b.Unsubscribe(id)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			b.Publish(Event{FilePath: "/flood"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
}
