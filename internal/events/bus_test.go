package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func receive(t *testing.T, stream <-chan Message) Message {
	t.Helper()
	select {
	case message := <-stream:
		return message
	case <-time.After(500 * time.Millisecond):
		t.Fatal("expected message within deadline")
		return Message{}
	}
}

func TestBusDeliversByTopic(t *testing.T) {
	bus := NewBus()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	themeStream, cleanupTheme := bus.Subscribe(ctx, TopicThemeChanged)
	defer cleanupTheme()
	dataStream, cleanupData := bus.Subscribe(ctx, TopicDataChanged)
	defer cleanupData()

	bus.Publish(Message{Topic: TopicDataChanged, Collection: "attendance", Value: "2026-02-03"})

	message := receive(t, dataStream)
	assert.Equal(t, "attendance", message.Collection)
	assert.False(t, message.Timestamp.IsZero())

	select {
	case <-themeStream:
		t.Fatal("did not expect a data message on the theme topic")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestBusWildcardReceivesEveryTopic(t *testing.T) {
	bus := NewBus()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream, cleanup := bus.Subscribe(ctx, TopicAll)
	defer cleanup()

	bus.Publish(Message{Topic: TopicThemeChanged, Value: "dark"})
	bus.Publish(Message{Topic: TopicDataChanged, Collection: "projects"})

	assert.Equal(t, TopicThemeChanged, receive(t, stream).Topic)
	assert.Equal(t, TopicDataChanged, receive(t, stream).Topic)
}

func TestBusDropsWhenSubscriberIsFull(t *testing.T) {
	bus := NewBus()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream, cleanup := bus.Subscribe(ctx, TopicDataChanged)
	defer cleanup()

	for i := 0; i < defaultBufferSize*2; i++ {
		bus.Publish(Message{Topic: TopicDataChanged})
	}
	assert.Len(t, stream, defaultBufferSize)
}

func TestBusUnsubscribesWhenContextEnds(t *testing.T) {
	bus := NewBus()
	ctx, cancel := context.WithCancel(context.Background())
	_, _ = bus.Subscribe(ctx, TopicDataChanged)
	require.Equal(t, 1, bus.subscriberCount(TopicDataChanged))

	cancel()
	assert.Eventually(t, func() bool {
		return bus.subscriberCount(TopicDataChanged) == 0
	}, time.Second, 10*time.Millisecond)
}

func TestBusCleanupStopsWatcherForBackgroundContext(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	bus := NewBus()
	for i := 0; i < 8; i++ {
		_, cleanup := bus.Subscribe(context.Background(), TopicDataChanged)
		cleanup()
		cleanup()
	}
	assert.Equal(t, 0, bus.subscriberCount(TopicDataChanged))
}

func TestNilBusIsInert(t *testing.T) {
	var bus *Bus
	bus.Publish(Message{Topic: TopicDataChanged})
	stream, cleanup := bus.Subscribe(context.Background(), TopicDataChanged)
	defer cleanup()
	_, open := <-stream
	assert.False(t, open)
}
