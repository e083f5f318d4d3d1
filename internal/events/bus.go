// Package events fans out change notifications to in-process subscribers such as the SSE stream.
package events

import (
	"context"
	"sync"
	"time"
)

const (
	TopicThemeChanged = "theme-changed"
	TopicDataChanged  = "data-changed"
	// TopicAll subscribes to every topic.
	TopicAll = "*"

	defaultBufferSize = 16
)

// Message is one notification. Collection names the affected record collection for data changes;
// Value carries the topic specific detail (theme name, record key).
type Message struct {
	Topic      string    `json:"topic"`
	Collection string    `json:"collection,omitempty"`
	Value      string    `json:"value,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Bus delivers published messages to topic subscribers. Each subscriber has a bounded buffer;
// messages to a full buffer are dropped.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string]map[int64]*subscriber
	nextID      int64
	bufferSize  int
	clock       func() time.Time
}

type subscriber struct {
	id     int64
	stream chan Message
}

func NewBus() *Bus {
	return &Bus{
		subscribers: make(map[string]map[int64]*subscriber),
		bufferSize:  defaultBufferSize,
		clock:       time.Now,
	}
}

// Subscribe registers for topic until ctx ends or cleanup is called. The returned channel stays
// open; a nil bus or empty topic yields an already closed channel.
func (b *Bus) Subscribe(ctx context.Context, topic string) (<-chan Message, func()) {
	if b == nil || topic == "" {
		ch := make(chan Message)
		close(ch)
		return ch, func() {}
	}
	sub := &subscriber{
		id:     b.nextSequence(),
		stream: make(chan Message, b.bufferSize),
	}
	b.register(topic, sub)
	done := make(chan struct{})
	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			b.unregister(topic, sub.id)
			close(done)
		})
	}
	go func() {
		select {
		case <-ctx.Done():
			cleanup()
		case <-done:
		}
	}()
	return sub.stream, cleanup
}

// Publish delivers message to subscribers of its topic and of TopicAll. A zero timestamp is
// stamped with the bus clock. Publishing on a nil bus is a no-op.
func (b *Bus) Publish(message Message) {
	if b == nil || message.Topic == "" || message.Topic == TopicAll {
		return
	}
	if message.Timestamp.IsZero() {
		message.Timestamp = b.clock().UTC()
	}
	b.mu.RLock()
	copies := make([]*subscriber, 0, len(b.subscribers[message.Topic])+len(b.subscribers[TopicAll]))
	for _, topic := range []string{message.Topic, TopicAll} {
		for _, sub := range b.subscribers[topic] {
			copies = append(copies, sub)
		}
	}
	b.mu.RUnlock()
	for _, sub := range copies {
		select {
		case sub.stream <- message:
		default:
		}
	}
}

func (b *Bus) nextSequence() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	return b.nextID
}

func (b *Bus) register(topic string, sub *subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subscribers[topic]; !ok {
		b.subscribers[topic] = make(map[int64]*subscriber)
	}
	b.subscribers[topic][sub.id] = sub
}

func (b *Bus) unregister(topic string, id int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	subs := b.subscribers[topic]
	if subs == nil {
		return
	}
	delete(subs, id)
	if len(subs) == 0 {
		delete(b.subscribers, topic)
	}
}

func (b *Bus) subscriberCount(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers[topic])
}
