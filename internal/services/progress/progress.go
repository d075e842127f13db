// Package progress provides a publish-subscribe feed for long-running
// engine operations, consumed by the websocket progress endpoint.
package progress

import (
	"strconv"
	"sync"
)

// Topic represents a feed topic.
type Topic string

const (
	TopicTransfer Topic = "TRANSFER_PROGRESS"
	TopicSend     Topic = "SEND_PROGRESS"
	TopicDali     Topic = "DALI_PROGRESS"
	TopicImport   Topic = "IMPORT_PROGRESS"
)

// AllTopics lists every feed topic, for subscribers that want the firehose.
var AllTopics = []Topic{TopicTransfer, TopicSend, TopicDali, TopicImport}

// Event is one progress update of a running operation.
type Event struct {
	Operation string `json:"operation"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
	Message   string `json:"message,omitempty"`
}

// Subscriber represents a subscription channel.
type Subscriber struct {
	ID      string
	Topic   Topic
	Filter  string // optional project ID filter
	Channel chan Event
}

// PubSub manages subscriptions and event distribution.
type PubSub struct {
	mu          sync.RWMutex
	subscribers map[Topic][]*Subscriber
	nextID      int
}

// New creates a new PubSub instance.
func New() *PubSub {
	return &PubSub{
		subscribers: make(map[Topic][]*Subscriber),
	}
}

// Subscribe creates a new subscription for a topic.
func (ps *PubSub) Subscribe(topic Topic, filter string, bufferSize int) *Subscriber {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	ps.nextID++
	sub := &Subscriber{
		ID:      strconv.Itoa(ps.nextID),
		Topic:   topic,
		Filter:  filter,
		Channel: make(chan Event, bufferSize),
	}

	ps.subscribers[topic] = append(ps.subscribers[topic], sub)
	return sub
}

// Unsubscribe removes a subscription and closes its channel.
func (ps *PubSub) Unsubscribe(sub *Subscriber) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	subs := ps.subscribers[sub.Topic]
	for i, s := range subs {
		if s.ID == sub.ID {
			close(s.Channel)
			ps.subscribers[sub.Topic] = append(subs[:i], subs[i+1:]...)
			return
		}
	}
}

// Publish sends an event to all subscribers of a topic. If filter is
// non-empty, only subscribers with a matching or empty filter receive it.
// Slow subscribers drop events rather than block the publisher.
func (ps *PubSub) Publish(topic Topic, filter string, event Event) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	for _, sub := range ps.subscribers[topic] {
		if filter != "" && sub.Filter != "" && sub.Filter != filter {
			continue
		}
		select {
		case sub.Channel <- event:
		default:
		}
	}
}

// SubscriberCount returns the number of subscribers for a topic.
func (ps *PubSub) SubscriberCount(topic Topic) int {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	return len(ps.subscribers[topic])
}
