package progress

import "testing"

func TestSubscribePublish(t *testing.T) {
	ps := New()

	sub := ps.Subscribe(TopicTransfer, "", 4)
	defer ps.Unsubscribe(sub)

	ps.Publish(TopicTransfer, "", Event{Operation: "transfer", Completed: 1, Total: 2})

	select {
	case event := <-sub.Channel:
		if event.Completed != 1 || event.Total != 2 {
			t.Errorf("Unexpected event: %+v", event)
		}
	default:
		t.Fatal("Expected a buffered event")
	}
}

func TestPublish_TopicIsolation(t *testing.T) {
	ps := New()

	sub := ps.Subscribe(TopicSend, "", 4)
	defer ps.Unsubscribe(sub)

	ps.Publish(TopicTransfer, "", Event{Operation: "transfer"})

	select {
	case event := <-sub.Channel:
		t.Errorf("Send subscriber should not see transfer events, got %+v", event)
	default:
	}
}

func TestPublish_ProjectFilter(t *testing.T) {
	ps := New()

	matching := ps.Subscribe(TopicDali, "project-a", 4)
	other := ps.Subscribe(TopicDali, "project-b", 4)
	firehose := ps.Subscribe(TopicDali, "", 4)
	defer ps.Unsubscribe(matching)
	defer ps.Unsubscribe(other)
	defer ps.Unsubscribe(firehose)

	ps.Publish(TopicDali, "project-a", Event{Operation: "reconcile"})

	if len(matching.Channel) != 1 {
		t.Error("Matching filter should receive the event")
	}
	if len(other.Channel) != 0 {
		t.Error("Non-matching filter should not receive the event")
	}
	if len(firehose.Channel) != 1 {
		t.Error("Empty filter should receive everything")
	}
}

func TestPublish_SlowSubscriberDropsEvents(t *testing.T) {
	ps := New()

	sub := ps.Subscribe(TopicImport, "", 1)
	defer ps.Unsubscribe(sub)

	// Second publish must not block on the full buffer.
	ps.Publish(TopicImport, "", Event{Completed: 1})
	ps.Publish(TopicImport, "", Event{Completed: 2})

	if len(sub.Channel) != 1 {
		t.Fatalf("Expected 1 buffered event, got %d", len(sub.Channel))
	}
	if event := <-sub.Channel; event.Completed != 1 {
		t.Errorf("Expected the first event to survive, got %+v", event)
	}
}

func TestUnsubscribe(t *testing.T) {
	ps := New()

	sub := ps.Subscribe(TopicTransfer, "", 1)
	if ps.SubscriberCount(TopicTransfer) != 1 {
		t.Fatalf("Expected 1 subscriber, got %d", ps.SubscriberCount(TopicTransfer))
	}

	ps.Unsubscribe(sub)
	if ps.SubscriberCount(TopicTransfer) != 0 {
		t.Errorf("Expected 0 subscribers, got %d", ps.SubscriberCount(TopicTransfer))
	}

	if _, open := <-sub.Channel; open {
		t.Error("Channel should be closed after unsubscribe")
	}

	// Unsubscribing twice is harmless.
	ps.Unsubscribe(sub)
}
