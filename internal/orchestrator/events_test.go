package orchestrator

import (
	"encoding/json"
	"testing"
)

func TestHubDeliversToSubscribersOfTask(t *testing.T) {
	h := NewHub()
	a, unsubA := h.Subscribe("t1")
	b, unsubB := h.Subscribe("t2")
	defer unsubB()

	h.Publish("t1", Event{Event: EventRoundStarted, TaskID: "t1", Payload: map[string]any{"round": 1}})
	unsubA()

	var got Event
	msg, ok := <-a
	if !ok {
		t.Fatal("expected one event before close")
	}
	if err := json.Unmarshal(msg, &got); err != nil {
		t.Fatal(err)
	}
	if got.Event != EventRoundStarted || got.TaskID != "t1" {
		t.Errorf("unexpected event %+v", got)
	}
	if _, ok := <-a; ok {
		t.Error("channel should be closed after unsubscribe")
	}
	select {
	case <-b:
		t.Error("subscriber of another task received the event")
	default:
	}
}

func TestHubUnsubscribeTwiceAndDropWhenFull(t *testing.T) {
	h := NewHub()
	ch, unsub := h.Subscribe("t")
	for i := 0; i < subscriberBuffer+10; i++ {
		h.Publish("t", Event{Event: "x", TaskID: "t"})
	}
	if len(ch) != subscriberBuffer {
		t.Errorf("buffered %d events, want %d", len(ch), subscriberBuffer)
	}
	unsub()
	unsub()
	if n := h.Subscribers("t"); n != 0 {
		t.Errorf("subscribers = %d after unsubscribe", n)
	}
	h.Publish("t", Event{Event: "x", TaskID: "t"})
}
