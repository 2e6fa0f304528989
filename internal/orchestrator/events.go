package orchestrator

import (
	"encoding/json"
	"sync"
)

// Event names published while an ask is in progress.
const (
	EventRoundStarted   = "round_started"
	EventOwnerResponse  = "owner_response"
	EventRoundCompleted = "round_completed"
	EventAnswer         = "answer"
)

// Event is the payload wrapper streamed to subscribers.
type Event struct {
	Event   string `json:"event"`
	TaskID  string `json:"task_id"`
	Payload any    `json:"payload,omitempty"`
}

const subscriberBuffer = 64

type subscriber chan []byte

// Hub fans task events out to any number of subscribers. Delivery is
// best-effort: a subscriber whose buffer is full misses the event.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[subscriber]struct{} // taskID -> set of subscribers
}

func NewHub() *Hub { return &Hub{subs: map[string]map[subscriber]struct{}{}} }

// Subscribe registers for events of taskID. The returned function removes the
// subscription and closes the channel; calling it more than once is safe.
func (h *Hub) Subscribe(taskID string) (<-chan []byte, func()) {
	ch := make(subscriber, subscriberBuffer)
	h.mu.Lock()
	set := h.subs[taskID]
	if set == nil {
		set = map[subscriber]struct{}{}
		h.subs[taskID] = set
	}
	set[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			h.mu.Lock()
			if set, ok := h.subs[taskID]; ok {
				delete(set, ch)
				if len(set) == 0 {
					delete(h.subs, taskID)
				}
			}
			close(ch)
			h.mu.Unlock()
		})
	}
	return ch, unsubscribe
}

// Publish encodes ev once and hands it to every subscriber of taskID without blocking.
func (h *Hub) Publish(taskID string, ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	set := h.subs[taskID]
	if len(set) == 0 {
		return
	}
	b, err := json.Marshal(ev)
	if err != nil {
		return
	}
	for ch := range set {
		select {
		case ch <- b:
		default:
		}
	}
}

// Subscribers reports how many subscriptions taskID currently has.
func (h *Hub) Subscribers(taskID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[taskID])
}
