package notify

import (
	"log"
	"sync"
)

// Change-event types. Events carry no payload beyond type and tenant:
// observers re-fetch the authoritative state, they never trust the event.
const (
	EventAppointments = "appointments_updated"
	EventAvailability = "availability_updated"
	EventCoupons      = "coupons_updated"
	EventServices     = "services_updated"
	EventInventory    = "inventory_updated"
)

type Event struct {
	Type   string `json:"type"`
	Tenant string `json:"tenant,omitempty"`
	Origin string `json:"origin,omitempty"` // process tag, set by the redis bridge
}

type Subscriber struct {
	ch chan Event
}

func (s *Subscriber) C() <-chan Event {
	return s.ch
}

// Hub is the process-wide broadcast channel. Delivery is fire-and-forget:
// a subscriber that cannot keep up loses events, which is fine because
// events are pure invalidation signals.
type Hub struct {
	mu     sync.Mutex
	subs   map[*Subscriber]struct{}
	relays []func(Event)
}

func NewHub() *Hub {
	return &Hub{subs: make(map[*Subscriber]struct{})}
}

func (h *Hub) Subscribe() *Subscriber {
	s := &Subscriber{ch: make(chan Event, 16)}

	h.mu.Lock()
	h.subs[s] = struct{}{}
	h.mu.Unlock()

	return s
}

// Unsubscribe removes a subscriber and closes its channel. Calling it twice
// is a no-op.
func (h *Hub) Unsubscribe(s *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.subs[s]; !ok {
		return
	}
	delete(h.subs, s)
	close(s.ch)
}

// AddRelay registers a fan-out hook (the redis bridge) invoked for locally
// published events.
func (h *Hub) AddRelay(fn func(Event)) {
	h.mu.Lock()
	h.relays = append(h.relays, fn)
	h.mu.Unlock()
}

// Publish sends the event to every current subscriber and to the relays.
func (h *Hub) Publish(ev Event) {
	h.Deliver(ev)

	h.mu.Lock()
	relays := h.relays
	h.mu.Unlock()
	for _, relay := range relays {
		relay(ev)
	}
}

// Deliver sends to local subscribers only. The redis bridge uses it for
// remote events so they are not relayed back out.
func (h *Hub) Deliver(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for s := range h.subs {
		select {
		case s.ch <- ev:
		default:
			log.Println("notify: subscriber lagging, dropping event", ev.Type)
		}
	}
}
