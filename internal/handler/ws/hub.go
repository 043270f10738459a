package ws

import (
	"encoding/json"
	"sync"

	"ForecastAI/internal/domain/models"
	drepo "ForecastAI/internal/domain/repository"
	xlogger "ForecastAI/pkg/logger"
)

// sendBuffer is the number of events queued per subscriber before it is dropped.
const sendBuffer = 32

type subscriber struct {
	send chan []byte
}

// Hub fans session events out to the websocket subscribers of each session.
type Hub struct {
	mu     sync.RWMutex
	subs   map[string]map[*subscriber]struct{}
	closed bool
	logger *xlogger.Logger
}

func NewHub(logger *xlogger.Logger) *Hub {
	if logger == nil {
		logger = xlogger.Nop()
	}
	return &Hub{subs: make(map[string]map[*subscriber]struct{}), logger: logger}
}

// Publish delivers ev to every subscriber of its session without blocking.
// Subscribers whose queue is full are disconnected.
func (h *Hub) Publish(ev models.SessionEvent) {
	b, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error("encode session event", xlogger.String("type", string(ev.Type)), xlogger.Error(err))
		return
	}

	var slow []*subscriber
	h.mu.RLock()
	for sub := range h.subs[ev.SessionID] {
		select {
		case sub.send <- b:
		default:
			slow = append(slow, sub)
		}
	}
	h.mu.RUnlock()

	for _, sub := range slow {
		h.logger.Warn("dropping slow event subscriber", xlogger.String("session_id", ev.SessionID))
		h.unsubscribe(ev.SessionID, sub)
	}
}

// subscribe registers a subscriber for session id. It returns nil once the hub is closed.
func (h *Hub) subscribe(id string) *subscriber {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	sub := &subscriber{send: make(chan []byte, sendBuffer)}
	if h.subs[id] == nil {
		h.subs[id] = make(map[*subscriber]struct{})
	}
	h.subs[id][sub] = struct{}{}
	return sub
}

// unsubscribe removes sub and closes its queue. It is safe to call more than once.
func (h *Hub) unsubscribe(id string, sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.subs[id]
	if !ok {
		return
	}
	if _, ok := set[sub]; !ok {
		return
	}
	delete(set, sub)
	close(sub.send)
	if len(set) == 0 {
		delete(h.subs, id)
	}
}

// deliver queues b for one subscriber if it is still registered and has room.
func (h *Hub) deliver(id string, sub *subscriber, b []byte) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if _, ok := h.subs[id][sub]; !ok {
		return false
	}
	select {
	case sub.send <- b:
		return true
	default:
		return false
	}
}

// Subscribers returns the number of live subscribers of session id.
func (h *Hub) Subscribers(id string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[id])
}

// Close disconnects every subscriber and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for id, set := range h.subs {
		for sub := range set {
			close(sub.send)
		}
		delete(h.subs, id)
	}
}

var _ drepo.EventPublisher = (*Hub)(nil)
