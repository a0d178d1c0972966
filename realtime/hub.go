package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
)

type EventType string

const (
	Insert EventType = "INSERT"
	Update EventType = "UPDATE"
	Delete EventType = "DELETE"
	Any    EventType = "*"
)

// Event describes one committed row change.
type Event struct {
	Table  string          `json:"table"`
	Type   EventType       `json:"type"`
	ID     string          `json:"id"`
	Record json.RawMessage `json:"record,omitempty"`
	At     time.Time       `json:"at"`
}

// NewEvent builds an event carrying the JSON form of record. A nil record
// (deletes) leaves Record empty.
func NewEvent(table string, typ EventType, id string, record any) Event {
	ev := Event{Table: table, Type: typ, ID: id, At: time.Now().UTC()}
	if record != nil {
		if raw, err := json.Marshal(record); err == nil {
			ev.Record = raw
		}
	}
	return ev
}

// Publisher is implemented by anything that can fan out change events.
type Publisher interface {
	Publish(ctx context.Context, ev Event)
}

const subscriberBuffer = 64

type subscription struct {
	table string
	types map[EventType]bool
	ch    chan Event
}

func (s *subscription) wants(ev Event) bool {
	if s.table != string(Any) && s.table != ev.Table {
		return false
	}
	return s.types[Any] || s.types[ev.Type]
}

// Hub is an in-process pub/sub keyed by table and event type.
type Hub struct {
	mu   sync.RWMutex
	subs map[uint64]*subscription
	next uint64
	log  *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{subs: make(map[uint64]*subscription), log: log}
}

// Subscribe registers interest in a table ("*" for every table). With no
// types every event type is delivered. The returned cancel func closes the
// channel and must be called once the subscriber is done.
func (h *Hub) Subscribe(table string, types ...EventType) (<-chan Event, func()) {
	if len(types) == 0 {
		types = []EventType{Any}
	}
	sub := &subscription{
		table: table,
		types: make(map[EventType]bool, len(types)),
		ch:    make(chan Event, subscriberBuffer),
	}
	for _, t := range types {
		sub.types[t] = true
	}

	h.mu.Lock()
	id := h.next
	h.next++
	h.subs[id] = sub
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
			close(sub.ch)
		})
	}
	return sub.ch, cancel
}

// Publish delivers ev to every matching subscriber. A subscriber whose buffer
// is full misses the event rather than stalling the writer.
func (h *Hub) Publish(_ context.Context, ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, sub := range h.subs {
		if !sub.wants(ev) {
			continue
		}
		select {
		case sub.ch <- ev:
		default:
			h.log.Warn("realtime subscriber lagging, event dropped",
				zap.String("table", ev.Table),
				zap.String("type", string(ev.Type)),
				zap.String("id", ev.ID),
			)
		}
	}
}

// Subscribers returns the number of live subscriptions.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
