// Package hub fans out typed events to every live push connection.
package hub

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/google/uuid"
)

// Conn is the slice of a websocket connection the hub needs. Implementations
// must be safe for one writer at a time; the hub's dispatcher is that writer.
type Conn interface {
	WriteText(data []byte) error
	Close() error
}

type envelope struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// delivery pairs a serialized event with the connections registered at the
// time Broadcast was called. Connections registering later never see it.
type delivery struct {
	payload []byte
	conns   []Conn
}

// Hub owns the set of live connections for the lifetime of the process.
// Register/Unregister/Broadcast may be called from any goroutine; a single
// dispatcher goroutine performs the actual sends so events reach each
// connection in Broadcast order and slow clients never stall a request.
type Hub struct {
	mu     sync.Mutex
	conns  map[Conn]string
	queue  chan delivery
	done   chan struct{}
	closed bool
}

func New() *Hub {
	h := &Hub{
		conns: make(map[Conn]string),
		queue: make(chan delivery, 256),
		done:  make(chan struct{}),
	}
	go h.run()
	return h
}

func (h *Hub) Register(c Conn) {
	id := uuid.NewString()
	h.mu.Lock()
	h.conns[c] = id
	total := len(h.conns)
	h.mu.Unlock()
	log.Printf("websocket %s connected, total connections: %d", id, total)
}

// Unregister removes c if present; removing an absent connection is a no-op.
func (h *Hub) Unregister(c Conn) {
	h.mu.Lock()
	id, ok := h.conns[c]
	if ok {
		delete(h.conns, c)
	}
	total := len(h.conns)
	h.mu.Unlock()
	if ok {
		log.Printf("websocket %s disconnected, total connections: %d", id, total)
	}
}

func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// Broadcast serializes {type, data} and queues it for every connection
// registered right now. It never blocks the caller: when the queue is full
// the event is dropped with a log line (delivery is best effort).
func (h *Hub) Broadcast(eventType string, data interface{}) {
	payload, err := json.Marshal(envelope{Type: eventType, Data: data})
	if err != nil {
		log.Printf("hub: marshal %s event: %v", eventType, err)
		return
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	snapshot := make([]Conn, 0, len(h.conns))
	for c := range h.conns {
		snapshot = append(snapshot, c)
	}
	h.mu.Unlock()

	if len(snapshot) == 0 {
		return
	}
	select {
	case h.queue <- delivery{payload: payload, conns: snapshot}:
	default:
		log.Printf("hub: queue full, dropping %s event", eventType)
	}
}

func (h *Hub) run() {
	for {
		select {
		case d := <-h.queue:
			h.deliver(d)
		case <-h.done:
			return
		}
	}
}

// deliver writes to each connection in the snapshot. A failing connection is
// collected and pruned after the pass; it never blocks the others.
func (h *Hub) deliver(d delivery) {
	var dead []Conn
	for _, c := range d.conns {
		if err := c.WriteText(d.payload); err != nil {
			log.Printf("hub: send failed, dropping connection: %v", err)
			dead = append(dead, c)
		}
	}
	for _, c := range dead {
		h.Unregister(c)
		_ = c.Close()
	}
}

// Close stops the dispatcher and drops every live connection.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	conns := make([]Conn, 0, len(h.conns))
	for c := range h.conns {
		conns = append(conns, c)
	}
	h.conns = make(map[Conn]string)
	h.mu.Unlock()

	close(h.done)
	for _, c := range conns {
		_ = c.Close()
	}
}
