// Package sse implements a Server-Sent Events broker that tells clients when
// the menu tree changed and their displayed search results are stale.
package sse

import (
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
)

// Event types.
const (
	TypeTreeReloaded      = "tree.reloaded"
	TypeTreeInvalid       = "tree.invalid"
	TypeSearchInvalidated = "search.invalidated"
)

// Event represents an SSE event to broadcast.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type treeEventReq struct {
	kind   string
	detail string
}

// Broker manages SSE client connections and broadcasts events.
//
// A single event loop goroutine owns the client set and the invalidation
// throttle timestamp; public methods talk to it over channels.
type Broker struct {
	invalidateMin time.Duration

	subscribeCh   chan chan []byte
	unsubscribeCh chan chan []byte
	publishCh     chan Event
	treeEventCh   chan treeEventReq
	countReqCh    chan chan int

	stopCh  chan struct{}
	stopped chan struct{}
	closed  atomic.Bool
}

// NewBroker creates a broker that emits at most one search.invalidated event
// per throttle interval.
func NewBroker(throttle time.Duration) *Broker {
	if throttle <= 0 {
		throttle = 2 * time.Second
	}

	b := &Broker{
		invalidateMin: throttle,
		subscribeCh:   make(chan chan []byte),
		unsubscribeCh: make(chan chan []byte),
		publishCh:     make(chan Event, 256),
		treeEventCh:   make(chan treeEventReq, 256),
		countReqCh:    make(chan chan int),
		stopCh:        make(chan struct{}),
		stopped:       make(chan struct{}),
	}

	go b.run()
	return b
}

func (b *Broker) run() {
	defer close(b.stopped)

	clients := make(map[chan []byte]struct{})
	var lastInvalidate time.Time

	broadcast := func(event Event) {
		payload, err := json.Marshal(event.Data)
		if err != nil {
			return
		}
		msg := fmt.Sprintf("event: %s\ndata: %s\n\n", event.Type, payload)
		raw := []byte(msg)

		for ch := range clients {
			select {
			case ch <- raw:
			default:
				// Slow client: drop the message.
			}
		}
	}

	for {
		select {
		case <-b.stopCh:
			for ch := range clients {
				close(ch)
			}
			return

		case ch := <-b.subscribeCh:
			clients[ch] = struct{}{}

		case ch := <-b.unsubscribeCh:
			if _, ok := clients[ch]; ok {
				delete(clients, ch)
				close(ch)
			}

		case event := <-b.publishCh:
			broadcast(event)

		case req := <-b.treeEventCh:
			switch req.kind {
			case TypeTreeReloaded:
				broadcast(Event{Type: TypeTreeReloaded, Data: map[string]string{"checksum": req.detail}})
			case TypeTreeInvalid:
				broadcast(Event{Type: TypeTreeInvalid, Data: map[string]string{"error": req.detail}})
				continue
			default:
				continue
			}

			now := time.Now()
			if now.Sub(lastInvalidate) >= b.invalidateMin {
				lastInvalidate = now
				broadcast(Event{Type: TypeSearchInvalidated, Data: map[string]string{}})
			}

		case resp := <-b.countReqCh:
			resp <- len(clients)
		}
	}
}

// Close gracefully stops broker loop and closes all client channels.
func (b *Broker) Close() {
	if b.closed.CompareAndSwap(false, true) {
		close(b.stopCh)
	}
	<-b.stopped
}

// Subscribe adds a new client and returns its channel.
func (b *Broker) Subscribe() chan []byte {
	ch := make(chan []byte, 64)
	if b.closed.Load() {
		close(ch)
		return ch
	}

	select {
	case b.subscribeCh <- ch:
	case <-b.stopped:
		close(ch)
	}

	return ch
}

// Unsubscribe removes a client and closes its channel.
func (b *Broker) Unsubscribe(ch chan []byte) {
	if b.closed.Load() {
		return
	}
	select {
	case b.unsubscribeCh <- ch:
	case <-b.stopped:
	}
}

// ClientCount returns the number of connected clients.
func (b *Broker) ClientCount() int {
	if b.closed.Load() {
		return 0
	}

	resp := make(chan int, 1)
	select {
	case b.countReqCh <- resp:
	case <-b.stopped:
		return 0
	}

	select {
	case n := <-resp:
		return n
	case <-b.stopped:
		return 0
	}
}

// Publish sends an event to all connected clients.
func (b *Broker) Publish(event Event) {
	if b.closed.Load() {
		return
	}
	select {
	case b.publishCh <- event:
	case <-b.stopped:
	}
}

// PublishTreeEvent publishes a tree change. kind is TypeTreeReloaded (detail
// is the checksum) or TypeTreeInvalid (detail is the error). Reloads are
// followed by a throttled search.invalidated event.
func (b *Broker) PublishTreeEvent(kind, detail string) {
	if b.closed.Load() {
		return
	}
	select {
	case b.treeEventCh <- treeEventReq{kind: kind, detail: detail}:
	case <-b.stopped:
	}
}

// ServeHTTP streams events to one client (GET /api/events).
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			_, _ = w.Write(msg)
			flusher.Flush()
		}
	}
}
