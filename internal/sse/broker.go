// Package sse streams note events to HTTP clients as Server-Sent Events.
package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/starford/zametki/internal/models"
)

// Event types emitted by the broker.
const (
	EventNoteCreated  = "note.created"
	EventStoreChanged = "store.changed"
)

const (
	clientBuffer     = 64
	defaultThrottle  = 2 * time.Second
	defaultHeartbeat = 15 * time.Second
)

// Event is one frame broadcast to every subscriber. Data is encoded as JSON.
type Event struct {
	Type string
	Data any
}

// StoreChanged is the payload of store.changed.
type StoreChanged struct {
	Checksum string `json:"checksum"`
}

// Option configures a Broker.
type Option func(*Broker)

// WithHeartbeat sets how often idle streams receive a keep-alive comment.
func WithHeartbeat(d time.Duration) Option {
	return func(b *Broker) {
		if d > 0 {
			b.heartbeat = d
		}
	}
}

// registry is owned by the broker loop; only closures passed through ops touch it.
type registry struct {
	clients    map[chan []byte]struct{}
	seq        uint64
	lastChange time.Time
}

// Broker fans note events out to SSE subscribers. A single goroutine owns the
// subscriber set; public methods hand it closures over a channel.
type Broker struct {
	throttle  time.Duration
	heartbeat time.Duration

	ops     chan func(*registry)
	quit    chan struct{}
	done    chan struct{}
	closing atomic.Bool
}

// NewBroker starts a broker. store.changed events closer together than
// changeThrottle are dropped.
func NewBroker(changeThrottle time.Duration, opts ...Option) *Broker {
	if changeThrottle <= 0 {
		changeThrottle = defaultThrottle
	}
	b := &Broker{
		throttle:  changeThrottle,
		heartbeat: defaultHeartbeat,
		ops:       make(chan func(*registry), 256),
		quit:      make(chan struct{}),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	go b.loop()
	return b
}

func (b *Broker) loop() {
	defer close(b.done)

	reg := &registry{clients: make(map[chan []byte]struct{})}
	for {
		select {
		case <-b.quit:
			for ch := range reg.clients {
				close(ch)
			}
			return
		case op := <-b.ops:
			op(reg)
		}
	}
}

// do runs op on the loop goroutine. It reports false once the broker is closed.
func (b *Broker) do(op func(*registry)) bool {
	if b.closing.Load() {
		return false
	}
	select {
	case b.ops <- op:
		return true
	case <-b.done:
		return false
	}
}

// Close stops the loop and closes every subscriber channel.
func (b *Broker) Close() {
	if b.closing.CompareAndSwap(false, true) {
		close(b.quit)
	}
	<-b.done
}

// Subscribe registers a client. The returned channel is closed on Unsubscribe
// or Close.
func (b *Broker) Subscribe() chan []byte {
	ch := make(chan []byte, clientBuffer)
	added := make(chan struct{}, 1)
	if !b.do(func(r *registry) {
		r.clients[ch] = struct{}{}
		added <- struct{}{}
	}) {
		close(ch)
		return ch
	}
	select {
	case <-added:
	case <-b.done:
		select {
		case <-added:
			// Registered before shutdown; the loop already closed ch.
		default:
			close(ch)
		}
	}
	return ch
}

// Unsubscribe removes a client and closes its channel.
func (b *Broker) Unsubscribe(ch chan []byte) {
	b.do(func(r *registry) {
		if _, ok := r.clients[ch]; ok {
			delete(r.clients, ch)
			close(ch)
		}
	})
}

// ClientCount returns the number of connected clients.
func (b *Broker) ClientCount() int {
	resp := make(chan int, 1)
	if !b.do(func(r *registry) { resp <- len(r.clients) }) {
		return 0
	}
	select {
	case n := <-resp:
		return n
	case <-b.done:
		return 0
	}
}

// Publish broadcasts event to every client. Slow clients whose buffer is full
// miss the frame.
func (b *Broker) Publish(event Event) {
	payload, err := json.Marshal(event.Data)
	if err != nil {
		return
	}
	b.do(func(r *registry) { r.broadcast(event.Type, payload) })
}

// PublishNoteCreated announces a newly created note.
func (b *Broker) PublishNoteCreated(n models.Note) {
	b.Publish(Event{Type: EventNoteCreated, Data: n})
}

// PublishStoreChanged announces a new store digest, subject to throttling.
func (b *Broker) PublishStoreChanged(sum string) {
	payload, err := json.Marshal(StoreChanged{Checksum: sum})
	if err != nil {
		return
	}
	b.do(func(r *registry) {
		now := time.Now()
		if now.Sub(r.lastChange) < b.throttle {
			return
		}
		r.lastChange = now
		r.broadcast(EventStoreChanged, payload)
	})
}

func (r *registry) broadcast(typ string, payload []byte) {
	r.seq++
	frame := []byte(fmt.Sprintf("id: %d\nevent: %s\ndata: %s\n\n", r.seq, typ, payload))
	for ch := range r.clients {
		select {
		case ch <- frame:
		default:
		}
	}
}

// ServeHTTP streams events to one client until it disconnects or the broker
// closes.
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	ping := time.NewTicker(b.heartbeat)
	defer ping.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ping.C:
			_, _ = w.Write([]byte(": ping\n\n"))
			flusher.Flush()
		case frame, open := <-ch:
			if !open {
				return
			}
			_, _ = w.Write(frame)
			flusher.Flush()
		}
	}
}
