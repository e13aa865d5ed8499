package monitoring

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/sarchlab/countersim/counter"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// stateHub is a counter display that pushes state snapshots to websocket
// subscribers.
//
// Display callbacks run under the simulator lock, so they only flag a change.
// The run loop takes the snapshot later, outside the lock.
type stateHub struct {
	source  func() counter.State
	changed chan struct{}

	mu          sync.Mutex
	subscribers map[chan counter.State]struct{}
}

func newStateHub() *stateHub {
	return &stateHub{
		changed:     make(chan struct{}, 1),
		subscribers: make(map[chan counter.State]struct{}),
	}
}

func (h *stateHub) OnClockChanged(counter.Level, counter.EdgeKind) {
	h.notify()
}

func (h *stateHub) OnCounterChanged(counter.Bits, int) {
	h.notify()
}

func (h *stateHub) OnSegmentsChanged(counter.Segments) {}

func (h *stateHub) OnExcitationChanged(counter.Excitation) {}

// notify never blocks. Changes that come faster than the run loop merge into
// one snapshot.
func (h *stateHub) notify() {
	select {
	case h.changed <- struct{}{}:
	default:
	}
}

func (h *stateHub) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-h.changed:
			if h.source != nil {
				h.broadcast(h.source())
			}
		}
	}
}

func (h *stateHub) broadcast(s counter.State) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subscribers {
		select {
		case <-ch:
		default:
		}

		ch <- s
	}
}

func (h *stateHub) subscribe() chan counter.State {
	ch := make(chan counter.State, 1)

	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()

	return ch
}

func (h *stateHub) unsubscribe(ch chan counter.State) {
	h.mu.Lock()
	delete(h.subscribers, ch)
	h.mu.Unlock()
}

func (h *stateHub) numSubscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.subscribers)
}

// stream sends the current state, then a new state after every change,
// until the client goes away.
func (m *Monitor) stream(w http.ResponseWriter, r *http.Request) {
	s := m.simulatorOr503(w)
	if s == nil {
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("monitor: websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	updates := m.hub.subscribe()
	defer m.hub.unsubscribe(updates)

	closed := make(chan struct{})

	go func() {
		defer close(closed)

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := writeState(conn, s.State()); err != nil {
		return
	}

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case state := <-updates:
			if err := writeState(conn, state); err != nil {
				return
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func writeState(conn *websocket.Conn, s counter.State) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(s)
}
