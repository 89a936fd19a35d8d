package mockstore

import (
	"fmt"
	"net/http"
	"sync"
)

// hub broadcasts resource-change topics to connected SSE clients. A client
// whose channel is full is dropped rather than blocking the publisher.
type hub struct {
	mu      sync.Mutex
	clients map[chan string]bool
}

func newHub() *hub {
	return &hub{clients: make(map[chan string]bool)}
}

func (h *hub) publish(topic string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.clients {
		select {
		case ch <- topic:
		default:
			delete(h.clients, ch)
			close(ch)
		}
	}
}

func (h *hub) add(ch chan string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[ch] = true
}

func (h *hub) remove(ch chan string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[ch] {
		delete(h.clients, ch)
		close(ch)
	}
}

func (h *hub) serve(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		respondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch := make(chan string, 16)
	h.add(ch)
	defer h.remove(ch)

	for {
		select {
		case <-r.Context().Done():
			return
		case topic, open := <-ch:
			if !open {
				return
			}
			fmt.Fprintf(w, "event: %s\ndata: {}\n\n", topic)
			flusher.Flush()
		}
	}
}
