// Package ws pushes live board events to connected viewers so the page
// updates without polling.
package ws

import "encoding/json"

// Event is the wire envelope for board updates: "new_post", "delete",
// "clear" and "topic".
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// Hub fans broadcast messages out to every registered client.
type Hub struct {
	clients    map[*Client]bool
	Broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		Broadcast:  make(chan []byte, 16),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run owns the client set; all membership changes and broadcasts pass
// through its channels. Call it in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
		case message := <-h.Broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow consumer; drop it rather than stall the hub.
					delete(h.clients, client)
					close(client.send)
				}
			}
		}
	}
}

// BroadcastEvent marshals and broadcasts an event. Marshal failures are
// silently dropped; events are advisory, readers re-sync via GET.
func (h *Hub) BroadcastEvent(e Event) {
	msg, err := json.Marshal(e)
	if err != nil {
		return
	}
	h.Broadcast <- msg
}
