package stream

import (
	"encoding/json"
	"log"

	"github.com/wallie-app/backend/internal/models"
)

// Hub maintains the single global group of connected clients and fans
// messages out to them. Membership only lives as long as the process.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
}

// NewHub creates a Hub; call Run in its own goroutine before using it
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run owns the client set. All membership changes and sends go through this
// loop, so no other synchronization is needed.
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
		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow consumer: drop the client rather than block
					// the mutation path. Delivery is at-most-once.
					delete(h.clients, client)
					close(client.send)
				}
			}
		}
	}
}

// BroadcastPostUpdate sends the full serialized post to all subscribers.
// Used for both creation and modification.
func (h *Hub) BroadcastPostUpdate(entry models.FeedEntry) {
	h.send(Message{Type: TypePostUpdate, Data: entry})
}

// BroadcastPostDelete informs subscribers that a post was removed
func (h *Hub) BroadcastPostDelete(postID uint) {
	h.send(Message{Type: TypePostDelete, Data: postID})
}

// BroadcastLoveUpdate sends the new love count for a post to all subscribers
func (h *Hub) BroadcastLoveUpdate(postID uint, numLoves int64) {
	h.send(Message{Type: TypeLoveUpdate, Data: LoveUpdate{PostID: postID, NumLoves: numLoves}})
}

func (h *Hub) send(msg Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		log.Printf("stream: dropping %s message: %v", msg.Type, err)
		return
	}
	select {
	case h.broadcast <- payload:
	default:
		log.Printf("stream: broadcast buffer full, dropping %s message", msg.Type)
	}
}
