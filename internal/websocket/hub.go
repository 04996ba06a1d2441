package websocket

import "github.com/rs/zerolog/log"

// Envelope is a message addressed to every client of one session.
type Envelope struct {
	SessionID string
	Data      []byte
}

// Hub maintains the set of active clients and delivers messages to them.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Messages for every connected client.
	Broadcast chan []byte

	// Messages for the clients of a single session.
	Direct chan Envelope

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client

	// A map of session IDs to the clients opened by that session.
	subscriptions map[string]map[*Client]bool

	done chan struct{}
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		Broadcast:     make(chan []byte),
		Direct:        make(chan Envelope, 64),
		Register:      make(chan *Client),
		Unregister:    make(chan *Client),
		clients:       make(map[*Client]bool),
		subscriptions: make(map[string]map[*Client]bool),
		done:          make(chan struct{}),
	}
}

// Run starts the Hub's message processing loop. It returns after Stop.
func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			for client := range h.clients {
				h.drop(client)
			}
			return
		case client := <-h.Register:
			h.clients[client] = true
			if client.SessionID != "" {
				h.addSubscription(client, client.SessionID)
			}
			log.Debug().Int("total_clients", len(h.clients)).Msg("Client connected")
		case client := <-h.Unregister:
			if _, ok := h.clients[client]; ok {
				h.drop(client)
				log.Debug().Int("total_clients", len(h.clients)).Msg("Client disconnected")
			}
		case message := <-h.Broadcast:
			for client := range h.clients {
				h.send(client, message)
			}
		case env := <-h.Direct:
			for client := range h.subscriptions[env.SessionID] {
				h.send(client, env.Data)
			}
		}
	}
}

// Stop ends Run and closes every client.
func (h *Hub) Stop() {
	close(h.done)
}

// SendTo queues a message for the clients of one session. It never blocks; when the
// queue is full the message is dropped, since notifications are also delivered on
// the next page render.
func (h *Hub) SendTo(sessionID string, message []byte) {
	select {
	case h.Direct <- Envelope{SessionID: sessionID, Data: message}:
	default:
		log.Warn().Str("session_id", sessionID).Msg("Websocket queue full, dropping message")
	}
}

func (h *Hub) send(client *Client, message []byte) {
	select {
	case client.Send <- message:
	default:
		h.drop(client)
	}
}

func (h *Hub) drop(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.Send)
	h.removeSubscription(client)
}

func (h *Hub) addSubscription(client *Client, sessionID string) {
	if h.subscriptions[sessionID] == nil {
		h.subscriptions[sessionID] = make(map[*Client]bool)
	}
	h.subscriptions[sessionID][client] = true
}

func (h *Hub) removeSubscription(client *Client) {
	subs, ok := h.subscriptions[client.SessionID]
	if !ok {
		return
	}
	delete(subs, client)
	if len(subs) == 0 {
		delete(h.subscriptions, client.SessionID)
	}
}
