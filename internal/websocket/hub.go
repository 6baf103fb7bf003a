package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/qppgateway/api/internal/model"
	"github.com/rs/zerolog"
)

// AllJobs is the topic of clients subscribed to every job
const AllJobs = "*"

// Client represents a WebSocket client
type Client struct {
	Topic string
	Conn  *websocket.Conn
	Send  chan []byte
}

// Hub fans job lifecycle events out to WebSocket subscribers
type Hub struct {
	// Clients grouped by topic: a job ID or AllJobs
	clients map[string]map[*Client]bool

	// Register requests
	register chan *Client

	// Unregister requests
	unregister chan *Client

	// Broadcast messages to topic subscribers
	broadcast chan *BroadcastMessage

	log zerolog.Logger
	mu  sync.RWMutex
}

// BroadcastMessage represents a message to broadcast
type BroadcastMessage struct {
	JobID   string
	Message []byte
}

// NewHub creates a new Hub
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *BroadcastMessage, 256),
		log:        log,
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.Topic] == nil {
				h.clients[client.Topic] = make(map[*Client]bool)
			}
			h.clients[client.Topic][client] = true
			h.mu.Unlock()
			h.log.Debug().Str("topic", client.Topic).Msg("client registered")

		case client := <-h.unregister:
			h.mu.Lock()
			h.remove(client)
			h.mu.Unlock()
			h.log.Debug().Str("topic", client.Topic).Msg("client unregistered")

		case msg := <-h.broadcast:
			h.mu.Lock()
			h.deliver(msg.JobID, msg.Message)
			h.deliver(AllJobs, msg.Message)
			h.mu.Unlock()
		}
	}
}

// deliver sends to every subscriber of topic, dropping clients whose
// buffer is full. Callers hold mu.
func (h *Hub) deliver(topic string, message []byte) {
	for client := range h.clients[topic] {
		select {
		case client.Send <- message:
		default:
			h.remove(client)
		}
	}
}

// remove closes and forgets client. Callers hold mu.
func (h *Hub) remove(client *Client) {
	clients, ok := h.clients[client.Topic]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	close(client.Send)
	if len(clients) == 0 {
		delete(h.clients, client.Topic)
	}
}

// Register adds a new client
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Subscribers returns the number of clients listening on topic
func (h *Hub) Subscribers(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[topic])
}

// PublishJobEvent queues ev for the job's subscribers and the AllJobs
// feed. It never blocks: when the queue is full the event is dropped.
func (h *Hub) PublishJobEvent(ev model.JobEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to marshal job event")
		return
	}

	select {
	case h.broadcast <- &BroadcastMessage{JobID: ev.JobID, Message: data}:
	default:
		h.log.Warn().Str("job_id", ev.JobID).Str("state", string(ev.State)).Msg("event queue full, dropping job event")
	}
}

// HandleConnection handles a WebSocket connection
func (h *Hub) HandleConnection(c *websocket.Conn, topic string) {
	client := &Client{
		Topic: topic,
		Conn:  c,
		Send:  make(chan []byte, 256),
	}

	h.Register(client)
	defer h.Unregister(client)

	pongs := make(chan struct{}, 1)
	done := make(chan struct{})
	defer close(done)

	// Start writer goroutine. It is the only writer on the connection.
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case message, ok := <-client.Send:
				if !ok {
					c.WriteMessage(websocket.CloseMessage, []byte{})
					return
				}
				if err := c.WriteMessage(websocket.TextMessage, message); err != nil {
					return
				}

			case <-pongs:
				data, _ := json.Marshal(model.WSMessage{Type: model.WSMessageTypePong})
				if err := c.WriteMessage(websocket.TextMessage, data); err != nil {
					return
				}

			case <-ticker.C:
				// Send ping for keep-alive
				if err := c.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}

			case <-done:
				return
			}
		}
	}()

	// Reader loop
	for {
		_, message, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.Warn().Err(err).Msg("websocket error")
			}
			break
		}

		// Handle client messages (ping/pong)
		var msg model.WSMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}

		if msg.Type == model.WSMessageTypePing {
			select {
			case pongs <- struct{}{}:
			default:
			}
		}
	}
}
