package websockets

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"hostelhub/internal/events"
	"hostelhub/internal/models"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	MESSAGE_TYPE_PING          = "ping"
	MESSAGE_TYPE_PONG          = "pong"
	MESSAGE_TYPE_AUTH_REQUEST  = "auth_request"
	MESSAGE_TYPE_AUTH_RESPONSE = "auth_response"
	MESSAGE_TYPE_AUTH_SUCCESS  = "auth_success"
	MESSAGE_TYPE_AUTH_FAILURE  = "auth_failure"

	PING_INTERVAL     = 30 * time.Second
	PONG_TIMEOUT      = 60 * time.Second
	WRITE_TIMEOUT     = 10 * time.Second
	MAX_MESSAGE_SIZE  = 64 * 1024
	SEND_CHANNEL_SIZE = 64

	SYSTEM_CHANNEL = "system"
)

type Message struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Channel   string         `json:"channel,omitempty"`
	Action    string         `json:"action,omitempty"`
	UserID    string         `json:"userId,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Authenticator resolves a bearer token sent during the handshake to a user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

type Client struct {
	ID         string
	UserID     uuid.UUID
	Connection *websocket.Conn
	Manager    *Manager
	status     atomic.Int32
	send       chan Message
	closeOnce  sync.Once
}

func (c *Client) Status() int32 {
	return c.status.Load()
}

func (c *Client) closeSend() {
	c.closeOnce.Do(func() { close(c.send) })
}

func (c *Client) closeConnection() {
	if c.Connection == nil {
		return
	}
	_ = c.Connection.Close()
}

// Manager keeps the sockets of this instance and forwards service request events
// to the sockets of each event's recipients.
type Manager struct {
	hub      *Hub
	auth     Authenticator
	log      logger.Logger
	eventBus *events.EventBus
}

func New(eventBus *events.EventBus, auth Authenticator) (*Manager, error) {
	log := logger.New("websockets")

	manager := &Manager{
		hub: &Hub{
			register:   make(chan *Client),
			unregister: make(chan *Client),
			clients:    make(map[string]*Client),
		},
		auth:     auth,
		log:      log,
		eventBus: eventBus,
	}

	log.Function("New").Info("Starting websocket hub")
	go manager.hub.run(manager)

	if err := manager.subscribeToServiceRequestEvents(); err != nil {
		return nil, log.Err("failed to subscribe to service request events", err)
	}

	return manager, nil
}

func (m *Manager) HandleWebSocket(c *websocket.Conn) {
	log := m.log.Function("HandleWebSocket")

	client := &Client{
		ID:         uuid.New().String(),
		Connection: c,
		Manager:    m,
		send:       make(chan Message, SEND_CHANNEL_SIZE),
	}
	client.status.Store(STATUS_UNAUTHENTICATED)

	if err := client.sendAuthRequest(); err != nil {
		if err := c.Close(); err != nil {
			log.Er("failed to close connection", err)
		}
		return
	}

	m.hub.register <- client
	defer func() {
		if err := c.Close(); err != nil {
			log.Debug("connection already closed", "clientID", client.ID)
		}
	}()

	client.startAuthTimeout()
	go client.readPump()
	client.writePump()
}

func (c *Client) readPump() {
	log := c.Manager.log.Function("readPump")
	defer func() {
		c.Manager.hub.unregister <- c
		c.closeConnection()
	}()

	c.Connection.SetReadLimit(MAX_MESSAGE_SIZE)
	if err := c.Connection.SetReadDeadline(time.Now().Add(PONG_TIMEOUT)); err != nil {
		log.Er("failed to set read deadline", err, "clientID", c.ID)
	}
	c.Connection.SetPongHandler(func(string) error {
		if err := c.Connection.SetReadDeadline(time.Now().Add(PONG_TIMEOUT)); err != nil {
			log.Er("failed to set read deadline in pong handler", err, "clientID", c.ID)
		}
		return nil
	})

	for {
		var message Message
		if err := c.Connection.ReadJSON(&message); err != nil {
			if websocket.IsUnexpectedCloseError(
				err,
				websocket.CloseGoingAway,
				websocket.CloseNormalClosure,
			) {
				log.Er("Unexpected close error", err, "clientID", c.ID)
			}
			return
		}

		message.ID = uuid.New().String()
		message.Timestamp = time.Now()
		c.routeMessage(message)
	}
}

func (c *Client) routeMessage(message Message) {
	log := c.Manager.log.Function("routeMessage")

	if message.Type == MESSAGE_TYPE_AUTH_RESPONSE {
		c.handleAuthResponse(message)
		return
	}

	if c.Status() != STATUS_AUTHENTICATED {
		c.handleUnauthenticatedMessage(message)
		return
	}

	switch message.Type {
	case MESSAGE_TYPE_PING:
		c.trySend(Message{
			ID:        uuid.New().String(),
			Type:      MESSAGE_TYPE_PONG,
			Channel:   SYSTEM_CHANNEL,
			Timestamp: time.Now(),
		})
	default:
		log.Debug("Ignoring client message", "clientID", c.ID, "type", message.Type)
	}
}

// trySend queues message unless the client buffer is full or already closed.
func (c *Client) trySend(message Message) bool {
	defer func() { _ = recover() }()

	select {
	case c.send <- message:
		return true
	default:
		return false
	}
}

func (c *Client) writePump() {
	log := c.Manager.log.Function("writePump")

	ticker := time.NewTicker(PING_INTERVAL)
	defer func() {
		ticker.Stop()
		c.closeConnection()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.Connection.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT)); err != nil {
				log.Er("failed to set write deadline", err, "clientID", c.ID)
			}
			if !ok {
				_ = c.Connection.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Connection.WriteJSON(message); err != nil {
				log.Er("WebSocket write error", err, "clientID", c.ID)
				return
			}

		case <-ticker.C:
			if err := c.Connection.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT)); err != nil {
				log.Er("failed to set write deadline for ping", err, "clientID", c.ID)
			}
			if err := c.Connection.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (m *Manager) subscribeToServiceRequestEvents() error {
	return m.eventBus.Subscribe(events.SERVICE_REQUEST_CHANNEL, func(event events.Event) error {
		m.forwardEvent(event)
		return nil
	})
}

func (m *Manager) forwardEvent(event events.Event) {
	log := m.log.Function("forwardEvent")

	if len(event.UserIDs) == 0 {
		log.Debug("Event has no recipients", "eventID", event.ID, "eventType", event.Type)
		return
	}

	message := Message{
		ID:        event.ID,
		Type:      string(event.Type),
		Channel:   event.Channel.String(),
		Data:      event.Data,
		Timestamp: event.Timestamp,
	}

	for _, userID := range event.UserIDs {
		m.SendMessageToUser(userID, message)
	}
}
