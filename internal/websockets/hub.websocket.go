package websockets

import (
	"sync"

	"github.com/google/uuid"
)

const (
	STATUS_UNAUTHENTICATED = iota
	STATUS_AUTHENTICATED
	STATUS_CLOSED
)

type Hub struct {
	register   chan *Client
	unregister chan *Client
	clients    map[string]*Client
	mutex      sync.RWMutex
}

func (h *Hub) run(m *Manager) {
	for {
		select {
		case client := <-h.register:
			m.registerClient(client)

		case client := <-h.unregister:
			m.unregisterClient(client)
		}
	}
}

func (m *Manager) registerClient(client *Client) {
	log := m.log.Function("registerClient")

	m.hub.mutex.Lock()
	m.hub.clients[client.ID] = client
	m.hub.mutex.Unlock()

	log.Debug("Client registered", "clientID", client.ID, "status", client.Status())
}

func (m *Manager) unregisterClient(client *Client) {
	log := m.log.Function("unregisterClient")

	m.hub.mutex.Lock()
	_, known := m.hub.clients[client.ID]
	delete(m.hub.clients, client.ID)
	m.hub.mutex.Unlock()

	client.status.Store(STATUS_CLOSED)
	client.closeSend()

	if known {
		log.Info("Client unregistered", "clientID", client.ID, "userID", client.UserID)
	}
}

// ConnectionCount reports the authenticated sockets currently held for userID.
func (m *Manager) ConnectionCount(userID uuid.UUID) int {
	m.hub.mutex.RLock()
	defer m.hub.mutex.RUnlock()

	count := 0
	for _, client := range m.hub.clients {
		if client.Status() == STATUS_AUTHENTICATED && client.UserID == userID {
			count++
		}
	}
	return count
}

// SendMessageToUser queues message on every authenticated socket of userID. A
// socket whose buffer is full is dropped rather than blocking the other recipients.
func (m *Manager) SendMessageToUser(userID uuid.UUID, message Message) {
	log := m.log.Function("SendMessageToUser")

	m.hub.mutex.RLock()
	var targets []*Client
	for _, client := range m.hub.clients {
		if client.Status() == STATUS_AUTHENTICATED && client.UserID == userID {
			targets = append(targets, client)
		}
	}
	m.hub.mutex.RUnlock()

	if len(targets) == 0 {
		log.Debug("No connections found for user", "userID", userID)
		return
	}

	sentCount := 0
	for _, client := range targets {
		if client.trySend(message) {
			sentCount++
			continue
		}

		log.Warn("Client too slow, disconnecting", "clientID", client.ID, "userID", userID)
		go func(c *Client) { m.hub.unregister <- c }(client)
	}

	log.Debug(
		"Message sent to user connections",
		"userID", userID,
		"messageID", message.ID,
		"sentTo", sentCount,
		"totalConnections", len(targets),
	)
}
