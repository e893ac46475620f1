package websockets

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	AUTH_HANDSHAKE_TIMEOUT = 10 * time.Second
	AUTH_LOOKUP_TIMEOUT    = 5 * time.Second
	AUTH_CLOSE_DELAY       = 100 * time.Millisecond
)

// startAuthTimeout closes the socket if no valid auth_response arrives in time.
func (c *Client) startAuthTimeout() {
	log := c.Manager.log.Function("startAuthTimeout")

	go func() {
		time.Sleep(AUTH_HANDSHAKE_TIMEOUT)
		if c.Status() != STATUS_UNAUTHENTICATED {
			return
		}

		log.Warn("Client failed to authenticate within timeout, disconnecting",
			"clientID", c.ID,
			"timeout", AUTH_HANDSHAKE_TIMEOUT)

		c.sendAuthFailure("authentication_timeout", "Authentication timeout")
	}()
}

func (c *Client) handleAuthResponse(message Message) {
	log := c.Manager.log.Function("handleAuthResponse")

	if c.Status() != STATUS_UNAUTHENTICATED {
		log.Warn("Auth response from already authenticated client", "clientID", c.ID)
		return
	}

	token, ok := message.Data["token"].(string)
	if !ok || token == "" {
		log.Warn("Invalid token in auth response", "clientID", c.ID)
		c.sendAuthFailure("authentication_failed", "Invalid token format")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), AUTH_LOOKUP_TIMEOUT)
	defer cancel()

	user, err := c.Manager.auth.Authenticate(ctx, token)
	if err != nil {
		log.Info("WebSocket authentication failed", "clientID", c.ID, "error", err.Error())
		c.sendAuthFailure("authentication_failed", "Authentication failed")
		return
	}

	c.UserID = user.ID
	if !c.status.CompareAndSwap(STATUS_UNAUTHENTICATED, STATUS_AUTHENTICATED) {
		return
	}

	log.Info("WebSocket client authenticated", "clientID", c.ID, "userID", user.ID)

	c.trySend(Message{
		ID:        uuid.New().String(),
		Type:      MESSAGE_TYPE_AUTH_SUCCESS,
		Channel:   SYSTEM_CHANNEL,
		UserID:    user.ID.String(),
		Data:      map[string]any{"action": "authenticated", "userId": user.ID.String()},
		Timestamp: time.Now(),
	})
}

// sendAuthFailure queues the failure and closes the socket shortly after so the
// message can still be flushed.
func (c *Client) sendAuthFailure(action, reason string) {
	log := c.Manager.log.Function("sendAuthFailure")

	c.trySend(Message{
		ID:        uuid.New().String(),
		Type:      MESSAGE_TYPE_AUTH_FAILURE,
		Channel:   SYSTEM_CHANNEL,
		Data:      map[string]any{"action": action, "reason": reason},
		Timestamp: time.Now(),
	})

	log.Info("Auth failure sent, closing connection", "clientID", c.ID, "reason", reason)

	go func() {
		time.Sleep(AUTH_CLOSE_DELAY)
		c.closeConnection()
	}()
}

func (c *Client) sendAuthRequest() error {
	log := c.Manager.log.Function("sendAuthRequest")

	authRequest := Message{
		ID:        uuid.New().String(),
		Type:      MESSAGE_TYPE_AUTH_REQUEST,
		Channel:   SYSTEM_CHANNEL,
		Data:      map[string]any{"action": "authenticate"},
		Timestamp: time.Now(),
	}

	if err := c.Connection.WriteJSON(authRequest); err != nil {
		return log.Err("failed to send auth request", err, "clientID", c.ID)
	}

	return nil
}

func (c *Client) handleUnauthenticatedMessage(message Message) {
	log := c.Manager.log.Function("handleUnauthenticatedMessage")

	log.Warn("Blocking message from unauthenticated client", "clientID", c.ID, "type", message.Type)

	c.trySend(Message{
		ID:        uuid.New().String(),
		Type:      MESSAGE_TYPE_AUTH_FAILURE,
		Channel:   SYSTEM_CHANNEL,
		Data:      map[string]any{"action": "authentication_required", "reason": "Authentication required"},
		Timestamp: time.Now(),
	})
}
