/*
Package session routes player events between websocket connections, the player
registry and the game tracker.

This file defines the Client struct, representing an active WebSocket connection. It runs
the read and write loops of the connection and forwards decoded frames to the Hub.
*/
package session

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"triviaroom/internal/pkg/logx"
	"triviaroom/internal/pkg/randx"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a frame sent by the client.
	maxFrameSize = 8192

	// capacity of the per-client outbound queue.
	sendQueueSize = 256
)

// Client struct represents an active WebSocket connection.
type Client struct {
	// hub the client reports to.
	hub *Hub

	// underlying WebSocket connection object.
	conn *websocket.Conn

	// connection identifier, also the player's ID once joined.
	id string

	// outbound frames waiting to be written. Closed by the Hub only.
	send chan []byte

	// structured logger with client context.
	logger zerolog.Logger
}

// NewClient constructs a Client for conn with a fresh connection ID.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	id := randx.ConnectionID()

	return &Client{
		hub:    hub,
		conn:   conn,
		id:     id,
		send:   make(chan []byte, sendQueueSize),
		logger: logx.Logger().With().Str("client_id", id).Logger(),
	}
}

// ID returns the connection identifier.
func (c *Client) ID() string {
	return c.id
}

// enqueue puts data on the send queue without blocking. Only the Hub calls it.
func (c *Client) enqueue(data []byte) bool {
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// ReadPump reads frames from the connection until it closes, then unregisters the client.
func (c *Client) ReadPump() {
	defer c.cleanupOnDisconnect()

	c.conn.SetReadLimit(maxFrameSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frameBytes, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Error reading frame (Client close/going away)")
			}
			break
		}

		var frame InboundFrame
		if err := json.Unmarshal(frameBytes, &frame); err != nil {
			c.logger.Warn().Err(err).
				Bytes("frame_bytes", frameBytes).
				Msg("Client sent invalid JSON")
			continue
		}

		c.hub.Inbound(c, frame)
	}
}

// cleanupOnDisconnect runs when ReadPump terminates.
func (c *Client) cleanupOnDisconnect() {
	c.logger.Info().Msg("Client connection cleanup starting.")

	c.hub.Unregister(c)

	if err := c.conn.Close(); err != nil {
		c.logger.Debug().Err(err).Msg("Client connection close error")
	}
}

// WritePump writes queued frames to the connection and keeps it alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		if err := c.conn.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Client connection close error in WritePump")
		}
	}()

	for {
		select {
		case frame, ok := <-c.send:
			if !c.writeQueuedFrame(frame, ok) {
				return
			}

		case <-ticker.C:
			if !c.writePingMessage() {
				return
			}
		}
	}
}

// writeQueuedFrame writes one frame pulled from the send queue. A closed queue
// becomes a close message. It returns false when WritePump should stop.
func (c *Client) writeQueuedFrame(frame []byte, ok bool) bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline")
		return false
	}

	if !ok {
		if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
			c.logger.Debug().Err(err).Msg("Error writing close message")
		}
		return false
	}

	if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		c.logger.Error().Err(err).Msg("Error writing frame")
		return false
	}

	return true
}

// writePingMessage sends a heartbeat ping. It returns false on write failure.
func (c *Client) writePingMessage() bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
		return false
	}

	if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		c.logger.Error().Err(err).Msg("Error writing ping")
		return false
	}

	return true
}
