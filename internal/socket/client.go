package socket

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait = 10 * time.Second

	// pongWait bounds how long a silent peer stays connected
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// join/leave/ping frames are tiny, anything bigger is a protocol error
	maxMessageSize int64 = 4096
)

// clientCommand is an inbound frame: a room subscription change or a
// keepalive. Clients never push entity data; all updates flow server→client.
type clientCommand struct {
	Action string `json:"action"`
	Room   string `json:"room,omitempty"`
}

// ReadPump pumps inbound frames from the connection to the hub. It owns the
// read side; the connection is torn down when it returns.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		c.lastPing = time.Now()
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("❌ [Socket] Read error for user %s: %v", c.UserID, err)
			}
			break
		}
		c.handleCommand(message)
	}
}

// WritePump pumps hub messages out over the connection and keeps the peer
// alive with periodic pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// hub closed the channel
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// drain anything queued behind it into the same frame
			n := len(c.Send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.Send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleCommand(message []byte) {
	var cmd clientCommand
	if err := json.Unmarshal(message, &cmd); err != nil {
		log.Printf("❌ [Socket] Bad frame from user %s: %v", c.UserID, err)
		return
	}

	switch cmd.Action {
	case "join":
		if cmd.Room != "" {
			c.Hub.JoinRoom(c, cmd.Room)
			c.enqueue(MessageAck, map[string]interface{}{"action": "joined", "room": cmd.Room})
		}

	case "leave":
		if cmd.Room != "" {
			c.Hub.LeaveRoom(c, cmd.Room)
			c.enqueue(MessageAck, map[string]interface{}{"action": "left", "room": cmd.Room})
		}

	case "ping":
		c.lastPing = time.Now()
		c.enqueue(MessagePong, map[string]interface{}{"time": time.Now().Unix()})

	case "pong":
		c.lastPing = time.Now()

	default:
		log.Printf("❌ [Socket] Unknown action %q from user %s", cmd.Action, c.UserID)
	}
}

// enqueue drops the message if the client's send buffer is full rather than
// blocking the hub.
func (c *Client) enqueue(msgType MessageType, payload map[string]interface{}) {
	data, _ := json.Marshal(Message{
		Type:      msgType,
		Payload:   payload,
		Timestamp: time.Now(),
	})

	select {
	case c.Send <- data:
	default:
		log.Printf("❌ [Socket] Send buffer full for user %s, dropping %s", c.UserID, msgType)
	}
}
