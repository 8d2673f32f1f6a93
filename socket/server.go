package socket

import (
	"log"

	gosocketio "github.com/erock530/gosf-socketio"
)

// NewSocketServer initializes the change-feed server. Clients join a room
// per table id and receive tableEvent broadcasts after store writes. The
// feed mirrors state for UI responsiveness only; the engine never reads it.
func NewSocketServer() *gosocketio.Server {
	server := gosocketio.NewServer(nil)

	server.On(gosocketio.OnConnection, func(c *gosocketio.Channel) {
		log.Println("✅ Socket connected:", c.Id())
	})

	server.On("join", func(c *gosocketio.Channel, data map[string]string) {
		tableID := data["tableId"]
		if tableID == "" {
			log.Println("❌ Invalid tableId in join request")
			return
		}
		log.Printf("👥 Client %s watching table %s\n", c.Id(), tableID)
		c.Join(tableID)
	})

	server.On(gosocketio.OnDisconnection, func(c *gosocketio.Channel) {
		log.Println("❌ Socket disconnected:", c.Id())
	})

	return server
}

// Broadcaster publishes table change events to the socket server
type Broadcaster struct {
	Server *gosocketio.Server
}

// PublishTableEvent sends a change event to everyone watching the table.
// Best-effort: a nil broadcaster or server drops the event.
func (b *Broadcaster) PublishTableEvent(tableID string, event map[string]interface{}) {
	if b == nil || b.Server == nil || tableID == "" {
		return
	}
	b.Server.BroadcastTo(tableID, "tableEvent", event)
}
