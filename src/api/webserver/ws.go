package webserver

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/querysync/querysync/src/api/hub"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The push channel is unauthenticated and outbound-only; origin checks
	// happen at the CORS layer for the REST surface.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsConn adapts a gorilla connection to hub.Conn. gorilla allows a single
// concurrent writer, so writes serialize through the mutex; the short
// deadline keeps a hung client from stalling the dispatcher.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsConn) WriteText(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (c *wsConn) Close() error { return c.conn.Close() }

type WS struct{ hub *hub.Hub }

func NewWS(h *hub.Hub) WS { return WS{hub: h} }

// Handle upgrades the request and parks it in the hub until the client goes
// away. Inbound frames are read and discarded to service pings and detect
// disconnects.
func (h WS) Handle(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade: %v", err)
		return
	}

	client := &wsConn{conn: conn}
	h.hub.Register(client)
	defer func() {
		h.hub.Unregister(client)
		conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
