package router

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/quickcart-grocery/api/internal/push"
	"github.com/quickcart-grocery/api/pkg/global"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		return origin == cfg.ClientURL ||
			origin == "http://localhost:3000" ||
			origin == "http://localhost:5173"
	},
}

// clientFrame is the only message shape clients send: an explicit join after
// the socket is established.
type clientFrame struct {
	Event string `json:"event"`
}

// WebSocket upgrades the connection and subscribes the caller to their own
// event group. Browsers cannot set headers on websocket requests, so the
// token rides the query string; the Authorization header still works for
// non-browser clients.
func WebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		token = strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	}
	if token == "" {
		abortUnauthorized(c, "No token, authorization denied")
		return
	}

	user, err := resolveToken(c.Request.Context(), token)
	if err != nil {
		abortUnauthorized(c, "Token is not valid")
		return
	}

	socket, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		global.Log().WithError(err).Debug("websocket upgrade failed")
		return
	}

	conn := push.WrapConn(socket)
	userID := user.ID.Hex()
	joined := false

	defer func() {
		if joined {
			hub.Leave(userID, conn)
		}
		conn.Close()
	}()

	for {
		var frame clientFrame
		if err := socket.ReadJSON(&frame); err != nil {
			return
		}
		if frame.Event == "join-user" && !joined {
			hub.Join(userID, conn)
			joined = true
		}
	}
}
