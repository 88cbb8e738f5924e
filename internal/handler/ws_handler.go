package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"planboard/internal/notify"
)

const (
	pongWait       = 60 * time.Second
	maxMessageSize = 512
)

// WSHandler upgrades an authenticated request to a websocket and parks
// it in the hub so fanout can push new notifications live.
type WSHandler struct {
	hub            *notify.Hub
	allowedOrigins []string
	log            *logrus.Logger
}

func NewWSHandler(hub *notify.Hub, allowedOrigins []string, log *logrus.Logger) *WSHandler {
	return &WSHandler{hub: hub, allowedOrigins: allowedOrigins, log: log}
}

// Connect upgrades the request and keeps the connection registered until
// the client goes away
// @Summary      Notification stream
// @Tags         Notifications
// @Security     BearerAuth
// @Router       /ws [get]
func (h *WSHandler) Connect(c *gin.Context) {
	caller, ok := mustCaller(c)
	if !ok {
		return
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			for _, allowed := range h.allowedOrigins {
				if origin == allowed {
					return true
				}
			}
			return false
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.WithError(err).Debug("websocket upgrade failed")
		return
	}

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		conn.Close()
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	h.hub.Register(caller.ID, conn)
	defer func() {
		h.hub.Unregister(caller.ID, conn)
		conn.Close()
	}()

	// The read loop only exists to notice disconnects and answer pings.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
