package handlers

import (
	"net/http"

	"bank_transactions/internal/logger"
	"bank_transactions/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// TransactionFeed upgrades to a websocket that streams every transaction write
func TransactionFeed(hub *ws.Hub, allowedOrigin string) gin.HandlerFunc {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			if allowedOrigin == "" {
				return true
			}
			return r.Header.Get("Origin") == allowedOrigin
		},
	}

	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.WithContext(c.Request.Context()).Warn("ws upgrade error", "error", err)
			return
		}

		ws.NewClient(conn, hub).Run()
	}
}
