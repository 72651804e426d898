package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bank_transactions/internal/domain"
	"bank_transactions/internal/logger"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFeedServer(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		NewClient(conn, hub).Run()
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	var ready Message
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	require.NoError(t, conn.ReadJSON(&ready))
	require.Equal(t, MsgReady, ready.Type)
	return conn
}

func TestHub_BroadcastsEvents(t *testing.T) {
	hub := NewHub(logger.Discard())
	srv := newFeedServer(t, hub)

	a := dial(t, srv)
	b := dial(t, srv)
	require.Eventually(t, func() bool { return hub.Count() == 2 }, time.Second, 10*time.Millisecond)

	tx := &domain.Transaction{ID: 1, Type: domain.TransactionTypeDeposit, Amount: decimal.NewFromInt(100)}
	require.NoError(t, hub.Publish(context.Background(), domain.TransactionEvent{Action: domain.EventCreated, ID: 1, Transaction: tx}))

	for _, conn := range []*websocket.Conn{a, b} {
		var msg Message
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		require.NoError(t, conn.ReadJSON(&msg))
		assert.Equal(t, MsgTransaction, msg.Type)
		require.NotNil(t, msg.Event)
		assert.Equal(t, domain.EventCreated, msg.Event.Action)
		assert.Equal(t, int64(1), msg.Event.ID)
	}
}

func TestHub_UnregistersOnDisconnect(t *testing.T) {
	hub := NewHub(logger.Discard())
	srv := newFeedServer(t, hub)

	conn := dial(t, srv)
	require.Eventually(t, func() bool { return hub.Count() == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return hub.Count() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_DropsSlowClient(t *testing.T) {
	hub := NewHub(logger.Discard())
	c := &Client{Send: make(chan []byte, 1), hub: hub}
	hub.Register(c)

	ctx := context.Background()
	require.NoError(t, hub.Publish(ctx, domain.TransactionEvent{Action: domain.EventDeleted, ID: 1}))
	assert.Equal(t, 1, hub.Count())

	require.NoError(t, hub.Publish(ctx, domain.TransactionEvent{Action: domain.EventDeleted, ID: 2}))
	assert.Equal(t, 0, hub.Count())

	// buffered message still readable, then the channel is closed
	<-c.Send
	_, open := <-c.Send
	assert.False(t, open)

	hub.Unregister(c)
}
