package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"bank_transactions/internal/domain"
	"bank_transactions/internal/logger"
	"bank_transactions/internal/service"
	"bank_transactions/internal/ws"

	"github.com/gorilla/websocket"
	"github.com/joho/godotenv"
)

// connects to the live feed, creates a deposit over HTTP and waits for its event
func main() {
	_ = godotenv.Load()
	logger.Init(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}
	// use 127.0.0.1 to prefer IPv4 (avoid resolving to [::1])
	host := flag.String("host", "127.0.0.1:"+port, "server host:port")
	timeout := flag.Duration("timeout", 5*time.Second, "how long to wait for the event")
	flag.Parse()

	conn, _, err := websocket.DefaultDialer.Dial(fmt.Sprintf("ws://%s/ws/transactions", *host), nil)
	if err != nil {
		logger.Fatal("dial feed", "error", err)
	}
	defer conn.Close()

	first := readMessage(conn, *timeout)
	if first.Type != ws.MsgReady {
		logger.Fatal("unexpected first frame", "type", first.Type)
	}

	created := createDeposit(*host)
	logger.Info("created transaction", "id", created.ID)

	deadline := time.Now().Add(*timeout)
	for time.Now().Before(deadline) {
		msg := readMessage(conn, time.Until(deadline))
		if msg.Type != ws.MsgTransaction || msg.Event == nil {
			continue
		}
		if msg.Event.Action == domain.EventCreated && msg.Event.ID == created.ID {
			logger.Info("smoke test finished", "action", msg.Event.Action, "id", msg.Event.ID)
			return
		}
	}
	logger.Fatal("no event received for created transaction", "id", created.ID)
}

func readMessage(conn *websocket.Conn, wait time.Duration) ws.Message {
	_ = conn.SetReadDeadline(time.Now().Add(wait))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		logger.Fatal("read feed", "error", err)
	}
	var msg ws.Message
	if err := json.Unmarshal(raw, &msg); err != nil {
		logger.Fatal("decode feed message", "error", err, "raw", string(raw))
	}
	return msg
}

func createDeposit(host string) domain.Transaction {
	body, _ := json.Marshal(map[string]any{
		"type":          domain.TransactionTypeDeposit,
		"amount":        "1.00",
		"targetAccount": "SMOKE-1",
	})
	req, err := http.NewRequest(http.MethodPost, fmt.Sprintf("http://%s/api/transactions", host), bytes.NewReader(body))
	if err != nil {
		logger.Fatal("build request", "error", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		token, err := service.NewTokenIssuer(secret, time.Minute).GenerateJWT("ws-smoke")
		if err != nil {
			logger.Fatal("gen token", "error", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		logger.Fatal("create transaction", "error", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		logger.Fatal("create transaction", "status", resp.StatusCode)
	}
	var tx domain.Transaction
	if err := json.NewDecoder(resp.Body).Decode(&tx); err != nil {
		logger.Fatal("decode created transaction", "error", err)
	}
	return tx
}
