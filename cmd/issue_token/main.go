package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"bank_transactions/internal/logger"
	"bank_transactions/internal/service"

	"github.com/joho/godotenv"
)

// prints a bearer token for POST/PUT/DELETE /api/transactions
func main() {
	_ = godotenv.Load()
	logger.Init(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))

	subject := flag.String("sub", "teller", "token subject")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		logger.Fatal("JWT_SECRET not set")
	}

	token, err := service.NewTokenIssuer(secret, *ttl).GenerateJWT(*subject)
	if err != nil {
		logger.Fatal("failed to generate token", "error", err)
	}
	fmt.Println(token)
}
