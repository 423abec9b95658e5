package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/Sontome/web-b2b-thuhongtour/internal/infrastructure/oauth"
	"github.com/Sontome/web-b2b-thuhongtour/pkg/logger"
)

// Prints a Gmail refresh token for GMAIL_CLIENT_ID / GMAIL_CLIENT_SECRET
func main() {
	_ = godotenv.Load()

	clientID := os.Getenv("GMAIL_CLIENT_ID")
	clientSecret := os.Getenv("GMAIL_CLIENT_SECRET")
	if clientID == "" || clientSecret == "" {
		log.Fatal("GMAIL_CLIENT_ID and GMAIL_CLIENT_SECRET must be set")
	}

	gmailOAuth := oauth.NewGmailOAuth(clientID, clientSecret, "", logger.NewNop())

	fmt.Printf("Open this URL in your browser:\n%s\n\n", gmailOAuth.AuthURL())
	fmt.Print("Paste the authorization code: ")

	var code string
	if _, err := fmt.Scanln(&code); err != nil {
		log.Fatalf("Failed to read code: %v", err)
	}

	token, err := gmailOAuth.ExchangeCode(context.Background(), code)
	if err != nil {
		log.Fatalf("Failed to exchange code: %v", err)
	}

	fmt.Printf("\nRefresh Token: %s\n", token.RefreshToken)
}

