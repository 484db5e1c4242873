package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"contentproof/internal/client/api"
	"contentproof/internal/client/cli"
)

func main() {
	defaultURL := os.Getenv("CONTENTPROOF_API_URL")
	if defaultURL == "" {
		defaultURL = "http://localhost:5000"
	}
	server := flag.String("server", defaultURL, "base URL of the API service")
	timeout := flag.Duration("timeout", 5*time.Minute, "per-request timeout, covers receipt waits")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client := api.New(*server, &http.Client{Timeout: *timeout})
	cli.NewApp(client, os.Stdin, os.Stdout).Run(ctx)
}
