// portfolioctl provisions admins and manages the database schema.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

func main() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		log.Errorf("portfolioctl: %s", err)
		cancel()
		os.Exit(1)
	}
}
