// seed inserts development sample data for local testing.
// Idempotent: skips inserts if the dev user (alice) already exists.
package main

import (
	"context"
	"log"

	"courier/backend/internal/config"
	"courier/backend/internal/credential"
	"courier/backend/internal/db"
	messagerepo "courier/backend/internal/message/repository"
	messagesvc "courier/backend/internal/message/service"
	"courier/backend/internal/security"
	userrepo "courier/backend/internal/user/repository"
	usersvc "courier/backend/internal/user/service"
)

const (
	devPassword = "password123"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	ctx := context.Background()
	users := userrepo.NewPostgresRepository(conn)

	if existing, err := users.GetByUsername(ctx, "alice"); err != nil {
		log.Fatalf("seed: %v", err)
	} else if existing != nil {
		log.Println("seed: dev users already present, nothing to do")
		return
	}

	creds := credential.NewStore(users, security.NewHasher(cfg.BcryptCost))
	if _, err := creds.Register(ctx, "alice", devPassword, credential.Profile{
		FirstName: "Alice", LastName: "Anders", Phone: "555-0100",
	}); err != nil {
		log.Fatalf("seed alice: %v", err)
	}
	if _, err := creds.Register(ctx, "bob", devPassword, credential.Profile{
		FirstName: "Bob", LastName: "Barker", Phone: "555-0101",
	}); err != nil {
		log.Fatalf("seed bob: %v", err)
	}

	directory := usersvc.NewDirectory(users)
	registry := messagesvc.NewRegistry(messagerepo.NewPostgresRepository(conn), directory, nil)
	if _, err := registry.Create(ctx, "alice", "bob", "Welcome to courier!"); err != nil {
		log.Fatalf("seed message: %v", err)
	}

	log.Println("seed: created users alice and bob with one message")
}
