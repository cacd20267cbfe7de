// Server runs the messaging HTTP API.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"courier/backend/internal/audit"
	auditrepo "courier/backend/internal/audit/repository"
	"courier/backend/internal/config"
	"courier/backend/internal/credential"
	"courier/backend/internal/db"
	identitysvc "courier/backend/internal/identity/service"
	messagerepo "courier/backend/internal/message/repository"
	messagesvc "courier/backend/internal/message/service"
	"courier/backend/internal/platform/authz"
	"courier/backend/internal/security"
	"courier/backend/internal/server"
	"courier/backend/internal/server/handler"
	"courier/backend/internal/server/middleware"
	"courier/backend/internal/telemetry"
	telemetryotel "courier/backend/internal/telemetry/otel"
	"courier/backend/internal/telemetry/producer"
	userrepo "courier/backend/internal/user/repository"
	usersvc "courier/backend/internal/user/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()

	providers, err := telemetryotel.NewProviders(ctx, cfg.OTLPEndpoint, "courier-server", cfg.OTLPInsecure)
	if err != nil {
		log.Fatalf("telemetry: %v", err)
	}
	providers.SetGlobal()

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	users := userrepo.NewPostgresRepository(conn)
	messages := messagerepo.NewPostgresRepository(conn)
	audits := auditrepo.NewPostgresRepository(conn)

	auditor := audit.NewLogger(audits, func(ctx context.Context) string {
		if ip := middleware.ClientIPFromContext(ctx); ip != "" {
			return ip
		}
		return "unknown"
	})

	hasher := security.NewHasher(cfg.BcryptCost)
	tokens := security.NewTokenProvider([]byte(cfg.JWTSecret), cfg.JWTIssuer, cfg.TokenTTLDuration())

	creds := credential.NewStore(users, hasher)
	directory := usersvc.NewDirectory(users)
	registry := messagesvc.NewRegistry(messages, directory, auditor)
	auth := identitysvc.NewAuthService(creds, tokens, auditor)

	guard, err := authz.NewGuard(ctx, tokens, directory)
	if err != nil {
		log.Fatalf("authz: %v", err)
	}

	kafkaProducer, err := producer.NewKafkaProducer(cfg.EventsKafkaBrokersList(), cfg.EventsKafkaTopic)
	if err != nil {
		log.Fatalf("kafka: %v", err)
	}
	emitters := telemetry.MultiEmitter{telemetryotel.NewEventEmitter(providers.LoggerProvider)}
	if kafkaProducer != nil {
		defer kafkaProducer.Close()
		emitters = append(emitters, kafkaProducer)
	}

	router := server.NewRouter(
		handler.NewAuthHandler(auth),
		handler.NewUserHandler(directory, registry, guard),
		handler.NewMessageHandler(registry, guard),
		handler.NewHealthHandler(conn),
		emitters,
	)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("HTTP server listening on %s", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}

	// Let in-flight async emits finish before tearing down the providers.
	time.Sleep(telemetry.ShutdownDrainDuration)
	if err := providers.Shutdown(shutdownCtx); err != nil {
		log.Printf("telemetry shutdown: %v", err)
	}
	log.Println("HTTP server stopped")
}
