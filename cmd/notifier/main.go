package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/storefront/internal/config"
	"github.com/example/storefront/internal/email"
	"github.com/example/storefront/internal/infrastructure/kafka"
	"github.com/example/storefront/internal/infrastructure/store"
	"github.com/example/storefront/internal/notification"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[Notifier] Invalid configuration: %v", err)
	}

	log.Println("[Notifier] ========================================")
	log.Println("[Notifier] Storefront Notifier")
	log.Println("[Notifier] ========================================")
	log.Printf("[Notifier] Kafka: %v", cfg.KafkaBrokers)
	log.Printf("[Notifier] Topic: %s", cfg.KafkaTopic)
	log.Printf("[Notifier] SMTP: %s:%s", cfg.SMTPHost, cfg.SMTPPort)

	db, err := store.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[Notifier] Failed to connect to PostgreSQL: %v", err)
	}
	defer db.Close()

	emailSvc := email.NewService(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom)
	handler := notification.NewHandler(emailSvc, store.NewPostgresUserStore(db))

	consumer := kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaTopic, "notifier")
	defer consumer.Close()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("[Notifier] Shutting down...")
		cancel()
	}()

	log.Println("[Notifier] Consuming order events...")
	if err := consumer.Consume(ctx, handler.HandleEvent); err != nil && ctx.Err() == nil {
		log.Fatalf("[Notifier] Consumer error: %v", err)
	}
}
