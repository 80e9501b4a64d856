package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/storefront/internal/admin"
	"github.com/example/storefront/internal/api"
	"github.com/example/storefront/internal/auth"
	"github.com/example/storefront/internal/config"
	"github.com/example/storefront/internal/domain/cart"
	"github.com/example/storefront/internal/domain/order"
	"github.com/example/storefront/internal/domain/product"
	"github.com/example/storefront/internal/domain/user"
	"github.com/example/storefront/internal/infrastructure/cache"
	"github.com/example/storefront/internal/infrastructure/kafka"
	"github.com/example/storefront/internal/infrastructure/store"
	"github.com/example/storefront/internal/payment"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[API] Invalid configuration: %v", err)
	}

	log.Println("[API] ========================================")
	log.Println("[API] Storefront API")
	log.Println("[API] ========================================")
	log.Printf("[API] Kafka: %v", cfg.KafkaBrokers)
	log.Printf("[API] Topic: %s", cfg.KafkaTopic)

	// PostgreSQL: products, users, orders, transactions
	db, err := store.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[API] Failed to connect to PostgreSQL: %v", err)
	}
	defer db.Close()
	if err := store.InitSchema(db); err != nil {
		log.Fatalf("[API] Failed to initialize schema: %v", err)
	}
	log.Println("[API] Connected to PostgreSQL")

	// DynamoDB: cart documents
	dynamoClient, err := store.NewDynamoClient(ctx, cfg.DynamoEndpoint)
	if err != nil {
		log.Fatalf("[API] Failed to create DynamoDB client: %v", err)
	}

	// Kafka: order events for the notifier
	producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer producer.Close()

	// Stores
	productStore := store.NewPostgresProductStore(db)
	orderStore := store.NewPostgresOrderStore(db)
	userStore := store.NewPostgresUserStore(db)
	transactionStore := store.NewPostgresTransactionStore(db)
	cartStore := store.NewDynamoCartStore(dynamoClient, cfg.CartTable)

	// Services
	productSvc := product.NewService(productStore, cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, "storefront"))
	cartSvc := cart.NewService(cartStore, productSvc)
	orderSvc := order.NewService(orderStore, cartSvc, productSvc, producer)
	userSvc := user.NewService(userStore)
	adminSvc := admin.NewService(orderStore, userStore, productStore)

	gateway := payment.NewStripeGateway(cfg.StripeSecretKey, cfg.StripeWebhookSecret)
	paymentSvc := payment.NewService(gateway, orderSvc, transactionStore, cfg.Currency)

	jwtService := auth.NewJWTService(cfg.JWTSecret, 24*time.Hour)

	router := api.NewRouter(
		api.NewHandlers(productSvc, cartSvc, orderSvc),
		api.NewAuthHandlers(userSvc, jwtService, cfg.ClerkWebhookSecret),
		api.NewPaymentHandlers(paymentSvc),
		api.NewAdminHandlers(adminSvc, orderSvc, userSvc),
		jwtService,
	)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("[API] Server started on :%s", cfg.Port)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("[API] Server error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[API] Shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("[API] Shutdown error: %v", err)
	}
}
