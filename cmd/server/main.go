package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/giftguide/backend/config"
	httpDelivery "github.com/giftguide/backend/internal/delivery/http"
	"github.com/giftguide/backend/internal/domain"
	"github.com/giftguide/backend/internal/infrastructure/cache"
	"github.com/giftguide/backend/internal/infrastructure/events"
	"github.com/giftguide/backend/internal/infrastructure/storefront"
	"github.com/giftguide/backend/internal/usecase"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting Gift Guide Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)

	// Initialize infrastructure dependencies
	sessionStore := cache.NewMemoryCache(cfg.Session.CleanupInterval, usecase.CloseEvictedModal)
	defer sessionStore.Close()
	log.Printf("Session TTL: %s", cfg.Session.TTL)

	cartClient := storefront.NewClient(cfg.Storefront.BaseURL, cfg.Storefront.Root, storefront.ClientConfig{
		Timeout:   cfg.Storefront.Timeout,
		RateLimit: cfg.Storefront.RateLimit,
		Burst:     cfg.Storefront.Burst,
	})
	log.Printf("Storefront cart endpoint: %s", cartClient.AddEndpoint())

	// Enable debug mode in development environment
	if cfg.Server.Environment == "development" {
		cartClient.SetDebug(true)
		log.Printf("Storefront client debug mode enabled")
	}

	decoder := storefront.NewSnapshotDecoder()
	broker := events.NewBroker()

	publishers := events.Multi{broker}
	if len(cfg.Events.KafkaBrokers) > 0 {
		kafkaPublisher := events.NewKafkaPublisher(cfg.Events.KafkaBrokers, cfg.Events.KafkaTopic)
		defer func() {
			if err := kafkaPublisher.Close(); err != nil {
				log.Printf("[Kafka] close failed: %v", err)
			}
		}()
		publishers = append(publishers, kafkaPublisher)
		log.Printf("Kafka publishing enabled: topic=%s brokers=%v", cfg.Events.KafkaTopic, cfg.Events.KafkaBrokers)
	}
	var publisher domain.EventPublisher = publishers

	money, err := usecase.NewMoneyFormatter(cfg.GiftGuide.Locale, cfg.GiftGuide.Currency)
	if err != nil {
		log.Fatalf("Failed to configure money formatting: %v", err)
	}

	if cfg.GiftGuide.BonusVariantID != 0 {
		log.Printf("Bundle rule enabled: bonus variant %d", cfg.GiftGuide.BonusVariantID)
	} else {
		log.Printf("Bundle rule disabled (no bonus variant configured)")
	}

	// Initialize usecase layer
	modalService := usecase.NewModalService(
		sessionStore,
		cartClient,
		publisher,
		decoder,
		usecase.ModalServiceConfig{
			SessionTTL: cfg.Session.TTL,
			Modal: usecase.ModalConfig{
				BonusVariantID:  cfg.GiftGuide.BonusVariantID,
				AddedCloseDelay: cfg.GiftGuide.AddedCloseDelay,
				Money:           money,
			},
		},
	)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(modalService, storefront.NewCardExtractor(decoder), broker)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Request contexts derive from ctx so open event streams end on shutdown
	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Printf("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Printf("Server stopped with error: %v", err)
		return
	}
	log.Printf("Server stopped")
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
