package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jcmexdev/vayu-checkout/internal/config"
	"github.com/jcmexdev/vayu-checkout/internal/events"
	"github.com/jcmexdev/vayu-checkout/internal/httpx"
	"github.com/jcmexdev/vayu-checkout/internal/order"
	"github.com/jcmexdev/vayu-checkout/internal/order/sqlite"
	"github.com/jcmexdev/vayu-checkout/internal/pkg/cache"
	"github.com/jcmexdev/vayu-checkout/internal/pkg/telemetry"
	"github.com/jcmexdev/vayu-checkout/internal/policy"
	"github.com/jcmexdev/vayu-checkout/internal/pricing"
	"github.com/jcmexdev/vayu-checkout/internal/razorpay"
)

func main() {
	telemetry.InitLogger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()

	shutdownTracer, err := telemetry.SetupTracer(ctx, "checkout-service")
	if err != nil {
		slog.Warn("tracing disabled", "error", err)
	} else {
		defer shutdownTracer(context.Background())
	}

	catalog := pricing.DefaultCatalog()
	if cfg.CatalogPath != "" {
		if catalog, err = pricing.LoadCatalog(cfg.CatalogPath); err != nil {
			log.Fatalf("catalog: %v", err)
		}
	}

	store, err := sqlite.Open(cfg.OrdersDBPath)
	if err != nil {
		log.Fatalf("order store: %v", err)
	}
	defer store.Close()

	var publisher events.Publisher
	if cfg.AMQPURL != "" {
		amqpPub, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			log.Fatalf("events: %v", err)
		}
		defer amqpPub.Close()
		publisher = amqpPub
	}

	var orderCache cache.Cache
	if cfg.RedisAddr != "" {
		orderCache = cache.NewRedisCache(cfg.RedisAddr, "checkout")
	}

	gateway := razorpay.NewClient(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret, cfg.Razorpay.Timeout)

	service := order.NewService(catalog, store, gateway, publisher,
		cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret, cfg.Currency)

	purchasePolicy := policy.NewAllowlist(cfg.AdminEmails, cfg.ClosedBeta)

	handler := httpx.NewHandler(service, purchasePolicy, orderCache)
	router := httpx.NewRouter(handler)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("checkout service listening", "addr", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}
