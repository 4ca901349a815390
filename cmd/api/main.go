package main

import (
	"context"
	"errors"
	"github.com/ariefcatur/go-kantin-orders/internal/catalog"
	"github.com/ariefcatur/go-kantin-orders/internal/checkout"
	"github.com/ariefcatur/go-kantin-orders/internal/config"
	"github.com/ariefcatur/go-kantin-orders/internal/httpx"
	kafkax "github.com/ariefcatur/go-kantin-orders/internal/kafka"
	"github.com/ariefcatur/go-kantin-orders/internal/logging"
	"github.com/ariefcatur/go-kantin-orders/internal/orders"
	"github.com/ariefcatur/go-kantin-orders/internal/postgres"
	"github.com/ariefcatur/go-kantin-orders/internal/rabbitmq"
	"github.com/ariefcatur/go-kantin-orders/internal/redisx"
	"github.com/ariefcatur/go-kantin-orders/internal/session"
	"github.com/ariefcatur/go-kantin-orders/internal/store"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := logging.New(cfg.ServiceName, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Katalog
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		logger.Fatal("catalog load failed", zap.String("path", cfg.CatalogPath), zap.Error(err))
	}
	logger.Info("catalog loaded", zap.Int("items", len(cat.List())))

	// Store
	backend, closeBackend := openBackend(ctx, cfg, logger)
	defer closeBackend()

	// Notifikasi pesanan
	pub, closePublisher := openPublisher(ctx, cfg, logger)

	sessions := session.NewRegistry(backend, pub, logger)
	go sessions.RunEvictor(ctx, time.Minute, cfg.SessionIdleTTL)

	router := httpx.NewRouter(logger)
	httpx.NewAPI(cat, sessions, logger).Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router, ReadHeaderTimeout: 5 * time.Second}

	// graceful shutdown
	go func() {
		logger.Info("http listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen failed", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info("shutting down")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	closePublisher()
	cancel()
}

// openBackend picks the slot store. An unreachable redis/postgres degrades to memory:
// the storefront keeps working, carts just do not survive a restart.
func openBackend(ctx context.Context, cfg config.Config, logger *zap.Logger) (store.Backend, func()) {
	switch cfg.StoreBackend {
	case config.StoreRedis:
		rdb := redisx.New(cfg.RedisAddr)
		if err := redisx.Ping(ctx, rdb); err != nil {
			_ = rdb.Close()
			logger.Warn("redis unreachable, using memory store", zap.String("addr", cfg.RedisAddr), zap.Error(err))
			break
		}
		logger.Info("store backend", zap.String("backend", "redis"), zap.Duration("slot_ttl", cfg.SlotTTL))
		return &redisx.Store{Redis: rdb, TTL: cfg.SlotTTL}, func() { _ = rdb.Close() }
	case config.StorePostgres:
		db, err := postgres.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			logger.Warn("postgres unreachable, using memory store", zap.Error(err))
			break
		}
		st := &postgres.Store{DB: db}
		if err := st.Migrate(ctx); err != nil {
			db.Close()
			logger.Warn("postgres migrate failed, using memory store", zap.Error(err))
			break
		}
		logger.Info("store backend", zap.String("backend", "postgres"))
		return st, db.Close
	}
	logger.Info("store backend", zap.String("backend", "memory"))
	return store.NewMemory(), func() {}
}

func openPublisher(ctx context.Context, cfg config.Config, logger *zap.Logger) (checkout.Publisher, func()) {
	switch cfg.NotifyTransport {
	case config.TransportKafka:
		prod := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderConfirmed, 1024, logger)
		prod.Start(ctx)
		logger.Info("order events via kafka", zap.Strings("brokers", cfg.KafkaBrokers))
		return &kafkax.OrderPublisher{Producer: prod, ServiceName: cfg.ServiceName}, func() {
			prod.Close()      // flush & close writer
			prod.WaitClosed() // drain
		}
	case config.TransportAMQP:
		c, err := rabbitmq.Dial(cfg.AMQPURL)
		if err != nil {
			logger.Warn("rabbitmq unreachable, order events disabled", zap.Error(err))
			return nil, func() {}
		}
		logger.Info("order events via rabbitmq", zap.String("exchange", rabbitmq.ExchangeOrders))
		return rabbitmq.NewOrderPublisher(c, cfg.ServiceName), c.Close
	}
	return nil, func() {}
}
