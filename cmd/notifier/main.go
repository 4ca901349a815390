package main

import (
	"context"
	"github.com/ariefcatur/go-kantin-orders/internal/config"
	kafkax "github.com/ariefcatur/go-kantin-orders/internal/kafka"
	"github.com/ariefcatur/go-kantin-orders/internal/logging"
	"github.com/ariefcatur/go-kantin-orders/internal/notify"
	"github.com/ariefcatur/go-kantin-orders/internal/orders"
	"github.com/ariefcatur/go-kantin-orders/internal/redisx"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"log"
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
	service := cfg.ServiceName + "-notifier"
	logger, err := logging.New(service, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis wajib: dedup + papan pengambilan
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()
	if err := redisx.Ping(ctx, rdb); err != nil {
		logger.Fatal("redis unreachable", zap.String("addr", cfg.RedisAddr), zap.Error(err))
	}

	loc, err := time.LoadLocation("Asia/Jakarta")
	if err != nil {
		logger.Warn("timezone Asia/Jakarta unavailable, using local", zap.Error(err))
		loc = time.Local
	}

	svc := &notify.Service{
		Redis:       rdb,
		Board:       &redisx.Board{Redis: rdb},
		Log:         logger,
		ServiceName: service,
		Location:    loc,
	}

	cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.NotifierGroup, orders.TopicOrderConfirmed, cfg.NotifierWorkers, logger)
	done := make(chan struct{})
	go func() {
		defer close(done)
		logger.Info("notifier consumer started",
			zap.String("group", cfg.NotifierGroup),
			zap.String("topic", orders.TopicOrderConfirmed),
			zap.Int("workers", cfg.NotifierWorkers))
		if err := cons.Start(ctx, svc.HandleOrderConfirmed); err != nil {
			logger.Error("consumer exit", zap.Error(err))
			cancel()
		}
	}()

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-ctx.Done():
	}
	logger.Info("shutting down consumer")
	cancel()
	<-done
}
