// kantinctl is the staff console: browse the menu, look up a session's orders and
// read today's pickup board.
package main

import (
	"context"
	"fmt"
	"github.com/ariefcatur/go-kantin-orders/internal/catalog"
	"github.com/ariefcatur/go-kantin-orders/internal/config"
	"github.com/ariefcatur/go-kantin-orders/internal/logging"
	"github.com/ariefcatur/go-kantin-orders/internal/postgres"
	"github.com/ariefcatur/go-kantin-orders/internal/redisx"
	"github.com/ariefcatur/go-kantin-orders/internal/store"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"os"
)

type app struct {
	cfg config.Config
	log *zap.Logger

	openBackend func(ctx context.Context) (store.Backend, func(), error)
	openRedis   func(ctx context.Context) (*redis.Client, error)
}

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger, err := logging.New("kantinctl", cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	a := &app{cfg: cfg, log: logger}
	a.openBackend = a.dialBackend
	a.openRedis = a.dialRedis
	if err := newRootCmd(a).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "kantinctl",
		Short:         "Staff console for the kantin ordering service",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newMenuCmd(a), newPopularCmd(a), newOrdersCmd(a), newBoardCmd(a))
	return root
}

func (a *app) catalog() (*catalog.Catalog, error) {
	return catalog.Load(a.cfg.CatalogPath)
}

// Beda dengan API: di CLI backend yang tidak bisa dihubungi adalah error, bukan fallback.
func (a *app) dialBackend(ctx context.Context) (store.Backend, func(), error) {
	switch a.cfg.StoreBackend {
	case config.StoreRedis:
		rdb, err := a.dialRedis(ctx)
		if err != nil {
			return nil, nil, err
		}
		return &redisx.Store{Redis: rdb, TTL: a.cfg.SlotTTL}, func() { _ = rdb.Close() }, nil
	case config.StorePostgres:
		db, err := postgres.Connect(ctx, a.cfg.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		return &postgres.Store{DB: db}, db.Close, nil
	}
	return nil, nil, fmt.Errorf("store backend %q keeps nothing between processes", a.cfg.StoreBackend)
}

func (a *app) dialRedis(ctx context.Context) (*redis.Client, error) {
	rdb := redisx.New(a.cfg.RedisAddr)
	if err := redisx.Ping(ctx, rdb); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis %s: %w", a.cfg.RedisAddr, err)
	}
	return rdb, nil
}
