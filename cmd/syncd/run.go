package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/lumichain/lumichain-go/pkg/broadcast"
	"github.com/lumichain/lumichain-go/pkg/config"
	"github.com/lumichain/lumichain-go/pkg/ledger"
	"github.com/lumichain/lumichain-go/pkg/logging"
	"github.com/lumichain/lumichain-go/pkg/mempool"
	"github.com/lumichain/lumichain-go/pkg/metrics"
	"github.com/lumichain/lumichain-go/pkg/peerset"
	"github.com/lumichain/lumichain-go/pkg/storage"
	enginesync "github.com/lumichain/lumichain-go/pkg/sync"
	"github.com/lumichain/lumichain-go/pkg/transport"
	"github.com/lumichain/lumichain-go/pkg/unclepool"
)

var configFlag = &cli.StringFlag{
	Name:     "config",
	Aliases:  []string{"c"},
	Usage:    "path to the daemon's YAML configuration file",
	Required: true,
}

func newRunCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "start the synchronization daemon",
		Flags: []cli.Flag{configFlag},
		Action: func(c *cli.Context) error {
			return runDaemon(c.String("config"))
		},
	}
}

func runDaemon(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log, err := logging.New(cfg.Logger)
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	store, err := storage.OpenBolt(filepath.Join(cfg.DataDir, "chain.db"))
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer store.Close() //nolint:errcheck

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	if cfg.Metrics.Enabled {
		serveMetrics(log, reg, cfg.Metrics.Addresses)
	}

	eng := enginesync.New(enginesync.Config{
		Logger:    log,
		Tunables:  cfg.Engine,
		Transport: transport.NewUnconnected(log),
		Storage:   store,
		Ledger:    ledger.NoOp{},
		Mempool:   mempool.New(),
		Uncles:    unclepool.New(),
		Publisher: broadcast.NewChannelPublisher(64),
		Peers:     peerset.New(),
		Metrics:   m,
		Rand:      rand.New(rand.NewSource(time.Now().UnixNano())),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("starting sync daemon", zap.String("data_dir", cfg.DataDir))
	if err := eng.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("engine run: %w", err)
	}
	log.Info("sync daemon stopped")
	return nil
}

func serveMetrics(log *zap.Logger, reg *prometheus.Registry, addrs []string) {
	if len(addrs) == 0 {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	for _, addr := range addrs {
		addr := addr
		srv := &http.Server{Addr: addr, Handler: mux}
		go func() {
			log.Info("serving metrics", zap.String("address", addr))
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error("metrics server stopped", zap.Error(err))
			}
		}()
	}
}
