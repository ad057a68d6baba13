package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/sheikh-saqib/bank-ledger-system/internal/config"
	"github.com/sheikh-saqib/bank-ledger-system/internal/events/kafka"
	"github.com/sheikh-saqib/bank-ledger-system/internal/interfaces"
	"github.com/sheikh-saqib/bank-ledger-system/internal/ledger"
	"github.com/sheikh-saqib/bank-ledger-system/internal/relay"
	"github.com/sheikh-saqib/bank-ledger-system/internal/server"
	"github.com/sheikh-saqib/bank-ledger-system/internal/storage/memory"
	"github.com/sheikh-saqib/bank-ledger-system/internal/storage/postgres"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg := config.Load()
	ctx := context.Background()

	var archive interfaces.JournalArchive
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("open database", zap.Error(err))
		}
		defer db.Close()

		pg := postgres.NewArchive(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			logger.Fatal("ensure schema", zap.Error(err))
		}
		archive = pg
		logger.Info("using postgres archive")
	} else {
		archive = memory.NewArchive()
		logger.Info("using in-memory archive")
	}

	bank := ledger.NewBank()
	if err := bank.Restore(ctx, archive); err != nil {
		logger.Fatal("restore bank from archive", zap.Error(err))
	}
	logger.Info("bank restored", zap.Int64("last_sequence", bank.LastSequence()))

	var publisher interfaces.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		kp := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer kp.Close()
		publisher = kp
		logger.Info("kafka publisher enabled", zap.Strings("brokers", cfg.KafkaBrokers))
	}

	rl := relay.New(bank, archive, publisher, cfg.KafkaTopic, logger)
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      server.New(bank, rl, logger).Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("ledger server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
	}
}
