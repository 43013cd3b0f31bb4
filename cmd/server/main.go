package main

import (
	"os"
	"path/filepath"
	"time"

	"portfolioTracker/internal/common"
	"portfolioTracker/internal/config"
	"portfolioTracker/internal/feed"
	"portfolioTracker/internal/insight"
	"portfolioTracker/internal/notify"
	"portfolioTracker/internal/portfolio"
	"portfolioTracker/internal/server"
	"portfolioTracker/internal/storage"
)

func main() {
	cfg := config.Load()
	logger := common.NewLogger(cfg.LogLevel)

	// Ensure parent directory for the DB exists
	_ = os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755)
	db, err := storage.OpenSQLite("file:" + cfg.DBPath + "?_fk=1")
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open sqlite")
	}
	defer db.Close()
	if err := storage.InitSchema(db); err != nil {
		logger.Fatal().Err(err).Msg("failed to ensure schema")
	}
	logger.Info().Str("path", cfg.DBPath).Msg("db: opened sqlite, schema ensured")

	yahoo := feed.NewYahooClient(time.Duration(cfg.FeedTimeoutSeconds)*time.Second, logger)
	svc := portfolio.NewService(yahoo, logger, portfolio.ServiceOptions{
		HoldingsPath:  cfg.HoldingsPath,
		BenchmarkRate: cfg.BenchmarkRate,
		TFSALimit:     cfg.TFSALimit,
	})
	svc.SetRunRecorder(storage.NewStore(db))

	if cfg.TelegramToken != "" && cfg.TelegramChatID != 0 {
		notifier, err := notify.New(cfg.TelegramToken, cfg.TelegramChatID, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to initialize telegram notifier")
		}
		svc.SetNotifier(notifier)
		logger.Info().Msg("telegram: risk alerts enabled")
	}

	cache := portfolio.NewCache(time.Duration(cfg.CacheTTLSeconds)*time.Second, svc.Compute)
	srv := server.New(logger, cache)

	if cfg.OpenAIKey != "" {
		srv.SetInsightGenerator(insight.NewGenerator(cfg.OpenAIKey))
		logger.Info().Msg("openai: insight endpoint enabled")
	}

	addr := ":" + cfg.Port
	logger.Info().Str("addr", addr).Msg("http: listening")
	if err := server.ListenAndServe(addr, srv.Handler()); err != nil {
		logger.Error().Err(err).Msg("server error")
		os.Exit(1)
	}
}
