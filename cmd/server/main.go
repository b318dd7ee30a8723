package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/DevOpsVX/volxo-backend/internal/config"
	"github.com/DevOpsVX/volxo-backend/internal/engine"
	"github.com/DevOpsVX/volxo-backend/internal/httpx"
	"github.com/DevOpsVX/volxo-backend/internal/refine"
	"github.com/DevOpsVX/volxo-backend/internal/store"
	"github.com/DevOpsVX/volxo-backend/internal/telemetry"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		slog.Error("config", slog.String("err", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	m := telemetry.New(reg)

	eng := engine.New(engine.Options{RowCap: cfg.RowCap, TopN: cfg.TopEntities}, logger)
	st := store.NewMemoryStore(cfg.StoreCap)
	ref := refine.New(cfg.Refiner, logger)

	r := httpx.NewRouter(httpx.Deps{
		Log:            logger,
		Engine:         eng,
		Store:          st,
		Refiner:        ref,
		Metrics:        m,
		Registry:       reg,
		MaxUploadBytes: cfg.MaxUploadBytes,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("starting server", slog.String("port", cfg.Port))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", slog.String("err", err.Error()))
		os.Exit(1)
	}
}
