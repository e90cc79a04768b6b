// README: Entry point; loads config, wires services and runs the HTTP server until SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"guardian/internal/ai"
	"guardian/internal/config"
	httptransport "guardian/internal/http"
	"guardian/internal/infra"
	"guardian/internal/logger"
	"guardian/internal/maps"
	"guardian/internal/modules/analysis"
	"guardian/internal/modules/history"
	"guardian/internal/modules/itinerary"
	"guardian/internal/parser"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	llm, closeLLM, err := ai.NewFromConfig(ctx, cfg)
	if err != nil {
		lg.Fatal("llm client init", zap.Error(err))
	}
	defer closeLLM()

	deps := httptransport.ServerDeps{Logger: lg}

	var recorder analysis.Recorder
	if cfg.DB.DSN != "" {
		dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
		if err != nil {
			lg.Fatal("db init", zap.Error(err))
		}
		defer dbPool.Close()
		store := history.NewStore(dbPool)
		recorder = store
		deps.History = store
	} else {
		lg.Warn("GUARDIAN_DB_DSN not set; analysis history disabled")
	}

	deps.Analysis = newAnalysisService(cfg, llm, recorder, lg)

	enricher, places, cleanup, err := newEnricher(ctx, cfg, lg)
	if err != nil {
		lg.Fatal("enrichment init", zap.Error(err))
	}
	defer cleanup()
	if enricher != nil {
		deps.Enricher = enricher
		deps.Photos = places
	}

	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           httptransport.NewServer(deps).Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("shutdown", zap.Error(err))
		}
	}()

	lg.Info("listening", zap.String("addr", cfg.HTTP.Addr), zap.String("llm_provider", cfg.AI.Provider))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		lg.Fatal("http server", zap.Error(err))
	}
}

func newAnalysisService(cfg config.Config, llm ai.LanguageModelClient, rec analysis.Recorder, lg *zap.Logger) *analysis.Service {
	extractor, err := parser.ForMode(cfg.Analysis.ParserMode)
	if err != nil {
		lg.Fatal("parser mode", zap.Error(err))
	}
	analyzers := analysis.NewLLMAnalyzers(llm, analysis.LLMOptions{
		Extractor: extractor,
		Retry: analysis.RetryPolicy{
			MaxAttempts: cfg.Analysis.MaxRetries,
			Delay:       cfg.Analysis.RetryDelay,
			CallTimeout: cfg.Analysis.Timeout,
		},
		Logger: lg.Named("analyzer"),
	})
	router := analysis.NewRouter(analyzers, analysis.RouterOptions{
		Threshold: cfg.Analysis.ConfidenceThreshold,
		Logger:    lg.Named("router"),
	})
	detector := analysis.NewDetector(llm, extractor, lg.Named("detector"))
	return analysis.NewService(detector, router, analysis.ServiceOptions{
		Recorder: rec,
		Timeout:  cfg.Analysis.Timeout * time.Duration(cfg.Analysis.MaxRetries+1),
		Logger:   lg,
	})
}

// newEnricher returns nils when no Maps key is configured.
func newEnricher(ctx context.Context, cfg config.Config, lg *zap.Logger) (*itinerary.Enricher, *maps.PlacesService, func(), error) {
	noop := func() {}
	if cfg.Maps.APIKey == "" {
		lg.Warn("GOOGLE_MAPS_API_KEY not set; itinerary enrichment disabled")
		return nil, nil, noop, nil
	}

	places, err := maps.NewPlacesService(cfg.Maps.APIKey, maps.Options{
		Language: cfg.Enrichment.Language,
		Logger:   lg.Named("places"),
	})
	if err != nil {
		return nil, nil, noop, err
	}

	var cache itinerary.PlaceCache
	cleanup := noop
	switch cfg.PlaceCache.Backend {
	case config.CacheBackendRedis:
		rdb, err := infra.NewRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, nil, noop, err
		}
		cleanup = func() { _ = rdb.Close() }
		cache = itinerary.NewRedisCache(rdb, cfg.PlaceCache.Prefix, cfg.PlaceCache.TTL, lg.Named("place_cache"))
	default:
		cache = itinerary.NewMemoryCache(cfg.PlaceCache.TTL)
	}

	return itinerary.NewEnricher(itinerary.NewLookup(places, cache), itinerary.EnricherOptions{
		BatchSize:   cfg.Enrichment.BatchSize,
		BatchPause:  cfg.Enrichment.BatchPause,
		CallTimeout: cfg.Enrichment.CallTimeout,
		Logger:      lg.Named("enricher"),
	}), places, cleanup, nil
}
