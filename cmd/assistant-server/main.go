// cmd/assistant-server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"urja-assistant/internal/common/cache"
	"urja-assistant/internal/common/config"
	"urja-assistant/internal/common/logger"
	"urja-assistant/internal/handlers/banking"
	"urja-assistant/internal/handlers/market"
	"urja-assistant/internal/handlers/plantinfo"
	"urja-assistant/internal/handlers/procurement"
	"urja-assistant/internal/nlp/intent"
	"urja-assistant/internal/powcast"
	"urja-assistant/internal/router"
	"urja-assistant/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("starting assistant server",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	ctx := context.Background()
	api := powcast.NewClient(cfg.Powcast, log)

	// Redis is optional: without it banking responses are fetched fresh.
	var redisCache *cache.RedisCache
	if cfg.Redis.Address != "" {
		redisCache, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			zapLog.Fatal("redis init failed", zap.Error(err))
		}
		defer redisCache.Close()
		if err := redisCache.Ping(ctx); err != nil {
			zapLog.Fatal("redis unreachable", zap.Error(err))
		}
	} else {
		zapLog.Warn("redis not configured, banking cache disabled")
	}

	// The semantic stage precomputes its reference vectors here; a broken
	// embedding service stops the process before it serves traffic.
	var semantic *intent.SemanticClassifier
	if cfg.Embedding.Enabled {
		encoder := intent.NewHTTPEncoder(cfg.Embedding)
		semantic, err = intent.NewSemanticClassifier(ctx, encoder, cfg.NLP.SemanticIntents, cfg.NLP.IntentThreshold, log)
		if err != nil {
			zapLog.Fatal("semantic classifier init failed", zap.Error(err))
		}
		seedCueTokens(ctx, semantic, api, log)
	} else {
		zapLog.Warn("embedding disabled, classifier runs lexical-only")
	}
	classifier := intent.NewClassifier(semantic, log)

	plantHandler := plantinfo.NewHandler(plantinfo.NewConfig(cfg), api, log)
	procurementHandler := procurement.NewHandler(procurement.NewConfig(cfg), api, log)
	bankingHandler := banking.NewHandler(banking.NewConfig(cfg), api, redisCache, log)
	marketHandler := market.NewHandler(market.NewConfig(cfg), api, log)

	rt := router.NewRouter(classifier, router.Collaborators{
		PlantInfo:   plantHandler.Handle,
		Procurement: procurementHandler.Handle,
		Banking:     bankingHandler.Handle,
		MOD:         marketHandler.HandleMOD,
		IEX:         marketHandler.HandleIEX,
		Demand:      marketHandler.HandleDemand,
	}, cfg.NLP.Timezone, log)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      server.New(rt, log).Handler(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		zapLog.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	zapLog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("shutdown incomplete", zap.Error(err))
	}
}

// seedCueTokens feeds plant-name tokens from the live catalog into the
// semantic stage's adaptive threshold. Best effort: the catalog being down
// at boot only costs threshold relaxation on plant-name queries.
func seedCueTokens(ctx context.Context, semantic *intent.SemanticClassifier, api *powcast.Client, log logger.Logger) {
	payload, noData, err := api.Get(ctx, "/plant/", nil)
	if err != nil || noData {
		log.Warn("plant catalog unavailable, no entity cue tokens", map[string]interface{}{
			"noData": noData,
		})
		return
	}
	var tokens []string
	for _, p := range powcast.Plants(payload) {
		tokens = append(tokens, strings.Fields(p.Name)...)
	}
	semantic.AddCueTokens(tokens)
	log.Info("entity cue tokens loaded", map[string]interface{}{"count": len(tokens)})
}
