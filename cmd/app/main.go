// File: cmd/app/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"mood-aware-chat/internal/config"
	"mood-aware-chat/internal/domain/ports/adapter"
	aiAdapters "mood-aware-chat/internal/infra/adapters/ai"
	pg "mood-aware-chat/internal/infra/db/postgres"
	"mood-aware-chat/internal/infra/logging"
	"mood-aware-chat/internal/infra/metrics"
	red "mood-aware-chat/internal/infra/redis"
	"mood-aware-chat/internal/infra/sched"
	"mood-aware-chat/internal/infra/security"
	"mood-aware-chat/internal/infra/semantic"
	"mood-aware-chat/internal/infra/web"
	"mood-aware-chat/internal/sentiment"
	"mood-aware-chat/internal/session"
	"mood-aware-chat/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// .env is optional; real deployments use the YAML config.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("developer mode enabled")
	}
	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, int32(cfg.Database.MaxConns))
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()
	if err := pg.Migrate(ctx, pool); err != nil {
		logger.Fatal().Err(err).Msg("migrate")
	}

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	defer redisClient.Close()
	locker := red.NewLocker(redisClient)
	rateLimiter := red.NewRateLimiter(redisClient)
	profileCache := red.NewProfileCache(redisClient, time.Hour)

	// ---- Encryption (optional, for chat history at rest) ----
	var cipher *security.MessageCipher
	if key := cfg.Security.EncryptionKey; key != "" {
		cipher, err = security.NewMessageCipher(key)
		if err != nil {
			logger.Fatal().Err(err).Msg("encryption")
		}
	} else if !cfg.Runtime.Dev {
		logger.Warn().Msg("security.encryption_key not set; chat history stored in clear")
	}

	// ---- Repositories ----
	userRepo := pg.NewUserRepo(pool)
	historyRepo := pg.NewChatHistoryRepo(pool, cipher)
	profileRepo := pg.NewMoodProfileRepo(pool, profileCache)
	txManager := pg.NewTxManager(pool)

	// ---- AI adapter (Gemini -> OpenAI -> noop in dev) ----
	var ai adapter.AIServiceAdapter
	switch {
	case cfg.AI.GeminiKey != "":
		ai, err = aiAdapters.NewGeminiAdapter(ctx, cfg.AI.GeminiKey, cfg.AI.GeminiURL, cfg.AI.Model, cfg.AI.MaxOutputTokens)
		if err != nil {
			logger.Fatal().Err(err).Msg("gemini adapter")
		}
	case cfg.AI.OpenAIKey != "":
		ai, err = aiAdapters.NewOpenAIAdapter(cfg.AI.OpenAIKey, cfg.AI.Model, cfg.AI.OpenAIBaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("openai adapter")
		}
	case cfg.Runtime.Dev:
		ai = aiAdapters.NewNoopAI()
	default:
		logger.Fatal().Msg("no AI provider configured: set ai.gemini_key or ai.openai_key")
	}
	logger.Info().Str("provider", ai.Name()).Str("model", cfg.AI.Model).Msg("AI adapter ready")
	ai = aiAdapters.NewLimitedAI(ai, cfg.AI.ConcurrentLimit)

	// ---- Embedder + semantic memory ----
	var embedder adapter.Embedder
	if cfg.AI.OpenAIKey != "" {
		embedder, err = aiAdapters.NewOpenAIEmbedder(cfg.AI.OpenAIKey, cfg.AI.EmbeddingModel)
		if err != nil {
			logger.Fatal().Err(err).Msg("embedder")
		}
	} else if cfg.Runtime.Dev {
		embedder = aiAdapters.NewHashEmbedder(128)
	} else {
		logger.Fatal().Msg("semantic memory requires ai.openai_key for embeddings")
	}
	memory := semantic.NewStore(pool, embedder)

	// ---- Sessions ----
	sessions := session.NewManager(cfg.Session.TTL, cfg.Session.MaxSessions, cfg.Session.MaxExchanges)

	// ---- Use cases ----
	userUC := usecase.NewUserUseCase(userRepo, txManager, logger)
	profileUC := usecase.NewProfileUseCase(profileRepo, logger)
	turnUC := usecase.NewTurnUseCase(
		historyRepo, profileRepo, userRepo, txManager,
		sentiment.New(), memory, ai, sessions, locker,
		usecase.TurnConfig{
			MoodWindow:      cfg.Chat.MoodWindow,
			ContextK:        cfg.Chat.ContextK,
			HistoryDepth:    cfg.Chat.HistoryDepth,
			LockTTL:         cfg.Chat.TurnLockTTL,
			GenerateTimeout: cfg.AI.GenerateTimeout,
		},
		logger,
	)

	// ---- HTTP server ----
	jwtSecret := cfg.Auth.JWTSecret
	if jwtSecret == "" {
		jwtSecret = "dev-only-secret"
	}
	authManager := web.NewAuthManager(jwtSecret, cfg.Auth.TokenTTL)
	srv := web.NewServer(userUC, turnUC, profileUC, authManager, rateLimiter, cfg.Chat.RateLimitPerMin, logger)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info().Str("addr", addr).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Session eviction worker ----
	worker := sched.NewEvictionWorker(cfg.Session.SweepEvery, sessions, logger)
	go func() { _ = worker.Run(ctx) }()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
}
