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

	"synapse/internal/auth"
	"synapse/internal/capabilities"
	"synapse/internal/config"
	"synapse/internal/handler"
	"synapse/internal/handler/sse"
	"synapse/internal/middleware"
	"synapse/internal/repository"
	"synapse/internal/service"
	serviceLLM "synapse/internal/service/llm"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (ignore error if not exists)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, closeLog, err := config.NewLogger(cfg, os.Stdout)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer closeLog()

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"store", cfg.StoreDriver,
		"backend", cfg.GenerationBackend,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Auth: without a JWKS URL (dev/test only) every request runs as DEV_USER_ID
	var jwtVerifier auth.JWTVerifier
	if cfg.AuthJWKSURL != "" {
		jwtVerifier, err = auth.NewJWTVerifier(ctx, auth.VerifierConfig{
			JWKSURL:  cfg.AuthJWKSURL,
			Issuer:   cfg.AuthIssuer,
			Audience: cfg.AuthAudience,
		}, logger)
		if err != nil {
			log.Fatalf("Failed to create JWT verifier: %v", err)
		}
		defer jwtVerifier.Close()
	} else {
		logger.Warn("AUTH_JWKS_URL not set - all requests run as the dev user", "user_id", cfg.DevUserID)
	}

	stores, err := repository.Open(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open stores: %v", err)
	}
	defer stores.Close()

	capabilityRegistry, err := capabilities.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to initialize capability registry: %v", err)
	}
	logger.Info("capability registry initialized")

	llmServices, err := serviceLLM.SetupServices(ctx, stores.Sessions, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to setup LLM services: %v", err)
	}

	profileService := service.NewProfileService(stores.Profiles, logger)

	sseConfig := sse.DefaultConfig()
	chatHandler := handler.NewChatHandler(llmServices.Chat, sseConfig, logger)
	actionHandler := handler.NewActionHandler(llmServices.Actions, sseConfig, logger)
	profileHandler := handler.NewProfileHandler(profileService, logger)
	modelsHandler := handler.NewModelsHandler(capabilityRegistry, llmServices.Backend, logger)

	logger.Info("services initialized")

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handler.HealthCheck)

	mux.HandleFunc("GET /api/models/capabilities", modelsHandler.GetCapabilities)
	mux.HandleFunc("GET /api/options", modelsHandler.GetOptions)

	mux.HandleFunc("POST /api/actions/invoke", actionHandler.Invoke) // SSE on success
	mux.HandleFunc("POST /api/actions/audio", actionHandler.SynthesizeAudio)

	mux.HandleFunc("POST /api/chats", chatHandler.CreateChat)
	mux.HandleFunc("GET /api/chats", chatHandler.ListChats)
	mux.HandleFunc("GET /api/chats/{id}", chatHandler.GetChat)
	mux.HandleFunc("POST /api/chats/{id}/messages", chatHandler.SendMessage) // SSE once accepted
	mux.HandleFunc("POST /api/chats/{id}/messages/{messageId}/audio", chatHandler.GenerateAudio)

	mux.HandleFunc("GET /api/users/me/profile", profileHandler.GetProfile)
	mux.HandleFunc("PUT /api/users/me/profile", profileHandler.UpsertProfile)
	mux.HandleFunc("PATCH /api/users/me/profile", profileHandler.PatchProfile)

	// Applied inside-out: CORS -> Recovery -> Auth -> routes
	var h http.Handler = mux
	h = middleware.AuthMiddleware(jwtVerifier, cfg.DevUserID, logger)(h)
	h = middleware.Recovery(logger)(h)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins(),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // Disabled to allow long-lived SSE streams
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", "error", err)
		}
	}()

	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Failed to start server: %v", err)
	}
}
