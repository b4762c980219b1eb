package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Daffariandhika/ReadUniverse/internal/config"
	"github.com/Daffariandhika/ReadUniverse/internal/database"
	"github.com/Daffariandhika/ReadUniverse/internal/handlers"
	"github.com/Daffariandhika/ReadUniverse/internal/identity"
	"github.com/Daffariandhika/ReadUniverse/internal/logging"
	"github.com/Daffariandhika/ReadUniverse/internal/metrics"
	"github.com/Daffariandhika/ReadUniverse/internal/middleware"
	"github.com/Daffariandhika/ReadUniverse/internal/session"
	"github.com/Daffariandhika/ReadUniverse/internal/store"
)

func main() {
	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	cfg := config.AppEnv

	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	log.Logger = logger

	ctx := context.Background()

	client, err := database.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatal().Err(err).Msg("mongo")
	}
	db := client.Database(cfg.DBName)
	log.Info().Str("db", db.Name()).Msg("MongoDB connected")

	if err := database.EnsureUserIndexes(db); err != nil {
		log.Warn().Err(err).Msg("user index warning")
	}
	if err := database.EnsureBookIndexes(db); err != nil {
		log.Warn().Err(err).Msg("book index warning")
	}
	if err := database.EnsureNotificationIndexes(db); err != nil {
		log.Warn().Err(err).Msg("notification index warning")
	}

	provider := newIdentityProvider(ctx, cfg)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		log.Fatal().Err(err).Msg("invalid TRUSTED_PROXIES")
	}
	done := make(chan struct{})
	r.Use(
		middleware.Recovery(),
		logging.Middleware(logger),
		metrics.Middleware(),
		middleware.CORS(cfg.AllowedOrigins),
		middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst, done),
	)

	handlers.RegisterRoutes(r, handlers.Deps{
		Users:         store.NewUsers(db),
		Books:         store.NewBooks(db),
		Notifications: store.NewNotifications(db),
		Sessions:      session.NewIssuer(cfg.JWTSecret, cfg.SessionTTL),
		Identity:      provider,
		SuperAdminID:  cfg.SuperAdminID,
		Ping: func(ctx context.Context) error {
			return database.Ping(ctx, client)
		},
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("ReadUniverse server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	log.Info().Msg("shutting down")
	close(done)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
	if err := client.Disconnect(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("mongo disconnect failed")
	}
	log.Info().Msg("server stopped")
}

// newIdentityProvider falls back to identity.Disabled when no service account
// is configured, which makes every admin route answer 403.
func newIdentityProvider(ctx context.Context, cfg config.Config) identity.Provider {
	if !cfg.Firebase.Enabled() {
		log.Warn().Msg("firebase credentials missing, admin routes disabled")
		return identity.Disabled{}
	}

	creds, err := cfg.Firebase.JSON()
	if err != nil {
		log.Fatal().Err(err).Msg("firebase credentials")
	}
	fb, err := identity.NewFirebase(ctx, cfg.Firebase.ProjectID, creds)
	if err != nil {
		log.Fatal().Err(err).Msg("firebase")
	}

	if cfg.AdminUID != "" {
		if err := fb.SetAdminClaim(ctx, cfg.AdminUID); err != nil {
			log.Error().Err(err).Str("uid", cfg.AdminUID).Msg("granting admin claim failed")
		} else {
			log.Info().Str("uid", cfg.AdminUID).Msg("admin claim granted")
		}
	}
	return fb
}
