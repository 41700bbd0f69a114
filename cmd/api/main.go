package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/autotrackr/autotrackr/internal/auth"
	"github.com/autotrackr/autotrackr/internal/config"
	"github.com/autotrackr/autotrackr/internal/handlers"
	"github.com/autotrackr/autotrackr/internal/logger"
	"github.com/autotrackr/autotrackr/internal/notify"
	"github.com/autotrackr/autotrackr/internal/services"
	"github.com/autotrackr/autotrackr/internal/store/postgres"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.PrettyLog)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database: connect, ping and migrate before serving anything.
	db, err := postgres.Connect(ctx, cfg.DatabaseURL, cfg.DBTimeout)
	if err != nil {
		log.Fatal("database unavailable", logger.Error(err))
	}
	defer func() { _ = db.Close() }()
	log.Info("database connection established")

	var notifier notify.Notifier
	if cfg.TelegramBotToken != "" {
		notifier = notify.NewTelegram(cfg.TelegramBotToken, cfg.NotifyTimeout)
	} else {
		notifier = notify.Disabled{}
		log.Warn("TELEGRAM_BOT_TOKEN not set, notifications disabled")
	}

	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	userService := services.NewUserService(db.Users(), tokens, notifier, log)
	linkService := services.NewLinkService(db.Users(), notifier, cfg.TelegramBotUsername, cfg.LinkTokenTTL, log)
	jobService := services.NewJobService(db.Jobs(), notifier, log)

	authHandler := handlers.NewAuthHandler(userService, linkService)
	jobHandler := handlers.NewJobHandler(jobService)
	telegramHandler := handlers.NewTelegramHandler(linkService, log)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	guard := auth.Guard(tokens, db.Users())

	r.GET("/", handlers.Status)
	r.GET("/healthz", handlers.Health(db))

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/signup", authHandler.Signup)
		authGroup.POST("/login", authHandler.Login)
		authGroup.GET("/me", guard, authHandler.Me)
		authGroup.PUT("/skills", guard, authHandler.UpdateSkills)
		authGroup.PUT("/telegram", guard, authHandler.UpdateTelegram)
		authGroup.GET("/telegram/link", guard, authHandler.TelegramLink)
		authGroup.POST("/telegram/test", guard, authHandler.TelegramTest)
	}

	jobGroup := r.Group("/jobs", guard)
	{
		jobGroup.POST("/", jobHandler.CreateJob)
		jobGroup.GET("/", jobHandler.ListJobs)
		jobGroup.GET("/:id", jobHandler.GetJob)
		jobGroup.PUT("/:id", jobHandler.UpdateJob)
		jobGroup.DELETE("/:id", jobHandler.DeleteJob)
	}

	r.POST("/telegram/webhook", telegramHandler.Webhook)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Infof("server listening on %s", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", logger.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", logger.Error(err))
	}
}
