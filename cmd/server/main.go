package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"account-api/internal/auth"
	"account-api/internal/config"
	apphttp "account-api/internal/http"
	"account-api/internal/repository"
	"account-api/internal/repository/postgres"
	"account-api/internal/repository/sqlite"
	"account-api/internal/service"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatalf("invalid config: %v", err)
	}
	configureLogger(logger, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	userRepo, closeStore, err := openUserStore(ctx, cfg)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer closeStore()

	if err := userRepo.Init(ctx); err != nil {
		logger.Fatalf("init user repository: %v", err)
	}

	tokens, err := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.Algorithm)
	if err != nil {
		logger.Fatalf("setup tokens: %v", err)
	}
	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	guard, err := auth.NewGuard(userRepo, hasher, tokens, cfg.TokenTTL())
	if err != nil {
		logger.Fatalf("setup guard: %v", err)
	}
	userService := service.NewUserService(userRepo, hasher)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	apphttp.NewHandler(userService, guard, logger).RegisterRoutes(router)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}

	logger.Info("bye")
}

func configureLogger(logger *logrus.Logger, cfg config.Config) {
	if cfg.Log.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.Warnf("unknown log level %q, using info", cfg.Log.Level)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
}

func openUserStore(ctx context.Context, cfg config.Config) (repository.UserRepository, func(), error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		pg := cfg.Database.Postgres
		pool, err := postgres.Open(ctx, postgres.Options{
			Host:           pg.Host,
			Port:           pg.Port,
			User:           pg.User,
			Password:       pg.Password,
			Name:           pg.Name,
			SSLMode:        pg.SSLMode,
			ConnectTimeout: pg.ConnectTimeout,
			MaxConns:       pg.MaxConns,
		})
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewUserRepository(pool), pool.Close, nil
	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.Database.Path)
		if err != nil {
			return nil, nil, err
		}
		return sqlite.NewUserRepository(db), func() { _ = db.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}
