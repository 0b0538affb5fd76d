package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"github.com/donordarah/donor-darah-api/internal/config"
	"github.com/donordarah/donor-darah-api/internal/database"
	"github.com/donordarah/donor-darah-api/internal/handler"
	"github.com/donordarah/donor-darah-api/internal/metrics"
	"github.com/donordarah/donor-darah-api/internal/middleware"
	"github.com/donordarah/donor-darah-api/internal/queue"
	"github.com/donordarah/donor-darah-api/internal/repository"
	"github.com/donordarah/donor-darah-api/internal/router"
	"github.com/donordarah/donor-darah-api/internal/service"
)

func main() {
	cfg := config.Load() // Load environment config
	log := setupLogger(cfg)

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.WithError(err).Fatal("database connection failed")
	}
	defer db.Close()

	rdb := config.NewRedisClient(config.LoadRedisConfig()) // nil when disabled or unreachable
	if rdb != nil {
		defer rdb.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	qcfg := config.LoadQueueConfig()
	var publisher queue.Publisher = queue.NopPublisher{}
	if qcfg.Enabled {
		publisher = queue.NewAMQPPublisher(qcfg.URL, qcfg.Queue)
		go func() {
			if err := queue.StartDonationConsumer(ctx, qcfg.URL, qcfg.Queue, qcfg.LogDir); err != nil && !errors.Is(err, context.Canceled) {
				log.WithError(err).Error("donation consumer stopped")
			}
		}()
	}

	// Repositories -> services -> handlers.
	users := repository.NewUserRepo(db)
	banks := repository.NewBloodBankRepo(db)
	donations := repository.NewDonationRepo(db)

	userSvc := service.NewUserService(users, cfg.JWTSecret, cfg.TokenTTL, cfg.BcryptCost)
	donationSvc := service.NewDonationService(donations, publisher)

	e := echo.New() // Create Echo instance
	e.HideBanner = true
	e.HTTPErrorHandler = handler.ErrorHandler(log)

	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(log))
	e.Use(metrics.Middleware())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{AllowOrigins: cfg.CORSOrigins}))
	e.Use(echomw.BodyLimit(cfg.BodyLimit))
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, cfg.JWTSecret))

	router.RegisterRoutes(e, db)
	router.RegisterAuth(e, handler.NewAuthHandler(userSvc), cfg.JWTSecret)
	router.RegisterBloodBanks(e, handler.NewBloodBankHandler(service.NewBloodBankService(banks)),
		middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	router.RegisterDonations(e, handler.NewDonationHandler(donationSvc), cfg.JWTSecret)
	router.RegisterUsers(e, handler.NewUserHandler(userSvc, service.NewStatsService(donations)), cfg.JWTSecret)

	addr := ":" + cfg.Port // Address string with port
	go func() {
		log.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env}).Info("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}

// setupLogger configures the standard logrus logger so package-level calls
// elsewhere share formatter and level.
func setupLogger(cfg config.Config) *logrus.Logger {
	log := logrus.StandardLogger()
	if cfg.IsProd() {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithField("level", cfg.LogLevel).Warn("unknown LOG_LEVEL, using info")
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}
