package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"car-rental/internal/listeners"
	"car-rental/internal/repositories"
	"car-rental/internal/routes"
	"car-rental/internal/services"
	"car-rental/pkg/config"
	"car-rental/pkg/database/postgresql"
	apperrors "car-rental/pkg/errors"
	"car-rental/pkg/eventbus"
	"car-rental/pkg/filestorage"
	applogger "car-rental/pkg/logger"
	"car-rental/pkg/mailer"
	appmw "car-rental/pkg/middleware"
	"car-rental/pkg/service"
	"car-rental/pkg/telemetry"
	"car-rental/pkg/utils"
	"car-rental/pkg/validation"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := applogger.NewLogger(cfg.Log.Level, cfg.Log.File)
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped with error", zap.Error(err))
	}
	logger.Info("server stopped")
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing := telemetry.Setup(ctx, cfg.Telemetry, logger)

	pool, err := postgresql.ConnectDB(ctx, cfg.Postgres.DSN)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	if cfg.Postgres.RunMigrations {
		if err := postgresql.Migrate(ctx, pool, logger.Named("migrate")); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		// lockout and car cache degrade gracefully without redis
		logger.Warn("redis unavailable", zap.Error(err), zap.String("address", cfg.Redis.Address))
	}

	fileStorage, err := filestorage.NewLocalFileStorage(cfg.Upload.Dir)
	if err != nil {
		return fmt.Errorf("file storage: %w", err)
	}

	jwtSvc := service.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL, cfg.JWT.RefreshTokenTTL, logger.Named("jwt"),
		service.WithIssuer(cfg.JWT.Issuer))

	txManager := repositories.NewTxManager(pool)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)
	userRepo := repositories.NewUserRepository(pool, logger.Named("user"))
	carRepo := repositories.NewCarRepository(pool, logger.Named("car"))
	rentRepo := repositories.NewRentRepository(pool, logger.Named("rent"))

	bus := eventbus.New(logger.Named("events"))
	notificationService := services.NewNotificationService(mailer.New(cfg.Mail, logger.Named("mail")), userRepo, logger.Named("notify"))
	listeners.NewNotificationListener(notificationService, logger.Named("notify")).Register(bus)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validation.New()

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		DisableStackAll: true,
		StackSize:       1 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("panic recovered",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
				zap.String("stack", string(stack)),
			)
			if !c.Response().Committed {
				_ = utils.ErrorResponse(c, apperrors.NewInfraError(err, nil), logger)
			}
			return err
		},
	}))
	e.Use(middleware.RequestID())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		ExposeHeaders:    []string{echo.HeaderContentDisposition},
	}))
	e.Use(middleware.BodyLimit("10M"))
	e.Use(appmw.RequestLogger(logger.Named("http")))

	routes.InitRouter(e, routes.Dependencies{
		AuthService: services.NewAuthService(userRepo, cacheRepo, logger.Named("auth"), cfg.Auth),
		UserService: services.NewUserService(userRepo, bus, logger.Named("user")),
		CarService:  services.NewCarService(carRepo, cacheRepo, fileStorage, cfg.Redis.CarTTL, logger.Named("car")),
		RentService: services.NewRentService(txManager, rentRepo, carRepo, bus, logger.Named("rent")),
		UserOwners:  userRepo,
		RentOwners:  rentRepo,
		JWT:         jwtSvc,
		Config:      cfg,
		Logger:      logger,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           otelhttp.NewHandler(e, cfg.Telemetry.ServiceName),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		err := server.Shutdown(shutdownCtx)
		if waitErr := bus.Wait(shutdownCtx); waitErr != nil {
			logger.Warn("event listeners still running at shutdown", zap.Error(waitErr))
		}
		if traceErr := shutdownTracing(shutdownCtx); traceErr != nil {
			logger.Warn("tracer shutdown failed", zap.Error(traceErr))
		}
		return err
	})

	return g.Wait()
}
