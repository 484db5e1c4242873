package main

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"contentproof/internal/auth"
	"contentproof/internal/chain"
	"contentproof/internal/config"
	"contentproof/internal/database"
	"contentproof/internal/database/migration"
	handlers "contentproof/internal/http/handler"
	"contentproof/internal/http/middleware"
	"contentproof/internal/logger"
	"contentproof/internal/pinning"
	"contentproof/internal/ratelimit"
	"contentproof/internal/repository"
	"contentproof/internal/repository/mongodb"
	"contentproof/internal/repository/postgres"
	"contentproof/internal/service"
	"contentproof/internal/tracing"
	"contentproof/internal/verify"
)

const shutdownTimeout = 15 * time.Second

// store bundles the repositories of the selected driver.
type store struct {
	users   repository.UserRepository
	records repository.VerificationRepository
	pinger  handlers.Pinger
	close   func()
}

// @title Content Proof API
// @version 1.0
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	log := logger.Init(cfg.LogLevel, cfg.IsDev())

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracing, err := tracing.Init(ctx, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize tracing")
	}

	st, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("failed to open credential store")
	}
	defer st.close()

	issuer, err := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize token issuer")
	}
	authSvc, err := service.NewAuthService(st.users, issuer, cfg.Auth.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize auth service")
	}

	// Pinning provider is chosen once; the contract variant follows it.
	pinner, err := pinning.New(ctx, cfg.Pinning, cfg.MinIO)
	if err != nil {
		log.Fatal().Err(err).Str("provider", cfg.Pinning.Provider).Msg("failed to initialize pinning provider")
	}
	if pinner != nil {
		log.Info().Str("provider", pinner.Name()).Msg("pinning enabled")
	}

	sess, chainStatus := chain.NewConnector(cfg.Chain, pinner != nil, logger.Component("chain")).Connect(ctx)
	if chain.IsUnavailable(chainStatus.Err) {
		log.Warn().Str("reason", chainStatus.Message).Msg("verification disabled until the chain connector is configured")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	vdeps := &verify.Deps{
		LedgerErr:      chainStatus.Err,
		Pinner:         pinner,
		Recorder:       verify.NewAuditLog(st.records, log),
		Metrics:        verify.NewMetrics(reg),
		HexEncodeFiles: cfg.Chain.HexEncodeFiles,
		Log:            log,
	}
	if sess != nil {
		vdeps.Ledger = sess
		defer sess.Close()
	}
	if cfg.Chain.HexEncodeFiles {
		log.Warn().Msg("file digests use the legacy hex-encoded form")
	}

	controllers, err := verify.NewRegistry(cfg.ControllerCacheSize, vdeps)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize verification controllers")
	}

	limiter, closeLimiter := newLimiter(ctx, cfg.Auth, log)
	defer closeLimiter()

	httpMetrics, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to register http metrics")
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    cfg.MaxUploadBytes + 1<<20,
	})

	// Register global middleware
	app.Use(recover.New())
	app.Use(otelfiber.Middleware())
	app.Use(middleware.RequestID())
	app.Use(middleware.AccessLog(log))
	app.Use(httpMetrics.Handler())

	handlers.RegisterRoutes(app, handlers.Deps{
		DB:             st.pinger,
		Auth:           authSvc,
		Tokens:         issuer,
		Limiter:        limiter,
		Controllers:    controllers,
		Records:        st.records,
		Chain:          chainStatus,
		Gatherer:       reg,
		MaxUploadBytes: int64(cfg.MaxUploadBytes),
		Log:            log,
	})

	addr := ":" + cfg.Port
	go func() {
		log.Info().Str("addr", addr).Str("environment", cfg.Environment).Msg("server starting")
		if err := app.Listen(addr); err != nil {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh
	log.Info().Msg("shutting down gracefully")

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}
	cancel()

	flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer flushCancel()
	if err := shutdownTracing(flushCtx); err != nil {
		log.Warn().Err(err).Msg("tracing flush failed")
	}
	log.Info().Msg("shutdown complete")
}

func openStore(ctx context.Context, cfg *config.AppConfig, log zerolog.Logger) (*store, error) {
	switch cfg.StoreDriver {
	case "mongo":
		client, db, err := database.NewMongo(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		if err := mongodb.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		return &store{
			users:   mongodb.NewUserMongo(db),
			records: mongodb.NewVerificationMongo(db),
			pinger: handlers.PingFunc(func(ctx context.Context) error {
				return client.Ping(ctx, readpref.Primary())
			}),
			close: func() { _ = client.Disconnect(context.Background()) },
		}, nil
	case "postgres":
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
			_ = db.Close()
			return nil, err
		}
		return postgresStore(db), nil
	default:
		return nil, errors.New("unsupported store driver " + cfg.StoreDriver)
	}
}

func postgresStore(db *sql.DB) *store {
	return &store{
		users:   postgres.NewUserPostgres(db),
		records: postgres.NewVerificationPostgres(db),
		pinger:  db,
		close:   func() { _ = db.Close() },
	}
}

// newLimiter builds the auth rate limiter. A Redis outage at startup keeps the
// local per-IP buckets only.
func newLimiter(ctx context.Context, cfg config.AuthConfig, log zerolog.Logger) (*ratelimit.Limiter, func()) {
	closeFn := func() {}
	var shared ratelimit.Window
	if cfg.RedisURL != "" {
		w, err := ratelimit.NewRedisWindow(ctx, cfg.RedisURL)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, rate limiting per instance")
		} else {
			shared = w
			closeFn = func() { _ = w.Close() }
		}
	}

	l, err := ratelimit.New(cfg.RateLimitRPS, cfg.RateLimitBurst, shared, cfg.RedisWindowMax, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize rate limiter")
	}
	return l, closeFn
}
