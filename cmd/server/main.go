package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/AnshRaj112/petverse-backend/internal/config"
	"github.com/AnshRaj112/petverse-backend/internal/database"
	"github.com/AnshRaj112/petverse-backend/internal/handlers"
	"github.com/AnshRaj112/petverse-backend/internal/middleware"
	"github.com/AnshRaj112/petverse-backend/internal/routes"
	"github.com/AnshRaj112/petverse-backend/internal/services"
	"github.com/AnshRaj112/petverse-backend/internal/store"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	zcfg := zap.NewDevelopmentConfig()
	if cfg.IsProduction() {
		zcfg = zap.NewProductionConfig()
	}
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}

// backends holds whichever connections the selected driver opened.
type backends struct {
	users store.UserStore
	pets  store.PetStore
	mongo *mongo.Client
	pg    *sql.DB
}

func (b *backends) close(logger *zap.Logger) {
	if err := database.Disconnect(b.mongo); err != nil {
		logger.Warn("MongoDB disconnect failed", zap.Error(err))
	}
	if err := database.DisconnectPostgres(b.pg); err != nil {
		logger.Warn("PostgreSQL disconnect failed", zap.Error(err))
	}
}

func openStores(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*backends, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		client, db, err := database.Connect(ctx, cfg.MongoURI, logger)
		if err != nil {
			return nil, err
		}
		if err := store.EnsureIndexes(ctx, db); err != nil {
			_ = database.Disconnect(client)
			return nil, err
		}
		return &backends{
			users: store.NewMongoUserStore(db),
			pets:  store.NewMongoPetStore(db),
			mongo: client,
		}, nil

	case config.DriverPostgres:
		// ConnectPostgres also creates the tables.
		db, err := database.ConnectPostgres(ctx, cfg.PostgresURI, logger)
		if err != nil {
			return nil, err
		}
		return &backends{
			users: store.NewPostgresUserStore(db),
			pets:  store.NewPostgresPetStore(db),
			pg:    db,
		}, nil

	default:
		logger.Warn("using in-memory store; data is lost on restart")
		return &backends{
			users: store.NewMemoryUserStore(),
			pets:  store.NewMemoryPetStore(),
		}, nil
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, err := openStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer b.close(logger)

	// Redis is optional: it backs the lost-pets cache and the shared rate limit.
	var (
		cache     services.Cache
		rateLimit *middleware.RedisRateLimit
		rdb       *redis.Client
	)
	if cfg.RedisURI != "" {
		rdb, err = database.ConnectRedis(ctx, cfg.RedisURI, logger)
		if err != nil {
			logger.Warn("Redis unavailable; cache and shared rate limit disabled", zap.Error(err))
		} else {
			defer func() { _ = database.DisconnectRedis(rdb) }()
			cache = services.NewRedisCache(rdb, services.DefaultCacheTTL)
			rateLimit = middleware.NewRedisRateLimit(rdb, logger)
		}
	}

	var uploader services.ImageUploader
	if cfg.UploadsEnabled() {
		cld, err := services.NewCloudinaryService(cfg.CloudinaryName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
		if err != nil {
			logger.Warn("Cloudinary init failed; uploads disabled", zap.Error(err))
		} else {
			uploader = cld
			logger.Info("Cloudinary service initialized")
		}
	} else {
		logger.Info("Cloudinary credentials not found; uploads disabled")
	}

	tokens := services.NewTokenIssuer(cfg.SecretKey)
	auth := services.NewAuthService(b.users, tokens)
	pets := services.NewPetService(b.pets, services.NewMatcher(b.pets, logger), cache, logger)

	router := routes.NewRouter(routes.Options{
		Handler:        handlers.New(auth, pets, uploader, logger),
		Logger:         logger,
		AllowedOrigins: cfg.AllowedOrigins,
		Production:     cfg.IsProduction(),
		TrustProxy:     cfg.TrustProxy,
		RateLimit:      rateLimit,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("petverse backend running",
			zap.String("port", cfg.Port),
			zap.String("store", cfg.StoreDriver),
			zap.Bool("production", cfg.IsProduction()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
