package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/crypto/bcrypt"

	"github.com/ayush/movie-reviews/internal/apperr"
	"github.com/ayush/movie-reviews/internal/auth"
	"github.com/ayush/movie-reviews/internal/catalog"
	"github.com/ayush/movie-reviews/internal/config"
	"github.com/ayush/movie-reviews/internal/middleware"
	"github.com/ayush/movie-reviews/internal/observability"
	"github.com/ayush/movie-reviews/internal/store"
)

const serviceName = "movies-api"

func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		observability.NewLogger(os.Stderr, "info").Error("load config", "error", err)
		os.Exit(1)
	}
	logger := observability.NewLogger(os.Stdout, cfg.LogLevel)
	ctx := context.Background()
	if envErr != nil {
		logger.Debug(".env not loaded, continuing with environment variables")
	}

	// ── Tracing ──────────────────────────────────────────────
	shutdownTracing, err := observability.InitTracing(ctx, logger, cfg.OTLPEndpoint, serviceName, cfg.Environment)
	if err != nil {
		logger.Error("init tracing", "error", err)
		os.Exit(1)
	}

	// ── MongoDB ──────────────────────────────────────────────
	mongoClient, err := store.ConnectMongo(ctx, cfg.MongoURI, 10*time.Second)
	if err != nil {
		logger.Error("mongo connect", "error", err)
		os.Exit(1)
	}
	mongoDB := mongoClient.Database(cfg.MongoDB)
	if err := store.EnsureIndexes(ctx, mongoDB); err != nil {
		logger.Error("mongo indexes", "error", err)
		os.Exit(1)
	}

	// ── Users: PostgreSQL when configured, MongoDB otherwise ──
	var users store.UserBackend = store.NewMongoUsers(mongoDB)
	var pgPool *pgxpool.Pool
	if cfg.PostgresDSN != "" {
		pgPool, err = pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			logger.Error("postgres connect", "error", err)
			os.Exit(1)
		}
		pgUsers := store.NewPostgresUsers(pgPool)
		if err := pgUsers.Migrate(ctx); err != nil {
			logger.Error("postgres migrate", "error", err)
			os.Exit(1)
		}
		users = pgUsers
		logger.Info("credential store: postgres")
	}

	// ── Redis ────────────────────────────────────────────────
	var denylist auth.Denylist
	var closeRedis func() error
	if cfg.RedisAddr != "" {
		rdb, err := store.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			logger.Error("redis connect", "error", err)
			os.Exit(1)
		}
		closeRedis = rdb.Close
		denylist = auth.NewRedisDenylist(rdb)
		logger.Info("token denylist: redis", "addr", cfg.RedisAddr)
	}

	// ── Services ─────────────────────────────────────────────
	creds := store.NewCredentials(users, bcrypt.DefaultCost)
	tokens := auth.NewTokenManager(cfg.SecretKey, cfg.TokenIssuer, cfg.TokenTTL)
	authSvc := auth.NewService(creds, tokens, denylist, logger)
	catalogSvc := catalog.NewService(
		store.NewMovieStore(mongoDB),
		store.NewReviewStore(mongoDB),
		catalog.Policy{StrictReferentialCheck: cfg.StrictReferentialCheck},
		logger,
	)

	// ── Handlers ─────────────────────────────────────────────
	authHandler := auth.NewHandler(authSvc, logger)
	catalogHandler := catalog.NewHandler(catalogSvc, logger)
	requireAuth := middleware.RequireAuth(authSvc, logger)

	// ── Router ───────────────────────────────────────────────
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.Metrics)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", healthHandler(mongoClient))
	r.Handle("/metrics", promhttp.Handler())

	// Auth routes (public)
	r.Post("/signup", authHandler.Signup)
	r.Post("/signin", authHandler.Signin)
	if authSvc.CanRevoke() {
		r.With(requireAuth).Post("/signout", authHandler.Signout)
	}

	// Movie and review routes
	r.Group(func(r chi.Router) {
		if cfg.RequireAuth {
			r.Use(requireAuth)
		} else {
			logger.Warn("REQUIRE_AUTH disabled: movie and review routes are public")
		}
		catalogHandler.Register(r)
	})

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           otelhttp.NewHandler(r, serviceName),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutCtx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		logger.Error("server shutdown", "error", err)
	}
	if err := mongoClient.Disconnect(shutCtx); err != nil {
		logger.Error("mongo disconnect", "error", err)
	}
	if pgPool != nil {
		pgPool.Close()
	}
	if closeRedis != nil {
		if err := closeRedis(); err != nil {
			logger.Error("redis close", "error", err)
		}
	}
	if err := shutdownTracing(shutCtx); err != nil {
		logger.Error("tracing shutdown", "error", err)
	}
}

func healthHandler(client *mongo.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := client.Ping(ctx, nil); err != nil {
			apperr.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		apperr.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
