package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/unrolled/secure"

	"github.com/codexlib/libraryd/internal/audit"
	"github.com/codexlib/libraryd/internal/auth"
	"github.com/codexlib/libraryd/internal/cache"
	"github.com/codexlib/libraryd/internal/config"
	"github.com/codexlib/libraryd/internal/limiter"
	"github.com/codexlib/libraryd/internal/metrics"
	"github.com/codexlib/libraryd/internal/middleware"
	"github.com/codexlib/libraryd/internal/policy"
	"github.com/codexlib/libraryd/internal/repository"
	"github.com/codexlib/libraryd/internal/repository/memory"
	"github.com/codexlib/libraryd/internal/repository/postgres"
	"github.com/codexlib/libraryd/internal/service"
)

// Server wires the auth core, the rule engine and the catalog handlers
// into one HTTP service.
type Server struct {
	cfg           *config.Config
	logger        *slog.Logger
	handler       http.Handler
	authenticator *auth.Authenticator
	bookService   *service.BookService
	collector     *metrics.Collector
	redisClient   *redis.Client
	pool          *pgxpool.Pool
}

// New builds the full dependency graph from configuration. Everything
// here happens once at startup; request handling mutates none of it.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Server, error) {
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})

	users, err := auth.ParseBootstrapUsers(cfg.BootstrapUsers)
	if err != nil {
		return nil, fmt.Errorf("parse bootstrap users: %w", err)
	}
	store, err := auth.NewCredentialStore(users)
	if err != nil {
		return nil, fmt.Errorf("build credential store: %w", err)
	}

	codec := auth.NewTokenCodec(cfg.JWTSecret, cfg.TokenTTL)

	var pool *pgxpool.Pool
	var repo repository.BookRepository
	if cfg.PGDSN != "" {
		pool, err = pgxpool.New(ctx, cfg.PGDSN)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		repo = postgres.New(pool)
	} else {
		logger.Warn("no PG_DSN configured, using in-memory book store")
		repo = memory.New()
	}

	s := &Server{
		cfg:           cfg,
		logger:        logger,
		authenticator: auth.NewAuthenticator(store, codec),
		bookService:   service.NewBookService(repo, cache.NewMemoryCache()),
		collector:     metrics.NewCollector(1000),
		redisClient:   rdb,
		pool:          pool,
	}
	s.handler = s.buildHandler(codec)
	return s, nil
}

// Handler exposes the composed http.Handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) buildHandler(codec *auth.TokenCodec) http.Handler {
	engine := policy.NewEngine(policy.CatalogRules())
	rateLimiter := limiter.NewTokenBucketLimiter(s.redisClient)
	auditLogger := audit.NewJSONLogger(os.Stdout)

	secureMw := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
		SSLRedirect:        s.cfg.IsProduction(),
		SSLProxyHeaders:    map[string]string{"X-Forwarded-Proto": "https"},
	})

	r := chi.NewRouter()

	// Ordering: edge logging and metrics see every request including
	// rejections; audit sits inside authentication so it records the
	// verified actor; authorization and rate limiting run last before
	// the handlers.
	r.Use(chimw.RealIP)
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger(s.logger))
	r.Use(middleware.Metrics(s.collector))
	r.Use(secureMw.Handler)
	r.Use(middleware.PolicyEnforcer(engine))
	r.Use(middleware.RequestAuthenticator(codec))
	r.Use(middleware.Audit(auditLogger))
	r.Use(middleware.Authorize())
	r.Use(middleware.RateLimit(rateLimiter, s.logger))

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Post("/v1/auth", s.handleLogin)

	r.Route("/v1/books", func(r chi.Router) {
		r.Get("/", s.handleListBooks)
		r.Post("/", s.handleCreateBook)
		r.Get("/{id}", s.handleGetBook)
		r.Put("/{id}", s.handleUpdateBook)
		r.Delete("/{id}", s.handleDeleteBook)
		r.Post("/borrow/{id}", s.handleBorrowBook)
		r.Post("/return/{id}", s.handleReturnBook)
	})

	r.Get("/v1/metrics", s.handleMetrics)

	r.Get("/v3/api-docs", s.handleAPIDocs)
	r.Get("/v3/api-docs/*", s.handleAPIDocs)
	r.Get("/swagger-ui", s.handleSwaggerUI)
	r.Get("/swagger-ui/*", s.handleSwaggerUI)

	return r
}

// Start runs the server until SIGINT/SIGTERM, then shuts down
// gracefully within the configured timeout.
func (s *Server) Start() error {
	srv := &http.Server{
		Addr:         s.cfg.AppAddr,
		Handler:      s.handler,
		ReadTimeout:  s.cfg.AppReadTimeout,
		WriteTimeout: s.cfg.AppWriteTimeout,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", slog.String("addr", s.cfg.AppAddr))
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		s.logger.Info("shutdown started", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			srv.Close()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		if s.pool != nil {
			s.pool.Close()
		}
		_ = s.redisClient.Close()
	}

	return nil
}
