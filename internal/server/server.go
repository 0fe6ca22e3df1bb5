package server

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"nesswear/internal/apiclient"
	"nesswear/internal/cache"
	"nesswear/internal/config"
	"nesswear/internal/metrics"
	custommiddleware "nesswear/internal/middleware"
	"nesswear/internal/repository"
	"nesswear/internal/service"
	"nesswear/internal/session"
	"nesswear/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// maxBodyBytes caps admin and login payloads
const maxBodyBytes = 1 << 20

// Backends holds the optional infrastructure the gateway can use. Both
// fields may be nil.
type Backends struct {
	DB    *sql.DB
	Redis *redis.Client
}

type Server struct {
	*http.Server
	config   *config.Config
	logger   *zap.Logger
	backends Backends
	cache    *cache.Cache
	sessions *session.Manager
}

func NewServer(cfg *config.Config, logger *zap.Logger, backends Backends) (*Server, error) {
	store, err := newSessionStore(cfg.Session, backends)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	// The login call must not draw on the session it is about to create
	loginClient := apiclient.New(cfg.Catalog, nil, m, logger)
	sessions := session.NewManager(store, loginClient, cfg.Catalog.LoginPath, logger)
	client := apiclient.New(cfg.Catalog, sessions, m, logger)

	catalogCache := cache.New(m, logger)

	// Initialize repositories
	products := repository.NewProductRepository(client)
	categories := repository.NewCategoryRepository(client)
	subcategories := repository.NewSubCategoryRepository(client)

	// Initialize services
	catalogService := service.NewCatalogService(products, categories, subcategories, catalogCache, cfg.Catalog.FetchLimit, logger)
	adminService := service.NewAdminService(products, categories, subcategories, catalogService, catalogCache, logger)

	router := chi.NewRouter()
	router.Use(custommiddleware.DefaultMiddlewareStack()...)
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.Server.Env == "development"))
	if backends.Redis != nil && cfg.RateLimit.Requests > 0 {
		router.Use(custommiddleware.RateLimitMiddleware(backends.Redis, custommiddleware.RateLimitConfig{
			RequestsPerWindow: cfg.RateLimit.Requests,
			Window:            cfg.RateLimit.Window,
			KeyPrefix:         "nesswear:ratelimit",
		}, logger))
	}

	router.Get("/health", healthHandler(backends))
	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))

	// Initialize handlers
	transport.NewCatalogHandler(catalogService, logger).RegisterRoutes(router)

	jsonBody := custommiddleware.JSONBodyMiddleware(maxBodyBytes, logger)
	router.Group(func(r chi.Router) {
		r.Use(jsonBody)
		transport.NewSessionHandler(sessions, logger).RegisterRoutes(r)
	})

	adminGuards := []func(http.Handler) http.Handler{
		jsonBody,
		custommiddleware.RequireSession(sessions, logger),
		custommiddleware.RequireAdmin(logger),
	}
	if backends.Redis != nil && cfg.RateLimit.Requests > 0 {
		// Mutations get their own budget per signed-in user
		adminGuards = append(adminGuards, custommiddleware.RateLimitMiddleware(backends.Redis, custommiddleware.RateLimitConfig{
			RequestsPerWindow: cfg.RateLimit.Requests,
			Window:            cfg.RateLimit.Window,
			KeyPrefix:         "nesswear:ratelimit:admin",
		}, logger))
	}
	transport.NewAdminHandler(adminService, logger).RegisterRoutes(router, adminGuards...)

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config:   cfg,
		logger:   logger,
		backends: backends,
		cache:    catalogCache,
		sessions: sessions,
	}

	logger.Info("Gateway configured",
		zap.String("catalog", cfg.Catalog.BaseURL),
		zap.String("session_backend", cfg.Session.Backend),
		zap.Bool("rate_limit", backends.Redis != nil && cfg.RateLimit.Requests > 0),
	)

	return server, nil
}

func newSessionStore(cfg config.SessionConfig, backends Backends) (session.Store, error) {
	switch cfg.Backend {
	case "", "memory":
		return session.NewMemoryStore(), nil
	case "redis":
		if backends.Redis == nil {
			return nil, errors.New("redis session backend selected but REDIS_HOST is not set")
		}
		return session.NewRedisStore(backends.Redis, cfg.KeyPrefix, cfg.Profile), nil
	case "postgres":
		if backends.DB == nil {
			return nil, errors.New("postgres session backend selected but no database is connected")
		}
		return session.NewPostgresStore(backends.DB, cfg.Profile), nil
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.Backend)
	}
}

func healthHandler(backends Backends) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := map[string]string{"status": "ok"}
		if backends.DB != nil {
			if err := backends.DB.PingContext(r.Context()); err != nil {
				status["database"] = "down"
			} else {
				status["database"] = "up"
			}
		}
		if backends.Redis != nil {
			if err := backends.Redis.Ping(r.Context()).Err(); err != nil {
				status["redis"] = "down"
			} else {
				status["redis"] = "up"
			}
		}
		custommiddleware.RespondWithJSON(w, http.StatusOK, status)
	}
}

// Close releases the cache and backend connections. Queries arriving after
// Close fail with cache.ErrDisposed.
func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	s.cache.Dispose()

	var errs []error
	if s.backends.Redis != nil {
		if err := s.backends.Redis.Close(); err != nil {
			s.logger.Error("Failed to close redis connection", zap.Error(err))
			errs = append(errs, err)
		}
	}
	if s.backends.DB != nil {
		if err := s.backends.DB.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
			errs = append(errs, err)
		}
	}

	s.logger.Sync()
	return errors.Join(errs...)
}
