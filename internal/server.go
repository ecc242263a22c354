package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/ksasaki/traininglog/internal/auth"
	"github.com/ksasaki/traininglog/internal/config"
	"github.com/ksasaki/traininglog/internal/db"
	"github.com/ksasaki/traininglog/internal/middleware"
	"github.com/ksasaki/traininglog/internal/storage"
	"github.com/ksasaki/traininglog/internal/telemetry/metrics"
	metricsmiddleware "github.com/ksasaki/traininglog/internal/telemetry/metrics/middleware"
	"github.com/ksasaki/traininglog/internal/telemetry/tracing"
	"github.com/ksasaki/traininglog/internal/training/analytics"
	"github.com/ksasaki/traininglog/internal/training/menus"
	"github.com/ksasaki/traininglog/internal/training/records"
	"github.com/ksasaki/traininglog/internal/training/schedule"
	"github.com/ksasaki/traininglog/pkg"
)

const defaultTokenTTL = 7 * 24 * time.Hour

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config *config.Config
	// nil when the memory backend is configured
	dbPool         *pgxpool.Pool
	storageAdapter storage.Adapter

	redisClient  *redis.Client
	tokenService *auth.TokenService

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	JWTSecret               string
	RedisPassword           string
	VersionInfo             string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	if params.JWTSecret == "" {
		return nil, errors.New("jwt secret not set")
	}

	// the storage backend is resolved once, here; everything downstream
	// sees only the adapter interface
	var (
		storageAdapter storage.Adapter
		dbPool         *pgxpool.Pool
		poolCollectors []prometheus.Collector
	)
	switch params.Config.StorageBackend {
	case "postgres":
		pool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
			DBHost:         params.Config.PostgresHost,
			DBPort:         params.Config.PostgresPort,
			DBName:         params.Config.PostgresDBName,
			DBUser:         params.Config.PostgresUser,
			TracingEnabled: params.HoneycombTracingEnabled,
		})
		if err != nil {
			return nil, fmt.Errorf("new db pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			log.Warnf("failed to ping db: %s", err)
		}
		dbPool = pool
		storageAdapter = storage.NewPsqlAdapter(pool)
		poolCollectors = append(poolCollectors, pgxpoolprometheus.NewCollector(
			pool,
			map[string]string{"db_name": params.Config.PostgresDBName},
		))
	case "memory":
		log.Warn("using in-memory storage backend, data will not survive restarts")
		storageAdapter = storage.NewMemoryAdapter()
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", params.Config.StorageBackend)
	}

	promRegistry := metrics.SetupPrometheus(poolCollectors...)
	metricsManager := metrics.NewManager("traininglog", "backend", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(params.Config.RedisHost, params.Config.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "traininglog-backend", rdb)
	if err != nil {
		return nil, err
	}

	tokenTTL := defaultTokenTTL
	if params.Config.AuthTokenTTLDays > 0 {
		tokenTTL = time.Duration(params.Config.AuthTokenTTLDays) * 24 * time.Hour
	}

	return &Server{
		versionInfo:    params.VersionInfo,
		config:         params.Config,
		dbPool:         dbPool,
		storageAdapter: storageAdapter,
		redisClient:    rdb,
		tokenService:   auth.NewTokenService([]byte(params.JWTSecret), tokenTTL),
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	usersRepo := auth.NewRepo(s.storageAdapter)
	authHandler := auth.NewHandler(usersRepo, s.tokenService, s.metricsManager)

	// register and login share a redis-backed rate limit
	reqRateLimiter := redis_rate.NewLimiter(s.redisClient)
	loginRateLimit := middleware.RateLimit(
		reqRateLimiter,
		"auth",
		s.config.LoginRateLimitAllowedPerMin,
		s.metricsManager,
	)
	r.Handle("/api/auth/register", loginRateLimit(http.HandlerFunc(authHandler.HandleRegister))).
		Methods("POST", "OPTIONS").Name("register")
	r.Handle("/api/auth/login", loginRateLimit(http.HandlerFunc(authHandler.HandleLogin))).
		Methods("POST", "OPTIONS").Name("login")
	r.HandleFunc("/api/auth/me", authHandler.HandleMe).Methods("GET", "OPTIONS").Name("me")

	menusRepo := menus.NewRepo(s.storageAdapter)
	menusHandler := menus.NewHandler(menusRepo, s.metricsManager)
	r.HandleFunc("/api/menus", menusHandler.HandleList).Methods("GET", "OPTIONS").Name("list-menus")
	r.HandleFunc("/api/menus", menusHandler.HandleCreate).Methods("POST", "OPTIONS").Name("new-menu")
	r.HandleFunc("/api/menus/{id}", menusHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-menu")
	r.HandleFunc("/api/menus/{id}", menusHandler.HandleUpdate).Methods("PUT", "OPTIONS").Name("update-menu")
	r.HandleFunc("/api/menus/{id}", menusHandler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-menu")

	recordsRepo := records.NewRepo(s.storageAdapter)
	recordsHandler := records.NewHandler(recordsRepo, menusRepo, s.metricsManager)
	r.HandleFunc("/api/records", recordsHandler.HandleList).Methods("GET", "OPTIONS").Name("list-records")
	r.HandleFunc("/api/records", recordsHandler.HandleCreate).Methods("POST", "OPTIONS").Name("new-record")
	r.HandleFunc("/api/records/latest/{menuId}", recordsHandler.HandleLatestByMenu).
		Methods("GET", "OPTIONS").Name("latest-record")
	r.HandleFunc("/api/records/{id}", recordsHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-record")
	r.HandleFunc("/api/records/{id}", recordsHandler.HandleUpdate).Methods("PUT", "OPTIONS").Name("update-record")
	r.HandleFunc("/api/records/{id}", recordsHandler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-record")

	scheduleHandler := schedule.NewHandler(schedule.NewResolver(menusRepo))
	r.HandleFunc("/api/schedule/today", scheduleHandler.HandleToday).
		Methods("GET", "OPTIONS").Name("today-schedule")

	analyticsHandler := analytics.NewHandler(recordsRepo, menusRepo, s.config.AnalyticsCacheTTLSeconds)
	r.HandleFunc("/api/analytics", analyticsHandler.HandleSummary).
		Methods("GET", "OPTIONS").Name("analytics-summary")
	r.HandleFunc("/api/analytics/frequency", analyticsHandler.HandleFrequency).
		Methods("GET", "OPTIONS").Name("analytics-frequency")
	r.HandleFunc("/api/analytics/progress/{menuId}", analyticsHandler.HandleProgress).
		Methods("GET", "OPTIONS").Name("analytics-progress")
	r.HandleFunc("/api/analytics/muscle-groups", analyticsHandler.HandleMuscleGroups).
		Methods("GET", "OPTIONS").Name("analytics-muscle-groups")

	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		pkg.WriteTextResponseOK(w, "I'm OK, thanks for asking")
	}).Methods("GET").Name("root")
	r.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		pkg.WriteTextResponseOK(w, s.versionInfo)
	}).Methods("GET").Name("version")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.tokenService)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors())
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

func (s *Server) Serve(host string, port int) {
	router := s.routerSetup()

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", metricsmiddleware.
		New(s.promRegistry, nil).
		WrapHandler("/metrics", promhttp.HandlerFor(
			s.promRegistry,
			promhttp.HandlerOpts{}),
		))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown http server")
	}
	log.Warnln("server shut down")

	if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown metrics http server")
	}
	log.Warnln("metrics server shut down")
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
