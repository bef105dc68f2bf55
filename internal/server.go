package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/odensebartech/dashboard/internal/activity"
	"github.com/odensebartech/dashboard/internal/auth"
	"github.com/odensebartech/dashboard/internal/config"
	"github.com/odensebartech/dashboard/internal/ingredients"
	"github.com/odensebartech/dashboard/internal/login"
	"github.com/odensebartech/dashboard/internal/middleware"
	"github.com/odensebartech/dashboard/internal/misc"
	"github.com/odensebartech/dashboard/internal/recipes"
	"github.com/odensebartech/dashboard/internal/remote"
	"github.com/odensebartech/dashboard/internal/session"
	"github.com/odensebartech/dashboard/internal/telemetry/metrics"
	"github.com/odensebartech/dashboard/internal/telemetry/tracing"
	"github.com/odensebartech/dashboard/internal/users"
	"github.com/odensebartech/dashboard/internal/views"
)

const (
	serviceName     = "bartech-dashboard"
	maxFormBodySize = 1 << 20
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server

	config      *config.Config
	versionInfo string
	redisClient *redis.Client
	sessions    session.Store
	apiClient   *remote.Client
	gate        *auth.Gate
	renderer    *views.Renderer
	statsSource *activity.StatsSource

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	RedisPassword           string
	VersionInfo             string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config

	promRegistry := metrics.SetupPrometheus()
	metricsManager := metrics.NewManager("bartech", "dashboard", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, serviceName)
	if err != nil {
		return nil, err
	}

	var rdb *redis.Client
	if cfg.RedisNeeded() {
		rdb = redis.NewClient(&redis.Options{
			Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
			Password: params.RedisPassword,
			DB:       0, // use default DB
		})
		if params.HoneycombTracingEnabled {
			rdb.AddHook(redisotel.NewTracingHook())
		}

		rdbStatus := rdb.Ping(ctx)
		if err := rdbStatus.Err(); err != nil {
			log.Errorf("--> failed to ping redis: %s", err)
		} else {
			log.Debugf("redis ping: %s", rdbStatus.Val())
		}
	}

	var sessions session.Store
	switch cfg.SessionBackend {
	case config.SessionBackendRedis:
		sessions = session.NewRedisStore(rdb, cfg.CookieSecure)
	default:
		sessions = session.NewCookieStore(cfg.CookieSecure)
	}
	log.Debugf("session backend: %s", cfg.SessionBackend)

	tracedHttpClient := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   cfg.ApiTimeout(),
	}
	apiClient := remote.NewClient(cfg.ApiBaseURL, tracedHttpClient, session.ContextProvider{}, metricsManager)

	renderer, err := views.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("new renderer: %w", err)
	}

	return &Server{
		config:      cfg,
		versionInfo: params.VersionInfo,
		redisClient: rdb,
		sessions:    sessions,
		apiClient:   apiClient,
		gate:        auth.NewGate(apiClient),
		renderer:    renderer,
		statsSource: activity.NewStatsSource(
			apiClient,
			session.ContextProvider{},
			cfg.StatsCacheTTLSeconds,
			metricsManager,
		),

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

func (s *Server) routerSetup() (*mux.Router, error) {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("dashboard-router"))

	misc.NewHandler(s.versionInfo).SetupRoutes(r)

	loginHandler := login.NewHandler(s.apiClient, s.sessions, s.renderer, s.metricsManager, s.config.SessionTTL())
	loginHandler.SetupRoutes(r)

	recipes.NewHandler(s.apiClient, s.renderer).SetupRoutes(r)
	ingredients.NewHandler(s.apiClient, s.renderer).SetupRoutes(r)
	users.NewHandler(s.apiClient, s.renderer).SetupRoutes(r)
	activity.NewHandler(s.statsSource, s.renderer).SetupRoutes(r)

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.sessions, s.gate)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	if s.config.RateLimitPerMin > 0 && s.redisClient != nil {
		r.Use(middleware.RateLimit(
			redis_rate.NewLimiter(s.redisClient),
			"dashboard",
			s.config.RateLimitPerMin,
			s.metricsManager,
		))
	}
	r.Use(middleware.LimitAndDrainRequest(maxFormBodySize))
	r.Use(middleware.CSRFProtect(s.config.CookieSecure))
	r.Use(authMiddleware.AuthCheck())

	return r, nil
}

func (s *Server) Serve(host string, port int) {
	router, err := s.routerSetup()
	if err != nil {
		log.Fatalf("failed to setup router: %s", err)
	}

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.InstrumentMetricHandler(
		s.promRegistry,
		promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}),
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

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}
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
