package di

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"ForecastAI/internal/domain/repository"
	domsvc "ForecastAI/internal/domain/service"
	"ForecastAI/internal/handler/api"
	"ForecastAI/internal/handler/ws"
	internalrepo "ForecastAI/internal/repository"
	"ForecastAI/internal/service/ratelimit"
	"ForecastAI/internal/services/advisory"
	"ForecastAI/internal/usecase"
	"ForecastAI/pkg/cache"
	"ForecastAI/pkg/config"
	xhttp "ForecastAI/pkg/http"
	applogger "ForecastAI/pkg/logger"
	"ForecastAI/pkg/metrics"
	"ForecastAI/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(applogger.String("env", cfg.Environment)), nil
}

// ProvideCache returns Redis when enabled, the in-process cache otherwise.
func ProvideCache(cfg *config.Config, l *applogger.Logger) (cache.Service, func(), error) {
	var (
		c   cache.Service
		err error
	)
	if cfg.Redis.Enabled {
		c, err = cache.NewRedisCache(
			cache.WithRedisAddr(cfg.Redis.Addr),
			cache.WithRedisPassword(cfg.Redis.Password),
			cache.WithRedisDB(cfg.Redis.DB),
			cache.WithRedisPrefix(cfg.Redis.Prefix),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("redis cache: %w", err)
		}
		l.Info("session store: redis", applogger.String("addr", cfg.Redis.Addr))
	} else {
		// Advisory locks share the cache with sessions, hence the doubled size.
		c = cache.NewMemoryCache(
			cache.WithMemoryMaxSize(cfg.Session.MaxSessions*2),
			cache.WithMemoryCleanup(cfg.Session.CleanupInterval),
			cache.WithMemoryDefaultTTL(cfg.Session.TTL),
		)
		l.Info("session store: memory", applogger.Int("max_sessions", cfg.Session.MaxSessions))
	}

	cleanup := func() {
		if err := c.Close(); err != nil {
			l.Warn("cache close error", applogger.Error(err))
		}
	}
	return c, cleanup, nil
}

// ProvideSessionStore creates the cache-backed session repository.
func ProvideSessionStore(c cache.Service, cfg *config.Config) repository.SessionStore {
	return internalrepo.NewCacheSessionStore(c, cfg.Session.TTL)
}

// ProvideMetrics creates a Prometheus metrics recorder on the default registry.
func ProvideMetrics() repository.Metrics {
	return metrics.New(prometheus.DefaultRegisterer)
}

// ProvideAdvisor creates the advisory client for the configured provider.
func ProvideAdvisor(cfg *config.Config, l *applogger.Logger) (domsvc.Advisor, error) {
	if cfg.Advisory.APIKey == "" && cfg.Advisory.Provider == config.ProviderGemini {
		l.Warn("advisory api key is not set; advisory requests will fail")
	}
	c, err := advisory.New(cfg.Advisory, l)
	if err != nil {
		return nil, fmt.Errorf("advisory client: %w", err)
	}
	return c, nil
}

// ProvideForecaster creates the forecast use case.
func ProvideForecaster(adv domsvc.Advisor, m repository.Metrics, cfg *config.Config) *usecase.Forecaster {
	return usecase.NewForecaster(adv, m, cfg.Advisory.Timeout)
}

// ProvideRateLimiter creates the per-session advisory budget.
func ProvideRateLimiter(cfg *config.Config) *ratelimit.Limiter {
	return ratelimit.New(cfg.Advisory.RateLimit.Burst, cfg.Advisory.RateLimit.PerMinute/60)
}

// ProvideHub creates the session event hub.
func ProvideHub(l *applogger.Logger) *ws.Hub {
	return ws.NewHub(l)
}

// ProvideDashboard creates the session use case.
func ProvideDashboard(
	store repository.SessionStore,
	events repository.EventPublisher,
	forecaster *usecase.Forecaster,
	limiter *ratelimit.Limiter,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.Dashboard {
	return usecase.NewDashboard(store, events, forecaster, limiter, m, l)
}

// ProvideHTTPHandler groups every route of the API.
func ProvideHTTPHandler(
	cfg *config.Config,
	l *applogger.Logger,
	forecaster *usecase.Forecaster,
	dash *usecase.Dashboard,
	hub *ws.Hub,
) xhttp.Handler {
	return xhttp.Handlers{
		api.NewForecastEchoHandler(l, forecaster),
		api.NewSessionsEchoHandler(l, dash),
		ws.NewHandler(hub, dash, l, cfg.Server.CORSOrigins...),
	}
}

// ProvideHTTPServer creates the Echo server.
func ProvideHTTPServer(cfg *config.Config, h xhttp.Handler, l *applogger.Logger) *xhttp.Server {
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	opts := []xhttp.ServerOption{
		xhttp.WithHost(cfg.Server.Host),
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithLogger(l),
		xhttp.WithMetricsPath(metricsPath),
	}
	if len(cfg.Server.CORSOrigins) > 0 {
		opts = append(opts, xhttp.WithCORSOrigins(cfg.Server.CORSOrigins...))
	}
	return xhttp.NewServer(h, opts...)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	srv *xhttp.Server,
	hub *ws.Hub,
	dash *usecase.Dashboard,
	l *applogger.Logger,
) *server.App {
	return server.New(cfg, srv, hub, dash, l)
}
