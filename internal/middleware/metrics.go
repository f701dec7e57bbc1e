package middleware

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts failed Redis commands by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agora_redis_errors_total",
		Help: "Total number of Redis command errors",
	}, []string{"command"})

	// FormActions counts form action outcomes by action name.
	FormActions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agora_form_actions_total",
		Help: "Total number of form actions by outcome",
	}, []string{"action", "outcome"})

	// PageCacheLookups counts page cache lookups by result (hit, miss, error, stale).
	PageCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agora_page_cache_lookups_total",
		Help: "Total number of page cache lookups by result",
	}, []string{"result"})
)

var (
	promOnce sync.Once
	prom     *fiberprometheus.FiberPrometheus
)

// InitMetrics returns the process-wide fiber Prometheus instance, creating it on first use.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		prom = fiberprometheus.New(serviceName)
	})
	return prom
}

// MetricsMiddleware records request counts and latencies.
func MetricsMiddleware(p *fiberprometheus.FiberPrometheus) fiber.Handler {
	return p.Middleware
}
