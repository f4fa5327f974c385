// Package telemetry: métricas Prometheus, tracing OTel y helpers de logging.
package telemetry

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	once sync.Once

	Ticks         *prometheus.CounterVec
	TickErrors    *prometheus.CounterVec
	FetchFailures *prometheus.CounterVec
	Writes        *prometheus.CounterVec
	TickDuration  *prometheus.HistogramVec
)

// Init registra las métricas (idempotente).
func Init() {
	once.Do(func() {
		Ticks = promauto.NewCounterVec(prometheus.CounterOpts{Name: "apex_presence_ticks_total", Help: "Poll ticks executed"}, []string{"service"})
		TickErrors = promauto.NewCounterVec(prometheus.CounterOpts{Name: "apex_presence_tick_errors_total", Help: "Poll ticks that returned an error or panicked"}, []string{"service"})
		FetchFailures = promauto.NewCounterVec(prometheus.CounterOpts{Name: "apex_presence_fetch_failures_total", Help: "Upstream fetches skipped, by reason"}, []string{"service", "reason"})
		Writes = promauto.NewCounterVec(prometheus.CounterOpts{Name: "apex_presence_writes_total", Help: "Discord presence writes by kind and result"}, []string{"kind", "result"})
		TickDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{Name: "apex_presence_tick_duration_seconds", Help: "Tick duration seconds", Buckets: prometheus.DefBuckets}, []string{"service"})
	})
}

// ObserveTick cuenta el tick y su duración. Seguro aunque Init no se haya llamado.
func ObserveTick(service string, d time.Duration, err error) {
	if Ticks == nil {
		return
	}
	Ticks.WithLabelValues(service).Inc()
	TickDuration.WithLabelValues(service).Observe(d.Seconds())
	if err != nil {
		TickErrors.WithLabelValues(service).Inc()
	}
}

func FetchFailed(service, reason string) {
	if FetchFailures != nil {
		FetchFailures.WithLabelValues(service, reason).Inc()
	}
}

// Write registra una escritura a Discord: kind = status|nickname|avatar.
func Write(kind string, err error) {
	if Writes == nil {
		return
	}
	res := "ok"
	if err != nil {
		res = "error"
	}
	Writes.WithLabelValues(kind, res).Inc()
}
