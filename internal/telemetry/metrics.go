package telemetry

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Метрики пайплайна.
//
// Облачное решение может идти часами, поэтому во время run при заданном
// RESONANCE_METRICS_ADDR поднимается /metrics endpoint.
var (
	// APIRequests — количество запросов к API платформы по методу и исходу.
	APIRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "resonance_api_requests_total",
		Help: "Total requests issued to the simulation platform API",
	}, []string{"operation", "outcome"})

	// PollAttempts — количество опросов статуса по стадиям.
	PollAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "resonance_poll_attempts_total",
		Help: "Total status poll attempts by pipeline stage",
	}, []string{"stage"})

	// TransportRetries — количество повторов после сетевых ошибок в poll-цикле.
	TransportRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "resonance_transport_retries_total",
		Help: "Total poll retries caused by transport errors",
	})

	// JobsCompleted — завершённые задачи по терминальному статусу.
	JobsCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "resonance_jobs_completed_total",
		Help: "Total jobs reaching a terminal status",
	}, []string{"status"})
)

// ServeMetrics поднимает HTTP endpoint с /metrics и /healthz.
// Возвращает сразу; сервер живёт до конца процесса.
func ServeMetrics(addr string, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		logger.Info("metrics listening", "addr", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			logger.Error("metrics server error", "error", err)
		}
	}()
}
