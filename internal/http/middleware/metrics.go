package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requisicoes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "portaria",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total de requisições HTTP por método, rota e status",
		},
		[]string{"method", "path", "status"},
	)
	duracao = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "portaria",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duração das requisições HTTP em segundos",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

func init() {
	for _, c := range []prometheus.Collector{requisicoes, duracao} {
		if err := prometheus.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if !errors.As(err, &are) {
				panic(err)
			}
		}
	}
}

// Metrics coleta contadores e histograma por requisição.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		inicio := time.Now()

		next.ServeHTTP(ww, r)

		rota := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if padrao := rctx.RoutePattern(); padrao != "" {
				rota = padrao
			}
		}
		requisicoes.WithLabelValues(r.Method, rota, strconv.Itoa(ww.Status())).Inc()
		duracao.WithLabelValues(r.Method, rota).Observe(time.Since(inicio).Seconds())
	})
}

// MetricsHandler expõe o endpoint /metrics.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
