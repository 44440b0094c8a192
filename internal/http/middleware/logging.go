package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

// Logging escreve um log estruturado por requisição atendida.
// Sondas de saúde e de métricas são registradas em nível debug
// para não poluir o console da portaria.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		inicio := time.Now()

		next.ServeHTTP(ww, r)

		event := log.Info()
		if r.URL.Path == "/saude" || r.URL.Path == "/metrics" {
			event = log.Debug()
		}

		event = event.Str("method", r.Method).Str("path", r.URL.Path).
			Int("status", ww.Status()).Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(inicio))

		if reqID := middleware.GetReqID(r.Context()); reqID != "" {
			event = event.Str("request_id", reqID)
		}

		event = event.Str("ip", realIPFromRequest(r))

		if ua := r.Header.Get("User-Agent"); ua != "" {
			event = event.Str("user_agent", ua)
		}

		event.Msg("http_request")
	})
}
