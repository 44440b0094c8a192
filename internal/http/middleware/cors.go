package middleware

import (
	"net/http"
	"net/url"
	"strings"
)

// CORS aplica política restrita baseada em ALLOW_ORIGINS. Aceita
// correspondência exata do Origin e wildcard de subdomínio quando a entrada
// começa com *. (ex.: *.condominiosolar.com.br).
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	exatos := make(map[string]struct{}, len(allowedOrigins))
	var sufixos []string // host suffix, sem esquema, começando com .

	for _, entrada := range allowedOrigins {
		e := strings.TrimSpace(entrada)
		if e == "" {
			continue
		}
		if strings.HasPrefix(e, "*.") {
			sufixos = append(sufixos, strings.TrimPrefix(e, "*"))
			continue
		}
		exatos[e] = struct{}{}
	}

	permitido := func(origin string) bool {
		if origin == "" {
			return false
		}
		if _, ok := exatos[origin]; ok {
			return true
		}

		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		host := strings.ToLower(u.Hostname())
		for _, suf := range sufixos {
			if !strings.HasSuffix(host, strings.ToLower(suf)) {
				continue
			}
			// exige subdomínio de verdade, não a raiz do sufixo
			if host == strings.TrimPrefix(strings.ToLower(suf), ".") {
				continue
			}
			return true
		}
		return false
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if permitido(origin) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin")
				w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
				w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
