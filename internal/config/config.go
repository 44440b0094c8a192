package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config centraliza a configuração carregada do ambiente.
type Config struct {
	Port                int
	APIBaseURL          string
	APIToken            string
	CondominioID        string
	RedisURL            string
	AllowOrigins        []string
	APITimeout          time.Duration
	UploadTimeout       time.Duration
	DashboardIntervalo  time.Duration
	PortariaResponsavel string
	RateLimitPublic     RateLimitConfig
}

// RateLimitConfig representa limites simples para throttling.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// Load carrega variáveis de ambiente e aplica defaults seguros.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	portStr := getEnv("PORT", "8090")
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 {
		return nil, errors.New("PORT inválida")
	}
	cfg.Port = port

	cfg.APIBaseURL = strings.TrimSpace(getEnv("API_BASE_URL", ""))
	if cfg.APIBaseURL == "" {
		return nil, errors.New("API_BASE_URL obrigatória")
	}
	if !strings.HasPrefix(cfg.APIBaseURL, "http://") && !strings.HasPrefix(cfg.APIBaseURL, "https://") {
		return nil, errors.New("API_BASE_URL deve incluir protocolo http/https")
	}

	cfg.CondominioID = strings.TrimSpace(getEnv("CONDOMINIO_ID", ""))
	if cfg.CondominioID == "" {
		return nil, errors.New("CONDOMINIO_ID obrigatório")
	}

	// reservado: o backend ainda não exige autenticação
	cfg.APIToken = strings.TrimSpace(getEnv("API_TOKEN", ""))

	// Redis é opcional; sem ele o marcador de comprovante fica em memória
	cfg.RedisURL = strings.TrimSpace(getEnv("REDIS_URL", ""))

	allowOrigins := strings.Split(getEnv("ALLOW_ORIGINS", ""), ",")
	cfg.AllowOrigins = nil
	for _, origin := range allowOrigins {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			cfg.AllowOrigins = append(cfg.AllowOrigins, origin)
		}
	}

	apiTimeout, err := parseDurationEnv("API_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.APITimeout = apiTimeout

	uploadTimeout, err := parseDurationEnv("UPLOAD_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.UploadTimeout = uploadTimeout

	intervalo, err := parseDurationEnv("DASHBOARD_INTERVALO", 30*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.DashboardIntervalo = intervalo

	cfg.PortariaResponsavel = strings.TrimSpace(getEnv("PORTARIA_RESPONSAVEL", "Funcionário Portaria"))
	if cfg.PortariaResponsavel == "" {
		cfg.PortariaResponsavel = "Funcionário Portaria"
	}

	cfg.RateLimitPublic = RateLimitConfig{RequestsPerSecond: 10, Burst: 20}

	return cfg, nil
}

func getEnv(key, def string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return def
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	val := getEnv(key, "")
	if val == "" {
		return def, nil
	}
	dur, err := time.ParseDuration(val)
	if err != nil {
		return 0, errors.New(key + " inválido")
	}
	return dur, nil
}
