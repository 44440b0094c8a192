package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/condominiosolar/portaria/internal/comprovante"
	"github.com/condominiosolar/portaria/internal/config"
	"github.com/condominiosolar/portaria/internal/dashboard"
	"github.com/condominiosolar/portaria/internal/gateway"
	internalhttp "github.com/condominiosolar/portaria/internal/http"
	"github.com/condominiosolar/portaria/internal/portaria"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("console encerrado com erro")
	}
}

func run() error {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	api, err := gateway.New(gateway.Config{
		BaseURL:       cfg.APIBaseURL,
		CondominioID:  cfg.CondominioID,
		Token:         cfg.APIToken,
		Timeout:       cfg.APITimeout,
		UploadTimeout: cfg.UploadTimeout,
	})
	if err != nil {
		return fmt.Errorf("gateway: %w", err)
	}

	var marcador comprovante.Marcador = comprovante.NovoMarcadorMemoria(0)
	if cfg.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("redis parse: %w", err)
		}
		redisClient := redis.NewClient(redisOpts)
		defer redisClient.Close()
		marcador = comprovante.NovoMarcadorRedis(redisClient, 0)
	}

	fluxo := portaria.NovoFluxo(api, cfg.PortariaResponsavel)
	monitor := dashboard.NovoMonitor(api, cfg.DashboardIntervalo)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go monitor.Executar(ctx)

	handler := internalhttp.NewRouter(cfg, api, fluxo, monitor, marcador)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: handler,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Msgf("console da portaria ouvindo em :%d", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("encerrando...")
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
