package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/condominiosolar/portaria/internal/autorizacao"
	"github.com/condominiosolar/portaria/internal/comprovante"
	"github.com/condominiosolar/portaria/internal/config"
	"github.com/condominiosolar/portaria/internal/dashboard"
	"github.com/condominiosolar/portaria/internal/gateway"
	httpmiddleware "github.com/condominiosolar/portaria/internal/http/middleware"
	"github.com/condominiosolar/portaria/internal/portaria"
)

// Gateway é o recorte do cliente da API do condomínio que os handlers
// consomem.
type Gateway interface {
	CreateAutorizacao(ctx context.Context, envio autorizacao.Envio) (*autorizacao.Autorizacao, error)
	GetAutorizacao(ctx context.Context, id string) (*autorizacao.Autorizacao, error)
	UploadDocumento(ctx context.Context, arq gateway.Arquivo, autorizacaoID string) (*autorizacao.DocumentoEnviado, error)
	RegistrarEntrada(ctx context.Context, autorizacaoID, documentoID, portariaResponsavel string) (*gateway.ResultadoEntrada, error)
	ListAutorizacoesByDate(ctx context.Context, data string) ([]autorizacao.Autorizacao, error)
	CancelAutorizacao(ctx context.Context, id string) error
	Health(ctx context.Context) error
}

type Handler struct {
	cfg           *config.Config
	api           Gateway
	fluxo         *portaria.Fluxo
	monitor       *dashboard.Monitor
	marcador      comprovante.Marcador
	publicLimiter *httpmiddleware.RateLimiter
}

// NewRouter devolve o roteador do console da portaria.
func NewRouter(cfg *config.Config, api Gateway, fluxo *portaria.Fluxo, monitor *dashboard.Monitor, marcador comprovante.Marcador) http.Handler {
	h := &Handler{
		cfg:           cfg,
		api:           api,
		fluxo:         fluxo,
		monitor:       monitor,
		marcador:      marcador,
		publicLimiter: httpmiddleware.NewRateLimiter(cfg.RateLimitPublic.RequestsPerSecond, cfg.RateLimitPublic.Burst),
	}

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(httpmiddleware.Logging)
	r.Use(httpmiddleware.Recover)
	r.Use(httpmiddleware.CORS(cfg.AllowOrigins))
	r.Use(httpmiddleware.Metrics)

	r.Get("/metrics", httpmiddleware.MetricsHandler().ServeHTTP)

	r.Group(func(public chi.Router) {
		public.Use(httpmiddleware.IPRateLimit(h.publicLimiter))

		public.Get("/saude", h.Saude)

		public.Route("/cadastro", func(c chi.Router) {
			c.Post("/", h.CriarAutorizacao)
			c.Post("/validar", h.ValidarCadastro)
			c.Post("/confirmacao", h.ConfirmacaoCadastro)
		})

		public.Route("/autorizacoes/{id}", func(a chi.Router) {
			a.Get("/", h.BuscarAutorizacao)
			a.Post("/documentos", h.EnviarDocumento)
			a.Delete("/documentos/{docID}", h.RemoverDocumento)
			a.Post("/entrada", h.RegistrarEntrada)
			a.Post("/cancelamento", h.CancelarAutorizacao)
			a.Get("/comprovante", h.Comprovante)
		})

		public.Route("/portaria", func(p chi.Router) {
			p.Get("/quadro", h.Quadro)
			p.Get("/fluxo", h.SituacaoFluxo)
			p.Post("/fluxo/confirmar", h.ConfirmarFluxo)
			p.Post("/fluxo/reiniciar", h.ReiniciarFluxo)
		})
	})

	return r
}

// Saude repassa a verificação de conectividade com a API do condomínio.
func (h *Handler) Saude(w http.ResponseWriter, r *http.Request) {
	if err := h.api.Health(r.Context()); err != nil {
		WriteGatewayError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
