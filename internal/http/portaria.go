package http

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/condominiosolar/portaria/internal/comprovante"
	"github.com/condominiosolar/portaria/internal/gateway"
)

// limite de upload espelha o do gateway, com folga para o envelope multipart
const limiteCorpoUpload = 6 << 20

// BuscarAutorizacao carrega uma autorização para conferência no fluxo da
// portaria. Aceita o identificador direto na URL ou o conteúdo bruto de um
// QR em ?codigo=.
func (h *Handler) BuscarAutorizacao(w http.ResponseWriter, r *http.Request) {
	leitura := r.URL.Query().Get("codigo")
	if leitura == "" {
		leitura = chi.URLParam(r, "id")
	}

	if err := h.fluxo.Buscar(r.Context(), leitura); err != nil {
		WriteGatewayError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, h.fluxo.Situacao())
}

// EnviarDocumento recebe um arquivo multipart e o repassa ao gateway dentro
// da tentativa corrente.
func (h *Handler) EnviarDocumento(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	situacao := h.fluxo.Situacao()
	if situacao.Autorizacao == nil || situacao.Autorizacao.ID != id {
		WriteError(w, http.StatusConflict, "CONFLITO", "nenhuma autorização em conferência com este identificador", nil)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, limiteCorpoUpload)
	arquivo, header, err := r.FormFile("arquivo")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDACAO", "campo arquivo ausente ou corpo grande demais", nil)
		return
	}
	defer arquivo.Close()

	conteudo, err := io.ReadAll(arquivo)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDACAO", "não foi possível ler o arquivo", nil)
		return
	}

	mime := header.Header.Get("Content-Type")
	if mime == "" {
		mime = http.DetectContentType(conteudo)
	}

	doc, err := h.fluxo.EnviarDocumento(r.Context(), gateway.Arquivo{
		Nome:     header.Filename,
		MimeType: mime,
		Conteudo: conteudo,
	})
	if err != nil {
		WriteGatewayError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]any{
		"documento": doc,
		"situacao":  h.fluxo.Situacao(),
	})
}

// RemoverDocumento descarta um documento aceito da tentativa corrente.
func (h *Handler) RemoverDocumento(w http.ResponseWriter, r *http.Request) {
	h.fluxo.RemoverDocumento(chi.URLParam(r, "docID"))
	WriteJSON(w, http.StatusOK, h.fluxo.Situacao())
}

// RegistrarEntrada confirma a entrada da autorização em conferência.
func (h *Handler) RegistrarEntrada(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	situacao := h.fluxo.Situacao()
	if situacao.Autorizacao == nil || situacao.Autorizacao.ID != id {
		WriteError(w, http.StatusConflict, "CONFLITO", "nenhuma autorização em conferência com este identificador", nil)
		return
	}

	if err := h.fluxo.RegistrarEntrada(r.Context()); err != nil {
		WriteGatewayError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, h.fluxo.Situacao())
}

// SituacaoFluxo devolve o retrato corrente do fluxo da portaria.
func (h *Handler) SituacaoFluxo(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.fluxo.Situacao())
}

// ConfirmarFluxo reconhece a entrada registrada e libera o fluxo.
func (h *Handler) ConfirmarFluxo(w http.ResponseWriter, r *http.Request) {
	h.fluxo.Confirmar()
	WriteJSON(w, http.StatusOK, h.fluxo.Situacao())
}

// ReiniciarFluxo descarta a tentativa em andamento.
func (h *Handler) ReiniciarFluxo(w http.ResponseWriter, r *http.Request) {
	h.fluxo.Reiniciar()
	WriteJSON(w, http.StatusOK, h.fluxo.Situacao())
}

// CancelarAutorizacao revoga uma autorização ainda não utilizada.
func (h *Handler) CancelarAutorizacao(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.api.CancelAutorizacao(r.Context(), id); err != nil {
		WriteGatewayError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"id": id, "status": "cancelada"})
}

// Quadro devolve a visão agregada do dia. ?data= troca o filtro e força uma
// busca imediata; ?refresh=1 só força a busca.
func (h *Handler) Quadro(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if data := r.URL.Query().Get("data"); data != "" {
		if err := h.monitor.DefinirData(ctx, data); err != nil {
			WriteError(w, http.StatusBadRequest, "VALIDACAO", "data inválida, use AAAA-MM-DD", nil)
			return
		}
	} else if refresh, _ := strconv.ParseBool(r.URL.Query().Get("refresh")); refresh {
		if err := h.monitor.Atualizar(ctx); err != nil {
			log.Warn().Err(err).Msg("refresh do quadro falhou")
		}
	}

	WriteJSON(w, http.StatusOK, h.monitor.Visao())
}

// Comprovante renderiza o comprovante HTML da autorização. A primeira emissão
// dentro da janela é sinalizada no cabeçalho; emissões repetidas continuam
// servidas, apenas marcadas.
func (h *Handler) Comprovante(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	registro, err := h.api.GetAutorizacao(r.Context(), id)
	if err != nil {
		WriteGatewayError(w, err)
		return
	}

	pagina, err := comprovante.Gerar(registro)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNO", "não foi possível gerar o comprovante", nil)
		return
	}

	primeira, err := h.marcador.Registrar(r.Context(), registro.ID)
	if err != nil {
		log.Warn().Str("id", registro.ID).Err(err).Msg("marcador de comprovante indisponível")
		primeira = true
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Comprovante-Primeira-Emissao", strconv.FormatBool(primeira))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pagina)
}
