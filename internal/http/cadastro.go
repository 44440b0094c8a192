package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/condominiosolar/portaria/internal/autorizacao"
	"github.com/condominiosolar/portaria/internal/qr"
)

type cadastroPayload struct {
	Tipo       string `json:"tipo"`
	Nome       string `json:"nome"`
	Email      string `json:"email"`
	Telefone   string `json:"telefone"`
	CPF        string `json:"cpf"`
	RG         string `json:"rg"`
	Empresa    string `json:"empresa"`
	CNPJ       string `json:"cnpj"`
	Periodo    string `json:"periodo"`
	DataInicio string `json:"dataInicio"`
	DataFim    string `json:"dataFim"`

	Autorizador *struct {
		Nome     string `json:"nome"`
		Telefone string `json:"telefone"`
		Unidade  string `json:"unidade"`
	} `json:"autorizador,omitempty"`
}

// montarRascunho materializa o formulário a partir do payload, aplicando as
// máscaras campo a campo como a digitação faria.
func montarRascunho(aut autorizacao.Autorizador, p cadastroPayload) *autorizacao.Rascunho {
	r := autorizacao.NovoRascunho(aut)

	campos := map[string]string{
		"tipo":       p.Tipo,
		"nome":       p.Nome,
		"email":      p.Email,
		"telefone":   p.Telefone,
		"cpf":        p.CPF,
		"rg":         p.RG,
		"empresa":    p.Empresa,
		"cnpj":       p.CNPJ,
		"periodo":    p.Periodo,
		"dataInicio": p.DataInicio,
		"dataFim":    p.DataFim,
	}
	for nome, valor := range campos {
		if valor != "" {
			r.AtualizarCampo(nome, valor)
		}
	}
	return r
}

func decodeCadastro(w http.ResponseWriter, r *http.Request) (cadastroPayload, bool) {
	var payload cadastroPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDACAO", "JSON inválido", nil)
		return payload, false
	}
	return payload, true
}

func (p cadastroPayload) autorizadorDoCorpo() autorizacao.Autorizador {
	if p.Autorizador == nil {
		return autorizacao.Autorizador{}
	}
	return autorizacao.NovoAutorizador(p.Autorizador.Nome, p.Autorizador.Telefone, p.Autorizador.Unidade)
}

// ValidarCadastro valida o rascunho sem efeito colateral.
func (h *Handler) ValidarCadastro(w http.ResponseWriter, r *http.Request) {
	payload, ok := decodeCadastro(w, r)
	if !ok {
		return
	}

	rascunho := montarRascunho(payload.autorizadorDoCorpo(), payload)
	if erros := rascunho.Validar(); len(erros) > 0 {
		WriteCamposInvalidos(w, erros)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"valido": true})
}

// ConfirmacaoCadastro devolve a declaração de revisão que o autorizador
// confirma antes do envio.
func (h *Handler) ConfirmacaoCadastro(w http.ResponseWriter, r *http.Request) {
	payload, ok := decodeCadastro(w, r)
	if !ok {
		return
	}

	rascunho := montarRascunho(payload.autorizadorDoCorpo(), payload)
	if erros := rascunho.Validar(); len(erros) > 0 {
		WriteCamposInvalidos(w, erros)
		return
	}

	conf := autorizacao.NovaConfirmacao(rascunho)
	WriteJSON(w, http.StatusOK, map[string]any{
		"declaracao": conf.Declaracao(),
		"detalhes":   conf.Detalhes(),
	})
}

// CriarAutorizacao valida e envia a autorização. A identidade do autorizador
// vem dos parâmetros do link do morador (nome, telefone e unidade); sem eles
// o cadastro é bloqueado.
func (h *Handler) CriarAutorizacao(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	aut := autorizacao.NovoAutorizador(
		strings.TrimSpace(q.Get("nome")),
		strings.TrimSpace(q.Get("telefone")),
		strings.TrimSpace(q.Get("unidade")),
	)
	if !aut.Completo() {
		WriteError(w, http.StatusForbidden, "AUTORIZADOR_AUSENTE",
			"Não foi possível identificar o autorizador. Abra o cadastro pelo link enviado ao morador.", nil)
		return
	}

	payload, ok := decodeCadastro(w, r)
	if !ok {
		return
	}

	rascunho := montarRascunho(aut, payload)
	if erros := rascunho.Validar(); len(erros) > 0 {
		WriteCamposInvalidos(w, erros)
		return
	}

	criada, err := h.api.CreateAutorizacao(r.Context(), rascunho.PayloadDeEnvio())
	if err != nil {
		WriteGatewayError(w, err)
		return
	}

	codigo := qr.Encode(criada)
	WriteJSON(w, http.StatusCreated, map[string]any{
		"autorizacao": criada,
		"qr": map[string]string{
			"payload":   codigo,
			"imagemUrl": qr.ImageURL(codigo, 300),
		},
	})
}
