package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/condominiosolar/portaria/internal/gateway"
)

// SuccessEnvelope padroniza respostas com dados.
type SuccessEnvelope struct {
	Data  any `json:"data"`
	Error any `json:"error"`
}

// ErrorEnvelope padroniza respostas de erro.
type ErrorEnvelope struct {
	Data  any        `json:"data"`
	Error *ErrorBody `json:"error"`
}

// ErrorBody descreve falhas normalizadas.
type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// WriteJSON escreve envelope de sucesso.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(SuccessEnvelope{Data: data, Error: nil})
}

// WriteError escreve envelope de erro e mantém formato consistente.
func WriteError(w http.ResponseWriter, status int, code, message string, details interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorEnvelope{
		Data:  nil,
		Error: &ErrorBody{Code: code, Message: message, Details: details},
	})
}

// WriteCamposInvalidos devolve o mapa campo->mensagem do rascunho.
func WriteCamposInvalidos(w http.ResponseWriter, erros map[string]string) {
	WriteError(w, http.StatusUnprocessableEntity, "CAMPOS_INVALIDOS", "Corrija os campos destacados", erros)
}

// WriteGatewayError traduz a taxonomia do gateway para o status HTTP do
// console; os fluxos nunca expõem status de transporte cru.
func WriteGatewayError(w http.ResponseWriter, err error) {
	var ge *gateway.Erro
	if !errors.As(err, &ge) {
		WriteError(w, http.StatusInternalServerError, "INTERNO", "erro interno", nil)
		return
	}

	status := http.StatusBadGateway
	switch ge.Kind {
	case gateway.KindValidacao:
		status = http.StatusBadRequest
	case gateway.KindNaoEncontrado:
		status = http.StatusNotFound
	case gateway.KindConflito:
		status = http.StatusConflict
	case gateway.KindTransporte:
		status = http.StatusGatewayTimeout
	case gateway.KindServidor:
		status = http.StatusBadGateway
	}
	WriteError(w, status, string(ge.Kind), ge.Message, ge.Details)
}
