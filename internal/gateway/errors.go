package gateway

import (
	"errors"
	"fmt"
)

// Kind classifica toda falha do gateway. Os fluxos nunca inspecionam status
// de transporte cru; decidem só pelo Kind.
type Kind string

const (
	KindValidacao     Kind = "VALIDACAO"
	KindNaoEncontrado Kind = "NAO_ENCONTRADO"
	KindConflito      Kind = "CONFLITO"
	KindTransporte    Kind = "TRANSPORTE"
	KindServidor      Kind = "SERVIDOR"
)

// Erro é a forma normalizada de qualquer falha vinda do backend ou da rede.
type Erro struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Details any    `json:"details,omitempty"`
}

func (e *Erro) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("gateway: %s (%d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("gateway: %s: %s", e.Kind, e.Message)
}

// KindDe extrai o Kind de um erro qualquer; erros fora da taxonomia contam
// como falha de servidor.
func KindDe(err error) Kind {
	var ge *Erro
	if errors.As(err, &ge) {
		return ge.Kind
	}
	return KindServidor
}

// erroValidacao monta falha local, sem ida à rede.
func erroValidacao(mensagem string) *Erro {
	return &Erro{Kind: KindValidacao, Message: mensagem, Status: 0}
}

func erroTransporte(operacao string, causa error) *Erro {
	return &Erro{
		Kind:    KindTransporte,
		Message: fmt.Sprintf("erro de conexão ao %s: %v", operacao, causa),
		Status:  0,
	}
}

// normalizar traduz um status HTTP de falha para a taxonomia.
func normalizar(status int, mensagem, operacao string, details any) *Erro {
	if mensagem == "" {
		mensagem = "erro ao " + operacao
	}
	switch {
	case status == 400:
		return &Erro{Kind: KindValidacao, Message: "dados inválidos para " + operacao, Status: status, Details: details}
	case status == 404:
		return &Erro{Kind: KindNaoEncontrado, Message: "recurso não encontrado para " + operacao, Status: status}
	case status == 409:
		return &Erro{Kind: KindConflito, Message: "conflito ao " + operacao, Status: status, Details: details}
	case status >= 500:
		return &Erro{Kind: KindServidor, Message: "erro interno do servidor ao " + operacao, Status: status}
	default:
		return &Erro{Kind: KindValidacao, Message: mensagem, Status: status, Details: details}
	}
}
