// Package autorizacao modela o ciclo de autorização de acesso de visitantes
// e prestadores de serviço: o rascunho preenchido no cadastro, a confirmação
// textual do autorizador e o registro devolvido pelo backend do condomínio.
package autorizacao

import (
	"time"

	"github.com/condominiosolar/portaria/internal/masks"
)

// Tipo distingue visitante de prestador de serviço.
type Tipo string

const (
	TipoVisitante Tipo = "visitante"
	TipoPrestador Tipo = "prestador"
)

// Periodo define a janela da autorização.
type Periodo string

const (
	PeriodoUnico     Periodo = "unico"
	PeriodoIntervalo Periodo = "intervalo"
)

// Status reflete o ciclo de vida mantido pelo backend.
type Status string

const (
	StatusAutorizado Status = "Autorizado"
	StatusUtilizado  Status = "Utilizado"
	StatusFinalizado Status = "Finalizado"
	StatusExpirado   Status = "Expirado"
	StatusCancelado  Status = "Cancelado"
)

// Autorizador identifica o morador que concede o acesso. Os campos chegam
// pelos parâmetros da URL de cadastro e são somente leitura depois disso.
type Autorizador struct {
	Nome            string `json:"nome"`
	Telefone        string `json:"telefone"`
	CodigoDaUnidade string `json:"unidade"`
}

// NovoAutorizador monta o bloco do autorizador formatando o telefone.
func NovoAutorizador(nome, telefone, codigoDaUnidade string) Autorizador {
	return Autorizador{
		Nome:            nome,
		Telefone:        masks.FormatTelefone(telefone),
		CodigoDaUnidade: codigoDaUnidade,
	}
}

// Completo informa se os três campos obrigatórios chegaram pela URL.
func (a Autorizador) Completo() bool {
	return a.Nome != "" && a.Telefone != "" && a.CodigoDaUnidade != ""
}

// Checkin é um registro de passagem pela portaria.
type Checkin struct {
	Entrada     time.Time  `json:"dataHoraEntrada"`
	Saida       *time.Time `json:"dataHoraSaida,omitempty"`
	DocumentoID string     `json:"documentoId"`
}

// Autorizacao é o registro mantido pelo backend; do lado do cliente só o
// status muda depois da criação.
type Autorizacao struct {
	ID          string      `json:"id"`
	Tipo        Tipo        `json:"tipo"`
	Nome        string      `json:"nome"`
	Email       string      `json:"email,omitempty"`
	Telefone    string      `json:"telefone"`
	CPF         string      `json:"cpf"`
	RG          string      `json:"rg"`
	Empresa     string      `json:"empresa,omitempty"`
	CNPJ        string      `json:"cnpj,omitempty"`
	Periodo     Periodo     `json:"periodo"`
	DataInicio  string      `json:"dataInicio"`
	DataFim     string      `json:"dataFim"`
	Status      Status      `json:"status"`
	Link        string      `json:"link,omitempty"`
	CriadaEm    time.Time   `json:"criadaEm"`
	Autorizador Autorizador `json:"autorizador"`
	Checkins    []Checkin   `json:"checkins,omitempty"`
}

// Inconsistente acusa divergência entre status e histórico: um registro ainda
// "Autorizado" não deveria carregar checkins. O dashboard expõe esses casos
// em vez de escondê-los.
func (a *Autorizacao) Inconsistente() bool {
	return a.Status == StatusAutorizado && len(a.Checkins) > 0
}

// DocumentoEnviado descreve um arquivo de identificação aceito pelo backend
// durante uma tentativa de entrada. Vive só até o fim da tentativa.
type DocumentoEnviado struct {
	ID          string `json:"id"`
	Nome        string `json:"nome"`
	MimeType    string `json:"mimeType"`
	TamanhoB    int64  `json:"tamanhoBytes"`
	URL         string `json:"url,omitempty"`
	DocumentoID string `json:"documentoId"`
}
