package gateway

import (
	"runtime"
	"time"

	"github.com/condominiosolar/portaria/internal/autorizacao"
)

// payloadCriacao é o único mapeamento aceito pelo POST /autorizacoes. As
// variações históricas de "adaptar payload" foram consolidadas aqui.
type payloadCriacao struct {
	CondominioID string `json:"condominioId"`

	Tipo     autorizacao.Tipo `json:"tipo"`
	Nome     string           `json:"nome"`
	Email    *string          `json:"email"`
	Telefone string           `json:"telefone"`
	CPF      string           `json:"cpf"`
	RG       string           `json:"rg"`

	Empresa *string `json:"empresa"`
	CNPJ    *string `json:"cnpj"`

	Periodo    autorizacao.Periodo `json:"periodo"`
	DataInicio string              `json:"dataInicio"`
	DataFim    string              `json:"dataFim"`

	Autorizador payloadAutorizador `json:"autorizador"`
	Dispositivo payloadDispositivo `json:"dispositivo"`

	Status string `json:"status"`
}

type payloadAutorizador struct {
	Nome                string `json:"nome"`
	Telefone            string `json:"telefone"`
	Unidade             string `json:"unidade"`
	DataHora            string `json:"dataHora"`
	DataHoraAutorizacao string `json:"dataHoraAutorizacao"`
}

type payloadDispositivo struct {
	DataHora    string `json:"dataHora"`
	Dispositivo string `json:"dispositivo"`
	Plataforma  string `json:"plataforma"`
}

type payloadEntrada struct {
	AutorizacaoID       string `json:"autorizacaoId"`
	PortariaResponsavel string `json:"portariaResponsavel"`
	DocumentoID         string `json:"documentoId"`
	DataHoraEntrada     string `json:"dataHoraEntrada"`
}

// montarCriacao traduz o bloco validado do cadastro para os nomes de campo do
// backend. Tradução, não validação: assume que Rascunho.Validar já passou.
func montarCriacao(condominioID string, envio autorizacao.Envio) payloadCriacao {
	quando := envio.AutorizadaEm
	if quando.IsZero() {
		quando = time.Now()
	}
	carimbo := quando.Format(time.RFC3339)

	return payloadCriacao{
		CondominioID: condominioID,
		Tipo:         envio.Tipo,
		Nome:         envio.Nome,
		Email:        opcional(envio.Email),
		Telefone:     envio.Telefone,
		CPF:          envio.CPF,
		RG:           envio.RG,
		Empresa:      opcional(envio.Empresa),
		CNPJ:         opcional(envio.CNPJ),
		Periodo:      envio.Periodo,
		DataInicio:   envio.DataInicio,
		DataFim:      envio.DataFim,
		Autorizador: payloadAutorizador{
			Nome:                envio.Autorizador.Nome,
			Telefone:            envio.Autorizador.Telefone,
			Unidade:             envio.Autorizador.CodigoDaUnidade,
			DataHora:            carimbo,
			DataHoraAutorizacao: carimbo,
		},
		Dispositivo: payloadDispositivo{
			DataHora:    carimbo,
			Dispositivo: "portaria-console",
			Plataforma:  runtime.GOOS,
		},
		Status: "autorizado",
	}
}

func opcional(valor string) *string {
	if valor == "" {
		return nil
	}
	return &valor
}
