package autorizacao

import (
	"fmt"
	"time"

	"github.com/condominiosolar/portaria/internal/dateutil"
	"github.com/condominiosolar/portaria/internal/masks"
)

// Confirmacao é a projeção somente leitura mostrada ao autorizador antes do
// envio. Só existem dois desfechos: confirmar (segue para o gateway) ou
// cancelar (volta ao formulário com os campos preservados).
type Confirmacao struct {
	Autorizador Autorizador `json:"autorizador"`
	Visitante   Envio       `json:"-"`
	GeradaEm    time.Time   `json:"geradaEm"`
}

// NovaConfirmacao projeta o rascunho atual. O chamador garante que Validar
// passou antes de chegar aqui.
func NovaConfirmacao(r *Rascunho) *Confirmacao {
	return &Confirmacao{
		Autorizador: r.Autorizador,
		Visitante:   r.PayloadDeEnvio(),
		GeradaEm:    time.Now(),
	}
}

// Declaracao monta a frase de autorização em linguagem natural.
func (c *Confirmacao) Declaracao() string {
	tipo := "visitante"
	if c.Visitante.Tipo == TipoPrestador {
		tipo = "prestador de serviço"
	}

	var janela string
	if c.Visitante.Periodo == PeriodoUnico {
		janela = fmt.Sprintf("na data %s", dateutil.FormatExibicao(c.Visitante.DataInicio))
	} else {
		janela = fmt.Sprintf("no período de %s até %s",
			dateutil.FormatExibicao(c.Visitante.DataInicio),
			dateutil.FormatExibicao(c.Visitante.DataFim))
	}

	return fmt.Sprintf(
		"Eu, %s, telefone %s, unidade %s, autorizo o %s, %s, CPF %s, RG %s, a entrar no condomínio %s.",
		c.Autorizador.Nome,
		c.Autorizador.Telefone,
		c.Autorizador.CodigoDaUnidade,
		tipo,
		c.Visitante.Nome,
		masks.FormatCPF(c.Visitante.CPF),
		masks.FormatRG(c.Visitante.RG),
		janela,
	)
}

// Detalhes devolve o painel estruturado exibido junto da declaração.
func (c *Confirmacao) Detalhes() map[string]string {
	return map[string]string{
		"dataHoraAutorizacao": c.GeradaEm.Format("02/01/2006 15:04:05"),
	}
}
