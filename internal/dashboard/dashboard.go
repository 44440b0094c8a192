// Package dashboard classifica as autorizações do dia no quadro da portaria
// e mantém o quadro atualizado por polling.
package dashboard

import (
	"time"

	"github.com/condominiosolar/portaria/internal/autorizacao"
	"github.com/condominiosolar/portaria/internal/dateutil"
)

// Quadro particiona os registros por status. O status é a única fonte de
// verdade; divergência entre status e histórico de checkins vai para
// Inconsistentes em vez de sumir de coluna nenhuma.
type Quadro struct {
	Autorizadas    []autorizacao.Autorizacao `json:"autorizadas"`
	ComAcesso      []autorizacao.Autorizacao `json:"comAcesso"`
	Finalizadas    []autorizacao.Autorizacao `json:"finalizadas"`
	Expiradas      []autorizacao.Autorizacao `json:"expiradas"`
	Inconsistentes []autorizacao.Autorizacao `json:"inconsistentes,omitempty"`
}

// Total soma os registros classificados, fora cancelados.
func (q Quadro) Total() int {
	return len(q.Autorizadas) + len(q.ComAcesso) + len(q.Finalizadas) + len(q.Expiradas) + len(q.Inconsistentes)
}

// Classificar recalcula o quadro por inteiro a cada busca; não há atualização
// incremental. Cancelados ficam fora das colunas.
func Classificar(registros []autorizacao.Autorizacao) Quadro {
	var q Quadro
	for _, r := range registros {
		if r.Inconsistente() {
			q.Inconsistentes = append(q.Inconsistentes, r)
			continue
		}
		switch r.Status {
		case autorizacao.StatusAutorizado:
			q.Autorizadas = append(q.Autorizadas, r)
		case autorizacao.StatusUtilizado:
			q.ComAcesso = append(q.ComAcesso, r)
		case autorizacao.StatusFinalizado:
			q.Finalizadas = append(q.Finalizadas, r)
		case autorizacao.StatusExpirado:
			q.Expiradas = append(q.Expiradas, r)
		}
	}
	return q
}

// Estatisticas resume o movimento do dia para os cartões do topo do quadro.
type Estatisticas struct {
	Total        int `json:"totalAutorizacoes"`
	EntradasHoje int `json:"acessosHoje"`
	SaidasHoje   int `json:"saidasHoje"`
	Pendentes    int `json:"pendentes"`
}

// CalcularEstatisticas conta entradas e saídas do dia informado (YYYY-MM-DD)
// e autorizações ainda sem uso.
func CalcularEstatisticas(registros []autorizacao.Autorizacao, dia string) Estatisticas {
	e := Estatisticas{Total: len(registros)}

	diaLocal, err := dateutil.ParseLocalDate(dia)
	if err != nil {
		return e
	}
	for _, r := range registros {
		entrou, saiu := false, false
		for _, c := range r.Checkins {
			if noMesmoDia(c.Entrada, diaLocal) {
				entrou = true
			}
			if c.Saida != nil && noMesmoDia(*c.Saida, diaLocal) {
				saiu = true
			}
		}
		if entrou {
			e.EntradasHoje++
		}
		if saiu {
			e.SaidasHoje++
		}
		if r.Status == autorizacao.StatusAutorizado && len(r.Checkins) == 0 {
			e.Pendentes++
		}
	}
	return e
}

// noMesmoDia compara pelo calendário local, nunca por recorte UTC do ISO.
func noMesmoDia(instante time.Time, dia time.Time) bool {
	local := instante.In(time.Local)
	return local.Year() == dia.Year() && local.Month() == dia.Month() && local.Day() == dia.Day()
}
