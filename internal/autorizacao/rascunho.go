package autorizacao

import (
	"regexp"
	"strings"
	"time"

	"github.com/condominiosolar/portaria/internal/dateutil"
	"github.com/condominiosolar/portaria/internal/masks"
)

var emailRe = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// Rascunho é o estado transitório do formulário de cadastro. É descartado
// após o envio bem-sucedido.
type Rascunho struct {
	Autorizador Autorizador `json:"autorizador"`

	Tipo     Tipo   `json:"tipo"`
	Nome     string `json:"nome"`
	Email    string `json:"email"`
	Telefone string `json:"telefone"`
	CPF      string `json:"cpf"`
	RG       string `json:"rg"`
	Empresa  string `json:"empresa"`
	CNPJ     string `json:"cnpj"`

	Periodo    Periodo `json:"periodo"`
	DataInicio string  `json:"dataInicio"`
	DataFim    string  `json:"dataFim"`

	// Erros é recalculado por inteiro a cada Validar, nunca mesclado.
	Erros map[string]string `json:"erros,omitempty"`
}

// NovoRascunho devolve o formulário nos padrões iniciais: visitante, data
// única começando hoje.
func NovoRascunho(aut Autorizador) *Rascunho {
	return &Rascunho{
		Autorizador: aut,
		Tipo:        TipoVisitante,
		Periodo:     PeriodoUnico,
		DataInicio:  dateutil.HojeISO(),
		Erros:       map[string]string{},
	}
}

// AtualizarCampo aplica a máscara do campo (telefone, cpf, rg e cnpj; os
// demais passam como vieram) e limpa o erro pendente daquele campo.
func (r *Rascunho) AtualizarCampo(nome, valor string) {
	switch nome {
	case "tipo":
		r.Tipo = Tipo(valor)
	case "nome":
		r.Nome = valor
	case "email":
		r.Email = valor
	case "telefone":
		r.Telefone = masks.MaskTelefone(valor)
	case "cpf":
		r.CPF = masks.MaskCPF(valor)
	case "rg":
		r.RG = masks.MaskRG(valor)
	case "empresa":
		r.Empresa = valor
	case "cnpj":
		r.CNPJ = masks.MaskCNPJ(valor)
	case "periodo":
		r.Periodo = Periodo(valor)
	case "dataInicio":
		r.DataInicio = valor
	case "dataFim":
		r.DataFim = valor
	default:
		return
	}

	if r.Erros != nil {
		delete(r.Erros, nome)
	}
}

// Validar recalcula o conjunto completo de erros. Nunca lança: o resultado é
// estado consultivo para a camada de apresentação; o servidor continua sendo
// a autoridade final.
func (r *Rascunho) Validar() map[string]string {
	erros := map[string]string{}

	if strings.TrimSpace(r.Nome) == "" {
		erros["nome"] = "Nome é obrigatório"
	}

	if email := strings.TrimSpace(r.Email); email != "" && !emailRe.MatchString(email) {
		erros["email"] = "Email inválido"
	}

	telefone := masks.RemoveMask(r.Telefone)
	switch {
	case telefone == "":
		erros["telefone"] = "Telefone é obrigatório"
	case len(telefone) < 10:
		erros["telefone"] = "Telefone inválido"
	}

	cpf := masks.RemoveMask(r.CPF)
	switch {
	case cpf == "":
		erros["cpf"] = "CPF é obrigatório"
	case len(cpf) != 11:
		erros["cpf"] = "CPF deve ter 11 dígitos"
	}

	rg := masks.RemoveMask(r.RG)
	switch {
	case rg == "":
		erros["rg"] = "RG é obrigatório"
	case len(rg) < 5:
		erros["rg"] = "RG deve ter pelo menos 5 dígitos"
	case len(rg) > 10:
		erros["rg"] = "RG deve ter no máximo 10 dígitos"
	}

	if r.Tipo == TipoPrestador && strings.TrimSpace(r.Empresa) == "" {
		erros["empresa"] = "Nome da empresa é obrigatório para prestadores"
	}

	if cnpj := masks.RemoveMask(r.CNPJ); cnpj != "" && len(cnpj) != 14 {
		erros["cnpj"] = "CNPJ deve ter 14 dígitos"
	}

	if r.Periodo == PeriodoUnico {
		switch {
		case r.DataInicio == "":
			erros["dataInicio"] = "Data é obrigatória"
		case !dateutil.DataValida(r.DataInicio):
			erros["dataInicio"] = "Data não pode ser no passado"
		}
	} else {
		switch {
		case r.DataInicio == "":
			erros["dataInicio"] = "Data de início é obrigatória"
		case !dateutil.DataValida(r.DataInicio):
			erros["dataInicio"] = "Data de início não pode ser no passado"
		}

		if r.DataFim == "" {
			erros["dataFim"] = "Data de fim é obrigatória"
		} else if r.DataInicio != "" {
			if cmp, err := dateutil.CompareDatas(r.DataFim, r.DataInicio); err != nil {
				erros["dataFim"] = "Data de fim inválida"
			} else if cmp < 0 {
				erros["dataFim"] = "Data de fim deve ser maior que data de início"
			}
		}
	}

	r.Erros = erros
	return erros
}

// Envio é o bloco do visitante pronto para o gateway: DataFim resolvida e
// máscaras removidas.
type Envio struct {
	Tipo     Tipo
	Nome     string
	Email    string
	Telefone string
	CPF      string
	RG       string
	Empresa  string
	CNPJ     string

	Periodo    Periodo
	DataInicio string
	DataFim    string

	Autorizador  Autorizador
	AutorizadaEm time.Time
}

// PayloadDeEnvio resolve a janela (período único copia DataInicio para
// DataFim, nunca guarda separado) e devolve os campos numéricos só com
// dígitos. Assume que Validar já passou.
func (r *Rascunho) PayloadDeEnvio() Envio {
	dataFim := r.DataFim
	if r.Periodo == PeriodoUnico {
		dataFim = r.DataInicio
	}

	return Envio{
		Tipo:         r.Tipo,
		Nome:         strings.TrimSpace(r.Nome),
		Email:        strings.TrimSpace(r.Email),
		Telefone:     masks.RemoveMask(r.Telefone),
		CPF:          masks.RemoveMask(r.CPF),
		RG:           masks.RemoveMask(r.RG),
		Empresa:      strings.TrimSpace(r.Empresa),
		CNPJ:         masks.RemoveMask(r.CNPJ),
		Periodo:      r.Periodo,
		DataInicio:   r.DataInicio,
		DataFim:      dataFim,
		Autorizador:  r.Autorizador,
		AutorizadaEm: time.Now(),
	}
}
