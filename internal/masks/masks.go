// Package masks concentra as máscaras de campos usadas no cadastro de
// visitantes e prestadores. Todas as funções são puras e totais: entrada
// vazia devolve string vazia, nunca há panic.
package masks

import "strings"

// TipoDocumento identifica o documento detectado pela contagem de dígitos.
type TipoDocumento string

const (
	TipoCPF TipoDocumento = "CPF"
	TipoRG  TipoDocumento = "RG"
)

// RemoveMask devolve apenas os dígitos da entrada.
func RemoveMask(valor string) string {
	if valor == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(valor))
	for i := 0; i < len(valor); i++ {
		if valor[i] >= '0' && valor[i] <= '9' {
			b.WriteByte(valor[i])
		}
	}
	return b.String()
}

// MaskTelefone formata progressivamente telefones de 10 ou 11 dígitos:
// (DD) DDDD-DDDD ou (DD) DDDDD-DDDD. Dígitos além de 11 são descartados.
func MaskTelefone(valor string) string {
	d := RemoveMask(valor)
	if d == "" {
		return ""
	}
	if len(d) > 11 {
		d = d[:11]
	}
	if len(d) <= 2 {
		return d
	}

	resto := d[2:]
	corte := 4
	if len(d) == 11 {
		corte = 5
	}
	if len(resto) <= corte {
		return "(" + d[:2] + ") " + resto
	}
	return "(" + d[:2] + ") " + resto[:corte] + "-" + resto[corte:]
}

// MaskCPF insere separadores nas posições 3, 6 e 9, limitado a 11 dígitos.
func MaskCPF(valor string) string {
	d := RemoveMask(valor)
	if len(d) > 11 {
		d = d[:11]
	}
	switch {
	case len(d) <= 3:
		return d
	case len(d) <= 6:
		return d[:3] + "." + d[3:]
	case len(d) <= 9:
		return d[:3] + "." + d[3:6] + "." + d[6:]
	default:
		return d[:3] + "." + d[3:6] + "." + d[6:9] + "-" + d[9:]
	}
}

// MaskCNPJ insere separadores nas posições 2, 5, 8 e 12, limitado a 14 dígitos.
func MaskCNPJ(valor string) string {
	d := RemoveMask(valor)
	if len(d) > 14 {
		d = d[:14]
	}
	switch {
	case len(d) <= 2:
		return d
	case len(d) <= 5:
		return d[:2] + "." + d[2:]
	case len(d) <= 8:
		return d[:2] + "." + d[2:5] + "." + d[5:]
	case len(d) <= 12:
		return d[:2] + "." + d[2:5] + "." + d[5:8] + "/" + d[8:]
	default:
		return d[:2] + "." + d[2:5] + "." + d[5:8] + "/" + d[8:12] + "-" + d[12:]
	}
}

// MaskRG aplica máscara flexível para RGs de 5 a 10 dígitos, agrupando em
// blocos de três conforme o valor cresce. Diferente do CPF/CNPJ, não assume
// comprimento total fixo.
func MaskRG(valor string) string {
	d := RemoveMask(valor)
	if len(d) > 10 {
		d = d[:10]
	}
	switch {
	case len(d) <= 3:
		return d
	case len(d) <= 6:
		return d[:3] + "." + d[3:]
	case len(d) <= 9:
		return d[:3] + "." + d[3:6] + "." + d[6:]
	default:
		return d[:3] + "." + d[3:6] + "." + d[6:9] + "-" + d[9:]
	}
}

// MaskDocumento escolhe a máscara pelo total de dígitos: até 11 trata como
// CPF, acima disso como RG.
func MaskDocumento(valor string) string {
	if len(RemoveMask(valor)) <= 11 {
		return MaskCPF(valor)
	}
	return MaskRG(valor)
}

// DetectTipoDocumento classifica pela contagem de dígitos. Heurística: um RG
// de exatamente 11 dígitos seria classificado como CPF, por isso o cadastro
// também carrega o tipo escolhido pelo usuário.
func DetectTipoDocumento(valor string) TipoDocumento {
	if len(RemoveMask(valor)) <= 11 {
		return TipoCPF
	}
	return TipoRG
}

// FormatCPF devolve a forma canônica XXX.XXX.XXX-XX. Entrada com contagem de
// dígitos diferente de 11 é devolvida como veio.
func FormatCPF(valor string) string {
	if valor == "" {
		return ""
	}
	d := RemoveMask(valor)
	if len(d) != 11 {
		return valor
	}
	return d[:3] + "." + d[3:6] + "." + d[6:9] + "-" + d[9:]
}

// FormatCNPJ devolve a forma canônica XX.XXX.XXX/XXXX-XX para 14 dígitos.
func FormatCNPJ(valor string) string {
	if valor == "" {
		return ""
	}
	d := RemoveMask(valor)
	if len(d) != 14 {
		return valor
	}
	return d[:2] + "." + d[2:5] + "." + d[5:8] + "/" + d[8:12] + "-" + d[12:]
}

// FormatRG agrupa os dígitos do RG na forma de exibição, sem exigir
// comprimento fixo.
func FormatRG(valor string) string {
	if valor == "" {
		return ""
	}
	return MaskRG(valor)
}

// FormatTelefone devolve (DD) DDDD-DDDD ou (DD) DDDDD-DDDD para entradas de
// 10 ou 11 dígitos; qualquer outro comprimento é devolvido como veio.
func FormatTelefone(valor string) string {
	if valor == "" {
		return ""
	}
	d := RemoveMask(valor)
	switch len(d) {
	case 10:
		return "(" + d[:2] + ") " + d[2:6] + "-" + d[6:]
	case 11:
		return "(" + d[:2] + ") " + d[2:7] + "-" + d[7:]
	default:
		return valor
	}
}

// FormatDocumento detecta CPF (11 dígitos) ou CNPJ (14) e formata; qualquer
// outro comprimento é devolvido como veio.
func FormatDocumento(valor string) string {
	if valor == "" {
		return ""
	}
	switch len(RemoveMask(valor)) {
	case 11:
		return FormatCPF(valor)
	case 14:
		return FormatCNPJ(valor)
	default:
		return valor
	}
}
