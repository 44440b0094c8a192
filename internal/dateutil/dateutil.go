// Package dateutil trata datas sempre no calendário local. Converter via UTC
// (time.Parse de "2006-01-02" devolve UTC) desloca o dia perto da meia-noite
// em fusos como America/Sao_Paulo, então toda data que cruza a fronteira
// formulário/API passa por aqui.
package dateutil

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrDataInvalida indica formato ou calendário inválido.
var ErrDataInvalida = errors.New("data inválida, use o formato YYYY-MM-DD")

// ParseLocalDate converte "YYYY-MM-DD" para meia-noite no fuso local.
func ParseLocalDate(valor string) (time.Time, error) {
	partes := strings.Split(strings.TrimSpace(valor), "-")
	if len(partes) != 3 {
		return time.Time{}, ErrDataInvalida
	}

	ano, err := strconv.Atoi(partes[0])
	if err != nil {
		return time.Time{}, ErrDataInvalida
	}
	mes, err := strconv.Atoi(partes[1])
	if err != nil {
		return time.Time{}, ErrDataInvalida
	}
	dia, err := strconv.Atoi(partes[2])
	if err != nil {
		return time.Time{}, ErrDataInvalida
	}

	data := time.Date(ano, time.Month(mes), dia, 0, 0, 0, 0, time.Local)
	// time.Date normaliza 2025-02-31 para março; rejeita o que não round-tripa.
	if data.Year() != ano || data.Month() != time.Month(mes) || data.Day() != dia {
		return time.Time{}, ErrDataInvalida
	}
	return data, nil
}

// Hoje devolve a meia-noite de hoje no fuso local.
func Hoje() time.Time {
	agora := time.Now()
	return time.Date(agora.Year(), agora.Month(), agora.Day(), 0, 0, 0, 0, time.Local)
}

// HojeISO devolve hoje como "YYYY-MM-DD" montado a partir dos componentes
// locais, nunca via conversão UTC.
func HojeISO() string {
	agora := time.Now()
	return fmt.Sprintf("%04d-%02d-%02d", agora.Year(), int(agora.Month()), agora.Day())
}

// DataValida aceita apenas datas de hoje em diante.
func DataValida(valor string) bool {
	data, err := ParseLocalDate(valor)
	if err != nil {
		return false
	}
	return !data.Before(Hoje())
}

// CompareDatas compara duas datas "YYYY-MM-DD": -1 se a < b, 0 se iguais,
// 1 se a > b.
func CompareDatas(a, b string) (int, error) {
	da, err := ParseLocalDate(a)
	if err != nil {
		return 0, err
	}
	db, err := ParseLocalDate(b)
	if err != nil {
		return 0, err
	}
	switch {
	case da.Before(db):
		return -1, nil
	case da.After(db):
		return 1, nil
	default:
		return 0, nil
	}
}

// FormatExibicao converte "YYYY-MM-DD" para "DD/MM/YYYY". Entrada que não
// parseia volta como veio.
func FormatExibicao(valor string) string {
	data, err := ParseLocalDate(valor)
	if err != nil {
		return valor
	}
	return fmt.Sprintf("%02d/%02d/%04d", data.Day(), int(data.Month()), data.Year())
}

// DiasEntre devolve a diferença em dias de calendário entre início e fim.
func DiasEntre(inicio, fim string) (int, error) {
	di, err := ParseLocalDate(inicio)
	if err != nil {
		return 0, err
	}
	df, err := ParseLocalDate(fim)
	if err != nil {
		return 0, err
	}
	return int(df.Sub(di).Hours() / 24), nil
}
