// Package qr deriva o conteúdo canônico do QR Code de uma autorização e
// extrai o identificador de volta na portaria.
package qr

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/condominiosolar/portaria/internal/autorizacao"
)

const imageServiceBase = "https://api.qrserver.com/v1/create-qr-code/"

// identificadores opacos no fim de uma URL (UUIDs e afins)
var idFinalRe = regexp.MustCompile(`/([a-fA-F0-9-]+)$`)

// Encode devolve a string gravada no QR. O link canônico emitido pelo
// servidor tem precedência e vai como está: é exatamente o que o decodificador
// da portaria espera. Sem link, vai o identificador puro. O snapshot JSON é
// último recurso e não serve para nova consulta ao vivo.
func Encode(a *autorizacao.Autorizacao) string {
	if a == nil {
		return ""
	}
	if a.Link != "" {
		return a.Link
	}
	if a.ID != "" {
		return a.ID
	}

	snapshot, err := json.Marshal(map[string]any{
		"id":         a.ID,
		"nome":       a.Nome,
		"tipo":       a.Tipo,
		"periodo":    a.Periodo,
		"dataInicio": a.DataInicio,
		"dataFim":    a.DataFim,
	})
	if err != nil {
		return ""
	}
	return string(snapshot)
}

// DecodeIdentifier extrai o identificador de uma leitura de QR ou digitação
// manual. Entrada com cara de URL tem o último segmento capturado; qualquer
// outra coisa é tratada como o próprio identificador.
func DecodeIdentifier(valor string) string {
	valor = strings.TrimSpace(valor)
	if m := idFinalRe.FindStringSubmatch(valor); m != nil {
		return m[1]
	}
	return valor
}

// ImageURL monta a URL do serviço externo de imagem de QR para o payload.
func ImageURL(payload string, tamanho int) string {
	if tamanho <= 0 {
		tamanho = 300
	}
	q := url.Values{}
	q.Set("size", fmt.Sprintf("%dx%d", tamanho, tamanho))
	q.Set("data", payload)
	return imageServiceBase + "?" + q.Encode()
}

// PNG renderiza o QR localmente, para o comprovante imprimível.
func PNG(payload string, tamanho int) ([]byte, error) {
	if tamanho <= 0 {
		tamanho = 300
	}
	return qrcode.Encode(payload, qrcode.Medium, tamanho)
}

// DataURI devolve o PNG embutível em um atributo src de imagem.
func DataURI(payload string, tamanho int) (string, error) {
	png, err := PNG(payload, tamanho)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
