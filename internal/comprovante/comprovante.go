// Package comprovante monta o comprovante imprimível da autorização. A saída
// é HTML autocontido; rasterizar para PDF/PNG é problema de quem imprime.
package comprovante

import (
	"bytes"
	"html/template"

	"github.com/condominiosolar/portaria/internal/autorizacao"
	"github.com/condominiosolar/portaria/internal/dateutil"
	"github.com/condominiosolar/portaria/internal/masks"
	"github.com/condominiosolar/portaria/internal/qr"
)

var modelo = template.Must(template.New("comprovante").Parse(`<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="utf-8">
<title>Comprovante de Autorização</title>
<style>
body { font-family: Arial, sans-serif; margin: 0; padding: 20px; color: #000; background: white; }
.comprovante-container { max-width: 800px; margin: 0 auto; border: 2px solid #2c3e50; border-radius: 12px; padding: 25px; }
.comprovante-header { display: flex; justify-content: space-between; border-bottom: 3px solid #2c3e50; padding-bottom: 15px; margin-bottom: 20px; }
.comprovante-id { font-size: 12px; color: #7f8c8d; }
.comprovante-table td { padding: 6px 10px; border-bottom: 1px solid #ecf0f1; }
.qr-section { text-align: center; margin-top: 20px; }
.comprovante-footer { margin-top: 25px; font-size: 12px; color: #7f8c8d; text-align: center; }
</style>
</head>
<body>
<div class="comprovante-container">
  <div class="comprovante-header">
    <div>
      <h1>Autorização de Acesso</h1>
      <p>Sistema de Cadastro - Visitantes e Prestadores</p>
    </div>
    <div class="comprovante-id">ID: {{.ID}}</div>
  </div>
  <h2>Dados do Cadastro</h2>
  <table class="comprovante-table">
    <tr><td><strong>Nome:</strong></td><td>{{.Nome}}</td></tr>
    <tr><td><strong>Tipo:</strong></td><td>{{.TipoTexto}}</td></tr>
    {{if .Empresa}}<tr><td><strong>Empresa:</strong></td><td>{{.Empresa}}</td></tr>{{end}}
    <tr><td><strong>CPF:</strong></td><td>{{.CPF}}</td></tr>
    <tr><td><strong>RG:</strong></td><td>{{.RG}}</td></tr>
    {{if .CNPJ}}<tr><td><strong>CNPJ:</strong></td><td>{{.CNPJ}}</td></tr>{{end}}
    <tr><td><strong>Período:</strong></td><td>{{.PeriodoTexto}}</td></tr>
    <tr><td><strong>Autorizado por:</strong></td><td>{{.Autorizador}} ({{.Unidade}})</td></tr>
  </table>
  <div class="qr-section">
    <img src="{{.QRDataURI}}" alt="QR Code da autorização" width="220" height="220">
    <p>Apresente este código na portaria</p>
  </div>
  <div class="comprovante-footer">Documento gerado eletronicamente pelo sistema de portaria.</div>
</div>
</body>
</html>
`))

type dadosComprovante struct {
	ID           string
	Nome         string
	TipoTexto    string
	Empresa      string
	CPF          string
	RG           string
	CNPJ         string
	PeriodoTexto string
	Autorizador  string
	Unidade      string
	QRDataURI    template.URL
}

// Gerar renderiza o comprovante HTML com o QR embutido como data URI.
func Gerar(a *autorizacao.Autorizacao) ([]byte, error) {
	uri, err := qr.DataURI(qr.Encode(a), 220)
	if err != nil {
		return nil, err
	}

	tipoTexto := "Visitante"
	if a.Tipo == autorizacao.TipoPrestador {
		tipoTexto = "Prestador de Serviço"
	}

	periodoTexto := "Dia único: " + dateutil.FormatExibicao(a.DataInicio)
	if a.Periodo == autorizacao.PeriodoIntervalo {
		periodoTexto = "De " + dateutil.FormatExibicao(a.DataInicio) + " até " + dateutil.FormatExibicao(a.DataFim)
	}

	var buf bytes.Buffer
	err = modelo.Execute(&buf, dadosComprovante{
		ID:           a.ID,
		Nome:         a.Nome,
		TipoTexto:    tipoTexto,
		Empresa:      a.Empresa,
		CPF:          masks.FormatCPF(a.CPF),
		RG:           masks.FormatRG(a.RG),
		CNPJ:         masks.FormatCNPJ(a.CNPJ),
		PeriodoTexto: periodoTexto,
		Autorizador:  a.Autorizador.Nome,
		Unidade:      a.Autorizador.CodigoDaUnidade,
		QRDataURI:    template.URL(uri),
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
