// Package gateway encapsula as chamadas à API REST do condomínio. Toda falha
// sai normalizada na taxonomia de Erro, com timeout fixo por operação (10s
// nas chamadas comuns, 30s em uploads).
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/condominiosolar/portaria/internal/autorizacao"
)

const (
	defaultTimeout       = 10 * time.Second
	defaultUploadTimeout = 30 * time.Second

	// limite aceito pelo backend para documentos de identificação
	maxDocumentoBytes = 5 << 20
)

var chamadasGateway = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "portaria",
		Subsystem: "gateway",
		Name:      "chamadas_total",
		Help:      "Total de chamadas ao backend do condomínio por operação e resultado",
	},
	[]string{"operacao", "resultado"},
)

func init() {
	if err := prometheus.Register(chamadasGateway); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			panic(err)
		}
	}
}

// Config descreve o necessário para falar com o backend.
type Config struct {
	BaseURL      string
	CondominioID string
	// Token de autenticação; hoje apenas reservado, o backend ainda não exige.
	Token         string
	Timeout       time.Duration
	UploadTimeout time.Duration
	HTTPClient    *http.Client
}

// Client é o cliente tipado da API de autorizações.
type Client struct {
	baseURL      string
	condominioID string
	token        string
	httpClient   *http.Client
	uploadClient *http.Client
}

// New valida a configuração e devolve o cliente pronto.
func New(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("gateway: base URL obrigatória")
	}
	if strings.TrimSpace(cfg.CondominioID) == "" {
		return nil, errors.New("gateway: id do condomínio obrigatório")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	uploadTimeout := cfg.UploadTimeout
	if uploadTimeout <= 0 {
		uploadTimeout = defaultUploadTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL:      base,
		condominioID: cfg.CondominioID,
		token:        strings.TrimSpace(cfg.Token),
		httpClient:   httpClient,
		uploadClient: &http.Client{Timeout: uploadTimeout},
	}, nil
}

// Arquivo é o conteúdo de um documento de identificação a enviar.
type Arquivo struct {
	Nome     string
	MimeType string
	Conteudo []byte
}

// ResultadoEntrada é a resposta do backend ao registro de entrada.
type ResultadoEntrada struct {
	AutorizacaoID   string             `json:"autorizacaoId"`
	Status          autorizacao.Status `json:"status"`
	DataHoraEntrada time.Time          `json:"dataHoraEntrada"`
}

// CreateAutorizacao envia o cadastro validado e devolve o registro criado.
func (c *Client) CreateAutorizacao(ctx context.Context, envio autorizacao.Envio) (*autorizacao.Autorizacao, error) {
	payload := montarCriacao(c.condominioID, envio)

	var criada autorizacao.Autorizacao
	if err := c.doJSON(ctx, http.MethodPost, "/autorizacoes", payload, &criada, "criar autorização"); err != nil {
		return nil, err
	}
	return &criada, nil
}

// GetAutorizacao busca um registro pelo identificador.
func (c *Client) GetAutorizacao(ctx context.Context, id string) (*autorizacao.Autorizacao, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, erroValidacao("identificador da autorização obrigatório")
	}

	var reg autorizacao.Autorizacao
	if err := c.doJSON(ctx, http.MethodGet, "/autorizacoes/"+url.PathEscape(id), nil, &reg, "buscar autorização"); err != nil {
		return nil, err
	}
	return &reg, nil
}

// UploadDocumento envia o arquivo por multipart. Rejeita localmente, antes da
// rede, arquivo acima de 5 MiB ou MIME fora de image/* e application/pdf.
func (c *Client) UploadDocumento(ctx context.Context, arq Arquivo, autorizacaoID string) (*autorizacao.DocumentoEnviado, error) {
	const operacao = "enviar documento"

	if strings.TrimSpace(autorizacaoID) == "" {
		return nil, erroValidacao("identificador da autorização obrigatório")
	}
	if len(arq.Conteudo) == 0 {
		return nil, erroValidacao("arquivo vazio")
	}
	if int64(len(arq.Conteudo)) > maxDocumentoBytes {
		return nil, erroValidacao("arquivo muito grande, máximo 5MB")
	}
	if !strings.HasPrefix(arq.MimeType, "image/") && arq.MimeType != "application/pdf" {
		return nil, erroValidacao("apenas imagens e PDFs são permitidos")
	}

	var corpo bytes.Buffer
	mw := multipart.NewWriter(&corpo)

	parte, err := mw.CreateFormFile("arquivo", arq.Nome)
	if err != nil {
		return nil, erroTransporte(operacao, err)
	}
	if _, err := parte.Write(arq.Conteudo); err != nil {
		return nil, erroTransporte(operacao, err)
	}
	if err := mw.WriteField("autorizacaoId", autorizacaoID); err != nil {
		return nil, erroTransporte(operacao, err)
	}
	if err := mw.WriteField("tipoDocumento", "identificacao"); err != nil {
		return nil, erroTransporte(operacao, err)
	}
	if err := mw.Close(); err != nil {
		return nil, erroTransporte(operacao, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/documentos/upload", &corpo)
	if err != nil {
		return nil, erroTransporte(operacao, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	c.autenticar(req)

	var doc autorizacao.DocumentoEnviado
	if err := c.executar(c.uploadClient, req, &doc, operacao); err != nil {
		return nil, err
	}
	doc.Nome = arq.Nome
	doc.MimeType = arq.MimeType
	doc.TamanhoB = int64(len(arq.Conteudo))
	return &doc, nil
}

// RegistrarEntrada informa o check-in ao backend. O fluxo da portaria garante
// que ao menos um documento foi enviado antes de chegar aqui.
func (c *Client) RegistrarEntrada(ctx context.Context, autorizacaoID, documentoID, portariaResponsavel string) (*ResultadoEntrada, error) {
	if strings.TrimSpace(autorizacaoID) == "" {
		return nil, erroValidacao("identificador da autorização obrigatório")
	}
	if strings.TrimSpace(documentoID) == "" {
		return nil, erroValidacao("documento de identificação obrigatório")
	}

	payload := payloadEntrada{
		AutorizacaoID:       autorizacaoID,
		PortariaResponsavel: portariaResponsavel,
		DocumentoID:         documentoID,
		DataHoraEntrada:     time.Now().Format(time.RFC3339),
	}

	var resultado ResultadoEntrada
	caminho := "/autorizacoes/" + url.PathEscape(autorizacaoID) + "/checkin"
	if err := c.doJSON(ctx, http.MethodPost, caminho, payload, &resultado, "registrar entrada"); err != nil {
		return nil, err
	}
	return &resultado, nil
}

// ListAutorizacoesByDate busca as autorizações do dia (YYYY-MM-DD).
func (c *Client) ListAutorizacoesByDate(ctx context.Context, data string) ([]autorizacao.Autorizacao, error) {
	if strings.TrimSpace(data) == "" {
		return nil, erroValidacao("data obrigatória")
	}

	q := url.Values{}
	q.Set("data", data)

	var lista []autorizacao.Autorizacao
	if err := c.doJSON(ctx, http.MethodGet, "/autorizacoes?"+q.Encode(), nil, &lista, "listar autorizações"); err != nil {
		return nil, err
	}
	return lista, nil
}

// CancelAutorizacao transiciona o registro para Cancelado.
func (c *Client) CancelAutorizacao(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return erroValidacao("identificador da autorização obrigatório")
	}
	caminho := "/autorizacoes/" + url.PathEscape(id) + "/cancelamento"
	return c.doJSON(ctx, http.MethodPost, caminho, nil, nil, "cancelar autorização")
}

// Health confere a disponibilidade do backend.
func (c *Client) Health(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodGet, "/health", nil, nil, "verificar conexão")
}

func (c *Client) autenticar(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

func (c *Client) doJSON(ctx context.Context, metodo, caminho string, corpo, destino any, operacao string) error {
	var reader io.Reader
	if corpo != nil {
		payload, err := json.Marshal(corpo)
		if err != nil {
			return erroTransporte(operacao, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, metodo, c.baseURL+caminho, reader)
	if err != nil {
		return erroTransporte(operacao, err)
	}
	if corpo != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.autenticar(req)

	return c.executar(c.httpClient, req, destino, operacao)
}

func (c *Client) executar(cliente *http.Client, req *http.Request, destino any, operacao string) error {
	resp, err := cliente.Do(req)
	if err != nil {
		chamadasGateway.WithLabelValues(operacao, "transporte").Inc()
		return erroTransporte(operacao, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		chamadasGateway.WithLabelValues(operacao, fmt.Sprintf("%d", resp.StatusCode)).Inc()

		var corpoErro struct {
			Message string `json:"message"`
		}
		bruto, _ := io.ReadAll(io.LimitReader(resp.Body, 8192))
		_ = json.Unmarshal(bruto, &corpoErro)

		normalizado := normalizar(resp.StatusCode, corpoErro.Message, operacao, nil)
		log.Warn().
			Str("operacao", operacao).
			Int("status", resp.StatusCode).
			Str("kind", string(normalizado.Kind)).
			Msg("falha no backend do condomínio")
		return normalizado
	}

	chamadasGateway.WithLabelValues(operacao, "ok").Inc()

	if destino == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(destino); err != nil {
		return &Erro{Kind: KindServidor, Message: "resposta ilegível ao " + operacao, Status: resp.StatusCode}
	}
	return nil
}
