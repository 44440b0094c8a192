package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/condominiosolar/portaria/internal/autorizacao"
)

func clienteDeTeste(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cli, err := New(Config{BaseURL: srv.URL, CondominioID: "SOLARITAC"})
	if err != nil {
		t.Fatal(err)
	}
	return cli, srv
}

func envioDeTeste() autorizacao.Envio {
	return autorizacao.Envio{
		Tipo:       autorizacao.TipoVisitante,
		Nome:       "Carlos Silva",
		Telefone:   "11999999999",
		CPF:        "12345678901",
		RG:         "123456789",
		Periodo:    autorizacao.PeriodoUnico,
		DataInicio: "2999-06-10",
		DataFim:    "2999-06-10",
		Autorizador: autorizacao.Autorizador{
			Nome:            "Maria Santos",
			Telefone:        "(11) 99999-9999",
			CodigoDaUnidade: "Bloco A - Ap 101",
		},
		AutorizadaEm: time.Now(),
	}
}

func TestCreateAutorizacao(t *testing.T) {
	var recebido map[string]any
	cli, _ := clienteDeTeste(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/autorizacoes" {
			t.Errorf("rota inesperada: %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		_ = json.NewDecoder(r.Body).Decode(&recebido)
		_ = json.NewEncoder(w).Encode(autorizacao.Autorizacao{
			ID:     "abc-123",
			Nome:   "Carlos Silva",
			Status: autorizacao.StatusAutorizado,
			Link:   "https://condominio.example/a/abc-123",
		})
	}))

	criada, err := cli.CreateAutorizacao(context.Background(), envioDeTeste())
	if err != nil {
		t.Fatal(err)
	}
	if criada.ID != "abc-123" {
		t.Errorf("ID = %q", criada.ID)
	}

	if recebido["condominioId"] != "SOLARITAC" {
		t.Errorf("condominioId = %v", recebido["condominioId"])
	}
	if recebido["status"] != "autorizado" {
		t.Errorf("status inicial = %v", recebido["status"])
	}
	if recebido["dataFim"] != "2999-06-10" {
		t.Errorf("dataFim = %v", recebido["dataFim"])
	}
	aut, ok := recebido["autorizador"].(map[string]any)
	if !ok || aut["unidade"] != "Bloco A - Ap 101" {
		t.Errorf("bloco autorizador = %v", recebido["autorizador"])
	}
	if recebido["email"] != nil {
		t.Errorf("email vazio deveria ir como null, veio %v", recebido["email"])
	}
}

func TestGetAutorizacaoNaoEncontrada(t *testing.T) {
	cli, _ := clienteDeTeste(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"não existe"}`, http.StatusNotFound)
	}))

	_, err := cli.GetAutorizacao(context.Background(), "nao-existe")
	if err == nil {
		t.Fatal("esperava erro")
	}
	if kind := KindDe(err); kind != KindNaoEncontrado {
		t.Errorf("Kind = %s, quer %s", kind, KindNaoEncontrado)
	}
}

func TestRegistrarEntradaConflito(t *testing.T) {
	cli, _ := clienteDeTeste(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "entrada já registrada"})
	}))

	_, err := cli.RegistrarEntrada(context.Background(), "abc-123", "doc-1", "Funcionário Portaria")
	if KindDe(err) != KindConflito {
		t.Errorf("Kind = %s, quer %s", KindDe(err), KindConflito)
	}
}

func TestUploadDocumentoRejeicoesLocais(t *testing.T) {
	chamadas := 0
	cli, _ := clienteDeTeste(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		chamadas++
	}))

	casos := []struct {
		nome string
		arq  Arquivo
	}{
		{"grande demais", Arquivo{Nome: "rg.png", MimeType: "image/png", Conteudo: make([]byte, (5<<20)+1)}},
		{"mime proibido", Arquivo{Nome: "rg.zip", MimeType: "application/zip", Conteudo: []byte("x")}},
		{"vazio", Arquivo{Nome: "rg.png", MimeType: "image/png"}},
	}
	for _, c := range casos {
		_, err := cli.UploadDocumento(context.Background(), c.arq, "abc-123")
		if KindDe(err) != KindValidacao {
			t.Errorf("%s: Kind = %s, quer %s", c.nome, KindDe(err), KindValidacao)
		}
	}
	if chamadas != 0 {
		t.Errorf("rejeição local não deveria ir à rede, houve %d chamadas", chamadas)
	}
}

func TestUploadDocumento(t *testing.T) {
	cli, _ := clienteDeTeste(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/documentos/upload" {
			t.Errorf("rota inesperada: %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(10 << 20); err != nil {
			t.Fatalf("multipart: %v", err)
		}
		if r.FormValue("autorizacaoId") != "abc-123" {
			t.Errorf("autorizacaoId = %q", r.FormValue("autorizacaoId"))
		}
		if r.FormValue("tipoDocumento") != "identificacao" {
			t.Errorf("tipoDocumento = %q", r.FormValue("tipoDocumento"))
		}
		if _, _, err := r.FormFile("arquivo"); err != nil {
			t.Errorf("campo arquivo ausente: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{
			"id":          "upload-1",
			"documentoId": "doc-55",
			"url":         "https://cdn.example/doc-55",
		})
	}))

	doc, err := cli.UploadDocumento(context.Background(), Arquivo{
		Nome:     "rg.png",
		MimeType: "image/png",
		Conteudo: []byte("conteudo-de-imagem"),
	}, "abc-123")
	if err != nil {
		t.Fatal(err)
	}
	if doc.DocumentoID != "doc-55" {
		t.Errorf("DocumentoID = %q", doc.DocumentoID)
	}
	if doc.Nome != "rg.png" || doc.TamanhoB == 0 {
		t.Errorf("metadados locais não preservados: %+v", doc)
	}
}

func TestListAutorizacoesByDate(t *testing.T) {
	cli, _ := clienteDeTeste(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("data") != "2999-06-10" {
			t.Errorf("query data = %q", r.URL.Query().Get("data"))
		}
		_ = json.NewEncoder(w).Encode([]autorizacao.Autorizacao{
			{ID: "a1", Status: autorizacao.StatusAutorizado},
			{ID: "a2", Status: autorizacao.StatusUtilizado},
		})
	}))

	lista, err := cli.ListAutorizacoesByDate(context.Background(), "2999-06-10")
	if err != nil {
		t.Fatal(err)
	}
	if len(lista) != 2 {
		t.Errorf("len = %d", len(lista))
	}
}

func TestCancelAutorizacao(t *testing.T) {
	var caminho string
	cli, _ := clienteDeTeste(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caminho = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))

	if err := cli.CancelAutorizacao(context.Background(), "abc-123"); err != nil {
		t.Fatal(err)
	}
	if caminho != "/autorizacoes/abc-123/cancelamento" {
		t.Errorf("caminho = %q", caminho)
	}
}

func TestErroDeTransporte(t *testing.T) {
	cli, srv := clienteDeTeste(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := cli.GetAutorizacao(context.Background(), "abc-123")
	if KindDe(err) != KindTransporte {
		t.Errorf("Kind = %s, quer %s", KindDe(err), KindTransporte)
	}
}

func TestErroDeServidor(t *testing.T) {
	cli, _ := clienteDeTeste(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := cli.ListAutorizacoesByDate(context.Background(), "2999-06-10")
	if KindDe(err) != KindServidor {
		t.Errorf("Kind = %s, quer %s", KindDe(err), KindServidor)
	}
}

func TestTokenPlaceholder(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
	}))
	defer srv.Close()

	cli, err := New(Config{BaseURL: srv.URL, CondominioID: "SOLARITAC", Token: "segredo"})
	if err != nil {
		t.Fatal(err)
	}
	_ = cli.Health(context.Background())
	if auth != "Bearer segredo" {
		t.Errorf("Authorization = %q", auth)
	}
}
