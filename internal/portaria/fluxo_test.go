package portaria

import (
	"context"
	"testing"

	"github.com/condominiosolar/portaria/internal/autorizacao"
	"github.com/condominiosolar/portaria/internal/gateway"
)

type stubAPI struct {
	registro     *autorizacao.Autorizacao
	getErr       error
	uploadDoc    *autorizacao.DocumentoEnviado
	uploadErr    error
	entradaErr   error
	gets         int
	uploads      int
	entradas     int
	ultimoGetID  string
	ultimoDocID  string
	ultimoOperad string
}

func (s *stubAPI) GetAutorizacao(ctx context.Context, id string) (*autorizacao.Autorizacao, error) {
	s.gets++
	s.ultimoGetID = id
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.registro, nil
}

func (s *stubAPI) UploadDocumento(ctx context.Context, arq gateway.Arquivo, autorizacaoID string) (*autorizacao.DocumentoEnviado, error) {
	s.uploads++
	if s.uploadErr != nil {
		return nil, s.uploadErr
	}
	doc := *s.uploadDoc
	return &doc, nil
}

func (s *stubAPI) RegistrarEntrada(ctx context.Context, autorizacaoID, documentoID, responsavel string) (*gateway.ResultadoEntrada, error) {
	s.entradas++
	s.ultimoDocID = documentoID
	s.ultimoOperad = responsavel
	if s.entradaErr != nil {
		return nil, s.entradaErr
	}
	return &gateway.ResultadoEntrada{AutorizacaoID: autorizacaoID, Status: autorizacao.StatusUtilizado}, nil
}

func registroValido() *autorizacao.Autorizacao {
	return &autorizacao.Autorizacao{
		ID:     "9f1b2c3d-0000-1111-2222-333344445555",
		Nome:   "Carlos Silva",
		Tipo:   autorizacao.TipoVisitante,
		Status: autorizacao.StatusAutorizado,
	}
}

func TestBuscarComLinkDecodificaID(t *testing.T) {
	api := &stubAPI{registro: registroValido()}
	f := NovoFluxo(api, "Portaria Norte")

	err := f.Buscar(context.Background(), "https://condominio.example/a/9f1b2c3d-0000-1111-2222-333344445555")
	if err != nil {
		t.Fatal(err)
	}
	if api.ultimoGetID != "9f1b2c3d-0000-1111-2222-333344445555" {
		t.Errorf("id consultado = %q", api.ultimoGetID)
	}
	if s := f.Situacao(); s.Estado != EstadoConferencia || s.Autorizacao == nil {
		t.Errorf("fluxo deveria estar em conferência, veio %+v", s)
	}
}

func TestBuscarNaoEncontradaVoltaAoOcioso(t *testing.T) {
	api := &stubAPI{getErr: &gateway.Erro{Kind: gateway.KindNaoEncontrado, Status: 404}}
	f := NovoFluxo(api, "")

	if err := f.Buscar(context.Background(), "nao-existe"); err == nil {
		t.Fatal("esperava erro")
	}

	s := f.Situacao()
	if s.Estado != EstadoOcioso || s.Autorizacao != nil {
		t.Errorf("falha de busca deveria limpar o registro, veio %+v", s)
	}
	if s.Erro == "" {
		t.Error("mensagem de erro deveria estar presente")
	}

	// nova leitura com outro id funciona sem estado vazado
	api.getErr = nil
	api.registro = registroValido()
	if err := f.Buscar(context.Background(), registroValido().ID); err != nil {
		t.Fatal(err)
	}
	if s := f.Situacao(); s.Estado != EstadoConferencia || s.Erro != "" {
		t.Errorf("segunda busca deveria limpar o erro anterior, veio %+v", s)
	}
}

func TestLeituraDuranteConferenciaIgnorada(t *testing.T) {
	api := &stubAPI{registro: registroValido()}
	f := NovoFluxo(api, "")

	_ = f.Buscar(context.Background(), registroValido().ID)
	_ = f.Buscar(context.Background(), "outra-leitura")

	if api.gets != 1 {
		t.Errorf("segunda leitura deveria ser ignorada, houve %d consultas", api.gets)
	}
}

func TestRegistrarEntradaSemDocumentoRecusaLocal(t *testing.T) {
	api := &stubAPI{registro: registroValido()}
	f := NovoFluxo(api, "")
	_ = f.Buscar(context.Background(), registroValido().ID)

	err := f.RegistrarEntrada(context.Background())
	if gateway.KindDe(err) != gateway.KindValidacao {
		t.Errorf("Kind = %s, quer %s", gateway.KindDe(err), gateway.KindValidacao)
	}
	if api.entradas != 0 {
		t.Errorf("recusa local não deveria ir à rede, houve %d chamadas", api.entradas)
	}
	if s := f.Situacao(); s.Estado != EstadoConferencia {
		t.Errorf("fluxo deveria permanecer em conferência, veio %s", s.Estado)
	}
}

func TestCicloCompletoDeEntrada(t *testing.T) {
	api := &stubAPI{
		registro:  registroValido(),
		uploadDoc: &autorizacao.DocumentoEnviado{ID: "up-1", DocumentoID: "doc-55"},
	}
	f := NovoFluxo(api, "Portaria Norte")

	_ = f.Buscar(context.Background(), registroValido().ID)

	if _, err := f.EnviarDocumento(context.Background(), gateway.Arquivo{Nome: "rg.png", MimeType: "image/png", Conteudo: []byte("x")}); err != nil {
		t.Fatal(err)
	}
	if err := f.RegistrarEntrada(context.Background()); err != nil {
		t.Fatal(err)
	}

	if api.ultimoDocID != "doc-55" {
		t.Errorf("documentoId enviado = %q", api.ultimoDocID)
	}
	if api.ultimoOperad != "Portaria Norte" {
		t.Errorf("responsável = %q", api.ultimoOperad)
	}
	if s := f.Situacao(); s.Estado != EstadoConfirmado {
		t.Errorf("estado = %s, quer %s", s.Estado, EstadoConfirmado)
	}

	f.Confirmar()
	if s := f.Situacao(); s.Estado != EstadoOcioso || len(s.Documentos) != 0 {
		t.Errorf("confirmação deveria voltar ao ocioso limpo, veio %+v", s)
	}
}

func TestFalhaNoCheckinRetemDocumentos(t *testing.T) {
	api := &stubAPI{
		registro:   registroValido(),
		uploadDoc:  &autorizacao.DocumentoEnviado{ID: "up-1", DocumentoID: "doc-55"},
		entradaErr: &gateway.Erro{Kind: gateway.KindConflito, Status: 409},
	}
	f := NovoFluxo(api, "")

	_ = f.Buscar(context.Background(), registroValido().ID)
	_, _ = f.EnviarDocumento(context.Background(), gateway.Arquivo{Nome: "rg.png", MimeType: "image/png", Conteudo: []byte("x")})

	if err := f.RegistrarEntrada(context.Background()); err == nil {
		t.Fatal("esperava erro")
	}

	s := f.Situacao()
	if s.Estado != EstadoConferencia {
		t.Errorf("estado = %s, quer conferência", s.Estado)
	}
	if len(s.Documentos) != 1 {
		t.Errorf("documentos deveriam ficar retidos, veio %d", len(s.Documentos))
	}
}

func TestFalhaDeUploadNaoAfetaAnteriores(t *testing.T) {
	api := &stubAPI{
		registro:  registroValido(),
		uploadDoc: &autorizacao.DocumentoEnviado{ID: "up-1", DocumentoID: "doc-55"},
	}
	f := NovoFluxo(api, "")
	_ = f.Buscar(context.Background(), registroValido().ID)
	_, _ = f.EnviarDocumento(context.Background(), gateway.Arquivo{Nome: "rg.png", MimeType: "image/png", Conteudo: []byte("x")})

	api.uploadErr = &gateway.Erro{Kind: gateway.KindServidor, Status: 500}
	if _, err := f.EnviarDocumento(context.Background(), gateway.Arquivo{Nome: "cnh.png", MimeType: "image/png", Conteudo: []byte("y")}); err == nil {
		t.Fatal("esperava erro")
	}

	if s := f.Situacao(); len(s.Documentos) != 1 {
		t.Errorf("upload com falha não deveria mexer nos aceitos, veio %d", len(s.Documentos))
	}
}

func TestReiniciarDescartaTudo(t *testing.T) {
	api := &stubAPI{
		registro:  registroValido(),
		uploadDoc: &autorizacao.DocumentoEnviado{ID: "up-1", DocumentoID: "doc-55"},
	}
	f := NovoFluxo(api, "")
	_ = f.Buscar(context.Background(), registroValido().ID)
	_, _ = f.EnviarDocumento(context.Background(), gateway.Arquivo{Nome: "rg.png", MimeType: "image/png", Conteudo: []byte("x")})

	f.Reiniciar()

	s := f.Situacao()
	if s.Estado != EstadoOcioso || s.Autorizacao != nil || len(s.Documentos) != 0 {
		t.Errorf("reinício deveria descartar registro e documentos, veio %+v", s)
	}
}

func TestRemoverDocumento(t *testing.T) {
	api := &stubAPI{
		registro:  registroValido(),
		uploadDoc: &autorizacao.DocumentoEnviado{ID: "up-1", DocumentoID: "doc-55"},
	}
	f := NovoFluxo(api, "")
	_ = f.Buscar(context.Background(), registroValido().ID)
	doc, _ := f.EnviarDocumento(context.Background(), gateway.Arquivo{Nome: "rg.png", MimeType: "image/png", Conteudo: []byte("x")})

	f.RemoverDocumento(doc.ID)
	if s := f.Situacao(); len(s.Documentos) != 0 {
		t.Errorf("documento deveria ter sido removido, veio %d", len(s.Documentos))
	}
}
