// Package portaria implementa o fluxo do posto de entrada: ler ou digitar a
// autorização, conferir os dados, anexar documento de identificação e
// registrar a entrada. Há no máximo uma autorização ativa por fluxo.
package portaria

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/condominiosolar/portaria/internal/autorizacao"
	"github.com/condominiosolar/portaria/internal/gateway"
	"github.com/condominiosolar/portaria/internal/qr"
)

// API é o recorte do gateway que o fluxo consome.
type API interface {
	GetAutorizacao(ctx context.Context, id string) (*autorizacao.Autorizacao, error)
	UploadDocumento(ctx context.Context, arq gateway.Arquivo, autorizacaoID string) (*autorizacao.DocumentoEnviado, error)
	RegistrarEntrada(ctx context.Context, autorizacaoID, documentoID, portariaResponsavel string) (*gateway.ResultadoEntrada, error)
}

// Estado do fluxo da portaria.
type Estado string

const (
	EstadoOcioso      Estado = "ocioso"
	EstadoBuscando    Estado = "buscando"
	EstadoConferencia Estado = "conferencia"
	EstadoRegistrando Estado = "registrando"
	EstadoConfirmado  Estado = "confirmado"
)

// Fluxo mantém o estado de uma tentativa de entrada.
type Fluxo struct {
	api         API
	responsavel string

	mu          sync.Mutex
	estado      Estado
	geracao     uint64
	autorizacao *autorizacao.Autorizacao
	documentos  []autorizacao.DocumentoEnviado
	erro        string
	sucesso     string
}

// Situacao é o retrato do fluxo devolvido à camada de apresentação.
type Situacao struct {
	Estado      Estado                          `json:"estado"`
	Autorizacao *autorizacao.Autorizacao        `json:"autorizacao,omitempty"`
	Documentos  []autorizacao.DocumentoEnviado  `json:"documentos"`
	Erro        string                          `json:"erro,omitempty"`
	Sucesso     string                          `json:"sucesso,omitempty"`
}

// NovoFluxo cria um fluxo ocioso operado por responsavel.
func NovoFluxo(api API, responsavel string) *Fluxo {
	if responsavel == "" {
		responsavel = "Funcionário Portaria"
	}
	return &Fluxo{api: api, responsavel: responsavel, estado: EstadoOcioso}
}

// Situacao devolve uma cópia consistente do estado atual.
func (f *Fluxo) Situacao() Situacao {
	f.mu.Lock()
	defer f.mu.Unlock()

	docs := make([]autorizacao.DocumentoEnviado, len(f.documentos))
	copy(docs, f.documentos)

	return Situacao{
		Estado:      f.estado,
		Autorizacao: f.autorizacao,
		Documentos:  docs,
		Erro:        f.erro,
		Sucesso:     f.sucesso,
	}
}

// Buscar decodifica a leitura do QR (ou digitação manual) e consulta a
// autorização. Uma leitura que chega com consulta em andamento ou registro já
// carregado é ignorada: no máximo uma busca em voo por fluxo.
func (f *Fluxo) Buscar(ctx context.Context, leitura string) error {
	f.mu.Lock()
	if f.estado != EstadoOcioso || f.autorizacao != nil {
		f.mu.Unlock()
		return nil
	}
	f.estado = EstadoBuscando
	f.erro = ""
	f.sucesso = ""
	geracao := f.geracao
	f.mu.Unlock()

	id := qr.DecodeIdentifier(leitura)
	registro, err := f.api.GetAutorizacao(ctx, id)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.geracao != geracao {
		// o operador reiniciou no meio; resposta tardia é descartada
		return nil
	}

	if err != nil {
		f.estado = EstadoOcioso
		f.autorizacao = nil
		f.erro = "Autorização não encontrada ou inválida"
		log.Warn().Str("id", id).Err(err).Msg("consulta de autorização falhou")
		return err
	}

	f.autorizacao = registro
	f.estado = EstadoConferencia
	f.sucesso = "Autorização encontrada! Verifique os dados abaixo."
	return nil
}

// EnviarDocumento anexa um documento de identificação à tentativa corrente.
// Falha de um arquivo não afeta os já aceitos.
func (f *Fluxo) EnviarDocumento(ctx context.Context, arq gateway.Arquivo) (*autorizacao.DocumentoEnviado, error) {
	f.mu.Lock()
	if f.estado != EstadoConferencia || f.autorizacao == nil {
		f.mu.Unlock()
		return nil, &gateway.Erro{Kind: gateway.KindValidacao, Message: "nenhuma autorização em conferência"}
	}
	autorizacaoID := f.autorizacao.ID
	geracao := f.geracao
	f.mu.Unlock()

	doc, err := f.api.UploadDocumento(ctx, arq, autorizacaoID)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.geracao != geracao {
		return nil, nil
	}

	if err != nil {
		f.erro = "Falha no envio de " + arq.Nome
		return nil, err
	}

	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	f.documentos = append(f.documentos, *doc)
	f.erro = ""
	f.sucesso = "Documento enviado com sucesso!"
	return doc, nil
}

// RemoverDocumento descarta um documento já aceito desta tentativa.
func (f *Fluxo) RemoverDocumento(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	restantes := f.documentos[:0]
	for _, d := range f.documentos {
		if d.ID != id {
			restantes = append(restantes, d)
		}
	}
	f.documentos = restantes
}

// RegistrarEntrada confirma a entrada. Sem ao menos um documento aceito, a
// recusa é local e nada vai à rede.
func (f *Fluxo) RegistrarEntrada(ctx context.Context) error {
	f.mu.Lock()
	if f.estado != EstadoConferencia || f.autorizacao == nil {
		f.mu.Unlock()
		return &gateway.Erro{Kind: gateway.KindValidacao, Message: "nenhuma autorização em conferência"}
	}
	if len(f.documentos) == 0 {
		f.erro = "É necessário enviar pelo menos um documento de identificação"
		f.mu.Unlock()
		return &gateway.Erro{Kind: gateway.KindValidacao, Message: f.erro}
	}

	f.estado = EstadoRegistrando
	autorizacaoID := f.autorizacao.ID
	documentoID := f.documentos[0].DocumentoID
	geracao := f.geracao
	f.mu.Unlock()

	_, err := f.api.RegistrarEntrada(ctx, autorizacaoID, documentoID, f.responsavel)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.geracao != geracao {
		return nil
	}

	if err != nil {
		// documentos ficam retidos para nova tentativa
		f.estado = EstadoConferencia
		f.erro = "Erro ao registrar entrada"
		return err
	}

	f.estado = EstadoConfirmado
	f.erro = ""
	f.sucesso = "Entrada registrada com sucesso!"
	return nil
}

// Confirmar é o reconhecimento do operador após o sucesso; volta ao ocioso.
func (f *Fluxo) Confirmar() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.estado == EstadoConfirmado {
		f.limpar()
	}
}

// Reiniciar descarta, de qualquer estado, o registro em andamento e todos os
// documentos desta tentativa.
func (f *Fluxo) Reiniciar() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.limpar()
}

func (f *Fluxo) limpar() {
	f.geracao++
	f.estado = EstadoOcioso
	f.autorizacao = nil
	f.documentos = nil
	f.erro = ""
	f.sucesso = ""
}
