package comprovante

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const janelaPadrao = time.Hour

// Marcador suprime o salvamento automático duplicado do comprovante: um id
// registrado só conta como inédito de novo depois que a janela expira.
type Marcador interface {
	// Registrar devolve true se o id ainda não tinha sido visto na janela.
	Registrar(ctx context.Context, id string) (bool, error)
}

// MarcadorMemoria guarda os ids no próprio processo.
type MarcadorMemoria struct {
	janela time.Duration
	mu     sync.Mutex
	vistos map[string]time.Time
}

// NovoMarcadorMemoria cria marcador local; janela <= 0 assume uma hora.
func NovoMarcadorMemoria(janela time.Duration) *MarcadorMemoria {
	if janela <= 0 {
		janela = janelaPadrao
	}
	return &MarcadorMemoria{janela: janela, vistos: map[string]time.Time{}}
}

// Registrar marca o id e limpa entradas vencidas de passagem.
func (m *MarcadorMemoria) Registrar(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	agora := time.Now()
	for chave, expira := range m.vistos {
		if agora.After(expira) {
			delete(m.vistos, chave)
		}
	}

	if expira, ok := m.vistos[id]; ok && agora.Before(expira) {
		return false, nil
	}
	m.vistos[id] = agora.Add(m.janela)
	return true, nil
}

// MarcadorRedis compartilha a janela entre instâncias do console.
type MarcadorRedis struct {
	cliente *redis.Client
	janela  time.Duration
}

// NovoMarcadorRedis cria marcador com expiração delegada ao Redis.
func NovoMarcadorRedis(cliente *redis.Client, janela time.Duration) *MarcadorRedis {
	if janela <= 0 {
		janela = janelaPadrao
	}
	return &MarcadorRedis{cliente: cliente, janela: janela}
}

// Registrar usa SETNX com TTL: só a primeira gravação da janela devolve true.
func (m *MarcadorRedis) Registrar(ctx context.Context, id string) (bool, error) {
	return m.cliente.SetNX(ctx, "comprovante:salvo:"+id, "1", m.janela).Result()
}
