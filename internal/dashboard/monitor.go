package dashboard

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/condominiosolar/portaria/internal/autorizacao"
	"github.com/condominiosolar/portaria/internal/dateutil"
)

// Lister é o recorte do gateway consumido pelo monitor.
type Lister interface {
	ListAutorizacoesByDate(ctx context.Context, data string) ([]autorizacao.Autorizacao, error)
}

// Monitor refaz a busca do quadro em intervalo fixo e sob demanda (refresh
// manual ou troca do filtro de data). As buscas são sequenciadas por um
// contador de geração: só o resultado mais recente emitido é aplicado, uma
// resposta atrasada de busca antiga nunca sobrescreve uma mais nova.
type Monitor struct {
	api       Lister
	intervalo time.Duration

	emitida uint64 // atômico

	mu           sync.Mutex
	aplicada     uint64
	data         string
	quadro       Quadro
	stats        Estatisticas
	atualizadoEm time.Time
	erro         string
}

// Visao é o retrato do monitor para a camada de apresentação.
type Visao struct {
	Data         string       `json:"data"`
	Quadro       Quadro       `json:"quadro"`
	Estatisticas Estatisticas `json:"estatisticas"`
	AtualizadoEm time.Time    `json:"atualizadoEm"`
	Erro         string       `json:"erro,omitempty"`
}

// NovoMonitor cria o monitor filtrando pelo dia de hoje.
func NovoMonitor(api Lister, intervalo time.Duration) *Monitor {
	if intervalo <= 0 {
		intervalo = 30 * time.Second
	}
	return &Monitor{api: api, intervalo: intervalo, data: dateutil.HojeISO()}
}

// Executar roda o ciclo de polling até o contexto encerrar. Uma busca inicial
// é disparada antes do primeiro tick.
func (m *Monitor) Executar(ctx context.Context) {
	if err := m.Atualizar(ctx); err != nil {
		log.Warn().Err(err).Msg("busca inicial do quadro falhou")
	}

	ticker := time.NewTicker(m.intervalo)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := m.Atualizar(ctx); err != nil {
				log.Warn().Err(err).Msg("atualização periódica do quadro falhou")
			}
		}
	}
}

// Atualizar dispara uma busca imediata (refresh manual ou tick do intervalo).
func (m *Monitor) Atualizar(ctx context.Context) error {
	geracao := atomic.AddUint64(&m.emitida, 1)

	m.mu.Lock()
	data := m.data
	m.mu.Unlock()

	lista, err := m.api.ListAutorizacoesByDate(ctx, data)

	m.mu.Lock()
	defer m.mu.Unlock()

	// uma busca emitida depois já foi aplicada; esta perdeu a corrida
	if geracao <= m.aplicada {
		return nil
	}
	m.aplicada = geracao

	if err != nil {
		m.erro = "Erro ao carregar autorizações"
		return err
	}

	m.quadro = Classificar(lista)
	m.stats = CalcularEstatisticas(lista, data)
	m.atualizadoEm = time.Now()
	m.erro = ""
	return nil
}

// DefinirData troca o filtro de dia e refaz a busca.
func (m *Monitor) DefinirData(ctx context.Context, data string) error {
	if _, err := dateutil.ParseLocalDate(data); err != nil {
		return err
	}

	m.mu.Lock()
	m.data = data
	m.mu.Unlock()

	return m.Atualizar(ctx)
}

// Visao devolve o retrato corrente do quadro.
func (m *Monitor) Visao() Visao {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Visao{
		Data:         m.data,
		Quadro:       m.quadro,
		Estatisticas: m.stats,
		AtualizadoEm: m.atualizadoEm,
		Erro:         m.erro,
	}
}
