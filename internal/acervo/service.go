package acervo

import (
	"context"
	"log/slog"

	"jurisync/internal/model"
)

const (
	// DefaultMaxScanRows limita a leitura ampla que alimenta o agrupamento.
	// Janela cheia indica acervo acima do suportado por esta estratégia.
	DefaultMaxScanRows = 100_000

	defaultLimite = 20
	maxLimite     = 100
)

// Store é a leitura ampla de instâncias que alimenta a unificação.
type Store interface {
	ListInstancias(ctx context.Context, f model.AcervoFiltro, maxRows int) ([]model.Processo, error)
}

// Resultado é uma página de processos unificados.
type Resultado struct {
	Processos    []model.ProcessoUnificado
	Total        int
	Pagina       int
	Limite       int
	TotalPaginas int
}

// Service deriva a visão unificada do acervo: lê as instâncias do banco,
// agrupa por numero_processo e pagina os grupos, com cache por filtros.
type Service struct {
	store Store
	cache *Cache

	MaxScanRows int
}

func NewService(store Store, cache *Cache) *Service {
	return &Service{store: store, cache: cache, MaxScanRows: DefaultMaxScanRows}
}

func (s *Service) Listar(ctx context.Context, f model.AcervoFiltro) (*Resultado, error) {
	if f.Pagina < 1 {
		f.Pagina = 1
	}
	if f.Limite <= 0 {
		f.Limite = defaultLimite
	}
	if f.Limite > maxLimite {
		f.Limite = maxLimite
	}

	key := Fingerprint(f)
	if cached, ok := s.cache.Get(ctx, key); ok {
		return cached, nil
	}

	instancias, err := s.store.ListInstancias(ctx, f, s.MaxScanRows)
	if err != nil {
		return nil, err
	}
	if len(instancias) >= s.MaxScanRows {
		slog.Warn("broad read window is full, unified view may be incomplete",
			"max_scan_rows", s.MaxScanRows)
	}

	unificados := FiltrarPorGrau(Unificar(instancias), f.Grau)
	Ordenar(unificados, f.OrdenarPor, f.Ordem)

	total := len(unificados)
	resultado := &Resultado{
		Processos:    Paginar(unificados, f.Pagina, f.Limite),
		Total:        total,
		Pagina:       f.Pagina,
		Limite:       f.Limite,
		TotalPaginas: (total + f.Limite - 1) / f.Limite,
	}

	s.cache.Set(ctx, key, resultado)
	return resultado, nil
}
