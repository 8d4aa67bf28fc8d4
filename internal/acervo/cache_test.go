package acervo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
	"github.com/redis/go-redis/v9"

	"jurisync/internal/model"
)

type fakeRedis struct {
	dados  map[string]string
	getErr error
	setErr error

	setKey string
	setTTL time.Duration
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	v, ok := f.dados[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	f.setKey = key
	f.setTTL = expiration
	if f.setErr != nil {
		return redis.NewStatusResult("", f.setErr)
	}
	if f.dados == nil {
		f.dados = map[string]string{}
	}
	if payload, ok := value.([]byte); ok {
		f.dados[key] = string(payload)
	}
	return redis.NewStatusResult("OK", nil)
}

func TestCacheSetGetRoundTrip(t *testing.T) {
	client := &fakeRedis{}
	cache := NewCache(client, time.Minute)

	resultado := &Resultado{
		Processos: []model.ProcessoUnificado{{
			Processo:  model.Processo{ID: 7, NumeroProcesso: numeroProcesso(7)},
			GrauAtual: model.GrauPrimeiro,
		}},
		Total: 1, Pagina: 1, Limite: 20, TotalPaginas: 1,
	}

	key := Fingerprint(model.AcervoFiltro{Pagina: 1, Limite: 20})
	cache.Set(context.Background(), key, resultado)

	assert.Equal(t, client.setKey, key)
	assert.Equal(t, client.setTTL, time.Minute)

	cached, ok := cache.Get(context.Background(), key)
	assert.Equal(t, ok, true)
	assert.Equal(t, cached.Total, 1)
	assert.Equal(t, len(cached.Processos), 1)
	assert.Equal(t, cached.Processos[0].NumeroProcesso, numeroProcesso(7))
}

func TestCacheTTLPadrao(t *testing.T) {
	client := &fakeRedis{}
	cache := NewCache(client, 0)

	cache.Set(context.Background(), "acervo:unificado:x", &Resultado{})
	assert.Equal(t, client.setTTL, defaultCacheTTL)
}

func TestCacheGetMiss(t *testing.T) {
	cache := NewCache(&fakeRedis{}, time.Minute)

	cached, ok := cache.Get(context.Background(), "acervo:unificado:inexistente")
	assert.Equal(t, ok, false)
	assert.Equal(t, cached, (*Resultado)(nil))
}

func TestCacheDegradaComErroDoRedis(t *testing.T) {
	client := &fakeRedis{
		getErr: errors.New("connection refused"),
		setErr: errors.New("connection refused"),
	}
	cache := NewCache(client, time.Minute)

	_, ok := cache.Get(context.Background(), "acervo:unificado:x")
	assert.Equal(t, ok, false)

	// escrita também é melhor esforço: não propaga a falha
	cache.Set(context.Background(), "acervo:unificado:x", &Resultado{})
}

func TestCacheDegradaComEntradaCorrompida(t *testing.T) {
	client := &fakeRedis{dados: map[string]string{"acervo:unificado:x": "{nao é json"}}
	cache := NewCache(client, time.Minute)

	_, ok := cache.Get(context.Background(), "acervo:unificado:x")
	assert.Equal(t, ok, false)
}

func TestCacheNil(t *testing.T) {
	var cache *Cache

	_, ok := cache.Get(context.Background(), "acervo:unificado:x")
	assert.Equal(t, ok, false)
	cache.Set(context.Background(), "acervo:unificado:x", &Resultado{})

	semCliente := NewCache(nil, 0)
	_, ok = semCliente.Get(context.Background(), "acervo:unificado:x")
	assert.Equal(t, ok, false)
}

func TestServiceListarUsaCache(t *testing.T) {
	store := &fakeAcervoStore{instancias: []model.Processo{
		instancia(1, numeroProcesso(1), model.GrauPrimeiro, model.OrigemAcervoGeral,
			time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
	}}
	s := NewService(store, NewCache(&fakeRedis{}, time.Minute))

	primeiro, err := s.Listar(context.Background(), model.AcervoFiltro{})
	assert.Equal(t, err, nil)
	assert.Equal(t, store.chamadas, 1)

	segundo, err := s.Listar(context.Background(), model.AcervoFiltro{})
	assert.Equal(t, err, nil)
	// segunda listagem idêntica sai do cache, sem nova leitura do banco
	assert.Equal(t, store.chamadas, 1)
	assert.Equal(t, segundo.Total, primeiro.Total)
	assert.Equal(t, segundo.Processos[0].NumeroProcesso, primeiro.Processos[0].NumeroProcesso)

	// filtro diferente não compartilha a entrada
	_, err = s.Listar(context.Background(), model.AcervoFiltro{TRT: "TRT2"})
	assert.Equal(t, err, nil)
	assert.Equal(t, store.chamadas, 2)
}
