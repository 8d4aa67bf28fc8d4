package acervo

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"jurisync/internal/model"
)

const (
	cachePrefix     = "acervo:unificado:"
	defaultCacheTTL = 15 * time.Minute
)

// redisCliente é o subconjunto de redis.Cmdable que o cache usa.
// Satisfeita por *redis.Client.
type redisCliente interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// Cache guarda resultados da listagem unificada no Redis. É melhor esforço:
// qualquer falha degrada para a leitura do banco.
type Cache struct {
	client redisCliente
	ttl    time.Duration
}

func NewCache(client redisCliente, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Cache{client: client, ttl: ttl}
}

// Fingerprint deriva a chave de cache dos filtros. Os parâmetros entram em
// ordem lexicográfica, então requisições equivalentes com query strings em
// ordens diferentes compartilham a mesma entrada.
func Fingerprint(f model.AcervoFiltro) string {
	params := map[string]string{}

	add := func(k, v string) {
		if v != "" {
			params[k] = v
		}
	}
	addData := func(k string, t *time.Time) {
		if t != nil {
			add(k, t.UTC().Format(time.RFC3339))
		}
	}

	add("busca", f.Busca)
	add("origem", f.Origem)
	add("trt", f.TRT)
	add("grau", f.Grau)
	add("numero_processo", f.NumeroProcesso)
	add("ordenar_por", f.OrdenarPor)
	add("ordem", f.Ordem)
	add("pagina", fmt.Sprintf("%d", f.Pagina))
	add("limite", fmt.Sprintf("%d", f.Limite))
	if f.SemResponsavel {
		add("sem_responsavel", "true")
	} else if f.ResponsavelID != nil {
		add("responsavel_id", fmt.Sprintf("%d", *f.ResponsavelID))
	}
	addData("data_autuacao_inicio", f.DataAutuacaoInicio)
	addData("data_autuacao_fim", f.DataAutuacaoFim)
	addData("data_arquivamento_inicio", f.DataArquivamentoInicio)
	addData("data_arquivamento_fim", f.DataArquivamentoFim)

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(params[k])
		b.WriteByte('&')
	}

	sum := sha256.Sum256([]byte(b.String()))
	return cachePrefix + hex.EncodeToString(sum[:])
}

func (c *Cache) Get(ctx context.Context, key string) (*Resultado, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("error reading acervo cache", "error", err)
		return nil, false
	}

	var resultado Resultado
	if err := json.Unmarshal(payload, &resultado); err != nil {
		slog.Warn("error decoding acervo cache entry", "error", err)
		return nil, false
	}
	return &resultado, true
}

func (c *Cache) Set(ctx context.Context, key string, resultado *Resultado) {
	if c == nil || c.client == nil {
		return
	}

	payload, err := json.Marshal(resultado)
	if err != nil {
		slog.Warn("error encoding acervo cache entry", "error", err)
		return
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		slog.Warn("error writing acervo cache", "error", err)
	}
}
