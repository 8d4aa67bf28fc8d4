package pje

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultRetryWait = 60 * time.Second
	defaultPageDelay = 500 * time.Millisecond

	// tamanhoPaginaCheio é o tamanho usado nos loops de paginação completa
	// para minimizar o número de requisições.
	tamanhoPaginaCheio = 100
)

// Config configura um cliente para uma instância tribunal/grau.
type Config struct {
	Tribunal   string
	Grau       string
	IDAdvogado int64

	// BaseURL substitui a URL derivada de Tribunal/Grau. Usado em testes.
	BaseURL   string
	Timeout   time.Duration
	RetryWait time.Duration
	PageDelay time.Duration
}

// Client fala com uma instância do PJE (um tribunal, um grau).
type Client struct {
	cfg        Config
	baseURL    string
	httpClient *http.Client
	limits     *RateLimits
}

func NewClient(cfg Config, limits *RateLimits) (*Client, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		resolved, err := BaseURL(cfg.Tribunal, cfg.Grau)
		if err != nil {
			return nil, err
		}
		baseURL = resolved
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.RetryWait == 0 {
		cfg.RetryWait = defaultRetryWait
	}
	if cfg.PageDelay == 0 {
		cfg.PageDelay = defaultPageDelay
	}
	if limits == nil {
		limits = NewRateLimits()
	}

	return &Client{
		cfg:        cfg,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limits:     limits,
	}, nil
}

func (c *Client) Tribunal() string { return c.cfg.Tribunal }
func (c *Client) Grau() string     { return c.cfg.Grau }

// RateLimitStatus expõe o estado de cota conhecido para este tribunal.
func (c *Client) RateLimitStatus() RateLimitStatus {
	return c.limits.Status(c.cfg.Tribunal)
}

func validarFiltro(f FiltroConsulta) error {
	temFiltro := f.Agrupamento != 0 || f.Audiencias != nil || f.FiltroPrazo != ""

	if !temFiltro && (f.TamanhoPagina == 0 || f.TamanhoPagina > 5) {
		return &ValidationError{
			Message: "pelo menos um filtro deve ser preenchido ou tamanhoPagina deve ser ≤ 5",
		}
	}
	if f.TamanhoPagina != 0 && f.TamanhoPagina != 5 && f.TamanhoPagina != tamanhoPaginaCheio {
		return &ValidationError{Message: "tamanhoPagina deve ser 5 ou 100"}
	}
	if f.Audiencias != nil && f.Audiencias.DataInicio != "" && f.Audiencias.DataFim != "" {
		if f.Audiencias.DataInicio > f.Audiencias.DataFim {
			return &ValidationError{Message: "dataInicio deve ser anterior a dataFim"}
		}
	}
	return nil
}

// doJSON executa um GET e decodifica a resposta, com fail-fast quando a cota
// local está esgotada e uma única re-tentativa após 429.
func (c *Client) doJSON(ctx context.Context, path string, params url.Values, out any) error {
	return c.do(ctx, path, params, false, func(resp *http.Response) error {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decodificando resposta de %s: %w", path, err)
		}
		return nil
	})
}

func (c *Client) do(ctx context.Context, path string, params url.Values, retried bool, handle func(*http.Response) error) error {
	if exhausted, resetAt := c.limits.Exhausted(c.cfg.Tribunal); exhausted {
		return &RateLimitError{Tribunal: c.cfg.Tribunal, ResetAt: resetAt}
	}

	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("consultando %s: %w", c.cfg.Tribunal, err)
	}
	defer resp.Body.Close()

	c.limits.UpdateFromHeaders(c.cfg.Tribunal, resp.Header)

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		if retried {
			return &RateLimitError{Tribunal: c.cfg.Tribunal, ResetAt: c.limits.Status(c.cfg.Tribunal).ResetAt}
		}
		select {
		case <-time.After(c.jitteredWait()):
		case <-ctx.Done():
			return ctx.Err()
		}
		return c.do(ctx, path, params, true, handle)

	case resp.StatusCode == http.StatusUnprocessableEntity:
		return &ValidationError{Message: upstreamMessage(resp.Body)}

	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound

	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("%s respondeu %d em %s", c.cfg.Tribunal, resp.StatusCode, path)
	}

	return handle(resp)
}

// jitteredWait espalha as re-tentativas em ±50% do intervalo base para que
// jobs concorrentes contra o mesmo tribunal não re-tentem em sincronia.
func (c *Client) jitteredWait() time.Duration {
	half := c.cfg.RetryWait / 2
	return half + rand.N(c.cfg.RetryWait)
}

func upstreamMessage(body io.Reader) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return "parâmetros inválidos"
}

// FetchProcessos retorna uma página de processos do painel do advogado.
func (c *Client) FetchProcessos(ctx context.Context, filtro FiltroConsulta) (PagedResponse[Processo], error) {
	var page PagedResponse[Processo]

	if err := validarFiltro(filtro); err != nil {
		return page, err
	}

	params := url.Values{}
	params.Set("idAgrupamentoProcessoTarefa", strconv.Itoa(filtro.Agrupamento))
	params.Set("pagina", strconv.Itoa(max(filtro.Pagina, 1)))
	params.Set("tamanhoPagina", strconv.Itoa(cmpOr(filtro.TamanhoPagina, tamanhoPaginaCheio)))
	if filtro.FiltroPrazo != "" {
		params.Set("filtroPrazo", filtro.FiltroPrazo)
	}

	path := fmt.Sprintf("/pje-comum-api/api/paineladvogado/%d/processos", c.cfg.IDAdvogado)
	err := c.doJSON(ctx, path, params, &page)
	return page, err
}

// FetchTodosProcessos percorre todas as páginas de um agrupamento,
// respeitando um intervalo entre páginas para não sobrecarregar o upstream.
func (c *Client) FetchTodosProcessos(ctx context.Context, agrupamento int, filtroPrazo string) ([]Processo, error) {
	primeira, err := c.FetchProcessos(ctx, FiltroConsulta{
		Agrupamento:   agrupamento,
		Pagina:        1,
		TamanhoPagina: tamanhoPaginaCheio,
		FiltroPrazo:   filtroPrazo,
	})
	if err != nil {
		return nil, err
	}

	if primeira.TotalRegistros == 0 || primeira.QtdPaginas == 0 {
		return nil, nil
	}
	if primeira.Resultado == nil {
		return nil, fmt.Errorf("resposta sem campo resultado na página 1 de %s", c.cfg.Tribunal)
	}

	todos := make([]Processo, 0, primeira.TotalRegistros)
	todos = append(todos, primeira.Resultado...)

	for p := 2; p <= primeira.QtdPaginas; p++ {
		select {
		case <-time.After(c.cfg.PageDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}

		pagina, err := c.FetchProcessos(ctx, FiltroConsulta{
			Agrupamento:   agrupamento,
			Pagina:        p,
			TamanhoPagina: tamanhoPaginaCheio,
			FiltroPrazo:   filtroPrazo,
		})
		if err != nil {
			return nil, fmt.Errorf("página %d: %w", p, err)
		}
		if pagina.Resultado == nil {
			return nil, fmt.Errorf("resposta sem campo resultado na página %d de %s", p, c.cfg.Tribunal)
		}
		todos = append(todos, pagina.Resultado...)
	}

	return todos, nil
}

// FetchTotalizador retorna o totalizador do agrupamento, ou nil se ausente.
func (c *Client) FetchTotalizador(ctx context.Context, agrupamento int) (*Totalizador, error) {
	params := url.Values{}
	params.Set("tipoPainelAdvogado", "0")

	var totalizadores []Totalizador
	path := fmt.Sprintf("/pje-comum-api/api/paineladvogado/%d/totalizadores", c.cfg.IDAdvogado)
	if err := c.doJSON(ctx, path, params, &totalizadores); err != nil {
		return nil, err
	}

	for _, t := range totalizadores {
		if t.IDAgrupamentoProcessoTarefa == agrupamento {
			return &t, nil
		}
	}
	return nil, nil
}

// FetchAudiencias retorna uma página da pauta de audiências.
func (c *Client) FetchAudiencias(ctx context.Context, filtro FiltroAudiencias, pagina int) (PagedResponse[Audiencia], error) {
	var page PagedResponse[Audiencia]

	if err := validarFiltro(FiltroConsulta{Audiencias: &filtro, TamanhoPagina: tamanhoPaginaCheio}); err != nil {
		return page, err
	}

	params := url.Values{}
	params.Set("pagina", strconv.Itoa(max(pagina, 1)))
	params.Set("tamanhoPagina", strconv.Itoa(tamanhoPaginaCheio))
	if filtro.DataInicio != "" {
		params.Set("dataInicio", filtro.DataInicio)
	}
	if filtro.DataFim != "" {
		params.Set("dataFim", filtro.DataFim)
	}
	if filtro.Status != "" {
		params.Set("codigoSituacao", filtro.Status)
	}

	path := fmt.Sprintf("/pje-comum-api/api/paineladvogado/%d/audiencias", c.cfg.IDAdvogado)
	err := c.doJSON(ctx, path, params, &page)
	return page, err
}

// FetchTodasAudiencias percorre todas as páginas da pauta.
func (c *Client) FetchTodasAudiencias(ctx context.Context, filtro FiltroAudiencias) ([]Audiencia, error) {
	primeira, err := c.FetchAudiencias(ctx, filtro, 1)
	if err != nil {
		return nil, err
	}
	if primeira.TotalRegistros == 0 || primeira.QtdPaginas == 0 {
		return nil, nil
	}
	if primeira.Resultado == nil {
		return nil, fmt.Errorf("resposta sem campo resultado na página 1 de %s", c.cfg.Tribunal)
	}

	todas := make([]Audiencia, 0, primeira.TotalRegistros)
	todas = append(todas, primeira.Resultado...)

	for p := 2; p <= primeira.QtdPaginas; p++ {
		select {
		case <-time.After(c.cfg.PageDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}

		pagina, err := c.FetchAudiencias(ctx, filtro, p)
		if err != nil {
			return nil, fmt.Errorf("página %d: %w", p, err)
		}
		if pagina.Resultado == nil {
			return nil, fmt.Errorf("resposta sem campo resultado na página %d de %s", p, c.cfg.Tribunal)
		}
		todas = append(todas, pagina.Resultado...)
	}

	return todas, nil
}

// FetchPartes retorna as partes de um processo.
func (c *Client) FetchPartes(ctx context.Context, idProcesso int64) ([]Parte, error) {
	var partes []Parte
	path := fmt.Sprintf("/pje-comum-api/api/processos/%d/partes", idProcesso)
	err := c.doJSON(ctx, path, nil, &partes)
	return partes, err
}

// FetchTimeline retorna a timeline completa de um processo.
func (c *Client) FetchTimeline(ctx context.Context, idProcesso int64) ([]TimelineItem, error) {
	var itens []TimelineItem
	path := fmt.Sprintf("/pje-consulta-api/api/processos/%d/timeline", idProcesso)
	err := c.doJSON(ctx, path, nil, &itens)
	return itens, err
}

// FetchDocumento baixa o conteúdo binário de um documento da timeline.
// O upstream ora devolve bytes crus, ora uma string base64; ambos são
// normalizados para []byte. Resposta vazia é erro.
func (c *Client) FetchDocumento(ctx context.Context, idProcesso, idDocumento int64) ([]byte, error) {
	var raw []byte
	path := fmt.Sprintf("/pje-consulta-api/api/processos/%d/documentos/%d/conteudo", idProcesso, idDocumento)

	err := c.do(ctx, path, nil, false, func(resp *http.Response) error {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("lendo documento %d: %w", idDocumento, err)
		}
		raw = normalizarBinario(body, resp.Header.Get("Content-Type"))
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(raw) == 0 {
		return nil, errors.New("documento vazio retornado pela API")
	}
	return raw, nil
}

func normalizarBinario(body []byte, contentType string) []byte {
	if strings.Contains(contentType, "application/pdf") || strings.Contains(contentType, "octet-stream") {
		return body
	}
	trimmed := strings.TrimSpace(strings.Trim(string(body), `"`))
	if decoded, err := base64.StdEncoding.DecodeString(trimmed); err == nil && len(decoded) > 0 {
		return decoded
	}
	return body
}

func cmpOr(v, fallback int) int {
	if v == 0 {
		return fallback
	}
	return v
}
