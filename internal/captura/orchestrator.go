package captura

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"jurisync/internal/model"
	"jurisync/pkg/pje"
)

const (
	defaultFetchConcurrency = 4
	defaultJanelaAudiencias = 365 * 24 * time.Hour
)

// TribunalClient é a visão que o orquestrador tem de uma instância
// tribunal/grau. Satisfeita por *pje.Client.
type TribunalClient interface {
	Tribunal() string
	Grau() string
	FetchTodosProcessos(ctx context.Context, agrupamento int, filtroPrazo string) ([]pje.Processo, error)
	FetchTotalizador(ctx context.Context, agrupamento int) (*pje.Totalizador, error)
	FetchTodasAudiencias(ctx context.Context, filtro pje.FiltroAudiencias) ([]pje.Audiencia, error)
	FetchPartes(ctx context.Context, idProcesso int64) ([]pje.Parte, error)
	FetchTimeline(ctx context.Context, idProcesso int64) ([]pje.TimelineItem, error)
	FetchDocumento(ctx context.Context, idProcesso, idDocumento int64) ([]byte, error)
}

// JobStore persiste o ciclo de vida dos jobs de captura.
type JobStore interface {
	CriarJob(ctx context.Context, tipoCaptura string, advogadoID int64, credencialIDs []int64) (*model.CapturaJob, error)
	AtualizarStatus(ctx context.Context, id int64, status string, resultado *model.ResultadoCaptura, erro *string) error
}

// ClientFactory constrói o cliente PJE de uma credencial.
type ClientFactory func(cred model.Credencial) (TribunalClient, error)

// Orchestrator executa jobs de captura: para cada credencial, busca a
// entidade pedida no tribunal correspondente e aplica o upsert por
// comparação, acumulando contadores no resultado do job.
type Orchestrator struct {
	jobs    JobStore
	stores  Stores
	logs    LogStore
	factory ClientFactory

	// FetchConcurrency limita o fan-out de consultas por processo
	// (partes e timeline). As gravações são sempre sequenciais.
	FetchConcurrency int

	// JanelaAudiencias delimita a pauta consultada a partir de hoje.
	JanelaAudiencias time.Duration
}

func NewOrchestrator(jobs JobStore, stores Stores, logs LogStore, factory ClientFactory) *Orchestrator {
	return &Orchestrator{
		jobs:             jobs,
		stores:           stores,
		logs:             logs,
		factory:          factory,
		FetchConcurrency: defaultFetchConcurrency,
		JanelaAudiencias: defaultJanelaAudiencias,
	}
}

// Iniciar registra um job pending para as credenciais informadas.
func (o *Orchestrator) Iniciar(ctx context.Context, entidade string, advogadoID int64, credencialIDs []int64) (*model.CapturaJob, error) {
	return o.jobs.CriarJob(ctx, entidade, advogadoID, credencialIDs)
}

// Executar leva o job de pending a completed ou failed. Erros de registro
// individuais viram contadores; erro de página ou de credencial falha o job.
func (o *Orchestrator) Executar(ctx context.Context, job *model.CapturaJob, credenciais []model.Credencial) {
	inicio := time.Now()
	log := NewCaptureLog(o.logs, job.ID, job.TipoCaptura)
	persister := NewPersister(o.stores, log)

	if err := o.jobs.AtualizarStatus(ctx, job.ID, model.StatusInProgress, nil, nil); err != nil {
		slog.Error("error moving capture job to in_progress", "error", err, "captura_id", job.ID)
	}

	resultado := &model.ResultadoCaptura{}
	var falha error
	for _, cred := range credenciais {
		client, err := o.factory(cred)
		if err == nil {
			err = o.capturarCredencial(ctx, job.TipoCaptura, client, cred, persister, resultado)
		}
		if err != nil {
			falha = fmt.Errorf("%s/%s: %w", cred.Tribunal, cred.Grau, err)
			break
		}
	}

	resultado.DuracaoMs = time.Since(inicio).Milliseconds()

	if falha != nil {
		msg := falha.Error()
		if err := o.jobs.AtualizarStatus(ctx, job.ID, model.StatusFailed, resultado, &msg); err != nil {
			slog.Error("error moving capture job to failed", "error", err, "captura_id", job.ID)
		}
		slog.Error("capture job failed", "captura_id", job.ID, "entidade", job.TipoCaptura, "error", falha)
		return
	}

	if err := o.jobs.AtualizarStatus(ctx, job.ID, model.StatusCompleted, resultado, nil); err != nil {
		slog.Error("error moving capture job to completed", "error", err, "captura_id", job.ID)
	}
	slog.Info("capture job completed", "captura_id", job.ID, "entidade", job.TipoCaptura,
		"inseridos", resultado.Inseridos, "atualizados", resultado.Atualizados,
		"nao_atualizados", resultado.NaoAtualizados, "erros", resultado.Erros,
		"duracao_ms", resultado.DuracaoMs)
}

func (o *Orchestrator) capturarCredencial(ctx context.Context, entidade string, client TribunalClient, cred model.Credencial, persister *Persister, resultado *model.ResultadoCaptura) error {
	switch entidade {
	case model.EntidadeAcervoGeral:
		return o.capturarProcessos(ctx, client, cred, persister, resultado, pje.AgrupamentoAcervoGeral, model.OrigemAcervoGeral)
	case model.EntidadePendentes:
		return o.capturarProcessos(ctx, client, cred, persister, resultado, pje.AgrupamentoPendentes, model.OrigemPendente)
	case model.EntidadeArquivados:
		return o.capturarProcessos(ctx, client, cred, persister, resultado, pje.AgrupamentoArquivados, model.OrigemArquivado)
	case model.EntidadeAudiencias:
		return o.capturarAudiencias(ctx, client, cred, persister, resultado)
	case model.EntidadePartes:
		return o.capturarPartes(ctx, client, cred, persister, resultado)
	case model.EntidadeTimeline:
		return o.capturarTimeline(ctx, client, cred, persister, resultado)
	default:
		return fmt.Errorf("entidade de captura desconhecida: %q", entidade)
	}
}

func contabilizar(r *model.ResultadoCaptura, outcome string) {
	r.Total++
	switch outcome {
	case model.OutcomeInserido:
		r.Inseridos++
	case model.OutcomeAtualizado:
		r.Atualizados++
	case model.OutcomeNaoAtualizado:
		r.NaoAtualizados++
	case model.OutcomeErro:
		r.Erros++
	}
}

func (o *Orchestrator) capturarProcessos(ctx context.Context, client TribunalClient, cred model.Credencial, persister *Persister, resultado *model.ResultadoCaptura, agrupamento int, origem string) error {
	processos, err := client.FetchTodosProcessos(ctx, agrupamento, "")
	if err != nil {
		return err
	}

	if tot, err := client.FetchTotalizador(ctx, agrupamento); err == nil && tot != nil && tot.QuantidadeProcessos != len(processos) {
		slog.Warn("panel count diverges from totalizador",
			"tribunal", cred.Tribunal, "grau", cred.Grau, "origem", origem,
			"paginado", len(processos), "totalizador", tot.QuantidadeProcessos)
	}

	for _, p := range processos {
		contabilizar(resultado, persister.PersistProcesso(ctx, converterProcesso(p, cred, origem)))
	}
	return nil
}

func (o *Orchestrator) capturarAudiencias(ctx context.Context, client TribunalClient, cred model.Credencial, persister *Persister, resultado *model.ResultadoCaptura) error {
	hoje := time.Now()
	filtro := pje.FiltroAudiencias{
		DataInicio: hoje.Format("2006-01-02"),
		DataFim:    hoje.Add(o.JanelaAudiencias).Format("2006-01-02"),
	}

	audiencias, err := client.FetchTodasAudiencias(ctx, filtro)
	if err != nil {
		return err
	}

	for _, a := range audiencias {
		nova := converterAudiencia(a, cred)

		if a.Processo != nil {
			if a.Processo.OrgaoJulgador != nil {
				id, criado, err := persister.ResolverOrgaoJulgador(ctx, converterOrgaoJulgador(*a.Processo.OrgaoJulgador, cred))
				if err != nil {
					persister.log.LogErro(ctx, nova.IDPje, nova.TRT, nova.Grau, nova.NumeroProcesso, err)
					resultado.Total++
					resultado.Erros++
					continue
				}
				nova.OrgaoJulgadorID = &id
				if criado {
					resultado.OrgaosJulgadoresCriados++
				}
			}

			// Vínculo com a instância do acervo, quando já capturada.
			processo, err := o.stores.Acervo.FindByChaveNatural(ctx, a.Processo.ID, cred.Tribunal, cred.Grau, nova.NumeroProcesso)
			if err == nil && processo != nil {
				nova.ProcessoID = &processo.ID
			}
		}

		contabilizar(resultado, persister.PersistAudiencia(ctx, nova))
	}
	return nil
}

func (o *Orchestrator) capturarPartes(ctx context.Context, client TribunalClient, cred model.Credencial, persister *Persister, resultado *model.ResultadoCaptura) error {
	processos, err := o.stores.Acervo.ListarPorAdvogado(ctx, cred.AdvogadoID, cred.Tribunal, cred.Grau)
	if err != nil {
		return err
	}

	// Fan-out limitado nas consultas; gravação sequencial na ordem do acervo.
	lotes := make([][]pje.Parte, len(processos))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.FetchConcurrency)
	for i, p := range processos {
		g.Go(func() error {
			partes, err := client.FetchPartes(gctx, p.IDPje)
			if err != nil {
				return fmt.Errorf("partes do processo %s: %w", p.NumeroProcesso, err)
			}
			lotes[i] = partes
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, p := range processos {
		for _, parte := range lotes[i] {
			contabilizar(resultado, persister.PersistParte(ctx, converterParte(parte, p)))
		}
	}
	return nil
}

func (o *Orchestrator) capturarTimeline(ctx context.Context, client TribunalClient, cred model.Credencial, persister *Persister, resultado *model.ResultadoCaptura) error {
	processos, err := o.stores.Acervo.ListarPorAdvogado(ctx, cred.AdvogadoID, cred.Tribunal, cred.Grau)
	if err != nil {
		return err
	}

	lotes := make([][]*model.TimelineItem, len(processos))
	baixados := make([]int, len(processos))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.FetchConcurrency)
	for i, p := range processos {
		g.Go(func() error {
			itens, err := client.FetchTimeline(gctx, p.IDPje)
			if err != nil {
				return fmt.Errorf("timeline do processo %s: %w", p.NumeroProcesso, err)
			}

			convertidos := make([]*model.TimelineItem, 0, len(itens))
			for _, item := range itens {
				novo := converterTimelineItem(item, p)
				if novo.DocumentoID != nil && !novo.Sigiloso {
					conteudo, err := client.FetchDocumento(gctx, p.IDPje, *novo.DocumentoID)
					if err != nil {
						slog.Warn("error downloading timeline document", "error", err,
							"numero_processo", p.NumeroProcesso, "documento_id", *novo.DocumentoID)
					} else {
						tamanho := len(conteudo)
						novo.TamanhoPdf = &tamanho
						baixados[i]++
					}
				}
				convertidos = append(convertidos, novo)
			}
			lotes[i] = convertidos
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i := range processos {
		resultado.DocumentosBaixados += baixados[i]
		for _, item := range lotes[i] {
			contabilizar(resultado, persister.PersistTimelineItem(ctx, item))
		}
	}
	return nil
}
