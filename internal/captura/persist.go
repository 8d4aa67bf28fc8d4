package captura

import (
	"context"
	"encoding/json"

	"jurisync/internal/model"
)

type AcervoStore interface {
	FindByChaveNatural(ctx context.Context, idPje int64, trt, grau, numeroProcesso string) (*model.Processo, error)
	Insert(ctx context.Context, p *model.Processo) error
	Update(ctx context.Context, p *model.Processo, dadosAnteriores json.RawMessage) error
	ListarPorAdvogado(ctx context.Context, advogadoID int64, trt, grau string) ([]model.Processo, error)
}

type AudienciaStore interface {
	FindByChaveNatural(ctx context.Context, idPje int64, trt, grau, numeroProcesso string) (*model.Audiencia, error)
	Insert(ctx context.Context, a *model.Audiencia) error
	Update(ctx context.Context, a *model.Audiencia, dadosAnteriores json.RawMessage) error
}

type OrgaoStore interface {
	Find(ctx context.Context, idPje int64, trt, grau string) (*model.OrgaoJulgador, error)
	Insert(ctx context.Context, o *model.OrgaoJulgador) error
}

type ParteStore interface {
	FindByChaveNatural(ctx context.Context, idPje int64, trt, grau, numeroProcesso string) (*model.Parte, error)
	Insert(ctx context.Context, p *model.Parte) error
	Update(ctx context.Context, p *model.Parte, dadosAnteriores json.RawMessage) error
}

type TimelineStore interface {
	FindByChaveNatural(ctx context.Context, idPje int64, trt, grau, numeroProcesso string) (*model.TimelineItem, error)
	Insert(ctx context.Context, t *model.TimelineItem) error
	Update(ctx context.Context, t *model.TimelineItem, dadosAnteriores json.RawMessage) error
}

// Stores agrupa os repositórios usados pela captura.
type Stores struct {
	Acervo     AcervoStore
	Audiencias AudienciaStore
	Orgaos     OrgaoStore
	Partes     ParteStore
	Timeline   TimelineStore
}

// Persister aplica o upsert por comparação: insere registros novos, ignora
// registros idênticos e atualiza os divergentes copiando o estado anterior
// para dados_anteriores. Erros de um registro são registrados no ledger e
// nunca interrompem o lote.
type Persister struct {
	stores Stores
	log    *CaptureLog
}

func NewPersister(stores Stores, log *CaptureLog) *Persister {
	return &Persister{stores: stores, log: log}
}

func snapshotProcesso(p *model.Processo) map[string]any {
	return map[string]any{
		"id_pje":                   p.IDPje,
		"trt":                      p.TRT,
		"grau":                     p.Grau,
		"numero_processo":          p.NumeroProcesso,
		"advogado_id":              p.AdvogadoID,
		"origem":                   p.Origem,
		"numero":                   p.Numero,
		"descricao_orgao_julgador": p.DescricaoOrgaoJulgador,
		"classe_judicial":          p.ClasseJudicial,
		"segredo_justica":          p.SegredoJustica,
		"codigo_status_processo":   p.CodigoStatusProcesso,
		"prioridade_processual":    p.PrioridadeProcessual,
		"nome_parte_autora":        p.NomeParteAutora,
		"qtde_parte_autora":        p.QtdeParteAutora,
		"nome_parte_re":            p.NomeParteRe,
		"qtde_parte_re":            p.QtdeParteRe,
		"data_autuacao":            p.DataAutuacao,
		"juizo_digital":            p.JuizoDigital,
		"data_arquivamento":        p.DataArquivamento,
		"data_proxima_audiencia":   p.DataProximaAudiencia,
		"tem_associacao":           p.TemAssociacao,
	}
}

// PersistProcesso aplica o upsert por comparação a uma instância de processo.
func (ps *Persister) PersistProcesso(ctx context.Context, novo *model.Processo) string {
	existente, err := ps.stores.Acervo.FindByChaveNatural(ctx, novo.IDPje, novo.TRT, novo.Grau, novo.NumeroProcesso)
	if err != nil {
		ps.log.LogErro(ctx, novo.IDPje, novo.TRT, novo.Grau, novo.NumeroProcesso, err)
		return model.OutcomeErro
	}

	if existente == nil {
		if err := ps.stores.Acervo.Insert(ctx, novo); err != nil {
			ps.log.LogErro(ctx, novo.IDPje, novo.TRT, novo.Grau, novo.NumeroProcesso, err)
			return model.OutcomeErro
		}
		ps.log.LogInserido(ctx, novo.IDPje, novo.TRT, novo.Grau, novo.NumeroProcesso)
		return model.OutcomeInserido
	}

	camposAlterados, identicos := Comparar(snapshotProcesso(novo), snapshotProcesso(existente))
	if identicos {
		ps.log.LogNaoAtualizado(ctx, novo.IDPje, novo.TRT, novo.Grau, novo.NumeroProcesso)
		return model.OutcomeNaoAtualizado
	}

	anteriores, err := SnapshotAnterior(snapshotProcesso(existente))
	if err == nil {
		err = ps.stores.Acervo.Update(ctx, novo, anteriores)
	}
	if err != nil {
		ps.log.LogErro(ctx, novo.IDPje, novo.TRT, novo.Grau, novo.NumeroProcesso, err)
		return model.OutcomeErro
	}

	ps.log.LogAtualizado(ctx, novo.IDPje, novo.TRT, novo.Grau, novo.NumeroProcesso, camposAlterados)
	return model.OutcomeAtualizado
}

func snapshotAudiencia(a *model.Audiencia) map[string]any {
	return map[string]any{
		"id_pje":            a.IDPje,
		"trt":               a.TRT,
		"grau":              a.Grau,
		"numero_processo":   a.NumeroProcesso,
		"advogado_id":       a.AdvogadoID,
		"processo_id":       a.ProcessoID,
		"orgao_julgador_id": a.OrgaoJulgadorID,
		"data_inicio":       a.DataInicio,
		"data_fim":          a.DataFim,
		"sala_audiencia":    a.SalaAudiencia,
		"status":            a.Status,
		"tipo_descricao":    a.TipoDescricao,
		"polo_ativo_nome":   a.PoloAtivoNome,
		"polo_passivo_nome": a.PoloPassivoNome,
		"url_virtual":       a.URLVirtual,
	}
}

// PersistAudiencia aplica o upsert por comparação a uma audiência.
func (ps *Persister) PersistAudiencia(ctx context.Context, nova *model.Audiencia) string {
	existente, err := ps.stores.Audiencias.FindByChaveNatural(ctx, nova.IDPje, nova.TRT, nova.Grau, nova.NumeroProcesso)
	if err != nil {
		ps.log.LogErro(ctx, nova.IDPje, nova.TRT, nova.Grau, nova.NumeroProcesso, err)
		return model.OutcomeErro
	}

	if existente == nil {
		if err := ps.stores.Audiencias.Insert(ctx, nova); err != nil {
			ps.log.LogErro(ctx, nova.IDPje, nova.TRT, nova.Grau, nova.NumeroProcesso, err)
			return model.OutcomeErro
		}
		ps.log.LogInserido(ctx, nova.IDPje, nova.TRT, nova.Grau, nova.NumeroProcesso)
		return model.OutcomeInserido
	}

	camposAlterados, identicos := Comparar(snapshotAudiencia(nova), snapshotAudiencia(existente))
	if identicos {
		ps.log.LogNaoAtualizado(ctx, nova.IDPje, nova.TRT, nova.Grau, nova.NumeroProcesso)
		return model.OutcomeNaoAtualizado
	}

	anteriores, err := SnapshotAnterior(snapshotAudiencia(existente))
	if err == nil {
		err = ps.stores.Audiencias.Update(ctx, nova, anteriores)
	}
	if err != nil {
		ps.log.LogErro(ctx, nova.IDPje, nova.TRT, nova.Grau, nova.NumeroProcesso, err)
		return model.OutcomeErro
	}

	ps.log.LogAtualizado(ctx, nova.IDPje, nova.TRT, nova.Grau, nova.NumeroProcesso, camposAlterados)
	return model.OutcomeAtualizado
}

// ResolverOrgaoJulgador garante o órgão julgador referenciado por uma
// audiência antes da gravação principal (lookup-or-create).
func (ps *Persister) ResolverOrgaoJulgador(ctx context.Context, o model.OrgaoJulgador) (id int64, criado bool, err error) {
	existente, err := ps.stores.Orgaos.Find(ctx, o.IDPje, o.TRT, o.Grau)
	if err != nil {
		return 0, false, err
	}
	if existente != nil {
		return existente.ID, false, nil
	}

	if err := ps.stores.Orgaos.Insert(ctx, &o); err != nil {
		return 0, false, err
	}
	return o.ID, true, nil
}

func snapshotParte(p *model.Parte) map[string]any {
	return map[string]any{
		"id_pje":          p.IDPje,
		"trt":             p.TRT,
		"grau":            p.Grau,
		"numero_processo": p.NumeroProcesso,
		"advogado_id":     p.AdvogadoID,
		"processo_id":     p.ProcessoID,
		"nome":            p.Nome,
		"tipo":            p.Tipo,
		"polo":            p.Polo,
		"documento":       p.Documento,
	}
}

// PersistParte aplica o upsert por comparação a uma parte.
func (ps *Persister) PersistParte(ctx context.Context, nova *model.Parte) string {
	existente, err := ps.stores.Partes.FindByChaveNatural(ctx, nova.IDPje, nova.TRT, nova.Grau, nova.NumeroProcesso)
	if err != nil {
		ps.log.LogErro(ctx, nova.IDPje, nova.TRT, nova.Grau, nova.NumeroProcesso, err)
		return model.OutcomeErro
	}

	if existente == nil {
		if err := ps.stores.Partes.Insert(ctx, nova); err != nil {
			ps.log.LogErro(ctx, nova.IDPje, nova.TRT, nova.Grau, nova.NumeroProcesso, err)
			return model.OutcomeErro
		}
		ps.log.LogInserido(ctx, nova.IDPje, nova.TRT, nova.Grau, nova.NumeroProcesso)
		return model.OutcomeInserido
	}

	camposAlterados, identicos := Comparar(snapshotParte(nova), snapshotParte(existente))
	if identicos {
		ps.log.LogNaoAtualizado(ctx, nova.IDPje, nova.TRT, nova.Grau, nova.NumeroProcesso)
		return model.OutcomeNaoAtualizado
	}

	anteriores, err := SnapshotAnterior(snapshotParte(existente))
	if err == nil {
		err = ps.stores.Partes.Update(ctx, nova, anteriores)
	}
	if err != nil {
		ps.log.LogErro(ctx, nova.IDPje, nova.TRT, nova.Grau, nova.NumeroProcesso, err)
		return model.OutcomeErro
	}

	ps.log.LogAtualizado(ctx, nova.IDPje, nova.TRT, nova.Grau, nova.NumeroProcesso, camposAlterados)
	return model.OutcomeAtualizado
}

func snapshotTimelineItem(t *model.TimelineItem) map[string]any {
	return map[string]any{
		"id_pje":          t.IDPje,
		"trt":             t.TRT,
		"grau":            t.Grau,
		"numero_processo": t.NumeroProcesso,
		"advogado_id":     t.AdvogadoID,
		"tipo":            t.Tipo,
		"titulo":          t.Titulo,
		"data":            t.Data,
		"documento_id":    t.DocumentoID,
		"sigiloso":        t.Sigiloso,
		"tamanho_pdf":     t.TamanhoPdf,
	}
}

// PersistTimelineItem aplica o upsert por comparação a um item da timeline.
func (ps *Persister) PersistTimelineItem(ctx context.Context, novo *model.TimelineItem) string {
	existente, err := ps.stores.Timeline.FindByChaveNatural(ctx, novo.IDPje, novo.TRT, novo.Grau, novo.NumeroProcesso)
	if err != nil {
		ps.log.LogErro(ctx, novo.IDPje, novo.TRT, novo.Grau, novo.NumeroProcesso, err)
		return model.OutcomeErro
	}

	if existente == nil {
		if err := ps.stores.Timeline.Insert(ctx, novo); err != nil {
			ps.log.LogErro(ctx, novo.IDPje, novo.TRT, novo.Grau, novo.NumeroProcesso, err)
			return model.OutcomeErro
		}
		ps.log.LogInserido(ctx, novo.IDPje, novo.TRT, novo.Grau, novo.NumeroProcesso)
		return model.OutcomeInserido
	}

	camposAlterados, identicos := Comparar(snapshotTimelineItem(novo), snapshotTimelineItem(existente))
	if identicos {
		ps.log.LogNaoAtualizado(ctx, novo.IDPje, novo.TRT, novo.Grau, novo.NumeroProcesso)
		return model.OutcomeNaoAtualizado
	}

	anteriores, err := SnapshotAnterior(snapshotTimelineItem(existente))
	if err == nil {
		err = ps.stores.Timeline.Update(ctx, novo, anteriores)
	}
	if err != nil {
		ps.log.LogErro(ctx, novo.IDPje, novo.TRT, novo.Grau, novo.NumeroProcesso, err)
		return model.OutcomeErro
	}

	ps.log.LogAtualizado(ctx, novo.IDPje, novo.TRT, novo.Grau, novo.NumeroProcesso, camposAlterados)
	return model.OutcomeAtualizado
}
