package captura

import (
	"context"
	"log/slog"

	"jurisync/internal/model"
)

// LogStore persiste entradas do ledger de captura.
type LogStore interface {
	AppendLogEntry(ctx context.Context, e *model.CapturaLogEntry) error
}

// CaptureLog grava uma entrada imutável por registro processado de um job.
// Falha ao gravar nunca interrompe a captura: o ledger é observabilidade,
// não caminho crítico.
type CaptureLog struct {
	store     LogStore
	capturaID int64
	entidade  string
}

func NewCaptureLog(store LogStore, capturaID int64, entidade string) *CaptureLog {
	return &CaptureLog{store: store, capturaID: capturaID, entidade: entidade}
}

func (l *CaptureLog) append(ctx context.Context, e model.CapturaLogEntry) {
	e.CapturaID = l.capturaID
	e.Entidade = l.entidade
	if err := l.store.AppendLogEntry(ctx, &e); err != nil {
		slog.Error("error writing capture log entry", "error", err,
			"captura_id", l.capturaID, "entidade", l.entidade, "outcome", e.Outcome)
	}
}

func (l *CaptureLog) LogInserido(ctx context.Context, idPje int64, trt, grau, numeroProcesso string) {
	l.append(ctx, model.CapturaLogEntry{
		IDPje: idPje, TRT: trt, Grau: grau, NumeroProcesso: numeroProcesso,
		Outcome: model.OutcomeInserido,
	})
}

func (l *CaptureLog) LogAtualizado(ctx context.Context, idPje int64, trt, grau, numeroProcesso string, camposAlterados []string) {
	l.append(ctx, model.CapturaLogEntry{
		IDPje: idPje, TRT: trt, Grau: grau, NumeroProcesso: numeroProcesso,
		Outcome: model.OutcomeAtualizado, CamposAlterados: camposAlterados,
	})
}

func (l *CaptureLog) LogNaoAtualizado(ctx context.Context, idPje int64, trt, grau, numeroProcesso string) {
	l.append(ctx, model.CapturaLogEntry{
		IDPje: idPje, TRT: trt, Grau: grau, NumeroProcesso: numeroProcesso,
		Outcome: model.OutcomeNaoAtualizado,
	})
}

func (l *CaptureLog) LogErro(ctx context.Context, idPje int64, trt, grau, numeroProcesso string, err error) {
	msg := err.Error()
	l.append(ctx, model.CapturaLogEntry{
		IDPje: idPje, TRT: trt, Grau: grau, NumeroProcesso: numeroProcesso,
		Outcome: model.OutcomeErro, Erro: &msg,
	})
}
