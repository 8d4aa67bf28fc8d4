package captura

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"

	"jurisync/internal/model"
)

type fakeLogStore struct {
	entries []model.CapturaLogEntry
	err     error
}

func (s *fakeLogStore) AppendLogEntry(ctx context.Context, e *model.CapturaLogEntry) error {
	if s.err != nil {
		return s.err
	}
	s.entries = append(s.entries, *e)
	return nil
}

func chave(idPje int64, trt, grau, numeroProcesso string) string {
	return fmt.Sprintf("%d|%s|%s|%s", idPje, trt, grau, numeroProcesso)
}

type fakeAcervoStore struct {
	processos map[string]*model.Processo
	findErr   error
	insertErr error

	inserts     int
	updates     int
	ultimoAudit json.RawMessage
}

func newFakeAcervoStore() *fakeAcervoStore {
	return &fakeAcervoStore{processos: map[string]*model.Processo{}}
}

func (s *fakeAcervoStore) FindByChaveNatural(ctx context.Context, idPje int64, trt, grau, numeroProcesso string) (*model.Processo, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.processos[chave(idPje, trt, grau, numeroProcesso)], nil
}

func (s *fakeAcervoStore) Insert(ctx context.Context, p *model.Processo) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.inserts++
	p.ID = int64(s.inserts)
	s.processos[chave(p.IDPje, p.TRT, p.Grau, p.NumeroProcesso)] = p
	return nil
}

func (s *fakeAcervoStore) Update(ctx context.Context, p *model.Processo, dadosAnteriores json.RawMessage) error {
	s.updates++
	s.ultimoAudit = dadosAnteriores
	s.processos[chave(p.IDPje, p.TRT, p.Grau, p.NumeroProcesso)] = p
	return nil
}

func (s *fakeAcervoStore) ListarPorAdvogado(ctx context.Context, advogadoID int64, trt, grau string) ([]model.Processo, error) {
	var out []model.Processo
	for _, p := range s.processos {
		if p.AdvogadoID == advogadoID && p.TRT == trt && p.Grau == grau {
			out = append(out, *p)
		}
	}
	return out, nil
}

type fakeOrgaoStore struct {
	orgaos  map[string]*model.OrgaoJulgador
	inserts int
}

func newFakeOrgaoStore() *fakeOrgaoStore {
	return &fakeOrgaoStore{orgaos: map[string]*model.OrgaoJulgador{}}
}

func (s *fakeOrgaoStore) Find(ctx context.Context, idPje int64, trt, grau string) (*model.OrgaoJulgador, error) {
	return s.orgaos[chave(idPje, trt, grau, "")], nil
}

func (s *fakeOrgaoStore) Insert(ctx context.Context, o *model.OrgaoJulgador) error {
	s.inserts++
	o.ID = int64(s.inserts)
	s.orgaos[chave(o.IDPje, o.TRT, o.Grau, "")] = o
	return nil
}

func processoTRT1(status string) *model.Processo {
	return &model.Processo{
		IDPje:                  101,
		AdvogadoID:             7,
		TRT:                    "TRT1",
		Grau:                   model.GrauPrimeiro,
		Origem:                 model.OrigemAcervoGeral,
		NumeroProcesso:         "0001234-55.2024.5.01.0001",
		Numero:                 1234,
		DescricaoOrgaoJulgador: "1ª Vara do Trabalho do Rio de Janeiro",
		ClasseJudicial:         "ATOrd",
		CodigoStatusProcesso:   status,
		NomeParteAutora:        "Maria da Silva",
		QtdeParteAutora:        1,
		NomeParteRe:            "Empresa XYZ Ltda",
		QtdeParteRe:            1,
		DataAutuacao:           time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
	}
}

func newTestPersister(acervo *fakeAcervoStore, orgaos *fakeOrgaoStore, logs *fakeLogStore) *Persister {
	return NewPersister(Stores{Acervo: acervo, Orgaos: orgaos}, NewCaptureLog(logs, 1, model.EntidadeAcervoGeral))
}

func TestPersistProcessoInsereNovo(t *testing.T) {
	acervo := newFakeAcervoStore()
	logs := &fakeLogStore{}
	persister := newTestPersister(acervo, nil, logs)

	outcome := persister.PersistProcesso(context.Background(), processoTRT1("D"))

	assert.Equal(t, outcome, model.OutcomeInserido)
	assert.Equal(t, acervo.inserts, 1)
	assert.Equal(t, acervo.updates, 0)
	assert.Equal(t, len(logs.entries), 1)
	assert.Equal(t, logs.entries[0].Outcome, model.OutcomeInserido)
	assert.Equal(t, logs.entries[0].CapturaID, int64(1))
	assert.Equal(t, logs.entries[0].Entidade, model.EntidadeAcervoGeral)
}

func TestPersistProcessoIdenticoNaoRegrava(t *testing.T) {
	acervo := newFakeAcervoStore()
	logs := &fakeLogStore{}
	persister := newTestPersister(acervo, nil, logs)

	existente := processoTRT1("D")
	existente.ID = 42
	existente.CreatedAt = time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)
	existente.UpdatedAt = existente.CreatedAt
	acervo.processos[chave(existente.IDPje, existente.TRT, existente.Grau, existente.NumeroProcesso)] = existente

	outcome := persister.PersistProcesso(context.Background(), processoTRT1("D"))

	assert.Equal(t, outcome, model.OutcomeNaoAtualizado)
	assert.Equal(t, acervo.inserts, 0)
	assert.Equal(t, acervo.updates, 0)
	assert.Equal(t, logs.entries[0].Outcome, model.OutcomeNaoAtualizado)
}

func TestPersistProcessoAtualizaComAuditoria(t *testing.T) {
	acervo := newFakeAcervoStore()
	logs := &fakeLogStore{}
	persister := newTestPersister(acervo, nil, logs)

	existente := processoTRT1("D")
	existente.ID = 42
	acervo.processos[chave(existente.IDPje, existente.TRT, existente.Grau, existente.NumeroProcesso)] = existente

	outcome := persister.PersistProcesso(context.Background(), processoTRT1("A"))

	assert.Equal(t, outcome, model.OutcomeAtualizado)
	assert.Equal(t, acervo.updates, 1)
	assert.Equal(t, logs.entries[0].Outcome, model.OutcomeAtualizado)
	assert.Equal(t, logs.entries[0].CamposAlterados, []string{"codigo_status_processo"})

	var audit map[string]any
	if err := json.Unmarshal(acervo.ultimoAudit, &audit); err != nil {
		t.Fatalf("dados_anteriores inválido: %v", err)
	}
	assert.Equal(t, audit["codigo_status_processo"], "D")

	// Campos de controle ficam fora do snapshot de auditoria.
	for _, campo := range []string{"id", "created_at", "updated_at", "dados_anteriores", "id_pje"} {
		if _, ok := audit[campo]; ok {
			t.Fatalf("campo de controle %q presente em dados_anteriores", campo)
		}
	}
}

func TestPersistProcessoErroViraContadorNaoPanico(t *testing.T) {
	acervo := newFakeAcervoStore()
	acervo.findErr = errors.New("connection refused")
	logs := &fakeLogStore{}
	persister := newTestPersister(acervo, nil, logs)

	outcome := persister.PersistProcesso(context.Background(), processoTRT1("D"))

	assert.Equal(t, outcome, model.OutcomeErro)
	assert.Equal(t, logs.entries[0].Outcome, model.OutcomeErro)
	assert.Equal(t, *logs.entries[0].Erro, "connection refused")
}

func TestPersistProcessoFalhaDoLedgerNaoPropaga(t *testing.T) {
	acervo := newFakeAcervoStore()
	logs := &fakeLogStore{err: errors.New("log table gone")}
	persister := newTestPersister(acervo, nil, logs)

	outcome := persister.PersistProcesso(context.Background(), processoTRT1("D"))

	assert.Equal(t, outcome, model.OutcomeInserido)
	assert.Equal(t, acervo.inserts, 1)
}

func TestResolverOrgaoJulgadorCriaUmaVez(t *testing.T) {
	orgaos := newFakeOrgaoStore()
	persister := newTestPersister(newFakeAcervoStore(), orgaos, &fakeLogStore{})

	orgao := model.OrgaoJulgador{IDPje: 9, TRT: "TRT1", Grau: model.GrauPrimeiro, Descricao: "1ª Vara"}

	id, criado, err := persister.ResolverOrgaoJulgador(context.Background(), orgao)
	assert.Equal(t, err, nil)
	assert.Equal(t, criado, true)

	id2, criado2, err := persister.ResolverOrgaoJulgador(context.Background(), orgao)
	assert.Equal(t, err, nil)
	assert.Equal(t, criado2, false)
	assert.Equal(t, id, id2)
	assert.Equal(t, orgaos.inserts, 1)
}

func TestCompararIgnoraRepresentacaoDeDatas(t *testing.T) {
	local := time.FixedZone("BRT", -3*3600)
	a := map[string]any{"data_autuacao": time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)}
	b := map[string]any{"data_autuacao": time.Date(2024, 1, 14, 21, 0, 0, 0, local)}

	campos, identicos := Comparar(a, b)
	assert.Equal(t, identicos, true)
	assert.Equal(t, len(campos), 0)
}

func TestCompararOrdenaCamposAlterados(t *testing.T) {
	novo := map[string]any{"origem": "pendente", "classe_judicial": "ATSum", "numero": int64(1)}
	velho := map[string]any{"origem": "acervo_geral", "classe_judicial": "ATOrd", "numero": int64(1)}

	campos, identicos := Comparar(novo, velho)
	assert.Equal(t, identicos, false)
	assert.Equal(t, campos, []string{"classe_judicial", "origem"})
}
