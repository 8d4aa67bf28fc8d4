package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/assert/v2"

	"jurisync/internal/model"
)

type fakeCapturaStore struct {
	job     *model.CapturaJob
	jobs    []model.CapturaJob
	entries []model.CapturaLogEntry
	deleted bool
	err     error
}

func (f *fakeCapturaStore) BuscarJob(ctx context.Context, id int64) (*model.CapturaJob, error) {
	return f.job, f.err
}

func (f *fakeCapturaStore) ListarJobs(ctx context.Context, status string, limit, offset int) ([]model.CapturaJob, error) {
	return f.jobs, f.err
}

func (f *fakeCapturaStore) DeletarJob(ctx context.Context, id int64) (bool, error) {
	return f.deleted, f.err
}

func (f *fakeCapturaStore) ListarLogEntries(ctx context.Context, capturaID int64) ([]model.CapturaLogEntry, error) {
	return f.entries, f.err
}

type fakeCredencialStore struct {
	credenciais []model.Credencial
	err         error
}

func (f *fakeCredencialStore) ListarAtivas(ctx context.Context) ([]model.Credencial, error) {
	return f.credenciais, f.err
}

func (f *fakeCredencialStore) BuscarPorIDs(ctx context.Context, ids []int64) ([]model.Credencial, error) {
	return f.credenciais, f.err
}

type fakeCapturaService struct {
	job       *model.CapturaJob
	err       error
	executado chan struct{}
}

func (f *fakeCapturaService) Iniciar(ctx context.Context, entidade string, advogadoID int64, credencialIDs []int64) (*model.CapturaJob, error) {
	return f.job, f.err
}

func (f *fakeCapturaService) Executar(ctx context.Context, job *model.CapturaJob, credenciais []model.Credencial) {
	if f.executado != nil {
		close(f.executado)
	}
}

func newCapturaRouter(store CapturaStore, credenciais CredencialStore, service CapturaService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewCapturaHandler(store, credenciais, service)
	r.POST("/api/captura/trt/:entidade", h.IniciarCaptura)
	r.GET("/api/captura/credenciais", h.GetCredenciais)
	r.GET("/api/captura/historico", h.GetHistorico)
	r.GET("/api/captura/historico/:id", h.GetHistoricoPorID)
	r.DELETE("/api/captura/historico/:id", h.DeleteHistorico)
	r.GET("/health", h.GetHealth)
	return r
}

func TestIniciarCaptura_Accepted(t *testing.T) {
	service := &fakeCapturaService{
		job:       &model.CapturaJob{ID: 12, Status: model.StatusPending},
		executado: make(chan struct{}),
	}
	credenciais := &fakeCredencialStore{credenciais: []model.Credencial{
		{ID: 1, AdvogadoID: 7, Tribunal: "TRT1", Grau: model.GrauPrimeiro, Ativa: true},
	}}

	r := newCapturaRouter(&fakeCapturaStore{}, credenciais, service)

	w := httptest.NewRecorder()
	body := strings.NewReader(`{"advogado_id": 7, "credencial_ids": [1]}`)
	req := httptest.NewRequest("POST", "/api/captura/trt/acervo_geral", body)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusAccepted, w.Code)

	var res CapturaResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, res.Success, true)
	assert.Equal(t, res.CaptureID, int64(12))
	assert.Equal(t, res.Status, model.StatusPending)

	select {
	case <-service.executado:
	case <-time.After(time.Second):
		t.Fatal("captura não foi executada em background")
	}
}

func TestIniciarCaptura_EntidadeInvalida(t *testing.T) {
	r := newCapturaRouter(&fakeCapturaStore{}, &fakeCredencialStore{}, &fakeCapturaService{})

	w := httptest.NewRecorder()
	body := strings.NewReader(`{"advogado_id": 7, "credencial_ids": [1]}`)
	req := httptest.NewRequest("POST", "/api/captura/trt/minutas", body)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIniciarCaptura_SemCredenciais(t *testing.T) {
	r := newCapturaRouter(&fakeCapturaStore{}, &fakeCredencialStore{}, &fakeCapturaService{})

	w := httptest.NewRecorder()
	body := strings.NewReader(`{"advogado_id": 7, "credencial_ids": []}`)
	req := httptest.NewRequest("POST", "/api/captura/trt/acervo_geral", body)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIniciarCaptura_CredencialInexistente(t *testing.T) {
	// Pediu duas credenciais, só uma existe ativa.
	credenciais := &fakeCredencialStore{credenciais: []model.Credencial{
		{ID: 1, AdvogadoID: 7, Tribunal: "TRT1", Grau: model.GrauPrimeiro, Ativa: true},
	}}
	r := newCapturaRouter(&fakeCapturaStore{}, credenciais, &fakeCapturaService{})

	w := httptest.NewRecorder()
	body := strings.NewReader(`{"advogado_id": 7, "credencial_ids": [1, 2]}`)
	req := httptest.NewRequest("POST", "/api/captura/trt/acervo_geral", body)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var res CapturaResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, res.Success, false)
}

func TestGetCredenciais_AgrupaPorAdvogado(t *testing.T) {
	credenciais := &fakeCredencialStore{credenciais: []model.Credencial{
		{ID: 1, AdvogadoID: 7, AdvogadoNome: "Ana Costa", Tribunal: "TRT1", Grau: model.GrauPrimeiro},
		{ID: 2, AdvogadoID: 7, AdvogadoNome: "Ana Costa", Tribunal: "TRT1", Grau: model.GrauSegundo},
		{ID: 3, AdvogadoID: 7, AdvogadoNome: "Ana Costa", Tribunal: "TRT2", Grau: model.GrauPrimeiro},
	}}
	r := newCapturaRouter(&fakeCapturaStore{}, credenciais, &fakeCapturaService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/captura/credenciais", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res struct {
		Success bool                          `json:"success"`
		Data    []AdvogadoCredenciaisResponse `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, len(res.Data), 1)
	assert.Equal(t, res.Data[0].Nome, "Ana Costa")
	assert.Equal(t, res.Data[0].TribunaisDisponiveis, []string{"TRT1", "TRT2"})
	assert.Equal(t, res.Data[0].GrausDisponiveis, []string{model.GrauPrimeiro, model.GrauSegundo})
	assert.Equal(t, len(res.Data[0].Credenciais), 3)
}

func TestGetHistoricoPorID_ComLog(t *testing.T) {
	campos := []string{"codigo_status_processo"}
	store := &fakeCapturaStore{
		job: &model.CapturaJob{
			ID: 12, TipoCaptura: model.EntidadeAcervoGeral, Status: model.StatusCompleted,
			IniciadoEm: time.Now(),
			Resultado:  &model.ResultadoCaptura{Inseridos: 1, Atualizados: 1, Total: 2},
		},
		entries: []model.CapturaLogEntry{
			{ID: 1, Outcome: model.OutcomeInserido, NumeroProcesso: "0001234-55.2024.5.01.0001"},
			{ID: 2, Outcome: model.OutcomeAtualizado, CamposAlterados: campos},
		},
	}
	r := newCapturaRouter(store, &fakeCredencialStore{}, &fakeCapturaService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/captura/historico/12", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res struct {
		Success bool                     `json:"success"`
		Status  string                   `json:"status"`
		Data    HistoricoDetalheResponse `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, res.Status, model.StatusCompleted)
	assert.Equal(t, res.Data.Captura.Resultado.Total, 2)
	assert.Equal(t, len(res.Data.Log), 2)
	assert.Equal(t, res.Data.Log[1].CamposAlterados, campos)
}

func TestGetHistoricoPorID_NaoEncontrado(t *testing.T) {
	r := newCapturaRouter(&fakeCapturaStore{}, &fakeCredencialStore{}, &fakeCapturaService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/captura/historico/999", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteHistorico(t *testing.T) {
	r := newCapturaRouter(&fakeCapturaStore{deleted: true}, &fakeCredencialStore{}, &fakeCapturaService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("DELETE", "/api/captura/historico/12", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDeleteHistorico_NaoEncontrado(t *testing.T) {
	r := newCapturaRouter(&fakeCapturaStore{deleted: false}, &fakeCredencialStore{}, &fakeCapturaService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("DELETE", "/api/captura/historico/999", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetHealth_Unhealthy(t *testing.T) {
	r := newCapturaRouter(&fakeCapturaStore{err: errors.New("DB down")}, &fakeCredencialStore{}, &fakeCapturaService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/health", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var res map[string]string
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, "unhealthy", res["status"])
}
