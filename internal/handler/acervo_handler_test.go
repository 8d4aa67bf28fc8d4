package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/assert/v2"

	"jurisync/internal/acervo"
	"jurisync/internal/model"
)

type fakeAcervoService struct {
	resultado *acervo.Resultado
	filtro    model.AcervoFiltro
	err       error
}

func (f *fakeAcervoService) Listar(ctx context.Context, filtro model.AcervoFiltro) (*acervo.Resultado, error) {
	f.filtro = filtro
	return f.resultado, f.err
}

func newAcervoRouter(service AcervoService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewAcervoHandler(service)
	r.GET("/api/acervo/unificado", h.GetUnificado)
	return r
}

func TestGetUnificado_ReturnProcessos(t *testing.T) {
	arquivado := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	service := &fakeAcervoService{resultado: &acervo.Resultado{
		Processos: []model.ProcessoUnificado{{
			Processo: model.Processo{
				ID:               2,
				NumeroProcesso:   "0001234-55.2024.5.01.0001",
				TRT:              "TRT1",
				Grau:             model.GrauSegundo,
				Origem:           model.OrigemAcervoGeral,
				DataAutuacao:     time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
				DataArquivamento: &arquivado,
			},
			GrauAtual:   model.GrauSegundo,
			GrausAtivos: []string{model.GrauPrimeiro, model.GrauSegundo},
			Instances: []model.ProcessoInstancia{
				{ID: 1, Grau: model.GrauPrimeiro},
				{ID: 2, Grau: model.GrauSegundo, IsGrauAtual: true},
			},
		}},
		Total: 1, Pagina: 1, Limite: 20, TotalPaginas: 1,
	}}

	r := newAcervoRouter(service)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/acervo/unificado", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res AcervoResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, res.Total, 1)
	assert.Equal(t, len(res.Processos), 1)
	assert.Equal(t, res.Processos[0].GrauAtual, model.GrauSegundo)
	assert.Equal(t, res.Processos[0].GrausAtivos, []string{model.GrauPrimeiro, model.GrauSegundo})
	assert.Equal(t, len(res.Processos[0].Instances), 2)
	assert.Equal(t, res.Processos[0].Instances[1].IsGrauAtual, true)
	assert.NotEqual(t, res.Processos[0].DataArquivamento, nil)
}

func TestGetUnificado_RepassaFiltros(t *testing.T) {
	service := &fakeAcervoService{resultado: &acervo.Resultado{Pagina: 2, Limite: 50}}
	r := newAcervoRouter(service)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET",
		"/api/acervo/unificado?trt=TRT1&grau=segundo_grau&origem=pendente&pagina=2&limite=50&busca=Maria&sem_responsavel=true&data_autuacao_inicio=2024-01-01", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, service.filtro.TRT, "TRT1")
	assert.Equal(t, service.filtro.Grau, model.GrauSegundo)
	assert.Equal(t, service.filtro.Origem, model.OrigemPendente)
	assert.Equal(t, service.filtro.Pagina, 2)
	assert.Equal(t, service.filtro.Limite, 50)
	assert.Equal(t, service.filtro.Busca, "Maria")
	assert.Equal(t, service.filtro.SemResponsavel, true)
	assert.Equal(t, service.filtro.DataAutuacaoInicio.Format("2006-01-02"), "2024-01-01")
}

func TestGetUnificado_OrigemInvalida(t *testing.T) {
	r := newAcervoRouter(&fakeAcervoService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/acervo/unificado?origem=rascunhos", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetUnificado_GrauInvalido(t *testing.T) {
	r := newAcervoRouter(&fakeAcervoService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/acervo/unificado?grau=terceiro_grau", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetUnificado_DataInvalida(t *testing.T) {
	r := newAcervoRouter(&fakeAcervoService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/acervo/unificado?data_autuacao_inicio=01-01-2024", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetUnificado_DBError(t *testing.T) {
	r := newAcervoRouter(&fakeAcervoService{err: errors.New("DB down")})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/acervo/unificado", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
