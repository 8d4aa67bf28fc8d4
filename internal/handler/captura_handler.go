package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"jurisync/internal/model"
)

var entidadesCaptura = map[string]bool{
	model.EntidadeAcervoGeral: true,
	model.EntidadeArquivados:  true,
	model.EntidadeAudiencias:  true,
	model.EntidadePendentes:   true,
	model.EntidadePartes:      true,
	model.EntidadeTimeline:    true,
}

type CapturaStore interface {
	BuscarJob(ctx context.Context, id int64) (*model.CapturaJob, error)
	ListarJobs(ctx context.Context, status string, limit, offset int) ([]model.CapturaJob, error)
	DeletarJob(ctx context.Context, id int64) (bool, error)
	ListarLogEntries(ctx context.Context, capturaID int64) ([]model.CapturaLogEntry, error)
}

type CredencialStore interface {
	ListarAtivas(ctx context.Context) ([]model.Credencial, error)
	BuscarPorIDs(ctx context.Context, ids []int64) ([]model.Credencial, error)
}

// CapturaService dispara jobs de captura. Satisfeita por *captura.Orchestrator.
type CapturaService interface {
	Iniciar(ctx context.Context, entidade string, advogadoID int64, credencialIDs []int64) (*model.CapturaJob, error)
	Executar(ctx context.Context, job *model.CapturaJob, credenciais []model.Credencial)
}

type CapturaHandler struct {
	repository  CapturaStore
	credenciais CredencialStore
	service     CapturaService
}

func NewCapturaHandler(repository CapturaStore, credenciais CredencialStore, service CapturaService) *CapturaHandler {
	return &CapturaHandler{repository: repository, credenciais: credenciais, service: service}
}

// IniciarCaptura registra o job e o executa em background. A resposta traz o
// capture_id para acompanhamento pelo histórico.
func (h *CapturaHandler) IniciarCaptura(c *gin.Context) {
	entidade := c.Param("entidade")
	if !entidadesCaptura[entidade] {
		c.JSON(http.StatusBadRequest, CapturaResponse{Success: false, Error: "entidade de captura inválida: " + entidade})
		return
	}

	var req CapturaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, CapturaResponse{Success: false, Error: "corpo da requisição inválido"})
		return
	}
	if req.AdvogadoID == 0 || len(req.CredencialIDs) == 0 {
		c.JSON(http.StatusBadRequest, CapturaResponse{Success: false, Error: "advogado_id e credencial_ids são obrigatórios"})
		return
	}

	credenciais, err := h.credenciais.BuscarPorIDs(c.Request.Context(), req.CredencialIDs)
	if err != nil {
		slog.Error("error fetching credentials", "error", err)
		c.JSON(http.StatusInternalServerError, CapturaResponse{Success: false, Error: "Database error"})
		return
	}
	if len(credenciais) != len(req.CredencialIDs) {
		c.JSON(http.StatusUnprocessableEntity, CapturaResponse{Success: false, Error: "credencial inexistente ou inativa"})
		return
	}

	job, err := h.service.Iniciar(c.Request.Context(), entidade, req.AdvogadoID, req.CredencialIDs)
	if err != nil {
		slog.Error("error creating capture job", "error", err, "entidade", entidade)
		c.JSON(http.StatusInternalServerError, CapturaResponse{Success: false, Error: "Database error"})
		return
	}

	// A requisição não espera a captura: o job segue com contexto próprio.
	go h.service.Executar(context.Background(), job, credenciais)

	c.JSON(http.StatusAccepted, CapturaResponse{
		Success:   true,
		Status:    job.Status,
		CaptureID: job.ID,
	})
}

// GetCredenciais lista as credenciais ativas agrupadas por advogado.
func (h *CapturaHandler) GetCredenciais(c *gin.Context) {
	credenciais, err := h.credenciais.ListarAtivas(c.Request.Context())
	if err != nil {
		slog.Error("error fetching credentials", "error", err)
		c.JSON(http.StatusInternalServerError, CapturaResponse{Success: false, Error: "Database error"})
		return
	}

	porAdvogado := map[int64]*AdvogadoCredenciaisResponse{}
	var ordem []int64
	for _, cred := range credenciais {
		grupo, ok := porAdvogado[cred.AdvogadoID]
		if !ok {
			grupo = &AdvogadoCredenciaisResponse{
				AdvogadoID: cred.AdvogadoID,
				Nome:       cred.AdvogadoNome,
				CPF:        cred.AdvogadoCPF,
				OAB:        cred.AdvogadoOAB,
				UFOab:      cred.UFOab,
			}
			porAdvogado[cred.AdvogadoID] = grupo
			ordem = append(ordem, cred.AdvogadoID)
		}

		grupo.Credenciais = append(grupo.Credenciais, CredencialResponse{
			ID: cred.ID, Tribunal: cred.Tribunal, Grau: cred.Grau,
		})
		grupo.TribunaisDisponiveis = appendUnico(grupo.TribunaisDisponiveis, cred.Tribunal)
		grupo.GrausDisponiveis = appendUnico(grupo.GrausDisponiveis, cred.Grau)
	}

	res := make([]AdvogadoCredenciaisResponse, 0, len(ordem))
	for _, id := range ordem {
		res = append(res, *porAdvogado[id])
	}

	c.JSON(http.StatusOK, CapturaResponse{Success: true, Data: res})
}

// GetHistorico lista os jobs de captura, mais recentes primeiro.
func (h *CapturaHandler) GetHistorico(c *gin.Context) {
	limit := getQueryLimit(c)
	offset := getQueryOffset(c)
	status := c.Query("status")

	jobs, err := h.repository.ListarJobs(c.Request.Context(), status, limit, offset)
	if err != nil {
		slog.Error("error fetching capture history", "error", err)
		c.JSON(http.StatusInternalServerError, CapturaResponse{Success: false, Error: "Database error"})
		return
	}

	res := make([]JobResponse, 0, len(jobs))
	for _, job := range jobs {
		res = append(res, jobResponse(job))
	}

	c.JSON(http.StatusOK, CapturaResponse{Success: true, Data: res})
}

// GetHistoricoPorID retorna um job com seu log de captura.
func (h *CapturaHandler) GetHistoricoPorID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, CapturaResponse{Success: false, Error: "id inválido"})
		return
	}

	job, err := h.repository.BuscarJob(c.Request.Context(), id)
	if err != nil {
		slog.Error("error fetching capture job", "error", err, "captura_id", id)
		c.JSON(http.StatusInternalServerError, CapturaResponse{Success: false, Error: "Database error"})
		return
	}
	if job == nil {
		c.JSON(http.StatusNotFound, CapturaResponse{Success: false, Error: "captura não encontrada"})
		return
	}

	entries, err := h.repository.ListarLogEntries(c.Request.Context(), id)
	if err != nil {
		slog.Error("error fetching capture log", "error", err, "captura_id", id)
		c.JSON(http.StatusInternalServerError, CapturaResponse{Success: false, Error: "Database error"})
		return
	}

	log := make([]LogEntryResponse, 0, len(entries))
	for _, e := range entries {
		log = append(log, LogEntryResponse{
			ID:              e.ID,
			Entidade:        e.Entidade,
			IDPje:           e.IDPje,
			TRT:             e.TRT,
			Grau:            e.Grau,
			NumeroProcesso:  e.NumeroProcesso,
			Outcome:         e.Outcome,
			CamposAlterados: e.CamposAlterados,
			Erro:            e.Erro,
			CreatedAt:       e.CreatedAt.Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, CapturaResponse{
		Success: true,
		Status:  job.Status,
		Data:    HistoricoDetalheResponse{Captura: jobResponse(*job), Log: log},
	})
}

// DeleteHistorico remove um job e suas entradas de log.
func (h *CapturaHandler) DeleteHistorico(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, CapturaResponse{Success: false, Error: "id inválido"})
		return
	}

	removido, err := h.repository.DeletarJob(c.Request.Context(), id)
	if err != nil {
		slog.Error("error deleting capture job", "error", err, "captura_id", id)
		c.JSON(http.StatusInternalServerError, CapturaResponse{Success: false, Error: "Database error"})
		return
	}
	if !removido {
		c.JSON(http.StatusNotFound, CapturaResponse{Success: false, Error: "captura não encontrada"})
		return
	}

	c.JSON(http.StatusOK, CapturaResponse{Success: true})
}

func (h *CapturaHandler) GetHealth(c *gin.Context) {
	_, err := h.repository.ListarJobs(c.Request.Context(), "", 1, 0)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"database": "disconnected",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"database": "connected",
	})
}

func jobResponse(job model.CapturaJob) JobResponse {
	res := JobResponse{
		ID:            job.ID,
		TipoCaptura:   job.TipoCaptura,
		AdvogadoID:    job.AdvogadoID,
		CredencialIDs: job.CredencialIDs,
		Status:        job.Status,
		Resultado:     job.Resultado,
		Erro:          job.Erro,
		IniciadoEm:    job.IniciadoEm.Format(time.RFC3339),
	}
	if job.ConcluidoEm != nil {
		concluido := job.ConcluidoEm.Format(time.RFC3339)
		res.ConcluidoEm = &concluido
	}
	return res
}

func appendUnico(valores []string, v string) []string {
	for _, existente := range valores {
		if existente == v {
			return valores
		}
	}
	return append(valores, v)
}

func getQueryInt(name string, defaultValue int, c *gin.Context) int {
	param := c.Query(name)

	if param == "" {
		return defaultValue
	}

	parsed, err := strconv.Atoi(param)
	if err != nil {
		slog.Warn("invalid query parameter, using default", "param", name, "value", param, "error", err)
		return defaultValue
	}

	return parsed
}

func getQueryLimit(c *gin.Context) int {
	const (
		defaultLimit = 20
		maxLimit     = 100
	)

	limit := getQueryInt("limit", defaultLimit, c)
	if limit < 1 {
		slog.Warn("invalid query parameter, using default", "param", "limit", "value", limit, "default", defaultLimit)
		return defaultLimit
	}

	if limit > maxLimit {
		slog.Warn("query parameter exceeds max, clamping", "param", "limit", "value", limit, "max", maxLimit)
		return maxLimit
	}

	return limit
}

func getQueryOffset(c *gin.Context) int {
	offset := getQueryInt("offset", 0, c)
	if offset < 0 {
		slog.Warn("invalid query parameter, using default", "param", "offset", "value", offset, "default", 0)
		return 0
	}
	return offset
}
