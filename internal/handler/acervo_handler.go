package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"jurisync/internal/acervo"
	"jurisync/internal/model"
)

var origensValidas = map[string]bool{
	model.OrigemAcervoGeral: true,
	model.OrigemArquivado:   true,
	model.OrigemPendente:    true,
}

var grausValidos = map[string]bool{
	model.GrauPrimeiro: true,
	model.GrauSegundo:  true,
}

// AcervoService entrega a visão unificada. Satisfeita por *acervo.Service.
type AcervoService interface {
	Listar(ctx context.Context, f model.AcervoFiltro) (*acervo.Resultado, error)
}

type AcervoHandler struct {
	service AcervoService
}

func NewAcervoHandler(service AcervoService) *AcervoHandler {
	return &AcervoHandler{service: service}
}

// GetUnificado lista o acervo agrupado por numero_processo.
func (h *AcervoHandler) GetUnificado(c *gin.Context) {
	filtro, msg := parseAcervoFiltro(c)
	if msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	resultado, err := h.service.Listar(c.Request.Context(), filtro)
	if err != nil {
		slog.Error("error listing unified docket", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	processos := make([]ProcessoUnificadoResponse, 0, len(resultado.Processos))
	for _, p := range resultado.Processos {
		processos = append(processos, processoUnificadoResponse(p))
	}

	c.JSON(http.StatusOK, AcervoResponse{
		Processos:    processos,
		Total:        resultado.Total,
		Pagina:       resultado.Pagina,
		Limite:       resultado.Limite,
		TotalPaginas: resultado.TotalPaginas,
	})
}

func parseAcervoFiltro(c *gin.Context) (model.AcervoFiltro, string) {
	f := model.AcervoFiltro{
		Busca:          c.Query("busca"),
		Origem:         c.Query("origem"),
		TRT:            c.Query("trt"),
		Grau:           c.Query("grau"),
		NumeroProcesso: c.Query("numero_processo"),
		OrdenarPor:     c.Query("ordenar_por"),
		Ordem:          c.Query("ordem"),
		Pagina:         getQueryInt("pagina", 1, c),
		Limite:         getQueryInt("limite", 0, c),
	}

	if f.Origem != "" && !origensValidas[f.Origem] {
		return f, "origem inválida: " + f.Origem
	}
	if f.Grau != "" && !grausValidos[f.Grau] {
		return f, "grau inválido: " + f.Grau
	}

	if v := c.Query("responsavel_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return f, "responsavel_id inválido"
		}
		f.ResponsavelID = &id
	}
	if c.Query("sem_responsavel") == "true" {
		f.SemResponsavel = true
	}

	for _, campo := range []struct {
		nome string
		dest **time.Time
	}{
		{"data_autuacao_inicio", &f.DataAutuacaoInicio},
		{"data_autuacao_fim", &f.DataAutuacaoFim},
		{"data_arquivamento_inicio", &f.DataArquivamentoInicio},
		{"data_arquivamento_fim", &f.DataArquivamentoFim},
	} {
		v := c.Query(campo.nome)
		if v == "" {
			continue
		}
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return f, campo.nome + " inválido, use AAAA-MM-DD"
		}
		*campo.dest = &t
	}

	return f, ""
}

func processoUnificadoResponse(p model.ProcessoUnificado) ProcessoUnificadoResponse {
	instances := make([]InstanciaResponse, 0, len(p.Instances))
	for _, inst := range p.Instances {
		instances = append(instances, InstanciaResponse{
			ID:           inst.ID,
			Grau:         inst.Grau,
			Origem:       inst.Origem,
			TRT:          inst.TRT,
			DataAutuacao: inst.DataAutuacao.Format(time.RFC3339),
			UpdatedAt:    inst.UpdatedAt.Format(time.RFC3339),
			IsGrauAtual:  inst.IsGrauAtual,
		})
	}

	return ProcessoUnificadoResponse{
		ID:                     p.ID,
		NumeroProcesso:         p.NumeroProcesso,
		Numero:                 p.Numero,
		TRT:                    p.TRT,
		Origem:                 p.Origem,
		GrauAtual:              p.GrauAtual,
		GrausAtivos:            p.GrausAtivos,
		DescricaoOrgaoJulgador: p.DescricaoOrgaoJulgador,
		ClasseJudicial:         p.ClasseJudicial,
		SegredoJustica:         p.SegredoJustica,
		CodigoStatusProcesso:   p.CodigoStatusProcesso,
		PrioridadeProcessual:   p.PrioridadeProcessual,
		NomeParteAutora:        p.NomeParteAutora,
		QtdeParteAutora:        p.QtdeParteAutora,
		NomeParteRe:            p.NomeParteRe,
		QtdeParteRe:            p.QtdeParteRe,
		DataAutuacao:           p.DataAutuacao.Format(time.RFC3339),
		JuizoDigital:           p.JuizoDigital,
		DataArquivamento:       formatTimePtr(p.DataArquivamento),
		DataProximaAudiencia:   formatTimePtr(p.DataProximaAudiencia),
		TemAssociacao:          p.TemAssociacao,
		ResponsavelID:          p.ResponsavelID,
		Instances:              instances,
	}
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
