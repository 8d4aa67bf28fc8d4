package captura

import (
	"strings"
	"time"

	"jurisync/internal/model"
	"jurisync/pkg/pje"
)

// Formatos de data observados nas respostas do PJE. A API ora devolve
// RFC3339, ora timestamp sem fuso, ora só a data.
var formatosDataPJE = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseDataPJE(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range formatosDataPJE {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseDataPJEPtr(s *string) *time.Time {
	if s == nil {
		return nil
	}
	if t, ok := parseDataPJE(*s); ok {
		return &t
	}
	return nil
}

func converterProcesso(p pje.Processo, cred model.Credencial, origem string) *model.Processo {
	dataAutuacao, _ := parseDataPJE(p.DataAutuacao)

	return &model.Processo{
		IDPje:                  p.ID,
		AdvogadoID:             cred.AdvogadoID,
		TRT:                    cred.Tribunal,
		Grau:                   cred.Grau,
		Origem:                 origem,
		NumeroProcesso:         strings.TrimSpace(p.NumeroProcesso),
		Numero:                 p.Numero,
		DescricaoOrgaoJulgador: p.DescricaoOrgaoJulgador,
		ClasseJudicial:         p.ClasseJudicial,
		SegredoJustica:         p.SegredoDeJustica,
		CodigoStatusProcesso:   p.CodigoStatusProcesso,
		PrioridadeProcessual:   p.PrioridadeProcessual,
		NomeParteAutora:        p.NomeParteAutora,
		QtdeParteAutora:        p.QtdeParteAutora,
		NomeParteRe:            p.NomeParteRe,
		QtdeParteRe:            p.QtdeParteRe,
		DataAutuacao:           dataAutuacao,
		JuizoDigital:           p.JuizoDigital,
		DataArquivamento:       parseDataPJEPtr(p.DataArquivamento),
		DataProximaAudiencia:   parseDataPJEPtr(p.DataProximaAudiencia),
		TemAssociacao:          p.TemAssociacao,
	}
}

func converterAudiencia(a pje.Audiencia, cred model.Credencial) *model.Audiencia {
	dataInicio, _ := parseDataPJE(a.DataInicio)
	dataFim, _ := parseDataPJE(a.DataFim)

	audiencia := &model.Audiencia{
		IDPje:      a.ID,
		AdvogadoID: cred.AdvogadoID,
		TRT:        cred.Tribunal,
		Grau:       cred.Grau,
		DataInicio: dataInicio,
		DataFim:    dataFim,
		Status:     a.Status,
	}

	if a.URLAudienciaVirtual != "" {
		audiencia.URLVirtual = &a.URLAudienciaVirtual
	}
	if a.SalaAudiencia != nil {
		audiencia.SalaAudiencia = &a.SalaAudiencia.Nome
	}
	if a.Tipo != nil {
		audiencia.TipoDescricao = &a.Tipo.Descricao
	}
	if a.PoloAtivo != nil {
		audiencia.PoloAtivoNome = &a.PoloAtivo.Nome
	}
	if a.PoloPassivo != nil {
		audiencia.PoloPassivoNome = &a.PoloPassivo.Nome
	}
	if a.Processo != nil {
		audiencia.NumeroProcesso = strings.TrimSpace(a.Processo.Numero)
	}
	return audiencia
}

func converterOrgaoJulgador(o pje.OrgaoJulgador, cred model.Credencial) model.OrgaoJulgador {
	descricao := o.Descricao
	if descricao == "" {
		descricao = o.Nome
	}
	return model.OrgaoJulgador{
		IDPje:              o.ID,
		TRT:                cred.Tribunal,
		Grau:               cred.Grau,
		Descricao:          descricao,
		Cejusc:             o.Cejusc,
		Ativo:              o.Ativo,
		PostoAvancado:      o.PostoAvancado,
		CodigoServentiaCnj: o.CodigoServentiaCnj,
	}
}

func converterParte(p pje.Parte, processo model.Processo) *model.Parte {
	parte := &model.Parte{
		IDPje:          p.ID,
		AdvogadoID:     processo.AdvogadoID,
		ProcessoID:     &processo.ID,
		TRT:            processo.TRT,
		Grau:           processo.Grau,
		NumeroProcesso: processo.NumeroProcesso,
		Nome:           p.Nome,
		Tipo:           p.Tipo,
		Polo:           p.Polo,
	}
	if p.Documento != "" {
		parte.Documento = &p.Documento
	}
	return parte
}

func converterTimelineItem(t pje.TimelineItem, processo model.Processo) *model.TimelineItem {
	data, _ := parseDataPJE(t.Data)
	return &model.TimelineItem{
		IDPje:          t.ID,
		AdvogadoID:     processo.AdvogadoID,
		TRT:            processo.TRT,
		Grau:           processo.Grau,
		NumeroProcesso: processo.NumeroProcesso,
		Tipo:           t.Tipo,
		Titulo:         t.Titulo,
		Data:           data,
		DocumentoID:    t.IDDocumento,
		Sigiloso:       t.Sigiloso,
	}
}
