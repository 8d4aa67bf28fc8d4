package model

import "time"

// AcervoFiltro são os filtros da listagem unificada do acervo.
// Grau é propriedade do processo unificado e só é aplicado após o
// agrupamento; os demais filtros valem para instâncias individuais.
type AcervoFiltro struct {
	Busca          string
	Origem         string
	TRT            string
	Grau           string
	NumeroProcesso string
	ResponsavelID  *int64
	SemResponsavel bool

	DataAutuacaoInicio     *time.Time
	DataAutuacaoFim        *time.Time
	DataArquivamentoInicio *time.Time
	DataArquivamentoFim    *time.Time

	OrdenarPor string
	Ordem      string
	Pagina     int
	Limite     int
}
