package pje

// Agrupamentos do painel do advogado no PJE.
const (
	AgrupamentoAcervoGeral = 1
	AgrupamentoPendentes   = 2
	AgrupamentoArquivados  = 5
)

// PagedResponse é o envelope padrão de paginação das APIs do PJE.
type PagedResponse[T any] struct {
	Pagina         int `json:"pagina"`
	TamanhoPagina  int `json:"tamanhoPagina"`
	QtdPaginas     int `json:"qtdPaginas"`
	TotalRegistros int `json:"totalRegistros"`
	Resultado      []T `json:"resultado"`
}

// Processo como retornado pela API do painel do advogado.
type Processo struct {
	ID                     int64   `json:"id"`
	DescricaoOrgaoJulgador string  `json:"descricaoOrgaoJulgador"`
	ClasseJudicial         string  `json:"classeJudicial"`
	Numero                 int64   `json:"numero"`
	NumeroProcesso         string  `json:"numeroProcesso"`
	SegredoDeJustica       bool    `json:"segredoDeJustica"`
	CodigoStatusProcesso   string  `json:"codigoStatusProcesso"`
	PrioridadeProcessual   int     `json:"prioridadeProcessual"`
	NomeParteAutora        string  `json:"nomeParteAutora"`
	QtdeParteAutora        int     `json:"qtdeParteAutora"`
	NomeParteRe            string  `json:"nomeParteRe"`
	QtdeParteRe            int     `json:"qtdeParteRe"`
	DataAutuacao           string  `json:"dataAutuacao"`
	JuizoDigital           bool    `json:"juizoDigital"`
	DataArquivamento       *string `json:"dataArquivamento,omitempty"`
	DataProximaAudiencia   *string `json:"dataProximaAudiencia,omitempty"`
	TemAssociacao          bool    `json:"temAssociacao"`
}

// Totalizador do painel do advogado (quantidade esperada por agrupamento).
type Totalizador struct {
	QuantidadeProcessos         int    `json:"quantidadeProcessos"`
	IDAgrupamentoProcessoTarefa int    `json:"idAgrupamentoProcessoTarefa"`
	NomeAgrupamentoTarefa       string `json:"nomeAgrupamentoTarefa"`
	Ordem                       int    `json:"ordem"`
	Destaque                    bool   `json:"destaque"`
}

// OrgaoJulgador aninhado nas respostas de audiência.
type OrgaoJulgador struct {
	ID                 int64  `json:"id"`
	Nome               string `json:"nome,omitempty"`
	Descricao          string `json:"descricao,omitempty"`
	Cejusc             bool   `json:"cejusc"`
	Ativo              bool   `json:"ativo"`
	PostoAvancado      bool   `json:"postoAvancado"`
	CodigoServentiaCnj int    `json:"codigoServentiaCnj"`
}

// Audiencia da pauta do advogado.
type Audiencia struct {
	ID                  int64  `json:"id"`
	DataInicio          string `json:"dataInicio"`
	DataFim             string `json:"dataFim"`
	Status              string `json:"status"`
	URLAudienciaVirtual string `json:"urlAudienciaVirtual,omitempty"`
	SalaAudiencia       *struct {
		ID   int64  `json:"id"`
		Nome string `json:"nome"`
	} `json:"salaAudiencia,omitempty"`
	Tipo *struct {
		ID        int64  `json:"id"`
		Descricao string `json:"descricao"`
	} `json:"tipo,omitempty"`
	PoloAtivo *struct {
		Nome string `json:"nome"`
	} `json:"poloAtivo,omitempty"`
	PoloPassivo *struct {
		Nome string `json:"nome"`
	} `json:"poloPassivo,omitempty"`
	Processo *struct {
		ID            int64          `json:"id"`
		Numero        string         `json:"numero"`
		OrgaoJulgador *OrgaoJulgador `json:"orgaoJulgador,omitempty"`
	} `json:"processo,omitempty"`
}

// Parte de um processo.
type Parte struct {
	ID        int64  `json:"id"`
	Nome      string `json:"nome"`
	Tipo      string `json:"tipo"`
	Polo      string `json:"polo"`
	Documento string `json:"login,omitempty"`
}

// TimelineItem é um movimento ou documento da timeline de um processo.
type TimelineItem struct {
	ID          int64  `json:"id"`
	Tipo        string `json:"tipo"`
	Titulo      string `json:"titulo"`
	Data        string `json:"data"`
	IDDocumento *int64 `json:"idUnicoDocumento,omitempty"`
	Sigiloso    bool   `json:"documentoSigiloso"`
}

// FiltroAudiencias restringe a consulta da pauta.
type FiltroAudiencias struct {
	DataInicio string
	DataFim    string
	// M=Designada, C=Cancelada, F=Realizada
	Status string
}

// FiltroConsulta são os parâmetros de uma página de consulta.
type FiltroConsulta struct {
	Pagina        int
	TamanhoPagina int
	Agrupamento   int
	Audiencias    *FiltroAudiencias
	FiltroPrazo   string
}
