package model

import (
	"encoding/json"
	"time"
)

const (
	GrauPrimeiro = "primeiro_grau"
	GrauSegundo  = "segundo_grau"

	OrigemAcervoGeral = "acervo_geral"
	OrigemArquivado   = "arquivado"
	OrigemPendente    = "pendente"
)

// TRTCodigos lista os 24 tribunais regionais do trabalho.
var TRTCodigos = []string{
	"TRT1", "TRT2", "TRT3", "TRT4", "TRT5", "TRT6", "TRT7", "TRT8",
	"TRT9", "TRT10", "TRT11", "TRT12", "TRT13", "TRT14", "TRT15", "TRT16",
	"TRT17", "TRT18", "TRT19", "TRT20", "TRT21", "TRT22", "TRT23", "TRT24",
}

// Processo é uma instância física de um processo no acervo.
// Chave natural: (id_pje, trt, grau, numero_processo).
type Processo struct {
	ID                     int64
	IDPje                  int64
	AdvogadoID             int64
	TRT                    string
	Grau                   string
	Origem                 string
	NumeroProcesso         string
	Numero                 int64
	DescricaoOrgaoJulgador string
	ClasseJudicial         string
	SegredoJustica         bool
	CodigoStatusProcesso   string
	PrioridadeProcessual   int
	NomeParteAutora        string
	QtdeParteAutora        int
	NomeParteRe            string
	QtdeParteRe            int
	DataAutuacao           time.Time
	JuizoDigital           bool
	DataArquivamento       *time.Time
	DataProximaAudiencia   *time.Time
	TemAssociacao          bool
	ResponsavelID          *int64
	DadosAnteriores        json.RawMessage
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

type OrgaoJulgador struct {
	ID                 int64
	IDPje              int64
	TRT                string
	Grau               string
	Descricao          string
	Cejusc             bool
	Ativo              bool
	PostoAvancado      bool
	CodigoServentiaCnj int
	CreatedAt          time.Time
}
