package model

import (
	"encoding/json"
	"time"
)

// Audiencia é uma audiência capturada da pauta do advogado.
// Chave natural: (id_pje, trt, grau, numero_processo).
type Audiencia struct {
	ID              int64
	IDPje           int64
	AdvogadoID      int64
	ProcessoID      *int64
	OrgaoJulgadorID *int64
	TRT             string
	Grau            string
	NumeroProcesso  string
	DataInicio      time.Time
	DataFim         time.Time
	SalaAudiencia   *string
	Status          string
	TipoDescricao   *string
	PoloAtivoNome   *string
	PoloPassivoNome *string
	URLVirtual      *string
	DadosAnteriores json.RawMessage
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Parte é uma parte (autora, ré ou terceira) de um processo.
type Parte struct {
	ID              int64
	IDPje           int64
	AdvogadoID      int64
	ProcessoID      *int64
	TRT             string
	Grau            string
	NumeroProcesso  string
	Nome            string
	Tipo            string
	Polo            string
	Documento       *string
	DadosAnteriores json.RawMessage
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TimelineItem é um movimento ou documento da timeline de um processo.
type TimelineItem struct {
	ID              int64
	IDPje           int64
	AdvogadoID      int64
	TRT             string
	Grau            string
	NumeroProcesso  string
	Tipo            string
	Titulo          string
	Data            time.Time
	DocumentoID     *int64
	Sigiloso        bool
	TamanhoPdf      *int
	DadosAnteriores json.RawMessage
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
