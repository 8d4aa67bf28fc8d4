package model

import "time"

const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

const (
	EntidadeAcervoGeral = "acervo_geral"
	EntidadeArquivados  = "arquivados"
	EntidadeAudiencias  = "audiencias"
	EntidadePendentes   = "pendentes"
	EntidadeTimeline    = "timeline"
	EntidadePartes      = "partes"
)

const (
	OutcomeInserido      = "inserted"
	OutcomeAtualizado    = "updated"
	OutcomeNaoAtualizado = "unchanged"
	OutcomeErro          = "error"
)

// CapturaJob é um registro de execução de captura (tabela capturas).
type CapturaJob struct {
	ID            int64
	TipoCaptura   string
	AdvogadoID    int64
	CredencialIDs []int64
	Status        string
	Resultado     *ResultadoCaptura
	Erro          *string
	IniciadoEm    time.Time
	ConcluidoEm   *time.Time
	CreatedAt     time.Time
}

// ResultadoCaptura agrega os contadores de um job.
type ResultadoCaptura struct {
	Inseridos               int   `json:"inseridos"`
	Atualizados             int   `json:"atualizados"`
	NaoAtualizados          int   `json:"nao_atualizados"`
	Erros                   int   `json:"erros"`
	Total                   int   `json:"total"`
	OrgaosJulgadoresCriados int   `json:"orgaos_julgadores_criados,omitempty"`
	DocumentosBaixados      int   `json:"documentos_baixados,omitempty"`
	DuracaoMs               int64 `json:"duracao_ms"`
}

// CapturaLogEntry é um registro imutável por entidade processada.
type CapturaLogEntry struct {
	ID              int64
	CapturaID       int64
	Entidade        string
	IDPje           int64
	TRT             string
	Grau            string
	NumeroProcesso  string
	Outcome         string
	CamposAlterados []string
	Erro            *string
	CreatedAt       time.Time
}

// Credencial habilita captura em um tribunal/grau para um advogado.
type Credencial struct {
	ID            int64
	AdvogadoID    int64
	AdvogadoNome  string
	AdvogadoCPF   string
	AdvogadoOAB   string
	UFOab         string
	Tribunal      string
	Grau          string
	IDPjeAdvogado int64
	Ativa         bool
	CreatedAt     time.Time
}
