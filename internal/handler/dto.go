package handler

import "jurisync/internal/model"

// Envelope padrão das rotas de captura.
type CapturaResponse struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Error     string `json:"error,omitempty"`
	Status    string `json:"status,omitempty"`
	CaptureID int64  `json:"capture_id,omitempty"`
}

type CapturaRequest struct {
	AdvogadoID    int64   `json:"advogado_id"`
	CredencialIDs []int64 `json:"credencial_ids"`
}

type CredencialResponse struct {
	ID       int64  `json:"id"`
	Tribunal string `json:"tribunal"`
	Grau     string `json:"grau"`
}

type AdvogadoCredenciaisResponse struct {
	AdvogadoID           int64                `json:"advogado_id"`
	Nome                 string               `json:"nome"`
	CPF                  string               `json:"cpf"`
	OAB                  string               `json:"oab"`
	UFOab                string               `json:"uf_oab"`
	TribunaisDisponiveis []string             `json:"tribunais_disponiveis"`
	GrausDisponiveis     []string             `json:"graus_disponiveis"`
	Credenciais          []CredencialResponse `json:"credenciais"`
}

type JobResponse struct {
	ID            int64                    `json:"id"`
	TipoCaptura   string                   `json:"tipo_captura"`
	AdvogadoID    int64                    `json:"advogado_id"`
	CredencialIDs []int64                  `json:"credencial_ids"`
	Status        string                   `json:"status"`
	Resultado     *model.ResultadoCaptura  `json:"resultado,omitempty"`
	Erro          *string                  `json:"erro,omitempty"`
	IniciadoEm    string                   `json:"iniciado_em"`
	ConcluidoEm   *string                  `json:"concluido_em,omitempty"`
}

type LogEntryResponse struct {
	ID              int64    `json:"id"`
	Entidade        string   `json:"entidade"`
	IDPje           int64    `json:"id_pje"`
	TRT             string   `json:"trt"`
	Grau            string   `json:"grau"`
	NumeroProcesso  string   `json:"numero_processo"`
	Outcome         string   `json:"outcome"`
	CamposAlterados []string `json:"campos_alterados,omitempty"`
	Erro            *string  `json:"erro,omitempty"`
	CreatedAt       string   `json:"created_at"`
}

type HistoricoDetalheResponse struct {
	Captura JobResponse        `json:"captura"`
	Log     []LogEntryResponse `json:"log"`
}

type InstanciaResponse struct {
	ID           int64  `json:"id"`
	Grau         string `json:"grau"`
	Origem       string `json:"origem"`
	TRT          string `json:"trt"`
	DataAutuacao string `json:"data_autuacao"`
	UpdatedAt    string `json:"updated_at"`
	IsGrauAtual  bool   `json:"is_grau_atual"`
}

type ProcessoUnificadoResponse struct {
	ID                     int64               `json:"id"`
	NumeroProcesso         string              `json:"numero_processo"`
	Numero                 int64               `json:"numero"`
	TRT                    string              `json:"trt"`
	Origem                 string              `json:"origem"`
	GrauAtual              string              `json:"grau_atual"`
	GrausAtivos            []string            `json:"graus_ativos"`
	DescricaoOrgaoJulgador string              `json:"descricao_orgao_julgador"`
	ClasseJudicial         string              `json:"classe_judicial"`
	SegredoJustica         bool                `json:"segredo_justica"`
	CodigoStatusProcesso   string              `json:"codigo_status_processo"`
	PrioridadeProcessual   int                 `json:"prioridade_processual"`
	NomeParteAutora        string              `json:"nome_parte_autora"`
	QtdeParteAutora        int                 `json:"qtde_parte_autora"`
	NomeParteRe            string              `json:"nome_parte_re"`
	QtdeParteRe            int                 `json:"qtde_parte_re"`
	DataAutuacao           string              `json:"data_autuacao"`
	JuizoDigital           bool                `json:"juizo_digital"`
	DataArquivamento       *string             `json:"data_arquivamento,omitempty"`
	DataProximaAudiencia   *string             `json:"data_proxima_audiencia,omitempty"`
	TemAssociacao          bool                `json:"tem_associacao"`
	ResponsavelID          *int64              `json:"responsavel_id,omitempty"`
	Instances              []InstanciaResponse `json:"instances"`
}

type AcervoResponse struct {
	Processos    []ProcessoUnificadoResponse `json:"processos"`
	Total        int                         `json:"total"`
	Pagina       int                         `json:"pagina"`
	Limite       int                         `json:"limite"`
	TotalPaginas int                         `json:"totalPaginas"`
}
