package model

import "time"

// ProcessoInstancia resume uma instância física dentro de um processo unificado.
type ProcessoInstancia struct {
	ID           int64
	Grau         string
	Origem       string
	TRT          string
	DataAutuacao time.Time
	UpdatedAt    time.Time
	IsGrauAtual  bool
}

// ProcessoUnificado agrupa todas as instâncias que compartilham o mesmo
// numero_processo. Derivado em leitura, nunca persistido.
type ProcessoUnificado struct {
	Processo
	GrauAtual   string
	GrausAtivos []string
	Instances   []ProcessoInstancia
}
