package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"jurisync/internal/model"
)

type AcervoRepository struct {
	db *sql.DB
}

func NewAcervoRepository(db *sql.DB) *AcervoRepository {
	return &AcervoRepository{db: db}
}

const acervoColumns = `id, id_pje, advogado_id, trt, grau, origem, numero_processo, numero,
	descricao_orgao_julgador, classe_judicial, segredo_justica, codigo_status_processo,
	prioridade_processual, nome_parte_autora, qtde_parte_autora, nome_parte_re, qtde_parte_re,
	data_autuacao, juizo_digital, data_arquivamento, data_proxima_audiencia, tem_associacao,
	responsavel_id, dados_anteriores, created_at, updated_at`

func scanProcesso(row interface{ Scan(...any) error }) (*model.Processo, error) {
	var p model.Processo
	err := row.Scan(
		&p.ID, &p.IDPje, &p.AdvogadoID, &p.TRT, &p.Grau, &p.Origem, &p.NumeroProcesso, &p.Numero,
		&p.DescricaoOrgaoJulgador, &p.ClasseJudicial, &p.SegredoJustica, &p.CodigoStatusProcesso,
		&p.PrioridadeProcessual, &p.NomeParteAutora, &p.QtdeParteAutora, &p.NomeParteRe, &p.QtdeParteRe,
		&p.DataAutuacao, &p.JuizoDigital, &p.DataArquivamento, &p.DataProximaAudiencia, &p.TemAssociacao,
		&p.ResponsavelID, &p.DadosAnteriores, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindByChaveNatural busca uma instância pela chave natural.
func (r *AcervoRepository) FindByChaveNatural(ctx context.Context, idPje int64, trt, grau, numeroProcesso string) (*model.Processo, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+acervoColumns+`
		FROM acervo
		WHERE id_pje = $1 AND trt = $2 AND grau = $3 AND numero_processo = $4
	`, idPje, trt, grau, strings.TrimSpace(numeroProcesso))

	p, err := scanProcesso(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *AcervoRepository) Insert(ctx context.Context, p *model.Processo) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO acervo(id_pje, advogado_id, trt, grau, origem, numero_processo, numero,
			descricao_orgao_julgador, classe_judicial, segredo_justica, codigo_status_processo,
			prioridade_processual, nome_parte_autora, qtde_parte_autora, nome_parte_re, qtde_parte_re,
			data_autuacao, juizo_digital, data_arquivamento, data_proxima_audiencia, tem_associacao)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		RETURNING id
	`, p.IDPje, p.AdvogadoID, p.TRT, p.Grau, p.Origem, strings.TrimSpace(p.NumeroProcesso), p.Numero,
		p.DescricaoOrgaoJulgador, p.ClasseJudicial, p.SegredoJustica, p.CodigoStatusProcesso,
		p.PrioridadeProcessual, p.NomeParteAutora, p.QtdeParteAutora, p.NomeParteRe, p.QtdeParteRe,
		p.DataAutuacao, p.JuizoDigital, p.DataArquivamento, p.DataProximaAudiencia, p.TemAssociacao,
	).Scan(&p.ID)
}

// Update regrava a instância copiando o estado anterior para dados_anteriores.
func (r *AcervoRepository) Update(ctx context.Context, p *model.Processo, dadosAnteriores json.RawMessage) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE acervo SET
			origem = $5, numero = $6, descricao_orgao_julgador = $7, classe_judicial = $8,
			segredo_justica = $9, codigo_status_processo = $10, prioridade_processual = $11,
			nome_parte_autora = $12, qtde_parte_autora = $13, nome_parte_re = $14, qtde_parte_re = $15,
			data_autuacao = $16, juizo_digital = $17, data_arquivamento = $18,
			data_proxima_audiencia = $19, tem_associacao = $20,
			dados_anteriores = $21, updated_at = now()
		WHERE id_pje = $1 AND trt = $2 AND grau = $3 AND numero_processo = $4
	`, p.IDPje, p.TRT, p.Grau, strings.TrimSpace(p.NumeroProcesso),
		p.Origem, p.Numero, p.DescricaoOrgaoJulgador, p.ClasseJudicial,
		p.SegredoJustica, p.CodigoStatusProcesso, p.PrioridadeProcessual,
		p.NomeParteAutora, p.QtdeParteAutora, p.NomeParteRe, p.QtdeParteRe,
		p.DataAutuacao, p.JuizoDigital, p.DataArquivamento,
		p.DataProximaAudiencia, p.TemAssociacao, dadosAnteriores)
	return err
}

// ListarPorAdvogado lista as instâncias de um advogado em um tribunal/grau,
// base para as capturas de partes e timeline.
func (r *AcervoRepository) ListarPorAdvogado(ctx context.Context, advogadoID int64, trt, grau string) ([]model.Processo, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+acervoColumns+`
		FROM acervo
		WHERE advogado_id = $1 AND trt = $2 AND grau = $3
		ORDER BY data_autuacao DESC
	`, advogadoID, trt, grau)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var processos []model.Processo
	for rows.Next() {
		p, err := scanProcesso(rows)
		if err != nil {
			return nil, err
		}
		processos = append(processos, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return processos, nil
}

// ListInstancias faz a leitura ampla para a unificação: aplica todos os
// filtros intrínsecos à instância (nunca o grau) e limita a janela ao teto
// informado. A paginação acontece depois do agrupamento, nunca aqui.
func (r *AcervoRepository) ListInstancias(ctx context.Context, f model.AcervoFiltro, maxRows int) ([]model.Processo, error) {
	var (
		where []string
		args  []any
	)

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Origem != "" {
		where = append(where, "origem = "+arg(f.Origem))
	}
	if f.TRT != "" {
		where = append(where, "trt = "+arg(f.TRT))
	}
	if f.NumeroProcesso != "" {
		where = append(where, "numero_processo ILIKE "+arg("%"+f.NumeroProcesso+"%"))
	}
	if f.SemResponsavel {
		where = append(where, "responsavel_id IS NULL")
	} else if f.ResponsavelID != nil {
		where = append(where, "responsavel_id = "+arg(*f.ResponsavelID))
	}
	if f.Busca != "" {
		b := arg("%" + strings.TrimSpace(f.Busca) + "%")
		where = append(where, fmt.Sprintf(
			"(numero_processo ILIKE %[1]s OR nome_parte_autora ILIKE %[1]s OR nome_parte_re ILIKE %[1]s OR descricao_orgao_julgador ILIKE %[1]s OR classe_judicial ILIKE %[1]s)", b))
	}
	if f.DataAutuacaoInicio != nil {
		where = append(where, "data_autuacao >= "+arg(*f.DataAutuacaoInicio))
	}
	if f.DataAutuacaoFim != nil {
		where = append(where, "data_autuacao <= "+arg(*f.DataAutuacaoFim))
	}
	if f.DataArquivamentoInicio != nil {
		where = append(where, "data_arquivamento >= "+arg(*f.DataArquivamentoInicio))
	}
	if f.DataArquivamentoFim != nil {
		where = append(where, "data_arquivamento <= "+arg(*f.DataArquivamentoFim))
	}

	query := "SELECT " + acervoColumns + " FROM acervo"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY data_autuacao DESC LIMIT " + arg(maxRows)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var processos []model.Processo
	for rows.Next() {
		p, err := scanProcesso(rows)
		if err != nil {
			return nil, err
		}
		processos = append(processos, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return processos, nil
}
