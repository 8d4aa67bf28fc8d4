package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"jurisync/internal/model"
)

type ParteRepository struct {
	db *sql.DB
}

func NewParteRepository(db *sql.DB) *ParteRepository {
	return &ParteRepository{db: db}
}

const parteColumns = `id, id_pje, advogado_id, processo_id, trt, grau, numero_processo,
	nome, tipo, polo, documento, dados_anteriores, created_at, updated_at`

func scanParte(row interface{ Scan(...any) error }) (*model.Parte, error) {
	var p model.Parte
	err := row.Scan(
		&p.ID, &p.IDPje, &p.AdvogadoID, &p.ProcessoID, &p.TRT, &p.Grau, &p.NumeroProcesso,
		&p.Nome, &p.Tipo, &p.Polo, &p.Documento, &p.DadosAnteriores, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ParteRepository) FindByChaveNatural(ctx context.Context, idPje int64, trt, grau, numeroProcesso string) (*model.Parte, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+parteColumns+`
		FROM partes
		WHERE id_pje = $1 AND trt = $2 AND grau = $3 AND numero_processo = $4
	`, idPje, trt, grau, strings.TrimSpace(numeroProcesso))

	p, err := scanParte(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *ParteRepository) Insert(ctx context.Context, p *model.Parte) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO partes(id_pje, advogado_id, processo_id, trt, grau, numero_processo, nome, tipo, polo, documento)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`, p.IDPje, p.AdvogadoID, p.ProcessoID, p.TRT, p.Grau, strings.TrimSpace(p.NumeroProcesso),
		p.Nome, p.Tipo, p.Polo, p.Documento,
	).Scan(&p.ID)
}

func (r *ParteRepository) Update(ctx context.Context, p *model.Parte, dadosAnteriores json.RawMessage) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE partes SET
			processo_id = $5, nome = $6, tipo = $7, polo = $8, documento = $9,
			dados_anteriores = $10, updated_at = now()
		WHERE id_pje = $1 AND trt = $2 AND grau = $3 AND numero_processo = $4
	`, p.IDPje, p.TRT, p.Grau, strings.TrimSpace(p.NumeroProcesso),
		p.ProcessoID, p.Nome, p.Tipo, p.Polo, p.Documento, dadosAnteriores)
	return err
}

type TimelineRepository struct {
	db *sql.DB
}

func NewTimelineRepository(db *sql.DB) *TimelineRepository {
	return &TimelineRepository{db: db}
}

const timelineColumns = `id, id_pje, advogado_id, trt, grau, numero_processo, tipo, titulo,
	data, documento_id, sigiloso, tamanho_pdf, dados_anteriores, created_at, updated_at`

func scanTimelineItem(row interface{ Scan(...any) error }) (*model.TimelineItem, error) {
	var t model.TimelineItem
	err := row.Scan(
		&t.ID, &t.IDPje, &t.AdvogadoID, &t.TRT, &t.Grau, &t.NumeroProcesso, &t.Tipo, &t.Titulo,
		&t.Data, &t.DocumentoID, &t.Sigiloso, &t.TamanhoPdf, &t.DadosAnteriores, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TimelineRepository) FindByChaveNatural(ctx context.Context, idPje int64, trt, grau, numeroProcesso string) (*model.TimelineItem, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+timelineColumns+`
		FROM timeline_itens
		WHERE id_pje = $1 AND trt = $2 AND grau = $3 AND numero_processo = $4
	`, idPje, trt, grau, strings.TrimSpace(numeroProcesso))

	t, err := scanTimelineItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *TimelineRepository) Insert(ctx context.Context, t *model.TimelineItem) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO timeline_itens(id_pje, advogado_id, trt, grau, numero_processo, tipo, titulo, data, documento_id, sigiloso, tamanho_pdf)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`, t.IDPje, t.AdvogadoID, t.TRT, t.Grau, strings.TrimSpace(t.NumeroProcesso),
		t.Tipo, t.Titulo, t.Data, t.DocumentoID, t.Sigiloso, t.TamanhoPdf,
	).Scan(&t.ID)
}

func (r *TimelineRepository) Update(ctx context.Context, t *model.TimelineItem, dadosAnteriores json.RawMessage) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE timeline_itens SET
			tipo = $5, titulo = $6, data = $7, documento_id = $8, sigiloso = $9, tamanho_pdf = $10,
			dados_anteriores = $11, updated_at = now()
		WHERE id_pje = $1 AND trt = $2 AND grau = $3 AND numero_processo = $4
	`, t.IDPje, t.TRT, t.Grau, strings.TrimSpace(t.NumeroProcesso),
		t.Tipo, t.Titulo, t.Data, t.DocumentoID, t.Sigiloso, t.TamanhoPdf, dadosAnteriores)
	return err
}
