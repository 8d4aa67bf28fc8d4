package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"jurisync/internal/model"
)

type AudienciaRepository struct {
	db *sql.DB
}

func NewAudienciaRepository(db *sql.DB) *AudienciaRepository {
	return &AudienciaRepository{db: db}
}

const audienciaColumns = `id, id_pje, advogado_id, processo_id, orgao_julgador_id, trt, grau,
	numero_processo, data_inicio, data_fim, sala_audiencia, status, tipo_descricao,
	polo_ativo_nome, polo_passivo_nome, url_virtual, dados_anteriores, created_at, updated_at`

func scanAudiencia(row interface{ Scan(...any) error }) (*model.Audiencia, error) {
	var a model.Audiencia
	err := row.Scan(
		&a.ID, &a.IDPje, &a.AdvogadoID, &a.ProcessoID, &a.OrgaoJulgadorID, &a.TRT, &a.Grau,
		&a.NumeroProcesso, &a.DataInicio, &a.DataFim, &a.SalaAudiencia, &a.Status, &a.TipoDescricao,
		&a.PoloAtivoNome, &a.PoloPassivoNome, &a.URLVirtual, &a.DadosAnteriores, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AudienciaRepository) FindByChaveNatural(ctx context.Context, idPje int64, trt, grau, numeroProcesso string) (*model.Audiencia, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+audienciaColumns+`
		FROM audiencias
		WHERE id_pje = $1 AND trt = $2 AND grau = $3 AND numero_processo = $4
	`, idPje, trt, grau, strings.TrimSpace(numeroProcesso))

	a, err := scanAudiencia(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *AudienciaRepository) Insert(ctx context.Context, a *model.Audiencia) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO audiencias(id_pje, advogado_id, processo_id, orgao_julgador_id, trt, grau,
			numero_processo, data_inicio, data_fim, sala_audiencia, status, tipo_descricao,
			polo_ativo_nome, polo_passivo_nome, url_virtual)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id
	`, a.IDPje, a.AdvogadoID, a.ProcessoID, a.OrgaoJulgadorID, a.TRT, a.Grau,
		strings.TrimSpace(a.NumeroProcesso), a.DataInicio, a.DataFim, a.SalaAudiencia, a.Status,
		a.TipoDescricao, a.PoloAtivoNome, a.PoloPassivoNome, a.URLVirtual,
	).Scan(&a.ID)
}

func (r *AudienciaRepository) Update(ctx context.Context, a *model.Audiencia, dadosAnteriores json.RawMessage) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE audiencias SET
			processo_id = $5, orgao_julgador_id = $6, data_inicio = $7, data_fim = $8,
			sala_audiencia = $9, status = $10, tipo_descricao = $11, polo_ativo_nome = $12,
			polo_passivo_nome = $13, url_virtual = $14,
			dados_anteriores = $15, updated_at = now()
		WHERE id_pje = $1 AND trt = $2 AND grau = $3 AND numero_processo = $4
	`, a.IDPje, a.TRT, a.Grau, strings.TrimSpace(a.NumeroProcesso),
		a.ProcessoID, a.OrgaoJulgadorID, a.DataInicio, a.DataFim,
		a.SalaAudiencia, a.Status, a.TipoDescricao, a.PoloAtivoNome,
		a.PoloPassivoNome, a.URLVirtual, dadosAnteriores)
	return err
}

// OrgaoJulgadorRepository resolve órgãos julgadores referenciados por
// audiências, no padrão lookup-or-create.
type OrgaoJulgadorRepository struct {
	db *sql.DB
}

func NewOrgaoJulgadorRepository(db *sql.DB) *OrgaoJulgadorRepository {
	return &OrgaoJulgadorRepository{db: db}
}

func (r *OrgaoJulgadorRepository) Find(ctx context.Context, idPje int64, trt, grau string) (*model.OrgaoJulgador, error) {
	var o model.OrgaoJulgador
	err := r.db.QueryRowContext(ctx, `
		SELECT id, id_pje, trt, grau, descricao, cejusc, ativo, posto_avancado, codigo_serventia_cnj, created_at
		FROM orgaos_julgadores
		WHERE id_pje = $1 AND trt = $2 AND grau = $3
	`, idPje, trt, grau).Scan(
		&o.ID, &o.IDPje, &o.TRT, &o.Grau, &o.Descricao, &o.Cejusc, &o.Ativo,
		&o.PostoAvancado, &o.CodigoServentiaCnj, &o.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrgaoJulgadorRepository) Insert(ctx context.Context, o *model.OrgaoJulgador) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO orgaos_julgadores(id_pje, trt, grau, descricao, cejusc, ativo, posto_avancado, codigo_serventia_cnj)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id_pje, trt, grau) DO UPDATE SET descricao = EXCLUDED.descricao
		RETURNING id
	`, o.IDPje, o.TRT, o.Grau, o.Descricao, o.Cejusc, o.Ativo, o.PostoAvancado, o.CodigoServentiaCnj,
	).Scan(&o.ID)
}
