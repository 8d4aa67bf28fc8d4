package repository

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"jurisync/internal/model"
)

type CredencialRepository struct {
	db *sql.DB
}

func NewCredencialRepository(db *sql.DB) *CredencialRepository {
	return &CredencialRepository{db: db}
}

const credencialColumns = `c.id, c.advogado_id, a.nome, a.cpf, a.oab, a.uf_oab,
	c.tribunal, c.grau, c.id_pje_advogado, c.ativa, c.created_at`

func scanCredencial(row interface{ Scan(...any) error }) (*model.Credencial, error) {
	var c model.Credencial
	err := row.Scan(
		&c.ID, &c.AdvogadoID, &c.AdvogadoNome, &c.AdvogadoCPF, &c.AdvogadoOAB, &c.UFOab,
		&c.Tribunal, &c.Grau, &c.IDPjeAdvogado, &c.Ativa, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListarAtivas retorna as credenciais utilizáveis para captura.
func (r *CredencialRepository) ListarAtivas(ctx context.Context) ([]model.Credencial, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+credencialColumns+`
		FROM credenciais c
		JOIN advogados a ON a.id = c.advogado_id
		WHERE c.ativa
		ORDER BY c.tribunal, c.grau
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var credenciais []model.Credencial
	for rows.Next() {
		c, err := scanCredencial(rows)
		if err != nil {
			return nil, err
		}
		credenciais = append(credenciais, *c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return credenciais, nil
}

// BuscarPorIDs resolve credenciais por ID, apenas ativas.
func (r *CredencialRepository) BuscarPorIDs(ctx context.Context, ids []int64) ([]model.Credencial, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+credencialColumns+`
		FROM credenciais c
		JOIN advogados a ON a.id = c.advogado_id
		WHERE c.id = ANY($1) AND c.ativa
	`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var credenciais []model.Credencial
	for rows.Next() {
		c, err := scanCredencial(rows)
		if err != nil {
			return nil, err
		}
		credenciais = append(credenciais, *c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return credenciais, nil
}
