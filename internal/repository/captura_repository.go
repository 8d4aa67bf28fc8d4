package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/lib/pq"

	"jurisync/internal/model"
)

type CapturaRepository struct {
	db *sql.DB
}

func NewCapturaRepository(db *sql.DB) *CapturaRepository {
	return &CapturaRepository{db: db}
}

// CriarJob registra um job em estado pending.
func (r *CapturaRepository) CriarJob(ctx context.Context, tipoCaptura string, advogadoID int64, credencialIDs []int64) (*model.CapturaJob, error) {
	job := &model.CapturaJob{
		TipoCaptura:   tipoCaptura,
		AdvogadoID:    advogadoID,
		CredencialIDs: credencialIDs,
		Status:        model.StatusPending,
	}

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO capturas(tipo_captura, advogado_id, credencial_ids, status)
		VALUES($1, $2, $3, $4)
		RETURNING id, iniciado_em, created_at
	`, tipoCaptura, advogadoID, pq.Array(credencialIDs), model.StatusPending,
	).Scan(&job.ID, &job.IniciadoEm, &job.CreatedAt)
	if err != nil {
		return nil, err
	}
	return job, nil
}

// AtualizarStatus move o job de estado. Estados terminais nunca são
// sobrescritos.
func (r *CapturaRepository) AtualizarStatus(ctx context.Context, id int64, status string, resultado *model.ResultadoCaptura, erro *string) error {
	var resultadoJSON []byte
	if resultado != nil {
		var err error
		resultadoJSON, err = json.Marshal(resultado)
		if err != nil {
			return err
		}
	}

	_, err := r.db.ExecContext(ctx, `
		UPDATE capturas SET
			status = $2,
			resultado = COALESCE($3, resultado),
			erro = COALESCE($4, erro),
			concluido_em = CASE WHEN $2 IN ('completed', 'failed') THEN now() ELSE concluido_em END
		WHERE id = $1 AND status NOT IN ('completed', 'failed')
	`, id, status, resultadoJSON, erro)
	return err
}

func (r *CapturaRepository) scanJob(row interface{ Scan(...any) error }) (*model.CapturaJob, error) {
	var (
		job           model.CapturaJob
		credencialIDs pq.Int64Array
		resultadoJSON []byte
	)
	err := row.Scan(
		&job.ID, &job.TipoCaptura, &job.AdvogadoID, &credencialIDs, &job.Status,
		&resultadoJSON, &job.Erro, &job.IniciadoEm, &job.ConcluidoEm, &job.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	job.CredencialIDs = credencialIDs
	if len(resultadoJSON) > 0 {
		var resultado model.ResultadoCaptura
		if err := json.Unmarshal(resultadoJSON, &resultado); err != nil {
			return nil, err
		}
		job.Resultado = &resultado
	}
	return &job, nil
}

const capturaColumns = `id, tipo_captura, advogado_id, credencial_ids, status, resultado, erro, iniciado_em, concluido_em, created_at`

func (r *CapturaRepository) BuscarJob(ctx context.Context, id int64) (*model.CapturaJob, error) {
	job, err := r.scanJob(r.db.QueryRowContext(ctx,
		`SELECT `+capturaColumns+` FROM capturas WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return job, nil
}

// ListarJobs lista o histórico de capturas, mais recente primeiro.
func (r *CapturaRepository) ListarJobs(ctx context.Context, status string, limit, offset int) ([]model.CapturaJob, error) {
	query := `SELECT ` + capturaColumns + ` FROM capturas`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY iniciado_em DESC`
	args = append(args, limit, offset)
	if status != "" {
		query += ` LIMIT $2 OFFSET $3`
	} else {
		query += ` LIMIT $1 OFFSET $2`
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []model.CapturaJob
	for rows.Next() {
		job, err := r.scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return jobs, nil
}

// DeletarJob remove o job e suas entradas de log.
func (r *CapturaRepository) DeletarJob(ctx context.Context, id int64) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM captura_log_entries WHERE captura_id = $1`, id); err != nil {
		return false, err
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM capturas WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	affected, _ := res.RowsAffected()

	return affected > 0, tx.Commit()
}

// AppendLogEntry grava uma entrada imutável do ledger de captura.
func (r *CapturaRepository) AppendLogEntry(ctx context.Context, e *model.CapturaLogEntry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO captura_log_entries(captura_id, entidade, id_pje, trt, grau, numero_processo, outcome, campos_alterados, erro)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, e.CapturaID, e.Entidade, e.IDPje, e.TRT, e.Grau, e.NumeroProcesso, e.Outcome,
		pq.Array(e.CamposAlterados), e.Erro)
	return err
}

// ListarLogEntries retorna as entradas de um job em ordem de gravação.
func (r *CapturaRepository) ListarLogEntries(ctx context.Context, capturaID int64) ([]model.CapturaLogEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, captura_id, entidade, id_pje, trt, grau, numero_processo, outcome, campos_alterados, erro, created_at
		FROM captura_log_entries
		WHERE captura_id = $1
		ORDER BY id
	`, capturaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.CapturaLogEntry
	for rows.Next() {
		var (
			e      model.CapturaLogEntry
			campos pq.StringArray
		)
		err := rows.Scan(&e.ID, &e.CapturaID, &e.Entidade, &e.IDPje, &e.TRT, &e.Grau,
			&e.NumeroProcesso, &e.Outcome, &campos, &e.Erro, &e.CreatedAt)
		if err != nil {
			return nil, err
		}
		e.CamposAlterados = campos
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
