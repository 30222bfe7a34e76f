package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ============================================
// Risk Repository Interface
// ============================================

// RiskRepository defines risk data operations
type RiskRepository interface {
	Create(ctx context.Context, risk *Risk) error
	FindByID(ctx context.Context, id string) (*Risk, error)
	FindByProject(ctx context.Context, projectID string) ([]*Risk, error)
	// Update persists detail and resolution fields in a single write
	Update(ctx context.Context, risk *Risk) error
	// SoftDelete persists the deletion marker fields in a single write
	SoftDelete(ctx context.Context, risk *Risk) error
}

// ============================================
// PostgreSQL Risk Repository Implementation
// ============================================

type pgRiskRepository struct {
	pool *pgxpool.Pool
}

// NewRiskRepository creates a new PostgreSQL risk repository
func NewRiskRepository(pool *pgxpool.Pool) RiskRepository {
	return &pgRiskRepository{pool: pool}
}

const riskColumns = `id, project_id, detail, is_resolved, resolved_by_id, resolved_at,
	created_by_id, date_created, date_deleted, deleted_by_id`

func scanRisk(row pgx.Row) (*Risk, error) {
	risk := &Risk{}
	err := row.Scan(
		&risk.ID, &risk.ProjectID, &risk.Detail, &risk.IsResolved,
		&risk.ResolvedByID, &risk.ResolvedAt, &risk.CreatedByID,
		&risk.DateCreated, &risk.DateDeleted, &risk.DeletedByID,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return risk, nil
}

func (r *pgRiskRepository) Create(ctx context.Context, risk *Risk) error {
	query := `
		INSERT INTO risks (project_id, detail, created_by_id)
		VALUES ($1, $2, $3)
		RETURNING id, date_created
	`
	return r.pool.QueryRow(ctx, query,
		risk.ProjectID, risk.Detail, risk.CreatedByID,
	).Scan(&risk.ID, &risk.DateCreated)
}

func (r *pgRiskRepository) FindByID(ctx context.Context, id string) (*Risk, error) {
	query := `SELECT ` + riskColumns + ` FROM risks WHERE id = $1`
	return scanRisk(r.pool.QueryRow(ctx, query, id))
}

func (r *pgRiskRepository) FindByProject(ctx context.Context, projectID string) ([]*Risk, error) {
	query := `
		SELECT ` + riskColumns + `
		FROM risks WHERE project_id = $1 AND date_deleted IS NULL
		ORDER BY date_created
	`
	rows, err := r.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var risks []*Risk
	for rows.Next() {
		risk := &Risk{}
		if err := rows.Scan(
			&risk.ID, &risk.ProjectID, &risk.Detail, &risk.IsResolved,
			&risk.ResolvedByID, &risk.ResolvedAt, &risk.CreatedByID,
			&risk.DateCreated, &risk.DateDeleted, &risk.DeletedByID,
		); err != nil {
			return nil, err
		}
		risks = append(risks, risk)
	}
	return risks, nil
}

func (r *pgRiskRepository) Update(ctx context.Context, risk *Risk) error {
	query := `
		UPDATE risks
		SET detail = $2, is_resolved = $3, resolved_by_id = $4, resolved_at = $5
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query,
		risk.ID, risk.Detail, risk.IsResolved, risk.ResolvedByID, risk.ResolvedAt)
	return err
}

func (r *pgRiskRepository) SoftDelete(ctx context.Context, risk *Risk) error {
	query := `
		UPDATE risks SET date_deleted = $2, deleted_by_id = $3
		WHERE id = $1 AND date_deleted IS NULL
	`
	_, err := r.pool.Exec(ctx, query, risk.ID, risk.DateDeleted, risk.DeletedByID)
	return err
}
