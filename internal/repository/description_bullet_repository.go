package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ============================================
// Description Bullet Repository Interface
// ============================================

// DescriptionBulletRepository defines checklist bullet data operations
type DescriptionBulletRepository interface {
	Create(ctx context.Context, bullet *DescriptionBullet) error
	FindByID(ctx context.Context, id string) (*DescriptionBullet, error)
	FindForWorkPackage(ctx context.Context, workPackageID string) ([]*DescriptionBullet, error)
	FindForProject(ctx context.Context, projectID string) ([]*DescriptionBullet, error)
	SetChecked(ctx context.Context, id string, checkedByID *string, when *time.Time) error
	SoftDelete(ctx context.Context, id string, when time.Time) error
}

// ============================================
// PostgreSQL Description Bullet Repository Implementation
// ============================================

type pgDescriptionBulletRepository struct {
	pool *pgxpool.Pool
}

// NewDescriptionBulletRepository creates a new PostgreSQL bullet repository
func NewDescriptionBulletRepository(pool *pgxpool.Pool) DescriptionBulletRepository {
	return &pgDescriptionBulletRepository{pool: pool}
}

const bulletColumns = `id, detail, type, project_id, work_package_id, date_added,
	date_time_checked, checked_by_id, date_deleted`

func scanBullet(row pgx.Row) (*DescriptionBullet, error) {
	b := &DescriptionBullet{}
	err := row.Scan(
		&b.ID, &b.Detail, &b.Type, &b.ProjectID, &b.WorkPackageID, &b.DateAdded,
		&b.DateTimeChecked, &b.CheckedByID, &b.DateDeleted,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *pgDescriptionBulletRepository) Create(ctx context.Context, bullet *DescriptionBullet) error {
	query := `
		INSERT INTO description_bullets (detail, type, project_id, work_package_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, date_added
	`
	return r.pool.QueryRow(ctx, query,
		bullet.Detail, bullet.Type, bullet.ProjectID, bullet.WorkPackageID,
	).Scan(&bullet.ID, &bullet.DateAdded)
}

func (r *pgDescriptionBulletRepository) FindByID(ctx context.Context, id string) (*DescriptionBullet, error) {
	query := `SELECT ` + bulletColumns + ` FROM description_bullets WHERE id = $1`
	return scanBullet(r.pool.QueryRow(ctx, query, id))
}

func (r *pgDescriptionBulletRepository) FindForWorkPackage(ctx context.Context, workPackageID string) ([]*DescriptionBullet, error) {
	return findBulletsForWorkPackage(ctx, r.pool, workPackageID)
}

func (r *pgDescriptionBulletRepository) FindForProject(ctx context.Context, projectID string) ([]*DescriptionBullet, error) {
	return findBulletsForProject(ctx, r.pool, projectID)
}

func (r *pgDescriptionBulletRepository) SetChecked(ctx context.Context, id string, checkedByID *string, when *time.Time) error {
	query := `UPDATE description_bullets SET date_time_checked = $2, checked_by_id = $3 WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id, when, checkedByID)
	return err
}

func (r *pgDescriptionBulletRepository) SoftDelete(ctx context.Context, id string, when time.Time) error {
	query := `UPDATE description_bullets SET date_deleted = $2 WHERE id = $1 AND date_deleted IS NULL`
	_, err := r.pool.Exec(ctx, query, id, when)
	return err
}

func findBulletsForWorkPackage(ctx context.Context, pool *pgxpool.Pool, workPackageID string) ([]*DescriptionBullet, error) {
	query := `
		SELECT ` + bulletColumns + `
		FROM description_bullets WHERE work_package_id = $1
		ORDER BY date_added
	`
	return queryBullets(ctx, pool, query, workPackageID)
}

func findBulletsForProject(ctx context.Context, pool *pgxpool.Pool, projectID string) ([]*DescriptionBullet, error) {
	query := `
		SELECT ` + bulletColumns + `
		FROM description_bullets WHERE project_id = $1
		ORDER BY date_added
	`
	return queryBullets(ctx, pool, query, projectID)
}

func queryBullets(ctx context.Context, pool *pgxpool.Pool, query string, args ...interface{}) ([]*DescriptionBullet, error) {
	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bullets []*DescriptionBullet
	for rows.Next() {
		b := &DescriptionBullet{}
		if err := rows.Scan(
			&b.ID, &b.Detail, &b.Type, &b.ProjectID, &b.WorkPackageID, &b.DateAdded,
			&b.DateTimeChecked, &b.CheckedByID, &b.DateDeleted,
		); err != nil {
			return nil, err
		}
		bullets = append(bullets, b)
	}
	return bullets, nil
}
