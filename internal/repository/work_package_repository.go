package repository

import (
	"context"
	"time"

	"github.com/apexracing/waypoint-backend/internal/types"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ============================================
// Work Package Repository Interface
// ============================================

// WorkPackageRepository defines work package data operations
type WorkPackageRepository interface {
	FindByWbs(ctx context.Context, wbs types.WbsNumber) (*WorkPackage, error)
	FindByID(ctx context.Context, id string) (*WorkPackage, error)
	Create(ctx context.Context, element *WbsElement, workPackage *WorkPackage) error
	Update(ctx context.Context, workPackage *WorkPackage) error
	UpdateStatus(ctx context.Context, wbsElementID, status string) error
	SoftDelete(ctx context.Context, wbsElementID, deletedByID string, when time.Time) error
	// FindEndingWithin returns active work packages whose end date falls
	// within the given window from now.
	FindEndingWithin(ctx context.Context, window time.Duration) ([]*WorkPackage, error)
}

// ============================================
// PostgreSQL Work Package Repository Implementation
// ============================================

type pgWorkPackageRepository struct {
	pool *pgxpool.Pool
}

// NewWorkPackageRepository creates a new PostgreSQL work package repository
func NewWorkPackageRepository(pool *pgxpool.Pool) WorkPackageRepository {
	return &pgWorkPackageRepository{pool: pool}
}

func (r *pgWorkPackageRepository) FindByWbs(ctx context.Context, wbs types.WbsNumber) (*WorkPackage, error) {
	query := `
		SELECT wp.id, wp.wbs_element_id, wp.project_id, wp.order_in_project, wp.start_date, wp.duration
		FROM work_packages wp
		INNER JOIN wbs_elements e ON wp.wbs_element_id = e.id
		WHERE e.car_number = $1 AND e.project_number = $2 AND e.work_package_number = $3
	`
	wp := &WorkPackage{}
	err := r.pool.QueryRow(ctx, query, wbs.CarNumber, wbs.ProjectNumber, wbs.WorkPackageNumber).Scan(
		&wp.ID, &wp.WbsElementID, &wp.ProjectID, &wp.OrderInProject, &wp.StartDate, &wp.Duration,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := r.load(ctx, wp); err != nil {
		return nil, err
	}
	return wp, nil
}

func (r *pgWorkPackageRepository) FindByID(ctx context.Context, id string) (*WorkPackage, error) {
	query := `
		SELECT id, wbs_element_id, project_id, order_in_project, start_date, duration
		FROM work_packages WHERE id = $1
	`
	wp := &WorkPackage{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&wp.ID, &wp.WbsElementID, &wp.ProjectID, &wp.OrderInProject, &wp.StartDate, &wp.Duration,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := r.load(ctx, wp); err != nil {
		return nil, err
	}
	return wp, nil
}

func (r *pgWorkPackageRepository) Create(ctx context.Context, element *WbsElement, workPackage *WorkPackage) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO wbs_elements (car_number, project_number, work_package_number, name, status, lead_id, manager_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, date_created
	`, element.CarNumber, element.ProjectNumber, element.WorkPackageNumber, element.Name,
		element.Status, element.LeadID, element.ManagerID,
	).Scan(&element.ID, &element.DateCreated)
	if err != nil {
		return err
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO work_packages (wbs_element_id, project_id, order_in_project, start_date, duration)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, element.ID, workPackage.ProjectID, workPackage.OrderInProject,
		workPackage.StartDate, workPackage.Duration,
	).Scan(&workPackage.ID)
	if err != nil {
		return err
	}
	workPackage.WbsElementID = element.ID
	workPackage.WbsElement = element

	return tx.Commit(ctx)
}

func (r *pgWorkPackageRepository) Update(ctx context.Context, workPackage *WorkPackage) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		UPDATE work_packages SET order_in_project = $2, start_date = $3, duration = $4
		WHERE id = $1
	`, workPackage.ID, workPackage.OrderInProject, workPackage.StartDate, workPackage.Duration); err != nil {
		return err
	}
	if workPackage.WbsElement != nil {
		if _, err := tx.Exec(ctx,
			`UPDATE wbs_elements SET name = $2, status = $3, lead_id = $4, manager_id = $5 WHERE id = $1`,
			workPackage.WbsElementID, workPackage.WbsElement.Name, workPackage.WbsElement.Status,
			workPackage.WbsElement.LeadID, workPackage.WbsElement.ManagerID,
		); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *pgWorkPackageRepository) UpdateStatus(ctx context.Context, wbsElementID, status string) error {
	query := `UPDATE wbs_elements SET status = $2 WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, wbsElementID, status)
	return err
}

func (r *pgWorkPackageRepository) SoftDelete(ctx context.Context, wbsElementID, deletedByID string, when time.Time) error {
	query := `UPDATE wbs_elements SET date_deleted = $2, deleted_by_id = $3 WHERE id = $1 AND date_deleted IS NULL`
	_, err := r.pool.Exec(ctx, query, wbsElementID, when, deletedByID)
	return err
}

func (r *pgWorkPackageRepository) FindEndingWithin(ctx context.Context, window time.Duration) ([]*WorkPackage, error) {
	// end date = start_date + duration weeks
	query := `
		SELECT wp.id, wp.wbs_element_id, wp.project_id, wp.order_in_project, wp.start_date, wp.duration
		FROM work_packages wp
		INNER JOIN wbs_elements e ON wp.wbs_element_id = e.id
		WHERE e.date_deleted IS NULL
		  AND e.status = $1
		  AND wp.start_date + (wp.duration * INTERVAL '1 week') <= $2
	`
	rows, err := r.pool.Query(ctx, query, types.WbsActive, time.Now().Add(window))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var workPackages []*WorkPackage
	for rows.Next() {
		wp := &WorkPackage{}
		if err := rows.Scan(
			&wp.ID, &wp.WbsElementID, &wp.ProjectID, &wp.OrderInProject, &wp.StartDate, &wp.Duration,
		); err != nil {
			return nil, err
		}
		workPackages = append(workPackages, wp)
	}
	rows.Close()

	for _, wp := range workPackages {
		if err := r.load(ctx, wp); err != nil {
			return nil, err
		}
	}
	return workPackages, nil
}

// load loads the element and description bullets for a work package
func (r *pgWorkPackageRepository) load(ctx context.Context, wp *WorkPackage) error {
	element, err := scanWbsElement(r.pool.QueryRow(ctx,
		`SELECT `+wbsElementColumns+` FROM wbs_elements WHERE id = $1`, wp.WbsElementID))
	if err != nil {
		return err
	}
	wp.WbsElement = element

	bullets, err := findBulletsForWorkPackage(ctx, r.pool, wp.ID)
	if err != nil {
		return err
	}
	wp.ExpectedActivities = nil
	wp.Deliverables = nil
	for _, b := range bullets {
		switch b.Type {
		case types.BulletExpectedActivity:
			wp.ExpectedActivities = append(wp.ExpectedActivities, b)
		case types.BulletDeliverable:
			wp.Deliverables = append(wp.Deliverables, b)
		}
	}
	return nil
}

// findWorkPackagesForProject loads a project's work packages with their elements
func findWorkPackagesForProject(ctx context.Context, pool *pgxpool.Pool, projectID string) ([]*WorkPackage, error) {
	query := `
		SELECT id, wbs_element_id, project_id, order_in_project, start_date, duration
		FROM work_packages WHERE project_id = $1
		ORDER BY order_in_project
	`
	rows, err := pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var workPackages []*WorkPackage
	for rows.Next() {
		wp := &WorkPackage{}
		if err := rows.Scan(
			&wp.ID, &wp.WbsElementID, &wp.ProjectID, &wp.OrderInProject, &wp.StartDate, &wp.Duration,
		); err != nil {
			return nil, err
		}
		workPackages = append(workPackages, wp)
	}
	rows.Close()

	repo := &pgWorkPackageRepository{pool: pool}
	for _, wp := range workPackages {
		if err := repo.load(ctx, wp); err != nil {
			return nil, err
		}
	}
	return workPackages, nil
}
