package repository

import (
	"context"
	"time"

	"github.com/apexracing/waypoint-backend/internal/types"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ============================================
// Project Repository Interface
// ============================================

// ProjectRepository defines WBS element and project data operations
type ProjectRepository interface {
	FindWbsElement(ctx context.Context, wbs types.WbsNumber) (*WbsElement, error)
	FindProjectByWbs(ctx context.Context, wbs types.WbsNumber) (*Project, error)
	FindProjectByID(ctx context.Context, id string) (*Project, error)
	FindAllProjects(ctx context.Context) ([]*Project, error)
	HighestProjectNumber(ctx context.Context, carNumber int) (int, error)
	CreateProject(ctx context.Context, element *WbsElement, project *Project) error
	UpdateProject(ctx context.Context, project *Project) error
	SetProjectTeam(ctx context.Context, projectID string, teamID *string) error
	// SoftDeleteProject retires the project's WBS element and the elements of
	// all its work packages in one transaction.
	SoftDeleteProject(ctx context.Context, projectID, deletedByID string, when time.Time) error
	IsFavorite(ctx context.Context, userID, projectID string) (bool, error)
	SetFavorite(ctx context.Context, userID, projectID string, favorite bool) error
	FindFavoritesByUser(ctx context.Context, userID string) ([]*Project, error)
}

// ============================================
// PostgreSQL Project Repository Implementation
// ============================================

type pgProjectRepository struct {
	pool *pgxpool.Pool
}

// NewProjectRepository creates a new PostgreSQL project repository
func NewProjectRepository(pool *pgxpool.Pool) ProjectRepository {
	return &pgProjectRepository{pool: pool}
}

const wbsElementColumns = `id, car_number, project_number, work_package_number, name, status,
	lead_id, manager_id, date_created, date_deleted, deleted_by_id`

func scanWbsElement(row pgx.Row) (*WbsElement, error) {
	e := &WbsElement{}
	err := row.Scan(
		&e.ID, &e.CarNumber, &e.ProjectNumber, &e.WorkPackageNumber, &e.Name, &e.Status,
		&e.LeadID, &e.ManagerID, &e.DateCreated, &e.DateDeleted, &e.DeletedByID,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *pgProjectRepository) FindWbsElement(ctx context.Context, wbs types.WbsNumber) (*WbsElement, error) {
	query := `
		SELECT ` + wbsElementColumns + `
		FROM wbs_elements
		WHERE car_number = $1 AND project_number = $2 AND work_package_number = $3
	`
	element, err := scanWbsElement(r.pool.QueryRow(ctx, query, wbs.CarNumber, wbs.ProjectNumber, wbs.WorkPackageNumber))
	if err != nil || element == nil {
		return element, err
	}
	if err := r.loadElementUsers(ctx, element); err != nil {
		return nil, err
	}
	return element, nil
}

func (r *pgProjectRepository) FindProjectByWbs(ctx context.Context, wbs types.WbsNumber) (*Project, error) {
	query := `
		SELECT p.id, p.wbs_element_id, p.summary, p.team_id
		FROM projects p
		INNER JOIN wbs_elements e ON p.wbs_element_id = e.id
		WHERE e.car_number = $1 AND e.project_number = $2 AND e.work_package_number = $3
	`
	project := &Project{}
	err := r.pool.QueryRow(ctx, query, wbs.CarNumber, wbs.ProjectNumber, wbs.WorkPackageNumber).Scan(
		&project.ID, &project.WbsElementID, &project.Summary, &project.TeamID,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadProject(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (r *pgProjectRepository) FindProjectByID(ctx context.Context, id string) (*Project, error) {
	query := `SELECT id, wbs_element_id, summary, team_id FROM projects WHERE id = $1`
	project := &Project{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&project.ID, &project.WbsElementID, &project.Summary, &project.TeamID,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadProject(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (r *pgProjectRepository) FindAllProjects(ctx context.Context) ([]*Project, error) {
	query := `
		SELECT p.id, p.wbs_element_id, p.summary, p.team_id
		FROM projects p
		INNER JOIN wbs_elements e ON p.wbs_element_id = e.id
		WHERE e.date_deleted IS NULL
		ORDER BY e.car_number, e.project_number
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []*Project
	for rows.Next() {
		project := &Project{}
		if err := rows.Scan(&project.ID, &project.WbsElementID, &project.Summary, &project.TeamID); err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	rows.Close()

	for _, project := range projects {
		if err := r.loadProject(ctx, project); err != nil {
			return nil, err
		}
	}
	return projects, nil
}

func (r *pgProjectRepository) FindFavoritesByUser(ctx context.Context, userID string) ([]*Project, error) {
	query := `
		SELECT p.id, p.wbs_element_id, p.summary, p.team_id
		FROM projects p
		INNER JOIN wbs_elements e ON p.wbs_element_id = e.id
		INNER JOIN project_favorites f ON f.project_id = p.id
		WHERE f.user_id = $1 AND e.date_deleted IS NULL
		ORDER BY e.car_number, e.project_number
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []*Project
	for rows.Next() {
		project := &Project{}
		if err := rows.Scan(&project.ID, &project.WbsElementID, &project.Summary, &project.TeamID); err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	rows.Close()

	for _, project := range projects {
		if err := r.loadProject(ctx, project); err != nil {
			return nil, err
		}
	}
	return projects, nil
}

func (r *pgProjectRepository) HighestProjectNumber(ctx context.Context, carNumber int) (int, error) {
	query := `
		SELECT COALESCE(MAX(project_number), 0)
		FROM wbs_elements WHERE car_number = $1 AND work_package_number = 0
	`
	var highest int
	err := r.pool.QueryRow(ctx, query, carNumber).Scan(&highest)
	return highest, err
}

func (r *pgProjectRepository) CreateProject(ctx context.Context, element *WbsElement, project *Project) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO wbs_elements (car_number, project_number, work_package_number, name, status, lead_id, manager_id)
		VALUES ($1, $2, 0, $3, $4, $5, $6)
		RETURNING id, date_created
	`, element.CarNumber, element.ProjectNumber, element.Name, element.Status,
		element.LeadID, element.ManagerID,
	).Scan(&element.ID, &element.DateCreated)
	if err != nil {
		return err
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO projects (wbs_element_id, summary, team_id)
		VALUES ($1, $2, $3)
		RETURNING id
	`, element.ID, project.Summary, project.TeamID).Scan(&project.ID)
	if err != nil {
		return err
	}
	project.WbsElementID = element.ID
	project.WbsElement = element

	return tx.Commit(ctx)
}

func (r *pgProjectRepository) UpdateProject(ctx context.Context, project *Project) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`UPDATE projects SET summary = $2, team_id = $3 WHERE id = $1`,
		project.ID, project.Summary, project.TeamID,
	); err != nil {
		return err
	}
	if project.WbsElement != nil {
		if _, err := tx.Exec(ctx,
			`UPDATE wbs_elements SET name = $2, status = $3, lead_id = $4, manager_id = $5 WHERE id = $1`,
			project.WbsElementID, project.WbsElement.Name, project.WbsElement.Status,
			project.WbsElement.LeadID, project.WbsElement.ManagerID,
		); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (r *pgProjectRepository) SetProjectTeam(ctx context.Context, projectID string, teamID *string) error {
	query := `UPDATE projects SET team_id = $2 WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, projectID, teamID)
	return err
}

func (r *pgProjectRepository) SoftDeleteProject(ctx context.Context, projectID, deletedByID string, when time.Time) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		UPDATE wbs_elements SET date_deleted = $2, deleted_by_id = $3
		WHERE id = (SELECT wbs_element_id FROM projects WHERE id = $1)
	`, projectID, when, deletedByID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `
		UPDATE wbs_elements SET date_deleted = $2, deleted_by_id = $3
		WHERE date_deleted IS NULL
		  AND id IN (SELECT wbs_element_id FROM work_packages WHERE project_id = $1)
	`, projectID, when, deletedByID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *pgProjectRepository) IsFavorite(ctx context.Context, userID, projectID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM project_favorites WHERE user_id = $1 AND project_id = $2)`
	var favorite bool
	err := r.pool.QueryRow(ctx, query, userID, projectID).Scan(&favorite)
	return favorite, err
}

func (r *pgProjectRepository) SetFavorite(ctx context.Context, userID, projectID string, favorite bool) error {
	if favorite {
		query := `
			INSERT INTO project_favorites (user_id, project_id) VALUES ($1, $2)
			ON CONFLICT (user_id, project_id) DO NOTHING
		`
		_, err := r.pool.Exec(ctx, query, userID, projectID)
		return err
	}
	_, err := r.pool.Exec(ctx,
		`DELETE FROM project_favorites WHERE user_id = $1 AND project_id = $2`, userID, projectID)
	return err
}

// loadProject loads the element, bullets and work packages for a project
func (r *pgProjectRepository) loadProject(ctx context.Context, project *Project) error {
	element, err := scanWbsElement(r.pool.QueryRow(ctx,
		`SELECT `+wbsElementColumns+` FROM wbs_elements WHERE id = $1`, project.WbsElementID))
	if err != nil {
		return err
	}
	if element != nil {
		if err := r.loadElementUsers(ctx, element); err != nil {
			return err
		}
	}
	project.WbsElement = element

	bullets, err := findBulletsForProject(ctx, r.pool, project.ID)
	if err != nil {
		return err
	}
	for _, b := range bullets {
		switch b.Type {
		case types.BulletGoal:
			project.Goals = append(project.Goals, b)
		case types.BulletFeature:
			project.Features = append(project.Features, b)
		case types.BulletConstraint:
			project.Constraints = append(project.Constraints, b)
		}
	}

	workPackages, err := findWorkPackagesForProject(ctx, r.pool, project.ID)
	if err != nil {
		return err
	}
	project.WorkPackages = workPackages
	return nil
}

func (r *pgProjectRepository) loadElementUsers(ctx context.Context, element *WbsElement) error {
	if element.LeadID != nil {
		lead, err := scanUser(r.pool.QueryRow(ctx,
			`SELECT `+userColumns+` FROM users WHERE id = $1`, *element.LeadID))
		if err != nil {
			return err
		}
		element.Lead = lead
	}
	if element.ManagerID != nil {
		manager, err := scanUser(r.pool.QueryRow(ctx,
			`SELECT `+userColumns+` FROM users WHERE id = $1`, *element.ManagerID))
		if err != nil {
			return err
		}
		element.Manager = manager
	}
	return nil
}
