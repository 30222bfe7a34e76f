package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ============================================
// Team Repository Interface
// ============================================

// TeamRepository defines team data operations
type TeamRepository interface {
	Create(ctx context.Context, team *Team) error
	FindByID(ctx context.Context, id string) (*Team, error)
	FindAll(ctx context.Context) ([]*Team, error)
	// FindByHeadOrLead returns a team (other than excludeTeamID) where the
	// user is currently head or lead, or nil if there is none.
	FindByHeadOrLead(ctx context.Context, userID, excludeTeamID string) (*Team, error)
	SetMembers(ctx context.Context, teamID string, userIDs []string) error
	SetLeads(ctx context.Context, teamID string, userIDs []string) error
	SetHead(ctx context.Context, teamID, userID string) error
	UpdateDescription(ctx context.Context, teamID, description string) error
}

// ============================================
// PostgreSQL Team Repository Implementation
// ============================================

type pgTeamRepository struct {
	pool *pgxpool.Pool
}

// NewTeamRepository creates a new PostgreSQL team repository
func NewTeamRepository(pool *pgxpool.Pool) TeamRepository {
	return &pgTeamRepository{pool: pool}
}

func (r *pgTeamRepository) Create(ctx context.Context, team *Team) error {
	query := `
		INSERT INTO teams (name, description, head_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`
	return r.pool.QueryRow(ctx, query,
		team.Name, team.Description, team.HeadID,
	).Scan(&team.ID, &team.CreatedAt, &team.UpdatedAt)
}

func (r *pgTeamRepository) FindByID(ctx context.Context, id string) (*Team, error) {
	query := `
		SELECT id, name, description, head_id, created_at, updated_at
		FROM teams WHERE id = $1
	`
	team := &Team{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&team.ID, &team.Name, &team.Description, &team.HeadID,
		&team.CreatedAt, &team.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadRoster(ctx, team); err != nil {
		return nil, err
	}
	return team, nil
}

func (r *pgTeamRepository) FindAll(ctx context.Context) ([]*Team, error) {
	query := `
		SELECT id, name, description, head_id, created_at, updated_at
		FROM teams ORDER BY name
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teams []*Team
	for rows.Next() {
		team := &Team{}
		if err := rows.Scan(
			&team.ID, &team.Name, &team.Description, &team.HeadID,
			&team.CreatedAt, &team.UpdatedAt,
		); err != nil {
			return nil, err
		}
		teams = append(teams, team)
	}
	rows.Close()

	for _, team := range teams {
		if err := r.loadRoster(ctx, team); err != nil {
			return nil, err
		}
	}
	return teams, nil
}

func (r *pgTeamRepository) FindByHeadOrLead(ctx context.Context, userID, excludeTeamID string) (*Team, error) {
	query := `
		SELECT t.id, t.name, t.description, t.head_id, t.created_at, t.updated_at
		FROM teams t
		LEFT JOIN team_leads tl ON t.id = tl.team_id
		WHERE (t.head_id = $1 OR tl.user_id = $1) AND t.id != $2
		LIMIT 1
	`
	team := &Team{}
	err := r.pool.QueryRow(ctx, query, userID, excludeTeamID).Scan(
		&team.ID, &team.Name, &team.Description, &team.HeadID,
		&team.CreatedAt, &team.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return team, nil
}

// SetMembers replaces the team's member set in one transaction
func (r *pgTeamRepository) SetMembers(ctx context.Context, teamID string, userIDs []string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM team_members WHERE team_id = $1`, teamID); err != nil {
		return err
	}
	for _, userID := range userIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO team_members (team_id, user_id) VALUES ($1, $2)`, teamID, userID,
		); err != nil {
			return err
		}
	}
	if _, err := tx.Exec(ctx, `UPDATE teams SET updated_at = NOW() WHERE id = $1`, teamID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// SetLeads replaces the team's lead set in one transaction
func (r *pgTeamRepository) SetLeads(ctx context.Context, teamID string, userIDs []string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM team_leads WHERE team_id = $1`, teamID); err != nil {
		return err
	}
	for _, userID := range userIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO team_leads (team_id, user_id) VALUES ($1, $2)`, teamID, userID,
		); err != nil {
			return err
		}
	}
	if _, err := tx.Exec(ctx, `UPDATE teams SET updated_at = NOW() WHERE id = $1`, teamID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *pgTeamRepository) SetHead(ctx context.Context, teamID, userID string) error {
	query := `UPDATE teams SET head_id = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, teamID, userID)
	return err
}

func (r *pgTeamRepository) UpdateDescription(ctx context.Context, teamID, description string) error {
	query := `UPDATE teams SET description = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, teamID, description)
	return err
}

// loadRoster loads the head, leads and members for a team
func (r *pgTeamRepository) loadRoster(ctx context.Context, team *Team) error {
	head, err := r.findUser(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, team.HeadID)
	if err != nil {
		return err
	}
	team.Head = head

	leads, err := r.findUsers(ctx, `
		SELECT `+prefixedUserColumns("u")+`
		FROM users u INNER JOIN team_leads tl ON u.id = tl.user_id
		WHERE tl.team_id = $1 ORDER BY u.last_name
	`, team.ID)
	if err != nil {
		return err
	}
	team.Leads = leads

	members, err := r.findUsers(ctx, `
		SELECT `+prefixedUserColumns("u")+`
		FROM users u INNER JOIN team_members tm ON u.id = tm.user_id
		WHERE tm.team_id = $1 ORDER BY u.last_name
	`, team.ID)
	if err != nil {
		return err
	}
	team.Members = members
	return nil
}

func (r *pgTeamRepository) findUser(ctx context.Context, query string, args ...interface{}) (*User, error) {
	return scanUser(r.pool.QueryRow(ctx, query, args...))
}

func (r *pgTeamRepository) findUsers(ctx context.Context, query string, args ...interface{}) ([]*User, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		user := &User{}
		if err := rows.Scan(
			&user.ID, &user.Email, &user.Password, &user.FirstName, &user.LastName,
			&user.Role, &user.Avatar, &user.CreatedAt, &user.UpdatedAt,
		); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}
