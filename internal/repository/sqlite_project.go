package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hazardhunt/tts/internal/db"
	"github.com/hazardhunt/tts/internal/domain"
)

// SQLiteProjectRepo implements ProjectRepo over the local project cache.
type SQLiteProjectRepo struct {
	db db.DBTX
}

// NewSQLiteProjectRepo creates a new SQLiteProjectRepo.
func NewSQLiteProjectRepo(db db.DBTX) *SQLiteProjectRepo {
	return &SQLiteProjectRepo{db: db}
}

func (r *SQLiteProjectRepo) Upsert(ctx context.Context, p *domain.Project) error {
	query := `INSERT INTO projects (id, name, address, synced_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, address = excluded.address, synced_at = excluded.synced_at`
	_, err := r.db.ExecContext(ctx, query, p.ID, p.Name, p.Address, formatTime(p.SyncedAt))
	if err != nil {
		return fmt.Errorf("upserting project: %w", err)
	}
	return nil
}

func (r *SQLiteProjectRepo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, address, synced_at FROM projects WHERE id = ?`, id)

	var p domain.Project
	var syncedAt string
	if err := row.Scan(&p.ID, &p.Name, &p.Address, &syncedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("project %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning project: %w", err)
	}
	return populateProject(&p, syncedAt)
}

func (r *SQLiteProjectRepo) List(ctx context.Context) ([]*domain.Project, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, address, synced_at FROM projects ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	var projects []*domain.Project
	for rows.Next() {
		var p domain.Project
		var syncedAt string
		if err := rows.Scan(&p.ID, &p.Name, &p.Address, &syncedAt); err != nil {
			return nil, fmt.Errorf("scanning project row: %w", err)
		}
		proj, err := populateProject(&p, syncedAt)
		if err != nil {
			return nil, err
		}
		projects = append(projects, proj)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating projects: %w", err)
	}
	return projects, nil
}

func populateProject(p *domain.Project, syncedAt string) (*domain.Project, error) {
	t, err := parseTime("synced_at", syncedAt)
	if err != nil {
		return nil, err
	}
	p.SyncedAt = t
	return p, nil
}
