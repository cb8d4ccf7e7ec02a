package repository

import (
	"context"
	"fmt"

	"github.com/routewise/pmconfig/internal/domain"
)

// LoadRepository provides access to the config_loads audit table.
type LoadRepository interface {
	Insert(ctx context.Context, db DBTX, load *domain.ConfigLoad) error
	ListRecent(ctx context.Context, db DBTX, limit int) ([]domain.ConfigLoad, error)
}

type loadRepo struct{}

// NewLoadRepository returns a pgx-backed LoadRepository.
func NewLoadRepository() LoadRepository {
	return &loadRepo{}
}

func (r *loadRepo) Insert(ctx context.Context, db DBTX, l *domain.ConfigLoad) error {
	_, err := db.Exec(ctx, `
		INSERT INTO config_loads (id, path, checksum, outcome, error_count, detail, actor)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		l.ID, l.Path, l.Checksum, l.Outcome, l.ErrorCount, l.Detail, l.Actor,
	)
	return err
}

func (r *loadRepo) ListRecent(ctx context.Context, db DBTX, limit int) ([]domain.ConfigLoad, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := db.Query(ctx, `
		SELECT id, path, checksum, outcome, error_count, detail, actor, created_at
		FROM config_loads
		ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query config loads: %w", err)
	}
	defer rows.Close()

	var loads []domain.ConfigLoad
	for rows.Next() {
		var l domain.ConfigLoad
		if err := rows.Scan(&l.ID, &l.Path, &l.Checksum, &l.Outcome, &l.ErrorCount, &l.Detail, &l.Actor, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan config load: %w", err)
		}
		loads = append(loads, l)
	}
	return loads, rows.Err()
}
