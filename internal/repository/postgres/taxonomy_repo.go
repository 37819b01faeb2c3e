package postgres

import (
	"context"
	"database/sql"

	"communityevents/internal/domain"
)

type taxonomyRepository struct {
	DB *sql.DB
}

func NewTaxonomyRepository(db *sql.DB) domain.TaxonomyRepository {
	return &taxonomyRepository{DB: db}
}

func (r *taxonomyRepository) ListCategories(ctx context.Context) ([]string, error) {
	return r.listLabels(ctx, `SELECT DISTINCT unnest(categories) AS label FROM events ORDER BY label`)
}

func (r *taxonomyRepository) ListTags(ctx context.Context) ([]string, error) {
	return r.listLabels(ctx, `SELECT DISTINCT unnest(tags) AS label FROM events ORDER BY label`)
}

func (r *taxonomyRepository) listLabels(ctx context.Context, query string) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	labels := make([]string, 0)
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, err
		}
		if label != "" {
			labels = append(labels, label)
		}
	}
	return labels, rows.Err()
}
