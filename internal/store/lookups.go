package store

import (
	"context"

	"github.com/voyagen/tvguide/internal/models"
)

func scanLookup(row scanner) (models.Lookup, error) {
	var l models.Lookup
	err := row.Scan(&l.ID, &l.Name)
	return l, err
}

// ListProgramTypes returns all program types ordered by name.
func (p *Postgres) ListProgramTypes(ctx context.Context) ([]models.Lookup, error) {
	return collect(ctx, p, "ListProgramTypes", `SELECT id, name FROM program_types ORDER BY name`, scanLookup)
}

// ListCategories returns all categories ordered by name.
func (p *Postgres) ListCategories(ctx context.Context) ([]models.Lookup, error) {
	return collect(ctx, p, "ListCategories", `SELECT id, name FROM categories ORDER BY name`, scanLookup)
}
