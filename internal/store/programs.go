package store

import (
	"context"
	"fmt"

	"github.com/voyagen/tvguide/internal/models"
	"github.com/voyagen/tvguide/internal/query"
)

const programColumns = `p.id, p.title, p.duration, p.description, p.video_url,
	p.channel_id, p.type_id, p.category_id, p.air_date, p.is_active,
	ch.name, t.name, cat.name`

// programJoins attaches the display names. The alias p must be bound by the caller.
const programJoins = `
	JOIN channels ch ON ch.id = p.channel_id
	JOIN program_types t ON t.id = p.type_id
	JOIN categories cat ON cat.id = p.category_id`

func scanProgram(row scanner) (models.Program, error) {
	var pr models.Program
	err := row.Scan(
		&pr.ID, &pr.Title, &pr.Duration, &pr.Description, &pr.VideoURL,
		&pr.ChannelID, &pr.TypeID, &pr.CategoryID, &pr.AirDate, &pr.IsActive,
		&pr.ChannelName, &pr.TypeName, &pr.CategoryName,
	)
	return pr, err
}

// ListPrograms returns programs matching plan and the total count.
func (p *Postgres) ListPrograms(ctx context.Context, plan query.Plan) ([]models.Program, int, error) {
	from := `FROM programs p` + programJoins
	total, err := p.count(ctx, "ListPrograms", `SELECT count(*) `+from+` `+plan.Where, plan.Args...)
	if err != nil {
		return nil, 0, err
	}
	limit, args := plan.LimitOffset()
	sql := fmt.Sprintf(`SELECT %s %s %s %s %s`, programColumns, from, plan.Where, plan.OrderBy, limit)
	programs, err := collect(ctx, p, "ListPrograms", sql, scanProgram, args...)
	if err != nil {
		return nil, 0, err
	}
	return programs, total, nil
}

// AllPrograms returns every program ordered by id.
func (p *Postgres) AllPrograms(ctx context.Context) ([]models.Program, error) {
	return collect(ctx, p, "AllPrograms",
		`SELECT `+programColumns+` FROM programs p`+programJoins+` ORDER BY p.id`, scanProgram)
}

// GetProgram returns a program by id.
func (p *Postgres) GetProgram(ctx context.Context, id int64) (*models.Program, error) {
	pr, err := scanProgram(p.pool.QueryRow(ctx,
		`SELECT `+programColumns+` FROM programs p`+programJoins+` WHERE p.id = $1`, id))
	if err != nil {
		return nil, classify("GetProgram", err, ErrInvalidReference)
	}
	return &pr, nil
}

// CreateProgram inserts a program and returns it with display names joined.
func (p *Postgres) CreateProgram(ctx context.Context, in ProgramInput) (*models.Program, error) {
	pr, err := scanProgram(p.pool.QueryRow(ctx,
		`WITH p AS (
		   INSERT INTO programs (title, duration, description, video_url, channel_id, type_id, category_id, air_date, is_active)
		   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		   RETURNING *
		 )
		 SELECT `+programColumns+` FROM p`+programJoins,
		in.Title, in.Duration, in.Description, in.VideoURL,
		in.ChannelID, in.TypeID, in.CategoryID, in.AirDate, in.IsActive,
	))
	if err != nil {
		return nil, classify("CreateProgram", err, ErrInvalidReference)
	}
	return &pr, nil
}

// UpdateProgram sets the non-nil fields of a program. The air date is never
// changed after creation.
func (p *Postgres) UpdateProgram(ctx context.Context, id int64, fields ProgramUpdate) (*models.Program, error) {
	pr, err := scanProgram(p.pool.QueryRow(ctx,
		`WITH p AS (
		   UPDATE programs SET
		     title = COALESCE($2, title),
		     duration = COALESCE($3, duration),
		     description = COALESCE($4, description),
		     video_url = COALESCE($5, video_url),
		     channel_id = COALESCE($6, channel_id),
		     type_id = COALESCE($7, type_id),
		     category_id = COALESCE($8, category_id),
		     is_active = COALESCE($9, is_active)
		   WHERE id = $1
		   RETURNING *
		 )
		 SELECT `+programColumns+` FROM p`+programJoins,
		id, fields.Title, fields.Duration, fields.Description, fields.VideoURL,
		fields.ChannelID, fields.TypeID, fields.CategoryID, fields.IsActive,
	))
	if err != nil {
		return nil, classify("UpdateProgram", err, ErrInvalidReference)
	}
	return &pr, nil
}

// DeleteProgram deletes a program and returns the removed row.
func (p *Postgres) DeleteProgram(ctx context.Context, id int64) (*models.Program, error) {
	pr, err := scanProgram(p.pool.QueryRow(ctx,
		`WITH p AS (DELETE FROM programs WHERE id = $1 RETURNING *)
		 SELECT `+programColumns+` FROM p`+programJoins, id))
	if err != nil {
		return nil, classify("DeleteProgram", err, ErrReferenced)
	}
	return &pr, nil
}

// CountPrograms returns the number of programs.
func (p *Postgres) CountPrograms(ctx context.Context) (int64, error) {
	var n int64
	if err := p.pool.QueryRow(ctx, `SELECT count(*) FROM programs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("CountPrograms: %w", err)
	}
	return n, nil
}
