package store

import (
	"context"
	"fmt"

	"github.com/voyagen/tvguide/internal/models"
	"github.com/voyagen/tvguide/internal/query"
)

const channelColumns = `c.id, c.name, c.is_active`

func scanChannel(row scanner) (models.Channel, error) {
	var ch models.Channel
	err := row.Scan(&ch.ID, &ch.Name, &ch.IsActive)
	return ch, err
}

// ListChannels returns channels matching plan and the total count.
func (p *Postgres) ListChannels(ctx context.Context, plan query.Plan) ([]models.Channel, int, error) {
	total, err := p.count(ctx, "ListChannels", `SELECT count(*) FROM channels c `+plan.Where, plan.Args...)
	if err != nil {
		return nil, 0, err
	}
	limit, args := plan.LimitOffset()
	sql := fmt.Sprintf(`SELECT %s FROM channels c %s %s %s`, channelColumns, plan.Where, plan.OrderBy, limit)
	channels, err := collect(ctx, p, "ListChannels", sql, scanChannel, args...)
	if err != nil {
		return nil, 0, err
	}
	return channels, total, nil
}

// AllChannels returns every channel ordered by id.
func (p *Postgres) AllChannels(ctx context.Context) ([]models.Channel, error) {
	return collect(ctx, p, "AllChannels", `SELECT `+channelColumns+` FROM channels c ORDER BY c.id`, scanChannel)
}

// GetChannel returns a channel by id.
func (p *Postgres) GetChannel(ctx context.Context, id int64) (*models.Channel, error) {
	ch, err := scanChannel(p.pool.QueryRow(ctx, `SELECT `+channelColumns+` FROM channels c WHERE c.id = $1`, id))
	if err != nil {
		return nil, classify("GetChannel", err, ErrInvalidReference)
	}
	return &ch, nil
}

// CreateChannel inserts a channel and returns it.
func (p *Postgres) CreateChannel(ctx context.Context, in ChannelInput) (*models.Channel, error) {
	ch, err := scanChannel(p.pool.QueryRow(ctx,
		`INSERT INTO channels AS c (name, is_active) VALUES ($1, $2)
		 RETURNING `+channelColumns,
		in.Name, in.IsActive,
	))
	if err != nil {
		return nil, classify("CreateChannel", err, ErrInvalidReference)
	}
	return &ch, nil
}

// UpdateChannel sets the non-nil fields of a channel.
func (p *Postgres) UpdateChannel(ctx context.Context, id int64, fields ChannelUpdate) (*models.Channel, error) {
	ch, err := scanChannel(p.pool.QueryRow(ctx,
		`UPDATE channels AS c SET
		   name = COALESCE($2, c.name),
		   is_active = COALESCE($3, c.is_active)
		 WHERE c.id = $1
		 RETURNING `+channelColumns,
		id, fields.Name, fields.IsActive,
	))
	if err != nil {
		return nil, classify("UpdateChannel", err, ErrInvalidReference)
	}
	return &ch, nil
}

// DeleteChannel deletes a channel. Programs reference channels with
// ON DELETE RESTRICT, so this fails with ErrReferenced while any remain.
func (p *Postgres) DeleteChannel(ctx context.Context, id int64) (*models.Channel, error) {
	ch, err := scanChannel(p.pool.QueryRow(ctx,
		`DELETE FROM channels AS c WHERE c.id = $1 RETURNING `+channelColumns, id))
	if err != nil {
		return nil, classify("DeleteChannel", err, ErrReferenced)
	}
	return &ch, nil
}

// CountChannels returns the number of channels.
func (p *Postgres) CountChannels(ctx context.Context) (int64, error) {
	var n int64
	if err := p.pool.QueryRow(ctx, `SELECT count(*) FROM channels`).Scan(&n); err != nil {
		return 0, fmt.Errorf("CountChannels: %w", err)
	}
	return n, nil
}
