package service

import (
	"context"
	"strings"

	"github.com/voyagen/tvguide/internal/models"
	"github.com/voyagen/tvguide/internal/notify"
	"github.com/voyagen/tvguide/internal/query"
	"github.com/voyagen/tvguide/internal/store"
)

// ListChannels runs a filtered, sorted, paginated channel query and returns
// the page and the total number of matching channels.
func (c *Catalog) ListChannels(ctx context.Context, req query.Request) ([]models.Channel, int, error) {
	req.Page = req.Page.Cap(c.maxPageSize)
	plan, err := store.ChannelSchema.Plan(req)
	if err != nil {
		return nil, 0, err
	}
	return c.store.ListChannels(ctx, plan)
}

// AllChannels returns every channel.
func (c *Catalog) AllChannels(ctx context.Context) ([]models.Channel, error) {
	return c.store.AllChannels(ctx)
}

// GetChannel returns one channel.
func (c *Catalog) GetChannel(ctx context.Context, id int64) (*models.Channel, error) {
	return c.store.GetChannel(ctx, id)
}

// CountChannels returns the number of channels.
func (c *Catalog) CountChannels(ctx context.Context) (int64, error) {
	return c.store.CountChannels(ctx)
}

// CreateChannel validates and stores a new channel.
func (c *Catalog) CreateChannel(ctx context.Context, in store.ChannelInput) (*models.Channel, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, invalid("name is required")
	}
	ch, err := c.store.CreateChannel(ctx, in)
	if err != nil {
		return nil, err
	}
	c.changed(ctx, notify.ChannelsUpdated)
	return ch, nil
}

// UpdateChannel applies a partial update.
func (c *Catalog) UpdateChannel(ctx context.Context, id int64, fields store.ChannelUpdate) (*models.Channel, error) {
	if fields.Name != nil {
		name := strings.TrimSpace(*fields.Name)
		if name == "" {
			return nil, invalid("name cannot be empty")
		}
		fields.Name = &name
	}
	ch, err := c.store.UpdateChannel(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	c.changed(ctx, notify.ChannelsUpdated)
	return ch, nil
}

// DeleteChannel removes a channel that no program airs on.
func (c *Catalog) DeleteChannel(ctx context.Context, id int64) (*models.Channel, error) {
	ch, err := c.store.DeleteChannel(ctx, id)
	if err != nil {
		return nil, err
	}
	c.changed(ctx, notify.ChannelsUpdated)
	return ch, nil
}
