package service

import (
	"context"
	"strings"

	"github.com/voyagen/tvguide/internal/models"
	"github.com/voyagen/tvguide/internal/notify"
	"github.com/voyagen/tvguide/internal/query"
	"github.com/voyagen/tvguide/internal/store"
)

// NewProgram holds the client-supplied fields of a new program.
type NewProgram struct {
	Title       string
	Duration    int32
	Description *string
	VideoURL    *string
	ChannelID   int64
	TypeID      int64
	CategoryID  int64
	IsActive    bool
}

// ListPrograms runs a filtered, sorted, paginated program query.
func (c *Catalog) ListPrograms(ctx context.Context, req query.Request) ([]models.Program, int, error) {
	req.Page = req.Page.Cap(c.maxPageSize)
	plan, err := store.ProgramSchema.Plan(req)
	if err != nil {
		return nil, 0, err
	}
	return c.store.ListPrograms(ctx, plan)
}

// AllPrograms returns every program with display names.
func (c *Catalog) AllPrograms(ctx context.Context) ([]models.Program, error) {
	return c.store.AllPrograms(ctx)
}

// GetProgram returns one program.
func (c *Catalog) GetProgram(ctx context.Context, id int64) (*models.Program, error) {
	return c.store.GetProgram(ctx, id)
}

// CountPrograms returns the number of programs.
func (c *Catalog) CountPrograms(ctx context.Context) (int64, error) {
	return c.store.CountPrograms(ctx)
}

// ListProgramTypes returns the program type lookup table.
func (c *Catalog) ListProgramTypes(ctx context.Context) ([]models.Lookup, error) {
	return c.store.ListProgramTypes(ctx)
}

// ListCategories returns the category lookup table.
func (c *Catalog) ListCategories(ctx context.Context) ([]models.Lookup, error) {
	return c.store.ListCategories(ctx)
}

// CreateProgram validates and stores a new program. The air date is a
// synthetic backfill: a uniformly random whole number of days, 1 to 30,
// before now.
func (c *Catalog) CreateProgram(ctx context.Context, in NewProgram) (*models.Program, error) {
	in.Title = strings.TrimSpace(in.Title)
	switch {
	case in.Title == "":
		return nil, invalid("title is required")
	case in.Duration < 0:
		return nil, invalid("duration must not be negative")
	case in.ChannelID <= 0:
		return nil, invalid("channelId is required")
	case in.TypeID <= 0:
		return nil, invalid("typeId is required")
	case in.CategoryID <= 0:
		return nil, invalid("categoryId is required")
	}
	p, err := c.store.CreateProgram(ctx, store.ProgramInput{
		Title:       in.Title,
		Duration:    in.Duration,
		Description: in.Description,
		VideoURL:    in.VideoURL,
		ChannelID:   in.ChannelID,
		TypeID:      in.TypeID,
		CategoryID:  in.CategoryID,
		AirDate:     c.now().UTC().AddDate(0, 0, -c.airDateDays()),
		IsActive:    in.IsActive,
	})
	if err != nil {
		return nil, err
	}
	c.changed(ctx, notify.ProgramsUpdated)
	return p, nil
}

// UpdateProgram applies a partial update.
func (c *Catalog) UpdateProgram(ctx context.Context, id int64, fields store.ProgramUpdate) (*models.Program, error) {
	if fields.Title != nil {
		title := strings.TrimSpace(*fields.Title)
		if title == "" {
			return nil, invalid("title cannot be empty")
		}
		fields.Title = &title
	}
	if fields.Duration != nil && *fields.Duration < 0 {
		return nil, invalid("duration must not be negative")
	}
	for name, ref := range map[string]*int64{
		"channelId":  fields.ChannelID,
		"typeId":     fields.TypeID,
		"categoryId": fields.CategoryID,
	} {
		if ref != nil && *ref <= 0 {
			return nil, invalid("%s must be positive", name)
		}
	}
	p, err := c.store.UpdateProgram(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	c.changed(ctx, notify.ProgramsUpdated)
	return p, nil
}

// DeleteProgram removes a program.
func (c *Catalog) DeleteProgram(ctx context.Context, id int64) (*models.Program, error) {
	p, err := c.store.DeleteProgram(ctx, id)
	if err != nil {
		return nil, err
	}
	c.changed(ctx, notify.ProgramsUpdated)
	return p, nil
}
