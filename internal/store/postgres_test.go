package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyagen/tvguide/internal/query"
)

// newTestPostgres connects to TEST_DATABASE_URL, applies the migrations and
// empties the data tables. Tests are skipped when the variable is unset.
func newTestPostgres(t *testing.T) *Postgres {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	require.NoError(t, RunMigrations(dsn, "file://../../migrations"))

	pg, err := NewPostgres(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pg.Close)

	_, err = pg.pool.Exec(ctx, `TRUNCATE programs, channels, users RESTART IDENTITY`)
	require.NoError(t, err)
	return pg
}

func addChannel(t *testing.T, pg *Postgres, name string) int64 {
	t.Helper()
	ch, err := pg.CreateChannel(context.Background(), ChannelInput{Name: name, IsActive: true})
	require.NoError(t, err)
	return ch.ID
}

func addProgram(t *testing.T, pg *Postgres, in ProgramInput) int64 {
	t.Helper()
	if in.AirDate.IsZero() {
		in.AirDate = time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)
	}
	p, err := pg.CreateProgram(context.Background(), in)
	require.NoError(t, err)
	return p.ID
}

func TestPostgresCreateProgramJoinsNames(t *testing.T) {
	pg := newTestPostgres(t)
	ctx := context.Background()
	chID := addChannel(t, pg, "Movies 24")
	airDate := time.Date(2024, 2, 10, 21, 0, 0, 0, time.UTC)

	p, err := pg.CreateProgram(ctx, ProgramInput{
		Title: "Night Feature", Duration: 120, ChannelID: chID, TypeID: 2, CategoryID: 6,
		AirDate: airDate, IsActive: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Movies 24", p.ChannelName)
	assert.Equal(t, "Movie", p.TypeName)
	assert.Equal(t, "Drama", p.CategoryName)
	assert.True(t, airDate.Equal(p.AirDate))
	assert.Nil(t, p.Description)

	_, err = pg.CreateProgram(ctx, ProgramInput{Title: "Orphan", ChannelID: chID + 100, TypeID: 1, CategoryID: 1, AirDate: airDate})
	assert.ErrorIs(t, err, ErrInvalidReference)
}

func TestPostgresListProgramsFilteredAndSorted(t *testing.T) {
	pg := newTestPostgres(t)
	news := addChannel(t, pg, "News 24")
	kids := addChannel(t, pg, "Cartoon Box")

	addProgram(t, pg, ProgramInput{Title: "Morning Brief", Duration: 30, ChannelID: news, TypeID: 5, CategoryID: 1})
	addProgram(t, pg, ProgramInput{Title: "Evening Brief", Duration: 45, ChannelID: news, TypeID: 5, CategoryID: 1})
	addProgram(t, pg, ProgramInput{Title: "Late Brief", Duration: 15, ChannelID: news, TypeID: 5, CategoryID: 1})
	addProgram(t, pg, ProgramInput{Title: "Toon Hour", Duration: 60, ChannelID: kids, TypeID: 3, CategoryID: 3})

	// The global filter matches the joined channel name.
	plan, err := ProgramSchema.Plan(query.Request{
		GlobalFilter: "news",
		Filters:      []query.ColumnFilter{{ID: "title", Value: "brief", Type: query.OpContains}},
		Sorting:      []query.SortField{{ID: "duration", Desc: true}},
		Page:         query.Page{Start: 0, Size: 2},
	})
	require.NoError(t, err)

	rows, total, err := pg.ListPrograms(context.Background(), plan)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, rows, 2)
	assert.Equal(t, "Evening Brief", rows[0].Title)
	assert.Equal(t, "Morning Brief", rows[1].Title)
	assert.Equal(t, "News 24", rows[0].ChannelName)

	plan.Offset = query.Page{Start: 1, Size: 2}.Offset()
	rows, _, err = pg.ListPrograms(context.Background(), plan)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Late Brief", rows[0].Title)

	// The global filter also matches the joined category name.
	plan, err = ProgramSchema.Plan(query.Request{GlobalFilter: "kids", Page: query.Page{Size: 10}})
	require.NoError(t, err)
	rows, total, err = pg.ListPrograms(context.Background(), plan)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, rows, 1)
	assert.Equal(t, "Toon Hour", rows[0].Title)
}

func TestPostgresListChannelsHugeOffset(t *testing.T) {
	pg := newTestPostgres(t)
	addChannel(t, pg, "Only")

	plan, err := ChannelSchema.Plan(query.Request{Page: query.Page{Start: 100000000000000000, Size: 100}})
	require.NoError(t, err)
	rows, total, err := pg.ListChannels(context.Background(), plan)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Empty(t, rows)
}

func TestPostgresUpdateProgramKeepsUnsetFields(t *testing.T) {
	pg := newTestPostgres(t)
	ctx := context.Background()
	chID := addChannel(t, pg, "Sports One")
	desc := "live coverage"
	id := addProgram(t, pg, ProgramInput{
		Title: "Match Day", Duration: 90, Description: &desc, ChannelID: chID, TypeID: 1, CategoryID: 2, IsActive: true,
	})

	duration := int32(100)
	cat := int64(1)
	p, err := pg.UpdateProgram(ctx, id, ProgramUpdate{Duration: &duration, CategoryID: &cat})
	require.NoError(t, err)
	assert.Equal(t, "Match Day", p.Title)
	assert.Equal(t, int32(100), p.Duration)
	require.NotNil(t, p.Description)
	assert.Equal(t, "live coverage", *p.Description)
	assert.Equal(t, "Entertainment", p.CategoryName)
	assert.Equal(t, "Sports One", p.ChannelName)

	bad := int64(999)
	_, err = pg.UpdateProgram(ctx, id, ProgramUpdate{TypeID: &bad})
	assert.ErrorIs(t, err, ErrInvalidReference)

	_, err = pg.UpdateProgram(ctx, id+100, ProgramUpdate{Duration: &duration})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostgresDeleteReferencedChannel(t *testing.T) {
	pg := newTestPostgres(t)
	ctx := context.Background()
	chID := addChannel(t, pg, "News 24")
	pid := addProgram(t, pg, ProgramInput{Title: "Morning Brief", ChannelID: chID, TypeID: 5, CategoryID: 1})

	_, err := pg.DeleteChannel(ctx, chID)
	assert.ErrorIs(t, err, ErrReferenced)
	_, err = pg.GetChannel(ctx, chID)
	require.NoError(t, err)

	deleted, err := pg.DeleteProgram(ctx, pid)
	require.NoError(t, err)
	assert.Equal(t, "News 24", deleted.ChannelName)

	ch, err := pg.DeleteChannel(ctx, chID)
	require.NoError(t, err)
	assert.Equal(t, "News 24", ch.Name)

	_, err = pg.DeleteChannel(ctx, chID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostgresUpdateChannelPartial(t *testing.T) {
	pg := newTestPostgres(t)
	id := addChannel(t, pg, "Old Name")

	inactive := false
	ch, err := pg.UpdateChannel(context.Background(), id, ChannelUpdate{IsActive: &inactive})
	require.NoError(t, err)
	assert.Equal(t, "Old Name", ch.Name)
	assert.False(t, ch.IsActive)
}

func TestPostgresUpdateUserKeepsHash(t *testing.T) {
	pg := newTestPostgres(t)
	ctx := context.Background()

	u, err := pg.CreateUser(ctx, UserInput{Username: "alice", Email: "alice@example.com", PasswordHash: "hash-1"})
	require.NoError(t, err)

	email := "a@example.com"
	got, err := pg.UpdateUser(ctx, u.ID, UserUpdate{Email: &email})
	require.NoError(t, err)
	assert.Equal(t, "hash-1", got.PasswordHash)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, "a@example.com", got.Email)

	hash := "hash-2"
	got, err = pg.UpdateUser(ctx, u.ID, UserUpdate{PasswordHash: &hash})
	require.NoError(t, err)
	assert.Equal(t, "hash-2", got.PasswordHash)
	assert.Equal(t, "a@example.com", got.Email)

	_, err = pg.CreateUser(ctx, UserInput{Username: "alice", Email: "x@example.com", PasswordHash: "h"})
	assert.ErrorIs(t, err, ErrConflict)

	byName, err := pg.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byName.ID)

	require.NoError(t, pg.DeleteUser(ctx, u.ID))
	assert.ErrorIs(t, pg.DeleteUser(ctx, u.ID), ErrNotFound)
}
