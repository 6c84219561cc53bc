package store

import (
	"context"
	"time"

	"github.com/voyagen/tvguide/internal/models"
	"github.com/voyagen/tvguide/internal/query"
)

// ChannelStore persists channels.
type ChannelStore interface {
	// ListChannels returns one page of channels matching plan and the total
	// number of matching rows (before limit/offset).
	ListChannels(ctx context.Context, plan query.Plan) ([]models.Channel, int, error)
	// AllChannels returns every channel ordered by id.
	AllChannels(ctx context.Context) ([]models.Channel, error)
	GetChannel(ctx context.Context, id int64) (*models.Channel, error)
	CreateChannel(ctx context.Context, ch ChannelInput) (*models.Channel, error)
	// UpdateChannel changes the non-nil fields and returns the stored row.
	UpdateChannel(ctx context.Context, id int64, fields ChannelUpdate) (*models.Channel, error)
	// DeleteChannel removes a channel and returns it. Fails with
	// ErrReferenced while programs still point at it.
	DeleteChannel(ctx context.Context, id int64) (*models.Channel, error)
	CountChannels(ctx context.Context) (int64, error)
}

// ProgramStore persists programs. Read methods join channel, type and
// category names.
type ProgramStore interface {
	ListPrograms(ctx context.Context, plan query.Plan) ([]models.Program, int, error)
	AllPrograms(ctx context.Context) ([]models.Program, error)
	GetProgram(ctx context.Context, id int64) (*models.Program, error)
	CreateProgram(ctx context.Context, p ProgramInput) (*models.Program, error)
	UpdateProgram(ctx context.Context, id int64, fields ProgramUpdate) (*models.Program, error)
	DeleteProgram(ctx context.Context, id int64) (*models.Program, error)
	CountPrograms(ctx context.Context) (int64, error)
}

// LookupStore reads the program type and category reference tables.
type LookupStore interface {
	ListProgramTypes(ctx context.Context) ([]models.Lookup, error)
	ListCategories(ctx context.Context) ([]models.Lookup, error)
}

// UserStore persists users. Passwords arrive already hashed.
type UserStore interface {
	CreateUser(ctx context.Context, u UserInput) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateUser(ctx context.Context, id int64, fields UserUpdate) (*models.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

// Store defines persistence for channels, programs, lookups and users.
type Store interface {
	ChannelStore
	ProgramStore
	LookupStore
	UserStore

	// Ping checks the database connection.
	Ping(ctx context.Context) error
}

// ChannelInput holds the fields of a new channel.
type ChannelInput struct {
	Name     string
	IsActive bool
}

// ChannelUpdate holds mutable fields for PUT /channels/{id}.
// Pointer fields: nil = don't change, non-nil = set.
type ChannelUpdate struct {
	Name     *string
	IsActive *bool
}

// ProgramInput holds the fields of a new program, including the
// server-assigned air date.
type ProgramInput struct {
	Title       string
	Duration    int32
	Description *string
	VideoURL    *string
	ChannelID   int64
	TypeID      int64
	CategoryID  int64
	AirDate     time.Time
	IsActive    bool
}

// ProgramUpdate holds mutable fields for PUT /programs/{id}.
type ProgramUpdate struct {
	Title       *string
	Duration    *int32
	Description *string
	VideoURL    *string
	ChannelID   *int64
	TypeID      *int64
	CategoryID  *int64
	IsActive    *bool
}

// UserInput holds the fields of a new user.
type UserInput struct {
	Username     string
	Email        string
	PasswordHash string
	IsAdmin      bool
}

// UserUpdate holds mutable fields for PUT /users/{id}. PasswordHash is only
// set when the caller supplied a new password.
type UserUpdate struct {
	Username     *string
	Email        *string
	PasswordHash *string
	IsAdmin      *bool
}
