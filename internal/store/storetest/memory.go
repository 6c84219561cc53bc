// Package storetest provides an in-memory store.Store for tests.
//
// Memory does not evaluate the SQL in a query.Plan. List calls record the
// plan they received and page through all rows in id order using its limit
// and offset.
package storetest

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/voyagen/tvguide/internal/models"
	"github.com/voyagen/tvguide/internal/query"
	"github.com/voyagen/tvguide/internal/store"
)

var _ store.Store = (*Memory)(nil)

// Memory is a goroutine-safe in-memory store. Program types and categories
// are seeded with the same rows as the migrations.
type Memory struct {
	mu sync.Mutex

	channels map[int64]models.Channel
	programs map[int64]models.Program
	users    map[int64]models.User
	types    []models.Lookup
	cats     []models.Lookup
	nextID   int64

	// PingErr is returned by Ping.
	PingErr error
	// Plans holds every plan passed to ListChannels and ListPrograms.
	Plans []query.Plan
}

// New returns an empty Memory with seeded lookups.
func New() *Memory {
	return &Memory{
		channels: map[int64]models.Channel{},
		programs: map[int64]models.Program{},
		users:    map[int64]models.User{},
		types: []models.Lookup{
			{ID: 1, Name: "Live"}, {ID: 2, Name: "Movie"}, {ID: 3, Name: "Series"},
			{ID: 4, Name: "Documentary"}, {ID: 5, Name: "News"},
		},
		cats: []models.Lookup{
			{ID: 1, Name: "Entertainment"}, {ID: 2, Name: "Sports"}, {ID: 3, Name: "Kids"},
			{ID: 4, Name: "Music"}, {ID: 5, Name: "Education"}, {ID: 6, Name: "Drama"},
		},
	}
}

// LastPlan returns the most recent list plan.
func (m *Memory) LastPlan() (query.Plan, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Plans) == 0 {
		return query.Plan{}, false
	}
	return m.Plans[len(m.Plans)-1], true
}

func (m *Memory) Ping(context.Context) error { return m.PingErr }

func (m *Memory) id() int64 {
	m.nextID++
	return m.nextID
}

func sorted[T any](rows map[int64]T) []T {
	ids := make([]int64, 0, len(rows))
	for id := range rows {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, rows[id])
	}
	return out
}

func page[T any](rows []T, plan query.Plan) []T {
	if plan.Offset >= len(rows) {
		return []T{}
	}
	end := len(rows)
	if plan.Limit > 0 && plan.Offset+plan.Limit < end {
		end = plan.Offset + plan.Limit
	}
	return rows[plan.Offset:end]
}

func lookupName(rows []models.Lookup, id int64) (string, bool) {
	for _, l := range rows {
		if l.ID == id {
			return l.Name, true
		}
	}
	return "", false
}

// Channels

func (m *Memory) ListChannels(_ context.Context, plan query.Plan) ([]models.Channel, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Plans = append(m.Plans, plan)
	all := sorted(m.channels)
	return page(all, plan), len(all), nil
}

func (m *Memory) AllChannels(context.Context) ([]models.Channel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return sorted(m.channels), nil
}

func (m *Memory) GetChannel(_ context.Context, id int64) (*models.Channel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch, ok := m.channels[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &ch, nil
}

func (m *Memory) CreateChannel(_ context.Context, in store.ChannelInput) (*models.Channel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch := models.Channel{ID: m.id(), Name: in.Name, IsActive: in.IsActive}
	m.channels[ch.ID] = ch
	return &ch, nil
}

func (m *Memory) UpdateChannel(_ context.Context, id int64, fields store.ChannelUpdate) (*models.Channel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch, ok := m.channels[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if fields.Name != nil {
		ch.Name = *fields.Name
	}
	if fields.IsActive != nil {
		ch.IsActive = *fields.IsActive
	}
	m.channels[id] = ch
	m.renameChannel(ch)
	return &ch, nil
}

func (m *Memory) renameChannel(ch models.Channel) {
	for pid, p := range m.programs {
		if p.ChannelID == ch.ID {
			p.ChannelName = ch.Name
			m.programs[pid] = p
		}
	}
}

func (m *Memory) DeleteChannel(_ context.Context, id int64) (*models.Channel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch, ok := m.channels[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	for _, p := range m.programs {
		if p.ChannelID == id {
			return nil, store.ErrReferenced
		}
	}
	delete(m.channels, id)
	return &ch, nil
}

func (m *Memory) CountChannels(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.channels)), nil
}

// Programs

func (m *Memory) ListPrograms(_ context.Context, plan query.Plan) ([]models.Program, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Plans = append(m.Plans, plan)
	all := sorted(m.programs)
	return page(all, plan), len(all), nil
}

func (m *Memory) AllPrograms(context.Context) ([]models.Program, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return sorted(m.programs), nil
}

func (m *Memory) GetProgram(_ context.Context, id int64) (*models.Program, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.programs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

// resolve fills the joined display names, failing with
// store.ErrInvalidReference when a reference does not exist.
func (m *Memory) resolve(p *models.Program) error {
	ch, ok := m.channels[p.ChannelID]
	if !ok {
		return store.ErrInvalidReference
	}
	typeName, ok := lookupName(m.types, p.TypeID)
	if !ok {
		return store.ErrInvalidReference
	}
	catName, ok := lookupName(m.cats, p.CategoryID)
	if !ok {
		return store.ErrInvalidReference
	}
	p.ChannelName, p.TypeName, p.CategoryName = ch.Name, typeName, catName
	return nil
}

func (m *Memory) CreateProgram(_ context.Context, in store.ProgramInput) (*models.Program, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := models.Program{
		Title:       in.Title,
		Duration:    in.Duration,
		Description: in.Description,
		VideoURL:    in.VideoURL,
		ChannelID:   in.ChannelID,
		TypeID:      in.TypeID,
		CategoryID:  in.CategoryID,
		AirDate:     in.AirDate,
		IsActive:    in.IsActive,
	}
	if err := m.resolve(&p); err != nil {
		return nil, err
	}
	p.ID = m.id()
	m.programs[p.ID] = p
	return &p, nil
}

func (m *Memory) UpdateProgram(_ context.Context, id int64, f store.ProgramUpdate) (*models.Program, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.programs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	set(&p.Title, f.Title)
	set(&p.Duration, f.Duration)
	set(&p.ChannelID, f.ChannelID)
	set(&p.TypeID, f.TypeID)
	set(&p.CategoryID, f.CategoryID)
	set(&p.IsActive, f.IsActive)
	if f.Description != nil {
		p.Description = f.Description
	}
	if f.VideoURL != nil {
		p.VideoURL = f.VideoURL
	}
	if err := m.resolve(&p); err != nil {
		return nil, err
	}
	m.programs[id] = p
	return &p, nil
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func (m *Memory) DeleteProgram(_ context.Context, id int64) (*models.Program, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.programs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	delete(m.programs, id)
	return &p, nil
}

func (m *Memory) CountPrograms(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.programs)), nil
}

// Lookups

func (m *Memory) ListProgramTypes(context.Context) ([]models.Lookup, error) {
	return slices.Clone(m.types), nil
}

func (m *Memory) ListCategories(context.Context) ([]models.Lookup, error) {
	return slices.Clone(m.cats), nil
}

// Users

func (m *Memory) usernameTaken(username string, except int64) bool {
	for id, u := range m.users {
		if id != except && u.Username == username {
			return true
		}
	}
	return false
}

func (m *Memory) CreateUser(_ context.Context, in store.UserInput) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.usernameTaken(in.Username, 0) {
		return nil, store.ErrConflict
	}
	u := models.User{
		ID:           m.id(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: in.PasswordHash,
		IsAdmin:      in.IsAdmin,
	}
	m.users[u.ID] = u
	return &u, nil
}

func (m *Memory) ListUsers(context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return sorted(m.users), nil
}

func (m *Memory) GetUser(_ context.Context, id int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (m *Memory) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *Memory) UpdateUser(_ context.Context, id int64, f store.UserUpdate) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if f.Username != nil && m.usernameTaken(*f.Username, id) {
		return nil, store.ErrConflict
	}
	set(&u.Username, f.Username)
	set(&u.Email, f.Email)
	set(&u.PasswordHash, f.PasswordHash)
	set(&u.IsAdmin, f.IsAdmin)
	m.users[id] = u
	return &u, nil
}

func (m *Memory) DeleteUser(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.users, id)
	return nil
}

// ErrInjected is a generic failure for tests that need a store error.
var ErrInjected = errors.New("storetest: injected failure")
