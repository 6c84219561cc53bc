// Package service implements the schedule operations on top of the store:
// input validation, server-assigned fields, password hashing and the change
// notification that follows every successful write.
package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"

	"github.com/voyagen/tvguide/internal/auth"
	"github.com/voyagen/tvguide/internal/notify"
	"github.com/voyagen/tvguide/internal/store"
)

// ErrValidation is returned when input is missing a required field or holds
// an unusable value.
var ErrValidation = errors.New("validation failed")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Catalog is the service behind the HTTP API.
type Catalog struct {
	store       store.Store
	notifier    notify.Notifier
	hasher      auth.Hasher
	auth        *auth.Authenticator
	log         zerolog.Logger
	now         func() time.Time
	airDateDays func() int
	maxPageSize int
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Catalog) { c.now = now }
}

// WithAirDateDays replaces the random 1..30 day air date offset.
func WithAirDateDays(fn func() int) Option {
	return func(c *Catalog) { c.airDateDays = fn }
}

// WithMaxPageSize caps list page sizes. 0 leaves them unbounded.
func WithMaxPageSize(n int) Option {
	return func(c *Catalog) { c.maxPageSize = n }
}

// New returns a Catalog. n receives one event after every successful write.
func New(s store.Store, n notify.Notifier, h auth.Hasher, log zerolog.Logger, opts ...Option) (*Catalog, error) {
	authn, err := auth.NewAuthenticator(s, h)
	if err != nil {
		return nil, err
	}
	c := &Catalog{
		store:       s,
		notifier:    n,
		hasher:      h,
		auth:        authn,
		log:         log,
		now:         time.Now,
		airDateDays: randomAirDateDays,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Ping checks the store.
func (c *Catalog) Ping(ctx context.Context) error {
	return c.store.Ping(ctx)
}

// changed emits the updated event for a collection after a committed write.
func (c *Catalog) changed(ctx context.Context, ev notify.Event) {
	c.log.Debug().Str("event", string(ev)).Msg("notify")
	c.notifier.Notify(ctx, ev)
}

// randomAirDateDays returns a uniform integer in [1, 30].
func randomAirDateDays() int {
	return rand.IntN(30) + 1
}
