package notify

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) Broadcast(ev Event) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

func TestNewRedisRejectsBadURL(t *testing.T) {
	_, err := NewRedis("not-a-url")
	require.Error(t, err)
}

func TestRedisRelayFallsBackToLocalDelivery(t *testing.T) {
	// Nothing listens on port 1, so the publish fails.
	rds, err := NewRedis("redis://127.0.0.1:1/0")
	require.NoError(t, err)
	t.Cleanup(func() { rds.Close() })

	local := &recorder{}
	relay := NewRedisRelay(rds, "", local, zerolog.Nop())
	assert.Equal(t, DefaultChannel, relay.channel)

	relay.Notify(context.Background(), ProgramsUpdated)
	assert.Equal(t, []Event{ProgramsUpdated}, local.events)
}

func TestUpdatedEvent(t *testing.T) {
	ev, ok := UpdatedEvent("channels")
	require.True(t, ok)
	assert.Equal(t, ChannelsUpdated, ev)
	assert.True(t, ev.Valid())

	_, ok = UpdatedEvent("types")
	assert.False(t, ok)
	assert.False(t, Event("somethingUpdated").Valid())
}
