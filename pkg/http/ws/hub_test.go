package ws

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	mu     sync.Mutex
	sent   []Message
	closed bool
}

func (s *recordingSender) Send(msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
	return nil
}

func (s *recordingSender) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

func (s *recordingSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

func TestBroadcastHonoursSubscriptions(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	all := &recordingSender{}
	hero := &recordingSender{}

	hub.Register(all)
	heroID := hub.Register(hero)
	hub.Subscribe(heroID, []string{"hero"})

	msg, err := NewMessage(TypeSlideChanged, SlideChangedPayload{ContainerID: "laws", Index: 1, Source: "timer"})
	require.NoError(t, err)
	require.NoError(t, hub.Broadcast("laws", msg))

	assert.Equal(t, 1, all.count())
	assert.Equal(t, 0, hero.count())

	require.NoError(t, hub.Broadcast("hero", msg))
	assert.Equal(t, 2, all.count())
	assert.Equal(t, 1, hero.count())

	hub.Subscribe(heroID, nil)
	require.NoError(t, hub.Broadcast("laws", msg))
	assert.Equal(t, 2, hero.count())
}

func TestUnregisterClosesSender(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	s := &recordingSender{}
	id := hub.Register(s)

	hub.Unregister(id)

	assert.True(t, s.closed)
	assert.Equal(t, 0, hub.Count())
	assert.ErrorIs(t, hub.SendTo(id, Message{Type: TypePong}), ErrConnectionNotFound)
	assert.ErrorIs(t, hub.SendTo(uuid.New(), Message{Type: TypePong}), ErrConnectionNotFound)
}
