package network

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amixtum/dd2/pkg/api"
	"github.com/amixtum/dd2/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func TestBroadcaster_PublishBySession(t *testing.T) {
	b := NewBroadcaster(4)
	player := b.Register("p1", "s1")
	watcher := b.Register("w1", "s1")
	other := b.Register("p2", "s2")

	sent := b.Publish("s1", api.ServerResponse{Type: api.TypeUpdate, Tick: 3})
	assert.Equal(t, 2, sent)

	require.Len(t, player, 1)
	require.Len(t, watcher, 1)
	assert.Empty(t, other)
	assert.Equal(t, 3, (<-watcher).Tick)
	assert.Equal(t, 2, b.Watchers("s1"))
}

func TestBroadcaster_WatchAll(t *testing.T) {
	b := NewBroadcaster(4)
	all := b.Register("w1", "")

	b.Publish("s1", api.ServerResponse{Session: "s1"})
	b.Publish("s2", api.ServerResponse{Session: "s2"})

	require.Len(t, all, 2)
	assert.Equal(t, "s1", (<-all).Session)
	assert.Equal(t, "s2", (<-all).Session)
}

func TestBroadcaster_RegisterTwiceClosesOld(t *testing.T) {
	b := NewBroadcaster(1)
	old := b.Register("p1", "s1")
	fresh := b.Register("p1", "s1")

	_, open := <-old
	assert.False(t, open, "old channel must be closed")
	assert.Equal(t, 1, b.SubscriberCount())

	assert.True(t, b.SendTo("p1", api.ServerResponse{Tick: 1}))
	assert.Equal(t, 1, (<-fresh).Tick)
}

func TestBroadcaster_DropsWhenFull(t *testing.T) {
	b := NewBroadcaster(1)
	ch := b.Register("p1", "s1")

	assert.True(t, b.SendTo("p1", api.ServerResponse{Tick: 1}))
	assert.False(t, b.SendTo("p1", api.ServerResponse{Tick: 2}))
	assert.Equal(t, 1, (<-ch).Tick)
}

func TestBroadcaster_Unregister(t *testing.T) {
	b := NewBroadcaster(1)
	ch := b.Register("p1", "s1")
	b.Unregister("p1")
	b.Unregister("p1")

	_, open := <-ch
	assert.False(t, open)
	assert.False(t, b.HasSubscriber("p1"))
	assert.False(t, b.SendTo("p1", api.ServerResponse{}))
}
