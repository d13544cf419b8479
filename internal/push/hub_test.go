package push

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	mu     sync.Mutex
	frames []Frame
	failed bool
	closed bool
}

func (f *fakeConn) WriteJSON(v interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failed {
		return errors.New("broken pipe")
	}
	f.frames = append(f.frames, v.(Frame))
	return nil
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeConn) received() []Frame {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Frame{}, f.frames...)
}

func TestPublishReachesAllUserConnections(t *testing.T) {
	hub := NewHub()
	first := &fakeConn{}
	second := &fakeConn{}

	hub.Join("user-1", first)
	hub.Join("user-1", second)

	hub.Publish("user-1", EventCartUpdated, map[string]int{"totalItems": 3})

	require.Len(t, first.received(), 1)
	require.Len(t, second.received(), 1)
	assert.Equal(t, EventCartUpdated, first.received()[0].Event)
}

func TestPublishDoesNotLeakAcrossUsers(t *testing.T) {
	hub := NewHub()
	mine := &fakeConn{}
	theirs := &fakeConn{}

	hub.Join("user-1", mine)
	hub.Join("user-2", theirs)

	hub.Publish("user-1", EventOrderUpdated, nil)

	assert.Len(t, mine.received(), 1)
	assert.Empty(t, theirs.received())
}

func TestPublishToOfflineUserIsLost(t *testing.T) {
	hub := NewHub()

	// Nobody joined: the event vanishes without error.
	hub.Publish("user-ghost", EventOrderUpdated, nil)

	assert.Zero(t, hub.ConnectionCount("user-ghost"))
}

func TestFailedConnectionIsEvicted(t *testing.T) {
	hub := NewHub()
	healthy := &fakeConn{}
	broken := &fakeConn{failed: true}

	hub.Join("user-1", healthy)
	hub.Join("user-1", broken)
	require.Equal(t, 2, hub.ConnectionCount("user-1"))

	hub.Publish("user-1", EventCartUpdated, nil)

	assert.Equal(t, 1, hub.ConnectionCount("user-1"))
	assert.True(t, broken.closed)
	assert.Len(t, healthy.received(), 1)
}

func TestLeaveRemovesConnection(t *testing.T) {
	hub := NewHub()
	conn := &fakeConn{}

	hub.Join("user-1", conn)
	hub.Leave("user-1", conn)

	hub.Publish("user-1", EventCartUpdated, nil)
	assert.Empty(t, conn.received())
	assert.Zero(t, hub.ConnectionCount("user-1"))

	// Leaving twice is harmless.
	hub.Leave("user-1", conn)
}

func TestBroadcastReachesEveryGroup(t *testing.T) {
	hub := NewHub()
	first := &fakeConn{}
	second := &fakeConn{}

	hub.Join("user-1", first)
	hub.Join("user-2", second)

	hub.Broadcast(EventStockUpdated, map[string]interface{}{"productId": "abc", "stock": 9})

	require.Len(t, first.received(), 1)
	require.Len(t, second.received(), 1)
	assert.Equal(t, EventStockUpdated, second.received()[0].Event)
}

func TestConcurrentJoinPublishLeave(t *testing.T) {
	hub := NewHub()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			conn := &fakeConn{}
			hub.Join("user-1", conn)
			hub.Publish("user-1", EventCartUpdated, nil)
			hub.Leave("user-1", conn)
		}()
	}
	wg.Wait()

	assert.Zero(t, hub.ConnectionCount("user-1"))
}
