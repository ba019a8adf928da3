package realtime

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	events []Event
	fail   bool
}

func (c *fakeConn) WriteJSON(v interface{}) error {
	if c.fail {
		return errors.New("write failed")
	}
	c.events = append(c.events, v.(Event))
	return nil
}

func TestPublish_ReachesOnlySubscribedGroup(t *testing.T) {
	hub := NewHub()
	inGroup := &fakeConn{}
	otherGroup := &fakeConn{}

	hub.Subscribe(inGroup, "group-a")
	hub.Subscribe(otherGroup, "group-b")

	hub.Publish("group-a", EventFeedNew, map[string]string{"id": "1"})

	require.Len(t, inGroup.events, 1)
	assert.Equal(t, EventFeedNew, inGroup.events[0].Event)
	assert.Empty(t, otherGroup.events, "events must not leak across groups")
}

func TestSubscribe_MovesConnectionBetweenGroups(t *testing.T) {
	hub := NewHub()
	conn := &fakeConn{}

	hub.Subscribe(conn, "group-a")
	hub.Subscribe(conn, "group-b")

	hub.Publish("group-a", EventAlertNew, nil)
	assert.Empty(t, conn.events, "old group must stop delivering after a move")

	hub.Publish("group-b", EventAlertNew, nil)
	assert.Len(t, conn.events, 1)
}

func TestUnsubscribe_StopsDelivery(t *testing.T) {
	hub := NewHub()
	conn := &fakeConn{}

	hub.Subscribe(conn, "group-a")
	hub.Unsubscribe(conn)

	hub.Publish("group-a", EventMessageNew, nil)
	assert.Empty(t, conn.events)
}

func TestSend_DeliversToSingleConnection(t *testing.T) {
	hub := NewHub()
	conn := &fakeConn{}
	other := &fakeConn{}

	hub.Subscribe(conn, "group-a")
	hub.Subscribe(other, "group-a")

	hub.Send(conn, "error", map[string]string{"message": "bad event"})

	require.Len(t, conn.events, 1)
	assert.Equal(t, "error", conn.events[0].Event)
	assert.Empty(t, other.events)
}

func TestSend_FailedWriteEvicts(t *testing.T) {
	hub := NewHub()
	broken := &fakeConn{fail: true}
	hub.Subscribe(broken, "group-a")

	hub.Send(broken, "error", nil)

	broken.fail = false
	hub.Publish("group-a", EventAlertNew, nil)
	assert.Empty(t, broken.events)
}

// fakeConn has no internal locking, so the race detector flags any two
// writes to the same connection that the hub fails to serialize.
func TestSendAndPublish_SerializeWritesPerConnection(t *testing.T) {
	hub := NewHub()
	conn := &fakeConn{}
	hub.Subscribe(conn, "group-a")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			hub.Publish("group-a", EventFeedNew, nil)
		}()
		go func() {
			defer wg.Done()
			hub.Send(conn, "error", nil)
		}()
	}
	wg.Wait()

	assert.Len(t, conn.events, 100)
}

func TestPublish_EvictsFailedWriter(t *testing.T) {
	hub := NewHub()
	healthy := &fakeConn{}
	broken := &fakeConn{fail: true}

	hub.Subscribe(healthy, "group-a")
	hub.Subscribe(broken, "group-a")

	hub.Publish("group-a", EventAlertNew, nil)
	assert.Len(t, healthy.events, 1)

	// the broken connection is gone; a later successful write proves it
	broken.fail = false
	hub.Publish("group-a", EventAlertNew, nil)
	assert.Empty(t, broken.events)
	assert.Len(t, healthy.events, 2)
}
