package realtime

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	mu     sync.Mutex
	msgs   [][]byte
	fail   bool
	closed bool
}

func (c *fakeClient) Send(message []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return false
	}
	c.msgs = append(c.msgs, message)
	return true
}

func (c *fakeClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func TestHub_BroadcastByTopic(t *testing.T) {
	h := NewHub()
	a, b, other := &fakeClient{}, &fakeClient{fail: true}, &fakeClient{}
	h.Register(TopicAttendance, a)
	h.Register(TopicAttendance, b)
	h.Register(TopicKioskStatus, other)

	require.Equal(t, 1, h.Broadcast(TopicAttendance, []byte("hi")))
	require.Len(t, a.msgs, 1)
	require.Empty(t, other.msgs)
	require.Equal(t, 0, h.Broadcast("nobody", []byte("hi")))
}

func TestHub_Unregister(t *testing.T) {
	h := NewHub()
	c := &fakeClient{}
	h.Register(TopicKioskStatus, c)
	require.Equal(t, 1, h.Subscribers(TopicKioskStatus))

	h.Unregister(TopicKioskStatus, c)
	h.Unregister(TopicKioskStatus, c)
	require.Equal(t, 0, h.Subscribers(TopicKioskStatus))
	require.Equal(t, 0, h.Broadcast(TopicKioskStatus, []byte("x")))
}

func TestHub_Publish(t *testing.T) {
	h := NewHub()
	c := &fakeClient{}
	h.Register(TopicKioskStatus, c)

	n, err := h.Publish(TopicKioskStatus, "sync_status", map[string]any{"status": "online", "pending": 0})
	require.NoError(t, err)
	require.Equal(t, 1, n)

	var msg struct {
		Type string         `json:"type"`
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(c.msgs[0], &msg))
	require.Equal(t, "sync_status", msg.Type)
	require.Equal(t, "online", msg.Data["status"])

	_, err = h.Publish(TopicKioskStatus, "bad", func() {})
	require.Error(t, err)
}
