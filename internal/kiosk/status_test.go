package kiosk

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStatusPublisher_NotifiesInOrder(t *testing.T) {
	p := NewStatusPublisher()
	var calls []string
	p.OnStatusChange(func(s SyncStatus) { calls = append(calls, "a:"+string(s)) })
	p.OnStatusChange(func(s SyncStatus) { calls = append(calls, "b:"+string(s)) })

	p.SetStatus(StatusSyncing)
	p.SetStatus(StatusSyncing) // unchanged, no notification
	p.SetPending(4)            // pending only, no status transition
	p.SetStatus(StatusOffline)

	require.Equal(t, []string{"a:syncing", "b:syncing", "a:offline", "b:offline"}, calls)
	require.Equal(t, StatusEvent{Status: StatusOffline, Pending: 4}, p.Current())
}

func TestStatusPublisher_Unsubscribe(t *testing.T) {
	p := NewStatusPublisher()
	var first, second []StatusEvent
	stop := p.OnEvent(func(e StatusEvent) { first = append(first, e) })
	p.OnEvent(func(e StatusEvent) { second = append(second, e) })

	p.SetPending(1)
	stop()
	stop() // idempotent
	p.SetPending(2)

	require.Len(t, first, 1)
	require.Len(t, second, 2)
}
