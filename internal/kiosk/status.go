package kiosk

import "sync"

// StatusEvent is what subscribers receive.
type StatusEvent struct {
	Status  SyncStatus `json:"status"`
	Pending int        `json:"pending"`
}

type listener struct {
	id int
	fn func(prev, cur StatusEvent)
}

// StatusPublisher holds the current sync status and pending count and notifies
// listeners synchronously, in registration order, whenever either changes.
// Listeners must not call back into the publisher's setters.
type StatusPublisher struct {
	mu        sync.Mutex
	notifyMu  sync.Mutex
	cur       StatusEvent
	nextID    int
	listeners []listener
}

// NewStatusPublisher starts in the online state with nothing pending.
func NewStatusPublisher() *StatusPublisher {
	return &StatusPublisher{cur: StatusEvent{Status: StatusOnline}}
}

func (p *StatusPublisher) Current() StatusEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cur
}

func (p *StatusPublisher) SetStatus(s SyncStatus) {
	p.update(func(e *StatusEvent) { e.Status = s })
}

func (p *StatusPublisher) SetPending(n int) {
	p.update(func(e *StatusEvent) { e.Pending = n })
}

func (p *StatusPublisher) update(change func(*StatusEvent)) {
	p.notifyMu.Lock()
	defer p.notifyMu.Unlock()

	p.mu.Lock()
	prev := p.cur
	change(&p.cur)
	cur := p.cur
	ls := append([]listener(nil), p.listeners...)
	p.mu.Unlock()

	if prev == cur {
		return
	}
	for _, l := range ls {
		l.fn(prev, cur)
	}
}

func (p *StatusPublisher) subscribe(fn func(prev, cur StatusEvent)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nextID++
	id := p.nextID
	p.listeners = append(p.listeners, listener{id: id, fn: fn})
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		for i, l := range p.listeners {
			if l.id == id {
				p.listeners = append(p.listeners[:i:i], p.listeners[i+1:]...)
				return
			}
		}
	}
}

// OnStatusChange registers fn for status transitions only.
func (p *StatusPublisher) OnStatusChange(fn func(SyncStatus)) func() {
	return p.subscribe(func(prev, cur StatusEvent) {
		if prev.Status != cur.Status {
			fn(cur.Status)
		}
	})
}

// OnEvent registers fn for any change of status or pending count.
func (p *StatusPublisher) OnEvent(fn func(StatusEvent)) func() {
	return p.subscribe(func(_, cur StatusEvent) { fn(cur) })
}
