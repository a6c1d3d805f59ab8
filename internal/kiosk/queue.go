package kiosk

import "school-attendance-api/internal/models"

// DefaultQueueRetain is how many recent events are kept as a local audit trail.
const DefaultQueueRetain = 100

// queue is the ordered list of locally recorded events. It is not
// goroutine-safe; the Service lock guards it.
type queue struct {
	events []QueuedEvent
}

func (q *queue) append(e QueuedEvent) {
	q.events = append(q.events, e)
}

// unsynced returns copies of the not-yet-confirmed events in FIFO order.
func (q *queue) unsynced() []QueuedEvent {
	var out []QueuedEvent
	for _, e := range q.events {
		if !e.Synced {
			out = append(out, e)
		}
	}
	return out
}

func (q *queue) pending() int {
	n := 0
	for _, e := range q.events {
		if !e.Synced {
			n++
		}
	}
	return n
}

func (q *queue) markSynced(id string) bool {
	for i := range q.events {
		if q.events[i].ID == id {
			q.events[i].Synced = true
			return true
		}
	}
	return false
}

// hasUnsynced reports whether studentID has a pending event dated date.
func (q *queue) hasUnsynced(studentID, date string) bool {
	for _, e := range q.events {
		if !e.Synced && e.StudentID == studentID && e.Date == date {
			return true
		}
	}
	return false
}

// studentIDsOn returns every queued student id dated date, synced or not.
func (q *queue) studentIDsOn(date string) []string {
	var ids []string
	for _, e := range q.events {
		if e.Date == date {
			ids = append(ids, e.StudentID)
		}
	}
	return ids
}

// lateness sums the student's late events currently held in the queue.
func (q *queue) lateness(studentID string) (count, minutes int) {
	for _, e := range q.events {
		if e.StudentID == studentID && e.Status == models.StatusLate {
			count++
			minutes += e.MinutesLate
		}
	}
	return count, minutes
}

// compact drops the oldest synced events until at most retain remain.
// Unsynced events are never dropped.
func (q *queue) compact(retain int) int {
	excess := len(q.events) - retain
	if excess <= 0 {
		return 0
	}
	kept := q.events[:0:0]
	dropped := 0
	for _, e := range q.events {
		if dropped < excess && e.Synced {
			dropped++
			continue
		}
		kept = append(kept, e)
	}
	q.events = kept
	return dropped
}

// dropSynced removes every synced event, used when storage is full.
func (q *queue) dropSynced() int {
	return q.compact(0)
}

func (q *queue) snapshot() []QueuedEvent {
	return append([]QueuedEvent(nil), q.events...)
}
