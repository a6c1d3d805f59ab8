package kiosk

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"school-attendance-api/internal/localstore"
)

// Local storage keys. Each component owns its own namespace.
const (
	keyRoster   = "kiosk:roster"
	keyQueue    = "kiosk:queue"
	keySettings = "kiosk:settings"
	keyToday    = "kiosk:today"
)

// snapshot is the roster, today-set and settings served to check-ins without
// network access. Preload replaces the roster and settings; the today-set is
// replaced only when the date changes. It never expires.
// Not goroutine-safe; the Service lock guards it.
type snapshot struct {
	roster   map[string]RosterRecord
	today    TodayAttendanceSet
	todaySet map[string]struct{}
	settings Settings
}

func newSnapshot() *snapshot {
	return &snapshot{
		roster:   make(map[string]RosterRecord),
		todaySet: make(map[string]struct{}),
	}
}

func (s *snapshot) setRoster(records []RosterRecord) {
	s.roster = make(map[string]RosterRecord, len(records))
	for _, r := range records {
		s.roster[r.ID] = r
	}
}

func (s *snapshot) rosterList() []RosterRecord {
	out := make([]RosterRecord, 0, len(s.roster))
	for _, r := range s.roster {
		out = append(out, r)
	}
	return out
}

// resetToday replaces the today-set; duplicate ids collapse.
func (s *snapshot) resetToday(date string, ids []string) {
	s.today = TodayAttendanceSet{Date: date}
	s.todaySet = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		s.addToday(id)
	}
}

// mergeToday adds ids to the current today-set.
func (s *snapshot) mergeToday(ids []string) {
	for _, id := range ids {
		s.addToday(id)
	}
}

func (s *snapshot) addToday(id string) {
	if _, ok := s.todaySet[id]; ok {
		return
	}
	s.todaySet[id] = struct{}{}
	s.today.StudentIDs = append(s.today.StudentIDs, id)
}

func (s *snapshot) checkedInToday(id string) bool {
	_, ok := s.todaySet[id]
	return ok
}

// readJSON decodes key into v. A missing key leaves v untouched.
func readJSON(store localstore.Store, key string, v any) error {
	raw, err := store.Get(key)
	if errors.Is(err, localstore.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}

func writeJSON(store localstore.Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return store.Set(key, raw)
}

// load restores the snapshot and queue. Unreadable records are logged and skipped.
func load(store localstore.Store, snap *snapshot, q *queue) {
	var roster []RosterRecord
	if err := readJSON(store, keyRoster, &roster); err != nil {
		log.Printf("[kiosk] load roster: %v", err)
	}
	snap.setRoster(roster)

	var today TodayAttendanceSet
	if err := readJSON(store, keyToday, &today); err != nil {
		log.Printf("[kiosk] load today set: %v", err)
	}
	snap.resetToday(today.Date, today.StudentIDs)

	if err := readJSON(store, keySettings, &snap.settings); err != nil {
		log.Printf("[kiosk] load settings: %v", err)
	}

	if err := readJSON(store, keyQueue, &q.events); err != nil {
		log.Printf("[kiosk] load queue: %v", err)
		q.events = nil
	}
}

// saveSnapshot writes roster, today-set and settings.
func saveSnapshot(store localstore.Store, snap *snapshot) error {
	if err := writeJSON(store, keyRoster, snap.rosterList()); err != nil {
		return fmt.Errorf("save roster: %w", err)
	}
	if err := writeJSON(store, keySettings, snap.settings); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return saveToday(store, snap)
}

func saveToday(store localstore.Store, snap *snapshot) error {
	if err := writeJSON(store, keyToday, snap.today); err != nil {
		return fmt.Errorf("save today set: %w", err)
	}
	return nil
}
