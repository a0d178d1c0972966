package dashboard

import (
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/MUHULILAMRI/Done-Fast/models"
	"github.com/MUHULILAMRI/Done-Fast/realtime"
)

// LiveSet is the dashboard's in-memory order list, kept current by applying
// change events instead of reloading. Deleted ids are remembered so a late
// update for a removed row cannot bring it back.
type LiveSet struct {
	mu      sync.Mutex
	rng     Range
	now     func() time.Time
	items   []models.CartItem
	deleted map[string]struct{}
}

func NewLiveSet(rng Range, initial []models.CartItem, now func() time.Time) *LiveSet {
	if now == nil {
		now = time.Now
	}
	items := append([]models.CartItem(nil), initial...)
	sortNewestFirst(items)
	return &LiveSet{rng: rng, now: now, items: items, deleted: map[string]struct{}{}}
}

// Apply patches the set with ev and reports whether anything changed.
func (l *LiveSet) Apply(ev realtime.Event) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if ev.Type == realtime.Delete {
		l.deleted[ev.ID] = struct{}{}
		return l.remove(ev.ID)
	}
	if _, gone := l.deleted[ev.ID]; gone {
		return false
	}

	var row models.CartItem
	if err := json.Unmarshal(ev.Record, &row); err != nil || row.ID == "" {
		return false
	}
	inRange := l.rng.Contains(row.CreatedAt, l.now())
	idx := l.index(row.ID)

	switch {
	case idx >= 0 && inRange:
		l.items[idx] = row
		return true
	case idx >= 0:
		return l.remove(row.ID)
	case inRange && ev.Type == realtime.Insert:
		l.items = append([]models.CartItem{row}, l.items...)
		return true
	case inRange:
		l.items = append(l.items, row)
		sortNewestFirst(l.items)
		return true
	}
	return false
}

// Items returns a copy of the current set, newest first.
func (l *LiveSet) Items() []models.CartItem {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]models.CartItem{}, l.items...)
}

// Summary summarizes the current set.
func (l *LiveSet) Summary() Summary {
	return Summarize(l.Items())
}

func (l *LiveSet) index(id string) int {
	for i, it := range l.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

func (l *LiveSet) remove(id string) bool {
	idx := l.index(id)
	if idx < 0 {
		return false
	}
	l.items = append(l.items[:idx], l.items[idx+1:]...)
	return true
}

func sortNewestFirst(items []models.CartItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}
