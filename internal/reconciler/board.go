package reconciler

import (
	"sync"

	"codereview-frontend/internal/view"
)

// Indicator is one status tag as currently displayed.
type Indicator struct {
	ID    string
	Text  string
	Label string
	Class string
}

// IndicatorFromTag returns the indicator a tag would display.
func IndicatorFromTag(tag view.StatusTag) Indicator {
	return Indicator{
		ID:    tag.ReviewID,
		Text:  tag.Text,
		Label: tag.Label,
		Class: tag.Class,
	}
}

// MemoryBoard is a Board kept in memory. It is safe for concurrent use.
type MemoryBoard struct {
	mu        sync.RWMutex
	order     []string
	items     map[string]Indicator
	mutations int

	// OnChange, when set, is called after an indicator changes.
	OnChange func(before, after Indicator)
}

// NewMemoryBoard builds a board from tags, preserving their order.
func NewMemoryBoard(tags ...view.StatusTag) *MemoryBoard {
	b := &MemoryBoard{items: make(map[string]Indicator, len(tags))}
	for _, tag := range tags {
		if _, ok := b.items[tag.ReviewID]; !ok {
			b.order = append(b.order, tag.ReviewID)
		}
		b.items[tag.ReviewID] = IndicatorFromTag(tag)
	}
	return b
}

// Indicators implements Board.
func (b *MemoryBoard) Indicators() []Indicator {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Indicator, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, b.items[id])
	}
	return out
}

// Apply implements Board. Unknown ids are ignored.
func (b *MemoryBoard) Apply(id string, tag view.StatusTag) {
	b.mu.Lock()
	before, ok := b.items[id]
	if !ok {
		b.mu.Unlock()
		return
	}
	after := IndicatorFromTag(tag)
	after.ID = id
	b.items[id] = after
	b.mutations++
	onChange := b.OnChange
	b.mu.Unlock()

	if onChange != nil {
		onChange(before, after)
	}
}

// Get returns one indicator.
func (b *MemoryBoard) Get(id string) (Indicator, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	ind, ok := b.items[id]
	return ind, ok
}

// Mutations returns how many times Apply changed an indicator.
func (b *MemoryBoard) Mutations() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.mutations
}
