package minigame

import (
	"time"

	"github.com/zyedidia/generic/mapset"
)

// WrongPickDuration is how long the "not on the list" notice stays up.
const WrongPickDuration = 1500 * time.Millisecond

// HuntItem is one object hidden in the market.
type HuntItem struct {
	ID       string
	Name     string
	Required bool
	X, Y     float64 // percent of the play area
}

// PickResult tells the caller what a pick did.
type PickResult int

const (
	PickIgnored PickResult = iota
	PickFound
	PickBonus
)

// Hunt is the hidden-object game. Picking a required item marks it found,
// picking anything else raises a short-lived notice.
type Hunt struct {
	items    []HuntItem
	found    mapset.Set[string]
	required int
	wrong    time.Duration
}

// NewHunt creates a hunt over items.
func NewHunt(items []HuntItem) *Hunt {
	h := &Hunt{items: items, found: mapset.New[string]()}
	for _, it := range items {
		if it.Required {
			h.required++
		}
	}
	return h
}

// Items returns the items in scene order.
func (h *Hunt) Items() []HuntItem { return h.items }

// Pick handles a click on the item with the given id.
func (h *Hunt) Pick(id string) PickResult {
	if h.Won() {
		return PickIgnored
	}
	for _, it := range h.items {
		if it.ID != id {
			continue
		}
		if !it.Required {
			h.wrong = WrongPickDuration
			return PickBonus
		}
		if h.found.Has(id) {
			return PickIgnored
		}
		h.found.Put(id)
		return PickFound
	}
	return PickIgnored
}

// Update counts down the wrong-pick notice.
func (h *Hunt) Update(dt time.Duration) {
	if h.wrong > 0 {
		h.wrong = max(h.wrong-dt, 0)
	}
}

// Found reports whether the item with id has been found.
func (h *Hunt) Found(id string) bool { return h.found.Has(id) }

// Wrong reports whether the wrong-pick notice is showing.
func (h *Hunt) Wrong() bool { return h.wrong > 0 }

// FoundRequired returns how many required items are found.
func (h *Hunt) FoundRequired() int { return h.found.Size() }

// Required returns how many items are on the list.
func (h *Hunt) Required() int { return h.required }

// Won reports whether every required item is found.
func (h *Hunt) Won() bool { return h.found.Size() == h.required }
