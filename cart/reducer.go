package cart

import "github.com/MUHULILAMRI/Done-Fast/models"

// State is the client-facing cart view.
type State struct {
	Items     []models.CartItem `json:"items"`
	IsOpen    bool              `json:"is_open"`
	IsLoading bool              `json:"is_loading"`
}

// Total is the sum of every line's subtotal.
func (s State) Total() int64 {
	var total int64
	for _, it := range s.Items {
		total += it.Subtotal()
	}
	return total
}

// Count is the number of units across all lines.
func (s State) Count() int {
	n := 0
	for _, it := range s.Items {
		n += it.Quantity
	}
	return n
}

type ActionType string

const (
	ActionSet            ActionType = "set"
	ActionAdd            ActionType = "add"
	ActionRemove         ActionType = "remove"
	ActionUpdateQuantity ActionType = "updateQuantity"
	ActionClear          ActionType = "clear"
	ActionOpen           ActionType = "open"
	ActionClose          ActionType = "close"
	ActionToggle         ActionType = "toggle"
	ActionSetLoading     ActionType = "setLoading"
)

type Action struct {
	Type     ActionType
	Items    []models.CartItem // set
	Item     models.CartItem   // add
	ID       string            // remove, updateQuantity
	Quantity int               // updateQuantity
	Loading  bool              // setLoading
}

// Reduce returns the state after applying a. It never mutates s.Items.
func Reduce(s State, a Action) State {
	switch a.Type {
	case ActionSet:
		s.Items = append([]models.CartItem(nil), a.Items...)
	case ActionAdd:
		s.Items = Merge(s.Items, a.Item)
	case ActionRemove:
		s.Items = without(s.Items, func(it models.CartItem) bool { return it.ID == a.ID })
	case ActionUpdateQuantity:
		updated := make([]models.CartItem, 0, len(s.Items))
		for _, it := range s.Items {
			if it.ID == a.ID {
				it.Quantity = a.Quantity
			}
			if it.Quantity > 0 {
				updated = append(updated, it)
			}
		}
		s.Items = updated
	case ActionClear:
		s.Items = []models.CartItem{}
	case ActionOpen:
		s.IsOpen = true
	case ActionClose:
		s.IsOpen = false
	case ActionToggle:
		s.IsOpen = !s.IsOpen
	case ActionSetLoading:
		s.IsLoading = a.Loading
	}
	return s
}

func without(items []models.CartItem, drop func(models.CartItem) bool) []models.CartItem {
	out := make([]models.CartItem, 0, len(items))
	for _, it := range items {
		if !drop(it) {
			out = append(out, it)
		}
	}
	return out
}
