package cart

import (
	"context"
	"sync"

	"github.com/MUHULILAMRI/Done-Fast/models"
)

// Container keeps one owner's cart state in step with the adapter. Operations
// run one at a time; State may be read concurrently and shows IsLoading while
// an operation is in flight.
type Container struct {
	adapter *Adapter
	owner   Owner

	op    sync.Mutex
	mu    sync.RWMutex
	state State
}

func NewContainer(adapter *Adapter, owner Owner) *Container {
	return &Container{
		adapter: adapter,
		owner:   owner,
		state:   State{Items: []models.CartItem{}},
	}
}

func (c *Container) dispatch(a Action) {
	c.mu.Lock()
	c.state = Reduce(c.state, a)
	c.mu.Unlock()
}

// State returns a snapshot of the current state.
func (c *Container) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s := c.state
	s.Items = append([]models.CartItem(nil), c.state.Items...)
	return s
}

func (c *Container) begin() func() {
	c.op.Lock()
	c.dispatch(Action{Type: ActionSetLoading, Loading: true})
	return func() {
		c.dispatch(Action{Type: ActionSetLoading, Loading: false})
		c.op.Unlock()
	}
}

// Load replaces the state with what the adapter currently holds.
func (c *Container) Load(ctx context.Context) State {
	done := c.begin()
	c.dispatch(Action{Type: ActionSet, Items: c.adapter.List(ctx, c.owner)})
	done()
	return c.State()
}

// AddToCart persists item, then reloads so server-assigned ids are picked up,
// and opens the cart.
func (c *Container) AddToCart(ctx context.Context, item models.CartItem) bool {
	done := c.begin()
	defer done()

	if !c.adapter.Add(ctx, c.owner, item) {
		return false
	}
	c.dispatch(Action{Type: ActionSet, Items: c.adapter.List(ctx, c.owner)})
	c.dispatch(Action{Type: ActionOpen})
	return true
}

func (c *Container) RemoveFromCart(ctx context.Context, id string) bool {
	done := c.begin()
	defer done()
	return c.remove(ctx, id)
}

func (c *Container) remove(ctx context.Context, id string) bool {
	if !c.adapter.Remove(ctx, c.owner, id) {
		return false
	}
	c.dispatch(Action{Type: ActionRemove, ID: id})
	return true
}

// UpdateQuantity sets a line's quantity. Zero or less removes the line.
func (c *Container) UpdateQuantity(ctx context.Context, id string, quantity int) bool {
	done := c.begin()
	defer done()

	if quantity <= 0 {
		return c.remove(ctx, id)
	}
	if !c.adapter.Update(ctx, c.owner, id, Patch{Quantity: &quantity}) {
		return false
	}
	c.dispatch(Action{Type: ActionUpdateQuantity, ID: id, Quantity: quantity})
	return true
}

func (c *Container) ClearCart(ctx context.Context) bool {
	done := c.begin()
	defer done()

	if !c.adapter.Clear(ctx, c.owner) {
		return false
	}
	c.dispatch(Action{Type: ActionClear})
	return true
}

func (c *Container) Open()   { c.dispatch(Action{Type: ActionOpen}) }
func (c *Container) Close()  { c.dispatch(Action{Type: ActionClose}) }
func (c *Container) Toggle() { c.dispatch(Action{Type: ActionToggle}) }
