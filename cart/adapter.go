package cart

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MUHULILAMRI/Done-Fast/models"
	"go.uber.org/zap"
)

const probeTimeout = 3 * time.Second

// Adapter is the single entry point for cart persistence. It writes through
// to the remote repository and falls back to device storage once the remote
// side has been found unavailable; that degraded state is never left for
// the lifetime of the adapter.
//
// Every method reports success as a bool. Failures are logged, never
// returned, so callers only decide what to tell the user.
type Adapter struct {
	repo Repository
	log  *zap.Logger

	probeOnce sync.Once
	degraded  atomic.Bool
}

func NewAdapter(repo Repository, log *zap.Logger) *Adapter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Adapter{repo: repo, log: log.Named("cart")}
}

// Probe checks the remote store once per adapter and reports whether it is
// usable. Later calls return the memoized answer.
func (a *Adapter) Probe(ctx context.Context) bool {
	a.probeOnce.Do(func() {
		if a.repo == nil {
			a.degraded.Store(true)
			return
		}
		pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), probeTimeout)
		defer cancel()
		if err := a.repo.Ping(pctx); err != nil {
			a.log.Warn("remote cart store unavailable, using device storage", zap.Error(err))
			a.degraded.Store(true)
		}
	})
	return !a.degraded.Load()
}

// Degraded reports whether the adapter has switched to device storage.
func (a *Adapter) Degraded() bool {
	return a.degraded.Load()
}

func (a *Adapter) remote(ctx context.Context) bool {
	return a.Probe(ctx) && !a.degraded.Load()
}

// List returns the owner's cart, newest first when served remotely.
func (a *Adapter) List(ctx context.Context, owner Owner) []models.CartItem {
	if !a.remote(ctx) {
		return readLocal(owner.Device)
	}
	items, err := a.repo.List(ctx, owner.scope())
	if err != nil {
		a.log.Error("list cart failed, switching to device storage", zap.Error(err))
		a.degraded.Store(true)
		return readLocal(owner.Device)
	}
	return items
}

// Add puts item in the owner's cart, merging with an existing line for the
// same service package.
func (a *Adapter) Add(ctx context.Context, owner Owner, item models.CartItem) bool {
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	if !a.remote(ctx) {
		items := readLocal(owner.Device)
		item.ID = NewLocalID()
		item.Status = string(models.OrderStatusPending)
		item.CreatedAt = time.Now()
		item.UpdatedAt = item.CreatedAt
		return writeLocal(owner.Device, Merge(items, item), a.log)
	}
	if _, err := a.repo.Upsert(ctx, owner.scope(), item); err != nil {
		a.log.Error("add to cart failed",
			zap.String("service", item.ServiceSlug),
			zap.String("package", item.PackageName),
			zap.Error(err),
		)
		return false
	}
	return true
}

// Update changes fields of one line. A quantity of zero or less removes it.
func (a *Adapter) Update(ctx context.Context, owner Owner, id string, patch Patch) bool {
	if patch.Quantity != nil && *patch.Quantity <= 0 {
		return a.Remove(ctx, owner, id)
	}
	if !a.remote(ctx) {
		items := readLocal(owner.Device)
		for i := range items {
			if items[i].ID == id {
				patch.apply(&items[i])
				items[i].UpdatedAt = time.Now()
				return writeLocal(owner.Device, items, a.log)
			}
		}
		return false
	}
	if err := a.repo.Update(ctx, owner.scope(), id, patch); err != nil {
		a.logFailure("update cart item failed", id, err)
		return false
	}
	return true
}

// Remove deletes one line.
func (a *Adapter) Remove(ctx context.Context, owner Owner, id string) bool {
	if !a.remote(ctx) {
		items := readLocal(owner.Device)
		kept := items[:0]
		for _, it := range items {
			if it.ID != id {
				kept = append(kept, it)
			}
		}
		if len(kept) == len(items) {
			return false
		}
		return writeLocal(owner.Device, kept, a.log)
	}
	if err := a.repo.Delete(ctx, owner.scope(), id); err != nil {
		a.logFailure("remove cart item failed", id, err)
		return false
	}
	return true
}

// Clear empties the owner's cart.
func (a *Adapter) Clear(ctx context.Context, owner Owner) bool {
	if !a.remote(ctx) {
		owner.Device.Remove(KeyItems)
		return true
	}
	if err := a.repo.DeleteAll(ctx, owner.scope()); err != nil {
		a.log.Error("clear cart failed", zap.Error(err))
		return false
	}
	return true
}

// Migrate hands the device's anonymous cart to userID after sign-in and
// forgets the session token. Without a token, or in degraded mode, there is
// nothing to move and it succeeds.
func (a *Adapter) Migrate(ctx context.Context, device Device, userID string) bool {
	sessionID, ok := device.Get(KeySessionID)
	if !ok || sessionID == "" || !a.remote(ctx) {
		return true
	}
	moved, err := a.repo.Reassign(ctx, sessionID, userID)
	if err != nil {
		a.log.Error("migrate session cart failed",
			zap.String("session_id", sessionID),
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return false
	}
	device.Remove(KeySessionID)
	a.log.Info("session cart migrated",
		zap.String("user_id", userID),
		zap.Int("changes", moved),
	)
	return true
}

func (a *Adapter) logFailure(msg, id string, err error) {
	if errors.Is(err, ErrNotFound) {
		a.log.Warn(msg, zap.String("id", id), zap.Error(err))
		return
	}
	a.log.Error(msg, zap.String("id", id), zap.Error(err))
}

func readLocal(d Device) []models.CartItem {
	raw, ok := d.Get(KeyItems)
	if !ok || raw == "" {
		return []models.CartItem{}
	}
	var items []models.CartItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return []models.CartItem{}
	}
	return items
}

func writeLocal(d Device, items []models.CartItem, log *zap.Logger) bool {
	raw, err := json.Marshal(items)
	if err != nil {
		log.Error("encode device cart failed", zap.Error(err))
		return false
	}
	if err := d.Set(KeyItems, string(raw)); err != nil {
		log.Warn("device cart not saved", zap.Int("items", len(items)), zap.Error(err))
		return false
	}
	return true
}
