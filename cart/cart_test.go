package cart

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/MUHULILAMRI/Done-Fast/database"
	"github.com/MUHULILAMRI/Done-Fast/models"
	"github.com/MUHULILAMRI/Done-Fast/realtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupRepo(t *testing.T) (*GormRepository, *gorm.DB, *realtime.Hub) {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	hub := realtime.NewHub(nil)
	return NewGormRepository(db, hub), db, hub
}

func skripsi(pkg string, price int64) models.CartItem {
	return models.CartItem{
		ServiceSlug:  "joki-skripsi",
		ServiceTitle: "Joki Skripsi",
		PackageName:  pkg,
		Price:        price,
		Quantity:     1,
	}
}

// downRepo fails every call, like an unreachable database.
type downRepo struct{ Repository }

func (downRepo) Ping(context.Context) error { return errors.New("connection refused") }

func TestAdapter_SequentialAddsMergeIntoOneRow(t *testing.T) {
	repo, db, _ := setupRepo(t)
	adapter := NewAdapter(repo, nil)
	ctx := context.Background()
	owner := Owner{UserID: "user-1", Device: NewMemoryDevice()}

	require.True(t, adapter.Add(ctx, owner, skripsi("Full Bab", 2900000)))
	require.True(t, adapter.Add(ctx, owner, skripsi("Full Bab", 2900000)))

	items := adapter.List(ctx, owner)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, "user-1", *items[0].UserID)
	assert.Nil(t, items[0].SessionID)

	var count int64
	db.Model(&models.CartItem{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestAdapter_ConcurrentAddsDoNotDuplicate(t *testing.T) {
	repo, _, _ := setupRepo(t)
	adapter := NewAdapter(repo, nil)
	ctx := context.Background()
	owner := Owner{UserID: "user-1", Device: NewMemoryDevice()}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			adapter.Add(ctx, owner, skripsi("Bab 1 - 3 Saja", 900000))
		}()
	}
	wg.Wait()

	items := adapter.List(ctx, owner)
	require.Len(t, items, 1)
	assert.Equal(t, 8, items[0].Quantity)
}

func TestAdapter_AnonymousCartUsesDeviceSession(t *testing.T) {
	repo, _, _ := setupRepo(t)
	adapter := NewAdapter(repo, nil)
	ctx := context.Background()
	device := NewMemoryDevice()
	owner := Owner{Device: device}

	require.True(t, adapter.Add(ctx, owner, skripsi("Full Bab", 2900000)))

	sid, ok := device.Get(KeySessionID)
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(sid, "session_"))

	items := adapter.List(ctx, owner)
	require.Len(t, items, 1)
	assert.Equal(t, sid, *items[0].SessionID)

	other := Owner{Device: NewMemoryDevice()}
	assert.Empty(t, adapter.List(ctx, other))
	assert.False(t, adapter.Remove(ctx, other, items[0].ID), "another session must not delete the row")
	assert.False(t, adapter.Update(ctx, other, items[0].ID, Patch{Quantity: intPtr(5)}))
	assert.Len(t, adapter.List(ctx, owner), 1)
}

func TestAdapter_UpdateToZeroRemoves(t *testing.T) {
	repo, db, _ := setupRepo(t)
	adapter := NewAdapter(repo, nil)
	ctx := context.Background()
	owner := Owner{UserID: "user-1", Device: NewMemoryDevice()}

	require.True(t, adapter.Add(ctx, owner, skripsi("Full Bab", 2900000)))
	id := adapter.List(ctx, owner)[0].ID

	require.True(t, adapter.Update(ctx, owner, id, Patch{Quantity: intPtr(0)}))

	var count int64
	db.Model(&models.CartItem{}).Where("id = ?", id).Count(&count)
	assert.Zero(t, count)
}

func TestAdapter_ClearIsScopedToOwner(t *testing.T) {
	repo, _, _ := setupRepo(t)
	adapter := NewAdapter(repo, nil)
	ctx := context.Background()
	alice := Owner{UserID: "alice", Device: NewMemoryDevice()}
	bob := Owner{UserID: "bob", Device: NewMemoryDevice()}

	require.True(t, adapter.Add(ctx, alice, skripsi("Full Bab", 2900000)))
	require.True(t, adapter.Add(ctx, bob, skripsi("Full Bab", 2900000)))

	require.True(t, adapter.Clear(ctx, alice))
	assert.Empty(t, adapter.List(ctx, alice))
	assert.Len(t, adapter.List(ctx, bob), 1)
}

func TestAdapter_MigrateReownsSessionRows(t *testing.T) {
	repo, db, _ := setupRepo(t)
	adapter := NewAdapter(repo, nil)
	ctx := context.Background()
	device := NewMemoryDevice()
	anon := Owner{Device: device}
	user := Owner{UserID: "user-9", Device: device}

	require.True(t, adapter.Add(ctx, anon, skripsi("Full Bab", 2900000)))
	require.True(t, adapter.Add(ctx, anon, skripsi("Bab 4 - 5 + Free PPT", 1800000)))
	require.True(t, adapter.Add(ctx, user, skripsi("Full Bab", 2900000)))

	require.True(t, adapter.Migrate(ctx, device, "user-9"))

	_, hasToken := device.Get(KeySessionID)
	assert.False(t, hasToken)

	items := adapter.List(ctx, user)
	require.Len(t, items, 2)
	byPkg := map[string]models.CartItem{}
	for _, it := range items {
		byPkg[it.PackageName] = it
		assert.Nil(t, it.SessionID)
	}
	assert.Equal(t, 2, byPkg["Full Bab"].Quantity)
	assert.Equal(t, 1, byPkg["Bab 4 - 5 + Free PPT"].Quantity)

	var orphans int64
	db.Model(&models.CartItem{}).Where("user_id IS NULL").Count(&orphans)
	assert.Zero(t, orphans)

	// second sign-in: no token, nothing to do
	require.True(t, adapter.Migrate(ctx, device, "user-9"))
	assert.Len(t, adapter.List(ctx, user), 2)
}

func TestAdapter_DegradedModeRoundTrip(t *testing.T) {
	adapter := NewAdapter(downRepo{}, nil)
	ctx := context.Background()
	device := NewMemoryDevice()
	owner := Owner{Device: device}

	assert.False(t, adapter.Probe(ctx))
	assert.True(t, adapter.Degraded())

	require.True(t, adapter.Add(ctx, owner, skripsi("Full Bab", 2900000)))
	require.True(t, adapter.Add(ctx, owner, skripsi("Full Bab", 2900000)))

	items := adapter.List(ctx, owner)
	require.Len(t, items, 1)
	assert.True(t, strings.HasPrefix(items[0].ID, "local_"))
	assert.Equal(t, 2, items[0].Quantity)

	raw, ok := device.Get(KeyItems)
	require.True(t, ok)
	assert.Contains(t, raw, `"package_name":"Full Bab"`)

	require.True(t, adapter.Update(ctx, owner, items[0].ID, Patch{Quantity: intPtr(3)}))
	assert.Equal(t, 3, adapter.List(ctx, owner)[0].Quantity)
	assert.False(t, adapter.Update(ctx, owner, "local_missing", Patch{Quantity: intPtr(3)}))

	require.True(t, adapter.Remove(ctx, owner, items[0].ID))
	assert.Empty(t, adapter.List(ctx, owner))

	assert.True(t, adapter.Migrate(ctx, device, "user-1"), "migrate is a no-op in degraded mode")
}

func TestAdapter_CorruptDeviceItemsReadAsEmpty(t *testing.T) {
	adapter := NewAdapter(downRepo{}, nil)
	device := NewMemoryDevice()
	device.Set(KeyItems, "{not json")

	assert.Empty(t, adapter.List(context.Background(), Owner{Device: device}))
}

type fullDevice struct{ *MemoryDevice }

func (fullDevice) Set(string, string) error { return ErrDeviceFull }

func TestAdapter_DegradedAddFailsWhenDeviceIsFull(t *testing.T) {
	adapter := NewAdapter(downRepo{}, nil)
	device := fullDevice{NewMemoryDevice()}

	assert.False(t, adapter.Add(context.Background(), Owner{Device: device}, skripsi("Full Bab", 2900000)))
	assert.Empty(t, adapter.List(context.Background(), Owner{Device: device}))
}

func TestAdapter_ProbeIsMemoized(t *testing.T) {
	repo := &countingRepo{}
	adapter := NewAdapter(repo, nil)
	for i := 0; i < 5; i++ {
		adapter.Probe(context.Background())
	}
	assert.Equal(t, 1, repo.pings)
}

type countingRepo struct {
	Repository
	pings int
}

func (r *countingRepo) Ping(context.Context) error {
	r.pings++
	return nil
}

func TestRepository_PublishesChanges(t *testing.T) {
	repo, _, hub := setupRepo(t)
	events, cancel := hub.Subscribe(Table)
	defer cancel()
	ctx := context.Background()
	scope := Scope{UserID: "u1"}

	first, err := repo.Upsert(ctx, scope, skripsi("Full Bab", 2900000))
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, scope, skripsi("Full Bab", 2900000))
	require.NoError(t, err)
	_, err = repo.SetStatus(ctx, first.ID, models.OrderStatusProses)
	require.NoError(t, err)
	require.NoError(t, repo.DeleteOrder(ctx, first.ID))

	var types []realtime.EventType
	for i := 0; i < 4; i++ {
		ev := <-events
		assert.Equal(t, first.ID, ev.ID)
		types = append(types, ev.Type)
	}
	assert.Equal(t, []realtime.EventType{realtime.Insert, realtime.Update, realtime.Update, realtime.Delete}, types)

	assert.ErrorIs(t, repo.DeleteOrder(ctx, first.ID), ErrNotFound)
}

type ctxPublisher struct {
	mu   sync.Mutex
	errs []error
}

func (p *ctxPublisher) Publish(ctx context.Context, _ realtime.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.errs = append(p.errs, ctx.Err())
}

func TestRepository_PublishOutlivesRequest(t *testing.T) {
	pub := &ctxPublisher{}
	repo := NewGormRepository(nil, pub)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	repo.publish(ctx, realtime.Update, "row-1", nil)

	require.Len(t, pub.errs, 1)
	assert.NoError(t, pub.errs[0])
}

func TestRepository_UpsertKeepsContactDetails(t *testing.T) {
	repo, _, _ := setupRepo(t)
	ctx := context.Background()
	scope := Scope{SessionID: "session_abc_1"}

	item := skripsi("Full Bab", 2900000)
	item.CustomerName, item.CustomerPhone = "Budi", "6281234567890"
	_, err := repo.Upsert(ctx, scope, item)
	require.NoError(t, err)

	stored, err := repo.Upsert(ctx, scope, skripsi("Full Bab", 2900000))
	require.NoError(t, err)
	assert.Equal(t, "Budi", stored.CustomerName)
	assert.Equal(t, "6281234567890", stored.CustomerPhone)
	assert.Equal(t, 2, stored.Quantity)
	assert.Equal(t, string(models.OrderStatusPending), stored.Status)
}

func intPtr(v int) *int { return &v }
