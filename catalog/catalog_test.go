package catalog

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MUHULILAMRI/Done-Fast/database"
	"github.com/MUHULILAMRI/Done-Fast/models"
	"github.com/MUHULILAMRI/Done-Fast/realtime"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupDB(t *testing.T, migrate bool) *gorm.DB {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	if migrate {
		require.NoError(t, database.Migrate(db))
	}
	return db
}

func TestPackages(t *testing.T) {
	skripsi, err := Static{}.Get(context.Background(), "joki-skripsi")
	require.NoError(t, err)

	pkgs := Packages(skripsi)
	require.Len(t, pkgs, 3)
	assert.Equal(t, "Bab 1 - 3 Saja", pkgs[0].Name)
	assert.EqualValues(t, 900000, pkgs[0].Price)

	pkg, ok := Resolve(skripsi, "Full Bab")
	require.True(t, ok)
	assert.EqualValues(t, 2900000, pkg.Price)
	_, ok = Resolve(skripsi, "Paket Standar")
	assert.False(t, ok)

	base := models.Service{ID: "joki-x", Title: "Joki X", Price: price(50000), Features: []string{"a"}}
	pkgs = Packages(base)
	require.Len(t, pkgs, 1)
	assert.Equal(t, DefaultPackageName, pkgs[0].Name)
	assert.EqualValues(t, 50000, pkgs[0].Price)

	item := CartItem(base, pkgs[0])
	assert.Equal(t, "joki-x", item.ServiceSlug)
	assert.Equal(t, 1, item.Quantity)
}

func TestIconSlug(t *testing.T) {
	assert.Equal(t, "cable", IconSlug("Cube"))
	assert.Equal(t, "book-open", IconSlug("BookOpen"))
	assert.Equal(t, "file-text", IconSlug("Rocket"))
	assert.Equal(t, "file-text", Describe(models.Service{}).IconSlug)
}

func TestFilterAndCategories(t *testing.T) {
	list := StaticServices()
	assert.Len(t, Filter(list, "All"), 6)
	assert.Len(t, Filter(list, "Academic"), 3)
	assert.Empty(t, Filter(list, "Music"))
	assert.Equal(t, []string{"All", "Academic", "Programming", "Design", "Consultation"}, Categories())
}

func TestFormRoundTrip(t *testing.T) {
	svc, _ := Static{}.Get(context.Background(), "joki-jurnal")

	form := EncodeForm(svc)
	assert.Equal(t, "Jurnal Nasional / Internasional, Review & Editing Profesional, Bantuan & Strategi Publikasi, Manajemen Sitasi", form.Features)
	assert.Contains(t, form.SubOptions, "\n  {\n    \"id\": \"jurnal-penulisan\"")

	back, err := DecodeForm(form)
	require.NoError(t, err)
	assert.Equal(t, svc.ID, back.ID)
	assert.Equal(t, []string(svc.Features), []string(back.Features))
	assert.Equal(t, []models.SubOption(svc.SubOptions), []models.SubOption(back.SubOptions))
	assert.Equal(t, *svc.Price, *back.Price)
}

func TestDecodeForm(t *testing.T) {
	t.Run("generates slug and defaults", func(t *testing.T) {
		svc, err := DecodeForm(Form{
			Title:      "Joki  Desain Grafis",
			Category:   "Design",
			Icon:       "Rocket",
			Features:   "Logo, , Poster ,Banner",
			SubOptions: `[{"name":"Logo Saja","price":300000}]`,
		})
		require.NoError(t, err)
		assert.Equal(t, "joki-desain-grafis", svc.ID)
		assert.Equal(t, DefaultIcon, svc.Icon)
		assert.Equal(t, []string{"Logo", "Poster", "Banner"}, []string(svc.Features))
		require.Len(t, svc.SubOptions, 1)
		assert.Equal(t, "joki-desain-grafis-logo-saja", svc.SubOptions[0].ID)
		assert.Nil(t, svc.Price)
	})

	t.Run("rejects malformed sub-options", func(t *testing.T) {
		_, err := DecodeForm(Form{Title: "Joki A", Category: "Academic", SubOptions: `[{"name": "x",}]`})
		var ferr *FormError
		require.ErrorAs(t, err, &ferr)
		assert.Equal(t, "sub_options", ferr.Field)
	})

	t.Run("rejects unnamed sub-option", func(t *testing.T) {
		_, err := DecodeForm(Form{Title: "Joki A", Category: "Academic", SubOptions: `[{"price": 1}]`})
		var ferr *FormError
		require.ErrorAs(t, err, &ferr)
		assert.Equal(t, "sub_options", ferr.Field)
	})

	t.Run("requires title and known category", func(t *testing.T) {
		_, err := DecodeForm(Form{Category: "Academic"})
		assert.ErrorContains(t, err, "title")
		_, err = DecodeForm(Form{Title: "A", Category: "Music"})
		assert.ErrorContains(t, err, "category")
	})
}

func TestRemote_FallsBackToStatic(t *testing.T) {
	db := setupDB(t, false) // no services table
	r := NewRemote(db, nil)

	list, err := r.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 6)
}

func TestRemote_ReadsDatabase(t *testing.T) {
	db := setupDB(t, true)
	store := NewStore(db, nil, nil)
	_, err := store.Create(context.Background(), models.Service{ID: "joki-ppt", Title: "Joki PPT", Category: "Design"})
	require.NoError(t, err)

	svc, err := NewRemote(db, nil).Get(context.Background(), "joki-ppt")
	require.NoError(t, err)
	assert.Equal(t, "Joki PPT", svc.Title)

	_, err = NewRemote(db, nil).Get(context.Background(), "joki-skripsi")
	assert.ErrorIs(t, err, ErrNotFound)
}

type countingProvider struct {
	calls atomic.Int32
}

func (p *countingProvider) List(context.Context) ([]models.Service, error) {
	p.calls.Add(1)
	time.Sleep(10 * time.Millisecond)
	return StaticServices(), nil
}

func (p *countingProvider) Get(ctx context.Context, slug string) (models.Service, error) {
	list, _ := p.List(ctx)
	return find(list, slug)
}

func TestCached(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	inner := &countingProvider{}
	c := NewCached(inner, client, time.Minute, nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			list, err := c.List(ctx)
			assert.NoError(t, err)
			assert.Len(t, list, 6)
		}()
	}
	wg.Wait()
	assert.EqualValues(t, 1, inner.calls.Load())
	assert.True(t, mr.Exists(cacheKey))

	svc, err := c.Get(ctx, "joki-3d")
	require.NoError(t, err)
	assert.Equal(t, "Cube", svc.Icon)
	assert.EqualValues(t, 1, inner.calls.Load())

	c.Invalidate(ctx)
	_, err = c.List(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, inner.calls.Load())
}

func TestCached_DoesNotKeepStaticFallback(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	db := setupDB(t, false)
	c := NewCached(NewRemote(db, nil), client, time.Hour, nil)
	ctx := context.Background()

	list, err := c.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 6)
	assert.False(t, mr.Exists(cacheKey))

	require.NoError(t, database.Migrate(db))
	_, err = NewStore(db, nil, nil).Create(ctx, models.Service{ID: "joki-ppt", Title: "Joki PPT", Category: "Design"})
	require.NoError(t, err)

	svc, err := c.Get(ctx, "joki-ppt")
	require.NoError(t, err)
	assert.Equal(t, "Joki PPT", svc.Title)
	assert.True(t, mr.Exists(cacheKey))
}

type blockingProvider struct {
	entered chan struct{}
	release chan struct{}
}

func (p *blockingProvider) List(ctx context.Context) ([]models.Service, error) {
	close(p.entered)
	<-p.release
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return StaticServices(), nil
}

func (p *blockingProvider) Get(ctx context.Context, slug string) (models.Service, error) {
	list, err := p.List(ctx)
	if err != nil {
		return models.Service{}, err
	}
	return find(list, slug)
}

func TestCached_LoadOutlivesCanceledCaller(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	inner := &blockingProvider{entered: make(chan struct{}), release: make(chan struct{})}
	c := NewCached(inner, client, time.Minute, nil)

	first, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := c.List(first)
		done <- err
	}()
	<-inner.entered

	type result struct {
		list []models.Service
		err  error
	}
	waiter := make(chan result, 1)
	go func() {
		list, err := c.List(context.Background())
		waiter <- result{list, err}
	}()

	cancel()
	close(inner.release)

	require.NoError(t, <-done)
	got := <-waiter
	require.NoError(t, got.err)
	assert.Len(t, got.list, 6)
	assert.True(t, mr.Exists(cacheKey))
}

type ctxRecorder struct {
	mu   sync.Mutex
	errs []error
}

func (r *ctxRecorder) record(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, ctx.Err())
}

func (r *ctxRecorder) Invalidate(ctx context.Context)                { r.record(ctx) }
func (r *ctxRecorder) Publish(ctx context.Context, _ realtime.Event) { r.record(ctx) }

func TestStore_ChangedIgnoresCanceledRequest(t *testing.T) {
	rec := &ctxRecorder{}
	store := NewStore(setupDB(t, true), rec, rec)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	store.changed(ctx, realtime.Update, "joki-ppt", nil)

	require.Len(t, rec.errs, 2)
	for _, err := range rec.errs {
		assert.NoError(t, err)
	}
}

type invalidations struct{ n int }

func (i *invalidations) Invalidate(context.Context) { i.n++ }

func TestStore(t *testing.T) {
	db := setupDB(t, true)
	hub := realtime.NewHub(nil)
	events, cancel := hub.Subscribe(Table)
	defer cancel()
	inv := &invalidations{}
	store := NewStore(db, hub, inv)
	ctx := context.Background()

	n, err := Seed(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 6, count)

	// seeding again only updates
	created, err := store.Upsert(ctx, StaticServices()[0])
	require.NoError(t, err)
	assert.False(t, created)

	_, err = store.Create(ctx, StaticServices()[0])
	assert.ErrorIs(t, err, ErrExists)

	svc, _ := store.Get(ctx, "konsultasi")
	svc.Title = "Konsultasi Skripsi"
	svc.Popular = true
	_, err = store.Update(ctx, "konsultasi", svc)
	require.NoError(t, err)
	got, _ := store.Get(ctx, "konsultasi")
	assert.Equal(t, "Konsultasi Skripsi", got.Title)
	assert.True(t, got.Popular)
	require.Len(t, got.SubOptions, 1)

	require.NoError(t, store.Delete(ctx, "konsultasi"))
	assert.ErrorIs(t, store.Delete(ctx, "konsultasi"), ErrNotFound)
	_, err = store.Update(ctx, "konsultasi", svc)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, 9, inv.n)
	var last realtime.Event
	for i := 0; i < 9; i++ {
		last = <-events
	}
	assert.Equal(t, realtime.Delete, last.Type)
	assert.Equal(t, "konsultasi", last.ID)
}
