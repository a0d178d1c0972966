package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/MUHULILAMRI/Done-Fast/models"
	"github.com/MUHULILAMRI/Done-Fast/realtime"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrExists = errors.New("service already exists")

// Invalidator is told whenever the stored catalog changes.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

// Store is the admin-side service table.
type Store struct {
	db    *gorm.DB
	pub   realtime.Publisher
	cache Invalidator
}

func NewStore(db *gorm.DB, pub realtime.Publisher, cache Invalidator) *Store {
	return &Store{db: db, pub: pub, cache: cache}
}

// changed runs after the write has committed, so it must not be cut short by
// the request going away.
func (s *Store) changed(ctx context.Context, typ realtime.EventType, id string, record any) {
	ctx = context.WithoutCancel(ctx)
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
	if s.pub != nil {
		s.pub.Publish(ctx, realtime.NewEvent(Table, typ, id, record))
	}
}

func (s *Store) All(ctx context.Context) ([]models.Service, error) {
	var rows []models.Service
	if err := s.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	return rows, nil
}

func (s *Store) Get(ctx context.Context, id string) (models.Service, error) {
	var row models.Service
	err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return row, ErrNotFound
	}
	return row, err
}

func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Service{}).Count(&n).Error
	return n, err
}

func (s *Store) Create(ctx context.Context, svc models.Service) (models.Service, error) {
	if _, err := s.Get(ctx, svc.ID); err == nil {
		return models.Service{}, ErrExists
	}
	if err := s.db.WithContext(ctx).Create(&svc).Error; err != nil {
		return models.Service{}, fmt.Errorf("create service: %w", err)
	}
	s.changed(ctx, realtime.Insert, svc.ID, svc)
	return svc, nil
}

// Update replaces every editable field of the service id.
func (s *Store) Update(ctx context.Context, id string, svc models.Service) (models.Service, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return models.Service{}, err
	}
	svc.ID = existing.ID
	svc.CreatedAt = existing.CreatedAt
	if err := s.db.WithContext(ctx).Select("*").Omit("created_at").Updates(&svc).Error; err != nil {
		return models.Service{}, fmt.Errorf("update service: %w", err)
	}
	s.changed(ctx, realtime.Update, svc.ID, svc)
	return svc, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&models.Service{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete service: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	s.changed(ctx, realtime.Delete, id, nil)
	return nil
}

// Upsert inserts svc or overwrites the row with the same id. It reports
// whether a new row was created.
func (s *Store) Upsert(ctx context.Context, svc models.Service) (bool, error) {
	_, err := s.Get(ctx, svc.ID)
	created := errors.Is(err, ErrNotFound)
	if err != nil && !created {
		return false, err
	}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "description", "price", "category", "icon", "popular",
			"features", "delivery_time", "revisions", "sub_options", "updated_at",
		}),
	}).Create(&svc).Error
	if err != nil {
		return false, fmt.Errorf("upsert service: %w", err)
	}
	typ := realtime.Update
	if created {
		typ = realtime.Insert
	}
	s.changed(ctx, typ, svc.ID, svc)
	return created, nil
}

// Seed writes the static catalog into the table.
func Seed(ctx context.Context, s *Store) (int, error) {
	n := 0
	for _, svc := range StaticServices() {
		if _, err := s.Upsert(ctx, svc); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
