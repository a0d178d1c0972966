package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/MUHULILAMRI/Done-Fast/models"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Remote reads services from the database. Reads go through a circuit
// breaker; while the database is failing the static catalog is served.
type Remote struct {
	db       *gorm.DB
	fallback Provider
	cb       *gobreaker.CircuitBreaker[[]models.Service]
	log      *zap.Logger
}

func NewRemote(db *gorm.DB, log *zap.Logger) *Remote {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("catalog")
	cb := gobreaker.NewCircuitBreaker[[]models.Service](gobreaker.Settings{
		Name:        "catalog-db",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
	return &Remote{db: db, fallback: Static{}, cb: cb, log: log}
}

func (r *Remote) List(ctx context.Context) ([]models.Service, error) {
	list, _, err := r.Fetch(ctx)
	return list, err
}

// Fetch is List that also reports whether the rows came from the database.
// fresh is false when the static fallback was served.
func (r *Remote) Fetch(ctx context.Context) (list []models.Service, fresh bool, err error) {
	list, err = r.cb.Execute(func() ([]models.Service, error) {
		var rows []models.Service
		if err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&rows).Error; err != nil {
			return nil, err
		}
		return rows, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			r.log.Debug("catalog breaker open, serving static list")
		} else {
			r.log.Error("load services failed, serving static list", zap.Error(err))
		}
		list, err = r.fallback.List(ctx)
		return list, false, err
	}
	return list, true, nil
}

func (r *Remote) Get(ctx context.Context, slug string) (models.Service, error) {
	list, err := r.List(ctx)
	if err != nil {
		return models.Service{}, err
	}
	return find(list, slug)
}
