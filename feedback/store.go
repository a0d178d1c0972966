package feedback

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MUHULILAMRI/Done-Fast/models"
	"github.com/MUHULILAMRI/Done-Fast/realtime"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const Table = "feedback"

var ErrNotFound = errors.New("feedback not found")

// Read-state filters for the admin list.
const (
	FilterAll    = "all"
	FilterRead   = "read"
	FilterUnread = "unread"
)

// Store keeps visitor feedback and announces every change.
type Store struct {
	db  *gorm.DB
	pub realtime.Publisher
}

func NewStore(db *gorm.DB, pub realtime.Publisher) *Store {
	return &Store{db: db, pub: pub}
}

func (s *Store) publish(ctx context.Context, typ realtime.EventType, id string, record any) {
	if s.pub != nil {
		s.pub.Publish(context.WithoutCancel(ctx), realtime.NewEvent(Table, typ, id, record))
	}
}

func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

// Create stores a new unread message. Blank name and email are stored as
// NULL.
func (s *Store) Create(ctx context.Context, name, email, message string) (models.Feedback, error) {
	fb := models.Feedback{
		ID:        uuid.NewString(),
		Name:      optional(name),
		Email:     optional(email),
		Message:   strings.TrimSpace(message),
		CreatedAt: time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(&fb).Error; err != nil {
		return models.Feedback{}, fmt.Errorf("create feedback: %w", err)
	}
	s.publish(ctx, realtime.Insert, fb.ID, fb)
	return fb, nil
}

// All returns every message, newest first.
func (s *Store) All(ctx context.Context) ([]models.Feedback, error) {
	var list []models.Feedback
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	return list, nil
}

// SetRead marks a message read or unread.
func (s *Store) SetRead(ctx context.Context, id string, read bool) (models.Feedback, error) {
	db := s.db.WithContext(ctx)
	res := db.Model(&models.Feedback{}).Where("id = ?", id).Update("is_read", read)
	if res.Error != nil {
		return models.Feedback{}, fmt.Errorf("update feedback: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.Feedback{}, ErrNotFound
	}
	var fb models.Feedback
	if err := db.First(&fb, "id = ?", id).Error; err != nil {
		return models.Feedback{}, err
	}
	s.publish(ctx, realtime.Update, id, fb)
	return fb, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&models.Feedback{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete feedback: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	s.publish(ctx, realtime.Delete, id, nil)
	return nil
}

// MatchesFilter applies an all/read/unread filter. Unknown filters keep
// everything.
func MatchesFilter(fb models.Feedback, filter string) bool {
	switch filter {
	case FilterRead:
		return fb.IsRead
	case FilterUnread:
		return !fb.IsRead
	default:
		return true
	}
}

// SearchFields are the fields the admin search box looks at.
func SearchFields(fb models.Feedback) []string {
	fields := []string{fb.Message}
	if fb.Name != nil {
		fields = append(fields, *fb.Name)
	}
	if fb.Email != nil {
		fields = append(fields, *fb.Email)
	}
	return fields
}
