package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MUHULILAMRI/Done-Fast/models"
	"github.com/MUHULILAMRI/Done-Fast/realtime"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const Table = "cart_items"

var ErrNotFound = errors.New("cart item not found")

// Patch lists the fields an update may change. Nil fields are left alone.
type Patch struct {
	Quantity      *int    `json:"quantity,omitempty"`
	Status        *string `json:"status,omitempty"`
	CustomerName  *string `json:"customer_name,omitempty"`
	CustomerPhone *string `json:"customer_phone,omitempty"`
}

func (p Patch) columns() map[string]any {
	cols := map[string]any{}
	if p.Quantity != nil {
		cols["quantity"] = *p.Quantity
	}
	if p.Status != nil {
		cols["status"] = *p.Status
	}
	if p.CustomerName != nil {
		cols["customer_name"] = *p.CustomerName
	}
	if p.CustomerPhone != nil {
		cols["customer_phone"] = *p.CustomerPhone
	}
	return cols
}

func (p Patch) apply(item *models.CartItem) {
	if p.Quantity != nil {
		item.Quantity = *p.Quantity
	}
	if p.Status != nil {
		item.Status = *p.Status
	}
	if p.CustomerName != nil {
		item.CustomerName = *p.CustomerName
	}
	if p.CustomerPhone != nil {
		item.CustomerPhone = *p.CustomerPhone
	}
}

// Repository is the remote cart store.
type Repository interface {
	Ping(ctx context.Context) error
	List(ctx context.Context, scope Scope) ([]models.CartItem, error)
	Upsert(ctx context.Context, scope Scope, item models.CartItem) (models.CartItem, error)
	Update(ctx context.Context, scope Scope, id string, patch Patch) error
	Delete(ctx context.Context, scope Scope, id string) error
	DeleteAll(ctx context.Context, scope Scope) error
	Reassign(ctx context.Context, sessionID, userID string) (int, error)
}

// GormRepository stores cart rows in the cart_items table and announces
// every committed change on the realtime publisher.
type GormRepository struct {
	db  *gorm.DB
	pub realtime.Publisher
}

func NewGormRepository(db *gorm.DB, pub realtime.Publisher) *GormRepository {
	return &GormRepository{db: db, pub: pub}
}

func (r *GormRepository) publish(ctx context.Context, typ realtime.EventType, id string, record any) {
	if r.pub == nil {
		return
	}
	// the row is committed; announce it even if the request is gone
	r.pub.Publish(context.WithoutCancel(ctx), realtime.NewEvent(Table, typ, id, record))
}

func scoped(db *gorm.DB, scope Scope) *gorm.DB {
	if !scope.Anonymous() {
		return db.Where("user_id = ?", scope.UserID)
	}
	return db.Where("session_id = ? AND user_id IS NULL", scope.SessionID)
}

// Ping runs the cheapest query that proves the table is reachable.
func (r *GormRepository) Ping(ctx context.Context) error {
	var ids []string
	return r.db.WithContext(ctx).Model(&models.CartItem{}).Limit(1).Pluck("id", &ids).Error
}

func (r *GormRepository) List(ctx context.Context, scope Scope) ([]models.CartItem, error) {
	var items []models.CartItem
	err := scoped(r.db.WithContext(ctx), scope).Order("created_at DESC").Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}
	return items, nil
}

// Upsert inserts item for the scope or, when the same service package is
// already in that cart, adds its quantity to the existing row in the same
// statement.
func (r *GormRepository) Upsert(ctx context.Context, scope Scope, item models.CartItem) (models.CartItem, error) {
	now := time.Now()
	row := item
	row.ID = uuid.NewString()
	row.UserID, row.SessionID = nil, nil
	if scope.Anonymous() {
		sid := scope.SessionID
		row.SessionID = &sid
	} else {
		uid := scope.UserID
		row.UserID = &uid
	}
	row.OwnerKey = models.OwnerKeyFor(scope.UserID, scope.SessionID)
	if row.Quantity < 1 {
		row.Quantity = 1
	}
	if row.Status == "" {
		row.Status = string(models.OrderStatusPending)
	}
	row.CreatedAt, row.UpdatedAt = now, now

	db := r.db.WithContext(ctx)
	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "owner_key"}, {Name: "service_slug"}, {Name: "package_name"}},
		DoUpdates: clause.Assignments(map[string]any{
			"quantity":       gorm.Expr("cart_items.quantity + excluded.quantity"),
			"customer_name":  gorm.Expr("CASE WHEN excluded.customer_name <> '' THEN excluded.customer_name ELSE cart_items.customer_name END"),
			"customer_phone": gorm.Expr("CASE WHEN excluded.customer_phone <> '' THEN excluded.customer_phone ELSE cart_items.customer_phone END"),
			"updated_at":     gorm.Expr("excluded.updated_at"),
		}),
	}).Create(&row).Error
	if err != nil {
		return models.CartItem{}, fmt.Errorf("upsert cart item: %w", err)
	}

	var stored models.CartItem
	err = db.Where("owner_key = ? AND service_slug = ? AND package_name = ?",
		row.OwnerKey, row.ServiceSlug, row.PackageName).First(&stored).Error
	if err != nil {
		return models.CartItem{}, fmt.Errorf("reload cart item: %w", err)
	}

	typ := realtime.Update
	if stored.ID == row.ID {
		typ = realtime.Insert
	}
	r.publish(ctx, typ, stored.ID, stored)
	return stored, nil
}

func (r *GormRepository) Update(ctx context.Context, scope Scope, id string, patch Patch) error {
	cols := patch.columns()
	if len(cols) == 0 {
		return nil
	}
	cols["updated_at"] = time.Now()

	db := r.db.WithContext(ctx)
	res := scoped(db.Model(&models.CartItem{}).Where("id = ?", id), scope).Updates(cols)
	if res.Error != nil {
		return fmt.Errorf("update cart item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}

	var stored models.CartItem
	if err := db.First(&stored, "id = ?", id).Error; err == nil {
		r.publish(ctx, realtime.Update, id, stored)
	}
	return nil
}

func (r *GormRepository) Delete(ctx context.Context, scope Scope, id string) error {
	res := scoped(r.db.WithContext(ctx).Where("id = ?", id), scope).Delete(&models.CartItem{})
	if res.Error != nil {
		return fmt.Errorf("delete cart item: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	r.publish(ctx, realtime.Delete, id, nil)
	return nil
}

// DeleteAll empties the scope's cart. Rows of other owners are untouched.
func (r *GormRepository) DeleteAll(ctx context.Context, scope Scope) error {
	db := r.db.WithContext(ctx)

	var ids []string
	if err := scoped(db.Model(&models.CartItem{}), scope).Pluck("id", &ids).Error; err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}
	if err := db.Where("id IN ?", ids).Delete(&models.CartItem{}).Error; err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	for _, id := range ids {
		r.publish(ctx, realtime.Delete, id, nil)
	}
	return nil
}

// Reassign moves every anonymous row of sessionID to userID. A row whose
// service package the user already owns is folded into the user's row.
// Running it again for the same session is a no-op.
func (r *GormRepository) Reassign(ctx context.Context, sessionID, userID string) (int, error) {
	type change struct {
		typ    realtime.EventType
		id     string
		record any
	}
	var changes []change

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var anon []models.CartItem
		if err := scoped(tx, Scope{SessionID: sessionID}).Find(&anon).Error; err != nil {
			return err
		}

		ownerKey := models.OwnerKeyFor(userID, "")
		now := time.Now()
		for _, item := range anon {
			var existing models.CartItem
			err := tx.Where("owner_key = ? AND service_slug = ? AND package_name = ?",
				ownerKey, item.ServiceSlug, item.PackageName).First(&existing).Error

			switch {
			case err == nil:
				existing.Quantity += item.Quantity
				if err := tx.Model(&existing).Updates(map[string]any{
					"quantity":   existing.Quantity,
					"updated_at": now,
				}).Error; err != nil {
					return err
				}
				if err := tx.Delete(&models.CartItem{}, "id = ?", item.ID).Error; err != nil {
					return err
				}
				changes = append(changes,
					change{realtime.Update, existing.ID, existing},
					change{realtime.Delete, item.ID, nil},
				)
			case errors.Is(err, gorm.ErrRecordNotFound):
				uid := userID
				item.UserID, item.SessionID, item.OwnerKey, item.UpdatedAt = &uid, nil, ownerKey, now
				if err := tx.Model(&models.CartItem{}).Where("id = ?", item.ID).Updates(map[string]any{
					"user_id":    userID,
					"session_id": nil,
					"owner_key":  ownerKey,
					"updated_at": now,
				}).Error; err != nil {
					return err
				}
				changes = append(changes, change{realtime.Update, item.ID, item})
			default:
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("reassign session cart: %w", err)
	}

	for _, c := range changes {
		r.publish(ctx, c.typ, c.id, c.record)
	}
	return len(changes), nil
}

// AllOrders returns every cart row, newest first.
func (r *GormRepository) AllOrders(ctx context.Context) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return items, nil
}

// OrdersSince returns rows created at or after since, newest first.
func (r *GormRepository) OrdersSince(ctx context.Context, since time.Time) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.db.WithContext(ctx).Where("created_at >= ?", since).Order("created_at DESC").Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("list orders since: %w", err)
	}
	return items, nil
}

// FindOrder loads one row regardless of owner.
func (r *GormRepository) FindOrder(ctx context.Context, id string) (models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return item, ErrNotFound
	}
	return item, err
}

// SetStatus moves an order to status.
func (r *GormRepository) SetStatus(ctx context.Context, id string, status models.OrderStatus) (models.CartItem, error) {
	db := r.db.WithContext(ctx)
	res := db.Model(&models.CartItem{}).Where("id = ?", id).Updates(map[string]any{
		"status":     string(status),
		"updated_at": time.Now(),
	})
	if res.Error != nil {
		return models.CartItem{}, fmt.Errorf("set order status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.CartItem{}, ErrNotFound
	}
	item, err := r.FindOrder(ctx, id)
	if err != nil {
		return item, err
	}
	r.publish(ctx, realtime.Update, id, item)
	return item, nil
}

// DeleteOrder removes one row regardless of owner.
func (r *GormRepository) DeleteOrder(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.CartItem{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete order: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	r.publish(ctx, realtime.Delete, id, nil)
	return nil
}
