package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MUHULILAMRI/Done-Fast/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Users reads and writes accounts in the users table.
type Users struct {
	db *gorm.DB
}

func NewUsers(db *gorm.DB) *Users {
	return &Users{db: db}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (u *Users) FindByID(ctx context.Context, id string) (models.User, error) {
	var user models.User
	err := u.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return user, ErrUserNotFound
	}
	return user, err
}

func (u *Users) FindByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := u.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return user, ErrUserNotFound
	}
	return user, err
}

// Register creates a customer account with a password.
func (u *Users) Register(ctx context.Context, email, name, password string) (models.User, error) {
	if _, err := u.FindByEmail(ctx, email); err == nil {
		return models.User{}, ErrEmailTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return models.User{}, err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}
	user := models.User{
		ID:           uuid.NewString(),
		Email:        normalizeEmail(email),
		Name:         strings.TrimSpace(name),
		Provider:     models.ProviderPassword,
		Role:         models.RoleCustomer,
		PasswordHash: hash,
	}
	if err := u.db.WithContext(ctx).Create(&user).Error; err != nil {
		return models.User{}, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Authenticate checks an email/password pair.
func (u *Users) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	user, err := u.FindByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		return user, ErrInvalidCredentials
	}
	if err != nil {
		return user, err
	}
	if !CheckPassword(user.PasswordHash, password) {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// UpsertIdentity creates or refreshes the account behind a hosted sign-in.
// The configured admin email is promoted to admin; everyone else keeps the
// role they already have.
func (u *Users) UpsertIdentity(ctx context.Context, id Identity, adminEmail string) (models.User, error) {
	email := normalizeEmail(id.Email)
	db := u.db.WithContext(ctx)

	var user models.User
	err := db.Where("id = ? OR email = ?", id.UID, email).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = models.User{
			ID:       id.UID,
			Email:    email,
			Name:     id.Name,
			Picture:  id.Picture,
			Provider: models.ProviderGoogle,
			Role:     models.RoleCustomer,
		}
		if adminEmail != "" && email == normalizeEmail(adminEmail) {
			user.Role = models.RoleAdmin
		}
		if err := db.Create(&user).Error; err != nil {
			return models.User{}, fmt.Errorf("create user: %w", err)
		}
		return user, nil
	case err != nil:
		return models.User{}, err
	}

	updates := map[string]any{"picture": id.Picture}
	if id.Name != "" {
		updates["name"] = id.Name
	}
	if adminEmail != "" && email == normalizeEmail(adminEmail) {
		updates["role"] = models.RoleAdmin
	}
	if err := db.Model(&user).Updates(updates).Error; err != nil {
		return models.User{}, fmt.Errorf("update user: %w", err)
	}
	return u.FindByID(ctx, user.ID)
}

// EnsureAdmin creates the bootstrap admin account, or resets its password
// and role when it already exists.
func (u *Users) EnsureAdmin(ctx context.Context, email, password string) (models.User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := u.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, ErrUserNotFound):
		user = models.User{
			ID:           uuid.NewString(),
			Email:        normalizeEmail(email),
			Name:         "Admin",
			Provider:     models.ProviderPassword,
			Role:         models.RoleAdmin,
			PasswordHash: hash,
		}
		if err := u.db.WithContext(ctx).Create(&user).Error; err != nil {
			return models.User{}, fmt.Errorf("create admin: %w", err)
		}
		return user, nil
	case err != nil:
		return models.User{}, err
	}

	err = u.db.WithContext(ctx).Model(&user).Updates(map[string]any{
		"role":          models.RoleAdmin,
		"password_hash": hash,
	}).Error
	if err != nil {
		return models.User{}, fmt.Errorf("promote admin: %w", err)
	}
	return u.FindByID(ctx, user.ID)
}

// UpdateProfile changes the editable profile fields.
func (u *Users) UpdateProfile(ctx context.Context, id, name, phone string) (models.User, error) {
	res := u.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(map[string]any{
		"name":  strings.TrimSpace(name),
		"phone": phone,
	})
	if res.Error != nil {
		return models.User{}, fmt.Errorf("update profile: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.User{}, ErrUserNotFound
	}
	return u.FindByID(ctx, id)
}
