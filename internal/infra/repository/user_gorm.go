package repository

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clearance-booking/internal/models"
	"github.com/BruksfildServices01/clearance-booking/internal/permission"
)

type UserGormRepository struct {
	db *gorm.DB
}

func NewUserGormRepository(db *gorm.DB) *UserGormRepository {
	return &UserGormRepository{db: db}
}

// AreCrew reports whether every id names a user with the crew role.
func (r *UserGormRepository) AreCrew(ctx context.Context, ids []string) (bool, error) {
	userIDs, ok := parseUserIDs(ids)
	if !ok {
		return false, nil
	}

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id IN ? AND role = ?", userIDs, string(permission.RoleCrew)).
		Count(&count).Error; err != nil {
		return false, err
	}

	return int(count) == len(userIDs), nil
}

// EnsureAdmin creates the bootstrap admin account when no user holds that
// email yet. It reports whether an account was created.
func (r *UserGormRepository) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return false, nil
	}

	var existing models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}

	admin := models.User{
		Name:         "Administrator",
		Email:        email,
		PasswordHash: string(hashed),
		Role:         string(permission.RoleAdmin),
	}
	if err := r.db.WithContext(ctx).Create(&admin).Error; err != nil {
		return false, err
	}
	return true, nil
}

// parseUserIDs dedupes ids; any non-numeric id fails the whole set.
func parseUserIDs(ids []string) ([]uint, bool) {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))

	for _, raw := range ids {
		n, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
		if err != nil || n == 0 {
			return nil, false
		}
		id := uint(n)
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out, len(out) > 0
}
