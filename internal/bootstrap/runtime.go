// Package bootstrap prepares the runtime dependencies shared by the server and the CLIs.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"inkwell/internal/cache"
	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/security"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	defaultAdminUsername = "Admin"
	defaultAdminEmail    = "admin@inkwell.local"
)

// InitRuntime connects to the database and Redis, then ensures a default admin exists.
// The returned Redis client is nil when Redis is unreachable.
func InitRuntime(ctx context.Context, cfg *config.Config) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	if err := cache.InitRedis(cfg.RedisURL); err != nil {
		middleware.Logger.Warn("redis unavailable, using database token blacklist", "error", err)
	}

	if err := EnsureDefaultAdmin(ctx, db, cfg); err != nil {
		return nil, nil, fmt.Errorf("failed to bootstrap default admin: %w", err)
	}

	return db, cache.GetClient(), nil
}

// EnsureDefaultAdmin creates a superuser when none exists. Existing rows are never modified.
func EnsureDefaultAdmin(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	if cfg == nil || db == nil || !cfg.AdminBootstrap {
		return nil
	}

	username := strings.TrimSpace(cfg.AdminUsername)
	if username == "" {
		username = defaultAdminUsername
	}
	email := strings.TrimSpace(strings.ToLower(cfg.AdminEmail))
	if email == "" {
		email = defaultAdminEmail
	}
	password := cfg.AdminPassword
	if password == "" {
		if cfg.IsProduction() {
			return errors.New("ADMIN_PASSWORD must be set when ADMIN_BOOTSTRAP is enabled in production")
		}
		password = username
	}

	created := false
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var admins int64
		if err := tx.Model(&models.User{}).Where("is_superuser = ?", true).Count(&admins).Error; err != nil {
			return err
		}
		if admins > 0 {
			return nil
		}

		var clashes int64
		if err := tx.Model(&models.User{}).
			Where("username = ? OR email = ?", username, email).
			Count(&clashes).Error; err != nil {
			return err
		}
		if clashes > 0 {
			middleware.Logger.WarnContext(ctx, "default admin not created, username or email already taken",
				"username", username, "email", email)
			return nil
		}

		hash, err := security.HashPassword(password)
		if err != nil {
			return err
		}
		admin := models.User{
			Username:    username,
			Email:       email,
			Password:    hash,
			IsStaff:     true,
			IsSuperuser: true,
			IsActive:    true,
		}
		if err := tx.Create(&admin).Error; err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		return err
	}

	if created {
		middleware.Logger.InfoContext(ctx, "default admin created", "username", username, "email", email)
	}
	return nil
}
