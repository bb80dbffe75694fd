// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"context"
	"errors"
	"fmt"

	"inkwell/internal/middleware"
	"inkwell/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
	// DeletedEvery soft-deletes every Nth post; zero disables it.
	DeletedEvery int
	Seed         int64
}

// Result summarizes what Seed wrote.
type Result struct {
	Users   []models.User
	Posts   int
	Deleted int
}

// Seed populates db with fake users and posts spread round-robin across them.
func Seed(ctx context.Context, db *gorm.DB, opts Options) (*Result, error) {
	if opts.NumPosts > 0 && opts.NumUsers <= 0 {
		return nil, errors.New("posts need at least one user")
	}

	if opts.ShouldClean {
		if err := clearData(ctx, db); err != nil {
			return nil, fmt.Errorf("clean database: %w", err)
		}
		middleware.Logger.InfoContext(ctx, "database cleaned")
	}

	result := &Result{}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		f := NewFactory(tx, opts.Seed)

		for i := 0; i < opts.NumUsers; i++ {
			user, err := f.CreateUser()
			if err != nil {
				return err
			}
			result.Users = append(result.Users, *user)
		}

		for i := 0; i < opts.NumPosts; i++ {
			author := &result.Users[i%len(result.Users)]
			deleted := opts.DeletedEvery > 0 && (i+1)%opts.DeletedEvery == 0
			if _, err := f.CreatePost(author, func(p *models.BlogPost) { p.IsDeleted = deleted }); err != nil {
				return err
			}
			result.Posts++
			if deleted {
				result.Deleted++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	middleware.Logger.InfoContext(ctx, "seeding complete",
		"users", len(result.Users), "posts", result.Posts, "deleted_posts", result.Deleted)
	return result, nil
}

// clearData removes posts, users and blacklisted tokens, in dependency order.
func clearData(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{&models.BlogPost{}, &models.BlacklistedToken{}, &models.User{}} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
