package security

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"inkwell/internal/cache"
	"inkwell/internal/models"
	"inkwell/internal/observability"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Blacklist stores revoked refresh token ids until they would have expired anyway.
type Blacklist interface {
	Add(ctx context.Context, jti string, userID uint, expiresAt time.Time) error
	Contains(ctx context.Context, jti string) (bool, error)
}

// RedisBlacklist keeps one expiring key per revoked token.
type RedisBlacklist struct {
	client *redis.Client
}

// NewRedisBlacklist wraps client.
func NewRedisBlacklist(client *redis.Client) *RedisBlacklist {
	return &RedisBlacklist{client: client}
}

func (b *RedisBlacklist) Add(ctx context.Context, jti string, userID uint, expiresAt time.Time) (err error) {
	ctx, span := observability.StartRedisSpan(ctx, "blacklist.add")
	defer func() { observability.EndSpan(span, err) }()

	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err = b.client.Set(ctx, cache.BlacklistKey(jti), strconv.FormatUint(uint64(userID), 10), ttl).Err(); err != nil {
		return fmt.Errorf("blacklist token: %w", err)
	}
	return nil
}

func (b *RedisBlacklist) Contains(ctx context.Context, jti string) (found bool, err error) {
	ctx, span := observability.StartRedisSpan(ctx, "blacklist.contains")
	defer func() { observability.EndSpan(span, err) }()

	n, err := b.client.Exists(ctx, cache.BlacklistKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("check blacklist: %w", err)
	}
	return n > 0, nil
}

// GormBlacklist persists revoked tokens in the blacklisted_tokens table.
type GormBlacklist struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormBlacklist wraps db.
func NewGormBlacklist(db *gorm.DB) *GormBlacklist {
	return &GormBlacklist{db: db, now: time.Now}
}

func (b *GormBlacklist) Add(ctx context.Context, jti string, userID uint, expiresAt time.Time) error {
	row := models.BlacklistedToken{JTI: jti, UserID: userID, ExpiresAt: expiresAt}
	err := b.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "jti"}}, DoNothing: true}).
		Create(&row).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (b *GormBlacklist) Contains(ctx context.Context, jti string) (bool, error) {
	var row models.BlacklistedToken
	err := b.db.WithContext(ctx).
		Where("jti = ? AND expires_at > ?", jti, b.now()).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return true, nil
}

// PurgeExpired deletes rows whose tokens have already expired.
func (b *GormBlacklist) PurgeExpired(ctx context.Context) (int64, error) {
	res := b.db.WithContext(ctx).Where("expires_at <= ?", b.now()).Delete(&models.BlacklistedToken{})
	if res.Error != nil {
		return 0, models.NewInternalError(res.Error)
	}
	return res.RowsAffected, nil
}

// NewBlacklist prefers Redis when a client is available.
func NewBlacklist(client *redis.Client, db *gorm.DB) Blacklist {
	if client != nil {
		return NewRedisBlacklist(client)
	}
	return NewGormBlacklist(db)
}
