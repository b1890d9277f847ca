package auth

import (
	"context"
	"log"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/examstack/examstack-api/model"
	"github.com/examstack/examstack-api/utils/cache"
)

const (
	revokedCacheKeyPrefix = "auth:revoked:"
	revokedCacheTTL       = 24 * time.Hour
)

// BlacklistService is the revocation ledger. The database table is the
// authority; a Redis cache, when configured, answers repeat lookups for
// already-confirmed revocations.
type BlacklistService struct {
	db    *gorm.DB
	cache *cache.RedisCache
}

// NewBlacklistService creates a new blacklist service. The cache may be nil.
func NewBlacklistService(db *gorm.DB, redisCache *cache.RedisCache) *BlacklistService {
	return &BlacklistService{db: db, cache: redisCache}
}

// Revoke appends the JTI to the ledger. Revoking an already-revoked
// JTI is a no-op; logout must be safely repeatable.
func (s *BlacklistService) Revoke(ctx context.Context, jti, tokenType string, userID uint) error {
	entry := model.RevokedToken{
		JTI:       jti,
		TokenType: tokenType,
		UserID:    userID,
	}

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "jti"}}, DoNothing: true}).
		Create(&entry).
		Error
	if err != nil {
		return err
	}

	s.cacheRevoked(ctx, jti)

	return nil
}

// IsRevoked reports whether the JTI is present in the ledger.
func (s *BlacklistService) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if s.cache != nil {
		exists, err := s.cache.Exists(ctx, revokedCacheKeyPrefix+jti)
		if err == nil && exists {
			return true, nil
		}
		// Cache miss or cache failure falls through to the database.
	}

	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.RevokedToken{}).
		Where("jti = ?", jti).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}

	if count > 0 {
		s.cacheRevoked(ctx, jti)
		return true, nil
	}

	return false, nil
}

// cacheRevoked marks the JTI revoked in the cache. Only positive
// entries are cached: a revocation never reverts, so a stale positive
// cannot occur, while negative caching could mask a fresh logout.
func (s *BlacklistService) cacheRevoked(ctx context.Context, jti string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, revokedCacheKeyPrefix+jti, "1", revokedCacheTTL); err != nil {
		log.Printf("blacklist cache write failed for jti %s: %v", jti, err)
	}
}

// CountRevoked returns the number of entries in the ledger.
func (s *BlacklistService) CountRevoked(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.RevokedToken{}).
		Count(&count).
		Error
	return count, err
}
