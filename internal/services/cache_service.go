package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	CacheKeyActiveCampaigns    = "cache:campaigns:active"
	CacheKeyPublicReports      = "cache:reports:public"
	CacheKeyDonationStatistics = "cache:donations:statistics"

	cacheKeyRecentDonationsPrefix = "cache:donations:recent"

	cacheTTL = 60 * time.Second
)

// RecentDonationsKey is per limit so a short feed never answers for a long one.
func RecentDonationsKey(limit int) string {
	return fmt.Sprintf("%s:%d", cacheKeyRecentDonationsPrefix, limit)
}

// CacheService fronts the public read endpoints with redis. It is strictly
// best effort: a nil client or a down redis degrades to database reads.
type CacheService struct {
	client *redis.Client
}

func NewCacheService(client *redis.Client) *CacheService {
	return &CacheService{client: client}
}

func (s *CacheService) Get(ctx context.Context, key string, dest any) bool {
	if s == nil || s.client == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, 200*time.Millisecond)
	defer cancel()

	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		log.Printf("failed to decode cache entry %s: %v", key, err)
		return false
	}
	return true
}

func (s *CacheService) Set(ctx context.Context, key string, value any) {
	if s == nil || s.client == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		log.Printf("failed to encode cache entry %s: %v", key, err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 200*time.Millisecond)
	defer cancel()

	if err := s.client.Set(ctx, key, data, cacheTTL).Err(); err != nil {
		log.Printf("failed to store cache entry %s: %v", key, err)
	}
}

func (s *CacheService) invalidate(ctx context.Context, keys ...string) {
	if s == nil || s.client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 200*time.Millisecond)
	defer cancel()

	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		log.Printf("failed to invalidate cache keys %v: %v", keys, err)
	}
}

func (s *CacheService) invalidateByPrefix(ctx context.Context, prefix string) {
	if s == nil || s.client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 200*time.Millisecond)
	defer cancel()

	keys := []string{}
	iter := s.client.Scan(ctx, 0, prefix+":*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		log.Printf("failed to scan cache keys %s: %v", prefix, err)
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		log.Printf("failed to invalidate cache keys %v: %v", keys, err)
	}
}

// A new donation moves campaign totals, the public feed and the statistics.
func (s *CacheService) InvalidateOnDonation(ctx context.Context) {
	s.invalidate(ctx, CacheKeyActiveCampaigns, CacheKeyDonationStatistics)
	s.invalidateByPrefix(ctx, cacheKeyRecentDonationsPrefix)
}

func (s *CacheService) InvalidateOnCampaign(ctx context.Context) {
	s.invalidate(ctx, CacheKeyActiveCampaigns)
}

func (s *CacheService) InvalidateOnReport(ctx context.Context) {
	s.invalidate(ctx, CacheKeyPublicReports)
}
