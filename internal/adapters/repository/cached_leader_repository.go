package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/comitanigiacomo/circle-leader-engine/internal/core/domain"
	"github.com/redis/go-redis/v9"
)

var _ domain.LeaderRepository = (*CachedLeaderRepository)(nil)

const leaderListTTL = 30 * time.Minute

// CachedLeaderRepository caches filtered leader lists per owner in Redis.
// Every write drops all cached lists of the affected owner.
type CachedLeaderRepository struct {
	next  domain.LeaderRepository
	cache *redis.Client
}

func NewCachedLeaderRepository(next domain.LeaderRepository, cache *redis.Client) *CachedLeaderRepository {
	return &CachedLeaderRepository{
		next:  next,
		cache: cache,
	}
}

func (r *CachedLeaderRepository) ownerPrefix(ownerID string) string {
	return fmt.Sprintf("leaders:%s:", ownerID)
}

func (r *CachedLeaderRepository) cacheKey(ownerID string, filter domain.LeaderFilter) string {
	return r.ownerPrefix(ownerID) + filter.Signature()
}

func (r *CachedLeaderRepository) invalidate(ctx context.Context, ownerID string) {
	iter := r.cache.Scan(ctx, 0, r.ownerPrefix(ownerID)+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		log.Printf("[CACHE] Failed to scan keys for owner %s: %v", ownerID, err)
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := r.cache.Del(ctx, keys...).Err(); err != nil {
		log.Printf("[CACHE] Failed to invalidate for owner %s: %v", ownerID, err)
	}
}

func (r *CachedLeaderRepository) List(ctx context.Context, ownerID string, filter domain.LeaderFilter) ([]*domain.CircleLeader, error) {
	key := r.cacheKey(ownerID, filter)

	val, err := r.cache.Get(ctx, key).Result()
	if err == nil {
		var leaders []*domain.CircleLeader
		if err := json.Unmarshal([]byte(val), &leaders); err == nil {
			return leaders, nil
		}

		log.Printf("[CACHE] Corrupted data for owner %s, cleaning up key", ownerID)
		r.cache.Del(ctx, key)
	} else if err != redis.Nil {
		log.Printf("[CACHE] Redis read error: %v", err)
	}

	leaders, err := r.next.List(ctx, ownerID, filter)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(leaders); err == nil {
		if setErr := r.cache.Set(ctx, key, data, leaderListTTL).Err(); setErr != nil {
			log.Printf("[CACHE] Redis set error: %v", setErr)
		}
	}

	return leaders, nil
}

func (r *CachedLeaderRepository) GetByID(ctx context.Context, id string) (*domain.CircleLeader, error) {
	return r.next.GetByID(ctx, id)
}

// ListFollowUpsDue depends on the day, so it always reads through.
func (r *CachedLeaderRepository) ListFollowUpsDue(ctx context.Context, ownerID string, day time.Time) ([]*domain.CircleLeader, error) {
	return r.next.ListFollowUpsDue(ctx, ownerID, day)
}

func (r *CachedLeaderRepository) Create(ctx context.Context, leader *domain.CircleLeader) error {
	if err := r.next.Create(ctx, leader); err != nil {
		return err
	}
	r.invalidate(ctx, leader.OwnerID)
	return nil
}

func (r *CachedLeaderRepository) Update(ctx context.Context, leader *domain.CircleLeader) error {
	if err := r.next.Update(ctx, leader); err != nil {
		return err
	}
	r.invalidate(ctx, leader.OwnerID)
	return nil
}

func (r *CachedLeaderRepository) Delete(ctx context.Context, id string) error {
	leader, err := r.next.GetByID(ctx, id)
	if err == nil && leader != nil {
		defer r.invalidate(ctx, leader.OwnerID)
	}

	return r.next.Delete(ctx, id)
}
