package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"eclinic/models"
	"eclinic/utils"

	"github.com/go-redis/redis/v8"
)

// AvailabilityCache holds serialized availability summaries keyed by doctor.
//
// Every Invalidate advances the doctor's generation. A reader takes the generation
// before loading the summary from the store and hands it to Set, which drops the write
// when an invalidation happened in between.
type AvailabilityCache interface {
	// Get reports false when the doctor's summary is not cached.
	Get(ctx context.Context, doctorID string) (*models.AvailabilitySummary, bool, error)
	Generation(ctx context.Context, doctorID string) (int64, error)
	// Set stores summary only while the doctor's generation still equals generation.
	Set(ctx context.Context, summary *models.AvailabilitySummary, generation int64) error
	Invalidate(ctx context.Context, doctorID string) error
}

type RedisAvailabilityCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisAvailabilityCache(client *redis.Client, ttl time.Duration) *RedisAvailabilityCache {
	return &RedisAvailabilityCache{client: client, ttl: ttl}
}

func availabilityKey(doctorID string) string {
	return utils.AvailabilityCachePrefix + doctorID
}

func generationKey(doctorID string) string {
	return utils.AvailabilityGenerationPrefix + doctorID
}

func (c *RedisAvailabilityCache) Get(ctx context.Context, doctorID string) (*models.AvailabilitySummary, bool, error) {
	raw, err := c.client.Get(ctx, availabilityKey(doctorID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("availability cache read: %w", err)
	}
	var summary models.AvailabilitySummary
	if err := json.Unmarshal(raw, &summary); err != nil {
		// Corrupt entries are treated as misses and dropped.
		_ = c.client.Del(ctx, availabilityKey(doctorID)).Err()
		return nil, false, nil
	}
	if summary.Availability == nil {
		summary.Availability = map[string][]string{}
	}
	return &summary, true, nil
}

func (c *RedisAvailabilityCache) Generation(ctx context.Context, doctorID string) (int64, error) {
	return readGeneration(ctx, c.client, doctorID)
}

func readGeneration(ctx context.Context, cmd redis.Cmdable, doctorID string) (int64, error) {
	gen, err := cmd.Get(ctx, generationKey(doctorID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("availability cache generation: %w", err)
	}
	return gen, nil
}

func (c *RedisAvailabilityCache) Set(ctx context.Context, summary *models.AvailabilitySummary, generation int64) error {
	raw, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	genKey := generationKey(summary.DoctorID)
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := readGeneration(ctx, tx, summary.DoctorID)
		if err != nil {
			return err
		}
		if current != generation {
			return redis.TxFailedErr
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, availabilityKey(summary.DoctorID), raw, c.ttl)
			return nil
		})
		return err
	}, genKey)
	if errors.Is(err, redis.TxFailedErr) {
		// Invalidated while the summary was being loaded; the next read refills.
		return nil
	}
	if err != nil {
		return fmt.Errorf("availability cache write: %w", err)
	}
	return nil
}

func (c *RedisAvailabilityCache) Invalidate(ctx context.Context, doctorID string) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, generationKey(doctorID))
		pipe.Del(ctx, availabilityKey(doctorID))
		return nil
	})
	if err != nil {
		return fmt.Errorf("availability cache invalidate: %w", err)
	}
	return nil
}

// NoopAvailabilityCache never stores anything; every Get is a miss.
type NoopAvailabilityCache struct{}

func (NoopAvailabilityCache) Get(context.Context, string) (*models.AvailabilitySummary, bool, error) {
	return nil, false, nil
}

func (NoopAvailabilityCache) Generation(context.Context, string) (int64, error) { return 0, nil }

func (NoopAvailabilityCache) Set(context.Context, *models.AvailabilitySummary, int64) error {
	return nil
}

func (NoopAvailabilityCache) Invalidate(context.Context, string) error { return nil }
