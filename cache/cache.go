// Package cache keeps computed standings tables close to the API so repeated
// reads of an unchanged tournament skip the aggregation.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/bp-tabulator/models"
	"github.com/redis/go-redis/v9"
)

type StandingsCache interface {
	// Get returns ok=false on a miss.
	Get(ctx context.Context, tournamentID int) (list []models.Standing, ok bool, err error)
	Set(ctx context.Context, tournamentID int, list []models.Standing) error
	Invalidate(ctx context.Context, tournamentID int) error
}

func standingsKey(tournamentID int) string {
	return fmt.Sprintf("standings:%d", tournamentID)
}

type redisStandingsCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewRedisStandingsCache(client redis.UniversalClient, ttl time.Duration) StandingsCache {
	return &redisStandingsCache{client: client, ttl: ttl}
}

// NewRedisClient parses a redis:// URL and verifies the server answers.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

func (c *redisStandingsCache) Get(ctx context.Context, tournamentID int) ([]models.Standing, bool, error) {
	data, err := c.client.Get(ctx, standingsKey(tournamentID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get standings %d: %w", tournamentID, err)
	}

	var list []models.Standing
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, false, fmt.Errorf("decode cached standings %d: %w", tournamentID, err)
	}
	return list, true, nil
}

func (c *redisStandingsCache) Set(ctx context.Context, tournamentID int, list []models.Standing) error {
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode standings %d: %w", tournamentID, err)
	}
	if err := c.client.Set(ctx, standingsKey(tournamentID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set standings %d: %w", tournamentID, err)
	}
	return nil
}

func (c *redisStandingsCache) Invalidate(ctx context.Context, tournamentID int) error {
	if err := c.client.Del(ctx, standingsKey(tournamentID)).Err(); err != nil {
		return fmt.Errorf("redis del standings %d: %w", tournamentID, err)
	}
	return nil
}

type noopStandingsCache struct{}

// NewNoopStandingsCache is used when no redis is configured. Every Get misses.
func NewNoopStandingsCache() StandingsCache {
	return noopStandingsCache{}
}

func (noopStandingsCache) Get(context.Context, int) ([]models.Standing, bool, error) {
	return nil, false, nil
}

func (noopStandingsCache) Set(context.Context, int, []models.Standing) error { return nil }

func (noopStandingsCache) Invalidate(context.Context, int) error { return nil }
