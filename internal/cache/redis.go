package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Karpenko88/carbooking/config"
	"github.com/Karpenko88/carbooking/internal/domain"
	"github.com/Karpenko88/carbooking/internal/schedule"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client       *redis.Client
	carsTTL      time.Duration
	occupancyTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, carsTTL, occupancyTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:       redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		carsTTL:      carsTTL,
		occupancyTTL: occupancyTTL,
	}
}

func (c *RedisCache) GetCars(ctx context.Context) ([]domain.Car, error) {
	data, err := c.client.Get(ctx, carsKey()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var cars []domain.Car
	if err := json.Unmarshal(data, &cars); err != nil {
		return nil, err
	}
	return cars, nil
}

func (c *RedisCache) SetCars(ctx context.Context, cars []domain.Car) error {
	payload, err := json.Marshal(cars)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, carsKey(), payload, c.carsTTL).Err()
}

// GetOccupancy returns a cached occupancy snapshot for one car and query
// window, or nil on a miss.
func (c *RedisCache) GetOccupancy(ctx context.Context, carID int64, from, to time.Time) ([]schedule.OccupancyInterval, error) {
	data, err := c.client.Get(ctx, occupancyKey(carID, from, to)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var intervals []schedule.OccupancyInterval
	if err := json.Unmarshal(data, &intervals); err != nil {
		return nil, err
	}
	return intervals, nil
}

// SetOccupancy stores a snapshot and registers its key in the per-car key
// set so InvalidateCar can drop every window at once.
func (c *RedisCache) SetOccupancy(ctx context.Context, carID int64, from, to time.Time, intervals []schedule.OccupancyInterval) error {
	payload, err := json.Marshal(intervals)
	if err != nil {
		return err
	}
	key := occupancyKey(carID, from, to)
	if err := c.client.Set(ctx, key, payload, c.occupancyTTL).Err(); err != nil {
		return err
	}
	pipe := c.client.Pipeline()
	pipe.SAdd(ctx, occupancyKeySet(carID), key)
	pipe.Expire(ctx, occupancyKeySet(carID), c.occupancyTTL)
	_, err = pipe.Exec(ctx)
	return err
}

// InvalidateCar drops every cached occupancy snapshot for a car. Called by
// whichever service performs a reservation or maintenance write for that car.
func (c *RedisCache) InvalidateCar(ctx context.Context, carID int64) error {
	keys, err := c.client.SMembers(ctx, occupancyKeySet(carID)).Result()
	if err != nil && err != redis.Nil {
		return err
	}
	keys = append(keys, occupancyKeySet(carID))
	return c.client.Del(ctx, keys...).Err()
}

func carsKey() string {
	return "cache:cars"
}

func occupancyKey(carID int64, from, to time.Time) string {
	return fmt.Sprintf("occupancy:car:%d:%s:%s", carID, from.Format("2006-01-02"), to.Format("2006-01-02"))
}

func occupancyKeySet(carID int64) string {
	return fmt.Sprintf("occupancy:car:%d:keys", carID)
}
