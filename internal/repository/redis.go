package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"playeasy/internal/config"
	"playeasy/internal/models"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient создает новый клиент Redis на основе конфигурации
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	options := &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	}

	return redis.NewClient(options)
}

// RedisDraftRepository stores wizard drafts in Redis with a TTL, so an
// abandoned flow eventually expires on its own.
type RedisDraftRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisDraftRepository(client *redis.Client, ttl time.Duration) *RedisDraftRepository {
	return &RedisDraftRepository{client: client, ttl: ttl}
}

func (r *RedisDraftRepository) GetDraft(ctx context.Context, userID string) (*models.BookingDraft, error) {
	if r.client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}
	key := fmt.Sprintf("booking_draft:%s", userID)
	val, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get draft from redis: %w", err)
	}

	var draft models.BookingDraft
	if err := json.Unmarshal([]byte(val), &draft); err != nil {
		return nil, fmt.Errorf("failed to unmarshal draft: %w", err)
	}

	return &draft, nil
}

func (r *RedisDraftRepository) SetDraft(ctx context.Context, userID string, draft *models.BookingDraft) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	key := fmt.Sprintf("booking_draft:%s", userID)
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}

	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set draft in redis: %w", err)
	}

	return nil
}

func (r *RedisDraftRepository) ClearDraft(ctx context.Context, userID string) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	key := fmt.Sprintf("booking_draft:%s", userID)
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete draft from redis: %w", err)
	}
	return nil
}

// RedisPersistence caches each user's booking list as one JSON value.
type RedisPersistence struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisPersistence(client *redis.Client, ttl time.Duration) *RedisPersistence {
	return &RedisPersistence{client: client, ttl: ttl}
}

func (p *RedisPersistence) LoadBookings(ctx context.Context, userID string) ([]models.Booking, error) {
	if p.client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}
	key := fmt.Sprintf("bookings:%s", userID)
	val, err := p.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bookings from redis: %w", err)
	}

	var bookings []models.Booking
	if err := json.Unmarshal([]byte(val), &bookings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal bookings: %w", err)
	}
	return bookings, nil
}

func (p *RedisPersistence) SaveBookings(ctx context.Context, userID string, bookings []models.Booking) error {
	if p.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	key := fmt.Sprintf("bookings:%s", userID)
	data, err := json.Marshal(bookings)
	if err != nil {
		return fmt.Errorf("failed to marshal bookings: %w", err)
	}

	if err := p.client.Set(ctx, key, data, p.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set bookings in redis: %w", err)
	}
	return nil
}

// Ping проверяет соединение с Redis
func Ping(ctx context.Context, client *redis.Client) error {
	_, err := client.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}

// Close закрывает соединение с Redis
func Close(client *redis.Client) error {
	if client != nil {
		return client.Close()
	}
	return nil
}
