package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client - тонкая обертка над redis.Client. Наружу отдается только
// то, что нужно кэширующим декораторам: Get/Set/Del
type Client struct {
	client *redis.Client
}

// Config - параметры подключения к Redis
type Config struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// NewClient подключается к Redis и проверяет соединение ping-ом.
// Таймауты короткие: кэш не должен тормозить фиксацию проездов
func NewClient(cfg Config) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{client: rdb}, nil
}

// Get возвращает значение по ключу; redis.Nil - промах кэша
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	return c.client.Get(ctx, key).Result()
}

// Set записывает значение с TTL
func (c *Client) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

// Del удаляет ключи
func (c *Client) Del(ctx context.Context, keys ...string) error {
	return c.client.Del(ctx, keys...).Err()
}

// Close закрывает подключение
func (c *Client) Close() error {
	return c.client.Close()
}
