package redis

import (
	"context"
	"time"
)

// Config represents Redis configuration
type Config struct {
	Host         string        // Redis host
	Port         int           // Redis port
	Password     string        // Redis password
	DB           int           // Redis database
	PoolSize     int           // Connection pool size
	MinIdleConns int           // Minimum number of idle connections
	DialTimeout  time.Duration // Dial timeout
	ReadTimeout  time.Duration // Read timeout
	WriteTimeout time.Duration // Write timeout
	MaxRetries   int           // Maximum number of retries
}

// Client represents a Redis client
type Client interface {
	// Get gets a value from Redis
	Get(ctx context.Context, key string) (string, error)

	// Set sets a value in Redis
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error

	// SetNX sets a value only if the key does not exist; reports whether it was set
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error)

	// Del deletes keys from Redis
	Del(ctx context.Context, keys ...string) error

	// Exists checks if keys exist in Redis
	Exists(ctx context.Context, keys ...string) (bool, error)

	// Expire sets an expiration on a key in Redis
	Expire(ctx context.Context, key string, expiration time.Duration) error

	// Close closes the Redis client
	Close() error

	// Ping checks the Redis connection
	Ping(ctx context.Context) error
}
