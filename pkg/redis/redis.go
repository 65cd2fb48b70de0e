package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/ikkim/storerating-backend/config"
	"github.com/ikkim/storerating-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "revoked_token:"

// Connect opens a Redis client and verifies it with a ping.
func Connect(cfg *config.RedisConfig) (*redis.Client, error) {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
		"db":   cfg.DB,
	})

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"host": cfg.Host,
			"port": cfg.Port,
		})
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully", nil)
	return client, nil
}

// TokenStore records revoked token IDs until they would have expired.
type TokenStore struct {
	client *redis.Client
}

func NewTokenStore(client *redis.Client) *TokenStore {
	return &TokenStore{client: client}
}

// Revoke blacklists a token ID for ttl.
func (s *TokenStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	logger.Debug("Adding token to blacklist", map[string]interface{}{
		"expiry": ttl.String(),
	})

	if err := s.client.Set(ctx, revokedKeyPrefix+jti, "revoked", ttl).Err(); err != nil {
		logger.Error("Failed to blacklist token", err, nil)
		return err
	}
	return nil
}

// IsRevoked checks if a token ID is in the blacklist
func (s *TokenStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	val, err := s.client.Get(ctx, revokedKeyPrefix+jti).Result()
	if err == redis.Nil {
		// Key does not exist - token is not blacklisted
		return false, nil
	}
	if err != nil {
		logger.Error("Failed to check token blacklist", err, nil)
		return false, err
	}
	return val == "revoked", nil
}

// Close closes the Redis connection
func (s *TokenStore) Close() error {
	if s.client != nil {
		logger.Info("Closing Redis connection", nil)
		return s.client.Close()
	}
	return nil
}
