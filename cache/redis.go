package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// InitRedis initializes the Redis client
func InitRedis(config RedisConfig) error {
	redisClient = redis.NewClient(&redis.Options{
		Addr:     config.Host + ":" + config.Port,
		Password: config.Password,
		DB:       config.DB,
	})

	// Test the connection
	ctx := context.Background()
	_, err := redisClient.Ping(ctx).Result()
	return err
}

// GetRedisClient returns the Redis client instance
func GetRedisClient() *redis.Client {
	return redisClient
}

// SetCache stores data in Redis cache
func SetCache(ctx context.Context, key string, data interface{}, expiration time.Duration) error {
	dataJSON, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return redisClient.Set(ctx, key, dataJSON, expiration).Err()
}

// GetCache retrieves data from Redis cache
func GetCache(ctx context.Context, key string, dest interface{}) error {
	val, err := redisClient.Get(ctx, key).Result()
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(val), dest)
}

// DeleteCache removes data from Redis cache
func DeleteCache(ctx context.Context, key string) error {
	return redisClient.Del(ctx, key).Err()
}

// DeleteByPattern deletes all keys matching a pattern
func DeleteByPattern(ctx context.Context, pattern string) error {
	iter := redisClient.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := redisClient.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

const (
	// Cache key patterns
	EmployeeListPattern   = "employees:*"
	EmployeeDetailPattern = "employee:%s"
	RefreshTokenPattern   = "refresh_token:%s"
	ResetTokenPattern     = "reset_token:%s"
)

// StoreRefreshToken records a refresh token for a user until it expires or
// is revoked
func StoreRefreshToken(ctx context.Context, tok, userID string, ttl time.Duration) error {
	return redisClient.Set(ctx, fmt.Sprintf(RefreshTokenPattern, tok), userID, ttl).Err()
}

// RevokeRefreshToken removes a refresh token. Revoking a token that no
// longer exists is not an error.
func RevokeRefreshToken(ctx context.Context, tok string) error {
	return redisClient.Del(ctx, fmt.Sprintf(RefreshTokenPattern, tok)).Err()
}

// StoreResetToken records a password reset token for a user
func StoreResetToken(ctx context.Context, tok, userID string, ttl time.Duration) error {
	return redisClient.Set(ctx, fmt.Sprintf(ResetTokenPattern, tok), userID, ttl).Err()
}

// ConsumeResetToken atomically reads and deletes a reset token, returning
// the user it was issued for. A missing or expired token returns redis.Nil.
func ConsumeResetToken(ctx context.Context, tok string) (string, error) {
	return redisClient.GetDel(ctx, fmt.Sprintf(ResetTokenPattern, tok)).Result()
}
