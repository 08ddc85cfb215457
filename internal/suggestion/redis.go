package suggestion

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/salonspa/backend/internal/models"
)

// RedisStore keeps suggestions in a Redis list.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore returns a RedisStore using the list at key. The ID sequence
// is kept at key:seq.
func NewRedisStore(client *redis.Client, key string) *RedisStore {
	return &RedisStore{client: client, key: key}
}

// ConnectRedis creates a client for a redis:// URL and checks the connection.
func ConnectRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return client, nil
}

func (s *RedisStore) Add(ctx context.Context, message string) (models.Suggestion, error) {
	message, err := normalize(message)
	if err != nil {
		return models.Suggestion{}, err
	}

	id, err := s.client.Incr(ctx, s.key+":seq").Result()
	if err != nil {
		return models.Suggestion{}, err
	}

	suggestion := models.Suggestion{ID: uint(id), Message: message, CreatedAt: time.Now().UTC()}
	data, err := json.Marshal(suggestion)
	if err != nil {
		return models.Suggestion{}, err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, s.key, data)
		pipe.LTrim(ctx, s.key, 0, Capacity-1)
		return nil
	})
	if err != nil {
		return models.Suggestion{}, err
	}

	return suggestion, nil
}

func (s *RedisStore) List(ctx context.Context) ([]models.Suggestion, error) {
	values, err := s.client.LRange(ctx, s.key, 0, Capacity-1).Result()
	if err != nil {
		return nil, err
	}

	suggestions := make([]models.Suggestion, 0, len(values))
	for _, v := range values {
		var suggestion models.Suggestion
		if err := json.Unmarshal([]byte(v), &suggestion); err != nil {
			return nil, err
		}
		suggestions = append(suggestions, suggestion)
	}

	return suggestions, nil
}
