package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the key only while it still holds our token, so an
// expired lock taken over by another instance is left alone.
const releaseScript = `if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`

// Redis is a lock shared by every instance pointed at the same Redis.
type Redis struct {
	Client redis.Cmdable
	Key    string
	TTL    time.Duration
	// NewToken defaults to a random UUID.
	NewToken func() string
}

func NewRedis(client redis.Cmdable, key string, ttl time.Duration) *Redis {
	return &Redis{Client: client, Key: key, TTL: ttl}
}

func (r *Redis) Acquire(ctx context.Context) (Release, error) {
	token := r.token()
	ok, err := r.Client.SetNX(ctx, r.Key, token, r.TTL).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire %s: %w", r.Key, err)
	}
	if !ok {
		return nil, ErrHeld
	}
	return func(ctx context.Context) error {
		if err := r.Client.Eval(ctx, releaseScript, []string{r.Key}, token).Err(); err != nil {
			return fmt.Errorf("release %s: %w", r.Key, err)
		}
		return nil
	}, nil
}

func (r *Redis) token() string {
	if r.NewToken != nil {
		return r.NewToken()
	}
	return uuid.NewString()
}

// Connect parses a redis:// or rediss:// URL and pings the server.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}
