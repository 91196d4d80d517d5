package redis

import (
	"context"
	"fmt"

	redisv9 "github.com/redis/go-redis/v9"
)

// Connect opens a client for addr and pings it so an unreachable server
// is reported at startup rather than on the first lookup.
func Connect(ctx context.Context, addr string) (*redisv9.Client, error) {
	client := redisv9.NewClient(&redisv9.Options{
		Addr: addr,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}
