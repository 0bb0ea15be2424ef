// Package redis caches public read responses. A missing or unreachable Redis
// disables caching instead of failing startup.
package redis

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

type Options struct {
	Addr     string
	Password string
	DB       int
}

// NewClient returns nil when Addr is empty or the server does not answer a ping.
func NewClient(ctx context.Context, opts Options) *goredis.Client {
	if opts.Addr == "" {
		return nil
	}
	client := goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil
	}
	return client
}
