package api

import (
	"context"

	"github.com/travigo/poikkeusinfo/pkg/redis_client"
)

func RedisPing(ctx context.Context) error {
	return redis_client.Client.Ping(ctx).Err()
}
