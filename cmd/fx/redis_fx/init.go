package redis_fx

import (
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"captionly/internal/cache"
	"captionly/internal/infra"
)

var Module = fx.Provide(
	provideRedis, provideOtpStore)

func provideRedis() *redis.Client {
	return infra.InitRedis()
}

func provideOtpStore(client *redis.Client) cache.OtpStore {
	return cache.NewOtpStore(client)
}
