package redis

import (
	"github.com/redis/go-redis/v9"

	"github.com/quickcart-grocery/api/pkg/global"
)

func RedisClient() *redis.Client {
	cfg := global.GetConfig()
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       0,
		Protocol: 2,
	})
}
