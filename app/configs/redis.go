package configs

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

func OpenRedis() *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     LoadENV.RedisAddr,
		Password: LoadENV.RedisPassword,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Warning: Redis not reachable at %s: %v. Product listing cache disabled.", LoadENV.RedisAddr, err)
	} else {
		log.Println("✅ Redis connected.")
	}

	return client
}
