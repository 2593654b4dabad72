package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/qiwen/vendormall/internal/infrastructure/config"
)

// NewClient 创建Redis客户端
// 设计说明：
// 1. 连接池被会话黑名单和分类树/面包屑缓存共用,
//    MinIdleConns预热给分类树这类高频cache-aside读, 避免冷连接抖动
// 2. ReadTimeout/WriteTimeout收紧: 缓存层超时后直接回源MySQL,
//    不能让Redis故障拖垮整条读链路
// 3. 启动时Ping探活, 连不上直接拒绝启动
func NewClient(cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Addr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})

	// 测试连接
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("Redis连接失败: %w", err)
	}

	fmt.Println("✓ Redis连接成功")
	return client, nil
}
