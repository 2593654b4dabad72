package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// 缓存Key与TTL
// Key设计: catalog:tree(全量分类树)、catalog:breadcrumbs:{id}(面包屑)
// TTL较短(5分钟): 分类变更低频但要求分钟级可见, 配合写路径主动失效
const (
	keyCategoryTree       = "catalog:tree"
	keyBreadcrumbsPattern = "catalog:breadcrumbs:%d"
	catalogCacheTTL       = 5 * time.Minute
)

// CatalogCache 目录读缓存(cache-aside)
// 设计说明:
// 1. 只缓存高频只读查询(分类树、面包屑), 商品/库存不缓存(一致性要求高)
// 2. 读路径: 未命中返回ErrCacheMiss, 由handler回源后回填
// 3. 写路径: 分类的任何变更调用Invalidate清掉整棵树与相关面包屑
// 4. Redis故障降级为直查数据库, 缓存错误不向上冒泡为业务错误
type CatalogCache struct {
	client *redis.Client
}

// ErrCacheMiss 缓存未命中
var ErrCacheMiss = errors.New("catalog cache miss")

// NewCatalogCache 创建目录缓存
func NewCatalogCache(client *redis.Client) *CatalogCache {
	return &CatalogCache{client: client}
}

// GetTree 读取分类树缓存(JSON原文, 避免二次反序列化)
func (c *CatalogCache) GetTree(ctx context.Context) ([]byte, error) {
	data, err := c.client.Get(ctx, keyCategoryTree).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, err
	}
	return data, nil
}

// SetTree 回填分类树缓存
func (c *CatalogCache) SetTree(ctx context.Context, data []byte) error {
	return c.client.Set(ctx, keyCategoryTree, data, catalogCacheTTL).Err()
}

// GetBreadcrumbs 读取面包屑缓存
func (c *CatalogCache) GetBreadcrumbs(ctx context.Context, categoryID uint) ([]byte, error) {
	key := fmt.Sprintf(keyBreadcrumbsPattern, categoryID)
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, err
	}
	return data, nil
}

// SetBreadcrumbs 回填面包屑缓存
func (c *CatalogCache) SetBreadcrumbs(ctx context.Context, categoryID uint, data []byte) error {
	key := fmt.Sprintf(keyBreadcrumbsPattern, categoryID)
	return c.client.Set(ctx, key, data, catalogCacheTTL).Err()
}

// Invalidate 分类变更后清缓存
// 改名/停用/删除会影响任意深度的后代面包屑, 无法精确定位,
// 用SCAN批量清掉整个面包屑命名空间(分类总量有限, SCAN代价可接受)
func (c *CatalogCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, keyCategoryTree).Err(); err != nil {
		return err
	}

	iter := c.client.Scan(ctx, 0, "catalog:breadcrumbs:*", 100).Iterator()
	keys := make([]string, 0, 32)
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}

	if len(keys) > 0 {
		return c.client.Del(ctx, keys...).Err()
	}
	return nil
}
