// Package cache 以 redis sorted set 快取商品列表，score 為商品 ID
package cache

import (
	"Market/models"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/redis/go-redis/v9"
)

const productsKey = "products"

// 快取內沒有資料，需要從資料庫重建
var ErrMiss = errors.New("cache: products not cached")

type ProductList interface {
	Page(ctx context.Context, offset, limit int) ([]models.ProductSummary, int64, error)
	Fill(ctx context.Context, products []models.ProductSummary) error
	Invalidate(ctx context.Context) error
}

type RedisProductList struct {
	rdb *redis.Client
	key string
}

func NewRedisProductList(rdb *redis.Client) *RedisProductList {
	return &RedisProductList{rdb: rdb, key: productsKey}
}

// 依 ID 由大到小分頁讀取
func (l *RedisProductList) Page(ctx context.Context, offset, limit int) ([]models.ProductSummary, int64, error) {
	total, err := l.rdb.ZCard(ctx, l.key).Result()
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return nil, 0, ErrMiss
	}

	members, err := l.rdb.ZRevRange(ctx, l.key, int64(offset), int64(offset+limit-1)).Result()
	if err != nil {
		return nil, 0, err
	}

	products := make([]models.ProductSummary, 0, len(members))
	for _, member := range members {
		var product models.ProductSummary
		if err := json.Unmarshal([]byte(member), &product); err != nil {
			return nil, 0, fmt.Errorf("decode cached product: %w", err)
		}
		products = append(products, product)
	}
	return products, total, nil
}

func (l *RedisProductList) Fill(ctx context.Context, products []models.ProductSummary) error {
	members := make([]redis.Z, 0, len(products))
	for _, product := range products {
		productJSON, err := json.Marshal(product)
		if err != nil {
			return fmt.Errorf("encode product %d: %w", product.ID, err)
		}
		members = append(members, redis.Z{
			Score:  float64(product.ID),
			Member: productJSON,
		})
	}

	_, err := l.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, l.key)
		if len(members) > 0 {
			pipe.ZAdd(ctx, l.key, members...)
		}
		return nil
	})
	return err
}

func (l *RedisProductList) Invalidate(ctx context.Context) error {
	return l.rdb.Del(ctx, l.key).Err()
}
