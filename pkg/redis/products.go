package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/quickcart-grocery/api/pkg/models"
)

const productCacheTTL = 24 * time.Hour

func productKey(id string) string {
	return fmt.Sprintf("product:%s", id)
}

// GetProductFromCache returns a cached product by hex id. A redis.Nil error
// means cache miss; callers fall through to MongoDB.
func GetProductFromCache(ctx context.Context, id string) (*models.Product, error) {
	client := RedisClient()
	defer client.Close()

	productJSON, err := client.Get(ctx, productKey(id)).Result()
	if err != nil {
		return nil, err
	}

	var product models.Product
	if err := json.Unmarshal([]byte(productJSON), &product); err != nil {
		return nil, fmt.Errorf("failed to unmarshal product: %w", err)
	}

	return &product, nil
}

// CacheProduct stores a product and refreshes the category listing key.
func CacheProduct(ctx context.Context, product *models.Product) error {
	client := RedisClient()
	defer client.Close()

	productJSON, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("failed to marshal product %s: %w", product.ID.Hex(), err)
	}

	pipe := client.TxPipeline()
	pipe.Set(ctx, productKey(product.ID.Hex()), productJSON, productCacheTTL)

	categoryKey := fmt.Sprintf("category:%s", product.Category)
	pipe.LPush(ctx, categoryKey, product.ID.Hex())
	pipe.Expire(ctx, categoryKey, productCacheTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to cache product %s: %w", product.ID.Hex(), err)
	}
	return nil
}

// RemoveProductFromCache drops a product entry and its category reference.
func RemoveProductFromCache(ctx context.Context, product *models.Product) error {
	client := RedisClient()
	defer client.Close()

	pipe := client.TxPipeline()
	pipe.Del(ctx, productKey(product.ID.Hex()))

	categoryKey := fmt.Sprintf("category:%s", product.Category)
	pipe.LRem(ctx, categoryKey, 0, product.ID.Hex())

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to remove product from cache: %w", err)
	}
	return nil
}
