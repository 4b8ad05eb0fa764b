package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/Aru0077/elife-service/config"
	"github.com/Aru0077/elife-service/pkg/unitel"
	"github.com/redis/go-redis/v9"
)

// CatalogStorage 资费/账单缓存
// 浏览接口和下单共用，保证同一 TTL 窗口内价格一致
type CatalogStorage struct {
	redis *redis.Client
	cfg   *config.UnitelConfig
}

var _ unitel.CatalogStore = (*CatalogStorage)(nil)

func NewCatalogStorage(rds *redis.Client, cfg *config.Config) *CatalogStorage {
	return &CatalogStorage{redis: rds, cfg: cfg.Unitel}
}

func (s *CatalogStorage) key(kind, openid, msisdn string) string {
	return fmt.Sprintf("unitel:%s:%s:%s", kind, openid, msisdn)
}

func (s *CatalogStorage) Get(ctx context.Context, kind, openid, msisdn string) ([]byte, error) {
	val, err := s.redis.Get(ctx, s.key(kind, openid, msisdn)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return val, err
}

func (s *CatalogStorage) Set(ctx context.Context, kind, openid, msisdn string, payload []byte) error {
	return s.redis.Set(ctx, s.key(kind, openid, msisdn), payload, s.cfg.CacheTTL()).Err()
}
