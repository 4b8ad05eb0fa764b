package cache

import (
	"context"
	"errors"

	"github.com/Aru0077/elife-service/config"
	"github.com/Aru0077/elife-service/pkg/unitel"
	"github.com/redis/go-redis/v9"
)

const tokenKey = "unitel:access_token"

// TokenStorage Unitel Token 的 Redis 缓存
// 不设短 TTL，一小时兜底只为限制陈旧度，失效依赖 401 被动刷新
type TokenStorage struct {
	redis *redis.Client
	cfg   *config.UnitelConfig
}

var _ unitel.TokenStore = (*TokenStorage)(nil)

func NewTokenStorage(rds *redis.Client, cfg *config.Config) *TokenStorage {
	return &TokenStorage{redis: rds, cfg: cfg.Unitel}
}

func (s *TokenStorage) Get(ctx context.Context) (string, error) {
	val, err := s.redis.Get(ctx, tokenKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return val, err
}

func (s *TokenStorage) Set(ctx context.Context, token string) error {
	return s.redis.Set(ctx, tokenKey, token, s.cfg.TokenTTL()).Err()
}

func (s *TokenStorage) Clear(ctx context.Context) error {
	return s.redis.Del(ctx, tokenKey).Err()
}
