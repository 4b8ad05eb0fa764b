package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	callbackKeyPrefix = "wechat:callback:"
	callbackTTL       = 24 * time.Hour
)

// CallbackStorage 支付回调防重标记
// 只是第一层优化，正确性由订单条件更新和充值日志唯一约束兜底
type CallbackStorage struct {
	redis *redis.Client
}

func NewCallbackStorage(rds *redis.Client) *CallbackStorage {
	return &CallbackStorage{redis: rds}
}

// IsProcessed 回调是否已处理过
func (s *CallbackStorage) IsProcessed(ctx context.Context, transactionID string) (bool, error) {
	n, err := s.redis.Exists(ctx, callbackKeyPrefix+transactionID).Result()
	return n > 0, err
}

// MarkProcessed 标记回调已处理，24小时过期
func (s *CallbackStorage) MarkProcessed(ctx context.Context, transactionID string) error {
	return s.redis.Set(ctx, callbackKeyPrefix+transactionID, "1", callbackTTL).Err()
}

// Clear 删除防重标记，任务入队失败时回滚，让微信重投时能重新处理
func (s *CallbackStorage) Clear(ctx context.Context, transactionID string) error {
	return s.redis.Del(ctx, callbackKeyPrefix+transactionID).Err()
}
