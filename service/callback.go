package service

import (
	"context"
	"time"

	"github.com/Aru0077/elife-service/dao"
	"github.com/Aru0077/elife-service/models"
	"github.com/Aru0077/elife-service/pkg/log"
	"github.com/Aru0077/elife-service/types"
	"go.uber.org/zap"
)

var _ IPaymentCallbackService = (*PaymentCallbackService)(nil)

// CallbackMarker 回调防重标记，第一层去重
type CallbackMarker interface {
	IsProcessed(ctx context.Context, transactionID string) (bool, error)
	MarkProcessed(ctx context.Context, transactionID string) error
	Clear(ctx context.Context, transactionID string) error
}

// RechargeEnqueuer 充值任务入队
type RechargeEnqueuer interface {
	EnqueueRechargeJob(ctx context.Context, job *types.RechargeJob) error
}

type IPaymentCallbackService interface {
	// HandlePaymentSuccess 处理支付成功回调
	// 微信至少投递一次，重复回调必须无副作用
	HandlePaymentSuccess(ctx context.Context, transactionID, orderNo string, paidAt time.Time) error
}

type PaymentCallbackService struct {
	Orders dao.OrderRepository
	Marker CallbackMarker
	Queue  RechargeEnqueuer
}

// HandlePaymentSuccess 三层防重：
// 1. Redis 标记，纯优化，Redis 不可用时跳过
// 2. 订单条件更新 unpaid -> paid，并发重复回调只有一次生效
// 3. 充值日志唯一约束，由消费端兜底
func (s *PaymentCallbackService) HandlePaymentSuccess(ctx context.Context, transactionID, orderNo string, paidAt time.Time) error {
	processed, markerErr := s.Marker.IsProcessed(ctx, transactionID)
	if markerErr != nil {
		log.L.Warn("check callback marker failed, fall through to db guard",
			zap.String("transactionId", transactionID), zap.Error(markerErr))
	} else if processed {
		log.L.Info("duplicate payment callback, skip",
			zap.String("transactionId", transactionID), zap.String("orderNo", orderNo))
		return nil
	}

	order, err := s.Orders.FindByOrderNo(ctx, orderNo)
	if err != nil {
		// 订单不存在也按失败应答让微信重投，重复查询没有副作用
		log.L.Error("payment callback lookup failed",
			zap.String("transactionId", transactionID), zap.String("orderNo", orderNo), zap.Error(err))
		return err
	}

	if order.PaymentStatus == models.PaymentStatusPaid {
		// 标记明确缺失且订单还在 pending，说明上次入队失败被回滚了，补投任务
		// 多投无妨，消费端唯一约束会消化掉
		if markerErr == nil && order.RechargeStatus == models.RechargeStatusPending {
			log.L.Warn("paid order still pending without marker, re-enqueue",
				zap.String("orderNo", orderNo), zap.String("transactionId", transactionID))
			return s.enqueue(ctx, transactionID, order)
		}
		if err := s.Marker.MarkProcessed(ctx, transactionID); err != nil {
			log.L.Warn("set callback marker failed", zap.String("transactionId", transactionID), zap.Error(err))
		}
		log.L.Info("order already paid, skip",
			zap.String("orderNo", orderNo), zap.String("transactionId", transactionID))
		return nil
	}

	ok, err := s.Orders.MarkPaid(ctx, orderNo, paidAt)
	if err != nil {
		return err
	}
	if !ok {
		// 并发回调已抢先推进状态，由它负责入队
		log.L.Info("order paid by concurrent callback, skip", zap.String("orderNo", orderNo))
		return nil
	}

	return s.enqueue(ctx, transactionID, order)
}

func (s *PaymentCallbackService) enqueue(ctx context.Context, transactionID string, order *models.UnitelOrder) error {
	if err := s.Marker.MarkProcessed(ctx, transactionID); err != nil {
		log.L.Warn("set callback marker failed", zap.String("transactionId", transactionID), zap.Error(err))
	}

	job := &types.RechargeJob{
		OrderNo:      order.OrderNo,
		Operator:     "unitel",
		Openid:       order.Openid,
		Msisdn:       order.Msisdn,
		OrderType:    order.OrderType,
		PackageCode:  order.PackageCode,
		AmountMnt:    order.AmountMnt,
		RechargeType: order.OrderType,
		Timestamp:    time.Now().UnixMilli(),
	}
	if err := s.Queue.EnqueueRechargeJob(ctx, job); err != nil {
		// 入队失败时清掉标记，返回错误让微信重投，重投时重新走入队
		if clearErr := s.Marker.Clear(ctx, transactionID); clearErr != nil {
			log.L.Warn("clear callback marker failed", zap.String("transactionId", transactionID), zap.Error(clearErr))
		}
		log.L.Error("enqueue recharge job failed",
			zap.String("orderNo", order.OrderNo), zap.Error(err))
		return err
	}

	log.L.Info("payment confirmed, recharge job enqueued",
		zap.String("orderNo", order.OrderNo), zap.String("transactionId", transactionID))
	return nil
}
