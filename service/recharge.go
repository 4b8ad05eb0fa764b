package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Aru0077/elife-service/config"
	"github.com/Aru0077/elife-service/dao"
	"github.com/Aru0077/elife-service/models"
	"github.com/Aru0077/elife-service/pkg/log"
	"github.com/Aru0077/elife-service/pkg/unitel"
	"github.com/Aru0077/elife-service/types"
	"go.uber.org/zap"
)

var _ IRechargeService = (*RechargeService)(nil)

// OperatorGateway 运营商充值入口
type OperatorGateway interface {
	RechargeBalance(ctx context.Context, params *unitel.RechargeBalanceParams) (*unitel.RechargeResponse, error)
	RechargeData(ctx context.Context, params *unitel.RechargeDataParams) (*unitel.RechargeResponse, error)
	PayInvoice(ctx context.Context, params *unitel.PayInvoiceParams) (*unitel.RechargeResponse, error)
}

type IRechargeService interface {
	// Process 执行充值任务
	// 每个订单至多真正调用一次运营商，结果不明时宁可标 timeout 也不重试
	Process(ctx context.Context, job *types.RechargeJob) error
}

type RechargeService struct {
	Orders dao.OrderRepository
	Logs   dao.RechargeLogRepository
	Unitel OperatorGateway
	Cfg    *config.UnitelConfig
}

func (s *RechargeService) Process(ctx context.Context, job *types.RechargeJob) error {
	// 唯一约束是最后一道防线，插入失败说明这单已经执行过
	entry := &models.RechargeLog{
		OrderNo:      job.OrderNo,
		Operator:     job.Operator,
		Msisdn:       job.Msisdn,
		PackageCode:  job.PackageCode,
		AmountMnt:    job.AmountMnt,
		RechargeType: job.RechargeType,
		Status:       models.RechargeStatusProcessing,
		StartedAt:    time.Now(),
	}
	if err := s.Logs.Create(ctx, entry); err != nil {
		if errors.Is(err, dao.ErrDuplicateRecharge) {
			log.L.Warn("duplicate recharge job, skip", zap.String("orderNo", job.OrderNo))
			return nil
		}
		return err
	}

	order, err := s.Orders.FindByOrderNo(ctx, job.OrderNo)
	if err != nil {
		if errors.Is(err, dao.ErrOrderNotFound) {
			log.L.Error("recharge job for unknown order", zap.String("orderNo", job.OrderNo))
			return s.Logs.MarkFailed(ctx, job.OrderNo, "ORDER_NOT_FOUND", "订单不存在", nil)
		}
		return err
	}

	ok, err := s.Orders.MarkRechargeProcessing(ctx, job.OrderNo)
	if err != nil {
		return err
	}
	if !ok {
		// 订单不在 pending，说明状态被其它路径推进过，不再发起充值
		log.L.Warn("order not pending, skip recharge",
			zap.String("orderNo", job.OrderNo),
			zap.String("rechargeStatus", order.RechargeStatus))
		return s.Logs.MarkFailed(ctx, job.OrderNo, "ILLEGAL_STATE",
			"充值状态异常: "+order.RechargeStatus, nil)
	}

	callCtx, cancel := context.WithTimeout(ctx, s.Cfg.Timeout())
	defer cancel()

	start := time.Now()
	rr, err := s.dispatch(callCtx, order)
	completedAt := time.Now()

	if err != nil {
		// 耗尽 30 秒预算同样按超时处理，哪怕错误类型没体现出来
		if unitel.IsTimeout(err) || completedAt.Sub(start) >= s.Cfg.Timeout() {
			// 超时结果不确定，运营商可能已扣费，单独标记等人工核对
			log.L.Error("recharge timeout",
				zap.String("orderNo", job.OrderNo),
				zap.Duration("elapsed", completedAt.Sub(start)),
				zap.Error(err))
			if dbErr := s.Orders.MarkRechargeTimeout(ctx, job.OrderNo, err.Error(), completedAt); dbErr != nil {
				return dbErr
			}
			return s.Logs.MarkTimeout(ctx, job.OrderNo, err.Error())
		}

		errCode := classifyError(err)
		log.L.Error("recharge failed",
			zap.String("orderNo", job.OrderNo),
			zap.String("errCode", errCode),
			zap.Error(err))
		if dbErr := s.Orders.MarkRechargeFailed(ctx, job.OrderNo, errCode, err.Error(), completedAt); dbErr != nil {
			return dbErr
		}
		return s.Logs.MarkFailed(ctx, job.OrderNo, errCode, err.Error(), nil)
	}

	if !rr.Success() {
		// 运营商明确拒绝，原始响应入库便于排查
		log.L.Error("recharge rejected by operator",
			zap.String("orderNo", job.OrderNo),
			zap.String("code", rr.Code),
			zap.String("msg", rr.Msg))
		if dbErr := s.Orders.MarkRechargeFailed(ctx, job.OrderNo, rr.Code, rr.Msg, completedAt); dbErr != nil {
			return dbErr
		}
		return s.Logs.MarkFailed(ctx, job.OrderNo, rr.Code, rr.Msg, rr.Raw)
	}

	result := &dao.RechargeResult{
		SvID:      rr.SvID,
		Seq:       rr.Seq,
		Method:    rr.Method,
		ApiResult: rr.Result,
		ApiCode:   rr.Code,
		ApiMsg:    rr.Msg,
		VatInfo:   rr.Vat,
		ApiRaw:    rr.Raw,
	}
	if dbErr := s.Orders.MarkRechargeSuccess(ctx, job.OrderNo, result, completedAt); dbErr != nil {
		return dbErr
	}
	if dbErr := s.Logs.MarkSuccess(ctx, job.OrderNo, result); dbErr != nil {
		return dbErr
	}

	log.L.Info("recharge success",
		zap.String("orderNo", job.OrderNo),
		zap.String("svId", rr.SvID),
		zap.Duration("elapsed", completedAt.Sub(start)))
	return nil
}

func (s *RechargeService) dispatch(ctx context.Context, order *models.UnitelOrder) (*unitel.RechargeResponse, error) {
	transactions := []unitel.Transaction{{
		JournalID:   order.OrderNo,
		Amount:      strconv.FormatFloat(order.AmountMnt, 'f', 2, 64),
		Description: order.PackageName,
		Account:     order.Msisdn,
	}}

	switch order.OrderType {
	case models.OrderTypeBalance:
		return s.Unitel.RechargeBalance(ctx, &unitel.RechargeBalanceParams{
			Msisdn:        order.Msisdn,
			Card:          order.PackageCode,
			VatFlag:       order.VatFlag,
			VatRegisterNo: order.VatRegisterNo,
			Transactions:  transactions,
		})
	case models.OrderTypeData:
		return s.Unitel.RechargeData(ctx, &unitel.RechargeDataParams{
			Msisdn:        order.Msisdn,
			Package:       order.PackageCode,
			VatFlag:       order.VatFlag,
			VatRegisterNo: order.VatRegisterNo,
			Transactions:  transactions,
		})
	case models.OrderTypeInvoice:
		return s.Unitel.PayInvoice(ctx, &unitel.PayInvoiceParams{
			Msisdn:        order.Msisdn,
			Amount:        strconv.FormatFloat(order.AmountMnt, 'f', 2, 64),
			Remark:        "invoice " + order.PackageCode,
			VatFlag:       order.VatFlag,
			VatRegisterNo: order.VatRegisterNo,
			Transactions:  transactions,
		})
	default:
		return nil, fmt.Errorf("未知订单类型: %s", order.OrderType)
	}
}

func classifyError(err error) string {
	if errors.Is(err, unitel.ErrAuthFailed) {
		return "AUTH_FAILED"
	}
	var apiErr *unitel.ApiError
	if errors.As(err, &apiErr) && apiErr.Code != "" {
		return apiErr.Code
	}
	return "API_ERROR"
}
