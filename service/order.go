package service

import (
	"context"
	"math"

	"github.com/Aru0077/elife-service/dao"
	"github.com/Aru0077/elife-service/models"
	"github.com/Aru0077/elife-service/pkg/log"
	"github.com/Aru0077/elife-service/pkg/response"
	"github.com/Aru0077/elife-service/pkg/unitel"
	"github.com/Aru0077/elife-service/pkg/utils"
	"github.com/Aru0077/elife-service/types"
	"go.uber.org/zap"
)

var _ IUnitelOrderService = (*UnitelOrderService)(nil)

// OperatorCatalog 资费/账单查询入口，下单与浏览共用缓存
type OperatorCatalog interface {
	CachedServiceTypes(ctx context.Context, openid, msisdn string) (*unitel.ServiceTypeResponse, error)
	CachedInvoice(ctx context.Context, openid, msisdn string) (*unitel.InvoiceResponse, error)
	FindPackageByCode(ctx context.Context, params unitel.FindPackageParams) (*unitel.PackageDetail, error)
}

type IUnitelOrderService interface {
	GetServiceTypes(ctx context.Context, openid, msisdn string) (*unitel.ServiceTypeResponse, error)
	GetInvoice(ctx context.Context, openid, msisdn string) (*unitel.InvoiceResponse, error)
	CreateOrder(ctx context.Context, openid string, req *types.CreateOrderRequest) (*models.UnitelOrder, error)
	GetOrder(ctx context.Context, openid, orderNo string) (*models.UnitelOrder, error)
	ListOrders(ctx context.Context, openid string, req *types.OrderQueryRequest) ([]*models.UnitelOrder, *types.Pagination, error)
}

type UnitelOrderService struct {
	Orders   dao.OrderRepository
	Unitel   OperatorCatalog
	Exchange IExchangeRateService
}

func (s *UnitelOrderService) GetServiceTypes(ctx context.Context, openid, msisdn string) (*unitel.ServiceTypeResponse, error) {
	return s.Unitel.CachedServiceTypes(ctx, openid, msisdn)
}

func (s *UnitelOrderService) GetInvoice(ctx context.Context, openid, msisdn string) (*unitel.InvoiceResponse, error) {
	return s.Unitel.CachedInvoice(ctx, openid, msisdn)
}

// CreateOrder 创建充值订单
// 金额只认实时资费解析出的价格，客户端传什么都不作数
func (s *UnitelOrderService) CreateOrder(ctx context.Context, openid string, req *types.CreateOrderRequest) (*models.UnitelOrder, error) {
	pkg, err := s.Unitel.FindPackageByCode(ctx, unitel.FindPackageParams{
		PackageCode: req.PackageCode,
		Msisdn:      req.Msisdn,
		Openid:      openid,
		OrderType:   req.OrderType,
	})
	if err != nil {
		return nil, err
	}
	if pkg.Price <= 0 {
		return nil, response.NewError(400, "套餐金额异常")
	}

	rate, err := s.Exchange.Rate(ctx)
	if err != nil {
		return nil, err
	}
	// MNT -> CNY，保留两位小数
	amountCny := math.Round(pkg.Price/rate*100) / 100

	vatFlag := req.VatFlag
	if vatFlag == "" {
		vatFlag = "0"
	}

	order := &models.UnitelOrder{
		OrderNo:        utils.GenerateOrderNo(),
		Openid:         openid,
		Msisdn:         req.Msisdn,
		OrderType:      req.OrderType,
		AmountMnt:      pkg.Price,
		AmountCny:      amountCny,
		ExchangeRate:   rate,
		PackageCode:    pkg.Code,
		PackageName:    pkg.Name,
		PackageEngName: pkg.EngName,
		PackageUnit:    pkg.Unit,
		PackageData:    pkg.Data,
		PackageDays:    pkg.Days,
		PaymentStatus:  models.PaymentStatusUnpaid,
		RechargeStatus: models.RechargeStatusPending,
		VatFlag:        vatFlag,
		VatRegisterNo:  req.VatRegisterNo,
	}
	if err := s.Orders.Create(ctx, order); err != nil {
		return nil, err
	}

	log.L.Info("order created",
		zap.String("orderNo", order.OrderNo),
		zap.String("openid", openid),
		zap.String("orderType", order.OrderType),
		zap.Float64("amountMnt", order.AmountMnt),
		zap.Float64("amountCny", order.AmountCny))

	return order, nil
}

func (s *UnitelOrderService) GetOrder(ctx context.Context, openid, orderNo string) (*models.UnitelOrder, error) {
	order, err := s.Orders.FindByOrderNo(ctx, orderNo)
	if err != nil {
		return nil, err
	}
	// 不暴露他人订单
	if order.Openid != openid {
		return nil, dao.ErrOrderNotFound
	}
	return order, nil
}

func (s *UnitelOrderService) ListOrders(ctx context.Context, openid string, req *types.OrderQueryRequest) ([]*models.UnitelOrder, *types.Pagination, error) {
	page := req.Page
	if page <= 0 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 10
	}

	orders, total, err := s.Orders.FindByOpenid(ctx, openid, dao.OrderQuery{
		OrderType:      req.OrderType,
		PaymentStatus:  req.PaymentStatus,
		RechargeStatus: req.RechargeStatus,
		Page:           page,
		PageSize:       pageSize,
	})
	if err != nil {
		return nil, nil, err
	}

	return orders, &types.Pagination{
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int((total + int64(pageSize) - 1) / int64(pageSize)),
	}, nil
}
