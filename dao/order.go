package dao

import (
	"context"
	"errors"
	"time"

	"github.com/Aru0077/elife-service/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ErrOrderNotFound 订单不存在
var ErrOrderNotFound = errors.New("order not found")

// RechargeResult 充值成功后写回订单的结果字段
type RechargeResult struct {
	SvID      string
	Seq       string
	Method    string
	ApiResult string
	ApiCode   string
	ApiMsg    string
	VatInfo   []byte
	ApiRaw    []byte
}

// OrderQuery 订单列表查询条件
type OrderQuery struct {
	OrderType      string
	PaymentStatus  string
	RechargeStatus string
	Page           int
	PageSize       int
}

// OrderRepository 订单仓储
// 状态推进全部是单行条件更新，靠 WHERE 匹配行数保证状态机约束
type OrderRepository interface {
	Create(ctx context.Context, order *models.UnitelOrder) error
	FindByOrderNo(ctx context.Context, orderNo string) (*models.UnitelOrder, error)
	FindByOpenid(ctx context.Context, openid string, query OrderQuery) ([]*models.UnitelOrder, int64, error)

	// MarkPaid unpaid -> paid，返回是否本次更新生效
	MarkPaid(ctx context.Context, orderNo string, paidAt time.Time) (bool, error)

	// MarkRechargeProcessing pending -> processing，返回是否本次更新生效
	MarkRechargeProcessing(ctx context.Context, orderNo string) (bool, error)

	// processing -> success / failed / timeout
	MarkRechargeSuccess(ctx context.Context, orderNo string, result *RechargeResult, completedAt time.Time) error
	MarkRechargeFailed(ctx context.Context, orderNo string, errCode, errMsg string, completedAt time.Time) error
	MarkRechargeTimeout(ctx context.Context, orderNo string, errMsg string, completedAt time.Time) error
}

type OrderDao struct {
	Repo[models.UnitelOrder]
}

var _ OrderRepository = (*OrderDao)(nil)

func NewOrderDao(db *gorm.DB) *OrderDao {
	return &OrderDao{Repo: NewRepo[models.UnitelOrder](db)}
}

func (d *OrderDao) Create(ctx context.Context, order *models.UnitelOrder) error {
	return d.Db.WithContext(ctx).Create(order).Error
}

func (d *OrderDao) FindByOrderNo(ctx context.Context, orderNo string) (*models.UnitelOrder, error) {
	var order models.UnitelOrder
	err := d.Db.WithContext(ctx).Where("order_no = ?", orderNo).First(&order).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (d *OrderDao) FindByOpenid(ctx context.Context, openid string, query OrderQuery) ([]*models.UnitelOrder, int64, error) {
	page := query.Page
	if page <= 0 {
		page = 1
	}
	pageSize := query.PageSize
	if pageSize <= 0 {
		pageSize = 10
	}

	q := d.Db.WithContext(ctx).Model(&models.UnitelOrder{}).Where("openid = ?", openid)
	if query.OrderType != "" {
		q = q.Where("order_type = ?", query.OrderType)
	}
	if query.PaymentStatus != "" {
		q = q.Where("payment_status = ?", query.PaymentStatus)
	}
	if query.RechargeStatus != "" {
		q = q.Where("recharge_status = ?", query.RechargeStatus)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []*models.UnitelOrder
	err := q.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&orders).Error

	return orders, total, err
}

func (d *OrderDao) MarkPaid(ctx context.Context, orderNo string, paidAt time.Time) (bool, error) {
	res := d.Db.WithContext(ctx).Model(&models.UnitelOrder{}).
		Where("order_no = ? AND payment_status = ?", orderNo, models.PaymentStatusUnpaid).
		Updates(map[string]interface{}{
			"payment_status": models.PaymentStatusPaid,
			"paid_at":        paidAt,
		})
	return res.RowsAffected > 0, res.Error
}

func (d *OrderDao) MarkRechargeProcessing(ctx context.Context, orderNo string) (bool, error) {
	res := d.Db.WithContext(ctx).Model(&models.UnitelOrder{}).
		Where("order_no = ? AND recharge_status = ?", orderNo, models.RechargeStatusPending).
		Update("recharge_status", models.RechargeStatusProcessing)
	return res.RowsAffected > 0, res.Error
}

func (d *OrderDao) MarkRechargeSuccess(ctx context.Context, orderNo string, result *RechargeResult, completedAt time.Time) error {
	return d.Db.WithContext(ctx).Model(&models.UnitelOrder{}).
		Where("order_no = ? AND recharge_status = ?", orderNo, models.RechargeStatusProcessing).
		Updates(map[string]interface{}{
			"recharge_status": models.RechargeStatusSuccess,
			"sv_id":           result.SvID,
			"seq":             result.Seq,
			"method":          result.Method,
			"api_result":      result.ApiResult,
			"api_code":        result.ApiCode,
			"api_msg":         result.ApiMsg,
			"vat_info":        datatypes.JSON(result.VatInfo),
			"api_raw":         datatypes.JSON(result.ApiRaw),
			"completed_at":    completedAt,
		}).Error
}

func (d *OrderDao) MarkRechargeFailed(ctx context.Context, orderNo string, errCode, errMsg string, completedAt time.Time) error {
	return d.Db.WithContext(ctx).Model(&models.UnitelOrder{}).
		Where("order_no = ? AND recharge_status = ?", orderNo, models.RechargeStatusProcessing).
		Updates(map[string]interface{}{
			"recharge_status": models.RechargeStatusFailed,
			"error_code":      errCode,
			"error_message":   errMsg,
			"completed_at":    completedAt,
		}).Error
}

func (d *OrderDao) MarkRechargeTimeout(ctx context.Context, orderNo string, errMsg string, completedAt time.Time) error {
	return d.Db.WithContext(ctx).Model(&models.UnitelOrder{}).
		Where("order_no = ? AND recharge_status = ?", orderNo, models.RechargeStatusProcessing).
		Updates(map[string]interface{}{
			"recharge_status": models.RechargeStatusTimeout,
			"error_code":      "TIMEOUT",
			"error_message":   errMsg,
			"completed_at":    completedAt,
		}).Error
}
