package dao

import (
	"context"
	"errors"
	"time"

	"github.com/Aru0077/elife-service/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ErrDuplicateRecharge order_no 已有充值记录，说明此前已有一次执行
var ErrDuplicateRecharge = errors.New("duplicate recharge")

// RechargeLogRepository 充值日志仓储，order_no 唯一约束兜底防重复充值
type RechargeLogRepository interface {
	// Create 插入充值日志，唯一约束冲突时返回 ErrDuplicateRecharge
	Create(ctx context.Context, entry *models.RechargeLog) error

	MarkSuccess(ctx context.Context, orderNo string, result *RechargeResult) error
	MarkFailed(ctx context.Context, orderNo string, errCode, errMsg string, raw []byte) error
	MarkTimeout(ctx context.Context, orderNo string, errMsg string) error
}

type RechargeLogDao struct {
	Repo[models.RechargeLog]
}

var _ RechargeLogRepository = (*RechargeLogDao)(nil)

func NewRechargeLogDao(db *gorm.DB) *RechargeLogDao {
	return &RechargeLogDao{Repo: NewRepo[models.RechargeLog](db)}
}

func (d *RechargeLogDao) Create(ctx context.Context, entry *models.RechargeLog) error {
	err := d.Db.WithContext(ctx).Create(entry).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateRecharge
	}
	return err
}

func (d *RechargeLogDao) MarkSuccess(ctx context.Context, orderNo string, result *RechargeResult) error {
	completedAt := time.Now()
	return d.Db.WithContext(ctx).Model(&models.RechargeLog{}).
		Where("order_no = ?", orderNo).
		Updates(map[string]interface{}{
			"status":       models.RechargeStatusSuccess,
			"api_result":   result.ApiResult,
			"api_code":     result.ApiCode,
			"api_msg":      result.ApiMsg,
			"api_raw":      datatypes.JSON(result.ApiRaw),
			"completed_at": completedAt,
			"duration":     d.duration(ctx, orderNo, completedAt),
		}).Error
}

func (d *RechargeLogDao) MarkFailed(ctx context.Context, orderNo string, errCode, errMsg string, raw []byte) error {
	completedAt := time.Now()
	values := map[string]interface{}{
		"status":        models.RechargeStatusFailed,
		"error_code":    errCode,
		"error_message": errMsg,
		"completed_at":  completedAt,
		"duration":      d.duration(ctx, orderNo, completedAt),
	}
	if raw != nil {
		values["api_raw"] = datatypes.JSON(raw)
	}
	return d.Db.WithContext(ctx).Model(&models.RechargeLog{}).
		Where("order_no = ?", orderNo).
		Updates(values).Error
}

func (d *RechargeLogDao) MarkTimeout(ctx context.Context, orderNo string, errMsg string) error {
	completedAt := time.Now()
	return d.Db.WithContext(ctx).Model(&models.RechargeLog{}).
		Where("order_no = ?", orderNo).
		Updates(map[string]interface{}{
			"status":        models.RechargeStatusTimeout,
			"error_code":    "TIMEOUT",
			"error_message": errMsg,
			"completed_at":  completedAt,
			"duration":      d.duration(ctx, orderNo, completedAt),
		}).Error
}

// duration 以日志里的 started_at 计算耗时（毫秒）
func (d *RechargeLogDao) duration(ctx context.Context, orderNo string, completedAt time.Time) int64 {
	var entry models.RechargeLog
	if err := d.Db.WithContext(ctx).Select("started_at").
		Where("order_no = ?", orderNo).First(&entry).Error; err != nil {
		return 0
	}
	return completedAt.Sub(entry.StartedAt).Milliseconds()
}
