package models

import (
	"time"

	"gorm.io/datatypes"
)

// RechargeLog 充值日志表
// 每次充值尝试一条记录，order_no 的唯一约束是防止重复充值的最后一道防线
type RechargeLog struct {
	ID           uint64         `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderNo      string         `gorm:"column:order_no;type:varchar(32);not null;uniqueIndex:idx_recharge_log_order_no" json:"order_no"`
	Operator     string         `gorm:"column:operator;type:varchar(16);not null" json:"operator"`
	Msisdn       string         `gorm:"column:msisdn;type:varchar(16);not null" json:"msisdn"`
	PackageCode  string         `gorm:"column:package_code;type:varchar(64)" json:"package_code"`
	AmountMnt    float64        `gorm:"column:amount_mnt;type:decimal(12,2)" json:"amount_mnt"`
	RechargeType string         `gorm:"column:recharge_type;type:varchar(20)" json:"recharge_type"`
	Status       string         `gorm:"column:status;type:varchar(16);not null;default:'processing'" json:"status"`
	ApiResult    string         `gorm:"column:api_result;type:varchar(32)" json:"api_result"`
	ApiCode      string         `gorm:"column:api_code;type:varchar(32)" json:"api_code"`
	ApiMsg       string         `gorm:"column:api_msg;type:varchar(255)" json:"api_msg"`
	ApiRaw       datatypes.JSON `gorm:"column:api_raw" json:"api_raw"`
	ErrorCode    string         `gorm:"column:error_code;type:varchar(32)" json:"error_code"`
	ErrorMessage string         `gorm:"column:error_message;type:varchar(512)" json:"error_message"`
	StartedAt    time.Time      `gorm:"column:started_at" json:"started_at"`
	CompletedAt  *time.Time     `gorm:"column:completed_at" json:"completed_at"`
	Duration     int64          `gorm:"column:duration" json:"duration"` // 耗时（毫秒）
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (RechargeLog) TableName() string {
	return "recharge_logs"
}
