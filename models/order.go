package models

import (
	"time"

	"gorm.io/datatypes"
)

// 订单类型
const (
	OrderTypeBalance = "balance"         // 话费充值
	OrderTypeData    = "data"            // 流量充值
	OrderTypeInvoice = "invoice_payment" // 后付费账单
)

// 支付状态
const (
	PaymentStatusUnpaid   = "unpaid"
	PaymentStatusPaid     = "paid"
	PaymentStatusRefunded = "refunded"
)

// 充值状态
const (
	RechargeStatusPending    = "pending"
	RechargeStatusProcessing = "processing"
	RechargeStatusSuccess    = "success"
	RechargeStatusFailed     = "failed"
	RechargeStatusTimeout    = "timeout"
)

// UnitelOrder 充值订单主表
// 订单创建后只由回调与充值流程推进状态，不做删除
type UnitelOrder struct {
	ID             uint64         `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderNo        string         `gorm:"column:order_no;type:varchar(32);not null;uniqueIndex:idx_order_no" json:"order_no"`
	Openid         string         `gorm:"column:openid;type:varchar(64);not null;index:idx_openid" json:"openid"`
	Msisdn         string         `gorm:"column:msisdn;type:varchar(16);not null" json:"msisdn"`
	OrderType      string         `gorm:"column:order_type;type:varchar(20);not null" json:"order_type"`
	AmountMnt      float64        `gorm:"column:amount_mnt;type:decimal(12,2);not null" json:"amount_mnt"` // 单位：MNT
	AmountCny      float64        `gorm:"column:amount_cny;type:decimal(10,2);not null" json:"amount_cny"` // 单位：CNY
	ExchangeRate   float64        `gorm:"column:exchange_rate;type:decimal(10,4)" json:"exchange_rate"`    // 下单时汇率快照
	PackageCode    string         `gorm:"column:package_code;type:varchar(64);not null" json:"package_code"`
	PackageName    string         `gorm:"column:package_name;type:varchar(128)" json:"package_name"`
	PackageEngName string         `gorm:"column:package_eng_name;type:varchar(128)" json:"package_eng_name"`
	PackageUnit    int            `gorm:"column:package_unit" json:"package_unit"`                    // 话费单位
	PackageData    string         `gorm:"column:package_data;type:varchar(32)" json:"package_data"`   // 流量大小，如 3GB
	PackageDays    int            `gorm:"column:package_days" json:"package_days"`                    // 有效期天数
	PaymentStatus  string         `gorm:"column:payment_status;type:varchar(16);not null;default:'unpaid';index:idx_payment_status" json:"payment_status"`
	RechargeStatus string         `gorm:"column:recharge_status;type:varchar(16);not null;default:'pending';index:idx_recharge_status" json:"recharge_status"`
	VatFlag        string         `gorm:"column:vat_flag;type:varchar(2);default:'0'" json:"vat_flag"`
	VatRegisterNo  string         `gorm:"column:vat_register_no;type:varchar(32)" json:"vat_register_no"`
	SvID           string         `gorm:"column:sv_id;type:varchar(64)" json:"sv_id"`
	Seq            string         `gorm:"column:seq;type:varchar(64)" json:"seq"`
	Method         string         `gorm:"column:method;type:varchar(32)" json:"method"`
	ApiResult      string         `gorm:"column:api_result;type:varchar(32)" json:"api_result"`
	ApiCode        string         `gorm:"column:api_code;type:varchar(32)" json:"api_code"`
	ApiMsg         string         `gorm:"column:api_msg;type:varchar(255)" json:"api_msg"`
	VatInfo        datatypes.JSON `gorm:"column:vat_info" json:"vat_info"`
	ApiRaw         datatypes.JSON `gorm:"column:api_raw" json:"api_raw"`
	ErrorCode      string         `gorm:"column:error_code;type:varchar(32)" json:"error_code"`
	ErrorMessage   string         `gorm:"column:error_message;type:varchar(512)" json:"error_message"`
	PaidAt         *time.Time     `gorm:"column:paid_at" json:"paid_at"`
	CompletedAt    *time.Time     `gorm:"column:completed_at" json:"completed_at"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (UnitelOrder) TableName() string {
	return "unitel_orders"
}
