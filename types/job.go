package types

// RechargeJob 充值任务，任务标识即订单号
type RechargeJob struct {
	OrderNo      string  `json:"order_no"`
	Operator     string  `json:"operator"` // 当前只有 unitel
	Openid       string  `json:"openid"`
	Msisdn       string  `json:"msisdn"`
	OrderType    string  `json:"order_type"`
	PackageCode  string  `json:"package_code"`
	AmountMnt    float64 `json:"amount_mnt"`
	RechargeType string  `json:"recharge_type"`
	Timestamp    int64   `json:"timestamp"` // 入队时间（毫秒）
}
