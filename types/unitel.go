package types

// CreateOrderRequest 创建订单请求
// 不接受客户端金额，价格一律以实时资费为准
type CreateOrderRequest struct {
	Msisdn        string `json:"msisdn" binding:"required"`
	OrderType     string `json:"order_type" binding:"required,oneof=balance data invoice_payment"`
	PackageCode   string `json:"package_code" binding:"required"` // 账单支付时传账期标识
	VatFlag       string `json:"vat_flag"`
	VatRegisterNo string `json:"vat_register_no"`
}

// OrderQueryRequest 订单列表查询
type OrderQueryRequest struct {
	OrderType      string `form:"order_type"`
	PaymentStatus  string `form:"payment_status"`
	RechargeStatus string `form:"recharge_status"`
	Page           int    `form:"page"`
	PageSize       int    `form:"page_size"`
}

// Pagination 分页信息
type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}
