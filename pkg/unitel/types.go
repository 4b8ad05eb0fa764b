package unitel

import "encoding/json"

// TokenResponse POST /auth 响应
type TokenResponse struct {
	AccessToken string `json:"access_token"`
}

// CardItem 套餐卡片项
type CardItem struct {
	Code      string  `json:"code"`     // 套餐代码 "SD5000"
	Name      string  `json:"name"`     // 套餐名称（蒙古语）
	EngName   string  `json:"eng_name"` // 英文名称
	Price     float64 `json:"price"`    // 价格（MNT）
	Unit      int     `json:"unit,omitempty"`
	Data      string  `json:"data,omitempty"` // 流量大小 "3GB"
	Days      int     `json:"days,omitempty"` // 有效期天数
	ShortName string  `json:"short_name"`
}

// ServiceTypeResponse POST /service/servicetype 响应
type ServiceTypeResponse struct {
	ServiceType string `json:"servicetype"` // "PREPAID"
	ProductID   string `json:"productid"`
	Name        string `json:"name"`
	BillType    string `json:"billtype"`
	Status      string `json:"status"`
	Code        string `json:"code"`
	Result      string `json:"result"`
	Msg         string `json:"msg"`
	Service     struct {
		Name  string `json:"name"`
		Cards struct {
			Day     []CardItem `json:"day"`     // 可续租期话费
			Noday   []CardItem `json:"noday"`   // 纯话费
			Special []CardItem `json:"special"` // 特殊套餐
		} `json:"cards"`
		Data struct {
			Data          []CardItem `json:"data"` // 流量包
			Days          []CardItem `json:"days"` // 按天流量包
			Entertainment []CardItem `json:"entertainment"`
		} `json:"data"`
	} `json:"service"`
}

// InvoiceResponse POST /service/unitel 响应（后付费账单）
type InvoiceResponse struct {
	InvoiceAmount float64 `json:"invoice_amount"`
	RemainAmount  float64 `json:"remain_amount"`
	InvoiceDate   string  `json:"invoice_date"` // 账期 "2025.09.01-2025.09.30"
	Result        string  `json:"result"`
	Code          string  `json:"code"`
	Msg           string  `json:"msg"`
	TotalUnpaid   float64 `json:"total_unpaid"`
	InvoiceUnpaid float64 `json:"invoice_unpaid"`
	InvoiceStatus string  `json:"invoice_status"` // "unpaid"
}

// Transaction 交易参数，journal_id 传订单号便于对账
type Transaction struct {
	JournalID   string `json:"journal_id"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Account     string `json:"account"`
}

// RechargeBalanceParams POST /service/recharge 请求
type RechargeBalanceParams struct {
	Msisdn        string        `json:"msisdn"`
	Card          string        `json:"card"` // 套餐代码，如 "SD3000"
	VatFlag       string        `json:"vatflag"`
	VatRegisterNo string        `json:"vat_register_no"`
	Transactions  []Transaction `json:"transactions"`
}

// RechargeDataParams POST /service/datapackage 请求
type RechargeDataParams struct {
	Msisdn        string        `json:"msisdn"`
	Package       string        `json:"package"` // 套餐代码，如 "data3gb2d"
	VatFlag       string        `json:"vatflag"`
	VatRegisterNo string        `json:"vat_register_no"`
	Transactions  []Transaction `json:"transactions"`
}

// PayInvoiceParams POST /service/payment 请求
type PayInvoiceParams struct {
	Msisdn        string        `json:"msisdn"`
	Amount        string        `json:"amount"`
	Remark        string        `json:"remark"`
	VatFlag       string        `json:"vatflag"`
	VatRegisterNo string        `json:"vat_register_no"`
	Transactions  []Transaction `json:"transactions"`
}

// RechargeResponse 话费/流量充值通用响应
type RechargeResponse struct {
	Result string          `json:"result"` // "success"
	Code   string          `json:"code"`   // "000"
	Msg    string          `json:"msg"`
	SvID   string          `json:"sv_id"`
	Seq    string          `json:"seq"`
	Method string          `json:"method"` // "cash"
	Vat    json.RawMessage `json:"vat"`    // VAT 发票信息，原样入库

	// 原始响应体，持久化到 api_raw
	Raw json.RawMessage `json:"-"`
}

// Success 判断运营商是否确认充值成功
func (r *RechargeResponse) Success() bool {
	return r.Result == "success"
}

// PackageDetail 套餐详情（价格以实时资费为准）
type PackageDetail struct {
	Code    string  `json:"code"`
	Name    string  `json:"name"`
	EngName string  `json:"eng_name"`
	Price   float64 `json:"price"`
	Type    string  `json:"type"` // balance / data / invoice
	Unit    int     `json:"unit,omitempty"`
	Data    string  `json:"data,omitempty"`
	Days    int     `json:"days,omitempty"`
}
