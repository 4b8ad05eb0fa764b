package unitel

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Aru0077/elife-service/config"
	"github.com/Aru0077/elife-service/pkg/log"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// API 端点
const (
	endpointAuth        = "/auth"
	endpointServiceType = "/service/servicetype"
	endpointInvoice     = "/service/unitel"
	endpointRecharge    = "/service/recharge"
	endpointDataPackage = "/service/datapackage"
	endpointPayment     = "/service/payment"
)

// 缓存类型
const (
	CacheKindServiceTypes = "service_types"
	CacheKindInvoice      = "invoice"
)

// TokenStore 访问令牌缓存
// Get 未命中时返回空串，不返回错误
type TokenStore interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// CatalogStore 资费/账单缓存，key 为 (类型, openid, msisdn)
type CatalogStore interface {
	Get(ctx context.Context, kind, openid, msisdn string) ([]byte, error)
	Set(ctx context.Context, kind, openid, msisdn string, payload []byte) error
}

// Client Unitel 运营商客户端
// Token 采用被动刷新策略：缓存视为有效，收到 401 时清除并重试一次
type Client struct {
	cfg     *config.UnitelConfig
	http    *http.Client
	tokens  TokenStore
	catalog CatalogStore
	sf      singleflight.Group
}

func NewClient(cfg *config.Config, tokens TokenStore, catalog CatalogStore) *Client {
	return &Client{
		cfg:     cfg.Unitel,
		http:    &http.Client{Timeout: cfg.Unitel.Timeout()},
		tokens:  tokens,
		catalog: catalog,
	}
}

// ========== Token 管理 ==========

func (c *Client) getToken(ctx context.Context) (string, error) {
	token, err := c.tokens.Get(ctx)
	if err != nil {
		return "", err
	}
	if token != "" {
		return token, nil
	}

	// 并发请求只发起一次认证
	v, err, _ := c.sf.Do("auth", func() (interface{}, error) {
		return c.fetchToken(ctx)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (c *Client) fetchToken(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+endpointAuth, nil)
	if err != nil {
		return "", err
	}
	basic := base64.StdEncoding.EncodeToString([]byte(c.cfg.Username + ":" + c.cfg.Password))
	req.Header.Set("Authorization", "Basic "+basic)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("unitel auth request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		log.L.Error("unitel auth failed", zap.Int("status", resp.StatusCode))
		return "", ErrAuthFailed
	}

	var tr TokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return "", fmt.Errorf("unitel auth response: %w", err)
	}
	if tr.AccessToken == "" {
		return "", ErrAuthFailed
	}

	if err := c.tokens.Set(ctx, tr.AccessToken); err != nil {
		// 缓存失败不阻断本次调用
		log.L.Warn("cache unitel token failed", zap.Error(err))
	}
	log.L.Info("unitel token refreshed")
	return tr.AccessToken, nil
}

// ========== 统一请求封装 ==========

// request 统一的 API 请求方法
// HTTP 401 或响应体 result=="401" 时清除 Token 并重试一次，第二次仍 401 则判定认证失败
func (c *Client) request(ctx context.Context, endpoint string, payload interface{}, retryOn401 bool) ([]byte, error) {
	traceID := uuid.NewString()
	start := time.Now()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(data)
	}

	token, err := c.getToken(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		log.L.Error("unitel api request failed",
			zap.String("traceId", traceID),
			zap.String("endpoint", endpoint),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	unauthorized := resp.StatusCode == http.StatusUnauthorized ||
		gjson.GetBytes(raw, "result").String() == "401"
	if unauthorized {
		if !retryOn401 {
			return nil, ErrAuthFailed
		}
		log.L.Warn("unitel token rejected, refreshing and retrying",
			zap.String("traceId", traceID), zap.String("endpoint", endpoint))
		if err := c.tokens.Clear(ctx); err != nil {
			return nil, err
		}
		return c.request(ctx, endpoint, payload, false)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &ApiError{
			TraceID:    traceID,
			StatusCode: resp.StatusCode,
			Result:     gjson.GetBytes(raw, "result").String(),
			Code:       gjson.GetBytes(raw, "code").String(),
			Msg:        gjson.GetBytes(raw, "msg").String(),
		}
		log.L.Error("unitel api error",
			zap.String("traceId", traceID),
			zap.String("endpoint", endpoint),
			zap.Int("status", resp.StatusCode),
			zap.String("msg", apiErr.Msg))
		return nil, apiErr
	}

	log.L.Info("unitel api success",
		zap.String("traceId", traceID),
		zap.String("endpoint", endpoint),
		zap.Duration("duration", time.Since(start)))

	return raw, nil
}

// ========== 业务接口 ==========

// GetServiceTypes 获取资费列表（实时，不走缓存）
func (c *Client) GetServiceTypes(ctx context.Context, msisdn string) (*ServiceTypeResponse, error) {
	raw, err := c.request(ctx, endpointServiceType, map[string]string{
		"msisdn": msisdn,
		"info":   "1",
	}, true)
	if err != nil {
		return nil, err
	}

	var st ServiceTypeResponse
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// GetInvoice 获取后付费账单（实时，不走缓存）
func (c *Client) GetInvoice(ctx context.Context, msisdn string) (*InvoiceResponse, error) {
	raw, err := c.request(ctx, endpointInvoice, map[string]string{
		"owner":  msisdn,
		"msisdn": msisdn,
	}, true)
	if err != nil {
		return nil, err
	}

	var inv InvoiceResponse
	if err := json.Unmarshal(raw, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

// RechargeBalance 充值话费
func (c *Client) RechargeBalance(ctx context.Context, params *RechargeBalanceParams) (*RechargeResponse, error) {
	return c.recharge(ctx, endpointRecharge, params)
}

// RechargeData 充值流量
func (c *Client) RechargeData(ctx context.Context, params *RechargeDataParams) (*RechargeResponse, error) {
	return c.recharge(ctx, endpointDataPackage, params)
}

// PayInvoice 支付后付费账单
func (c *Client) PayInvoice(ctx context.Context, params *PayInvoiceParams) (*RechargeResponse, error) {
	return c.recharge(ctx, endpointPayment, params)
}

func (c *Client) recharge(ctx context.Context, endpoint string, params interface{}) (*RechargeResponse, error) {
	raw, err := c.request(ctx, endpoint, params, true)
	if err != nil {
		return nil, err
	}

	var rr RechargeResponse
	if err := json.Unmarshal(raw, &rr); err != nil {
		return nil, err
	}
	rr.Raw = raw
	return &rr, nil
}

// ========== 缓存层（价格防篡改） ==========

// CachedServiceTypes 获取资费列表，3分钟缓存
// 下单与浏览共用同一份缓存，保证 TTL 窗口内看到同一价格
func (c *Client) CachedServiceTypes(ctx context.Context, openid, msisdn string) (*ServiceTypeResponse, error) {
	if cached, err := c.catalog.Get(ctx, CacheKindServiceTypes, openid, msisdn); err == nil && cached != nil {
		var st ServiceTypeResponse
		if err := json.Unmarshal(cached, &st); err == nil {
			return &st, nil
		}
	}

	st, err := c.GetServiceTypes(ctx, msisdn)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(st); err == nil {
		if err := c.catalog.Set(ctx, CacheKindServiceTypes, openid, msisdn, payload); err != nil {
			log.L.Warn("cache service types failed", zap.Error(err))
		}
	}
	return st, nil
}

// CachedInvoice 获取账单信息，3分钟缓存
func (c *Client) CachedInvoice(ctx context.Context, openid, msisdn string) (*InvoiceResponse, error) {
	if cached, err := c.catalog.Get(ctx, CacheKindInvoice, openid, msisdn); err == nil && cached != nil {
		var inv InvoiceResponse
		if err := json.Unmarshal(cached, &inv); err == nil {
			return &inv, nil
		}
	}

	inv, err := c.GetInvoice(ctx, msisdn)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(inv); err == nil {
		if err := c.catalog.Set(ctx, CacheKindInvoice, openid, msisdn, payload); err != nil {
			log.L.Warn("cache invoice failed", zap.Error(err))
		}
	}
	return inv, nil
}

// FindPackageParams 套餐查询参数
type FindPackageParams struct {
	PackageCode string
	Msisdn      string
	Openid      string
	OrderType   string // balance / data / invoice_payment
}

// FindPackageByCode 按套餐代码解析套餐详情
// 价格永远来自实时资费/账单，不信任调用方传入的金额
func (c *Client) FindPackageByCode(ctx context.Context, params FindPackageParams) (*PackageDetail, error) {
	if params.OrderType == "invoice_payment" {
		return c.findInvoicePackage(ctx, params.PackageCode, params.Openid, params.Msisdn)
	}
	return c.findServicePackage(ctx, params)
}

// findInvoicePackage 账单支付：packageCode 传账期标识，必须与当前账单一致
func (c *Client) findInvoicePackage(ctx context.Context, invoiceDate, openid, msisdn string) (*PackageDetail, error) {
	inv, err := c.CachedInvoice(ctx, openid, msisdn)
	if err != nil {
		return nil, err
	}

	if inv.InvoiceDate != invoiceDate {
		return nil, fmt.Errorf("%w: current period is %s", ErrInvoicePeriodMismatch, inv.InvoiceDate)
	}

	return &PackageDetail{
		Code:    invoiceDate,
		Name:    "账单支付 " + invoiceDate,
		EngName: "Invoice Payment " + invoiceDate,
		Price:   inv.TotalUnpaid,
		Type:    "invoice",
	}, nil
}

func (c *Client) findServicePackage(ctx context.Context, params FindPackageParams) (*PackageDetail, error) {
	st, err := c.CachedServiceTypes(ctx, params.Openid, params.Msisdn)
	if err != nil {
		return nil, err
	}

	var cards []CardItem
	switch params.OrderType {
	case "balance":
		cards = append(cards, st.Service.Cards.Day...)
		cards = append(cards, st.Service.Cards.Noday...)
		cards = append(cards, st.Service.Cards.Special...)
	case "data":
		cards = append(cards, st.Service.Data.Data...)
		cards = append(cards, st.Service.Data.Days...)
		cards = append(cards, st.Service.Data.Entertainment...)
	default:
		return nil, fmt.Errorf("unsupported order type: %s", params.OrderType)
	}

	for _, card := range cards {
		if card.Code == params.PackageCode {
			return &PackageDetail{
				Code:    card.Code,
				Name:    card.Name,
				EngName: card.EngName,
				Price:   card.Price,
				Type:    params.OrderType,
				Unit:    card.Unit,
				Data:    card.Data,
				Days:    card.Days,
			}, nil
		}
	}

	return nil, fmt.Errorf("%w: %s (type: %s)", ErrPackageNotFound, params.PackageCode, params.OrderType)
}
