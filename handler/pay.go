package handler

import (
	base "context"
	"crypto/rsa"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/Aru0077/elife-service/config"
	"github.com/Aru0077/elife-service/middleware"
	"github.com/Aru0077/elife-service/models"
	"github.com/Aru0077/elife-service/pkg/context"
	"github.com/Aru0077/elife-service/pkg/log"
	"github.com/Aru0077/elife-service/pkg/response"
	"github.com/Aru0077/elife-service/service"
	"github.com/gin-gonic/gin"
	"github.com/wechatpay-apiv3/wechatpay-go/core"
	"github.com/wechatpay-apiv3/wechatpay-go/core/auth/verifiers"
	"github.com/wechatpay-apiv3/wechatpay-go/core/downloader"
	"github.com/wechatpay-apiv3/wechatpay-go/core/notify"
	"github.com/wechatpay-apiv3/wechatpay-go/core/option"
	"github.com/wechatpay-apiv3/wechatpay-go/services/payments"
	"github.com/wechatpay-apiv3/wechatpay-go/services/payments/jsapi"
	"github.com/wechatpay-apiv3/wechatpay-go/utils"
	"go.uber.org/zap"
)

type Pay struct {
	WechatPayConfig *config.WechatPayConfig
	Config          *config.Config
	OrderService    service.IUnitelOrderService
	CallbackService service.IPaymentCallbackService

	wechatClient  *core.Client
	notifyHandler *notify.Handler
	mchPrivateKey *rsa.PrivateKey
}

// NewPay 创建支付处理器，初始化失败直接 panic，服务起不来比起来了再炸好排查
func NewPay(cfg *config.Config, orderService service.IUnitelOrderService, callbackService service.IPaymentCallbackService) *Pay {
	p := &Pay{
		WechatPayConfig: cfg.WechatPay,
		Config:          cfg,
		OrderService:    orderService,
		CallbackService: callbackService,
	}
	if err := p.initWechatClient(); err != nil {
		panic(fmt.Sprintf("init wechat pay client: %v", err))
	}
	return p
}

func (p *Pay) RegisterRouter(r gin.IRouter) {
	authorize := middleware.Auth([]byte(p.Config.Jwt.Secret))
	pay := r.Group("/v1/pay")
	{
		pay.POST("/prepay/:order_no", authorize, context.Wrap(p.Prepay))
		pay.POST("/notify", context.Wrap(p.PayNotify)) // 支付回调，微信侧调用，无鉴权
		pay.POST("/notify/refund", context.Wrap(p.RefundNotify))
		pay.GET("/query/:order_no", authorize, context.Wrap(p.QueryOrder))
	}
}

func (p *Pay) initWechatClient() error {
	mchPrivateKey, err := utils.LoadPrivateKeyWithPath(p.WechatPayConfig.MchPrivateKeyPath)
	if err != nil {
		return fmt.Errorf("加载商户私钥失败: %w", err)
	}
	p.mchPrivateKey = mchPrivateKey

	// AutoAuthCipher 会注册平台证书下载器，回调验签依赖它
	opts := []core.ClientOption{
		option.WithWechatPayAutoAuthCipher(
			p.WechatPayConfig.MchID,
			p.WechatPayConfig.MchCertificateSerialNumber,
			mchPrivateKey,
			p.WechatPayConfig.MchAPIv3Key,
		),
	}
	client, err := core.NewClient(base.Background(), opts...)
	if err != nil {
		return fmt.Errorf("创建微信支付客户端失败: %w", err)
	}
	p.wechatClient = client

	certificateVisitor := downloader.MgrInstance().GetCertificateVisitor(p.WechatPayConfig.MchID)
	handler, err := notify.NewRSANotifyHandler(p.WechatPayConfig.MchAPIv3Key, verifiers.NewSHA256WithRSAVerifier(certificateVisitor))
	if err != nil {
		return fmt.Errorf("创建回调处理器失败: %w", err)
	}
	p.notifyHandler = handler

	return nil
}

// Prepay JSAPI 预支付下单，金额取订单落库的 CNY 金额，不从请求取
func (p *Pay) Prepay(c *gin.Context) error {
	ctx := c.Request.Context()

	openid, err := context.GetOpenID(c)
	if err != nil {
		return response.NewError(http.StatusUnauthorized, err.Error())
	}

	order, err := p.OrderService.GetOrder(ctx, openid, c.Param("order_no"))
	if err != nil {
		return response.NewError(http.StatusNotFound, "订单不存在")
	}
	if order.PaymentStatus != models.PaymentStatusUnpaid {
		return response.NewError(http.StatusBadRequest, "订单状态不支持支付")
	}

	description := order.PackageName
	if description == "" {
		description = "Unitel " + order.OrderType
	}

	svc := jsapi.JsapiApiService{Client: p.wechatClient}
	prepayReq := jsapi.PrepayRequest{
		Appid:       core.String(p.WechatPayConfig.AppID),
		Mchid:       core.String(p.WechatPayConfig.MchID),
		Description: core.String(description),
		OutTradeNo:  core.String(order.OrderNo),
		NotifyUrl:   core.String(p.WechatPayConfig.NotifyURL),
		Amount: &jsapi.Amount{
			Total: core.Int64(int64(math.Round(order.AmountCny * 100))), // 单位：分
		},
		Payer: &jsapi.Payer{
			Openid: core.String(openid),
		},
	}

	resp, _, err := svc.PrepayWithRequestPayment(ctx, prepayReq)
	if err != nil {
		log.L.Error("微信下单失败", zap.String("orderNo", order.OrderNo), zap.Error(err))
		return response.NewError(http.StatusInternalServerError, "下单失败")
	}

	response.Success(c, resp)
	return nil
}

// PayNotify 支付成功回调
// 应答语义按微信文档：2xx 表示收到，非 2xx 会触发重投
func (p *Pay) PayNotify(c *gin.Context) error {
	ctx := c.Request.Context()

	transaction := new(payments.Transaction)
	if _, err := p.notifyHandler.ParseNotifyRequest(ctx, c.Request, transaction); err != nil {
		log.L.Error("微信支付回调验签或解密失败", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"code": "FAIL", "message": "验签失败"})
		return nil
	}

	if transaction.TradeState == nil || *transaction.TradeState != "SUCCESS" {
		log.L.Warn("pay notify with non-success trade state",
			zap.String("outTradeNo", strVal(transaction.OutTradeNo)),
			zap.String("tradeState", strVal(transaction.TradeState)))
		c.Status(http.StatusNoContent)
		return nil
	}

	paidAt := time.Now()
	if transaction.SuccessTime != nil {
		if t, err := time.Parse(time.RFC3339, *transaction.SuccessTime); err == nil {
			paidAt = t
		}
	}

	err := p.CallbackService.HandlePaymentSuccess(ctx,
		strVal(transaction.TransactionId), strVal(transaction.OutTradeNo), paidAt)
	if err != nil {
		// 非 2xx 让微信重投，防重由回调服务的三层保护兜底
		c.JSON(http.StatusInternalServerError, gin.H{"code": "FAIL", "message": "处理失败"})
		return nil
	}

	c.Status(http.StatusNoContent)
	return nil
}

// RefundNotify 退款回调，目前只记录不处理
func (p *Pay) RefundNotify(c *gin.Context) error {
	ctx := c.Request.Context()

	content := make(map[string]interface{})
	if _, err := p.notifyHandler.ParseNotifyRequest(ctx, c.Request, &content); err != nil {
		log.L.Error("退款回调验签失败", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"code": "FAIL", "message": "验签失败"})
		return nil
	}

	log.L.Info("refund notify received", zap.Any("content", content))
	c.Status(http.StatusNoContent)
	return nil
}

// QueryOrder 查询微信侧订单状态
func (p *Pay) QueryOrder(c *gin.Context) error {
	ctx := c.Request.Context()

	openid, err := context.GetOpenID(c)
	if err != nil {
		return response.NewError(http.StatusUnauthorized, err.Error())
	}
	orderNo := c.Param("order_no")
	if _, err := p.OrderService.GetOrder(ctx, openid, orderNo); err != nil {
		return response.NewError(http.StatusNotFound, "订单不存在")
	}

	svc := jsapi.JsapiApiService{Client: p.wechatClient}
	resp, result, err := svc.QueryOrderByOutTradeNo(ctx,
		jsapi.QueryOrderByOutTradeNoRequest{
			OutTradeNo: core.String(orderNo),
			Mchid:      core.String(p.WechatPayConfig.MchID),
		},
	)
	if err != nil {
		log.L.Error("查询订单失败", zap.String("orderNo", orderNo), zap.Error(err))
		return response.NewError(http.StatusInternalServerError, "查询订单失败")
	}
	log.L.Info("查询订单成功",
		zap.String("orderNo", orderNo),
		zap.Int("status", result.Response.StatusCode))

	response.Success(c, resp)
	return nil
}

func strVal(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
