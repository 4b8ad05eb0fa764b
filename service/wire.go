package service

import (
	"github.com/Aru0077/elife-service/dao/cache"
	"github.com/Aru0077/elife-service/pkg/rocketmq"
	"github.com/Aru0077/elife-service/pkg/unitel"
	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	wire.Struct(new(AuthService), "*"),
	wire.Bind(new(IAuthService), new(*AuthService)),

	wire.Struct(new(ExchangeRateService), "*"),
	wire.Bind(new(IExchangeRateService), new(*ExchangeRateService)),

	wire.Struct(new(UnitelOrderService), "*"),
	wire.Bind(new(IUnitelOrderService), new(*UnitelOrderService)),

	wire.Struct(new(PaymentCallbackService), "*"),
	wire.Bind(new(IPaymentCallbackService), new(*PaymentCallbackService)),

	wire.Bind(new(OperatorCatalog), new(*unitel.Client)),
	wire.Bind(new(CallbackMarker), new(*cache.CallbackStorage)),
	wire.Bind(new(RechargeEnqueuer), new(*rocketmq.Queue)),
)

// WorkerProviderSet 充值 Worker 用到的服务
var WorkerProviderSet = wire.NewSet(
	wire.Struct(new(RechargeService), "*"),
	wire.Bind(new(IRechargeService), new(*RechargeService)),

	wire.Bind(new(OperatorGateway), new(*unitel.Client)),
)
