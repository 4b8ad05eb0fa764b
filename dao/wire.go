//go:build wireinject

package dao

import (
	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	NewOrderDao,
	wire.Bind(new(OrderRepository), new(*OrderDao)),

	NewRechargeLogDao,
	wire.Bind(new(RechargeLogRepository), new(*RechargeLogDao)),

	NewExchangeRateDao,
	wire.Bind(new(ExchangeRateRepository), new(*ExchangeRateDao)),
)
