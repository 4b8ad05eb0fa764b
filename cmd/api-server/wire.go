//go:build wireinject
// +build wireinject

package main

import (
	"github.com/Aru0077/elife-service/config"
	"github.com/Aru0077/elife-service/dao"
	"github.com/Aru0077/elife-service/dao/cache"
	"github.com/Aru0077/elife-service/handler"
	"github.com/Aru0077/elife-service/pkg/client"
	"github.com/Aru0077/elife-service/pkg/database"
	"github.com/Aru0077/elife-service/pkg/rocketmq"
	"github.com/Aru0077/elife-service/pkg/server"
	"github.com/Aru0077/elife-service/pkg/unitel"
	"github.com/Aru0077/elife-service/service"

	"github.com/google/wire"
)

func InitServer(cfg *config.Config) *server.AppProvider {
	wire.Build(

		database.NewDB,
		client.NewRedisClient,
		config.ProvideUnitelConfig,
		config.ProvideExchangeRateConfig,
		config.ProvideRocketMQConfig,
		rocketmq.InitProducer,
		rocketmq.NewQueue,

		unitel.NewClient,
		wire.Bind(new(unitel.TokenStore), new(*cache.TokenStorage)),
		wire.Bind(new(unitel.CatalogStore), new(*cache.CatalogStorage)),
		cache.ProviderSet,

		wire.Struct(new(handler.Auth), "*"),
		wire.Struct(new(handler.Unitel), "*"),
		wire.Struct(new(handler.ExchangeRate), "*"),
		handler.NewPay,

		wire.Struct(new(server.AppProvider), "*"),
		wire.Struct(new(server.Handlers), "*"),
		server.NewGinEngine,

		dao.ProviderSet,
		service.ProviderSet,
	)
	return nil
}
