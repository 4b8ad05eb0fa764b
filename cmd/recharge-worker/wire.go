//go:build wireinject
// +build wireinject

package main

import (
	"github.com/Aru0077/elife-service/config"
	"github.com/Aru0077/elife-service/dao"
	"github.com/Aru0077/elife-service/dao/cache"
	"github.com/Aru0077/elife-service/pkg/client"
	"github.com/Aru0077/elife-service/pkg/database"
	"github.com/Aru0077/elife-service/pkg/rocketmq"
	"github.com/Aru0077/elife-service/pkg/unitel"
	"github.com/Aru0077/elife-service/service"

	"github.com/google/wire"
)

func InitWorker(cfg *config.Config) *Worker {
	wire.Build(

		database.NewDB,
		client.NewRedisClient,
		config.ProvideUnitelConfig,
		config.ProvideRocketMQConfig,
		rocketmq.InitPushConsumer,

		unitel.NewClient,
		wire.Bind(new(unitel.TokenStore), new(*cache.TokenStorage)),
		wire.Bind(new(unitel.CatalogStore), new(*cache.CatalogStorage)),
		cache.ProviderSet,

		dao.ProviderSet,
		service.WorkerProviderSet,

		wire.Struct(new(Worker), "*"),
	)
	return nil
}
