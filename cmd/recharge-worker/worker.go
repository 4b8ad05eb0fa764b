package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/Aru0077/elife-service/config"
	"github.com/Aru0077/elife-service/pkg/log"
	"github.com/Aru0077/elife-service/service"
	"github.com/Aru0077/elife-service/types"
	"github.com/apache/rocketmq-client-go/v2"
	"github.com/apache/rocketmq-client-go/v2/consumer"
	"github.com/apache/rocketmq-client-go/v2/primitive"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

// Worker 充值任务消费进程
type Worker struct {
	Config   *config.Config
	Consumer rocketmq.PushConsumer
	Service  service.IRechargeService
}

func (w *Worker) Run(ctx *cli.Context) error {
	topic := w.Config.RocketMQ.RechargeTopic
	if err := w.Consumer.Subscribe(topic, consumer.MessageSelector{}, w.handle); err != nil {
		return err
	}
	if err := w.Consumer.Start(); err != nil {
		return err
	}

	log.L.Info("recharge worker started", zap.String("topic", topic))

	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGINT)
	<-c

	log.L.Info("recharge worker stopping")
	return w.Consumer.Shutdown()
}

// handle 消息处理
// 任何结果都返回 ConsumeSuccess：重投可能造成二次扣费，失败单走人工恢复
func (w *Worker) handle(ctx context.Context, msgs ...*primitive.MessageExt) (consumer.ConsumeResult, error) {
	for _, msg := range msgs {
		var job types.RechargeJob
		if err := json.Unmarshal(msg.Body, &job); err != nil {
			log.L.Error("invalid recharge job payload",
				zap.String("msgId", msg.MsgId), zap.Error(err))
			continue
		}

		if err := w.Service.Process(ctx, &job); err != nil {
			log.L.Error("process recharge job failed",
				zap.String("orderNo", job.OrderNo), zap.Error(err))
		}
	}
	return consumer.ConsumeSuccess, nil
}
