package rocketmq

import (
	"context"
	"encoding/json"

	"github.com/Aru0077/elife-service/config"
	"github.com/Aru0077/elife-service/pkg/log"
	"github.com/Aru0077/elife-service/types"
	"github.com/apache/rocketmq-client-go/v2"
	"github.com/apache/rocketmq-client-go/v2/consumer"
	"github.com/apache/rocketmq-client-go/v2/primitive"
	"github.com/apache/rocketmq-client-go/v2/producer"
	"github.com/apache/rocketmq-client-go/v2/rlog"
	"go.uber.org/zap"
)

func init() {
	rlog.SetLogLevel("error")
}

func InitProducer(cfg *config.RocketMQConfig) rocketmq.Producer {
	p, err := rocketmq.NewProducer(
		producer.WithNameServer(cfg.NameServer),
		producer.WithGroupName(cfg.Producer.Group),
		producer.WithRetry(cfg.Producer.Retry),
	)
	if err != nil {
		panic(err)
	}
	if err = p.Start(); err != nil {
		panic(err)
	}
	log.L.Info("init producer success")

	return p
}

// InitPushConsumer 充值任务消费者
// MaxReconsumeTimes 0：消费失败不自动重投，恢复动作只能人工重新入队
func InitPushConsumer(cfg *config.RocketMQConfig) rocketmq.PushConsumer {
	c, err := rocketmq.NewPushConsumer(
		consumer.WithNameServer(cfg.NameServer),
		consumer.WithGroupName(cfg.Consumer.Group),
		consumer.WithConsumerModel(consumer.Clustering),
		consumer.WithMaxReconsumeTimes(0),
	)
	if err != nil {
		panic(err)
	}

	return c
}

// Queue 充值任务队列
type Queue struct {
	producer rocketmq.Producer
	topic    string
}

func NewQueue(p rocketmq.Producer, cfg *config.RocketMQConfig) *Queue {
	return &Queue{producer: p, topic: cfg.RechargeTopic}
}

// EnqueueRechargeJob 发送充值任务，消息 Key 为订单号
func (q *Queue) EnqueueRechargeJob(ctx context.Context, job *types.RechargeJob) error {
	body, err := json.Marshal(job)
	if err != nil {
		return err
	}

	msg := primitive.NewMessage(q.topic, body)
	msg.WithKeys([]string{job.OrderNo})

	res, err := q.producer.SendSync(ctx, msg)
	if err != nil {
		return err
	}
	log.L.Info("recharge job enqueued",
		zap.String("orderNo", job.OrderNo),
		zap.String("msgId", res.MsgID))
	return nil
}
