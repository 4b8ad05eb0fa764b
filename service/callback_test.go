package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Aru0077/elife-service/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUnpaidOrder(orderNo string) *models.UnitelOrder {
	return &models.UnitelOrder{
		OrderNo:        orderNo,
		Openid:         "openid-1",
		Msisdn:         "88001234",
		OrderType:      models.OrderTypeBalance,
		AmountMnt:      5000,
		AmountCny:      11.36,
		PackageCode:    "SD5000",
		PaymentStatus:  models.PaymentStatusUnpaid,
		RechargeStatus: models.RechargeStatusPending,
	}
}

func TestHandlePaymentSuccess(t *testing.T) {
	ctx := context.Background()

	orders := newFakeOrders(newUnpaidOrder("UNI001"))
	marker := newFakeMarker()
	queue := &fakeQueue{}
	svc := &PaymentCallbackService{Orders: orders, Marker: marker, Queue: queue}

	err := svc.HandlePaymentSuccess(ctx, "tx-001", "UNI001", time.Now())
	require.NoError(t, err)

	order := orders.get("UNI001")
	assert.Equal(t, models.PaymentStatusPaid, order.PaymentStatus)
	assert.NotNil(t, order.PaidAt)
	require.Equal(t, 1, queue.count())
	assert.Equal(t, "UNI001", queue.jobs[0].OrderNo)
	assert.Equal(t, "unitel", queue.jobs[0].Operator)
}

// 微信至少投递一次，N 次重复回调只能有一次状态推进和一次入队
func TestHandlePaymentSuccessIdempotent(t *testing.T) {
	ctx := context.Background()

	orders := newFakeOrders(newUnpaidOrder("UNI002"))
	marker := newFakeMarker()
	queue := &fakeQueue{}
	svc := &PaymentCallbackService{Orders: orders, Marker: marker, Queue: queue}

	for i := 0; i < 5; i++ {
		require.NoError(t, svc.HandlePaymentSuccess(ctx, "tx-002", "UNI002", time.Now()))
	}

	assert.Equal(t, models.PaymentStatusPaid, orders.get("UNI002").PaymentStatus)
	assert.Equal(t, 1, queue.count())
}

// Redis 标记不可用时要落到数据库守卫，不能放大副作用
func TestHandlePaymentSuccessMarkerUnavailable(t *testing.T) {
	ctx := context.Background()

	orders := newFakeOrders(newUnpaidOrder("UNI003"))
	marker := newFakeMarker()
	marker.checkErr = errors.New("redis down")
	queue := &fakeQueue{}
	svc := &PaymentCallbackService{Orders: orders, Marker: marker, Queue: queue}

	require.NoError(t, svc.HandlePaymentSuccess(ctx, "tx-003", "UNI003", time.Now()))
	require.NoError(t, svc.HandlePaymentSuccess(ctx, "tx-003", "UNI003", time.Now()))

	assert.Equal(t, 1, queue.count())
}

func TestHandlePaymentSuccessOrderAlreadyProcessing(t *testing.T) {
	ctx := context.Background()

	order := newUnpaidOrder("UNI004")
	order.PaymentStatus = models.PaymentStatusPaid
	order.RechargeStatus = models.RechargeStatusProcessing
	orders := newFakeOrders(order)
	queue := &fakeQueue{}
	svc := &PaymentCallbackService{Orders: orders, Marker: newFakeMarker(), Queue: queue}

	require.NoError(t, svc.HandlePaymentSuccess(ctx, "tx-004", "UNI004", time.Now()))
	assert.Equal(t, 0, queue.count())
}

func TestHandlePaymentSuccessUnknownOrder(t *testing.T) {
	ctx := context.Background()

	svc := &PaymentCallbackService{Orders: newFakeOrders(), Marker: newFakeMarker(), Queue: &fakeQueue{}}

	// 订单不存在按失败应答让微信重投，下单和回调之间可能有主从延迟
	assert.Error(t, svc.HandlePaymentSuccess(ctx, "tx-005", "UNI-MISSING", time.Now()))
}

// 入队失败必须清掉防重标记并返回错误，否则任务就永远丢了
func TestHandlePaymentSuccessEnqueueFailure(t *testing.T) {
	ctx := context.Background()

	orders := newFakeOrders(newUnpaidOrder("UNI006"))
	marker := newFakeMarker()
	queue := &fakeQueue{enqueueErr: errors.New("nameserver unreachable")}
	svc := &PaymentCallbackService{Orders: orders, Marker: marker, Queue: queue}

	err := svc.HandlePaymentSuccess(ctx, "tx-006", "UNI006", time.Now())
	require.Error(t, err)

	processed, _ := marker.IsProcessed(ctx, "tx-006")
	assert.False(t, processed, "标记应被清除，让重投有机会重新入队")
	assert.Equal(t, models.PaymentStatusPaid, orders.get("UNI006").PaymentStatus)

	// 微信重投，此时订单已 paid 但任务未入队，应补投
	queue.enqueueErr = nil
	require.NoError(t, svc.HandlePaymentSuccess(ctx, "tx-006", "UNI006", time.Now()))
	assert.Equal(t, 1, queue.count())
}
