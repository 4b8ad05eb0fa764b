package service

import (
	"context"
	"testing"

	"github.com/Aru0077/elife-service/config"
	"github.com/Aru0077/elife-service/dao"
	"github.com/Aru0077/elife-service/models"
	"github.com/Aru0077/elife-service/pkg/unitel"
	"github.com/Aru0077/elife-service/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrderPriceFromCatalog(t *testing.T) {
	ctx := context.Background()

	orders := newFakeOrders()
	catalog := &fakeCatalog{pkg: &unitel.PackageDetail{
		Code:  "SD5000",
		Name:  "Энгийн 5000",
		Price: 5000,
		Type:  "balance",
		Unit:  5000,
	}}
	svc := &UnitelOrderService{
		Orders:   orders,
		Unitel:   catalog,
		Exchange: &fakeExchange{rate: 440},
	}

	order, err := svc.CreateOrder(ctx, "openid-1", &types.CreateOrderRequest{
		Msisdn:      "88001234",
		OrderType:   models.OrderTypeBalance,
		PackageCode: "SD5000",
	})
	require.NoError(t, err)

	// 金额来自实时资费而非客户端，5000 MNT / 440 = 11.36 CNY
	assert.Equal(t, 5000.0, order.AmountMnt)
	assert.Equal(t, 11.36, order.AmountCny)
	assert.Equal(t, 440.0, order.ExchangeRate)
	assert.Equal(t, models.PaymentStatusUnpaid, order.PaymentStatus)
	assert.Equal(t, models.RechargeStatusPending, order.RechargeStatus)
	assert.Equal(t, "0", order.VatFlag)
	assert.NotEmpty(t, order.OrderNo)
}

func TestCreateOrderPackageNotFound(t *testing.T) {
	ctx := context.Background()

	svc := &UnitelOrderService{
		Orders:   newFakeOrders(),
		Unitel:   &fakeCatalog{pkgErr: unitel.ErrPackageNotFound},
		Exchange: &fakeExchange{rate: 440},
	}

	_, err := svc.CreateOrder(ctx, "openid-1", &types.CreateOrderRequest{
		Msisdn:      "88001234",
		OrderType:   models.OrderTypeBalance,
		PackageCode: "NOPE",
	})
	assert.ErrorIs(t, err, unitel.ErrPackageNotFound)
}

func TestCreateOrderZeroPrice(t *testing.T) {
	ctx := context.Background()

	svc := &UnitelOrderService{
		Orders:   newFakeOrders(),
		Unitel:   &fakeCatalog{pkg: &unitel.PackageDetail{Code: "2025.09", Price: 0, Type: "invoice"}},
		Exchange: &fakeExchange{rate: 440},
	}

	_, err := svc.CreateOrder(ctx, "openid-1", &types.CreateOrderRequest{
		Msisdn:      "88001234",
		OrderType:   models.OrderTypeInvoice,
		PackageCode: "2025.09",
	})
	assert.Error(t, err)
}

func TestGetOrderOwnership(t *testing.T) {
	ctx := context.Background()

	order := newUnpaidOrder("UNI200")
	svc := &UnitelOrderService{
		Orders:   newFakeOrders(order),
		Unitel:   &fakeCatalog{},
		Exchange: &fakeExchange{rate: 440},
	}

	got, err := svc.GetOrder(ctx, "openid-1", "UNI200")
	require.NoError(t, err)
	assert.Equal(t, "UNI200", got.OrderNo)

	// 他人订单按不存在处理
	_, err = svc.GetOrder(ctx, "openid-other", "UNI200")
	assert.ErrorIs(t, err, dao.ErrOrderNotFound)
}

func TestExchangeRateMisconfigured(t *testing.T) {
	ctx := context.Background()

	svc := &ExchangeRateService{
		Rates: &stubRates{rate: &models.ExchangeRate{ID: "MNT_CNY", Rate: 0}},
		Cfg:   &config.ExchangeRateConfig{RateID: "MNT_CNY"},
	}
	_, err := svc.Rate(ctx)
	assert.Error(t, err)
}

type stubRates struct {
	rate *models.ExchangeRate
}

func (s *stubRates) Find(ctx context.Context, id string) (*models.ExchangeRate, error) {
	return s.rate, nil
}
