package service

import (
	"context"
	"errors"

	"github.com/Aru0077/elife-service/config"
	"github.com/Aru0077/elife-service/dao"
)

var _ IExchangeRateService = (*ExchangeRateService)(nil)

type IExchangeRateService interface {
	// Rate 当前汇率，含义为多少 MNT 兑换 1 CNY
	Rate(ctx context.Context) (float64, error)
}

type ExchangeRateService struct {
	Rates dao.ExchangeRateRepository
	Cfg   *config.ExchangeRateConfig
}

func (s *ExchangeRateService) Rate(ctx context.Context) (float64, error) {
	record, err := s.Rates.Find(ctx, s.Cfg.RateID)
	if err != nil {
		return 0, err
	}
	if record.Rate <= 0 {
		return 0, errors.New("汇率配置异常: " + s.Cfg.RateID)
	}
	return record.Rate, nil
}
