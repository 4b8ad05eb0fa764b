package dao

import (
	"context"
	"errors"

	"github.com/Aru0077/elife-service/models"
	"gorm.io/gorm"
)

// ErrExchangeRateNotFound 汇率记录不存在
var ErrExchangeRateNotFound = errors.New("exchange rate not found")

type ExchangeRateRepository interface {
	Find(ctx context.Context, id string) (*models.ExchangeRate, error)
}

type ExchangeRateDao struct {
	Repo[models.ExchangeRate]
}

var _ ExchangeRateRepository = (*ExchangeRateDao)(nil)

func NewExchangeRateDao(db *gorm.DB) *ExchangeRateDao {
	return &ExchangeRateDao{Repo: NewRepo[models.ExchangeRate](db)}
}

func (d *ExchangeRateDao) Find(ctx context.Context, id string) (*models.ExchangeRate, error) {
	var rate models.ExchangeRate
	err := d.Db.WithContext(ctx).Where("id = ?", id).First(&rate).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrExchangeRateNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rate, nil
}
