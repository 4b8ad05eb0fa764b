package models

import "time"

// ExchangeRate 汇率表，换算公式: MNT / rate = CNY
type ExchangeRate struct {
	ID        string    `gorm:"primaryKey;type:varchar(16)" json:"id"` // 如 MNT_CNY
	Rate      float64   `gorm:"column:rate;type:decimal(10,4);not null" json:"rate"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (ExchangeRate) TableName() string {
	return "exchange_rates"
}
