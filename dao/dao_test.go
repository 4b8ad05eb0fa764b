package dao

import (
	"fmt"
	"testing"

	"github.com/Aru0077/elife-service/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB 每个测试独立的内存库
// cache=shared 保证连接池里的连接看到同一份数据
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(&models.UnitelOrder{}, &models.RechargeLog{}, &models.ExchangeRate{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}
