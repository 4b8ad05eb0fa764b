package utils

import (
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
)

var node *snowflake.Node

func init() {
	node, _ = snowflake.NewNode(1)
}

// GenerateOrderNo 生成订单号
// 格式: UNI + yyyyMMddHHmmss + 雪花ID后6位
func GenerateOrderNo() string {
	now := time.Now().Format("20060102150405")
	id := node.Generate().Int64()
	return fmt.Sprintf("UNI%s%06d", now, id%1000000)
}
