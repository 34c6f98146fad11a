package kafka

import (
	"fmt"
	"strconv"
	"time"
)

// canal 事件类型
const (
	INSERT = "INSERT"
	UPDATE = "UPDATE"
	DELETE = "DELETE"
)

// CanalMessage 定义了 Canal 推送到 Kafka 的 JSON 数据结构
type CanalMessage struct {
	ID       int64    `json:"id"`
	Database string   `json:"database"`
	Table    string   `json:"table"`
	PKNames  []string `json:"pkNames"`
	IsDDL    bool     `json:"isDdl"`
	Type     string   `json:"type"`
	ES       int64    `json:"es"`
	TS       int64    `json:"ts"`
	SQL      string   `json:"sql"`

	// Data 存储变更后的数据
	Data []map[string]interface{} `json:"data"`

	// Old 存储变更前的数据
	Old []map[string]interface{} `json:"old"`
}

// canal flat message 中的值统一是字符串，这里兼容数字
func StrToString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}

func StrToUint64(v interface{}) uint64 {
	switch val := v.(type) {
	case float64:
		return uint64(val)
	default:
		n, _ := strconv.ParseUint(StrToString(v), 10, 64)
		return n
	}
}

// StrToDateTime 数据库时间按 UTC 存储
func StrToDateTime(v interface{}) time.Time {
	t, err := time.ParseInLocation(time.DateTime, StrToString(v), time.UTC)
	if err != nil {
		return time.Time{}
	}
	return t
}
