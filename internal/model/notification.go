package model

import (
	"database/sql/driver"

	"github.com/goccy/go-json"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Notification 用户通知，(user_id, name) 唯一，重复写入时覆盖 payload
type Notification struct {
	ID        uint64   `gorm:"primaryKey" json:"id"`
	UserID    uint64   `gorm:"not null;uniqueIndex:idx_user_name,priority:1" json:"userId"`
	Name      string   `gorm:"type:varchar(128);not null;uniqueIndex:idx_user_name,priority:2" json:"name"`
	Timestamp float64  `gorm:"not null;index:idx_timestamp" json:"timestamp"`
	Payload   JSONText `gorm:"not null" json:"payload"`
}

func (Notification) TableName() string {
	return "notifications"
}

// GetData 将 payload 解码到 v
func (n *Notification) GetData(v any) error {
	return json.Unmarshal(n.Payload, v)
}

// JSONText 编解码同 datatypes.JSON，mysql 以外落在 text 列上。
// sqlite 的 JSON 列是数值亲和，标量 payload 会被存成整数，读回时无法 Scan
type JSONText datatypes.JSON

func (j JSONText) Value() (driver.Value, error) {
	return datatypes.JSON(j).Value()
}

func (j *JSONText) Scan(value any) error {
	return (*datatypes.JSON)(j).Scan(value)
}

func (j JSONText) MarshalJSON() ([]byte, error) {
	return datatypes.JSON(j).MarshalJSON()
}

func (j *JSONText) UnmarshalJSON(b []byte) error {
	return (*datatypes.JSON)(j).UnmarshalJSON(b)
}

func (JSONText) GormDataType() string {
	return "json"
}

func (JSONText) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "mysql" {
		return "JSON"
	}
	return "TEXT"
}
