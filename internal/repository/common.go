package repository

import "gorm.io/gorm"

// paginate limit <= 0 时返回全部
func paginate(db *gorm.DB, limit, offset int) *gorm.DB {
	if limit <= 0 {
		return db
	}
	if offset < 0 {
		offset = 0
	}
	return db.Limit(limit).Offset(offset)
}
