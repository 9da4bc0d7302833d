package scope

import "gorm.io/gorm"

// Paginate limits a query to one page. Pages start at 1; non-positive values fall back to the first page of 10.
func Paginate(page, limit int) func(db *gorm.DB) *gorm.DB {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset((page - 1) * limit).Limit(limit)
	}
}

// Newest orders by column descending, breaking ties on created_at.
func Newest(column string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Order(column + " DESC")
		if column != "created_at" {
			db = db.Order("created_at DESC")
		}
		return db
	}
}
