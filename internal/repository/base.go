// Package repository provides data access layer implementations for the application.
package repository

import "gorm.io/gorm"

// paginate returns a scope applying LIMIT/OFFSET from 1-based page numbers.
func paginate(page, limit int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if page < 1 {
			page = 1
		}
		if limit < 1 {
			limit = 10
		}
		return db.Limit(limit).Offset((page - 1) * limit)
	}
}
