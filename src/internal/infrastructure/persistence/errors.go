package persistence

import "strings"

// IsUniqueConstraintError 判斷是否為唯一約束錯誤
//
// 支持的資料庫：
// - PostgreSQL: "duplicate key value violates unique constraint"
// - SQLite: "UNIQUE constraint failed"
func IsUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key value violates unique constraint") ||
		strings.Contains(msg, "unique constraint failed")
}

// UniqueConstraintColumn 從唯一約束錯誤中猜測欄位
//
// SQLite: "UNIQUE constraint failed: customers.email"
// PostgreSQL: `... unique constraint "idx_customers_email"`
func UniqueConstraintColumn(err error, candidates ...string) string {
	if err == nil {
		return ""
	}
	msg := strings.ToLower(err.Error())
	for _, c := range candidates {
		if strings.Contains(msg, "."+c) || strings.Contains(msg, "_"+c+`"`) || strings.Contains(msg, "_"+c+" ") {
			return c
		}
	}
	return ""
}
