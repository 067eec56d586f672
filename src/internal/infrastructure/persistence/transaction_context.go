package persistence

import (
	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ===========================
// GORM TransactionContext 實作
// ===========================

// gormTransactionContext GORM 事務上下文實作
// 1. 實作 shared.TransactionContext 介面（標記介面）
// 2. 封裝 *gorm.DB，避免洩漏到 Domain Layer
type gormTransactionContext struct {
	db *gorm.DB
}

// NewGORMTransactionContext 創建 GORM 事務上下文
func NewGORMTransactionContext(db *gorm.DB) shared.TransactionContext {
	return &gormTransactionContext{db: db}
}

// GetDB 獲取 GORM DB 連接（僅供 Infrastructure Layer 內部使用）
func (ctx *gormTransactionContext) GetDB() *gorm.DB {
	return ctx.db
}

// dbProvider 可取出 *gorm.DB 的事務上下文
type dbProvider interface {
	shared.TransactionContext
	GetDB() *gorm.DB
}

// DB 從事務上下文取出 DB
//
// 行為：
//   - ctx 是 GORM 事務上下文：使用事務中的 DB
//   - ctx == nil 或其他實作：使用 fallback（auto-commit 模式）
func DB(ctx shared.TransactionContext, fallback *gorm.DB) *gorm.DB {
	if ctx != nil {
		if txCtx, ok := ctx.(dbProvider); ok {
			return txCtx.GetDB()
		}
	}
	return fallback
}

// ForUpdate 在支援的資料庫上加上 SELECT ... FOR UPDATE
//
// SQLite 不支援列鎖，寫入者本身已由資料庫序列化。
func ForUpdate(db *gorm.DB) *gorm.DB {
	if db.Dialector != nil && db.Dialector.Name() == "postgres" {
		return db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return db
}
