package notification

import (
	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/notification"
	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/shared"
	"github.com/jackyeh168/kuro_loyalty/src/internal/infrastructure/persistence"
	"gorm.io/gorm"
)

// ===========================
// LogRepositoryImpl
// ===========================

// LogRepositoryImpl 推播稽核記錄倉儲
type LogRepositoryImpl struct {
	db *gorm.DB
}

// NewLogRepository 創建推播稽核記錄倉儲
func NewLogRepository(db *gorm.DB) notification.LogRepository {
	return &LogRepositoryImpl{db: db}
}

// Append 寫入一筆稽核記錄
func (r *LogRepositoryImpl) Append(ctx shared.TransactionContext, entry notification.LogEntry) error {
	return persistence.DB(ctx, r.db).Create(logToGORM(entry)).Error
}
