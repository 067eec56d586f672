package notification

import (
	"time"

	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/customer"
	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/shared"
)

// ===========================
// Repository 介面
// ===========================

// SubscriptionRepository 推播訂閱倉儲
type SubscriptionRepository interface {
	// Upsert 依 (customer_id, endpoint) 新增或更新金鑰並重新啟用
	Upsert(ctx shared.TransactionContext, sub PushSubscription) (PushSubscription, error)

	// FindActiveByCustomer 列出客戶所有啟用中的訂閱
	FindActiveByCustomer(ctx shared.TransactionContext, customerID customer.CustomerID) ([]PushSubscription, error)

	// ListSubscribedCustomerIDs 有啟用中訂閱的客戶（去重、依 ID 排序）
	ListSubscribedCustomerIDs(ctx shared.TransactionContext) ([]customer.CustomerID, error)

	// Delete 刪除訂閱
	Delete(ctx shared.TransactionContext, id int64) error

	// Deactivate 停用訂閱（刪除失敗時的後備）
	Deactivate(ctx shared.TransactionContext, id int64, at time.Time) error
}

// PromotionRepository 促銷活動倉儲
type PromotionRepository interface {
	Save(ctx shared.TransactionContext, p *Promotion) error
	Update(ctx shared.TransactionContext, p *Promotion) error
	FindByID(ctx shared.TransactionContext, id PromotionID) (*Promotion, error)

	// ListAll 依建立時間倒序
	ListAll(ctx shared.TransactionContext) ([]*Promotion, error)

	// ListLive 啟用中且在有效期間內，依建立時間倒序
	ListLive(ctx shared.TransactionContext, now time.Time) ([]*Promotion, error)
}

// LogRepository 推播稽核記錄倉儲（append-only）
type LogRepository interface {
	Append(ctx shared.TransactionContext, entry LogEntry) error
}
