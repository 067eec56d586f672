package points

import (
	"time"

	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/customer"
	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/shared"
)

// ===========================
// Repository 介面
// ===========================

// BalanceRepository 點數餘額倉儲
//
// 寫操作必須在事務中：
//   txManager.InTransaction(func(ctx shared.TransactionContext) error {
//       if err := repo.EnsureExists(ctx, customerID); err != nil { ... }
//       affected, err := repo.Increment(ctx, customerID, 1)
//       ...
//   })
type BalanceRepository interface {
	// EnsureExists 若餘額列不存在則以 0 建立（重複呼叫安全）
	EnsureExists(ctx shared.TransactionContext, customerID customer.CustomerID) error

	// Increment 原子遞增 points，返回受影響列數
	Increment(ctx shared.TransactionContext, customerID customer.CustomerID, delta int) (int64, error)

	// FindByCustomerID 查找餘額，找不到返回 ErrBalanceNotFound
	FindByCustomerID(ctx shared.TransactionContext, customerID customer.CustomerID) (*LoyaltyBalance, error)

	// FindByCustomerIDs 批次查找，缺少的客戶不在結果中
	FindByCustomerIDs(ctx shared.TransactionContext, ids []customer.CustomerID) (map[string]int, error)
}

// PointEventRepository 點數事件倉儲（append-only）
type PointEventRepository interface {
	// Append 新增事件，返回帶 ID 的事件
	Append(ctx shared.TransactionContext, event PointEvent) (PointEvent, error)

	// FindLatestBySource 依 created_at DESC, id DESC 取最新一筆
	// 沒有事件時返回 (nil, nil)
	FindLatestBySource(ctx shared.TransactionContext, customerID customer.CustomerID, source PointSource) (*PointEvent, error)

	// ListByCustomer 依時間倒序列出
	ListByCustomer(ctx shared.TransactionContext, customerID customer.CustomerID, limit int) ([]PointEvent, error)

	// CountBySourceSince 統計某時間之後的事件數（儀表板）
	CountBySourceSince(ctx shared.TransactionContext, source PointSource, since time.Time) (int64, error)
}
