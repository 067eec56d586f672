package points

import (
	"time"

	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/customer"
)

// ===========================
// LoyaltyBalance
// ===========================

// LoyaltyBalance 客戶點數餘額
//
// 不變條件：
// - 每位客戶一列（customer_id 唯一）
// - points >= 0，只透過原子遞增修改
//
// 與 Customer 聚合分離：遞增以單一 UPDATE 完成，
// 不經過載入、修改、儲存的流程。
type LoyaltyBalance struct {
	customerID customer.CustomerID
	points     PointsAmount
	updatedAt  time.Time
}

// NewLoyaltyBalance 建立初始為 0 的餘額
func NewLoyaltyBalance(customerID customer.CustomerID, now time.Time) *LoyaltyBalance {
	return &LoyaltyBalance{
		customerID: customerID,
		points:     newPointsAmountUnchecked(0),
		updatedAt:  now,
	}
}

// ReconstructLoyaltyBalance 從資料庫重建
func ReconstructLoyaltyBalance(customerID customer.CustomerID, points int, updatedAt time.Time) (*LoyaltyBalance, error) {
	amount, err := NewPointsAmount(points)
	if err != nil {
		return nil, err
	}
	return &LoyaltyBalance{
		customerID: customerID,
		points:     amount,
		updatedAt:  updatedAt,
	}, nil
}

func (b *LoyaltyBalance) CustomerID() customer.CustomerID { return b.customerID }
func (b *LoyaltyBalance) Points() PointsAmount            { return b.points }
func (b *LoyaltyBalance) UpdatedAt() time.Time            { return b.updatedAt }
