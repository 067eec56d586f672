package customer

import (
	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/shared"
)

// ===========================
// CustomerID - 客戶 ID
// ===========================

// CustomerMarker 是 CustomerID 的標記類型
type CustomerMarker struct{}

// CustomerID 客戶的唯一標識符
//
// 實現：EntityID[CustomerMarker] 的類型別名
type CustomerID = shared.EntityID[CustomerMarker]

// NewCustomerID 生成新的客戶 ID（UUID v4）
func NewCustomerID() CustomerID {
	return shared.NewEntityID[CustomerMarker]()
}

// CustomerIDFromString 從字串解析客戶 ID
//
// 使用場景：
// - JWT subject 解析
// - 從數據庫讀取
func CustomerIDFromString(s string) (CustomerID, error) {
	return shared.EntityIDFromString[CustomerMarker](s, ErrInvalidCustomerID)
}
