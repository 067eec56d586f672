package shared

import (
	"github.com/google/uuid"
)

// ===========================
// EntityID[T] 泛型實體 ID
// ===========================

// EntityID 以 UUID 表示的實體識別符
//
// 泛型參數 T 為標記類型（marker type），僅用於編譯期區分：
//   type CustomerMarker struct{}
//   type CustomerID = shared.EntityID[CustomerMarker]
//
// CustomerID 與 PromotionID 是不同類型，無法互相賦值或比較。
type EntityID[T any] struct {
	value uuid.UUID
}

// NewEntityID 生成新的實體 ID（UUID v4）
func NewEntityID[T any]() EntityID[T] {
	return EntityID[T]{value: uuid.New()}
}

// EntityIDFromString 從字串解析實體 ID
//
// 解析失敗時返回 errTemplate，並附加 input 上下文。
// errTemplate 由各 bounded context 提供（如 customer.ErrInvalidCustomerID）。
func EntityIDFromString[T any](s string, errTemplate *DomainError) (EntityID[T], error) {
	id, err := uuid.Parse(s)
	if err != nil {
		if errTemplate == nil {
			return EntityID[T]{}, err
		}
		return EntityID[T]{}, errTemplate.WithContext(
			"input", s,
			"parse_error", err.Error(),
		)
	}
	return EntityID[T]{value: id}, nil
}

// String 小寫 UUID 字串
func (e EntityID[T]) String() string {
	return e.value.String()
}

// Equals 比較兩個相同類型的 ID
func (e EntityID[T]) Equals(other EntityID[T]) bool {
	return e.value == other.value
}

// IsEmpty 是否為零值 ID
func (e EntityID[T]) IsEmpty() bool {
	return e.value == uuid.Nil
}
