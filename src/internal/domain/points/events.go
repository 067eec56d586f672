package points

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/customer"
)

// ===========================
// PointAwarded 領域事件
// ===========================

// PointAwardedEvent 點數已發放事件
//
// 在事務提交後發布，餘額與事件記錄都已持久化。
type PointAwardedEvent struct {
	eventID    string
	customerID customer.CustomerID
	staffID    string
	newBalance int
	occurredAt time.Time
}

// NewPointAwardedEvent 創建點數已發放事件
func NewPointAwardedEvent(customerID customer.CustomerID, staffID string, newBalance int, at time.Time) *PointAwardedEvent {
	return &PointAwardedEvent{
		eventID:    uuid.New().String(),
		customerID: customerID,
		staffID:    staffID,
		newBalance: newBalance,
		occurredAt: at,
	}
}

// EventID 實現 DomainEvent 介面
func (e *PointAwardedEvent) EventID() string {
	return e.eventID
}

// EventType 實現 DomainEvent 介面
func (e *PointAwardedEvent) EventType() string {
	return "points.awarded"
}

// OccurredAt 實現 DomainEvent 介面
func (e *PointAwardedEvent) OccurredAt() time.Time {
	return e.occurredAt
}

// AggregateID 實現 DomainEvent 介面
func (e *PointAwardedEvent) AggregateID() string {
	return e.customerID.String()
}

// StaffID 發點的店員
func (e *PointAwardedEvent) StaffID() string {
	return e.staffID
}

// NewBalance 發點後餘額
func (e *PointAwardedEvent) NewBalance() int {
	return e.newBalance
}

// ===========================
// PointDenied 領域事件
// ===========================

// PointDeniedEvent 冷卻期內掃描被拒
type PointDeniedEvent struct {
	eventID           string
	customerID        customer.CustomerID
	retryAfterMinutes int
	occurredAt        time.Time
}

// NewPointDeniedEvent 創建拒絕事件
func NewPointDeniedEvent(customerID customer.CustomerID, retryAfterMinutes int, at time.Time) *PointDeniedEvent {
	return &PointDeniedEvent{
		eventID:           uuid.New().String(),
		customerID:        customerID,
		retryAfterMinutes: retryAfterMinutes,
		occurredAt:        at,
	}
}

func (e *PointDeniedEvent) EventID() string       { return e.eventID }
func (e *PointDeniedEvent) EventType() string     { return "points.denied" }
func (e *PointDeniedEvent) OccurredAt() time.Time { return e.occurredAt }
func (e *PointDeniedEvent) AggregateID() string   { return e.customerID.String() }

// RetryAfterMinutes 剩餘冷卻分鐘數
func (e *PointDeniedEvent) RetryAfterMinutes() int {
	return e.retryAfterMinutes
}
