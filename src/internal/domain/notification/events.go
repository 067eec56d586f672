package notification

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/customer"
)

// PushDispatchedEvent 一次推播嘗試的結果（成功或失敗都會發布）
type PushDispatchedEvent struct {
	eventID    string
	customerID customer.CustomerID
	kind       NotificationType
	result     DispatchResult
	occurredAt time.Time
}

// NewPushDispatchedEvent 創建推播結果事件
func NewPushDispatchedEvent(customerID customer.CustomerID, kind NotificationType, result DispatchResult, at time.Time) *PushDispatchedEvent {
	return &PushDispatchedEvent{
		eventID:    uuid.New().String(),
		customerID: customerID,
		kind:       kind,
		result:     result,
		occurredAt: at,
	}
}

func (e *PushDispatchedEvent) EventID() string       { return e.eventID }
func (e *PushDispatchedEvent) EventType() string     { return "push.dispatched" }
func (e *PushDispatchedEvent) OccurredAt() time.Time { return e.occurredAt }
func (e *PushDispatchedEvent) AggregateID() string   { return e.customerID.String() }

// Kind 推播類型
func (e *PushDispatchedEvent) Kind() NotificationType {
	return e.kind
}

// Outcome 結果標籤：sent / failed / gone
func (e *PushDispatchedEvent) Outcome() string {
	switch {
	case e.result.Success:
		return "sent"
	case e.result.PermanentFailure:
		return "gone"
	}
	return "failed"
}
