package notification

import (
	"time"

	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/customer"
)

// NotificationType 推播類型標籤
type NotificationType string

const (
	TypeNearby       NotificationType = "NEARBY"
	TypeMandatory56h NotificationType = "MANDATORY_56H"
	TypeManual       NotificationType = "MANUAL"
)

// LogEntry 推播嘗試的稽核記錄（append-only，只供觀測）
type LogEntry struct {
	CustomerID   customer.CustomerID
	PromotionID  string
	Type         NotificationType
	Title        string
	Message      string
	CTAURL       string
	Success      bool
	StatusCode   int
	ErrorMessage string
	CreatedAt    time.Time
}

// NewLogEntry 由推播結果建立稽核記錄
func NewLogEntry(customerID customer.CustomerID, kind NotificationType, msg PushMessage, result DispatchResult, at time.Time) LogEntry {
	entry := LogEntry{
		CustomerID:  customerID,
		PromotionID: msg.PromotionID,
		Type:        kind,
		Title:       msg.Title,
		Message:     msg.Body,
		CTAURL:      msg.URL,
		Success:     result.Success,
		StatusCode:  result.StatusCode,
		CreatedAt:   at,
	}
	if result.Err != nil {
		entry.ErrorMessage = result.Err.Error()
	}
	return entry
}
