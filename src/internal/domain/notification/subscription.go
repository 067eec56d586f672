package notification

import (
	"strings"
	"time"

	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/customer"
)

// ===========================
// PushSubscription
// ===========================

// PushSubscription 瀏覽器 Web Push 訂閱
//
// (customerID, endpoint) 唯一；重新訂閱會更新金鑰並重新啟用。
// 推播服務回報端點失效（404/410）時刪除。
type PushSubscription struct {
	ID         int64
	CustomerID customer.CustomerID
	Endpoint   string
	P256dh     string
	Auth       string
	Active     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewPushSubscription 驗證並建立啟用中的訂閱
func NewPushSubscription(customerID customer.CustomerID, endpoint, p256dh, auth string, now time.Time) (PushSubscription, error) {
	endpoint = strings.TrimSpace(endpoint)
	p256dh = strings.TrimSpace(p256dh)
	auth = strings.TrimSpace(auth)
	if customerID.IsEmpty() || endpoint == "" || p256dh == "" || auth == "" {
		return PushSubscription{}, ErrInvalidSubscription
	}
	if !strings.HasPrefix(endpoint, "https://") {
		return PushSubscription{}, ErrInvalidSubscription.WithContext("reason", "endpoint must be https")
	}
	return PushSubscription{
		CustomerID: customerID,
		Endpoint:   endpoint,
		P256dh:     p256dh,
		Auth:       auth,
		Active:     true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// SelectSubscription 從多個訂閱中選出一個發送目標
//
// 規則：只考慮啟用中的訂閱，取 UpdatedAt 最新者；同時間取 ID 最大者。
// 沒有可用訂閱時返回 false。
func SelectSubscription(subs []PushSubscription) (PushSubscription, bool) {
	var (
		chosen PushSubscription
		found  bool
	)
	for _, s := range subs {
		if !s.Active {
			continue
		}
		if !found ||
			s.UpdatedAt.After(chosen.UpdatedAt) ||
			(s.UpdatedAt.Equal(chosen.UpdatedAt) && s.ID > chosen.ID) {
			chosen = s
			found = true
		}
	}
	return chosen, found
}
