package notification

import (
	"context"
	"errors"
)

// DispatchResult 單一訂閱的推播結果
//
// PermanentFailure 為 true 時端點已失效，呼叫端應刪除訂閱。
type DispatchResult struct {
	Success          bool
	PermanentFailure bool
	StatusCode       int
	Err              error
}

// Classify 將結果轉為錯誤分類（成功時為 nil）
func (r DispatchResult) Classify() error {
	if r.Success {
		return nil
	}
	base := ErrTransientDispatch
	if r.PermanentFailure {
		base = ErrSubscriptionGone
	}
	if r.Err == nil {
		return base.WithContext("status_code", r.StatusCode)
	}
	return errors.Join(base.WithContext("status_code", r.StatusCode), r.Err)
}

// PushDispatcher 推播傳送介面（Infrastructure 以 Web Push 實作）
type PushDispatcher interface {
	Send(ctx context.Context, sub PushSubscription, msg PushMessage) DispatchResult
}
