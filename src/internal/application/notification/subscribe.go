package notification

import (
	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/customer"
	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/notification"
	"go.uber.org/zap"
)

// SubscribeCommand 瀏覽器送來的 PushSubscription JSON
type SubscribeCommand struct {
	CustomerID string
	Endpoint   string
	P256dh     string
	Auth       string
}

// SubscriptionStatus 客戶訂閱狀態
type SubscriptionStatus struct {
	Subscribed bool
	Count      int
}

// SubscriptionUseCase 訂閱 upsert 與狀態查詢
type SubscriptionUseCase struct {
	deps Deps
}

// NewSubscriptionUseCase 創建 Use Case 實例
func NewSubscriptionUseCase(deps Deps) *SubscriptionUseCase {
	return &SubscriptionUseCase{deps: deps.withDefaults()}
}

// Subscribe 依 (customer, endpoint) 新增或更新並重新啟用
func (uc *SubscriptionUseCase) Subscribe(cmd SubscribeCommand) (*notification.PushSubscription, error) {
	customerID, err := customer.CustomerIDFromString(cmd.CustomerID)
	if err != nil {
		return nil, err
	}
	if _, err := uc.deps.Customers.FindByID(nil, customerID); err != nil {
		return nil, err
	}

	sub, err := notification.NewPushSubscription(customerID, cmd.Endpoint, cmd.P256dh, cmd.Auth, uc.deps.Clock.Now())
	if err != nil {
		return nil, err
	}
	stored, err := uc.deps.Subscriptions.Upsert(nil, sub)
	if err != nil {
		return nil, err
	}

	uc.deps.Logger.Info("push subscription saved",
		zap.String("customer_id", customerID.String()),
		zap.Int64("subscription_id", stored.ID),
	)
	return &stored, nil
}

// Status 是否有啟用中的訂閱
func (uc *SubscriptionUseCase) Status(customerID string) (*SubscriptionStatus, error) {
	id, err := customer.CustomerIDFromString(customerID)
	if err != nil {
		return nil, err
	}
	subs, err := uc.deps.Subscriptions.FindActiveByCustomer(nil, id)
	if err != nil {
		return nil, err
	}
	return &SubscriptionStatus{Subscribed: len(subs) > 0, Count: len(subs)}, nil
}
