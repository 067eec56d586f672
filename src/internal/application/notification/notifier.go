package notification

import (
	"context"
	"errors"
	"time"

	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/customer"
	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/notification"
	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/shared"
	"go.uber.org/zap"
)

// Deps 推播 Use Case 共用依賴
type Deps struct {
	Customers     customer.CustomerRepository
	Subscriptions notification.SubscriptionRepository
	Promotions    notification.PromotionRepository
	Logs          notification.LogRepository
	Dispatcher    notification.PushDispatcher
	TxManager     shared.TransactionManager
	Locker        shared.KeyedLocker
	Clock         shared.Clock
	Publisher     shared.EventPublisher
	Logger        *zap.Logger
	Rules         notification.RuleConfig
}

func (d Deps) withDefaults() Deps {
	if d.Clock == nil {
		d.Clock = shared.SystemClock{}
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Rules == (notification.RuleConfig{}) {
		d.Rules = notification.DefaultRuleConfig()
	}
	return d
}

// EvaluationResult 單一客戶規則評估結果
//
// Sent 為 false 不代表請求失敗：可能是不符資格（Reason）或推播失敗（Error）。
type EvaluationResult struct {
	CustomerID  string
	Eligible    bool
	Sent        bool
	Reason      string
	DistanceKm  float64
	PromotionID string
	Error       string
}

// notifier 發送、稽核、處理失效訂閱
type notifier struct {
	deps Deps
}

// deliver 送出一則推播並處理結果
//
// 1. 透過 PushDispatcher 發送
// 2. 寫入稽核記錄（失敗只記錄 log，不影響結果）
// 3. 端點失效時刪除訂閱，刪除失敗改為停用
// 4. 發布 PushDispatchedEvent
func (n notifier) deliver(
	ctx context.Context,
	customerID customer.CustomerID,
	sub notification.PushSubscription,
	msg notification.PushMessage,
	kind notification.NotificationType,
) notification.DispatchResult {
	result := n.deps.Dispatcher.Send(ctx, sub, msg)
	now := n.deps.Clock.Now()
	log := n.deps.Logger.With(
		zap.String("customer_id", customerID.String()),
		zap.String("type", string(kind)),
		zap.Int64("subscription_id", sub.ID),
	)

	entry := notification.NewLogEntry(customerID, kind, msg, result, now)
	if err := n.deps.Logs.Append(nil, entry); err != nil {
		log.Warn("failed to append notification log", zap.Error(err))
	}

	if classified := result.Classify(); classified != nil {
		log.Warn("push dispatch failed", zap.Int("status_code", result.StatusCode), zap.Error(classified))
		if errors.Is(classified, notification.ErrSubscriptionGone) {
			n.removeSubscription(sub, log)
		}
	} else {
		log.Info("push dispatched", zap.String("promotion_id", msg.PromotionID))
	}

	if n.deps.Publisher != nil {
		if err := n.deps.Publisher.Publish(notification.NewPushDispatchedEvent(customerID, kind, result, now)); err != nil {
			log.Warn("failed to publish event", zap.Error(err))
		}
	}
	return result
}

func (n notifier) removeSubscription(sub notification.PushSubscription, log *zap.Logger) {
	err := n.deps.Subscriptions.Delete(nil, sub.ID)
	if err == nil {
		log.Info("expired subscription deleted")
		return
	}
	log.Warn("failed to delete expired subscription, deactivating", zap.Error(err))
	if err := n.deps.Subscriptions.Deactivate(nil, sub.ID, n.deps.Clock.Now()); err != nil {
		log.Error("failed to deactivate expired subscription", zap.Error(err))
	}
}

// pickMessage 依受眾選出促銷活動，沒有時使用 fallback
func (n notifier) pickMessage(preferred notification.Audience, fallback notification.PushMessage, now time.Time) (notification.PushMessage, error) {
	live, err := n.deps.Promotions.ListLive(nil, now)
	if err != nil {
		return notification.PushMessage{}, err
	}
	return notification.MessageFromPromotion(notification.SelectPromotion(live, preferred, now), fallback), nil
}
