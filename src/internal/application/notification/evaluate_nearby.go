package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/customer"
	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/notification"
	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/shared"
	"go.uber.org/zap"
)

// ===========================
// EvaluateNearby Use Case
// ===========================

// EvaluateNearbyCommand 依客戶回報位置評估附近推播
type EvaluateNearbyCommand struct {
	CustomerID string
	Lat        float64
	Lng        float64
}

// EvaluateNearbyUseCase 附近推播評估
//
// 規則（依序）：
// 1. 距場館 > 半徑 → too_far（半徑本身算在範圍內）
// 2. lastPointAt 在 36h 內（含）→ recent_point
// 3. lastNearbyPushAt 在 12h 內（含）→ nearby_cooldown
// 4. 沒有啟用中的訂閱 → no_subscription
// 5. 發送 NEARBY/ALL 促銷或預設內容；成功才更新 lastNearbyPushAt
type EvaluateNearbyUseCase struct {
	deps     Deps
	rule     *notification.NearbyRule
	notifier notifier
}

// NewEvaluateNearbyUseCase 創建 Use Case 實例
func NewEvaluateNearbyUseCase(deps Deps) *EvaluateNearbyUseCase {
	deps = deps.withDefaults()
	return &EvaluateNearbyUseCase{
		deps:     deps,
		rule:     notification.NewNearbyRule(deps.Rules),
		notifier: notifier{deps: deps},
	}
}

// Execute 評估並在符合資格時發送
func (uc *EvaluateNearbyUseCase) Execute(ctx context.Context, cmd EvaluateNearbyCommand) (*EvaluationResult, error) {
	customerID, err := customer.CustomerIDFromString(cmd.CustomerID)
	if err != nil {
		return nil, err
	}
	if _, err := customer.NewLocation(cmd.Lat, cmd.Lng, time.Time{}); err != nil {
		return nil, err
	}

	unlock := uc.deps.Locker.Lock(customerID.String())
	defer unlock()

	now := uc.deps.Clock.Now()
	result := &EvaluationResult{CustomerID: customerID.String()}

	target, err := uc.deps.Customers.FindByID(nil, customerID)
	if err != nil {
		return nil, err
	}

	eligibility := uc.rule.Evaluate(target.Activity(), notification.Coordinate{Lat: cmd.Lat, Lng: cmd.Lng}, now)
	result.DistanceKm = eligibility.DistanceKm
	if !eligibility.Eligible {
		result.Reason = string(eligibility.Reason)
		uc.deps.Logger.Debug("nearby push not eligible",
			zap.String("customer_id", customerID.String()),
			zap.String("reason", result.Reason),
			zap.Float64("distance_km", eligibility.DistanceKm),
		)
		return result, nil
	}

	subs, err := uc.deps.Subscriptions.FindActiveByCustomer(nil, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load subscriptions: %w", err)
	}
	sub, ok := notification.SelectSubscription(subs)
	if !ok {
		result.Reason = string(notification.ReasonNoSubscription)
		return result, nil
	}
	result.Eligible = true

	msg, err := uc.notifier.pickMessage(notification.AudienceNearby, notification.NearbyFallback(), now)
	if err != nil {
		return nil, fmt.Errorf("failed to select promotion: %w", err)
	}
	result.PromotionID = msg.PromotionID

	dispatch := uc.notifier.deliver(ctx, customerID, sub, msg, notification.TypeNearby)
	if !dispatch.Success {
		if err := dispatch.Classify(); err != nil {
			result.Error = err.Error()
		}
		return result, nil
	}

	err = uc.deps.TxManager.InTransaction(func(tx shared.TransactionContext) error {
		locked, err := uc.deps.Customers.FindByIDForUpdate(tx, customerID)
		if err != nil {
			return err
		}
		locked.RecordNearbyPush(now)
		return uc.deps.Customers.Update(tx, locked)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record nearby push: %w", err)
	}

	result.Sent = true
	return result, nil
}
