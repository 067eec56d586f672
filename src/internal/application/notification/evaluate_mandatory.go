package notification

import (
	"context"
	"fmt"

	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/customer"
	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/notification"
	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/shared"
	"go.uber.org/zap"
)

// ===========================
// EvaluateMandatory Use Case
// ===========================

// SweepResult 全體掃描統計
type SweepResult struct {
	Evaluated int
	Sent      int
	Skipped   int
	Failed    int
}

// EvaluateMandatoryUseCase 召回推播評估
//
// 規則（依序）：
// 1. lastMandatoryPushAt 未滿 56h → mandatory_cooldown
// 2. lastPointAt 在 12h 內（含）→ recent_point
// 3. 沒有啟用中的訂閱 → no_subscription
// 4. 發送 REACTIVATION/ALL 促銷或預設內容；成功才更新 lastMandatoryPushAt
type EvaluateMandatoryUseCase struct {
	deps     Deps
	rule     *notification.MandatoryRule
	notifier notifier
}

// NewEvaluateMandatoryUseCase 創建 Use Case 實例
func NewEvaluateMandatoryUseCase(deps Deps) *EvaluateMandatoryUseCase {
	deps = deps.withDefaults()
	return &EvaluateMandatoryUseCase{
		deps:     deps,
		rule:     notification.NewMandatoryRule(deps.Rules),
		notifier: notifier{deps: deps},
	}
}

// Execute 評估單一客戶
func (uc *EvaluateMandatoryUseCase) Execute(ctx context.Context, customerID string) (*EvaluationResult, error) {
	id, err := customer.CustomerIDFromString(customerID)
	if err != nil {
		return nil, err
	}
	return uc.evaluate(ctx, id)
}

// Sweep 依序評估所有有啟用中訂閱的客戶
//
// 單一客戶失敗只計入 Failed，不中斷掃描；ctx 取消時提前結束。
func (uc *EvaluateMandatoryUseCase) Sweep(ctx context.Context) (*SweepResult, error) {
	ids, err := uc.deps.Subscriptions.ListSubscribedCustomerIDs(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscribed customers: %w", err)
	}

	summary := &SweepResult{}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		summary.Evaluated++

		result, err := uc.evaluate(ctx, id)
		switch {
		case err != nil:
			summary.Failed++
			uc.deps.Logger.Error("mandatory evaluation failed", zap.String("customer_id", id.String()), zap.Error(err))
		case result.Sent:
			summary.Sent++
		case result.Eligible:
			summary.Failed++
		default:
			summary.Skipped++
		}
	}

	uc.deps.Logger.Info("mandatory sweep finished",
		zap.Int("evaluated", summary.Evaluated),
		zap.Int("sent", summary.Sent),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed),
	)
	return summary, nil
}

func (uc *EvaluateMandatoryUseCase) evaluate(ctx context.Context, customerID customer.CustomerID) (*EvaluationResult, error) {
	unlock := uc.deps.Locker.Lock(customerID.String())
	defer unlock()

	now := uc.deps.Clock.Now()
	result := &EvaluationResult{CustomerID: customerID.String()}

	target, err := uc.deps.Customers.FindByID(nil, customerID)
	if err != nil {
		return nil, err
	}

	eligibility := uc.rule.Evaluate(target.Activity(), now)
	if !eligibility.Eligible {
		result.Reason = string(eligibility.Reason)
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

	msg, err := uc.notifier.pickMessage(notification.AudienceReactivation, notification.ReactivationFallback(), now)
	if err != nil {
		return nil, fmt.Errorf("failed to select promotion: %w", err)
	}
	result.PromotionID = msg.PromotionID

	dispatch := uc.notifier.deliver(ctx, customerID, sub, msg, notification.TypeMandatory56h)
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
		locked.RecordMandatoryPush(now)
		return uc.deps.Customers.Update(tx, locked)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record mandatory push: %w", err)
	}

	result.Sent = true
	return result, nil
}
