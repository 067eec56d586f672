package notification

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/notification"
	"go.uber.org/zap"
)

// SendManualCommand 管理員手動推播
//
// PromotionID 與 Title+Message 擇一；兩者皆有時以促銷活動為準。
type SendManualCommand struct {
	Segment     string
	PromotionID string
	Title       string
	Message     string
	CTAURL      string
}

// SendManualResult 發送統計
type SendManualResult struct {
	Sent   int
	Failed int
	Total  int
}

// SendManualUseCase 依分群發送手動推播
//
// 每位客戶只送一個訂閱（與自動推播相同的選擇規則），不更新任何冷卻時間。
type SendManualUseCase struct {
	deps     Deps
	matcher  *notification.SegmentMatcher
	notifier notifier
}

// NewSendManualUseCase 創建 Use Case 實例
func NewSendManualUseCase(deps Deps) *SendManualUseCase {
	deps = deps.withDefaults()
	return &SendManualUseCase{
		deps:     deps,
		matcher:  notification.NewSegmentMatcher(deps.Rules),
		notifier: notifier{deps: deps},
	}
}

// Execute 執行發送
func (uc *SendManualUseCase) Execute(ctx context.Context, cmd SendManualCommand) (*SendManualResult, error) {
	segment, err := notification.ParseSegment(cmd.Segment)
	if err != nil {
		return nil, err
	}
	msg, err := uc.buildMessage(cmd)
	if err != nil {
		return nil, err
	}

	ids, err := uc.deps.Subscriptions.ListSubscribedCustomerIDs(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscribed customers: %w", err)
	}

	now := uc.deps.Clock.Now()
	result := &SendManualResult{}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		target, err := uc.deps.Customers.FindByID(nil, id)
		if err != nil {
			uc.deps.Logger.Warn("skipping customer for manual push", zap.String("customer_id", id.String()), zap.Error(err))
			continue
		}
		if !uc.matcher.Matches(segment, target.Activity(), now) {
			continue
		}

		subs, err := uc.deps.Subscriptions.FindActiveByCustomer(nil, id)
		if err != nil {
			return result, fmt.Errorf("failed to load subscriptions: %w", err)
		}
		sub, ok := notification.SelectSubscription(subs)
		if !ok {
			continue
		}

		result.Total++
		if uc.notifier.deliver(ctx, id, sub, msg, notification.TypeManual).Success {
			result.Sent++
		} else {
			result.Failed++
		}
	}

	uc.deps.Logger.Info("manual push finished",
		zap.String("segment", string(segment)),
		zap.Int("sent", result.Sent),
		zap.Int("failed", result.Failed),
		zap.Int("total", result.Total),
	)
	return result, nil
}

func (uc *SendManualUseCase) buildMessage(cmd SendManualCommand) (notification.PushMessage, error) {
	if strings.TrimSpace(cmd.PromotionID) != "" {
		id, err := notification.PromotionIDFromString(cmd.PromotionID)
		if err != nil {
			return notification.PushMessage{}, err
		}
		promo, err := uc.deps.Promotions.FindByID(nil, id)
		if err != nil {
			return notification.PushMessage{}, err
		}
		fallback := notification.ManualMessage(promo.Title(), promo.Description(), "")
		return notification.MessageFromPromotion(promo, fallback), nil
	}

	title := strings.TrimSpace(cmd.Title)
	body := strings.TrimSpace(cmd.Message)
	if title == "" || body == "" {
		return notification.PushMessage{}, notification.ErrInvalidManualMessage
	}
	return notification.ManualMessage(title, body, strings.TrimSpace(cmd.CTAURL)), nil
}
