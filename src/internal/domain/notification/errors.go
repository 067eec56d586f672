package notification

import "github.com/jackyeh168/kuro_loyalty/src/internal/domain/shared"

// ===========================
// 推播錯誤定義
// ===========================

var (
	ErrPromotionNotFound = &shared.DomainError{
		Code:    shared.ErrCodeNotFound,
		Message: "促銷活動不存在",
	}

	ErrInvalidPromotionID = &shared.DomainError{
		Code:    shared.ErrCodeValidation,
		Message: "無效的促銷活動 ID",
	}

	ErrInvalidPromotion = &shared.DomainError{
		Code:    shared.ErrCodeValidation,
		Message: "促銷活動資料無效",
	}

	ErrInvalidAudience = &shared.DomainError{
		Code:    shared.ErrCodeValidation,
		Message: "受眾必須為 ALL、NEARBY 或 REACTIVATION",
	}

	ErrInvalidSubscription = &shared.DomainError{
		Code:    shared.ErrCodeValidation,
		Message: "推播訂閱資料不完整",
	}

	ErrInvalidSegment = &shared.DomainError{
		Code:    shared.ErrCodeValidation,
		Message: "分群必須為 all、inactive_36h、inactive_56h 或 nearby",
	}

	ErrInvalidManualMessage = &shared.DomainError{
		Code:    shared.ErrCodeValidation,
		Message: "需要 promotionId 或 title + message",
	}
)

// 推播結果分類
var (
	ErrTransientDispatch = shared.ErrTransientDispatchFailure
	ErrSubscriptionGone  = shared.ErrPermanentSubscriptionFailure
)
