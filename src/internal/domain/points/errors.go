package points

import "github.com/jackyeh168/kuro_loyalty/src/internal/domain/shared"

// ===========================
// 點數錯誤定義
// ===========================

var (
	// ErrNegativePointsAmount 點數不能為負數
	ErrNegativePointsAmount = &shared.DomainError{
		Code:    shared.ErrCodeValidation,
		Message: "點數數量不能為負數",
	}

	// ErrPointsOverflow 點數溢位
	ErrPointsOverflow = &shared.DomainError{
		Code:    shared.ErrCodeInternal,
		Message: "點數數量溢位",
	}

	// ErrBalanceNotFound 餘額記錄不存在
	ErrBalanceNotFound = &shared.DomainError{
		Code:    shared.ErrCodeNotFound,
		Message: "點數餘額不存在",
	}

	// ErrIncrementAffectedNoRows 遞增未影響任何列（餘額列應已存在）
	ErrIncrementAffectedNoRows = &shared.DomainError{
		Code:    shared.ErrCodeInternal,
		Message: "點數遞增失敗：未更新任何記錄",
	}

	// ErrUnknownSource 未知的點數來源
	ErrUnknownSource = &shared.DomainError{
		Code:    shared.ErrCodeValidation,
		Message: "未知的點數來源",
	}
)
