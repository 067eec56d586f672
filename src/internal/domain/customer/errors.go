package customer

import "github.com/jackyeh168/kuro_loyalty/src/internal/domain/shared"

// ===========================
// 客戶錯誤定義
// ===========================

// 錯誤分類沿用 shared 的代碼，HTTP 層只需判斷分類。
var (
	ErrCustomerNotFound = &shared.DomainError{
		Code:    shared.ErrCodeNotFound,
		Message: "客戶不存在",
	}

	ErrInvalidCustomerID = &shared.DomainError{
		Code:    shared.ErrCodeValidation,
		Message: "無效的客戶 ID",
	}

	ErrInvalidQRToken = &shared.DomainError{
		Code:    shared.ErrCodeValidation,
		Message: "QR token 必須為 64 個小寫十六進位字元",
	}

	ErrInvalidFullName = &shared.DomainError{
		Code:    shared.ErrCodeValidation,
		Message: "姓名至少需要 2 個字元",
	}

	ErrInvalidEmail = &shared.DomainError{
		Code:    shared.ErrCodeValidation,
		Message: "無效的電子郵件",
	}

	ErrInvalidPhoneNumber = &shared.DomainError{
		Code:    shared.ErrCodeValidation,
		Message: "無效的電話號碼",
	}

	ErrInvalidDNI = &shared.DomainError{
		Code:    shared.ErrCodeValidation,
		Message: "DNI 至少需要 8 個字元",
	}

	ErrInvalidSex = &shared.DomainError{
		Code:    shared.ErrCodeValidation,
		Message: "性別必須為 M、F 或 O",
	}

	ErrInvalidBirthdate = &shared.DomainError{
		Code:    shared.ErrCodeValidation,
		Message: "生日必須為過去的日期",
	}

	ErrInvalidLocation = &shared.DomainError{
		Code:    shared.ErrCodeValidation,
		Message: "座標超出範圍",
	}

	// ErrDuplicateField 註冊時 email / dni / phone 已存在，Context 帶 field
	ErrDuplicateField = &shared.DomainError{
		Code:    shared.ErrCodeConflict,
		Message: "欄位已被註冊",
	}
)
