package customer

import (
	"regexp"
	"strings"
)

// ===========================
// PhoneNumber Value Object
// ===========================

// PhoneNumber 電話號碼值對象
//
// 業務規則：
// 1. 只允許數字、空白、+、-、括號
// 2. 至少 8 位數字
// 3. 前後空白會被去除
//
// 使用範例：
//   phone, err := NewPhoneNumber("+51 987 654 321")
type PhoneNumber struct {
	value string
}

var (
	phoneCharsPattern = regexp.MustCompile(`^[\d\s+\-()]+$`)
	nonDigitPattern   = regexp.MustCompile(`\D`)
)

// MinPhoneDigits 最少數字位數
const MinPhoneDigits = 8

// NewPhoneNumber 創建電話號碼值對象（Checked Constructor）
//
// 錯誤範例：
// - "12345" (不足 8 位) → ErrInvalidPhoneNumber
// - "abc12345678" (含字母) → ErrInvalidPhoneNumber
func NewPhoneNumber(value string) (PhoneNumber, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" || !phoneCharsPattern.MatchString(trimmed) {
		return PhoneNumber{}, ErrInvalidPhoneNumber.WithContext(
			"phone", value,
			"reason", "contains invalid characters",
		)
	}

	digits := nonDigitPattern.ReplaceAllString(trimmed, "")
	if len(digits) < MinPhoneDigits {
		return PhoneNumber{}, ErrInvalidPhoneNumber.WithContext(
			"phone", value,
			"reason", "must contain at least 8 digits",
		)
	}

	return PhoneNumber{value: trimmed}, nil
}

// String 返回電話號碼字串
func (p PhoneNumber) String() string {
	return p.value
}

// Equals 值相等
func (p PhoneNumber) Equals(other PhoneNumber) bool {
	return p.value == other.value
}

// IsZero 檢查是否為零值
func (p PhoneNumber) IsZero() bool {
	return p.value == ""
}
