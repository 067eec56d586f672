package shared

import (
	"fmt"
	"sort"
	"strings"
)

// ===========================
// 錯誤代碼定義
// ===========================

// ErrorCode 錯誤代碼類型
//
// 用途：
// 1. HTTP 層將錯誤代碼映射為狀態碼（NOT_FOUND → 404）
// 2. errors.Is 依代碼比較，而非指標
type ErrorCode string

// 通用錯誤分類
//
// 各 bounded context 定義自己的代碼，但 HTTP 映射只依賴以下分類前綴。
const (
	ErrCodeNotFound                     ErrorCode = "NOT_FOUND"
	ErrCodeCooldown                     ErrorCode = "COOLDOWN"
	ErrCodeValidation                   ErrorCode = "VALIDATION"
	ErrCodeConflict                     ErrorCode = "CONFLICT"
	ErrCodeUnauthorized                 ErrorCode = "UNAUTHORIZED"
	ErrCodeTransientDispatchFailure     ErrorCode = "DISPATCH_TRANSIENT"
	ErrCodePermanentSubscriptionFailure ErrorCode = "SUBSCRIPTION_GONE"
	ErrCodeInternal                     ErrorCode = "INTERNAL_ERROR"
)

// ===========================
// DomainError 結構
// ===========================

// DomainError 領域錯誤
//
// 設計原則：
// 1. 結構化錯誤代碼（Code）用於分類與 HTTP 映射
// 2. Context 攜帶除錯資訊（customer_id, retry_after_minutes 等）
// 3. 不可變：WithContext 返回新實例
type DomainError struct {
	Code    ErrorCode
	Message string
	Context map[string]interface{}
}

// NewDomainError 建立領域錯誤
func NewDomainError(code ErrorCode, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// Error 實現 error 接口
func (e *DomainError) Error() string {
	if len(e.Context) == 0 {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return fmt.Sprintf("[%s] %s (%s)", e.Code, e.Message, formatContext(e.Context))
}

// WithContext 添加上下文信息（返回新的錯誤實例）
func (e *DomainError) WithContext(keyValues ...interface{}) *DomainError {
	if len(keyValues)%2 != 0 {
		panic("WithContext requires even number of arguments (key-value pairs)")
	}

	ctx := make(map[string]interface{}, len(e.Context)+len(keyValues)/2)
	for k, v := range e.Context {
		ctx[k] = v
	}
	for i := 0; i < len(keyValues); i += 2 {
		key, ok := keyValues[i].(string)
		if !ok {
			panic(fmt.Sprintf("context key must be string, got %T", keyValues[i]))
		}
		ctx[key] = keyValues[i+1]
	}

	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Context: ctx,
	}
}

// Is 實現 errors.Is 接口，依錯誤代碼比較
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Value 取得上下文值（不存在時返回 nil）
func (e *DomainError) Value(key string) interface{} {
	if e.Context == nil {
		return nil
	}
	return e.Context[key]
}

// formatContext 依 key 排序輸出，讓錯誤訊息穩定可比對
func formatContext(ctx map[string]interface{}) string {
	keys := make([]string, 0, len(ctx))
	for k := range ctx {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, ctx[k]))
	}
	return strings.Join(parts, ", ")
}

// ===========================
// 預定義錯誤
// ===========================

var (
	// ErrNotFound 客戶、QR token 或其他資源不存在
	ErrNotFound = NewDomainError(ErrCodeNotFound, "資源不存在")

	// ErrCooldown 防詐冷卻期內，Context 帶 retry_after_minutes
	ErrCooldown = NewDomainError(ErrCodeCooldown, "冷卻期內無法累積點數")

	// ErrValidation 輸入驗證失敗
	ErrValidation = NewDomainError(ErrCodeValidation, "輸入資料無效")

	// ErrConflict 唯一性衝突（email、DNI、電話）
	ErrConflict = NewDomainError(ErrCodeConflict, "資料已存在")

	// ErrUnauthorized 憑證無效
	ErrUnauthorized = NewDomainError(ErrCodeUnauthorized, "憑證無效")

	// ErrTransientDispatchFailure 推播暫時失敗（網路、5xx），訂閱保留
	ErrTransientDispatchFailure = NewDomainError(ErrCodeTransientDispatchFailure, "推播發送暫時失敗")

	// ErrPermanentSubscriptionFailure 推播端點已失效（404/410）
	ErrPermanentSubscriptionFailure = NewDomainError(ErrCodePermanentSubscriptionFailure, "推播訂閱已失效")

	// ErrInternal 不應發生的內部錯誤（例如遞增影響 0 列）
	ErrInternal = NewDomainError(ErrCodeInternal, "內部錯誤")
)
