package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/shared"
	"go.uber.org/zap"
)

// ===========================
// DomainError → HTTP
// ===========================

// statusFor 錯誤代碼對應的 HTTP 狀態碼
func statusFor(code shared.ErrorCode) int {
	switch code {
	case shared.ErrCodeNotFound:
		return http.StatusNotFound
	case shared.ErrCodeCooldown, shared.ErrCodeValidation:
		return http.StatusBadRequest
	case shared.ErrCodeConflict:
		return http.StatusConflict
	case shared.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case shared.ErrCodeTransientDispatchFailure:
		return http.StatusBadGateway
	case shared.ErrCodePermanentSubscriptionFailure:
		return http.StatusGone
	default:
		return http.StatusInternalServerError
	}
}

// respondError 依 DomainError 代碼輸出錯誤
//
// 非 DomainError 與 5xx 一律記錄完整錯誤，回應只帶通用訊息。
func respondError(c *gin.Context, log *zap.Logger, err error) {
	var de *shared.DomainError
	if !errors.As(err, &de) {
		log.Error("unhandled error",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error", "code": shared.ErrCodeInternal})
		return
	}

	status := statusFor(de.Code)
	if status >= http.StatusInternalServerError {
		log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.String("code", string(de.Code)),
			zap.Any("context", de.Context),
			zap.Error(err),
		)
		c.JSON(status, gin.H{"error": "internal server error", "code": de.Code})
		return
	}

	body := gin.H{"error": de.Message, "code": de.Code}
	switch de.Code {
	case shared.ErrCodeCooldown:
		body["success"] = false
		if v := de.Value("retry_after_minutes"); v != nil {
			body["retryAfterMinutes"] = v
		}
	case shared.ErrCodeConflict:
		if v := de.Value("field"); v != nil {
			body["field"] = v
		}
	case shared.ErrCodeValidation:
		if v := de.Value("field"); v != nil {
			body["field"] = v
		}
	}
	c.JSON(status, body)
}

// badRequest 請求格式錯誤（JSON 解析、缺少欄位）
func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message, "code": shared.ErrCodeValidation})
}
