package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	contextKeyClaims = "auth.claims"

	customerCookie = "customerToken"
	adminCookie    = "adminToken"
)

// RequireCustomer 驗證客戶 token（Authorization: Bearer 或 customerToken cookie）
func (s *TokenService) RequireCustomer() gin.HandlerFunc {
	return s.require(TypeCustomer, customerCookie)
}

// RequireAdmin 驗證管理員 token（Authorization: Bearer 或 adminToken cookie）
func (s *TokenService) RequireAdmin() gin.HandlerFunc {
	return s.require(TypeAdmin, adminCookie)
}

func (s *TokenService) require(expected TokenType, cookie string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			token, _ = c.Cookie(cookie)
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		claims, err := s.Parse(token, expected)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.Set(contextKeyClaims, claims)
		c.Next()
	}
}

// SetTokenCookie 以 HttpOnly cookie 保存 token，Max-Age 與 token 有效期相同
func (s *TokenService) SetTokenCookie(c *gin.Context, t TokenType, token string, secure bool) {
	name := customerCookie
	if t == TypeAdmin {
		name = adminCookie
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, token, int(s.TTL(t)/time.Second), "/", "", secure, true)
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}

// ClaimsFrom 取得 middleware 放入的 claims
func ClaimsFrom(c *gin.Context) (*Claims, bool) {
	v, ok := c.Get(contextKeyClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*Claims)
	return claims, ok
}

// SubjectFrom claims 的 subject（客戶 ID 或店員 ID）
func SubjectFrom(c *gin.Context) string {
	if claims, ok := ClaimsFrom(c); ok {
		return claims.Subject
	}
	return ""
}
