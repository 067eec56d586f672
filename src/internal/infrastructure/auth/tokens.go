package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenType 區分客戶與管理員 token
type TokenType string

const (
	TypeCustomer TokenType = "customer"
	TypeAdmin    TokenType = "admin"
)

const issuer = "kuro-loyalty"

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrWrongType    = errors.New("token type not accepted")
)

// Claims JWT 內容；Subject 為客戶 ID 或店員 ID
type Claims struct {
	Type     TokenType `json:"typ"`
	Username string    `json:"username,omitempty"`
	Role     string    `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// TokenService 以 HS256 簽發與驗證 token
//
// 客戶與管理員使用不同密鑰，客戶 token 無法通過管理員驗證。
type TokenService struct {
	secrets map[TokenType][]byte
	ttls    map[TokenType]time.Duration
	now     func() time.Time
}

// TokenConfig 兩組密鑰與有效期
type TokenConfig struct {
	CustomerSecret string
	AdminSecret    string
	CustomerTTL    time.Duration
	AdminTTL       time.Duration
}

// NewTokenService 建構函數
func NewTokenService(cfg TokenConfig, now func() time.Time) (*TokenService, error) {
	if strings.TrimSpace(cfg.CustomerSecret) == "" || strings.TrimSpace(cfg.AdminSecret) == "" {
		return nil, errors.New("jwt secrets are required")
	}
	if now == nil {
		now = time.Now
	}
	return &TokenService{
		secrets: map[TokenType][]byte{
			TypeCustomer: []byte(cfg.CustomerSecret),
			TypeAdmin:    []byte(cfg.AdminSecret),
		},
		ttls: map[TokenType]time.Duration{
			TypeCustomer: ttlOr(cfg.CustomerTTL, 30*24*time.Hour),
			TypeAdmin:    ttlOr(cfg.AdminTTL, 12*time.Hour),
		},
		now: now,
	}, nil
}

func ttlOr(d, fallback time.Duration) time.Duration {
	if d <= 0 {
		return fallback
	}
	return d
}

// TTL token 有效期（cookie Max-Age 使用）
func (s *TokenService) TTL(t TokenType) time.Duration {
	return s.ttls[t]
}

// IssueCustomer 客戶 token
func (s *TokenService) IssueCustomer(customerID string) (string, error) {
	return s.issue(Claims{Type: TypeCustomer}, customerID)
}

// IssueAdmin 管理員 token
func (s *TokenService) IssueAdmin(staffID, username, role string) (string, error) {
	return s.issue(Claims{Type: TypeAdmin, Username: username, Role: role}, staffID)
}

func (s *TokenService) issue(claims Claims, subject string) (string, error) {
	now := s.now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttls[claims.Type])),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secrets[claims.Type])
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Parse 以 expected 類型的密鑰驗證
func (s *TokenService) Parse(tokenString string, expected TokenType) (*Claims, error) {
	secret, ok := s.secrets[expected]
	if !ok {
		return nil, ErrWrongType
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Type != expected {
		return nil, ErrWrongType
	}
	return claims, nil
}
