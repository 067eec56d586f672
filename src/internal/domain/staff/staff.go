package staff

import (
	"regexp"
	"strings"
	"time"

	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/shared"
)

// StaffMarker 是 StaffID 的標記類型
type StaffMarker struct{}

// StaffID 店員 ID
type StaffID = shared.EntityID[StaffMarker]

// StaffIDFromString 解析店員 ID
func StaffIDFromString(s string) (StaffID, error) {
	return shared.EntityIDFromString[StaffMarker](s, ErrInvalidStaffID)
}

// Role 店員角色
type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

// ParseRole 解析角色（空字串視為 staff）
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case "":
		return RoleStaff, nil
	case RoleAdmin, RoleStaff:
		return r, nil
	}
	return "", ErrInvalidRole.WithContext("role", s)
}

var usernamePattern = regexp.MustCompile(`^[a-z0-9._-]{3,32}$`)

// MinPasswordLength 密碼最短長度
const MinPasswordLength = 8

// Staff 可掃描 QR 與管理後台的店員
type Staff struct {
	id           StaffID
	username     string
	passwordHash string
	role         Role
	createdAt    time.Time
}

// NewStaff 建立店員，passwordHash 由呼叫端以 Hasher 產生
func NewStaff(username, passwordHash string, role Role, now time.Time) (*Staff, error) {
	username = NormalizeUsername(username)
	if !usernamePattern.MatchString(username) {
		return nil, ErrInvalidUsername.WithContext("username", username)
	}
	if passwordHash == "" {
		return nil, ErrInvalidPassword
	}
	return &Staff{
		id:           shared.NewEntityID[StaffMarker](),
		username:     username,
		passwordHash: passwordHash,
		role:         role,
		createdAt:    now,
	}, nil
}

// ReconstructStaff 從資料庫重建
func ReconstructStaff(id StaffID, username, passwordHash string, role Role, createdAt time.Time) *Staff {
	return &Staff{id: id, username: username, passwordHash: passwordHash, role: role, createdAt: createdAt}
}

// NormalizeUsername 去空白轉小寫
func NormalizeUsername(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (s *Staff) ID() StaffID          { return s.id }
func (s *Staff) Username() string     { return s.username }
func (s *Staff) PasswordHash() string { return s.passwordHash }
func (s *Staff) Role() Role           { return s.role }
func (s *Staff) CreatedAt() time.Time { return s.createdAt }

// Repository 店員倉儲
type Repository interface {
	// Save 錯誤：ErrUsernameTaken
	Save(ctx shared.TransactionContext, s *Staff) error
	FindByUsername(ctx shared.TransactionContext, username string) (*Staff, error)
	FindByID(ctx shared.TransactionContext, id StaffID) (*Staff, error)
}

var (
	ErrStaffNotFound   = &shared.DomainError{Code: shared.ErrCodeNotFound, Message: "店員不存在"}
	ErrInvalidStaffID  = &shared.DomainError{Code: shared.ErrCodeValidation, Message: "無效的店員 ID"}
	ErrInvalidUsername = &shared.DomainError{Code: shared.ErrCodeValidation, Message: "帳號需為 3-32 個小寫英數字或 . _ -"}
	ErrInvalidPassword = &shared.DomainError{Code: shared.ErrCodeValidation, Message: "密碼至少需要 8 個字元"}
	ErrInvalidRole     = &shared.DomainError{Code: shared.ErrCodeValidation, Message: "角色必須為 admin 或 staff"}
	ErrUsernameTaken   = &shared.DomainError{Code: shared.ErrCodeConflict, Message: "帳號已存在"}
)
