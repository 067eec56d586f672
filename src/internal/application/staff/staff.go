package staff

import (
	"errors"
	"fmt"

	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/shared"
	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/staff"
	"go.uber.org/zap"
)

// StaffDTO 店員輸出（不含密碼雜湊）
type StaffDTO struct {
	ID       string
	Username string
	Role     string
}

func toDTO(s *staff.Staff) *StaffDTO {
	return &StaffDTO{ID: s.ID().String(), Username: s.Username(), Role: string(s.Role())}
}

// ===========================
// LoginStaff
// ===========================

// LoginStaffCommand 帳號密碼登入
type LoginStaffCommand struct {
	Username string
	Password string
}

// LoginStaffUseCase 店員登入；帳號不存在與密碼錯誤回傳相同錯誤
type LoginStaffUseCase struct {
	repo   staff.Repository
	hasher shared.Hasher
}

// NewLoginStaffUseCase 創建 Use Case 實例
func NewLoginStaffUseCase(repo staff.Repository, hasher shared.Hasher) *LoginStaffUseCase {
	return &LoginStaffUseCase{repo: repo, hasher: hasher}
}

// Execute 驗證憑證
func (uc *LoginStaffUseCase) Execute(cmd LoginStaffCommand) (*StaffDTO, error) {
	s, err := uc.repo.FindByUsername(nil, cmd.Username)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrUnauthorized
		}
		return nil, err
	}
	if !uc.hasher.Compare(s.PasswordHash(), cmd.Password) {
		return nil, shared.ErrUnauthorized
	}
	return toDTO(s), nil
}

// ===========================
// CreateStaff
// ===========================

// CreateStaffCommand 建立店員（create-admin 指令使用）
type CreateStaffCommand struct {
	Username string
	Password string
	Role     string
}

// CreateStaffUseCase 建立店員帳號
type CreateStaffUseCase struct {
	repo      staff.Repository
	txManager shared.TransactionManager
	hasher    shared.Hasher
	clock     shared.Clock
	logger    *zap.Logger
}

// NewCreateStaffUseCase 創建 Use Case 實例
func NewCreateStaffUseCase(repo staff.Repository, txManager shared.TransactionManager, hasher shared.Hasher, clock shared.Clock, logger *zap.Logger) *CreateStaffUseCase {
	if clock == nil {
		clock = shared.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CreateStaffUseCase{repo: repo, txManager: txManager, hasher: hasher, clock: clock, logger: logger}
}

// Execute 建立帳號
func (uc *CreateStaffUseCase) Execute(cmd CreateStaffCommand) (*StaffDTO, error) {
	if len(cmd.Password) < staff.MinPasswordLength {
		return nil, staff.ErrInvalidPassword
	}
	role, err := staff.ParseRole(cmd.Role)
	if err != nil {
		return nil, err
	}
	hash, err := uc.hasher.Hash(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	s, err := staff.NewStaff(cmd.Username, hash, role, uc.clock.Now())
	if err != nil {
		return nil, err
	}

	if err := uc.txManager.InTransaction(func(ctx shared.TransactionContext) error {
		return uc.repo.Save(ctx, s)
	}); err != nil {
		return nil, err
	}

	uc.logger.Info("staff created", zap.String("username", s.Username()), zap.String("role", string(s.Role())))
	return toDTO(s), nil
}
