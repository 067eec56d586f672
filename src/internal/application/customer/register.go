package customer

import (
	"fmt"
	"time"

	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/customer"
	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/points"
	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/shared"
	"go.uber.org/zap"
)

// ===========================
// RegisterCustomer Use Case
// ===========================

// RegisterCustomerCommand 註冊輸入（原始字串，由 Use Case 轉為 Value Object）
type RegisterCustomerCommand struct {
	FullName       string
	Email          string
	Phone          string
	DNI            string
	Sex            string
	Birthdate      string
	MarketingOptIn bool
}

// CustomerDTO 客戶輸出
type CustomerDTO struct {
	ID             string
	FullName       string
	Email          string
	Phone          string
	DNI            string
	Sex            string
	Birthdate      string
	MarketingOptIn bool
	QRToken        string
	CreatedAt      time.Time
}

// ToCustomerDTO Domain → DTO
func ToCustomerDTO(c *customer.Customer) CustomerDTO {
	p := c.Profile()
	return CustomerDTO{
		ID:             c.CustomerID().String(),
		FullName:       p.FullName,
		Email:          p.Email,
		Phone:          p.Phone.String(),
		DNI:            p.DNI,
		Sex:            string(p.Sex),
		Birthdate:      p.Birthdate.Format("2006-01-02"),
		MarketingOptIn: p.MarketingOptIn,
		QRToken:        c.QRToken().String(),
		CreatedAt:      c.CreatedAt(),
	}
}

// RegisterCustomerUseCase 註冊客戶
//
// 業務規則：
// 1. email / dni / phone 各自唯一，重複時返回 ErrDuplicateField（Context 帶 field）
// 2. DNI 以 bcrypt 雜湊保存，供登入比對
// 3. 同一事務內建立客戶與 0 點的餘額列
type RegisterCustomerUseCase struct {
	customers customer.CustomerRepository
	balances  points.BalanceRepository
	txManager shared.TransactionManager
	hasher    shared.Hasher
	clock     shared.Clock
	logger    *zap.Logger
}

// NewRegisterCustomerUseCase 創建 Use Case 實例
func NewRegisterCustomerUseCase(
	customers customer.CustomerRepository,
	balances points.BalanceRepository,
	txManager shared.TransactionManager,
	hasher shared.Hasher,
	clock shared.Clock,
	logger *zap.Logger,
) *RegisterCustomerUseCase {
	if clock == nil {
		clock = shared.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RegisterCustomerUseCase{
		customers: customers,
		balances:  balances,
		txManager: txManager,
		hasher:    hasher,
		clock:     clock,
		logger:    logger,
	}
}

// Execute 執行註冊
func (uc *RegisterCustomerUseCase) Execute(cmd RegisterCustomerCommand) (*CustomerDTO, error) {
	now := uc.clock.Now()

	// Step 1: 驗證輸入
	profile, err := customer.NewProfile(customer.ProfileInput{
		FullName:       cmd.FullName,
		Email:          cmd.Email,
		Phone:          cmd.Phone,
		DNI:            cmd.DNI,
		Sex:            cmd.Sex,
		Birthdate:      cmd.Birthdate,
		MarketingOptIn: cmd.MarketingOptIn,
	}, now)
	if err != nil {
		return nil, err
	}

	// Step 2: 唯一性檢查（資料庫唯一約束是最後防線）
	checks := []struct {
		field customer.UniqueField
		value string
	}{
		{customer.FieldEmail, profile.Email},
		{customer.FieldDNI, profile.DNI},
		{customer.FieldPhone, profile.Phone.String()},
	}
	for _, check := range checks {
		exists, err := uc.customers.ExistsByField(nil, check.field, check.value)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, customer.ErrDuplicateField.WithContext("field", string(check.field))
		}
	}

	// Step 3: bcrypt 較慢，放在事務之外
	dniHash, err := uc.hasher.Hash(profile.DNI)
	if err != nil {
		return nil, fmt.Errorf("failed to hash dni: %w", err)
	}

	token, err := customer.GenerateQRToken(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate qr token: %w", err)
	}
	c, err := customer.NewCustomer(token, profile, now)
	if err != nil {
		return nil, err
	}
	c.SetDNIHash(dniHash)

	// Step 4: 客戶與餘額列一起建立
	err = uc.txManager.InTransaction(func(ctx shared.TransactionContext) error {
		if err := uc.customers.Save(ctx, c); err != nil {
			return err
		}
		return uc.balances.EnsureExists(ctx, c.CustomerID())
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("customer registered", zap.String("customer_id", c.CustomerID().String()))
	dto := ToCustomerDTO(c)
	return &dto, nil
}
