package customer

import (
	"errors"

	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/customer"
	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/shared"
)

// LoginCustomerCommand email + DNI 登入
type LoginCustomerCommand struct {
	Email string
	DNI   string
}

// LoginCustomerUseCase 客戶登入
//
// 任何不符（email 不存在、DNI 錯誤、輸入格式錯誤）都返回同一個 ErrUnauthorized。
type LoginCustomerUseCase struct {
	customers customer.CustomerRepository
	hasher    shared.Hasher
}

// NewLoginCustomerUseCase 創建 Use Case 實例
func NewLoginCustomerUseCase(customers customer.CustomerRepository, hasher shared.Hasher) *LoginCustomerUseCase {
	return &LoginCustomerUseCase{customers: customers, hasher: hasher}
}

// Execute 驗證憑證
func (uc *LoginCustomerUseCase) Execute(cmd LoginCustomerCommand) (*CustomerDTO, error) {
	email, err := customer.NormalizeEmail(cmd.Email)
	if err != nil {
		return nil, shared.ErrUnauthorized
	}
	dni, err := customer.NormalizeDNI(cmd.DNI)
	if err != nil {
		return nil, shared.ErrUnauthorized
	}

	c, err := uc.customers.FindByEmail(nil, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrUnauthorized
		}
		return nil, err
	}

	hash := c.Profile().DNIHash
	if hash == "" || !uc.hasher.Compare(hash, dni) {
		return nil, shared.ErrUnauthorized
	}

	dto := ToCustomerDTO(c)
	return &dto, nil
}
