package customer

import (
	"errors"
	"time"

	appnotification "github.com/jackyeh168/kuro_loyalty/src/internal/application/notification"
	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/customer"
	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/notification"
	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/points"
	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/shared"
)

// ProfileResult /me 的內容
type ProfileResult struct {
	Customer        CustomerDTO
	Points          int
	PointsUpdatedAt *time.Time
	Promotions      []appnotification.PromotionDTO
}

// GetProfileUseCase 客戶個人頁：資料、點數、目前有效的促銷活動
type GetProfileUseCase struct {
	customers  customer.CustomerRepository
	balances   points.BalanceRepository
	promotions notification.PromotionRepository
	clock      shared.Clock
}

// NewGetProfileUseCase 創建 Use Case 實例
func NewGetProfileUseCase(
	customers customer.CustomerRepository,
	balances points.BalanceRepository,
	promotions notification.PromotionRepository,
	clock shared.Clock,
) *GetProfileUseCase {
	if clock == nil {
		clock = shared.SystemClock{}
	}
	return &GetProfileUseCase{customers: customers, balances: balances, promotions: promotions, clock: clock}
}

// Execute 查詢個人頁
//
// 餘額列不存在時視為 0 點（舊資料）。
func (uc *GetProfileUseCase) Execute(customerID string) (*ProfileResult, error) {
	id, err := customer.CustomerIDFromString(customerID)
	if err != nil {
		return nil, err
	}
	c, err := uc.customers.FindByID(nil, id)
	if err != nil {
		return nil, err
	}

	result := &ProfileResult{Customer: ToCustomerDTO(c)}

	balance, err := uc.balances.FindByCustomerID(nil, id)
	switch {
	case err == nil:
		updatedAt := balance.UpdatedAt()
		result.Points = balance.Points().Value()
		result.PointsUpdatedAt = &updatedAt
	case !errors.Is(err, points.ErrBalanceNotFound):
		return nil, err
	}

	live, err := uc.promotions.ListLive(nil, uc.clock.Now())
	if err != nil {
		return nil, err
	}
	result.Promotions = make([]appnotification.PromotionDTO, 0, len(live))
	for _, p := range live {
		result.Promotions = append(result.Promotions, appnotification.ToPromotionDTO(p))
	}
	return result, nil
}
