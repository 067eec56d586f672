package points

import (
	"fmt"
	"time"

	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/customer"
	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/points"
	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/shared"
)

// GetPointsBalanceQuery 查詢點數餘額
type GetPointsBalanceQuery struct {
	CustomerID string
}

// GetPointsBalanceResult 查詢點數餘額的結果
type GetPointsBalanceResult struct {
	CustomerID string
	Points     int
	UpdatedAt  time.Time
}

// GetPointsBalanceUseCase 查詢點數餘額 Use Case
type GetPointsBalanceUseCase struct {
	balanceRepo points.BalanceRepository
}

// NewGetPointsBalanceUseCase 創建 Use Case 實例
func NewGetPointsBalanceUseCase(repo points.BalanceRepository) *GetPointsBalanceUseCase {
	return &GetPointsBalanceUseCase{
		balanceRepo: repo,
	}
}

// Execute 執行查詢點數餘額
//
// 錯誤處理：
// - ErrInvalidCustomerID: CustomerID 格式無效
// - ErrBalanceNotFound: 餘額列不存在
func (uc *GetPointsBalanceUseCase) Execute(query GetPointsBalanceQuery) (*GetPointsBalanceResult, error) {
	return uc.ExecuteWithContext(nil, query)
}

// ExecuteWithContext 在事務上下文中執行查詢
//
// 獨立查詢時可傳入 nil（不需要事務）。
func (uc *GetPointsBalanceUseCase) ExecuteWithContext(
	ctx shared.TransactionContext,
	query GetPointsBalanceQuery,
) (*GetPointsBalanceResult, error) {
	customerID, err := customer.CustomerIDFromString(query.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse customer ID: %w", err)
	}

	balance, err := uc.balanceRepo.FindByCustomerID(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to find balance: %w", err)
	}

	return &GetPointsBalanceResult{
		CustomerID: balance.CustomerID().String(),
		Points:     balance.Points().Value(),
		UpdatedAt:  balance.UpdatedAt(),
	}, nil
}
