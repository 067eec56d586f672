package customer

import (
	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/customer"
	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/points"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

// ListCustomersQuery 管理後台客戶列表
type ListCustomersQuery struct {
	Search string
	Limit  int
	Offset int
}

// CustomerWithPoints 列表項目
type CustomerWithPoints struct {
	CustomerDTO
	Points int
}

// ListCustomersResult Total 為符合搜尋條件的總數（不受分頁影響）
type ListCustomersResult struct {
	Customers []CustomerWithPoints
	Total     int64
}

// ListCustomersUseCase 依姓名 / email / 電話 / DNI 搜尋客戶並附上點數
type ListCustomersUseCase struct {
	customers customer.CustomerRepository
	balances  points.BalanceRepository
}

// NewListCustomersUseCase 創建 Use Case 實例
func NewListCustomersUseCase(customers customer.CustomerRepository, balances points.BalanceRepository) *ListCustomersUseCase {
	return &ListCustomersUseCase{customers: customers, balances: balances}
}

// Execute 執行查詢
func (uc *ListCustomersUseCase) Execute(q ListCustomersQuery) (*ListCustomersResult, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}

	found, total, err := uc.customers.Search(nil, q.Search, limit, offset)
	if err != nil {
		return nil, err
	}
	items, err := withPoints(uc.balances, found)
	if err != nil {
		return nil, err
	}
	return &ListCustomersResult{Customers: items, Total: total}, nil
}

func withPoints(balances points.BalanceRepository, found []*customer.Customer) ([]CustomerWithPoints, error) {
	ids := make([]customer.CustomerID, 0, len(found))
	for _, c := range found {
		ids = append(ids, c.CustomerID())
	}
	byID, err := balances.FindByCustomerIDs(nil, ids)
	if err != nil {
		return nil, err
	}

	items := make([]CustomerWithPoints, 0, len(found))
	for _, c := range found {
		items = append(items, CustomerWithPoints{
			CustomerDTO: ToCustomerDTO(c),
			Points:      byID[c.CustomerID().String()],
		})
	}
	return items, nil
}
