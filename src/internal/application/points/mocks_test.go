package points

import (
	"time"

	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/customer"
	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/points"
	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// ===========================
// Mocks
// ===========================

type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) Save(ctx shared.TransactionContext, c *customer.Customer) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCustomerRepository) Update(ctx shared.TransactionContext, c *customer.Customer) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCustomerRepository) FindByID(ctx shared.TransactionContext, id customer.CustomerID) (*customer.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByIDForUpdate(ctx shared.TransactionContext, id customer.CustomerID) (*customer.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByQRToken(ctx shared.TransactionContext, token customer.QRToken) (*customer.Customer, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByEmail(ctx shared.TransactionContext, email string) (*customer.Customer, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

func (m *MockCustomerRepository) ExistsByField(ctx shared.TransactionContext, field customer.UniqueField, value string) (bool, error) {
	args := m.Called(ctx, field, value)
	return args.Bool(0), args.Error(1)
}

func (m *MockCustomerRepository) Search(ctx shared.TransactionContext, query string, limit, offset int) ([]*customer.Customer, int64, error) {
	args := m.Called(ctx, query, limit, offset)
	return args.Get(0).([]*customer.Customer), args.Get(1).(int64), args.Error(2)
}

func (m *MockCustomerRepository) Count(ctx shared.TransactionContext) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockBalanceRepository struct {
	mock.Mock
}

func (m *MockBalanceRepository) EnsureExists(ctx shared.TransactionContext, id customer.CustomerID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockBalanceRepository) Increment(ctx shared.TransactionContext, id customer.CustomerID, delta int) (int64, error) {
	args := m.Called(ctx, id, delta)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBalanceRepository) FindByCustomerID(ctx shared.TransactionContext, id customer.CustomerID) (*points.LoyaltyBalance, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*points.LoyaltyBalance), args.Error(1)
}

func (m *MockBalanceRepository) FindByCustomerIDs(ctx shared.TransactionContext, ids []customer.CustomerID) (map[string]int, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(map[string]int), args.Error(1)
}

type MockPointEventRepository struct {
	mock.Mock
}

func (m *MockPointEventRepository) Append(ctx shared.TransactionContext, e points.PointEvent) (points.PointEvent, error) {
	args := m.Called(ctx, e)
	return args.Get(0).(points.PointEvent), args.Error(1)
}

func (m *MockPointEventRepository) FindLatestBySource(ctx shared.TransactionContext, id customer.CustomerID, source points.PointSource) (*points.PointEvent, error) {
	args := m.Called(ctx, id, source)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*points.PointEvent), args.Error(1)
}

func (m *MockPointEventRepository) ListByCustomer(ctx shared.TransactionContext, id customer.CustomerID, limit int) ([]points.PointEvent, error) {
	args := m.Called(ctx, id, limit)
	return args.Get(0).([]points.PointEvent), args.Error(1)
}

func (m *MockPointEventRepository) CountBySourceSince(ctx shared.TransactionContext, source points.PointSource, since time.Time) (int64, error) {
	args := m.Called(ctx, source, since)
	return args.Get(0).(int64), args.Error(1)
}

// MockTransactionManager 直接以 nil context 執行 fn
type MockTransactionManager struct {
	InTransactionCallCount int
}

func (m *MockTransactionManager) InTransaction(fn func(ctx shared.TransactionContext) error) error {
	m.InTransactionCallCount++
	return fn(nil)
}

// noopLocker 單元測試不需要真正的鎖
type noopLocker struct{}

func (noopLocker) Lock(string) func() { return func() {} }

// recordingPublisher 記錄已發布事件
type recordingPublisher struct {
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(e shared.DomainEvent) error {
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) PublishBatch(events []shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}
