package customer

import (
	"context"
	"testing"
	"time"

	appnotification "github.com/jackyeh168/kuro_loyalty/src/internal/application/notification"
	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/customer"
	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/notification"
	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/points"
	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/shared"
	"github.com/jackyeh168/kuro_loyalty/src/internal/infrastructure/lock"
	"github.com/jackyeh168/kuro_loyalty/src/internal/infrastructure/persistence"
	customerrepo "github.com/jackyeh168/kuro_loyalty/src/internal/infrastructure/persistence/customer"
	"github.com/jackyeh168/kuro_loyalty/src/internal/infrastructure/persistence/migrations"
	notificationrepo "github.com/jackyeh168/kuro_loyalty/src/internal/infrastructure/persistence/notification"
	pointsrepo "github.com/jackyeh168/kuro_loyalty/src/internal/infrastructure/persistence/points"
	"github.com/jackyeh168/kuro_loyalty/src/internal/infrastructure/persistence/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// 10:00 Lima
var regNow = time.Date(2025, 4, 5, 15, 0, 0, 0, time.UTC)

// prefixHasher 測試用：可逆的假雜湊
type prefixHasher struct{}

func (prefixHasher) Hash(plain string) (string, error) { return "hashed:" + plain, nil }

func (prefixHasher) Compare(hash, plain string) bool { return hash == "hashed:"+plain }

// fakeNearbyEvaluator 記錄呼叫
type fakeNearbyEvaluator struct {
	calls  []appnotification.EvaluateNearbyCommand
	result *appnotification.EvaluationResult
	err    error
}

func (f *fakeNearbyEvaluator) Execute(_ context.Context, cmd appnotification.EvaluateNearbyCommand) (*appnotification.EvaluationResult, error) {
	f.calls = append(f.calls, cmd)
	return f.result, f.err
}

type customerFixture struct {
	customers  customer.CustomerRepository
	balances   points.BalanceRepository
	events     points.PointEventRepository
	promotions notification.PromotionRepository
	txManager  shared.TransactionManager
	clock      *shared.FixedClock
	register   *RegisterCustomerUseCase
}

func setupCustomerFixture(t *testing.T) *customerFixture {
	t.Helper()
	db := testutil.NewTestDB(t)
	_, err := migrations.Run(db, zap.NewNop())
	require.NoError(t, err)

	f := &customerFixture{
		customers:  customerrepo.NewCustomerRepository(db),
		balances:   pointsrepo.NewBalanceRepository(db),
		events:     pointsrepo.NewPointEventRepository(db),
		promotions: notificationrepo.NewPromotionRepository(db),
		txManager:  persistence.NewGORMTransactionManager(db),
		clock:      shared.NewFixedClock(regNow),
	}
	f.register = NewRegisterCustomerUseCase(f.customers, f.balances, f.txManager, prefixHasher{}, f.clock, nil)
	return f
}

func registerCommand(suffix string) RegisterCustomerCommand {
	return RegisterCustomerCommand{
		FullName:  "Cliente " + suffix,
		Email:     "Cliente" + suffix + "@Kuro.pe",
		Phone:     "98765" + suffix,
		DNI:       "4455" + suffix,
		Sex:       "F",
		Birthdate: "1990-07-28",
	}
}

func (f *customerFixture) mustRegister(t *testing.T, suffix string) *CustomerDTO {
	t.Helper()
	dto, err := f.register.Execute(registerCommand(suffix))
	require.NoError(t, err)
	return dto
}

func (f *customerFixture) newLocker() shared.KeyedLocker {
	return lock.NewStripedLocker(8)
}
