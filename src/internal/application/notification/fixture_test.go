package notification

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/customer"
	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/notification"
	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/shared"
	"github.com/jackyeh168/kuro_loyalty/src/internal/infrastructure/lock"
	"github.com/jackyeh168/kuro_loyalty/src/internal/infrastructure/persistence"
	customerrepo "github.com/jackyeh168/kuro_loyalty/src/internal/infrastructure/persistence/customer"
	"github.com/jackyeh168/kuro_loyalty/src/internal/infrastructure/persistence/migrations"
	notificationrepo "github.com/jackyeh168/kuro_loyalty/src/internal/infrastructure/persistence/notification"
	"github.com/jackyeh168/kuro_loyalty/src/internal/infrastructure/persistence/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var evalNow = time.Date(2025, 4, 5, 19, 0, 0, 0, time.UTC)

// fakeDispatcher 記錄發送內容並回傳預設結果
type fakeDispatcher struct {
	mu     sync.Mutex
	result notification.DispatchResult
	sent   []notification.PushMessage
	subs   []notification.PushSubscription
}

func newFakeDispatcher() *fakeDispatcher {
	return &fakeDispatcher{result: notification.DispatchResult{Success: true, StatusCode: 201}}
}

func (d *fakeDispatcher) Send(_ context.Context, sub notification.PushSubscription, msg notification.PushMessage) notification.DispatchResult {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent = append(d.sent, msg)
	d.subs = append(d.subs, sub)
	return d.result
}

func (d *fakeDispatcher) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.sent)
}

type evalFixture struct {
	db            *gorm.DB
	deps          Deps
	customers     customer.CustomerRepository
	subscriptions notification.SubscriptionRepository
	promotions    notification.PromotionRepository
	dispatcher    *fakeDispatcher
	clock         *shared.FixedClock
}

func setupEvalFixture(t *testing.T) *evalFixture {
	t.Helper()
	db := testutil.NewTestDB(t)
	_, err := migrations.Run(db, zap.NewNop())
	require.NoError(t, err)

	f := &evalFixture{
		db:            db,
		customers:     customerrepo.NewCustomerRepository(db),
		subscriptions: notificationrepo.NewSubscriptionRepository(db),
		promotions:    notificationrepo.NewPromotionRepository(db),
		dispatcher:    newFakeDispatcher(),
		clock:         shared.NewFixedClock(evalNow),
	}
	f.deps = Deps{
		Customers:     f.customers,
		Subscriptions: f.subscriptions,
		Promotions:    f.promotions,
		Logs:          notificationrepo.NewLogRepository(db),
		Dispatcher:    f.dispatcher,
		TxManager:     persistence.NewGORMTransactionManager(db),
		Locker:        lock.NewStripedLocker(16),
		Clock:         f.clock,
		Rules:         notification.DefaultRuleConfig(),
	}
	return f
}

// addCustomer 建立客戶；activity 直接寫入資料庫
func (f *evalFixture) addCustomer(t *testing.T, suffix string, activity customer.ActivityState) *customer.Customer {
	t.Helper()
	profile, err := customer.NewProfile(customer.ProfileInput{
		FullName:  "Cliente " + suffix,
		Email:     "cliente" + suffix + "@kuro.pe",
		Phone:     "98765" + suffix,
		DNI:       "4455" + suffix,
		Sex:       "O",
		Birthdate: "1988-02-29",
	}, evalNow)
	require.NoError(t, err)
	token, err := customer.GenerateQRToken(nil)
	require.NoError(t, err)
	c := customer.ReconstructCustomer(customer.NewCustomerID(), token, profile, activity, evalNow.Add(-30*24*time.Hour), evalNow)
	require.NoError(t, f.customers.Save(nil, c))
	return c
}

func (f *evalFixture) subscribe(t *testing.T, c *customer.Customer, endpoint string) notification.PushSubscription {
	t.Helper()
	sub, err := notification.NewPushSubscription(c.CustomerID(), endpoint, "p256dh", "auth", evalNow.Add(-time.Hour))
	require.NoError(t, err)
	stored, err := f.subscriptions.Upsert(nil, sub)
	require.NoError(t, err)
	return stored
}

func (f *evalFixture) reload(t *testing.T, c *customer.Customer) customer.ActivityState {
	t.Helper()
	stored, err := f.customers.FindByID(nil, c.CustomerID())
	require.NoError(t, err)
	return stored.Activity()
}

func (f *evalFixture) logCount(t *testing.T) int64 {
	t.Helper()
	var count int64
	require.NoError(t, f.db.Model(&notificationrepo.NotificationLogGORM{}).Count(&count).Error)
	return count
}

// northOfVenue 場館正北方 km 公里處
func northOfVenue(km float64) (float64, float64) {
	venue := notification.DefaultRuleConfig().Venue
	deltaLat := km / notification.EarthRadiusKm * 180 / math.Pi
	return venue.Lat + deltaLat, venue.Lng
}

func ago(d time.Duration) *time.Time {
	t := evalNow.Add(-d)
	return &t
}
