package bootstrap

import (
	"time"

	appcustomer "github.com/jackyeh168/kuro_loyalty/src/internal/application/customer"
	appnotification "github.com/jackyeh168/kuro_loyalty/src/internal/application/notification"
	apppoints "github.com/jackyeh168/kuro_loyalty/src/internal/application/points"
	appstaff "github.com/jackyeh168/kuro_loyalty/src/internal/application/staff"
	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/notification"
	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/points"
	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/shared"
	"github.com/jackyeh168/kuro_loyalty/src/internal/infrastructure/persistence"
	customerrepo "github.com/jackyeh168/kuro_loyalty/src/internal/infrastructure/persistence/customer"
	notificationrepo "github.com/jackyeh168/kuro_loyalty/src/internal/infrastructure/persistence/notification"
	pointsrepo "github.com/jackyeh168/kuro_loyalty/src/internal/infrastructure/persistence/points"
	staffrepo "github.com/jackyeh168/kuro_loyalty/src/internal/infrastructure/persistence/staff"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ===========================
// 組裝：Repository → Use Case
// ===========================

// Infra 建立 Use Case 所需的基礎設施
type Infra struct {
	DB                *gorm.DB
	Dispatcher        notification.PushDispatcher
	Hasher            shared.Hasher
	Locker            shared.KeyedLocker
	Clock             shared.Clock
	Publisher         shared.EventPublisher
	Logger            *zap.Logger
	Rules             notification.RuleConfig
	AntifraudCooldown time.Duration
	Zone              *time.Location
}

// UseCases 所有對外操作
type UseCases struct {
	RegisterCustomer *appcustomer.RegisterCustomerUseCase
	LoginCustomer    *appcustomer.LoginCustomerUseCase
	Profile          *appcustomer.GetProfileUseCase
	UpdateLocation   *appcustomer.UpdateLocationUseCase
	ListCustomers    *appcustomer.ListCustomersUseCase
	Dashboard        *appcustomer.DashboardUseCase

	LoginStaff  *appstaff.LoginStaffUseCase
	CreateStaff *appstaff.CreateStaffUseCase

	AwardPoint     *apppoints.AwardPointUseCase
	CheckAntifraud *apppoints.CheckAntifraudUseCase
	Balance        *apppoints.GetPointsBalanceUseCase

	EvaluateNearby    *appnotification.EvaluateNearbyUseCase
	EvaluateMandatory *appnotification.EvaluateMandatoryUseCase
	Promotions        *appnotification.PromotionUseCase
	SendManual        *appnotification.SendManualUseCase
	Subscriptions     *appnotification.SubscriptionUseCase
}

// NewUseCases 以同一組 repository 與交易管理器組裝全部 Use Case
//
// 發點與推播評估共用同一個 Locker，確保同一客戶的冷卻時間更新依序可見。
func NewUseCases(in Infra) *UseCases {
	if in.Clock == nil {
		in.Clock = shared.SystemClock{}
	}
	if in.Logger == nil {
		in.Logger = zap.NewNop()
	}

	customers := customerrepo.NewCustomerRepository(in.DB)
	balances := pointsrepo.NewBalanceRepository(in.DB)
	events := pointsrepo.NewPointEventRepository(in.DB)
	subscriptions := notificationrepo.NewSubscriptionRepository(in.DB)
	promotions := notificationrepo.NewPromotionRepository(in.DB)
	logs := notificationrepo.NewLogRepository(in.DB)
	staffMembers := staffrepo.NewRepository(in.DB)
	txManager := persistence.NewGORMTransactionManager(in.DB)
	gate := points.NewAntifraudGate(in.AntifraudCooldown)

	deps := appnotification.Deps{
		Customers:     customers,
		Subscriptions: subscriptions,
		Promotions:    promotions,
		Logs:          logs,
		Dispatcher:    in.Dispatcher,
		TxManager:     txManager,
		Locker:        in.Locker,
		Clock:         in.Clock,
		Publisher:     in.Publisher,
		Logger:        in.Logger.Named("notification"),
		Rules:         in.Rules,
	}
	nearby := appnotification.NewEvaluateNearbyUseCase(deps)

	return &UseCases{
		RegisterCustomer: appcustomer.NewRegisterCustomerUseCase(customers, balances, txManager, in.Hasher, in.Clock, in.Logger.Named("customer")),
		LoginCustomer:    appcustomer.NewLoginCustomerUseCase(customers, in.Hasher),
		Profile:          appcustomer.NewGetProfileUseCase(customers, balances, promotions, in.Clock),
		UpdateLocation:   appcustomer.NewUpdateLocationUseCase(customers, txManager, in.Locker, nearby, in.Clock, in.Logger.Named("customer")),
		ListCustomers:    appcustomer.NewListCustomersUseCase(customers, balances),
		Dashboard:        appcustomer.NewDashboardUseCase(customers, balances, events, promotions, in.Clock, in.Zone),

		LoginStaff:  appstaff.NewLoginStaffUseCase(staffMembers, in.Hasher),
		CreateStaff: appstaff.NewCreateStaffUseCase(staffMembers, txManager, in.Hasher, in.Clock, in.Logger.Named("staff")),

		AwardPoint: apppoints.NewAwardPointUseCase(apppoints.AwardPointDeps{
			Customers: customers,
			Balances:  balances,
			Events:    events,
			TxManager: txManager,
			Locker:    in.Locker,
			Gate:      gate,
			Clock:     in.Clock,
			Publisher: in.Publisher,
			Logger:    in.Logger.Named("points"),
		}),
		CheckAntifraud: apppoints.NewCheckAntifraudUseCase(events, gate, in.Clock),
		Balance:        apppoints.NewGetPointsBalanceUseCase(balances),

		EvaluateNearby:    nearby,
		EvaluateMandatory: appnotification.NewEvaluateMandatoryUseCase(deps),
		Promotions:        appnotification.NewPromotionUseCase(promotions, txManager, in.Clock),
		SendManual:        appnotification.NewSendManualUseCase(deps),
		Subscriptions:     appnotification.NewSubscriptionUseCase(deps),
	}
}
