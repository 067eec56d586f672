package customer

import (
	"time"

	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/customer"
	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/notification"
	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/points"
	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/shared"
)

// LimaZone 場館所在時區（秘魯不實施夏令時間）
var LimaZone = time.FixedZone("PET", -5*60*60)

const recentCustomersLimit = 10

// DashboardResult 管理後台首頁統計
type DashboardResult struct {
	TotalCustomers   int64
	PointsToday      int64
	ActivePromotions int
	RecentCustomers  []CustomerWithPoints
}

// DashboardUseCase 統計：客戶總數、今日 QR 發點次數、有效促銷數、最新客戶
type DashboardUseCase struct {
	customers  customer.CustomerRepository
	balances   points.BalanceRepository
	events     points.PointEventRepository
	promotions notification.PromotionRepository
	clock      shared.Clock
	zone       *time.Location
}

// NewDashboardUseCase 創建 Use Case 實例；zone 為 nil 時使用 LimaZone
func NewDashboardUseCase(
	customers customer.CustomerRepository,
	balances points.BalanceRepository,
	events points.PointEventRepository,
	promotions notification.PromotionRepository,
	clock shared.Clock,
	zone *time.Location,
) *DashboardUseCase {
	if clock == nil {
		clock = shared.SystemClock{}
	}
	if zone == nil {
		zone = LimaZone
	}
	return &DashboardUseCase{
		customers:  customers,
		balances:   balances,
		events:     events,
		promotions: promotions,
		clock:      clock,
		zone:       zone,
	}
}

// Execute 計算統計
func (uc *DashboardUseCase) Execute() (*DashboardResult, error) {
	now := uc.clock.Now()

	total, err := uc.customers.Count(nil)
	if err != nil {
		return nil, err
	}

	today, err := uc.events.CountBySourceSince(nil, points.SourceQRScan, StartOfDay(now, uc.zone))
	if err != nil {
		return nil, err
	}

	live, err := uc.promotions.ListLive(nil, now)
	if err != nil {
		return nil, err
	}

	recent, _, err := uc.customers.Search(nil, "", recentCustomersLimit, 0)
	if err != nil {
		return nil, err
	}
	items, err := withPoints(uc.balances, recent)
	if err != nil {
		return nil, err
	}

	return &DashboardResult{
		TotalCustomers:   total,
		PointsToday:      today,
		ActivePromotions: len(live),
		RecentCustomers:  items,
	}, nil
}

// StartOfDay zone 當地午夜，以 UTC 表示
func StartOfDay(now time.Time, zone *time.Location) time.Time {
	local := now.In(zone)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, zone).UTC()
}
