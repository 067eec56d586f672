package points

import (
	"fmt"

	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/customer"
	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/points"
	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/shared"
)

// CheckAntifraudResult 是否可發點（唯讀，不修改任何狀態）
type CheckAntifraudResult struct {
	Allowed           bool
	RetryAfterMinutes int
}

// CheckAntifraudUseCase 查詢客戶目前能否被掃描發點
type CheckAntifraudUseCase struct {
	events points.PointEventRepository
	gate   *points.AntifraudGate
	clock  shared.Clock
}

// NewCheckAntifraudUseCase 創建 Use Case 實例
func NewCheckAntifraudUseCase(events points.PointEventRepository, gate *points.AntifraudGate, clock shared.Clock) *CheckAntifraudUseCase {
	return &CheckAntifraudUseCase{events: events, gate: gate, clock: clock}
}

// Execute 以最近一次 QR_SCAN 事件判斷
func (uc *CheckAntifraudUseCase) Execute(customerID string) (*CheckAntifraudResult, error) {
	id, err := customer.CustomerIDFromString(customerID)
	if err != nil {
		return nil, err
	}

	last, err := uc.events.FindLatestBySource(nil, id, points.SourceQRScan)
	if err != nil {
		return nil, fmt.Errorf("failed to load last scan: %w", err)
	}

	decision := uc.gate.Evaluate(last, uc.clock.Now())
	return &CheckAntifraudResult{
		Allowed:           decision.Allowed,
		RetryAfterMinutes: decision.RetryAfterMinutes(),
	}, nil
}
