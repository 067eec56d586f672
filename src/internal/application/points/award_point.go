package points

import (
	"errors"
	"fmt"
	"time"

	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/customer"
	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/points"
	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/shared"
	"go.uber.org/zap"
)

// ===========================
// AwardPoint Use Case
// ===========================

// AwardPointCommand 店員掃描 QR 發點指令
type AwardPointCommand struct {
	QRToken string // 64 位小寫 hex
	StaffID string // 掃描的店員
}

// AwardPointResult 發點結果
type AwardPointResult struct {
	CustomerID string
	FullName   string
	NewBalance int
	AwardedAt  time.Time
}

// AwardPointDeps 發點所需依賴
type AwardPointDeps struct {
	Customers customer.CustomerRepository
	Balances  points.BalanceRepository
	Events    points.PointEventRepository
	TxManager shared.TransactionManager
	Locker    shared.KeyedLocker
	Gate      *points.AntifraudGate
	Clock     shared.Clock
	Publisher shared.EventPublisher
	Logger    *zap.Logger
}

// AwardPointUseCase 防詐發點交易
//
// 業務規則：
// 1. QR token 格式錯誤或查無客戶 → NotFound
// 2. 最近一次 QR_SCAN 未滿冷卻期 → Cooldown（Context 帶 retry_after_minutes）
// 3. 餘額列不存在時以 0 建立，再原子 +1；遞增影響 0 列 → InternalError
// 4. 遞增之後才寫入 QR_SCAN 事件，並更新 lastPointAt
//
// 同一客戶的 Gate 檢查與發點以 KeyedLocker 序列化，
// 事務內再以 FindByIDForUpdate 鎖定客戶列（PostgreSQL）。
type AwardPointUseCase struct {
	deps AwardPointDeps
}

// NewAwardPointUseCase 創建 Use Case 實例
func NewAwardPointUseCase(deps AwardPointDeps) *AwardPointUseCase {
	if deps.Gate == nil {
		deps.Gate = points.NewAntifraudGate(points.DefaultCooldown)
	}
	if deps.Clock == nil {
		deps.Clock = shared.SystemClock{}
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &AwardPointUseCase{deps: deps}
}

// Execute 執行發點
func (uc *AwardPointUseCase) Execute(cmd AwardPointCommand) (*AwardPointResult, error) {
	// Step 1: 解析 QR token 並找出客戶
	token, err := customer.NewQRToken(cmd.QRToken)
	if err != nil {
		return nil, customer.ErrCustomerNotFound.WithContext("reason", "malformed qr token")
	}
	target, err := uc.deps.Customers.FindByQRToken(nil, token)
	if err != nil {
		return nil, err
	}
	customerID := target.CustomerID()

	// Step 2: 同一客戶序列化
	unlock := uc.deps.Locker.Lock(customerID.String())
	defer unlock()

	var (
		result   *AwardPointResult
		decision points.Decision
	)
	now := uc.deps.Clock.Now()

	err = uc.deps.TxManager.InTransaction(func(ctx shared.TransactionContext) error {
		locked, err := uc.deps.Customers.FindByIDForUpdate(ctx, customerID)
		if err != nil {
			return err
		}

		// 2a. Gate
		last, err := uc.deps.Events.FindLatestBySource(ctx, customerID, points.SourceQRScan)
		if err != nil {
			return fmt.Errorf("failed to load last scan: %w", err)
		}
		decision = uc.deps.Gate.Evaluate(last, now)
		if !decision.Allowed {
			return shared.ErrCooldown.WithContext(
				"customer_id", customerID.String(),
				"retry_after_minutes", decision.RetryAfterMinutes(),
			)
		}

		// 2b. 確保餘額列存在後原子遞增
		if err := uc.deps.Balances.EnsureExists(ctx, customerID); err != nil {
			return fmt.Errorf("failed to ensure balance: %w", err)
		}
		affected, err := uc.deps.Balances.Increment(ctx, customerID, 1)
		if err != nil {
			return fmt.Errorf("failed to increment balance: %w", err)
		}
		if affected == 0 {
			return points.ErrIncrementAffectedNoRows.WithContext("customer_id", customerID.String())
		}

		// 2c. 遞增成功後才寫入事件
		if _, err := uc.deps.Events.Append(ctx, points.NewPointEvent(customerID, cmd.StaffID, points.SourceQRScan, now)); err != nil {
			return fmt.Errorf("failed to append point event: %w", err)
		}

		// 2d. lastPointAt
		locked.RecordPointAwarded(now)
		if err := uc.deps.Customers.Update(ctx, locked); err != nil {
			return fmt.Errorf("failed to update customer: %w", err)
		}

		balance, err := uc.deps.Balances.FindByCustomerID(ctx, customerID)
		if err != nil {
			return err
		}

		result = &AwardPointResult{
			CustomerID: customerID.String(),
			FullName:   locked.Profile().FullName,
			NewBalance: balance.Points().Value(),
			AwardedAt:  now,
		}
		return nil
	})

	if err != nil {
		if errors.Is(err, shared.ErrCooldown) {
			uc.deps.Logger.Info("point award denied by cooldown",
				zap.String("customer_id", customerID.String()),
				zap.String("staff_id", cmd.StaffID),
				zap.Duration("retry_after", decision.RetryAfter),
			)
			uc.publish(points.NewPointDeniedEvent(customerID, decision.RetryAfterMinutes(), now))
			return nil, err
		}
		uc.deps.Logger.Error("point award failed",
			zap.String("customer_id", customerID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	uc.deps.Logger.Info("point awarded",
		zap.String("customer_id", customerID.String()),
		zap.String("staff_id", cmd.StaffID),
		zap.Int("new_balance", result.NewBalance),
	)
	uc.publish(points.NewPointAwardedEvent(customerID, cmd.StaffID, result.NewBalance, now))
	return result, nil
}

// publish 事務提交後發布，失敗只記錄
func (uc *AwardPointUseCase) publish(event shared.DomainEvent) {
	if uc.deps.Publisher == nil {
		return
	}
	if err := uc.deps.Publisher.Publish(event); err != nil {
		uc.deps.Logger.Warn("failed to publish event", zap.String("event_type", event.EventType()), zap.Error(err))
	}
}
