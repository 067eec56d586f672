package customer

import (
	"context"

	"go.uber.org/zap"

	appnotification "github.com/jackyeh168/kuro_loyalty/src/internal/application/notification"
	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/customer"
	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/shared"
)

// NearbyEvaluator 附近推播評估（由 application/notification 實作）
type NearbyEvaluator interface {
	Execute(ctx context.Context, cmd appnotification.EvaluateNearbyCommand) (*appnotification.EvaluationResult, error)
}

// UpdateLocationCommand 客戶回報位置
type UpdateLocationCommand struct {
	CustomerID string
	Lat        float64
	Lng        float64
}

// ReasonEvaluationFailed 評估過程出錯；位置仍已保存
const ReasonEvaluationFailed = "evaluation_failed"

// UpdateLocationResult 位置已保存，並附上附近推播評估結果
type UpdateLocationResult struct {
	LocationUpdated bool
	Evaluation      *appnotification.EvaluationResult
}

// UpdateLocationUseCase 保存位置後評估附近推播
//
// 位置在客戶鎖內寫入；評估器自己也會取同一把鎖，所以必須先釋放再評估。
type UpdateLocationUseCase struct {
	customers customer.CustomerRepository
	txManager shared.TransactionManager
	locker    shared.KeyedLocker
	evaluator NearbyEvaluator
	clock     shared.Clock
	logger    *zap.Logger
}

// NewUpdateLocationUseCase 創建 Use Case 實例
func NewUpdateLocationUseCase(
	customers customer.CustomerRepository,
	txManager shared.TransactionManager,
	locker shared.KeyedLocker,
	evaluator NearbyEvaluator,
	clock shared.Clock,
	logger *zap.Logger,
) *UpdateLocationUseCase {
	if clock == nil {
		clock = shared.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UpdateLocationUseCase{
		customers: customers,
		txManager: txManager,
		locker:    locker,
		evaluator: evaluator,
		clock:     clock,
		logger:    logger,
	}
}

// Execute 保存位置並評估
//
// 位置寫入成功後一律回傳 LocationUpdated；評估錯誤只記錄並放進 Evaluation.Error。
func (uc *UpdateLocationUseCase) Execute(ctx context.Context, cmd UpdateLocationCommand) (*UpdateLocationResult, error) {
	id, err := customer.CustomerIDFromString(cmd.CustomerID)
	if err != nil {
		return nil, err
	}
	loc, err := customer.NewLocation(cmd.Lat, cmd.Lng, uc.clock.Now())
	if err != nil {
		return nil, err
	}

	if err := uc.saveLocation(id, loc); err != nil {
		return nil, err
	}

	evaluation, err := uc.evaluator.Execute(ctx, appnotification.EvaluateNearbyCommand{
		CustomerID: cmd.CustomerID,
		Lat:        cmd.Lat,
		Lng:        cmd.Lng,
	})
	if err != nil {
		uc.logger.Error("nearby evaluation failed after location update",
			zap.String("customer_id", cmd.CustomerID),
			zap.Error(err),
		)
		evaluation = &appnotification.EvaluationResult{
			CustomerID: cmd.CustomerID,
			Reason:     ReasonEvaluationFailed,
			Error:      err.Error(),
		}
	}
	return &UpdateLocationResult{LocationUpdated: true, Evaluation: evaluation}, nil
}

func (uc *UpdateLocationUseCase) saveLocation(id customer.CustomerID, loc customer.Location) error {
	unlock := uc.locker.Lock(id.String())
	defer unlock()

	return uc.txManager.InTransaction(func(ctx shared.TransactionContext) error {
		c, err := uc.customers.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		c.RecordLocation(loc)
		return uc.customers.Update(ctx, c)
	})
}
