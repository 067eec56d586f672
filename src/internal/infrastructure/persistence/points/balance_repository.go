package points

import (
	"errors"

	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/customer"
	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/points"
	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/shared"
	"github.com/jackyeh168/kuro_loyalty/src/internal/infrastructure/persistence"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ===========================
// BalanceRepositoryImpl
// ===========================

// BalanceRepositoryImpl 點數餘額倉儲實現（GORM）
type BalanceRepositoryImpl struct {
	db *gorm.DB
}

// NewBalanceRepository 創建點數餘額倉儲
func NewBalanceRepository(db *gorm.DB) points.BalanceRepository {
	return &BalanceRepositoryImpl{db: db}
}

// EnsureExists 以 INSERT ... ON CONFLICT DO NOTHING 建立 0 點餘額
func (r *BalanceRepositoryImpl) EnsureExists(ctx shared.TransactionContext, customerID customer.CustomerID) error {
	db := persistence.DB(ctx, r.db)
	model := &LoyaltyBalanceGORM{
		CustomerID: customerID.String(),
		Points:     0,
		UpdatedAt:  db.NowFunc(),
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(model).Error
}

// Increment 原子遞增
//
// 單一 UPDATE 敘述，不做讀取後寫回。返回受影響列數，
// 0 代表餘額列不存在，由呼叫端決定如何處理。
func (r *BalanceRepositoryImpl) Increment(ctx shared.TransactionContext, customerID customer.CustomerID, delta int) (int64, error) {
	db := persistence.DB(ctx, r.db)
	result := db.Model(&LoyaltyBalanceGORM{}).
		Where("customer_id = ?", customerID.String()).
		UpdateColumns(map[string]interface{}{
			"points":     gorm.Expr("points + ?", delta),
			"updated_at": db.NowFunc(),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// FindByCustomerID 查找餘額
func (r *BalanceRepositoryImpl) FindByCustomerID(ctx shared.TransactionContext, customerID customer.CustomerID) (*points.LoyaltyBalance, error) {
	var model LoyaltyBalanceGORM
	err := persistence.DB(ctx, r.db).Where("customer_id = ?", customerID.String()).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, points.ErrBalanceNotFound.WithContext("customer_id", customerID.String())
		}
		return nil, err
	}
	return model.toDomain()
}

// FindByCustomerIDs 批次查找（客戶列表頁）
func (r *BalanceRepositoryImpl) FindByCustomerIDs(ctx shared.TransactionContext, ids []customer.CustomerID) (map[string]int, error) {
	result := make(map[string]int, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, id.String())
	}

	var models []LoyaltyBalanceGORM
	if err := persistence.DB(ctx, r.db).Where("customer_id IN ?", keys).Find(&models).Error; err != nil {
		return nil, err
	}
	for _, m := range models {
		result[m.CustomerID] = m.Points
	}
	return result, nil
}
