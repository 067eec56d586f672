package points

import (
	"errors"
	"time"

	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/customer"
	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/points"
	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/shared"
	"github.com/jackyeh168/kuro_loyalty/src/internal/infrastructure/persistence"
	"gorm.io/gorm"
)

// ===========================
// PointEventRepositoryImpl
// ===========================

// PointEventRepositoryImpl 點數事件倉儲實現（GORM）
type PointEventRepositoryImpl struct {
	db *gorm.DB
}

// NewPointEventRepository 創建點數事件倉儲
func NewPointEventRepository(db *gorm.DB) points.PointEventRepository {
	return &PointEventRepositoryImpl{db: db}
}

// Append 新增事件，返回資料庫分配的 ID
func (r *PointEventRepositoryImpl) Append(ctx shared.TransactionContext, event points.PointEvent) (points.PointEvent, error) {
	model := eventToGORM(event)
	if err := persistence.DB(ctx, r.db).Create(model).Error; err != nil {
		return points.PointEvent{}, err
	}
	return model.toDomain()
}

// FindLatestBySource 取某來源最新一筆事件，沒有時返回 (nil, nil)
func (r *PointEventRepositoryImpl) FindLatestBySource(ctx shared.TransactionContext, customerID customer.CustomerID, source points.PointSource) (*points.PointEvent, error) {
	var model PointEventGORM
	err := persistence.DB(ctx, r.db).
		Where("customer_id = ? AND source = ?", customerID.String(), string(source)).
		Order("created_at DESC").
		Order("id DESC").
		Take(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	event, err := model.toDomain()
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// ListByCustomer 依時間倒序列出客戶事件
func (r *PointEventRepositoryImpl) ListByCustomer(ctx shared.TransactionContext, customerID customer.CustomerID, limit int) ([]points.PointEvent, error) {
	var models []PointEventGORM
	err := persistence.DB(ctx, r.db).
		Where("customer_id = ?", customerID.String()).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	events := make([]points.PointEvent, 0, len(models))
	for i := range models {
		e, err := models[i].toDomain()
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, nil
}

// CountBySourceSince 統計某時間（含）之後的事件數
func (r *PointEventRepositoryImpl) CountBySourceSince(ctx shared.TransactionContext, source points.PointSource, since time.Time) (int64, error) {
	var count int64
	err := persistence.DB(ctx, r.db).Model(&PointEventGORM{}).
		Where("source = ? AND created_at >= ?", string(source), since.UTC()).
		Count(&count).Error
	return count, err
}
