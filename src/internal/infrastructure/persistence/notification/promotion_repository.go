package notification

import (
	"errors"
	"time"

	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/notification"
	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/shared"
	"github.com/jackyeh168/kuro_loyalty/src/internal/infrastructure/persistence"
	"gorm.io/gorm"
)

// PromotionRepositoryImpl 促銷活動倉儲實現（GORM）
type PromotionRepositoryImpl struct {
	db *gorm.DB
}

// NewPromotionRepository 創建促銷活動倉儲
func NewPromotionRepository(db *gorm.DB) notification.PromotionRepository {
	return &PromotionRepositoryImpl{db: db}
}

// Save 新增促銷活動
func (r *PromotionRepositoryImpl) Save(ctx shared.TransactionContext, p *notification.Promotion) error {
	return persistence.DB(ctx, r.db).Create(promotionToGORM(p)).Error
}

// Update 覆寫促銷活動（Select("*") 讓 false / nil 欄位也寫回）
func (r *PromotionRepositoryImpl) Update(ctx shared.TransactionContext, p *notification.Promotion) error {
	model := promotionToGORM(p)
	result := persistence.DB(ctx, r.db).Model(&PromotionGORM{}).
		Where("promotion_id = ?", model.PromotionID).
		Select("*").
		Omit("promotion_id", "created_at").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return notification.ErrPromotionNotFound.WithContext("promotion_id", model.PromotionID)
	}
	return nil
}

// FindByID 查找促銷活動
func (r *PromotionRepositoryImpl) FindByID(ctx shared.TransactionContext, id notification.PromotionID) (*notification.Promotion, error) {
	var model PromotionGORM
	err := persistence.DB(ctx, r.db).Where("promotion_id = ?", id.String()).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notification.ErrPromotionNotFound.WithContext("promotion_id", id.String())
		}
		return nil, err
	}
	return model.toDomain()
}

// ListAll 依建立時間倒序
func (r *PromotionRepositoryImpl) ListAll(ctx shared.TransactionContext) ([]*notification.Promotion, error) {
	return r.list(persistence.DB(ctx, r.db))
}

// ListLive 啟用中且在有效期間內
//
// 資料庫只篩 active，期間判斷交給 Promotion.IsLive，
// 避免 SQLite 與 PostgreSQL 時間比較語意不同。
func (r *PromotionRepositoryImpl) ListLive(ctx shared.TransactionContext, now time.Time) ([]*notification.Promotion, error) {
	all, err := r.list(persistence.DB(ctx, r.db).Where("active = ?", true))
	if err != nil {
		return nil, err
	}
	live := make([]*notification.Promotion, 0, len(all))
	for _, p := range all {
		if p.IsLive(now) {
			live = append(live, p)
		}
	}
	return live, nil
}

func (r *PromotionRepositoryImpl) list(db *gorm.DB) ([]*notification.Promotion, error) {
	var models []PromotionGORM
	if err := db.Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	result := make([]*notification.Promotion, 0, len(models))
	for i := range models {
		p, err := models[i].toDomain()
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, nil
}
