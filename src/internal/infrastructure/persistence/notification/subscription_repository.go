package notification

import (
	"time"

	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/customer"
	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/notification"
	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/shared"
	"github.com/jackyeh168/kuro_loyalty/src/internal/infrastructure/persistence"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SubscriptionRepositoryImpl 推播訂閱倉儲實現（GORM）
type SubscriptionRepositoryImpl struct {
	db *gorm.DB
}

// NewSubscriptionRepository 創建推播訂閱倉儲
func NewSubscriptionRepository(db *gorm.DB) notification.SubscriptionRepository {
	return &SubscriptionRepositoryImpl{db: db}
}

// Upsert 依 (customer_id, endpoint) 新增或更新金鑰，並重新啟用
func (r *SubscriptionRepositoryImpl) Upsert(ctx shared.TransactionContext, sub notification.PushSubscription) (notification.PushSubscription, error) {
	db := persistence.DB(ctx, r.db)
	model := &PushSubscriptionGORM{
		CustomerID: sub.CustomerID.String(),
		Endpoint:   sub.Endpoint,
		P256dh:     sub.P256dh,
		Auth:       sub.Auth,
		Active:     true,
		CreatedAt:  sub.CreatedAt.UTC(),
		UpdatedAt:  sub.UpdatedAt.UTC(),
	}

	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "customer_id"}, {Name: "endpoint"}},
		DoUpdates: clause.AssignmentColumns([]string{"p256dh", "auth", "active", "updated_at"}),
	}).Create(model).Error
	if err != nil {
		return notification.PushSubscription{}, err
	}

	var stored PushSubscriptionGORM
	if err := db.Where("customer_id = ? AND endpoint = ?", model.CustomerID, model.Endpoint).
		First(&stored).Error; err != nil {
		return notification.PushSubscription{}, err
	}
	return stored.toDomain()
}

// FindActiveByCustomer 列出客戶所有啟用中的訂閱
func (r *SubscriptionRepositoryImpl) FindActiveByCustomer(ctx shared.TransactionContext, customerID customer.CustomerID) ([]notification.PushSubscription, error) {
	var models []PushSubscriptionGORM
	err := persistence.DB(ctx, r.db).
		Where("customer_id = ? AND active = ?", customerID.String(), true).
		Order("updated_at DESC").
		Order("id DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	subs := make([]notification.PushSubscription, 0, len(models))
	for i := range models {
		s, err := models[i].toDomain()
		if err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	return subs, nil
}

// ListSubscribedCustomerIDs 有啟用中訂閱的客戶（去重、依 ID 排序）
func (r *SubscriptionRepositoryImpl) ListSubscribedCustomerIDs(ctx shared.TransactionContext) ([]customer.CustomerID, error) {
	var raw []string
	err := persistence.DB(ctx, r.db).Model(&PushSubscriptionGORM{}).
		Where("active = ?", true).
		Distinct("customer_id").
		Order("customer_id").
		Pluck("customer_id", &raw).Error
	if err != nil {
		return nil, err
	}

	ids := make([]customer.CustomerID, 0, len(raw))
	for _, s := range raw {
		id, err := customer.CustomerIDFromString(s)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Delete 刪除訂閱
func (r *SubscriptionRepositoryImpl) Delete(ctx shared.TransactionContext, id int64) error {
	return persistence.DB(ctx, r.db).Delete(&PushSubscriptionGORM{}, id).Error
}

// Deactivate 停用訂閱
func (r *SubscriptionRepositoryImpl) Deactivate(ctx shared.TransactionContext, id int64, at time.Time) error {
	return persistence.DB(ctx, r.db).Model(&PushSubscriptionGORM{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{"active": false, "updated_at": at.UTC()}).Error
}
