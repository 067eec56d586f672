package notification

import (
	"time"

	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/customer"
	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/notification"
)

// ===========================
// GORM Models
// ===========================

// PushSubscriptionGORM 推播訂閱資料表模型
//
// 資料庫約束：
// - (customer_id, endpoint): 唯一索引，重複訂閱走 upsert
type PushSubscriptionGORM struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement"`
	CustomerID string    `gorm:"column:customer_id;type:varchar(36);not null;uniqueIndex:idx_push_subscriptions_customer_endpoint,priority:1"`
	Endpoint   string    `gorm:"column:endpoint;type:varchar(1024);not null;uniqueIndex:idx_push_subscriptions_customer_endpoint,priority:2"`
	P256dh     string    `gorm:"column:p256dh;type:varchar(255);not null"`
	Auth       string    `gorm:"column:auth;type:varchar(255);not null"`
	Active     bool      `gorm:"column:active;not null;default:true;index"`
	CreatedAt  time.Time `gorm:"column:created_at;not null"`
	UpdatedAt  time.Time `gorm:"column:updated_at;not null"`
}

// TableName 指定資料表名稱
func (PushSubscriptionGORM) TableName() string {
	return "push_subscriptions"
}

// PromotionGORM 促銷活動資料表模型
type PromotionGORM struct {
	PromotionID string     `gorm:"column:promotion_id;type:varchar(36);primaryKey"`
	Title       string     `gorm:"column:title;type:varchar(255);not null"`
	Description string     `gorm:"column:description;type:text"`
	ImageURL    string     `gorm:"column:image_url;type:varchar(1024)"`
	PushTitle   string     `gorm:"column:push_title;type:varchar(255)"`
	PushMessage string     `gorm:"column:push_message;type:text"`
	CTAURL      string     `gorm:"column:cta_url;type:varchar(1024)"`
	Audience    string     `gorm:"column:audience;type:varchar(20);not null;default:ALL"`
	Active      bool       `gorm:"column:active;not null;default:true"`
	StartAt     *time.Time `gorm:"column:start_at"`
	EndAt       *time.Time `gorm:"column:end_at"`
	CreatedAt   time.Time  `gorm:"column:created_at;not null;index"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;not null"`
}

// TableName 指定資料表名稱
func (PromotionGORM) TableName() string {
	return "promotions"
}

// NotificationLogGORM 推播稽核記錄（append-only）
type NotificationLogGORM struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement"`
	CustomerID   string    `gorm:"column:customer_id;type:varchar(36);not null;index"`
	PromotionID  string    `gorm:"column:promotion_id;type:varchar(36)"`
	Type         string    `gorm:"column:notification_type;type:varchar(20);not null"`
	Title        string    `gorm:"column:title;type:varchar(255)"`
	Message      string    `gorm:"column:message;type:text"`
	CTAURL       string    `gorm:"column:cta_url;type:varchar(1024)"`
	Success      bool      `gorm:"column:success;not null"`
	StatusCode   int       `gorm:"column:status_code"`
	ErrorMessage string    `gorm:"column:error_message;type:text"`
	CreatedAt    time.Time `gorm:"column:created_at;not null;index"`
}

// TableName 指定資料表名稱
func (NotificationLogGORM) TableName() string {
	return "push_notifications_log"
}

// ===========================
// Mapper Functions
// ===========================

func (g *PushSubscriptionGORM) toDomain() (notification.PushSubscription, error) {
	customerID, err := customer.CustomerIDFromString(g.CustomerID)
	if err != nil {
		return notification.PushSubscription{}, err
	}
	return notification.PushSubscription{
		ID:         g.ID,
		CustomerID: customerID,
		Endpoint:   g.Endpoint,
		P256dh:     g.P256dh,
		Auth:       g.Auth,
		Active:     g.Active,
		CreatedAt:  g.CreatedAt.UTC(),
		UpdatedAt:  g.UpdatedAt.UTC(),
	}, nil
}

func (g *PromotionGORM) toDomain() (*notification.Promotion, error) {
	id, err := notification.PromotionIDFromString(g.PromotionID)
	if err != nil {
		return nil, err
	}
	audience, err := notification.ParseAudience(g.Audience)
	if err != nil {
		return nil, err
	}
	return notification.ReconstructPromotion(id, notification.PromotionInput{
		Title:       g.Title,
		Description: g.Description,
		ImageURL:    g.ImageURL,
		PushTitle:   g.PushTitle,
		PushMessage: g.PushMessage,
		CTAURL:      g.CTAURL,
		Audience:    audience,
		Active:      g.Active,
		StartAt:     utcPtr(g.StartAt),
		EndAt:       utcPtr(g.EndAt),
	}, g.CreatedAt.UTC(), g.UpdatedAt.UTC()), nil
}

func promotionToGORM(p *notification.Promotion) *PromotionGORM {
	return &PromotionGORM{
		PromotionID: p.ID().String(),
		Title:       p.Title(),
		Description: p.Description(),
		ImageURL:    p.ImageURL(),
		PushTitle:   p.PushTitle(),
		PushMessage: p.PushMessage(),
		CTAURL:      p.CTAURL(),
		Audience:    string(p.Audience()),
		Active:      p.Active(),
		StartAt:     utcPtr(p.StartAt()),
		EndAt:       utcPtr(p.EndAt()),
		CreatedAt:   p.CreatedAt().UTC(),
		UpdatedAt:   p.UpdatedAt().UTC(),
	}
}

func logToGORM(e notification.LogEntry) *NotificationLogGORM {
	return &NotificationLogGORM{
		CustomerID:   e.CustomerID.String(),
		PromotionID:  e.PromotionID,
		Type:         string(e.Type),
		Title:        e.Title,
		Message:      e.Message,
		CTAURL:       e.CTAURL,
		Success:      e.Success,
		StatusCode:   e.StatusCode,
		ErrorMessage: e.ErrorMessage,
		CreatedAt:    e.CreatedAt.UTC(),
	}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
