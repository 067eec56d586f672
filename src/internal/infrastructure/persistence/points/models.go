package points

import (
	"time"

	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/customer"
	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/points"
)

// ===========================
// GORM Models
// ===========================

// LoyaltyBalanceGORM 點數餘額資料表模型
//
// 資料庫約束：
// - customer_id: 主鍵（一位客戶一列）
// - points: >= 0，只以 points = points + ? 遞增
type LoyaltyBalanceGORM struct {
	CustomerID string    `gorm:"column:customer_id;type:varchar(36);primaryKey"`
	Points     int       `gorm:"column:points;not null;default:0;check:points >= 0"`
	UpdatedAt  time.Time `gorm:"column:updated_at;not null"`
}

// TableName 指定資料表名稱
func (LoyaltyBalanceGORM) TableName() string {
	return "loyalty_balances"
}

// PointEventGORM 點數事件資料表模型（append-only）
//
// idx_point_events_lookup 支援「某客戶某來源最新一筆」查詢。
type PointEventGORM struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement"`
	CustomerID string    `gorm:"column:customer_id;type:varchar(36);not null;index:idx_point_events_lookup,priority:1"`
	StaffID    string    `gorm:"column:staff_id;type:varchar(64)"`
	Source     string    `gorm:"column:source;type:varchar(20);not null;index:idx_point_events_lookup,priority:2"`
	CreatedAt  time.Time `gorm:"column:created_at;not null;index:idx_point_events_lookup,priority:3"`
}

// TableName 指定資料表名稱
func (PointEventGORM) TableName() string {
	return "point_events"
}

// ===========================
// Mapper Functions
// ===========================

func (g *LoyaltyBalanceGORM) toDomain() (*points.LoyaltyBalance, error) {
	customerID, err := customer.CustomerIDFromString(g.CustomerID)
	if err != nil {
		return nil, err
	}
	return points.ReconstructLoyaltyBalance(customerID, g.Points, g.UpdatedAt.UTC())
}

func (g *PointEventGORM) toDomain() (points.PointEvent, error) {
	customerID, err := customer.CustomerIDFromString(g.CustomerID)
	if err != nil {
		return points.PointEvent{}, err
	}
	source, err := points.ParsePointSource(g.Source)
	if err != nil {
		return points.PointEvent{}, err
	}
	return points.ReconstructPointEvent(g.ID, customerID, g.StaffID, source, g.CreatedAt.UTC()), nil
}

func eventToGORM(e points.PointEvent) *PointEventGORM {
	return &PointEventGORM{
		CustomerID: e.CustomerID().String(),
		StaffID:    e.StaffID(),
		Source:     string(e.Source()),
		CreatedAt:  e.CreatedAt().UTC(),
	}
}
