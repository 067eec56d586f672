package migrations

import (
	"fmt"
	"time"

	"github.com/jackyeh168/kuro_loyalty/src/internal/infrastructure/persistence/customer"
	"github.com/jackyeh168/kuro_loyalty/src/internal/infrastructure/persistence/notification"
	"github.com/jackyeh168/kuro_loyalty/src/internal/infrastructure/persistence/points"
	"github.com/jackyeh168/kuro_loyalty/src/internal/infrastructure/persistence/staff"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ===========================
// 版本化 Schema 遷移
// ===========================

// Migration 單一遷移步驟
//
// Up 在事務中執行，成功後寫入 schema_migrations。
// 已套用的版本不可修改，新的 schema 變更一律新增版本。
type Migration struct {
	Version int
	Name    string
	Up      func(tx *gorm.DB) error
}

// SchemaMigration 已套用版本的紀錄
type SchemaMigration struct {
	Version   int       `gorm:"column:version;primaryKey;autoIncrement:false"`
	Name      string    `gorm:"column:name;type:varchar(128);not null"`
	AppliedAt time.Time `gorm:"column:applied_at;not null"`
}

// TableName 指定資料表名稱
func (SchemaMigration) TableName() string {
	return "schema_migrations"
}

// All 依版本排序的遷移清單
func All() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_customers_and_points",
			Up: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&customer.CustomerGORM{}, &points.LoyaltyBalanceGORM{}, &points.PointEventGORM{})
			},
		},
		{
			Version: 2,
			Name:    "create_notifications",
			Up: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&notification.PushSubscriptionGORM{}, &notification.PromotionGORM{}, &notification.NotificationLogGORM{})
			},
		},
		{
			Version: 3,
			Name:    "create_staff_users",
			Up: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&staff.StaffGORM{})
			},
		},
	}
}

// Run 套用尚未執行的遷移，返回本次套用的版本數
func Run(db *gorm.DB, log *zap.Logger) (int, error) {
	return apply(db, log, All())
}

func apply(db *gorm.DB, log *zap.Logger, migrations []Migration) (int, error) {
	if err := db.AutoMigrate(&SchemaMigration{}); err != nil {
		return 0, fmt.Errorf("create schema_migrations: %w", err)
	}

	var applied []int
	if err := db.Model(&SchemaMigration{}).Pluck("version", &applied).Error; err != nil {
		return 0, fmt.Errorf("read schema_migrations: %w", err)
	}
	done := make(map[int]bool, len(applied))
	for _, v := range applied {
		done[v] = true
	}

	count := 0
	for _, m := range migrations {
		if done[m.Version] {
			continue
		}
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := m.Up(tx); err != nil {
				return err
			}
			return tx.Create(&SchemaMigration{Version: m.Version, Name: m.Name, AppliedAt: time.Now().UTC()}).Error
		})
		if err != nil {
			return count, fmt.Errorf("migration %d (%s): %w", m.Version, m.Name, err)
		}
		log.Info("[DB] migration applied", zap.Int("version", m.Version), zap.String("name", m.Name))
		count++
	}
	return count, nil
}
