package staff

import (
	"errors"
	"time"

	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/shared"
	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/staff"
	"github.com/jackyeh168/kuro_loyalty/src/internal/infrastructure/persistence"
	"gorm.io/gorm"
)

// StaffGORM 店員資料表模型
type StaffGORM struct {
	StaffID      string    `gorm:"column:staff_id;type:varchar(36);primaryKey"`
	Username     string    `gorm:"column:username;type:varchar(32);uniqueIndex;not null"`
	PasswordHash string    `gorm:"column:password_hash;type:varchar(255);not null"`
	Role         string    `gorm:"column:role;type:varchar(10);not null;default:staff"`
	CreatedAt    time.Time `gorm:"column:created_at;not null"`
}

// TableName 指定資料表名稱
func (StaffGORM) TableName() string {
	return "staff_users"
}

func (g *StaffGORM) toDomain() (*staff.Staff, error) {
	id, err := staff.StaffIDFromString(g.StaffID)
	if err != nil {
		return nil, err
	}
	role, err := staff.ParseRole(g.Role)
	if err != nil {
		return nil, err
	}
	return staff.ReconstructStaff(id, g.Username, g.PasswordHash, role, g.CreatedAt.UTC()), nil
}

// RepositoryImpl 店員倉儲實現（GORM）
type RepositoryImpl struct {
	db *gorm.DB
}

// NewRepository 創建店員倉儲
func NewRepository(db *gorm.DB) staff.Repository {
	return &RepositoryImpl{db: db}
}

// Save 新增店員，帳號重複時返回 ErrUsernameTaken
func (r *RepositoryImpl) Save(ctx shared.TransactionContext, s *staff.Staff) error {
	model := &StaffGORM{
		StaffID:      s.ID().String(),
		Username:     s.Username(),
		PasswordHash: s.PasswordHash(),
		Role:         string(s.Role()),
		CreatedAt:    s.CreatedAt().UTC(),
	}
	if err := persistence.DB(ctx, r.db).Create(model).Error; err != nil {
		if persistence.IsUniqueConstraintError(err) {
			return staff.ErrUsernameTaken.WithContext("username", s.Username())
		}
		return err
	}
	return nil
}

// FindByUsername 依帳號查找
func (r *RepositoryImpl) FindByUsername(ctx shared.TransactionContext, username string) (*staff.Staff, error) {
	return r.findOne(persistence.DB(ctx, r.db), "username = ?", staff.NormalizeUsername(username))
}

// FindByID 依 ID 查找
func (r *RepositoryImpl) FindByID(ctx shared.TransactionContext, id staff.StaffID) (*staff.Staff, error) {
	return r.findOne(persistence.DB(ctx, r.db), "staff_id = ?", id.String())
}

func (r *RepositoryImpl) findOne(db *gorm.DB, query string, args ...interface{}) (*staff.Staff, error) {
	var model StaffGORM
	if err := db.Where(query, args...).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, staff.ErrStaffNotFound
		}
		return nil, err
	}
	return model.toDomain()
}
