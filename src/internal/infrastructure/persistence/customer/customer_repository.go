package customer

import (
	"errors"
	"strings"

	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/customer"
	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/shared"
	"github.com/jackyeh168/kuro_loyalty/src/internal/infrastructure/persistence"
	"gorm.io/gorm"
)

// ===========================
// CustomerRepositoryImpl
// ===========================

// CustomerRepositoryImpl 客戶倉儲實現（GORM）
type CustomerRepositoryImpl struct {
	db *gorm.DB
}

// NewCustomerRepository 創建客戶倉儲
func NewCustomerRepository(db *gorm.DB) customer.CustomerRepository {
	return &CustomerRepositoryImpl{db: db}
}

// Save 保存新客戶
//
// 錯誤處理：
// - UNIQUE constraint 違反 → ErrDuplicateField（Context 帶 field）
func (r *CustomerRepositoryImpl) Save(ctx shared.TransactionContext, c *customer.Customer) error {
	db := persistence.DB(ctx, r.db)

	if err := db.Create(toGORM(c)).Error; err != nil {
		if persistence.IsUniqueConstraintError(err) {
			field := persistence.UniqueConstraintColumn(err, "email", "dni", "phone", "qr_token")
			return customer.ErrDuplicateField.WithContext("field", field)
		}
		return err
	}
	return nil
}

// Update 更新客戶活動記錄與位置
//
// 使用 Select("*") 讓 nil 欄位也寫回（GORM Updates 預設忽略零值）。
// 註冊資料與 QR token 不可變，不在更新欄位內。
func (r *CustomerRepositoryImpl) Update(ctx shared.TransactionContext, c *customer.Customer) error {
	db := persistence.DB(ctx, r.db)
	g := toGORM(c)

	result := db.Model(&CustomerGORM{}).
		Where("customer_id = ?", g.CustomerID).
		Select(
			"last_point_at", "last_nearby_push_at", "last_mandatory_push_at",
			"last_location_lat", "last_location_lng", "last_location_at", "updated_at",
		).
		Updates(g)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return customer.ErrCustomerNotFound.WithContext("customer_id", g.CustomerID)
	}
	return nil
}

// FindByID 根據客戶 ID 查找
func (r *CustomerRepositoryImpl) FindByID(ctx shared.TransactionContext, id customer.CustomerID) (*customer.Customer, error) {
	return r.findOne(persistence.DB(ctx, r.db), "customer_id = ?", id.String())
}

// FindByIDForUpdate 查找並鎖定客戶列（PostgreSQL FOR UPDATE）
func (r *CustomerRepositoryImpl) FindByIDForUpdate(ctx shared.TransactionContext, id customer.CustomerID) (*customer.Customer, error) {
	return r.findOne(persistence.ForUpdate(persistence.DB(ctx, r.db)), "customer_id = ?", id.String())
}

// FindByQRToken 依 QR token 精確查找
func (r *CustomerRepositoryImpl) FindByQRToken(ctx shared.TransactionContext, token customer.QRToken) (*customer.Customer, error) {
	return r.findOne(persistence.DB(ctx, r.db), "qr_token = ?", token.String())
}

// FindByEmail 依 email 查找
func (r *CustomerRepositoryImpl) FindByEmail(ctx shared.TransactionContext, email string) (*customer.Customer, error) {
	return r.findOne(persistence.DB(ctx, r.db), "email = ?", strings.ToLower(strings.TrimSpace(email)))
}

// ExistsByField 檢查唯一欄位是否已存在
func (r *CustomerRepositoryImpl) ExistsByField(ctx shared.TransactionContext, field customer.UniqueField, value string) (bool, error) {
	var column string
	switch field {
	case customer.FieldEmail:
		column = "email"
	case customer.FieldDNI:
		column = "dni"
	case customer.FieldPhone:
		column = "phone"
	default:
		return false, shared.ErrValidation.WithContext("field", string(field))
	}

	var count int64
	err := persistence.DB(ctx, r.db).Model(&CustomerGORM{}).Where(column+" = ?", value).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Search 依姓名 / email / 電話 / DNI 模糊搜尋
func (r *CustomerRepositoryImpl) Search(ctx shared.TransactionContext, query string, limit, offset int) ([]*customer.Customer, int64, error) {
	db := persistence.DB(ctx, r.db).Model(&CustomerGORM{})
	if q := strings.TrimSpace(query); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		db = db.Where("LOWER(full_name) LIKE ? OR email LIKE ? OR phone LIKE ? OR dni LIKE ?", like, like, like, like)
	}
	db = db.Session(&gorm.Session{})

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []CustomerGORM
	if err := db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&models).Error; err != nil {
		return nil, 0, err
	}

	result := make([]*customer.Customer, 0, len(models))
	for i := range models {
		c, err := models[i].toDomain()
		if err != nil {
			return nil, 0, err
		}
		result = append(result, c)
	}
	return result, total, nil
}

// Count 客戶總數
func (r *CustomerRepositoryImpl) Count(ctx shared.TransactionContext) (int64, error) {
	var count int64
	err := persistence.DB(ctx, r.db).Model(&CustomerGORM{}).Count(&count).Error
	return count, err
}

func (r *CustomerRepositoryImpl) findOne(db *gorm.DB, query string, args ...interface{}) (*customer.Customer, error) {
	var model CustomerGORM
	if err := db.Where(query, args...).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, customer.ErrCustomerNotFound
		}
		return nil, err
	}
	return model.toDomain()
}
