package customer

import "github.com/jackyeh168/kuro_loyalty/src/internal/domain/shared"

// ===========================
// Customer Repository 介面
// ===========================

// CustomerRepository 客戶倉儲介面
//
// 事務使用：
// - Save / Update 必須在事務中
// - FindByIDForUpdate 只在事務中有意義（PostgreSQL 取得列鎖）
type CustomerRepository interface {
	// Save 保存新客戶
	// 錯誤：ErrDuplicateField（email / dni / phone / qr_token 唯一約束）
	Save(ctx shared.TransactionContext, c *Customer) error

	// Update 更新活動記錄與位置
	Update(ctx shared.TransactionContext, c *Customer) error

	// FindByID 查找客戶，找不到返回 ErrCustomerNotFound
	FindByID(ctx shared.TransactionContext, id CustomerID) (*Customer, error)

	// FindByIDForUpdate 查找並鎖定客戶列
	FindByIDForUpdate(ctx shared.TransactionContext, id CustomerID) (*Customer, error)

	// FindByQRToken 依 QR token 精確查找
	FindByQRToken(ctx shared.TransactionContext, token QRToken) (*Customer, error)

	// FindByEmail 依 email（小寫）查找
	FindByEmail(ctx shared.TransactionContext, email string) (*Customer, error)

	// ExistsByField 檢查 email / dni / phone 是否已存在
	ExistsByField(ctx shared.TransactionContext, field UniqueField, value string) (bool, error)

	// Search 依姓名 / email / 電話 / DNI 模糊搜尋，依建立時間倒序
	Search(ctx shared.TransactionContext, query string, limit, offset int) ([]*Customer, int64, error)

	// Count 客戶總數
	Count(ctx shared.TransactionContext) (int64, error)
}

// UniqueField 註冊唯一欄位
type UniqueField string

const (
	FieldEmail UniqueField = "email"
	FieldDNI   UniqueField = "dni"
	FieldPhone UniqueField = "phone"
)
