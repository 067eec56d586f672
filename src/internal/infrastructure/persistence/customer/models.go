package customer

import (
	"time"

	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/customer"
)

// ===========================
// GORM Models
// ===========================

// CustomerGORM 客戶資料表模型
//
// 資料庫約束：
// - customer_id: 主鍵（UUID）
// - qr_token / email / dni / phone: 唯一索引
type CustomerGORM struct {
	CustomerID string `gorm:"column:customer_id;type:varchar(36);primaryKey"`
	QRToken    string `gorm:"column:qr_token;type:char(64);uniqueIndex;not null"`

	FullName       string    `gorm:"column:full_name;type:varchar(255);not null"`
	Email          string    `gorm:"column:email;type:varchar(255);uniqueIndex;not null"`
	Phone          string    `gorm:"column:phone;type:varchar(32);uniqueIndex;not null"`
	DNI            string    `gorm:"column:dni;type:varchar(32);uniqueIndex;not null"`
	DNIHash        string    `gorm:"column:dni_hash;type:varchar(255);not null"`
	Sex            string    `gorm:"column:sex;type:varchar(1);not null"`
	Birthdate      time.Time `gorm:"column:birthdate;not null"`
	MarketingOptIn bool      `gorm:"column:marketing_opt_in;not null;default:false"`

	LastPointAt         *time.Time `gorm:"column:last_point_at"`
	LastNearbyPushAt    *time.Time `gorm:"column:last_nearby_push_at"`
	LastMandatoryPushAt *time.Time `gorm:"column:last_mandatory_push_at"`
	LastLocationLat     *float64   `gorm:"column:last_location_lat"`
	LastLocationLng     *float64   `gorm:"column:last_location_lng"`
	LastLocationAt      *time.Time `gorm:"column:last_location_at"`

	CreatedAt time.Time `gorm:"column:created_at;not null;index"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

// TableName 指定資料表名稱
func (CustomerGORM) TableName() string {
	return "customers"
}

// toDomain 將 GORM 模型轉換為 Domain 模型
func (g *CustomerGORM) toDomain() (*customer.Customer, error) {
	id, err := customer.CustomerIDFromString(g.CustomerID)
	if err != nil {
		return nil, err
	}

	token, err := customer.NewQRToken(g.QRToken)
	if err != nil {
		return nil, err
	}

	phone, err := customer.NewPhoneNumber(g.Phone)
	if err != nil {
		return nil, err
	}

	profile := customer.Profile{
		FullName:       g.FullName,
		Email:          g.Email,
		Phone:          phone,
		DNI:            g.DNI,
		DNIHash:        g.DNIHash,
		Sex:            customer.Sex(g.Sex),
		Birthdate:      g.Birthdate.UTC(),
		MarketingOptIn: g.MarketingOptIn,
	}

	activity := customer.ActivityState{
		LastPointAt:         utcPtr(g.LastPointAt),
		LastNearbyPushAt:    utcPtr(g.LastNearbyPushAt),
		LastMandatoryPushAt: utcPtr(g.LastMandatoryPushAt),
	}
	if g.LastLocationLat != nil && g.LastLocationLng != nil && g.LastLocationAt != nil {
		activity.LastLocation = &customer.Location{
			Lat: *g.LastLocationLat,
			Lng: *g.LastLocationLng,
			At:  g.LastLocationAt.UTC(),
		}
	}

	return customer.ReconstructCustomer(id, token, profile, activity, g.CreatedAt.UTC(), g.UpdatedAt.UTC()), nil
}

// toGORM 將 Domain 模型轉換為 GORM 模型
func toGORM(c *customer.Customer) *CustomerGORM {
	profile := c.Profile()
	activity := c.Activity()

	g := &CustomerGORM{
		CustomerID:          c.CustomerID().String(),
		QRToken:             c.QRToken().String(),
		FullName:            profile.FullName,
		Email:               profile.Email,
		Phone:               profile.Phone.String(),
		DNI:                 profile.DNI,
		DNIHash:             profile.DNIHash,
		Sex:                 string(profile.Sex),
		Birthdate:           profile.Birthdate,
		MarketingOptIn:      profile.MarketingOptIn,
		LastPointAt:         activity.LastPointAt,
		LastNearbyPushAt:    activity.LastNearbyPushAt,
		LastMandatoryPushAt: activity.LastMandatoryPushAt,
		CreatedAt:           c.CreatedAt(),
		UpdatedAt:           c.UpdatedAt(),
	}
	if loc := activity.LastLocation; loc != nil {
		lat, lng, at := loc.Lat, loc.Lng, loc.At
		g.LastLocationLat = &lat
		g.LastLocationLng = &lng
		g.LastLocationAt = &at
	}
	return g
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
