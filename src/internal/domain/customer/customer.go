package customer

import (
	"time"
)

// ===========================
// Customer Aggregate Root
// ===========================

// Customer 客戶聚合根
//
// 聚合邊界：
// - 身分（CustomerID, QRToken）
// - 註冊資料（Profile）
// - 活動記錄：lastPointAt, lastNearbyPushAt, lastMandatoryPushAt, lastLocation
//
// 不變量：
// 1. QRToken 建立後不可變更
// 2. lastPointAt 只由點數發放更新
// 3. 推播時間只由推播評估在發送成功後更新
//
// 點數餘額不屬於此聚合，儲存在 points.LoyaltyBalance。
type Customer struct {
	customerID CustomerID
	qrToken    QRToken
	profile    Profile

	lastPointAt         *time.Time
	lastNearbyPushAt    *time.Time
	lastMandatoryPushAt *time.Time
	lastLocation        *Location

	createdAt time.Time
	updatedAt time.Time
}

// NewCustomer 創建新客戶
//
// 業務規則：
// - 自動生成 CustomerID
// - 所有活動記錄為空
func NewCustomer(qrToken QRToken, profile Profile, now time.Time) (*Customer, error) {
	if qrToken.IsZero() {
		return nil, ErrInvalidQRToken
	}
	return &Customer{
		customerID: NewCustomerID(),
		qrToken:    qrToken,
		profile:    profile,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

// ActivityState 活動記錄（重建用）
type ActivityState struct {
	LastPointAt         *time.Time
	LastNearbyPushAt    *time.Time
	LastMandatoryPushAt *time.Time
	LastLocation        *Location
}

// ReconstructCustomer 從資料庫重建客戶聚合
//
// 不執行註冊規則驗證（假設資料庫中的數據已驗證）。
func ReconstructCustomer(
	customerID CustomerID,
	qrToken QRToken,
	profile Profile,
	activity ActivityState,
	createdAt time.Time,
	updatedAt time.Time,
) *Customer {
	return &Customer{
		customerID:          customerID,
		qrToken:             qrToken,
		profile:             profile,
		lastPointAt:         activity.LastPointAt,
		lastNearbyPushAt:    activity.LastNearbyPushAt,
		lastMandatoryPushAt: activity.LastMandatoryPushAt,
		lastLocation:        activity.LastLocation,
		createdAt:           createdAt,
		updatedAt:           updatedAt,
	}
}

// ===========================
// 行為方法
// ===========================

// RecordPointAwarded 記錄點數發放時間
func (c *Customer) RecordPointAwarded(at time.Time) {
	c.lastPointAt = timePtr(at)
	c.updatedAt = at
}

// RecordNearbyPush 記錄附近推播成功時間
func (c *Customer) RecordNearbyPush(at time.Time) {
	c.lastNearbyPushAt = timePtr(at)
	c.updatedAt = at
}

// RecordMandatoryPush 記錄召回推播成功時間
func (c *Customer) RecordMandatoryPush(at time.Time) {
	c.lastMandatoryPushAt = timePtr(at)
	c.updatedAt = at
}

// RecordLocation 記錄最新位置
func (c *Customer) RecordLocation(loc Location) {
	c.lastLocation = &loc
	c.updatedAt = loc.At
}

// SetDNIHash 設定 DNI 雜湊（註冊流程）
func (c *Customer) SetDNIHash(hash string) {
	c.profile.DNIHash = hash
}

// ===========================
// Getters
// ===========================

func (c *Customer) CustomerID() CustomerID { return c.customerID }
func (c *Customer) QRToken() QRToken       { return c.qrToken }
func (c *Customer) Profile() Profile       { return c.profile }
func (c *Customer) CreatedAt() time.Time   { return c.createdAt }
func (c *Customer) UpdatedAt() time.Time   { return c.updatedAt }

// Activity 返回活動記錄快照（複製，外部修改不影響聚合）
func (c *Customer) Activity() ActivityState {
	state := ActivityState{
		LastPointAt:         copyTime(c.lastPointAt),
		LastNearbyPushAt:    copyTime(c.lastNearbyPushAt),
		LastMandatoryPushAt: copyTime(c.lastMandatoryPushAt),
	}
	if c.lastLocation != nil {
		loc := *c.lastLocation
		state.LastLocation = &loc
	}
	return state
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
