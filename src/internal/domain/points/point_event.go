package points

import (
	"time"

	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/customer"
)

// ===========================
// PointSource 點數來源
// ===========================

// PointSource 點數事件的來源標籤
//
// 只有 QR_SCAN 參與防詐冷卻判斷；其他來源（補點、舊資料匯入）永不阻擋掃描。
type PointSource string

const (
	SourceQRScan     PointSource = "QR_SCAN"
	SourceAdjustment PointSource = "ADJUSTMENT"
	SourceImport     PointSource = "IMPORT"
)

// ParsePointSource 解析來源標籤
func ParsePointSource(s string) (PointSource, error) {
	switch PointSource(s) {
	case SourceQRScan, SourceAdjustment, SourceImport:
		return PointSource(s), nil
	}
	return "", ErrUnknownSource.WithContext("source", s)
}

// GatesAntifraud 此來源是否參與冷卻判斷
func (s PointSource) GatesAntifraud() bool {
	return s == SourceQRScan
}

// ===========================
// PointEvent 點數事件（append-only）
// ===========================

// PointEvent 不可變的點數事件記錄
//
// id 由資料庫自增產生（建立時為 0），同一時間戳下以 id 決定先後。
type PointEvent struct {
	id         int64
	customerID customer.CustomerID
	staffID    string
	source     PointSource
	createdAt  time.Time
}

// NewPointEvent 建立新事件
func NewPointEvent(customerID customer.CustomerID, staffID string, source PointSource, at time.Time) PointEvent {
	return PointEvent{
		customerID: customerID,
		staffID:    staffID,
		source:     source,
		createdAt:  at,
	}
}

// ReconstructPointEvent 從資料庫重建
func ReconstructPointEvent(id int64, customerID customer.CustomerID, staffID string, source PointSource, at time.Time) PointEvent {
	return PointEvent{
		id:         id,
		customerID: customerID,
		staffID:    staffID,
		source:     source,
		createdAt:  at,
	}
}

func (e PointEvent) ID() int64                       { return e.id }
func (e PointEvent) CustomerID() customer.CustomerID { return e.customerID }
func (e PointEvent) StaffID() string                 { return e.staffID }
func (e PointEvent) Source() PointSource             { return e.source }
func (e PointEvent) CreatedAt() time.Time            { return e.createdAt }
