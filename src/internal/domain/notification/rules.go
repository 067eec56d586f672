package notification

import (
	"time"

	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/customer"
)

// ===========================
// 推播資格規則
// ===========================

// RuleConfig 推播規則門檻
//
// 邊界語義：
// - 距離 <= NearbyRadiusKm 視為在範圍內（1.0 km 本身允許）
// - 附近推播：距上次發點 <= 36h 拒絕；距上次附近推播 <= 12h 拒絕
// - 召回推播：距上次召回 < 56h 拒絕；距上次發點 <= 12h 拒絕
type RuleConfig struct {
	Venue                     Coordinate
	NearbyRadiusKm            float64
	NearbyPointSuppression    time.Duration
	NearbyCooldown            time.Duration
	MandatoryInterval         time.Duration
	MandatoryPointSuppression time.Duration
	NearbyLocationFreshness   time.Duration
}

// DefaultRuleConfig 預設門檻（場館位於利馬）
func DefaultRuleConfig() RuleConfig {
	return RuleConfig{
		Venue:                     Coordinate{Lat: -12.0464, Lng: -77.0428},
		NearbyRadiusKm:            1.0,
		NearbyPointSuppression:    36 * time.Hour,
		NearbyCooldown:            12 * time.Hour,
		MandatoryInterval:         56 * time.Hour,
		MandatoryPointSuppression: 12 * time.Hour,
		NearbyLocationFreshness:   15 * time.Minute,
	}
}

// DenyReason 拒絕原因
type DenyReason string

const (
	ReasonNone              DenyReason = ""
	ReasonTooFar            DenyReason = "too_far"
	ReasonRecentPoint       DenyReason = "recent_point"
	ReasonNearbyCooldown    DenyReason = "nearby_cooldown"
	ReasonMandatoryCooldown DenyReason = "mandatory_cooldown"
	ReasonNoSubscription    DenyReason = "no_subscription"
)

// Eligibility 資格判斷結果
type Eligibility struct {
	Eligible   bool
	Reason     DenyReason
	DistanceKm float64
}

func deny(reason DenyReason) Eligibility {
	return Eligibility{Eligible: false, Reason: reason}
}

// withinInclusive now - at <= window
func withinInclusive(at *time.Time, now time.Time, window time.Duration) bool {
	return at != nil && now.Sub(*at) <= window
}

// withinExclusive now - at < window
func withinExclusive(at *time.Time, now time.Time, window time.Duration) bool {
	return at != nil && now.Sub(*at) < window
}

// NearbyRule 附近推播規則
type NearbyRule struct {
	cfg RuleConfig
}

// NewNearbyRule 建構函數
func NewNearbyRule(cfg RuleConfig) *NearbyRule {
	return &NearbyRule{cfg: cfg}
}

// Evaluate 純函數判斷，不檢查訂閱
//
// 檢查順序：距離 → 近期發點 → 附近推播冷卻
func (r *NearbyRule) Evaluate(activity customer.ActivityState, position Coordinate, now time.Time) Eligibility {
	distance := DistanceKm(position, r.cfg.Venue)
	if distance > r.cfg.NearbyRadiusKm {
		e := deny(ReasonTooFar)
		e.DistanceKm = distance
		return e
	}

	if withinInclusive(activity.LastPointAt, now, r.cfg.NearbyPointSuppression) {
		return Eligibility{Reason: ReasonRecentPoint, DistanceKm: distance}
	}

	if withinInclusive(activity.LastNearbyPushAt, now, r.cfg.NearbyCooldown) {
		return Eligibility{Reason: ReasonNearbyCooldown, DistanceKm: distance}
	}

	return Eligibility{Eligible: true, DistanceKm: distance}
}

// InRange 是否在場館範圍內
func (r *NearbyRule) InRange(position Coordinate) bool {
	return DistanceKm(position, r.cfg.Venue) <= r.cfg.NearbyRadiusKm
}

// MandatoryRule 召回推播規則
type MandatoryRule struct {
	cfg RuleConfig
}

// NewMandatoryRule 建構函數
func NewMandatoryRule(cfg RuleConfig) *MandatoryRule {
	return &MandatoryRule{cfg: cfg}
}

// Evaluate 純函數判斷，不檢查訂閱
//
// 重複呼叫安全：成功推播後 lastMandatoryPushAt 更新，56h 內都會被拒絕。
func (r *MandatoryRule) Evaluate(activity customer.ActivityState, now time.Time) Eligibility {
	if withinExclusive(activity.LastMandatoryPushAt, now, r.cfg.MandatoryInterval) {
		return deny(ReasonMandatoryCooldown)
	}

	if withinInclusive(activity.LastPointAt, now, r.cfg.MandatoryPointSuppression) {
		return deny(ReasonRecentPoint)
	}

	return Eligibility{Eligible: true}
}
