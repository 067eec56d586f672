package notification

import (
	"strings"
	"time"

	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/customer"
)

// Segment 手動推播的目標分群
type Segment string

const (
	SegmentAll         Segment = "all"
	SegmentInactive36h Segment = "inactive_36h"
	SegmentInactive56h Segment = "inactive_56h"
	SegmentNearby      Segment = "nearby"
)

// ParseSegment 解析分群
func ParseSegment(s string) (Segment, error) {
	switch seg := Segment(strings.ToLower(strings.TrimSpace(s))); seg {
	case SegmentAll, SegmentInactive36h, SegmentInactive56h, SegmentNearby:
		return seg, nil
	}
	return "", ErrInvalidSegment.WithContext("segment", s)
}

// SegmentMatcher 判斷已訂閱客戶是否屬於分群
type SegmentMatcher struct {
	cfg    RuleConfig
	nearby *NearbyRule
}

// NewSegmentMatcher 建構函數
func NewSegmentMatcher(cfg RuleConfig) *SegmentMatcher {
	return &SegmentMatcher{cfg: cfg, nearby: NewNearbyRule(cfg)}
}

// Matches 規則：
// - inactive_36h / inactive_56h：從未發點，或上次發點早於門檻
// - nearby：位置在新鮮度內回報，且在場館範圍內
func (m *SegmentMatcher) Matches(seg Segment, activity customer.ActivityState, now time.Time) bool {
	switch seg {
	case SegmentAll:
		return true
	case SegmentInactive36h:
		return inactiveLongerThan(activity.LastPointAt, now, 36*time.Hour)
	case SegmentInactive56h:
		return inactiveLongerThan(activity.LastPointAt, now, 56*time.Hour)
	case SegmentNearby:
		loc := activity.LastLocation
		if loc == nil || now.Sub(loc.At) >= m.cfg.NearbyLocationFreshness {
			return false
		}
		return m.nearby.InRange(Coordinate{Lat: loc.Lat, Lng: loc.Lng})
	}
	return false
}

func inactiveLongerThan(lastPoint *time.Time, now time.Time, d time.Duration) bool {
	return lastPoint == nil || now.Sub(*lastPoint) > d
}
