package notification

import (
	"testing"
	"time"

	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/customer"
	"github.com/stretchr/testify/assert"
)

var ruleNow = time.Date(2025, 5, 20, 18, 0, 0, 0, time.UTC)

func ago(d time.Duration) *time.Time {
	t := ruleNow.Add(-d)
	return &t
}

func TestNearbyRule_Distance(t *testing.T) {
	cfg := DefaultRuleConfig()
	rule := NewNearbyRule(cfg)

	// Act
	near := rule.Evaluate(customer.ActivityState{}, northOf(cfg.Venue, 0.99), ruleNow)
	far := rule.Evaluate(customer.ActivityState{}, northOf(cfg.Venue, 1.01), ruleNow)

	// Assert
	assert.True(t, near.Eligible)
	assert.InDelta(t, 0.99, near.DistanceKm, 1e-6)
	assert.False(t, far.Eligible)
	assert.Equal(t, ReasonTooFar, far.Reason)
}

func TestNearbyRule_RadiusIsInclusive(t *testing.T) {
	cfg := DefaultRuleConfig()
	position := northOf(cfg.Venue, 0.5)
	cfg.NearbyRadiusKm = DistanceKm(position, cfg.Venue)

	decision := NewNearbyRule(cfg).Evaluate(customer.ActivityState{}, position, ruleNow)

	assert.True(t, decision.Eligible)
}

func TestNearbyRule_RecentPoint(t *testing.T) {
	cfg := DefaultRuleConfig()
	rule := NewNearbyRule(cfg)
	position := northOf(cfg.Venue, 0.5)

	testCases := []struct {
		name     string
		lastAt   *time.Time
		eligible bool
	}{
		{"never awarded", nil, true},
		{"1h ago", ago(time.Hour), false},
		{"exactly 36h ago", ago(36 * time.Hour), false},
		{"36h and 1s ago", ago(36*time.Hour + time.Second), true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			decision := rule.Evaluate(customer.ActivityState{LastPointAt: tc.lastAt}, position, ruleNow)

			assert.Equal(t, tc.eligible, decision.Eligible)
			if !tc.eligible {
				assert.Equal(t, ReasonRecentPoint, decision.Reason)
			}
		})
	}
}

func TestNearbyRule_Cooldown(t *testing.T) {
	cfg := DefaultRuleConfig()
	rule := NewNearbyRule(cfg)
	position := northOf(cfg.Venue, 0.5)

	denied := rule.Evaluate(customer.ActivityState{LastNearbyPushAt: ago(12 * time.Hour)}, position, ruleNow)
	allowed := rule.Evaluate(customer.ActivityState{LastNearbyPushAt: ago(12*time.Hour + time.Second)}, position, ruleNow)

	assert.False(t, denied.Eligible)
	assert.Equal(t, ReasonNearbyCooldown, denied.Reason)
	assert.True(t, allowed.Eligible)
}

func TestNearbyRule_IgnoresMandatoryTimestamp(t *testing.T) {
	cfg := DefaultRuleConfig()

	decision := NewNearbyRule(cfg).Evaluate(
		customer.ActivityState{LastMandatoryPushAt: ago(time.Minute)},
		northOf(cfg.Venue, 0.2),
		ruleNow,
	)

	assert.True(t, decision.Eligible)
}

func TestMandatoryRule(t *testing.T) {
	rule := NewMandatoryRule(DefaultRuleConfig())

	testCases := []struct {
		name     string
		activity customer.ActivityState
		eligible bool
		reason   DenyReason
	}{
		{"fresh customer", customer.ActivityState{}, true, ReasonNone},
		{"mandatory 55h59m ago", customer.ActivityState{LastMandatoryPushAt: ago(56*time.Hour - time.Minute)}, false, ReasonMandatoryCooldown},
		{"mandatory exactly 56h ago", customer.ActivityState{LastMandatoryPushAt: ago(56 * time.Hour)}, true, ReasonNone},
		{"point exactly 12h ago", customer.ActivityState{LastPointAt: ago(12 * time.Hour)}, false, ReasonRecentPoint},
		{"point 12h1s ago", customer.ActivityState{LastPointAt: ago(12*time.Hour + time.Second)}, true, ReasonNone},
		{"nearby push does not matter", customer.ActivityState{LastNearbyPushAt: ago(time.Minute)}, true, ReasonNone},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			decision := rule.Evaluate(tc.activity, ruleNow)

			assert.Equal(t, tc.eligible, decision.Eligible)
			assert.Equal(t, tc.reason, decision.Reason)
		})
	}
}

func TestMandatoryRule_NeverTwiceWithin56h(t *testing.T) {
	rule := NewMandatoryRule(DefaultRuleConfig())
	activity := customer.ActivityState{}
	sent := 0

	// 每小時呼叫一次，持續 112 小時
	for h := 0; h <= 112; h++ {
		now := ruleNow.Add(time.Duration(h) * time.Hour)
		if rule.Evaluate(activity, now).Eligible {
			sent++
			at := now
			activity.LastMandatoryPushAt = &at
		}
	}

	assert.Equal(t, 3, sent, "h=0, h=56, h=112")
}
