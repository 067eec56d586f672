package notification

import (
	"testing"
	"time"

	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/customer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPushSubscription_Validation(t *testing.T) {
	id := customer.NewCustomerID()

	sub, err := NewPushSubscription(id, " https://push.example/abc ", "key", "auth", ruleNow)
	require.NoError(t, err)
	assert.Equal(t, "https://push.example/abc", sub.Endpoint)
	assert.True(t, sub.Active)

	_, err = NewPushSubscription(id, "http://push.example/abc", "key", "auth", ruleNow)
	assert.ErrorIs(t, err, ErrInvalidSubscription)

	_, err = NewPushSubscription(id, "https://push.example/abc", "", "auth", ruleNow)
	assert.ErrorIs(t, err, ErrInvalidSubscription)

	_, err = NewPushSubscription(customer.CustomerID{}, "https://push.example/abc", "k", "a", ruleNow)
	assert.ErrorIs(t, err, ErrInvalidSubscription)
}

func TestSelectSubscription_MostRecentlyUpdatedActive(t *testing.T) {
	subs := []PushSubscription{
		{ID: 1, Active: true, UpdatedAt: ruleNow.Add(-time.Hour)},
		{ID: 2, Active: false, UpdatedAt: ruleNow},
		{ID: 3, Active: true, UpdatedAt: ruleNow.Add(-time.Minute)},
	}

	chosen, ok := SelectSubscription(subs)

	require.True(t, ok)
	assert.Equal(t, int64(3), chosen.ID)
}

func TestSelectSubscription_TieBrokenByHighestID(t *testing.T) {
	subs := []PushSubscription{
		{ID: 7, Active: true, UpdatedAt: ruleNow},
		{ID: 9, Active: true, UpdatedAt: ruleNow},
		{ID: 8, Active: true, UpdatedAt: ruleNow},
	}

	chosen, ok := SelectSubscription(subs)

	require.True(t, ok)
	assert.Equal(t, int64(9), chosen.ID)
}

func TestSelectSubscription_NoneActive(t *testing.T) {
	_, ok := SelectSubscription([]PushSubscription{{ID: 1, Active: false}})
	assert.False(t, ok)

	_, ok = SelectSubscription(nil)
	assert.False(t, ok)
}
