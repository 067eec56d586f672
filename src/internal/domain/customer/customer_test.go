package customer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCustomer(t *testing.T) *Customer {
	t.Helper()
	token, err := GenerateQRToken(nil)
	require.NoError(t, err)
	profile, err := NewProfile(validProfileInput(), profileNow)
	require.NoError(t, err)
	c, err := NewCustomer(token, profile, profileNow)
	require.NoError(t, err)
	return c
}

func TestNewCustomer_StartsWithEmptyActivity(t *testing.T) {
	// Act
	c := newTestCustomer(t)

	// Assert
	assert.False(t, c.CustomerID().IsEmpty())
	activity := c.Activity()
	assert.Nil(t, activity.LastPointAt)
	assert.Nil(t, activity.LastNearbyPushAt)
	assert.Nil(t, activity.LastMandatoryPushAt)
	assert.Nil(t, activity.LastLocation)
	assert.Equal(t, profileNow, c.CreatedAt())
}

func TestNewCustomer_ZeroToken_ReturnsError(t *testing.T) {
	_, err := NewCustomer(QRToken{}, Profile{}, profileNow)
	assert.ErrorIs(t, err, ErrInvalidQRToken)
}

func TestCustomer_RecordActivity_UpdatesTimestamps(t *testing.T) {
	// Arrange
	c := newTestCustomer(t)
	pointAt := profileNow.Add(time.Hour)
	nearbyAt := profileNow.Add(2 * time.Hour)
	mandatoryAt := profileNow.Add(3 * time.Hour)

	// Act
	c.RecordPointAwarded(pointAt)
	c.RecordNearbyPush(nearbyAt)
	c.RecordMandatoryPush(mandatoryAt)
	c.RecordLocation(Location{Lat: 1, Lng: 2, At: mandatoryAt.Add(time.Minute)})

	// Assert
	activity := c.Activity()
	require.NotNil(t, activity.LastPointAt)
	assert.Equal(t, pointAt, *activity.LastPointAt)
	assert.Equal(t, nearbyAt, *activity.LastNearbyPushAt)
	assert.Equal(t, mandatoryAt, *activity.LastMandatoryPushAt)
	assert.Equal(t, 1.0, activity.LastLocation.Lat)
	assert.Equal(t, mandatoryAt.Add(time.Minute), c.UpdatedAt())
}

func TestCustomer_Activity_ReturnsCopy(t *testing.T) {
	// Arrange
	c := newTestCustomer(t)
	c.RecordPointAwarded(profileNow)

	// Act
	activity := c.Activity()
	*activity.LastPointAt = profileNow.Add(100 * time.Hour)

	// Assert
	assert.Equal(t, profileNow, *c.Activity().LastPointAt)
}

func TestReconstructCustomer_PreservesState(t *testing.T) {
	// Arrange
	id := NewCustomerID()
	token, _ := GenerateQRToken(nil)
	last := profileNow.Add(-time.Hour)

	// Act
	c := ReconstructCustomer(id, token, Profile{FullName: "Luis"}, ActivityState{LastPointAt: &last}, profileNow, profileNow)

	// Assert
	assert.True(t, id.Equals(c.CustomerID()))
	assert.True(t, token.Equals(c.QRToken()))
	assert.Equal(t, "Luis", c.Profile().FullName)
	assert.Equal(t, last, *c.Activity().LastPointAt)
}

func TestCustomerIDFromString_Invalid(t *testing.T) {
	_, err := CustomerIDFromString("nope")
	assert.ErrorIs(t, err, ErrInvalidCustomerID)
}
