package events

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/customer"
	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/notification"
	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/points"
	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/shared"
	"github.com/jackyeh168/kuro_loyalty/src/internal/infrastructure/metrics"
)

func TestPublisher_MapsEventsToCounters(t *testing.T) {
	// Arrange
	m := metrics.New()
	p := NewPublisher(m, nil)
	id := customer.NewCustomerID()
	now := time.Date(2025, 4, 1, 20, 0, 0, 0, time.UTC)

	// Act
	err := p.PublishBatch([]shared.DomainEvent{
		points.NewPointAwardedEvent(id, "staff-1", 3, now),
		points.NewPointDeniedEvent(id, 60, now),
		points.NewPointDeniedEvent(id, 59, now),
		notification.NewPushDispatchedEvent(id, notification.TypeNearby, notification.DispatchResult{Success: true, StatusCode: 201}, now),
		notification.NewPushDispatchedEvent(id, notification.TypeManual, notification.DispatchResult{PermanentFailure: true, StatusCode: 410, Err: errors.New("gone")}, now),
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PointsAwarded))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.PointsDenied))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PushDispatched.WithLabelValues("NEARBY", "sent")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PushDispatched.WithLabelValues("MANUAL", "gone")))
}
