package points

import (
	"testing"
	"time"

	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/customer"
	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/points"
	"github.com/jackyeh168/kuro_loyalty/src/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGetPointsBalance_Success(t *testing.T) {
	// Arrange
	repo := new(MockBalanceRepository)
	id := customer.NewCustomerID()
	balance, _ := points.ReconstructLoyaltyBalance(id, 7, scanT0)
	repo.On("FindByCustomerID", mock.Anything, id).Return(balance, nil)
	uc := NewGetPointsBalanceUseCase(repo)

	// Act
	result, err := uc.Execute(GetPointsBalanceQuery{CustomerID: id.String()})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 7, result.Points)
	assert.Equal(t, id.String(), result.CustomerID)
}

func TestGetPointsBalance_InvalidID(t *testing.T) {
	uc := NewGetPointsBalanceUseCase(new(MockBalanceRepository))

	_, err := uc.Execute(GetPointsBalanceQuery{CustomerID: "nope"})

	assert.ErrorIs(t, err, customer.ErrInvalidCustomerID)
}

func TestGetPointsBalance_NotFound(t *testing.T) {
	repo := new(MockBalanceRepository)
	id := customer.NewCustomerID()
	repo.On("FindByCustomerID", mock.Anything, id).Return(nil, points.ErrBalanceNotFound)
	uc := NewGetPointsBalanceUseCase(repo)

	_, err := uc.Execute(GetPointsBalanceQuery{CustomerID: id.String()})

	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestCheckAntifraud(t *testing.T) {
	tests := []struct {
		name          string
		lastScanAgo   time.Duration
		noScan        bool
		wantAllowed   bool
		wantRetryMins int
	}{
		{name: "no prior scan", noScan: true, wantAllowed: true},
		{name: "23h59m ago", lastScanAgo: 23*time.Hour + 59*time.Minute, wantAllowed: false, wantRetryMins: 1},
		{name: "exactly 24h ago", lastScanAgo: 24 * time.Hour, wantAllowed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			events := new(MockPointEventRepository)
			id := customer.NewCustomerID()
			if tt.noScan {
				events.On("FindLatestBySource", mock.Anything, id, points.SourceQRScan).Return(nil, nil)
			} else {
				last := points.ReconstructPointEvent(1, id, "staff", points.SourceQRScan, scanT0.Add(-tt.lastScanAgo))
				events.On("FindLatestBySource", mock.Anything, id, points.SourceQRScan).Return(&last, nil)
			}
			uc := NewCheckAntifraudUseCase(events, points.NewAntifraudGate(points.DefaultCooldown), shared.NewFixedClock(scanT0))

			// Act
			result, err := uc.Execute(id.String())

			// Assert
			require.NoError(t, err)
			assert.Equal(t, tt.wantAllowed, result.Allowed)
			assert.Equal(t, tt.wantRetryMins, result.RetryAfterMinutes)
		})
	}
}
