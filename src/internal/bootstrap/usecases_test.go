package bootstrap

import (
	"reflect"
	"testing"

	"github.com/jackyeh168/kuro_loyalty/src/internal/infrastructure/lock"
	"github.com/jackyeh168/kuro_loyalty/src/internal/infrastructure/persistence/migrations"
	"github.com/jackyeh168/kuro_loyalty/src/internal/infrastructure/persistence/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewUseCases_WiresEveryUseCase(t *testing.T) {
	// Arrange
	db := testutil.NewTestDB(t)
	_, err := migrations.Run(db, zap.NewNop())
	require.NoError(t, err)

	// Act
	uc := NewUseCases(Infra{DB: db, Locker: lock.NewStripedLocker(4)})

	// Assert
	v := reflect.ValueOf(uc).Elem()
	for i := 0; i < v.NumField(); i++ {
		assert.False(t, v.Field(i).IsNil(), "use case %s not wired", v.Type().Field(i).Name)
	}
}
