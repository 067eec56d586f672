package migrations

import (
	"errors"
	"testing"

	"github.com/jackyeh168/kuro_loyalty/src/internal/infrastructure/persistence/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func TestRun_AppliesAllThenNothing(t *testing.T) {
	// Arrange
	db := testutil.NewTestDB(t)
	log := zap.NewNop()

	// Act
	first, err := Run(db, log)
	require.NoError(t, err)
	second, err := Run(db, log)
	require.NoError(t, err)

	// Assert
	assert.Equal(t, len(All()), first)
	assert.Equal(t, 0, second)
	for _, table := range []string{
		"customers", "loyalty_balances", "point_events",
		"push_subscriptions", "promotions", "push_notifications_log", "staff_users",
	} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestApply_FailedStepIsNotRecorded(t *testing.T) {
	// Arrange
	db := testutil.NewTestDB(t)
	steps := []Migration{
		{Version: 1, Name: "ok", Up: func(tx *gorm.DB) error { return nil }},
		{Version: 2, Name: "broken", Up: func(tx *gorm.DB) error { return errors.New("boom") }},
	}

	// Act
	count, err := apply(db, zap.NewNop(), steps)

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migration 2 (broken)")
	assert.Equal(t, 1, count)

	var versions []int
	require.NoError(t, db.Model(&SchemaMigration{}).Pluck("version", &versions).Error)
	assert.Equal(t, []int{1}, versions)
}
