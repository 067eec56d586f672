package staff

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStaff_NormalizesUsername(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	s, err := NewStaff("  Barra.Uno ", "hash", RoleAdmin, now)

	require.NoError(t, err)
	assert.Equal(t, "barra.uno", s.Username())
	assert.Equal(t, RoleAdmin, s.Role())
	assert.False(t, s.ID().IsEmpty())
}

func TestNewStaff_Invalid(t *testing.T) {
	_, err := NewStaff("ab", "hash", RoleStaff, time.Now())
	assert.ErrorIs(t, err, ErrInvalidUsername)

	_, err = NewStaff("bar tender", "hash", RoleStaff, time.Now())
	assert.ErrorIs(t, err, ErrInvalidUsername)

	_, err = NewStaff("bartender", "", RoleStaff, time.Now())
	assert.ErrorIs(t, err, ErrInvalidPassword)
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole("")
	require.NoError(t, err)
	assert.Equal(t, RoleStaff, r)

	r, err = ParseRole("ADMIN")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, r)

	_, err = ParseRole("owner")
	assert.ErrorIs(t, err, ErrInvalidRole)
}
