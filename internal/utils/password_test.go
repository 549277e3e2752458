package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cretpass", bcrypt.MinCost)
	require.NoError(t, err)

	assert.True(t, VerifyPassword(hash, "s3cretpass"))
	assert.False(t, VerifyPassword(hash, "wrongpass"))
}

func TestHashPassword_OutOfRangeCostFallsBack(t *testing.T) {
	for _, cost := range []int{-1, 0, bcrypt.MaxCost + 1} {
		hash, err := HashPassword("s3cretpass", cost)
		require.NoError(t, err)

		used, err := bcrypt.Cost([]byte(hash))
		require.NoError(t, err)
		assert.Equal(t, bcrypt.DefaultCost, used)
		assert.True(t, VerifyPassword(hash, "s3cretpass"))
	}
}
