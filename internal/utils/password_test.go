package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifySecret(t *testing.T) {
	hash, err := HashSecret("swordfish")
	require.NoError(t, err)
	assert.NotContains(t, string(hash), "swordfish")

	assert.True(t, VerifySecret(hash, "swordfish"))
	assert.False(t, VerifySecret(hash, "Swordfish"))
	assert.False(t, VerifySecret(hash, ""))
}
