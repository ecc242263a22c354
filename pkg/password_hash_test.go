package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestHashPassword(t *testing.T) {
	passwordHash, err := HashPassword("tr41n-l0g")
	require.NoError(t, err)
	assert.NotEmpty(t, passwordHash)
	assert.True(t, CheckPasswordHash("tr41n-l0g", passwordHash))
	assert.False(t, CheckPasswordHash("tr41n-log", passwordHash))

	otherHash, err := HashPassword("tr41n-l0g")
	require.NoError(t, err)
	// bcrypt salts, two hashes of the same password differ
	assert.NotEqual(t, passwordHash, otherHash)
	assert.True(t, CheckPasswordHash("tr41n-l0g", otherHash))
}
