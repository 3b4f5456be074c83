package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)

	token, err := m.GenerateAccessToken("E100", "Dana", "0042", []string{"cashier"}, []string{"apply-markdowns"})
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "E100", claims.EmployeeID)
	assert.Equal(t, "0042", claims.StoreNumber)
	assert.Equal(t, []string{"apply-markdowns"}, claims.Permissions)
}

func TestJWTRejectsWrongSecretAndExpiry(t *testing.T) {
	token, err := NewJWTManager("one", time.Hour).GenerateAccessToken("E100", "Dana", "0042", nil, nil)
	require.NoError(t, err)

	_, err = NewJWTManager("two", time.Hour).ValidateAccessToken(token)
	assert.Error(t, err)

	expired, err := NewJWTManager("one", -time.Minute).GenerateAccessToken("E100", "Dana", "0042", nil, nil)
	require.NoError(t, err)
	_, err = NewJWTManager("one", time.Hour).ValidateAccessToken(expired)
	assert.Error(t, err)
}

func TestJWTRequiresEmployee(t *testing.T) {
	m := NewJWTManager("s", time.Hour)
	token, err := m.GenerateAccessToken("", "", "0042", nil, nil)
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(token)
	assert.Error(t, err)
}
