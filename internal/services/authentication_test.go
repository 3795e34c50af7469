package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pointsdraw/internal/services"
)

func TestAuthentication(t *testing.T) {
	_, err := services.NewAuthentication("")
	assert.Error(t, err)

	auth, err := services.NewAuthentication("secret")
	require.NoError(t, err)

	token, err := auth.CreateToken(adminAddr, time.Hour)
	require.NoError(t, err)

	caller, err := auth.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, adminAddr, caller.Address)

	other, err := services.NewAuthentication("other")
	require.NoError(t, err)
	_, err = other.Validate(token)
	assert.Error(t, err)

	expired, err := auth.CreateToken(adminAddr, -time.Minute)
	require.NoError(t, err)
	_, err = auth.Validate(expired)
	assert.Error(t, err)

	_, err = auth.CreateToken("bad", time.Hour)
	assert.Error(t, err)
}
