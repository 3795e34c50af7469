package models

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountBalanceGrant(t *testing.T) {
	b := &AccountBalance{Address: "0:aa"}
	require.NoError(t, b.Grant(10))
	require.NoError(t, b.Grant(5))
	assert.Equal(t, uint64(15), b.LifetimeBalance)
	assert.Equal(t, uint64(15), b.Available())

	t.Run("overflow fails closed", func(t *testing.T) {
		b := &AccountBalance{LifetimeBalance: math.MaxUint64 - 1}
		err := b.Grant(2)
		assert.ErrorIs(t, err, ErrBalanceOverflow)
		assert.Equal(t, uint64(math.MaxUint64-1), b.LifetimeBalance)
	})

	t.Run("sums past the storable range fail closed", func(t *testing.T) {
		b := &AccountBalance{LifetimeBalance: MaxAmount - 1}
		require.NoError(t, b.Grant(1))
		assert.Equal(t, MaxAmount, b.LifetimeBalance)

		err := b.Grant(1)
		assert.ErrorIs(t, err, ErrBalanceOverflow)
		assert.Equal(t, MaxAmount, b.LifetimeBalance)
	})
}

func TestCheckAmount(t *testing.T) {
	assert.NoError(t, CheckAmount(0))
	assert.NoError(t, CheckAmount(MaxAmount))
	assert.ErrorIs(t, CheckAmount(MaxAmount+1), ErrBalanceOverflow)
	assert.ErrorIs(t, CheckAmount(math.MaxUint64), ErrBalanceOverflow)
}

func TestAccountBalanceSpend(t *testing.T) {
	b := &AccountBalance{LifetimeBalance: 10}
	require.NoError(t, b.Spend(4))
	assert.Equal(t, uint64(6), b.Available())

	err := b.Spend(7)
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, uint64(4), b.SpentBalance)

	require.NoError(t, b.Spend(6))
	assert.Equal(t, uint64(0), b.Available())
	assert.LessOrEqual(t, b.SpentBalance, b.LifetimeBalance)
}

func TestParseBalanceKind(t *testing.T) {
	kind, err := ParseBalanceKind("lifetime")
	require.NoError(t, err)
	assert.Equal(t, BalanceKindLifetime, kind)

	kind, err = ParseBalanceKind("spent")
	require.NoError(t, err)
	assert.Equal(t, BalanceKindSpent, kind)

	_, err = ParseBalanceKind("pending")
	assert.True(t, errors.Is(err, ErrInvalidBalanceKind))

	b := &AccountBalance{LifetimeBalance: 7, SpentBalance: 3}
	v, err := b.Balance(BalanceKindSpent)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), v)
	_, err = b.Balance(BalanceKindUnknown)
	assert.ErrorIs(t, err, ErrInvalidBalanceKind)
}

func TestDecodeRandomness(t *testing.T) {
	valid := "0101010101010101010101010101010101010101010101010101010101010101"
	v, err := DecodeRandomness(valid)
	require.NoError(t, err)
	assert.Equal(t, byte(1), v[31])

	_, err = DecodeRandomness("0101")
	assert.ErrorIs(t, err, ErrInvalidRandomness)
	_, err = DecodeRandomness("zz")
	assert.ErrorIs(t, err, ErrInvalidRandomness)
}
