package services_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pointsdraw/internal/models"
)

func TestInstantiate(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.ledger().GetState(ctx)
	assert.ErrorIs(t, err, models.ErrNotInstantiated)

	_, err = env.ledger().Instantiate(ctx, models.InstantiateParams{Admin: adminAddr, OracleAddress: "nope", PrizeCost: 10}, "0.1.0")
	assert.ErrorIs(t, err, models.ErrInvalidProxyAddress)

	env.instantiate(t, 10)

	state, err := env.ledger().GetState(ctx)
	require.NoError(t, err)
	assert.Equal(t, adminAddr, state.Admin)
	assert.Equal(t, oracleAddr, state.OracleAddress)
	assert.Equal(t, models.LedgerSymbol, state.Symbol)
	assert.Equal(t, "Points", state.Name)
	assert.Equal(t, "0.1.0", state.Version)
	assert.False(t, state.Locked)

	_, err = env.ledger().Instantiate(ctx, models.InstantiateParams{Admin: otherAddr, OracleAddress: oracleAddr}, "0.1.0")
	assert.ErrorIs(t, err, models.ErrAlreadyInstantiated)
}

func TestAdminOperations(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.instantiate(t, 10)

	_, err := env.ledger().SetPrizeCost(ctx, userAddr, 5)
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	_, err = env.ledger().SetPrizeCost(ctx, adminAddr, 5)
	require.NoError(t, err)

	cost, err := env.ledger().GetPrizeCost(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), cost)

	_, err = env.ledger().SetAdmin(ctx, adminAddr, "bad")
	assert.ErrorIs(t, err, models.ErrInvalidAddress)

	_, err = env.ledger().SetAdmin(ctx, adminAddr, otherAddr)
	require.NoError(t, err)

	_, err = env.ledger().GrantPoints(ctx, adminAddr, userAddr, 1)
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	_, err = env.ledger().GrantPoints(ctx, otherAddr, userAddr, 1)
	require.NoError(t, err)
}

func TestGrantPoints(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.instantiate(t, 10)

	_, err := env.ledger().GetAccountBalance(ctx, userAddr)
	assert.ErrorIs(t, err, models.ErrAccountNotFound)

	env.grant(t, userAddr, 7)
	env.grant(t, userAddr, 3)

	lifetime, err := env.ledger().GetBalance(ctx, userAddr, models.BalanceKindLifetime)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), lifetime)

	spent, err := env.ledger().GetBalance(ctx, userAddr, models.BalanceKindSpent)
	require.NoError(t, err)
	assert.Zero(t, spent)

	_, err = env.ledger().GetBalance(ctx, userAddr, models.BalanceKindUnknown)
	assert.ErrorIs(t, err, models.ErrInvalidBalanceKind)

	_, err = env.ledger().GrantPoints(ctx, adminAddr, userAddr, math.MaxUint64)
	assert.ErrorIs(t, err, models.ErrBalanceOverflow)

	_, err = env.ledger().GrantPoints(ctx, adminAddr, "bad", 1)
	assert.ErrorIs(t, err, models.ErrInvalidAddress)

	env.grant(t, otherAddr, 1)
	entries, err := env.ledger().GetBalances(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, userAddr, entries[0].Address)
	assert.Equal(t, uint64(10), entries[0].LifetimeBalance)
	assert.Equal(t, otherAddr, entries[1].Address)
}

func TestAmountsStayWithinStorableRange(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.instantiate(t, 10)

	env.grant(t, userAddr, models.MaxAmount)
	_, err := env.ledger().GrantPoints(ctx, adminAddr, userAddr, 1)
	assert.ErrorIs(t, err, models.ErrBalanceOverflow)

	stored, err := env.ledger().GetBalance(ctx, userAddr, models.BalanceKindLifetime)
	require.NoError(t, err)
	assert.Equal(t, models.MaxAmount, stored)

	_, err = env.ledger().SetPrizeCost(ctx, adminAddr, models.MaxAmount+1)
	assert.ErrorIs(t, err, models.ErrBalanceOverflow)

	cost, err := env.ledger().GetPrizeCost(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), cost)

	_, err = newTestEnv(t).ledger().Instantiate(ctx, models.InstantiateParams{
		Admin:         adminAddr,
		OracleAddress: oracleAddr,
		PrizeCost:     models.MaxAmount + 1,
	}, "0.1.0")
	assert.ErrorIs(t, err, models.ErrBalanceOverflow)
}

func TestDeposit(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.pool().Deposit(ctx, custodian, "item-1")
	assert.ErrorIs(t, err, models.ErrNotInstantiated)

	env.instantiate(t, 10)

	_, err = env.pool().Deposit(ctx, "bad", "item-1")
	assert.ErrorIs(t, err, models.ErrInvalidAddress)

	_, err = env.pool().Deposit(ctx, custodian, "  ")
	assert.ErrorIs(t, err, models.ErrInvalidPrize)

	env.deposit(t, "item-1")
	env.deposit(t, "item-2")

	_, err = env.pool().Deposit(ctx, custodian, "item-1")
	assert.ErrorIs(t, err, models.ErrInvalidPrize)

	prizes, err := env.pool().GetPrizes(ctx)
	require.NoError(t, err)
	require.Len(t, prizes, 2)
	assert.Equal(t, "item-1", prizes[0].ItemID)
	assert.Equal(t, "item-2", prizes[1].ItemID)
}
