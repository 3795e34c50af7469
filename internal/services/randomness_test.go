package services_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pointsdraw/internal/datastore"
	"pointsdraw/internal/models"
)

func TestReceiveRandomness(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.instantiate(t, 10)

	err := env.randomness().ReceiveRandomness(ctx, userAddr, "job1", randomnessHex(0x01))
	assert.ErrorIs(t, err, models.ErrUnauthorizedOracleCallback)

	available, err := env.randomness().CountAvailable(ctx)
	require.NoError(t, err)
	assert.Zero(t, available)

	err = env.randomness().ReceiveRandomness(ctx, oracleAddr, "job1", "abcd")
	assert.ErrorIs(t, err, models.ErrInvalidRandomness)

	err = env.randomness().ReceiveRandomness(ctx, oracleAddr, "job1", strings.Repeat("zz", models.RandomnessSize))
	assert.ErrorIs(t, err, models.ErrInvalidRandomness)

	err = env.randomness().ReceiveRandomness(ctx, oracleAddr, "", randomnessHex(0x01))
	assert.ErrorIs(t, err, models.ErrInvalidJobID)

	env.deliver(t, "job1", 0x01)

	err = env.randomness().ReceiveRandomness(ctx, oracleAddr, "job1", randomnessHex(0x02))
	assert.ErrorIs(t, err, models.ErrJobIDAlreadyPresent)

	outcome, err := datastore.GetRandomnessOutcome(ctx, env.db, "job1")
	require.NoError(t, err)
	assert.Equal(t, randomnessHex(0x01), outcome.Randomness)
	assert.False(t, outcome.Consumed)
}

func TestReceiveRandomnessAfterConsumption(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.instantiate(t, 1)
	env.grant(t, userAddr, 1)
	env.deposit(t, "item-1")
	env.deliver(t, "job1", 0x01)

	_, err := env.claim().ClaimPrize(ctx, userAddr)
	require.NoError(t, err)

	err = env.randomness().ReceiveRandomness(ctx, oracleAddr, "job1", randomnessHex(0x09))
	assert.ErrorIs(t, err, models.ErrJobIDAlreadyPresent)

	available, err := env.randomness().CountAvailable(ctx)
	require.NoError(t, err)
	assert.Zero(t, available)
}

func TestRequestRandomness(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.instantiate(t, 10)

	_, err := env.randomness().RequestRandomness(ctx, userAddr)
	assert.ErrorIs(t, err, models.ErrUnauthorized)
	assert.Empty(t, env.oracle.jobs)

	request, err := env.randomness().RequestRandomness(ctx, adminAddr)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(request.JobID, "job-"))
	assert.Equal(t, adminAddr, request.RequestedBy)
	assert.Equal(t, []string{request.JobID}, env.oracle.jobs)

	pending, err := env.randomness().GetPendingRequests(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, request.JobID, pending[0].JobID)

	env.deliver(t, request.JobID, 0x05)

	pending, err = env.randomness().GetPendingRequests(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestRequestRandomnessOracleFailure(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.instantiate(t, 10)
	env.oracle.err = errBoom

	_, err := env.randomness().RequestRandomness(ctx, adminAddr)
	assert.ErrorIs(t, err, errBoom)

	pending, err := env.randomness().GetPendingRequests(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestTopUp(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.instantiate(t, 10)
	env.deliver(t, "job1", 0x01)

	requested, err := env.randomness().TopUp(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, requested)
	assert.Len(t, env.oracle.jobs, 2)

	requested, err = env.randomness().TopUp(ctx, 3)
	require.NoError(t, err)
	assert.Zero(t, requested)

	pending, err := env.randomness().GetPendingRequests(ctx)
	require.NoError(t, err)
	for _, request := range pending {
		assert.Equal(t, "system", request.RequestedBy)
	}
}
