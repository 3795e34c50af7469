package randrange

import (
	"crypto/rand"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntInRangeBounds(t *testing.T) {
	var zero [32]byte
	_, err := IntInRange(zero, 0)
	assert.ErrorIs(t, err, ErrEmptyRange)

	v, err := IntInRange(zero, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), v)

	var last [32]byte
	last[31] = 7
	v, err = IntInRange(last, 5)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), v)
}

func TestIntInRangeDeterministic(t *testing.T) {
	var r [32]byte
	_, err := rand.Read(r[:])
	require.NoError(t, err)

	a, err := IntInRange(r, 17)
	require.NoError(t, err)
	b, err := IntInRange(r, 17)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Less(t, a, uint64(17))
}

func TestIntInRangeRejectsTopOfRange(t *testing.T) {
	var top [32]byte
	for i := range top {
		top[i] = 0xff
	}
	// 2^256 mod 3 == 1, so 2^256-1 lies outside the accept zone and must be re-derived.
	zone := acceptZone(uint256.NewInt(3))
	require.NotNil(t, zone)
	assert.False(t, new(uint256.Int).SetBytes32(top[:]).Lt(zone))

	v, err := IntInRange(top, 3)
	require.NoError(t, err)
	assert.Less(t, v, uint64(3))

	// Powers of two divide 2^256 and accept every value.
	assert.Nil(t, acceptZone(uint256.NewInt(4)))
	v, err = IntInRange(top, 4)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), v)
}

func TestIntInRangeUniform(t *testing.T) {
	const (
		n       = 3
		samples = 30000
	)
	counts := make([]int, n)
	var r [32]byte
	for i := 0; i < samples; i++ {
		_, err := rand.Read(r[:])
		require.NoError(t, err)
		v, err := IntInRange(r, n)
		require.NoError(t, err)
		counts[v]++
	}

	expected := float64(samples) / n
	chi := 0.0
	for _, c := range counts {
		d := float64(c) - expected
		chi += d * d / expected
	}
	// Two degrees of freedom; 13.82 is the 0.001 critical value.
	assert.Less(t, chi, 13.82, "counts %v", counts)
}
