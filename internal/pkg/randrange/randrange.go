// Package randrange maps 32-byte oracle randomness onto small integer ranges
// without modulo bias.
package randrange

import (
	"encoding/binary"
	"errors"

	"github.com/holiman/uint256"
	"lukechampine.com/blake3"
)

// maxRounds bounds re-derivation. A single round is rejected with probability
// below n/2^256, so hitting the bound means the input is adversarial.
const maxRounds = 64

var (
	ErrEmptyRange     = errors.New("randrange: empty range")
	ErrRangeExhausted = errors.New("randrange: rejection sampling exhausted")
)

// IntInRange returns a value uniformly distributed in [0, n).
//
// The randomness is read as a big-endian uint256 v. Values below the largest
// multiple of n that fits in 2^256 are accepted and reduced mod n; anything
// above is rejected and a fresh value is derived with blake3(seed || round).
func IntInRange(randomness [32]byte, n uint64) (uint64, error) {
	if n == 0 {
		return 0, ErrEmptyRange
	}
	if n == 1 {
		return 0, nil
	}

	bound := uint256.NewInt(n)
	zone := acceptZone(bound)

	seed := randomness
	for round := uint64(0); round < maxRounds; round++ {
		v := new(uint256.Int).SetBytes32(seed[:])
		if zone == nil || v.Lt(zone) {
			return new(uint256.Int).Mod(v, bound).Uint64(), nil
		}
		seed = rederive(seed, round)
	}
	return 0, ErrRangeExhausted
}

// acceptZone returns 2^256 - (2^256 mod n), or nil when n divides 2^256 and
// every value is acceptable.
func acceptZone(n *uint256.Int) *uint256.Int {
	all := new(uint256.Int).SetAllOne()
	// (2^256 - 1) mod n, plus one, is 2^256 mod n unless it wraps to n.
	rem := new(uint256.Int).Mod(all, n)
	rem.AddUint64(rem, 1)
	if rem.Eq(n) {
		return nil
	}
	// 2^256 - rem == all - rem + 1
	zone := new(uint256.Int).Sub(all, rem)
	return zone.AddUint64(zone, 1)
}

func rederive(seed [32]byte, round uint64) [32]byte {
	var buf [40]byte
	copy(buf[:32], seed[:])
	binary.BigEndian.PutUint64(buf[32:], round)
	return blake3.Sum256(buf[:])
}
