package models

import (
	"encoding/hex"
	"time"

	"github.com/uptrace/bun"
)

const RandomnessSize = 32

type RandomnessOutcome struct {
	bun.BaseModel `bun:"table:randomness_outcome"`
	JobID         string     `bun:"job_id,pk" json:"job_id"`
	Randomness    string     `bun:"randomness,notnull" json:"randomness"`
	Consumed      bool       `bun:"consumed,notnull" json:"consumed"`
	ConsumedBy    string     `bun:"consumed_by" json:"consumed_by,omitempty"`
	ReceivedAt    time.Time  `bun:"received_at,notnull,default:current_timestamp" json:"received_at"`
	ConsumedAt    *time.Time `bun:"consumed_at" json:"consumed_at,omitempty"`
}

// Value decodes the stored hex randomness.
func (o *RandomnessOutcome) Value() ([RandomnessSize]byte, error) {
	return DecodeRandomness(o.Randomness)
}

func DecodeRandomness(s string) ([RandomnessSize]byte, error) {
	var out [RandomnessSize]byte
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != RandomnessSize {
		return out, ErrInvalidRandomness
	}
	copy(out[:], b)
	return out, nil
}

// RandomnessRequest is what we remember about a job sent to the oracle
// until its callback arrives.
type RandomnessRequest struct {
	JobID       string    `msgpack:"job_id" json:"job_id"`
	RequestedBy string    `msgpack:"requested_by" json:"requested_by"`
	RequestedAt time.Time `msgpack:"requested_at" json:"requested_at"`
}
