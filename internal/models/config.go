package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Config holds runtime tunables that operators change without a redeploy.
type Config struct {
	bun.BaseModel `bun:"table:config"`
	Key           string    `bun:"key,pk" json:"key"`
	Value         string    `bun:"value" json:"value"`
	UpdatedAt     time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}
