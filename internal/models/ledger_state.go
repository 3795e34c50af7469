package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	LedgerStateID = 1
	LedgerSymbol  = "POINTS"
)

type LedgerState struct {
	bun.BaseModel    `bun:"table:ledger_state"`
	ID               int64     `bun:"id,pk" json:"-"`
	Admin            string    `bun:"admin,notnull" json:"admin"`
	Name             string    `bun:"name,notnull" json:"name"`
	Symbol           string    `bun:"symbol,notnull" json:"symbol"`
	ShortDescription string    `bun:"short_description" json:"short_description"`
	OracleAddress    string    `bun:"oracle_address,notnull" json:"oracle_address"`
	PrizeCost        uint64    `bun:"prize_cost,notnull" json:"prize_cost"`
	Locked           bool      `bun:"locked,notnull" json:"locked"`
	Whitelist        []string  `bun:"whitelist,type:jsonb" json:"whitelist"`
	Version          string    `bun:"version" json:"version"`
	CreatedAt        time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt        time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

type InstantiateParams struct {
	Admin            string `json:"admin"`
	OracleAddress    string `json:"oracle_address"`
	PrizeCost        uint64 `json:"prize_cost"`
	ShortDescription string `json:"short_description"`
	Name             string `json:"name"`
}
