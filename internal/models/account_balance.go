package models

import (
	"math"
	"math/bits"
	"time"

	"github.com/uptrace/bun"
)

// MaxAmount is the largest balance or cost the signed 64-bit storage columns
// hold.
const MaxAmount uint64 = math.MaxInt64

// CheckAmount rejects amounts that cannot be stored.
func CheckAmount(v uint64) error {
	if v > MaxAmount {
		return ErrBalanceOverflow
	}
	return nil
}

type AccountBalance struct {
	bun.BaseModel   `bun:"table:account_balance"`
	Address         string    `bun:"address,pk" json:"address"`
	LifetimeBalance uint64    `bun:"lifetime_balance,notnull" json:"lifetime_balance"`
	SpentBalance    uint64    `bun:"spent_balance,notnull" json:"spent_balance"`
	CreatedAt       time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt       time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

// Available is the number of points that can still be spent.
func (b *AccountBalance) Available() uint64 {
	if b.SpentBalance > b.LifetimeBalance {
		return 0
	}
	return b.LifetimeBalance - b.SpentBalance
}

func (b *AccountBalance) Grant(amount uint64) error {
	sum, carry := bits.Add64(b.LifetimeBalance, amount, 0)
	if carry != 0 || sum > MaxAmount {
		return ErrBalanceOverflow
	}
	b.LifetimeBalance = sum
	return nil
}

func (b *AccountBalance) Spend(amount uint64) error {
	if b.Available() < amount {
		return ErrInsufficientBalance
	}
	b.SpentBalance += amount
	return nil
}

func (b *AccountBalance) Balance(kind BalanceKind) (uint64, error) {
	switch kind {
	case BalanceKindLifetime:
		return b.LifetimeBalance, nil
	case BalanceKindSpent:
		return b.SpentBalance, nil
	}
	return 0, ErrInvalidBalanceKind
}

type BalanceKind int

const (
	BalanceKindUnknown BalanceKind = iota
	BalanceKindLifetime
	BalanceKindSpent
)

func ParseBalanceKind(s string) (BalanceKind, error) {
	switch s {
	case "lifetime":
		return BalanceKindLifetime, nil
	case "spent":
		return BalanceKindSpent, nil
	}
	return BalanceKindUnknown, ErrInvalidBalanceKind
}

func (k BalanceKind) String() string {
	switch k {
	case BalanceKindLifetime:
		return "lifetime"
	case BalanceKindSpent:
		return "spent"
	}
	return "unknown"
}

// BalanceEntry is the query shape for the balances listing.
type BalanceEntry struct {
	Address         string `json:"address"`
	LifetimeBalance uint64 `json:"lifetime_balance"`
	SpentBalance    uint64 `json:"spent_balance"`
}
