package models

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidAddress             = errors.New("invalid address")
	ErrUnauthorized               = errors.New("unauthorized")
	ErrUnauthorizedOracleCallback = errors.New("unauthorized randomness callback")
	ErrInvalidRandomness          = errors.New("invalid randomness")
	ErrInvalidJobID               = errors.New("invalid job id")
	ErrJobIDAlreadyPresent        = errors.New("job id already present")
	ErrNoRandomnessAvailable      = errors.New("no randomness available")
	ErrEmptyPrizePool             = errors.New("prize pool is empty")
	ErrPrizeIndexOutOfRange       = errors.New("prize index out of range")
	ErrInvalidPrize               = errors.New("invalid prize")
	ErrInvalidProxyAddress        = errors.New("proxy address is not valid")
	ErrBalanceOverflow            = errors.New("balance overflow")
	ErrInvalidBalanceKind         = errors.New("invalid balance kind")
	ErrAccountNotFound            = errors.New("account not found")
	ErrNotInstantiated            = errors.New("ledger not instantiated")
	ErrAlreadyInstantiated        = errors.New("ledger already instantiated")

	// ErrInsufficientBalance also matches ErrUnauthorized so claim callers
	// that only check for authorization failures keep working.
	ErrInsufficientBalance = fmt.Errorf("%w: insufficient balance", ErrUnauthorized)
)
