package handler

import (
	"errors"

	"github.com/hiendaovinh/toolkit/pkg/errorx"

	"pointsdraw/internal/models"
	"pointsdraw/internal/pkg/limiter"
	"pointsdraw/internal/services"
)

type errorClass int

const (
	classService errorClass = iota
	classInvalid
	classAuthn
	classValidation
	classNotExist
	classRateLimiting
)

// classify picks the errorx kind a service error is served as. Order
// matters: ErrInsufficientBalance also matches ErrUnauthorized.
func classify(err error) errorClass {
	switch {
	case errors.Is(err, models.ErrInsufficientBalance),
		errors.Is(err, models.ErrNoRandomnessAvailable),
		errors.Is(err, models.ErrEmptyPrizePool),
		errors.Is(err, models.ErrJobIDAlreadyPresent),
		errors.Is(err, models.ErrAlreadyInstantiated),
		errors.Is(err, services.ErrLedgerLock):
		return classInvalid
	case errors.Is(err, models.ErrUnauthorized),
		errors.Is(err, models.ErrUnauthorizedOracleCallback):
		return classAuthn
	case errors.Is(err, models.ErrInvalidAddress),
		errors.Is(err, models.ErrInvalidRandomness),
		errors.Is(err, models.ErrInvalidJobID),
		errors.Is(err, models.ErrInvalidPrize),
		errors.Is(err, models.ErrInvalidBalanceKind),
		errors.Is(err, models.ErrInvalidProxyAddress),
		errors.Is(err, models.ErrBalanceOverflow),
		errors.Is(err, models.ErrPrizeIndexOutOfRange):
		return classValidation
	case errors.Is(err, models.ErrAccountNotFound),
		errors.Is(err, models.ErrNotInstantiated):
		return classNotExist
	case errors.Is(err, limiter.ErrRateLimited):
		return classRateLimiting
	}
	return classService
}

// wrapError tags a service error with the errorx kind it is served as.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	switch classify(err) {
	case classInvalid:
		return errorx.Wrap(err, errorx.Invalid)
	case classAuthn:
		return errorx.Wrap(err, errorx.Authn)
	case classValidation:
		return errorx.Wrap(err, errorx.Validation)
	case classNotExist:
		return errorx.Wrap(err, errorx.NotExist)
	case classRateLimiting:
		return errorx.Wrap(err, errorx.RateLimiting)
	}
	return errorx.Wrap(err, errorx.Service)
}
