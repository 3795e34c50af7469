package handler

import (
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"

	"pointsdraw/internal/models"
	"pointsdraw/internal/pkg/address"
	"pointsdraw/internal/services"
)

type groupClaim struct {
	container *do.Injector
}

type claimPayload struct {
	Account string `json:"account"`
}

// Claim draws a prize for the caller. An explicit account must be the
// caller's own.
func (gr *groupClaim) Claim(c echo.Context) error {
	serviceClaim, err := do.Invoke[*services.ServiceClaim](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	ctx := c.Request().Context()
	caller, err := ResolveCaller(ctx)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	var payload claimPayload
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}

	account := caller.Address
	if payload.Account != "" {
		normalized, err := address.Normalize(payload.Account)
		if err != nil {
			return httpx.RestAbort(c, nil, wrapError(err))
		}
		if normalized != caller.Address {
			return httpx.RestAbort(c, nil, wrapError(models.ErrUnauthorized))
		}
	}

	transfer, err := serviceClaim.ClaimPrize(ctx, account)
	if err != nil {
		return httpx.RestAbort(c, nil, wrapError(err))
	}

	return httpx.RestAbort(c, transfer, nil)
}
