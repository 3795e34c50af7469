package handler

import (
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"

	"pointsdraw/internal/services"
)

type groupAdmin struct {
	container *do.Injector
}

type setAdminPayload struct {
	Address string `json:"address"`
}

type setPrizeCostPayload struct {
	Cost uint64 `json:"cost"`
}

type grantPointsPayload struct {
	Account string `json:"account"`
	Amount  uint64 `json:"amount"`
}

func (gr *groupAdmin) RequestRandomness(c echo.Context) error {
	serviceRandomness, err := do.Invoke[*services.ServiceRandomness](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	ctx := c.Request().Context()
	caller, err := ResolveCaller(ctx)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	request, err := serviceRandomness.RequestRandomness(ctx, caller.Address)
	if err != nil {
		return httpx.RestAbort(c, nil, wrapError(err))
	}

	return httpx.RestAbort(c, request, nil)
}

func (gr *groupAdmin) SetAdmin(c echo.Context) error {
	serviceLedger, err := do.Invoke[*services.ServiceLedger](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	ctx := c.Request().Context()
	caller, err := ResolveCaller(ctx)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	var payload setAdminPayload
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}

	state, err := serviceLedger.SetAdmin(ctx, caller.Address, payload.Address)
	if err != nil {
		return httpx.RestAbort(c, nil, wrapError(err))
	}

	return httpx.RestAbort(c, state, nil)
}

func (gr *groupAdmin) SetPrizeCost(c echo.Context) error {
	serviceLedger, err := do.Invoke[*services.ServiceLedger](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	ctx := c.Request().Context()
	caller, err := ResolveCaller(ctx)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	var payload setPrizeCostPayload
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}

	state, err := serviceLedger.SetPrizeCost(ctx, caller.Address, payload.Cost)
	if err != nil {
		return httpx.RestAbort(c, nil, wrapError(err))
	}

	return httpx.RestAbort(c, state, nil)
}

func (gr *groupAdmin) GrantPoints(c echo.Context) error {
	serviceLedger, err := do.Invoke[*services.ServiceLedger](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	ctx := c.Request().Context()
	caller, err := ResolveCaller(ctx)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	var payload grantPointsPayload
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}

	balance, err := serviceLedger.GrantPoints(ctx, caller.Address, payload.Account, payload.Amount)
	if err != nil {
		return httpx.RestAbort(c, nil, wrapError(err))
	}

	return httpx.RestAbort(c, balance, nil)
}
