package handler

import (
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"

	"pointsdraw/internal/models"
	"pointsdraw/internal/services"
)

type groupLedger struct {
	container *do.Injector
}

func (gr *groupLedger) GetState(c echo.Context) error {
	serviceLedger, err := do.Invoke[*services.ServiceLedger](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	serviceRandomness, err := do.Invoke[*services.ServiceRandomness](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	ctx := c.Request().Context()
	state, err := serviceLedger.GetState(ctx)
	if err != nil {
		return httpx.RestAbort(c, nil, wrapError(err))
	}

	available, err := serviceRandomness.CountAvailable(ctx)
	if err != nil {
		return httpx.RestAbort(c, nil, wrapError(err))
	}

	return httpx.RestAbort(c, map[string]interface{}{
		"state":                state,
		"available_randomness": available,
	}, nil)
}

func (gr *groupLedger) GetPrizeCost(c echo.Context) error {
	serviceLedger, err := do.Invoke[*services.ServiceLedger](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	cost, err := serviceLedger.GetPrizeCost(c.Request().Context())
	if err != nil {
		return httpx.RestAbort(c, nil, wrapError(err))
	}

	return httpx.RestAbort(c, map[string]interface{}{"prize_cost": cost}, nil)
}

func (gr *groupLedger) GetBalances(c echo.Context) error {
	serviceLedger, err := do.Invoke[*services.ServiceLedger](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	balances, err := serviceLedger.GetBalances(c.Request().Context())
	if err != nil {
		return httpx.RestAbort(c, nil, wrapError(err))
	}

	return httpx.RestAbort(c, balances, nil)
}

func (gr *groupLedger) GetBalance(c echo.Context) error {
	serviceLedger, err := do.Invoke[*services.ServiceLedger](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	kind, err := models.ParseBalanceKind(c.Param("kind"))
	if err != nil {
		return httpx.RestAbort(c, nil, wrapError(err))
	}

	balance, err := serviceLedger.GetBalance(c.Request().Context(), c.Param("address"), kind)
	if err != nil {
		return httpx.RestAbort(c, nil, wrapError(err))
	}

	return httpx.RestAbort(c, map[string]interface{}{
		"address": c.Param("address"),
		"kind":    kind.String(),
		"balance": balance,
	}, nil)
}
