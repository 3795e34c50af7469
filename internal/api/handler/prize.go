package handler

import (
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"

	"pointsdraw/internal/services"
)

type groupPrize struct {
	container *do.Injector
}

type depositPayload struct {
	Depositor string `json:"depositor"`
	ItemID    string `json:"item_id"`
}

func (gr *groupPrize) Deposit(c echo.Context) error {
	servicePrizePool, err := do.Invoke[*services.ServicePrizePool](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	var payload depositPayload
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}

	prize, err := servicePrizePool.Deposit(c.Request().Context(), payload.Depositor, payload.ItemID)
	if err != nil {
		return httpx.RestAbort(c, nil, wrapError(err))
	}

	return httpx.RestAbort(c, prize, nil)
}

func (gr *groupPrize) GetPrizes(c echo.Context) error {
	servicePrizePool, err := do.Invoke[*services.ServicePrizePool](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	prizes, err := servicePrizePool.GetPrizes(c.Request().Context())
	if err != nil {
		return httpx.RestAbort(c, nil, wrapError(err))
	}

	return httpx.RestAbort(c, prizes, nil)
}

func (gr *groupPrize) GetTransfers(c echo.Context) error {
	serviceTransfer, err := do.Invoke[*services.ServiceTransfer](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	transfers, err := serviceTransfer.GetTransfers(c.Request().Context(), c.Param("address"))
	if err != nil {
		return httpx.RestAbort(c, nil, wrapError(err))
	}

	return httpx.RestAbort(c, transfers, nil)
}
