package handler

import (
	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"
	"github.com/samber/do"

	"pointsdraw/internal/services"
)

type groupRandomness struct {
	container *do.Injector
}

type randomnessPayload struct {
	JobID      string `json:"job_id"`
	Randomness string `json:"randomness"`
}

// Callback receives randomness from the oracle. The token's address is the
// sender checked against the configured oracle.
func (gr *groupRandomness) Callback(c echo.Context) error {
	serviceRandomness, err := do.Invoke[*services.ServiceRandomness](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	ctx := c.Request().Context()
	caller, err := ResolveCaller(ctx)
	if err != nil {
		return httpx.RestAbort(c, nil, err)
	}

	var payload randomnessPayload
	if err := c.Bind(&payload); err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Invalid))
	}

	err = serviceRandomness.ReceiveRandomness(ctx, caller.Address, payload.JobID, payload.Randomness)
	if err != nil {
		return httpx.RestAbort(c, nil, wrapError(err))
	}

	return httpx.RestAbort(c, map[string]interface{}{"job_id": payload.JobID}, nil)
}

func (gr *groupRandomness) GetPending(c echo.Context) error {
	serviceRandomness, err := do.Invoke[*services.ServiceRandomness](gr.container)
	if err != nil {
		return httpx.RestAbort(c, nil, errorx.Wrap(err, errorx.Service))
	}

	requests, err := serviceRandomness.GetPendingRequests(c.Request().Context())
	if err != nil {
		return httpx.RestAbort(c, nil, wrapError(err))
	}

	return httpx.RestAbort(c, requests, nil)
}
