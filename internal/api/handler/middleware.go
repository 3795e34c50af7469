package handler

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/hiendaovinh/toolkit/pkg/errorx"
	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo/v4"

	"pointsdraw/internal/models"
)

type ctxKey string

var ctxKeyCaller ctxKey = "CALLER"

func Authn(verifier interface {
	Validate(token string) (*models.Caller, error)
},
) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return next(c)
			}

			parts := strings.Split(header, "Bearer")
			if len(parts) != 2 {
				return next(c)
			}

			token := strings.TrimSpace(parts[1])
			if len(token) == 0 {
				return next(c)
			}

			caller, err := verifier.Validate(token)
			if err != nil {
				// although it's a client error, we don't want to detailed information
				//nolint:errcheck
				httpx.Abort(c, errorx.Wrap(errors.New("invalid access token"), errorx.Authn), -1)
				return nil
			}

			ctx := c.Request().Context()
			ctx = context.WithValue(ctx, ctxKeyCaller, caller)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

func ResolveCaller(ctx context.Context) (*models.Caller, error) {
	caller, ok := ctx.Value(ctxKeyCaller).(*models.Caller)
	if !ok {
		return nil, errorx.Wrap(errors.New("missing session"), errorx.Authn)
	}

	return caller, nil
}

// AuthnCustody admits only the custody service, identified by its api key.
func AuthnCustody(apiKey string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("X-Api-Key")
			if apiKey == "" || header == "" || subtle.ConstantTimeCompare([]byte(header), []byte(apiKey)) != 1 {
				//nolint:errcheck
				httpx.Abort(c, errorx.Wrap(errors.New("unauthorized"), errorx.Authn), -1)
				return nil
			}

			return next(c)
		}
	}
}
