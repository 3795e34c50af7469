package handler

import (
	"net/http"

	"github.com/hiendaovinh/toolkit/pkg/httpx-echo"
	"github.com/labstack/echo-contrib/pprof"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/do"

	"pointsdraw/internal/services"
)

type Config struct {
	Container     *do.Injector
	Mode          string
	Origins       []string
	CustodyAPIKey string
}

func New(cfg *Config) (http.Handler, error) {
	r := echo.New()
	r.Pre(middleware.RemoveTrailingSlash())
	if cfg.Mode == "debug" {
		r.Debug = true
		pprof.Register(r)
	}

	r.JSONSerializer = httpx.SegmentJSONSerializer{}
	r.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339}\t${method}\t${uri}\t${status}\t${latency_human}\n",
	}))
	r.Use(middleware.Recover())

	r.GET("", func(c echo.Context) error {
		return c.String(http.StatusOK, "🎁")
	})
	r.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	routesAPIv1 := r.Group("/api/v1")
	{
		authentication, err := do.Invoke[*services.Authentication](cfg.Container)
		if err != nil {
			return nil, err
		}
		cors := middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     cfg.Origins,
			AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
			AllowCredentials: true,
			MaxAge:           60 * 60,
		})

		routesAPIv1.Use(cors)

		custody := groupPrize{cfg.Container}
		routesAPIv1.POST("/prizes/deposit", custody.Deposit, AuthnCustody(cfg.CustodyAPIKey))

		routesAPIv1.Use(Authn(authentication)) // Authn will NOT terminate unauthenticated request.

		l := groupLedger{cfg.Container}
		routesAPIv1.GET("/state", l.GetState)
		routesAPIv1.GET("/prize-cost", l.GetPrizeCost)
		routesAPIv1.GET("/balances", l.GetBalances)
		routesAPIv1.GET("/balances/:address/:kind", l.GetBalance)

		p := groupPrize{cfg.Container}
		routesAPIv1.GET("/prizes", p.GetPrizes)
		routesAPIv1.GET("/transfers/:address", p.GetTransfers)

		cl := groupClaim{cfg.Container}
		routesAPIv1.POST("/claim", cl.Claim)

		rd := groupRandomness{cfg.Container}
		routesAPIv1.POST("/randomness/callback", rd.Callback)
		routesAPIv1.GET("/randomness/pending", rd.GetPending)

		routesAPIv1Admin := routesAPIv1.Group("/admin")
		{
			a := groupAdmin{cfg.Container}
			routesAPIv1Admin.POST("/randomness/request", a.RequestRandomness)
			routesAPIv1Admin.POST("/admin", a.SetAdmin)
			routesAPIv1Admin.POST("/prize-cost", a.SetPrizeCost)
			routesAPIv1Admin.POST("/points", a.GrantPoints)
		}
	}

	return r, nil
}
