package server

import (
	"app/internal/config"
	"app/internal/handler"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
)

// Newはechoを組み立ててルートを登録する
func New(
	cfg config.Config,
	rdb *redis.Client,
	orderH *handler.OrderHandler,
	otpH *handler.OTPHandler,
	profileH *handler.ProfileHandler,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	orderH.RegisterRoutes(e)
	otpH.RegisterRoutes(e, rdb)
	profileH.RegisterRoutes(e, cfg)

	return e
}

func Start(e *echo.Echo, addr string) error {
	return e.Start(addr)
}
