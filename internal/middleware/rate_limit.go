package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Error: msg}
}

// IPごとの固定ウィンドウのレート制限（Redis INCR + EXPIRE）。
// Redis未設定・接続不能の時はブロックしない。
func RateLimit(rdb *redis.Client, max int64, window time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if rdb == nil {
				return next(c)
			}

			ctx := c.Request().Context()
			key := "rate:" + c.Path() + ":" + c.RealIP()

			count, err := rdb.Incr(ctx, key).Result()
			if err != nil {
				//Redisが落ちていても401/429祭りにしない
				return next(c)
			}
			if count == 1 {
				rdb.Expire(ctx, key, window)
			}

			if count > max {
				return c.JSON(http.StatusTooManyRequests, errorJSON("Too many requests. Please try again later."))
			}

			return next(c)
		}
	}
}
