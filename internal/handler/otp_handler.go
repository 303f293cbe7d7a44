package handler

import (
	"net/http"
	"os"
	"time"

	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// /api/send-mobile-otp, /api/verify-mobile-otp
type OTPHandler struct {
	uc           *usecase.OTPUsecase
	cookieSecure bool
}

func NewOTPHandler(uc *usecase.OTPUsecase) *OTPHandler {
	return &OTPHandler{
		uc:           uc,
		cookieSecure: envBool("COOKIE_SECURE", true),
	}
}

func envBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	switch v {
	case "1", "true", "TRUE", "True":
		return true
	case "0", "false", "FALSE", "False":
		return false
	default:
		return def
	}
}

func (h *OTPHandler) RegisterRoutes(e *echo.Echo, rdb *redis.Client) {
	g := e.Group("/api")

	//OTP系は厳しめに絞る
	g.Use(middleware.RateLimit(rdb, 10, time.Minute))

	g.POST("/send-mobile-otp", h.send)
	g.POST("/verify-mobile-otp", h.verify)
}

// OTP系は {success, error} 形式で返す
type otpErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func writeOTPError(c echo.Context, err error) error {
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, otpErrorResponse{Success: false, Error: he.Message})
	}
	return c.JSON(http.StatusInternalServerError, otpErrorResponse{Success: false, Error: "internal error"})
}

type sendOTPRequest struct {
	Mobile string `json:"mobile"`
}

func (h *OTPHandler) send(c echo.Context) error {
	var req sendOTPRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, otpErrorResponse{Success: false, Error: "invalid body"})
	}

	if err := h.uc.SendMobileOTP(c.Request().Context(), req.Mobile); err != nil {
		return writeOTPError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": "Verification code sent",
	})
}

type verifyOTPRequest struct {
	Mobile string `json:"mobile"`
	OTP    string `json:"otp"`
}

func (h *OTPHandler) verify(c echo.Context) error {
	var req verifyOTPRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, otpErrorResponse{Success: false, Error: "invalid body"})
	}

	//チェックアウトで入れたuserEmailクッキーからユーザーを探す
	userEmail := ""
	if cookie, err := c.Cookie("userEmail"); err == nil {
		userEmail = cookie.Value
	}

	out, err := h.uc.VerifyMobileOTP(c.Request().Context(), usecase.VerifyOTPInput{
		Mobile:    req.Mobile,
		OTP:       req.OTP,
		UserEmail: userEmail,
	})
	if err != nil {
		return writeOTPError(c, err)
	}

	//ユーザーが特定できた時だけセッションクッキーを立てる
	if out.SessionToken != "" {
		c.SetCookie(&http.Cookie{
			Name:     middleware.SessionCookieName,
			Value:    out.SessionToken,
			Expires:  out.SessionExpires,
			HttpOnly: true,
			Secure:   h.cookieSecure,
			SameSite: http.SameSiteLaxMode,
			Path:     "/",
		})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success":  true,
		"message":  "Mobile number verified successfully",
		"verified": out.Verified,
	})
}
