package handler

import (
	"net/http"

	"app/internal/domain/model"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// /api/process-order
type OrderHandler struct {
	uc *usecase.OrderUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/process-order", h.processOrder)
}

type processOrderRequest struct {
	CardConfig   *model.CardConfig     `json:"cardConfig"`
	CheckoutData *usecase.CheckoutData `json:"checkoutData"`
	PaymentData  *usecase.PaymentData  `json:"paymentData"`
	OrderID      string                `json:"orderId"`
	Pricing      *model.Pricing        `json:"pricing"`
}

type processOrderResponse struct {
	Success      bool                  `json:"success"`
	Order        model.Order           `json:"order"`
	EmailResults *usecase.EmailResults `json:"emailResults,omitempty"`
	Message      string                `json:"message,omitempty"`
}

func (h *OrderHandler) processOrder(c echo.Context) error {
	var req processOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.ProcessOrder(c.Request().Context(), usecase.ProcessOrderInput{
		CardConfig:   req.CardConfig,
		CheckoutData: req.CheckoutData,
		PaymentData:  req.PaymentData,
		OrderID:      req.OrderID,
		Pricing:      req.Pricing,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, processOrderResponse{
		Success:      true,
		Order:        out.Order,
		EmailResults: out.EmailResults,
		Message:      out.Message,
	})
}
