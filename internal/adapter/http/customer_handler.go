package http

import (
	"log/slog"
	"net/http"

	"credit-approval/internal/usecase/customer"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type CustomerHandler struct {
	uc  *customer.Usecase
	log *slog.Logger
}

func NewCustomerHandler(uc *customer.Usecase, log *slog.Logger) *CustomerHandler {
	return &CustomerHandler{uc: uc, log: log}
}

type registerReq struct {
	FirstName     string          `json:"first_name" validate:"required,max=100"`
	LastName      string          `json:"last_name" validate:"required,max=100"`
	Age           int             `json:"age" validate:"required,gte=18,lte=120"`
	MonthlyIncome decimal.Decimal `json:"monthly_income" validate:"required,gt=0,dec2"`
	PhoneNumber   int64           `json:"phone_number" validate:"required,gt=0"`
}

func (h *CustomerHandler) Register(c echo.Context) error {
	var req registerReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Register(c.Request().Context(), customer.RegisterInput(req))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *CustomerHandler) GetCustomer(c echo.Context) error {
	id, ok, err := pathID(c, "customer_id")
	if !ok {
		return err
	}
	dto, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}
