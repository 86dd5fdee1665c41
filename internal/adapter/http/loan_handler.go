package http

import (
	"log/slog"
	"net/http"

	"credit-approval/internal/usecase/loan"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type LoanHandler struct {
	uc  *loan.Usecase
	log *slog.Logger
}

func NewLoanHandler(uc *loan.Usecase, log *slog.Logger) *LoanHandler {
	return &LoanHandler{uc: uc, log: log}
}

type loanReq struct {
	CustomerID   uint64          `json:"customer_id" validate:"required"`
	LoanAmount   decimal.Decimal `json:"loan_amount" validate:"required,gt=0,dec2"`
	InterestRate decimal.Decimal `json:"interest_rate" validate:"gte=0,lte=100,dec2"`
	Tenure       int             `json:"tenure" validate:"required,gte=1,lte=600"`
}

func (h *LoanHandler) CheckEligibility(c echo.Context) error {
	var req loanReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.CheckEligibility(c.Request().Context(), loan.EligibilityInput(req))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

// CreateLoan answers 201 when the loan is booked and 200 with a null loan_id when it is not.
func (h *LoanHandler) CreateLoan(c echo.Context) error {
	var req loanReq
	if ok, err := bindAndValidate(c, &req); !ok {
		return err
	}
	dto, err := h.uc.Create(c.Request().Context(), loan.CreateLoanInput(req))
	if err != nil {
		return writeError(c, h.log, err)
	}
	if dto.LoanApproved {
		return c.JSON(http.StatusCreated, dto)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) GetLoan(c echo.Context) error {
	id, ok, err := pathID(c, "loan_id")
	if !ok {
		return err
	}
	dto, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) GetSchedule(c echo.Context) error {
	id, ok, err := pathID(c, "loan_id")
	if !ok {
		return err
	}
	dto, err := h.uc.Schedule(c.Request().Context(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) ListLoans(c echo.Context) error {
	id, ok, err := pathID(c, "customer_id")
	if !ok {
		return err
	}
	list, err := h.uc.ListActive(c.Request().Context(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, list)
}
