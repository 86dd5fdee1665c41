package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"credit-approval/internal/domain/credit"
	"credit-approval/internal/domain/customer"
	"credit-approval/internal/domain/loan"
	ucCustomer "credit-approval/internal/usecase/customer"

	"github.com/labstack/echo/v4"
)

// bindAndValidate writes the 400/422 response itself and reports whether the handler may continue.
func bindAndValidate(c echo.Context, req any) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(req); err != nil {
		return false, c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	return true, nil
}

func pathID(c echo.Context, name string) (uint64, bool, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false, c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid path parameter",
			Details: []FieldError{{Field: name, Message: "must be a positive integer"}},
		})
	}
	return id, true, nil
}

func writeError(c echo.Context, log *slog.Logger, err error) error {
	var terms *credit.InvalidLoanTermsError
	switch {
	case errors.As(err, &terms):
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid loan terms",
			Details: []FieldError{{Field: terms.Field, Message: terms.Reason}},
		})
	case errors.Is(err, credit.ErrInvalidLoanTerms), errors.Is(err, ucCustomer.ErrInvalidInput):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, customer.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "customer not found"})
	case errors.Is(err, loan.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "loan not found"})
	}
	log.ErrorContext(c.Request().Context(), "request failed",
		slog.String("route", c.Path()),
		slog.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
		slog.Any("err", err))
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}
