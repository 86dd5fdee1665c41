package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Routes collects everything mounted on the echo instance. Nil middlewares are skipped.
type Routes struct {
	Health      *Handler
	Customers   *CustomerHandler
	Loans       *LoanHandler
	Metrics     http.Handler
	Idempotency echo.MiddlewareFunc
}

func Register(e *echo.Echo, r Routes) {
	e.GET("/health", r.Health.Health)
	if r.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(r.Metrics))
	}

	var idem []echo.MiddlewareFunc
	if r.Idempotency != nil {
		idem = append(idem, r.Idempotency)
	}

	api := e.Group("/api")
	api.GET("/", r.Health.Index)
	api.POST("/register", r.Customers.Register, idem...)
	api.GET("/view-customer/:customer_id", r.Customers.GetCustomer)
	api.POST("/check-eligibility", r.Loans.CheckEligibility)
	api.POST("/create-loan", r.Loans.CreateLoan, idem...)
	api.GET("/view-loan/:loan_id", r.Loans.GetLoan)
	api.GET("/view-loan/:loan_id/schedule", r.Loans.GetSchedule)
	api.GET("/view-loans/:customer_id", r.Loans.ListLoans)
}
