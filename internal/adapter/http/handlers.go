package http

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type Endpoint struct {
	Method      string `json:"method"`
	Path        string `json:"path"`
	Description string `json:"description"`
}

var apiEndpoints = []Endpoint{
	{http.MethodPost, "/api/register", "register a customer and derive the approved limit"},
	{http.MethodGet, "/api/view-customer/:customer_id", "view a customer"},
	{http.MethodPost, "/api/check-eligibility", "score a proposed loan without booking it"},
	{http.MethodPost, "/api/create-loan", "evaluate and book a loan"},
	{http.MethodGet, "/api/view-loan/:loan_id", "view a loan with its customer"},
	{http.MethodGet, "/api/view-loan/:loan_id/schedule", "amortization schedule of a loan"},
	{http.MethodGet, "/api/view-loans/:customer_id", "active loans of a customer"},
}

// Check is a dependency probe reported by /health.
type Check struct {
	Name string
	Ping func(ctx context.Context) error
}

const checkTimeout = 2 * time.Second

type Handler struct {
	now    func() time.Time
	checks []Check
}

func NewHandler(checks ...Check) *Handler { return &Handler{now: time.Now, checks: checks} }

// Health answers 503 when any dependency check fails.
func (h *Handler) Health(c echo.Context) error {
	status, code := "ok", http.StatusOK
	body := map[string]any{}
	if len(h.checks) > 0 {
		ctx, cancel := context.WithTimeout(c.Request().Context(), checkTimeout)
		defer cancel()
		results := make(map[string]string, len(h.checks))
		for _, chk := range h.checks {
			if err := chk.Ping(ctx); err != nil {
				results[chk.Name] = err.Error()
				status, code = "degraded", http.StatusServiceUnavailable
				continue
			}
			results[chk.Name] = "ok"
		}
		body["checks"] = results
	}
	body["status"] = status
	body["time"] = h.now().UTC().Format(time.RFC3339Nano)
	return c.JSON(code, body)
}

func (h *Handler) Index(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"service":   "credit-approval",
		"endpoints": apiEndpoints,
	})
}
