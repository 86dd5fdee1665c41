package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"credit-approval/internal/infrastructure/metrics"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
)

const (
	testReqID = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	loanPath  = "/api/create-loan"
)

// helper: new Echo with the middleware and a simple route
func setupEcho(rdb redis.Cmdable, m *metrics.Metrics, handler echo.HandlerFunc) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(IdempotencyMiddleware(rdb, IdempotencyConfig{TTL: 2 * time.Minute, Metrics: m}))
	e.POST(loanPath, handler)
	e.GET(loanPath, handler)
	return e
}

func mkJSONBody(t *testing.T, v any) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return bytes.NewReader(b)
}

func doReq(t *testing.T, e *echo.Echo, method, path string, body io.Reader, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func validHeaders() map[string]string {
	return map[string]string{
		HeaderRequestID: testReqID,
		HeaderRequestAt: time.Now().UTC().Format(time.RFC3339),
	}
}

func okCreatedHandler(c echo.Context) error {
	return c.JSON(http.StatusCreated, map[string]any{"loan_id": 7})
}

func Test_BypassOnGET_NoHeadersRequired(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	defer mr.Close()
	e := setupEcho(rdb, nil, func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "get ok"})
	})
	rec := doReq(t, e, http.MethodGet, loanPath, nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(mr.Keys()) != 0 {
		t.Fatalf("GET must not touch the store: %v", mr.Keys())
	}
}

func Test_ValidationFailures(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	defer mr.Close()
	e := setupEcho(rdb, nil, okCreatedHandler)
	at := time.Now().UTC().Format(time.RFC3339)

	tests := []struct {
		name string
		hdr  map[string]string
	}{
		{"missing request id", map[string]string{HeaderRequestAt: at}},
		{"invalid request id", map[string]string{HeaderRequestID: "NOT-VALID", HeaderRequestAt: at}},
		{"missing request at", map[string]string{HeaderRequestID: testReqID}},
		{"invalid request at", map[string]string{HeaderRequestID: testReqID, HeaderRequestAt: "not-a-time"}},
		{"skewed past", map[string]string{
			HeaderRequestID: testReqID,
			HeaderRequestAt: time.Now().UTC().Add(-maxClockSkew - time.Minute).Format(time.RFC3339),
		}},
		{"skewed future", map[string]string{
			HeaderRequestID: testReqID,
			HeaderRequestAt: time.Now().UTC().Add(maxClockSkew + time.Minute).Format(time.RFC3339),
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doReq(t, e, http.MethodPost, loanPath, mkJSONBody(t, map[string]int{"customer_id": 1}), tt.hdr)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("want 400, got %d", rec.Code)
			}
		})
	}
}

func Test_HappyPath_Then_Replay(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	defer mr.Close()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	var calls atomic.Int32
	e := setupEcho(rdb, m, func(c echo.Context) error {
		calls.Add(1)
		return okCreatedHandler(c)
	})

	body := map[string]any{"customer_id": 1, "loan_amount": 500000}
	rec1 := doReq(t, e, http.MethodPost, loanPath, mkJSONBody(t, body), validHeaders())
	if rec1.Code != http.StatusCreated {
		t.Fatalf("first request => want 201, got %d, body: %s", rec1.Code, rec1.Body.String())
	}
	if rec1.Header().Get(HeaderReplay) != "" {
		t.Fatal("first response must not be marked as replay")
	}

	rec2 := doReq(t, e, http.MethodPost, loanPath, mkJSONBody(t, body), validHeaders())
	if rec2.Code != http.StatusCreated {
		t.Fatalf("replay => want 201, got %d, body: %s", rec2.Code, rec2.Body.String())
	}
	if rec1.Body.String() != rec2.Body.String() {
		t.Fatalf("replay body mismatch: %q vs %q", rec1.Body.String(), rec2.Body.String())
	}
	if rec2.Header().Get(HeaderReplay) != "true" {
		t.Fatal("replayed response should carry the replay header")
	}
	if calls.Load() != 1 {
		t.Fatalf("handler ran %d times, want 1", calls.Load())
	}
	if got := testutil.ToFloat64(m.IdempotencyReplays); got != 1 {
		t.Fatalf("replay counter = %v, want 1", got)
	}
	if ttl := mr.TTL(buildKey(http.MethodPost, loanPath, testReqID)); ttl <= provisionalLockTTL {
		t.Fatalf("final entry should carry the configured TTL, got %v", ttl)
	}
}

func Test_HandlerSeesBufferedBody(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	defer mr.Close()
	e := setupEcho(rdb, nil, func(c echo.Context) error {
		var in map[string]int
		if err := c.Bind(&in); err != nil {
			return c.JSON(http.StatusBadRequest, nil)
		}
		return c.JSON(http.StatusOK, in)
	})
	rec := doReq(t, e, http.MethodPost, loanPath, strings.NewReader(`{"customer_id":9}`), validHeaders())
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"customer_id":9`) {
		t.Fatalf("handler did not get the body: %d %s", rec.Code, rec.Body.String())
	}
}

func Test_ServerErrorReleasesKey(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	defer mr.Close()

	var calls atomic.Int32
	e := setupEcho(rdb, nil, func(c echo.Context) error {
		if calls.Add(1) == 1 {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
		}
		return okCreatedHandler(c)
	})

	rec := doReq(t, e, http.MethodPost, loanPath, strings.NewReader(`{"x":1}`), validHeaders())
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("first => want 500, got %d", rec.Code)
	}
	if mr.Exists(buildKey(http.MethodPost, loanPath, testReqID)) {
		t.Fatal("5xx must not be remembered")
	}

	rec = doReq(t, e, http.MethodPost, loanPath, strings.NewReader(`{"x":1}`), validHeaders())
	if rec.Code != http.StatusCreated {
		t.Fatalf("retry => want 201, got %d", rec.Code)
	}
}

func Test_ReturnedErrorIsRenderedAndReleased(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	defer mr.Close()
	e := setupEcho(rdb, nil, func(echo.Context) error {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "try later")
	})

	rec := doReq(t, e, http.MethodPost, loanPath, strings.NewReader(`{}`), validHeaders())
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("want 503, got %d", rec.Code)
	}
	if mr.Exists(buildKey(http.MethodPost, loanPath, testReqID)) {
		t.Fatal("failed request must not be remembered")
	}
}

func Test_Conflict_When_InProgress(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	defer mr.Close()
	e := setupEcho(rdb, nil, okCreatedHandler)

	body := []byte(`{"x":1}`)
	entry := idempEntry{
		InProgress:  true,
		BodySHA256:  bodyHash(body),
		RequestID:   testReqID,
		RequestAtMS: time.Now().UnixMilli(),
		CreatedAt:   time.Now().UTC(),
	}
	if ok, err := provisionalSet(context.Background(), rdb, buildKey(http.MethodPost, loanPath, testReqID), entry); err != nil || !ok {
		t.Fatalf("seed provisional failed, ok=%v err=%v", ok, err)
	}

	rec := doReq(t, e, http.MethodPost, loanPath, bytes.NewReader(body), validHeaders())
	if rec.Code != http.StatusConflict {
		t.Fatalf("in-progress => want 409, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func Test_Conflict_When_SameReqID_DifferentBody(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	defer mr.Close()
	e := setupEcho(rdb, nil, okCreatedHandler)

	final := idempEntry{
		Code:        http.StatusCreated,
		Body:        []byte(`{"loan_id":7}`),
		BodySHA256:  bodyHash([]byte(`{"x":1}`)),
		RequestID:   testReqID,
		RequestAtMS: time.Now().UnixMilli(),
		CreatedAt:   time.Now().UTC(),
	}
	if err := saveFinal(context.Background(), rdb, buildKey(http.MethodPost, loanPath, testReqID), final, 5*time.Minute); err != nil {
		t.Fatalf("seed final failed: %v", err)
	}

	rec := doReq(t, e, http.MethodPost, loanPath, strings.NewReader(`{"x":2}`), validHeaders())
	if rec.Code != http.StatusConflict {
		t.Fatalf("different body same reqID => want 409, got %d", rec.Code)
	}
}

func Test_StoreUnavailable_Returns503(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	e := setupEcho(rdb, nil, func(c echo.Context) error {
		t.Fatal("handler must not run without the store")
		return nil
	})
	mr.Close()

	rec := doReq(t, e, http.MethodPost, loanPath, strings.NewReader(`{}`), validHeaders())
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("store unavailable => want 503, got %d", rec.Code)
	}
}
