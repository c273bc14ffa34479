package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddlewareCountsRequests(t *testing.T) {
	e := echo.New()
	e.Use(Middleware())
	e.GET("/ping", func(c echo.Context) error {
		return c.String(http.StatusOK, "pong")
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/ping", "200"))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/ping", "200"))
	if after != before+1 {
		t.Errorf("counter: want %v, got %v", before+1, after)
	}
	if got := testutil.ToFloat64(httpInFlight); got != 0 {
		t.Errorf("in-flight gauge should return to 0, got %v", got)
	}
}

func TestMiddlewareLabelsErrorStatus(t *testing.T) {
	e := echo.New()
	e.Use(Middleware())
	e.GET("/boom", func(echo.Context) error {
		return echo.NewHTTPError(http.StatusUnauthorized, "no")
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/boom", "401"))

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	e.ServeHTTP(httptest.NewRecorder(), req)

	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/boom", "401"))
	if after != before+1 {
		t.Errorf("counter: want %v, got %v", before+1, after)
	}
}

func TestRecordLogin(t *testing.T) {
	before := testutil.ToFloat64(loginsTotal.WithLabelValues("success"))
	RecordLogin("success")
	after := testutil.ToFloat64(loginsTotal.WithLabelValues("success"))
	if after != before+1 {
		t.Errorf("login counter: want %v, got %v", before+1, after)
	}
}
