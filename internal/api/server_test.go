package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	tangent "github.com/njchilds90/gotangent"
)

func newTestServer() *Server {
	return &Server{
		Finder:      &tangent.Finder{},
		Budget:      10 * time.Second,
		MaxBody:     1 << 10,
		CORSOrigins: []string{"https://app.example"},
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func post(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/calculate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCalculate_OnCurve(t *testing.T) {
	rec := post(t, newTestServer().Handler(), `{"fcn":"x^2+y^2-25","x":"3","y":"4","output":"exact"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d: %s", rec.Code, rec.Body)
	}
	var got tangent.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.DyDx != "-x/y" {
		t.Errorf("want dy_dx -x/y, got %s", got.DyDx)
	}
	if len(got.Lines) != 1 || got.Lines[0].Slope != "-3/4" || got.Lines[0].Equation != "-3*x/4 - y + 25/4" {
		t.Errorf("unexpected lines: %+v", got.Lines)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("want a generated X-Request-ID")
	}
}

func TestCalculate_ExteriorTwoTangents(t *testing.T) {
	rec := post(t, newTestServer().Handler(), `{"fcn":"x^2+y^2-25","x":"5","y":"5","output":"exact"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d: %s", rec.Code, rec.Body)
	}
	var got tangent.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	var eqs []string
	for _, l := range got.Lines {
		eqs = append(eqs, l.Equation)
	}
	if diff := cmp.Diff([]string{"-y + 5", "x - 5"}, eqs); diff != "" {
		t.Errorf("equations mismatch (-want +got):\n%s", diff)
	}
}

func TestCalculate_NoTangentIsEmptyList(t *testing.T) {
	rec := post(t, newTestServer().Handler(), `{"fcn":"x^2+y^2-25","x":"0","y":"0","output":"decimal"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d: %s", rec.Code, rec.Body)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatal(err)
	}
	if string(raw["lines"]) != "[]" {
		t.Errorf("want lines [], got %s", raw["lines"])
	}
}

func TestCalculate_Errors(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		status int
		kind   string
		dydx   string
	}{
		{"missing field", `{"fcn":"x^2","x":"1","y":"1"}`, http.StatusBadRequest, "validation", ""},
		{"unknown field", `{"fcn":"x^2","x":"1","y":"1","output":"exact","z":"2"}`, http.StatusBadRequest, "validation", ""},
		{"trailing data", `{"fcn":"x^2","x":"1","y":"1","output":"exact"} {}`, http.StatusBadRequest, "validation", ""},
		{"bad JSON", `{"fcn":`, http.StatusBadRequest, "validation", ""},
		{"bad mode", `{"fcn":"x^2","x":"1","y":"1","output":"fraction"}`, http.StatusBadRequest, "validation", ""},
		{"equals sign", `{"fcn":"x^2 = y","x":"1","y":"1","output":"exact"}`, http.StatusBadRequest, "parse", ""},
		{"unknown symbol", `{"fcn":"x^2 + z","x":"1","y":"1","output":"exact"}`, http.StatusBadRequest, "parse", ""},
		{"symbolic point", `{"fcn":"x^2","x":"y","y":"1","output":"exact"}`, http.StatusBadRequest, "parse", ""},
		{"indeterminate", `{"fcn":"x^2 - y^2","x":"0","y":"0","output":"exact"}`, http.StatusUnprocessableEntity, "computation", "x/y"},
		{"too large", `{"fcn":"` + strings.Repeat("x+", 600) + `x","x":"1","y":"1","output":"exact"}`, http.StatusRequestEntityTooLarge, "validation", ""},
	}
	h := newTestServer().Handler()
	for _, c := range cases {
		rec := post(t, h, c.body)
		if rec.Code != c.status {
			t.Errorf("%s: want %d, got %d: %s", c.name, c.status, rec.Code, rec.Body)
			continue
		}
		var body errorBody
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Errorf("%s: %v", c.name, err)
			continue
		}
		if body.Kind != c.kind || body.DyDx != c.dydx || body.Error == "" {
			t.Errorf("%s: unexpected body %+v", c.name, body)
		}
	}
}

func TestCalculate_BudgetExceeded(t *testing.T) {
	s := newTestServer()
	s.Budget = time.Nanosecond
	rec := post(t, s.Handler(), `{"fcn":"x^2+y^2-25","x":"5","y":"5","output":"exact"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("want 422, got %d: %s", rec.Code, rec.Body)
	}
	if !strings.Contains(rec.Body.String(), "budget exceeded") {
		t.Errorf("want a budget message, got %s", rec.Body)
	}
}

func TestCalculate_MethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer().Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/calculate", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("want 405, got %d", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	newTestServer().Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Errorf("want request id echoed, got %q", got)
	}
}

func TestCORS(t *testing.T) {
	h := newTestServer().Handler()

	req := httptest.NewRequest(http.MethodOptions, "/calculate", nil)
	req.Header.Set("Origin", "https://app.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("preflight: want 204, got %d", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example" {
		t.Errorf("want allowed origin echoed, got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("want no CORS header for unknown origin, got %q", got)
	}
}

func TestRecoverer(t *testing.T) {
	h := recoverer(slog.New(slog.NewTextHandler(io.Discard, nil)), http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("want 500, got %d", rec.Code)
	}
}

func TestRateLimiter(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Minute)
	rl.Now = func() time.Time { return now }

	var got []bool
	for i := 0; i < 3; i++ {
		ok, _ := rl.Allow("10.0.0.1")
		got = append(got, ok)
	}
	if diff := cmp.Diff([]bool{true, true, false}, got); diff != "" {
		t.Errorf("allow sequence (-want +got):\n%s", diff)
	}
	if ok, _ := rl.Allow("10.0.0.2"); !ok {
		t.Error("other clients have their own bucket")
	}

	now = now.Add(30 * time.Second)
	if ok, wait := rl.Allow("10.0.0.1"); ok || wait != 30*time.Second {
		t.Errorf("want blocked for 30s, got %v %s", ok, wait)
	}
	now = now.Add(30 * time.Second)
	if ok, _ := rl.Allow("10.0.0.1"); !ok {
		t.Error("want a fresh window")
	}

	now = now.Add(5 * time.Minute)
	rl.Allow("10.0.0.3")
	if n := rl.len(); n != 1 {
		t.Errorf("want idle buckets swept, got %d", n)
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	s := newTestServer()
	s.Limiter = NewRateLimiter(1, time.Minute)
	s.TrustForwarded = true
	h := s.Handler()
	body := `{"fcn":"x^2+y^2-25","x":"3","y":"4","output":"exact"}`

	send := func(xff string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/calculate", strings.NewReader(body))
		req.Header.Set("X-Forwarded-For", xff)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}
	if rec := send("1.2.3.4"); rec.Code != http.StatusOK {
		t.Fatalf("first request: want 200, got %d", rec.Code)
	}
	rec := send("1.2.3.4, 10.0.0.1")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: want 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("want Retry-After")
	}
	if rec := send("5.6.7.8"); rec.Code != http.StatusOK {
		t.Errorf("other client: want 200, got %d", rec.Code)
	}
}
