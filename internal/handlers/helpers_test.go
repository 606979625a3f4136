package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"fintrack/internal/analytics"
	"fintrack/internal/logger"
	"fintrack/internal/middleware"
	"fintrack/internal/validator"
)

const testUserID = "0190f4a2-6c1e-7b3a-9d2e-5f8a1c3b7e21"

// --- shared mocks ---

type auditEntry struct {
	userID, action, resourceType, resourceID string
	changes                                  map[string]interface{}
}

type mockAuditService struct {
	mu      sync.Mutex
	entries []auditEntry
}

func (m *mockAuditService) Log(userID, action, resourceType, resourceID, _ string, changes map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, auditEntry{userID, action, resourceType, resourceID, changes})
}

func (m *mockAuditService) last(t *testing.T) auditEntry {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.entries) == 0 {
		t.Fatal("expected an audit entry")
	}
	return m.entries[len(m.entries)-1]
}

type mockAnalyticsService struct {
	getReportFn         func(ctx context.Context, userID string, asOf time.Time) (*analytics.Report, error)
	getDashboardFn      func(ctx context.Context, userID string, asOf time.Time) (*analytics.DashboardSummary, error)
	getBudgetOverviewFn func(ctx context.Context, userID string, asOf time.Time) (*analytics.BudgetOverview, error)
	changed             []string
}

func (m *mockAnalyticsService) GetReport(ctx context.Context, userID string, asOf time.Time) (*analytics.Report, error) {
	if m.getReportFn != nil {
		return m.getReportFn(ctx, userID, asOf)
	}
	report := analytics.Compute(nil, nil, asOf)
	return &report, nil
}

func (m *mockAnalyticsService) GetDashboard(ctx context.Context, userID string, asOf time.Time) (*analytics.DashboardSummary, error) {
	if m.getDashboardFn != nil {
		return m.getDashboardFn(ctx, userID, asOf)
	}
	summary := analytics.Summarize(nil, asOf)
	return &summary, nil
}

func (m *mockAnalyticsService) GetBudgetOverview(ctx context.Context, userID string, asOf time.Time) (*analytics.BudgetOverview, error) {
	if m.getBudgetOverviewFn != nil {
		return m.getBudgetOverviewFn(ctx, userID, asOf)
	}
	overview := analytics.Overview(nil, nil, asOf)
	return &overview, nil
}

func (m *mockAnalyticsService) RecordsChanged(userID string) {
	m.changed = append(m.changed, userID)
}

// --- test helpers ---

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

func injectUserID(uid string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, uid)
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]interface{}, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}

func assertStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

func TestParseAsOf(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    string
		wantErr bool
	}{
		{name: "date", query: "?as_of=2026-03-15", want: "2026-03-15"},
		{name: "timestamp", query: "?as_of=2026-03-15T22:00:00Z", want: "2026-03-15"},
		{name: "garbage", query: "?as_of=yesterday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/t", func(c *gin.Context) {
				asOf, err := parseAsOf(c)
				if err != nil {
					respondWithError(c, err)
					return
				}
				c.String(http.StatusOK, asOf.Format("2006-01-02"))
			})

			rec := doRequest(r, http.MethodGet, "/t"+tt.query, "")
			if tt.wantErr {
				assertStatus(t, rec, http.StatusBadRequest)
				assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
				return
			}
			assertStatus(t, rec, http.StatusOK)
			if rec.Body.String() != tt.want {
				t.Errorf("expected %s, got %s", tt.want, rec.Body.String())
			}
		})
	}

	t.Run("defaults_to_today", func(t *testing.T) {
		r := gin.New()
		r.GET("/t", func(c *gin.Context) {
			asOf, _ := parseAsOf(c)
			c.String(http.StatusOK, asOf.Format("2006-01-02"))
		})
		rec := doRequest(r, http.MethodGet, "/t", "")
		if rec.Body.String() != time.Now().Format("2006-01-02") {
			t.Errorf("expected today, got %s", rec.Body.String())
		}
	})
}

func TestParsePathID(t *testing.T) {
	r := gin.New()
	r.GET("/t/:id", func(c *gin.Context) {
		id, err := parsePathID(c, "id")
		if err != nil {
			respondWithError(c, err)
			return
		}
		c.String(http.StatusOK, id)
	})

	rec := doRequest(r, http.MethodGet, "/t/"+testUserID, "")
	assertStatus(t, rec, http.StatusOK)

	rec = doRequest(r, http.MethodGet, "/t/42", "")
	assertStatus(t, rec, http.StatusBadRequest)
	assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
}
