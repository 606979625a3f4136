package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"fintrack/internal/analytics"
	apperrors "fintrack/internal/errors"
	"fintrack/internal/services"
)

// --- mock category service ---

type mockCategoryService struct {
	getCategoriesFn func(ctx context.Context, userID string) (*services.CategorySuggestions, error)
}

func (m *mockCategoryService) GetCategories(ctx context.Context, userID string) (*services.CategorySuggestions, error) {
	if m.getCategoriesFn != nil {
		return m.getCategoriesFn(ctx, userID)
	}
	return &services.CategorySuggestions{Budget: []string{}, Transaction: []string{}, Used: []string{}}, nil
}

var (
	_ services.CategoryServicer  = (*mockCategoryService)(nil)
	_ services.AnalyticsServicer = (*mockAnalyticsService)(nil)
)

func setupAnalyticsRouter(handler *AnalyticsHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(testUserID))
	auth.GET("/report", handler.GetReport)
	auth.GET("/analytics", handler.GetAnalytics)
	auth.GET("/predictions", handler.GetPredictions)
	auth.GET("/dashboard", handler.GetDashboard)
	r.POST("/internal/records-changed", handler.RecordsChanged)
	return r
}

func TestAnalyticsHandler_Views(t *testing.T) {
	tests := []struct {
		path    string
		wantKey string
	}{
		{"/report", "report"},
		{"/analytics", "analytics"},
		{"/predictions", "predictions"},
		{"/dashboard", "dashboard"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			var gotUser string
			var gotAsOf time.Time
			svc := &mockAnalyticsService{
				getReportFn: func(_ context.Context, userID string, asOf time.Time) (*analytics.Report, error) {
					gotUser, gotAsOf = userID, asOf
					report := analytics.Compute(nil, nil, asOf)
					return &report, nil
				},
				getDashboardFn: func(_ context.Context, userID string, asOf time.Time) (*analytics.DashboardSummary, error) {
					gotUser, gotAsOf = userID, asOf
					summary := analytics.Summarize(nil, asOf)
					return &summary, nil
				},
			}
			r := setupAnalyticsRouter(NewAnalyticsHandler(svc))

			rec := doRequest(r, http.MethodGet, tt.path+"?as_of=2026-03-15", "")
			assertStatus(t, rec, http.StatusOK)

			if _, ok := parseJSON(t, rec)[tt.wantKey].(map[string]interface{}); !ok {
				t.Errorf("expected %q object in %s", tt.wantKey, rec.Body.String())
			}
			if gotUser != testUserID {
				t.Errorf("expected user %s, got %s", testUserID, gotUser)
			}
			if gotAsOf.Format("2006-01-02") != "2026-03-15" {
				t.Errorf("expected as_of 2026-03-15, got %s", gotAsOf)
			}
		})
	}
}

func TestAnalyticsHandler_EmptyReportShape(t *testing.T) {
	r := setupAnalyticsRouter(NewAnalyticsHandler(&mockAnalyticsService{}))

	rec := doRequest(r, http.MethodGet, "/predictions?as_of=2026-03-15", "")
	assertStatus(t, rec, http.StatusOK)

	predictions := parseJSON(t, rec)["predictions"].(map[string]interface{})
	if predictions["savings_goal"] != nil {
		t.Errorf("expected null savings goal, got %v", predictions["savings_goal"])
	}
	for _, key := range []string{"monthly_projection", "budget_alerts", "spending_trends"} {
		list, ok := predictions[key].([]interface{})
		if !ok || len(list) != 0 {
			t.Errorf("expected empty %s list, got %v", key, predictions[key])
		}
	}
}

func TestAnalyticsHandler_Errors(t *testing.T) {
	t.Run("store unavailable", func(t *testing.T) {
		svc := &mockAnalyticsService{
			getReportFn: func(context.Context, string, time.Time) (*analytics.Report, error) {
				return nil, apperrors.ErrStoreUnavailable
			},
		}
		rec := doRequest(setupAnalyticsRouter(NewAnalyticsHandler(svc)), http.MethodGet, "/analytics", "")
		assertStatus(t, rec, http.StatusServiceUnavailable)
		assertErrorCode(t, parseJSON(t, rec), "STORE_UNAVAILABLE")
	})

	t.Run("malformed record", func(t *testing.T) {
		svc := &mockAnalyticsService{
			getReportFn: func(context.Context, string, time.Time) (*analytics.Report, error) {
				return nil, apperrors.ErrMalformedRecord
			},
		}
		rec := doRequest(setupAnalyticsRouter(NewAnalyticsHandler(svc)), http.MethodGet, "/report", "")
		assertStatus(t, rec, http.StatusBadGateway)
		assertErrorCode(t, parseJSON(t, rec), "MALFORMED_RECORD")
	})

	t.Run("bad as_of", func(t *testing.T) {
		rec := doRequest(setupAnalyticsRouter(NewAnalyticsHandler(&mockAnalyticsService{})), http.MethodGet, "/dashboard?as_of=2026-13-01", "")
		assertStatus(t, rec, http.StatusBadRequest)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		r := gin.New()
		r.GET("/report", NewAnalyticsHandler(&mockAnalyticsService{}).GetReport)
		assertStatus(t, doRequest(r, http.MethodGet, "/report", ""), http.StatusUnauthorized)
	})
}

func TestAnalyticsHandler_RecordsChanged(t *testing.T) {
	t.Run("invalidates the user", func(t *testing.T) {
		svc := &mockAnalyticsService{}
		r := setupAnalyticsRouter(NewAnalyticsHandler(svc))

		rec := doRequest(r, http.MethodPost, "/internal/records-changed", `{"user_id":"`+testUserID+`"}`)
		assertStatus(t, rec, http.StatusOK)
		if len(svc.changed) != 1 || svc.changed[0] != testUserID {
			t.Errorf("expected %s invalidated, got %v", testUserID, svc.changed)
		}
	})

	for name, body := range map[string]string{
		"missing user": `{}`,
		"not a uuid":   `{"user_id":"42"}`,
	} {
		t.Run(name, func(t *testing.T) {
			svc := &mockAnalyticsService{}
			rec := doRequest(setupAnalyticsRouter(NewAnalyticsHandler(svc)), http.MethodPost, "/internal/records-changed", body)
			assertStatus(t, rec, http.StatusBadRequest)
			if len(svc.changed) != 0 {
				t.Error("nothing should be invalidated")
			}
		})
	}
}

func TestCategoryHandler_GetCategories(t *testing.T) {
	t.Run("returns 200", func(t *testing.T) {
		svc := &mockCategoryService{
			getCategoriesFn: func(_ context.Context, userID string) (*services.CategorySuggestions, error) {
				if userID != testUserID {
					t.Errorf("unexpected user %s", userID)
				}
				return &services.CategorySuggestions{
					Budget:      []string{"Food"},
					Transaction: []string{"Salary", "Food"},
					Used:        []string{"Pets"},
				}, nil
			},
		}
		r := gin.New()
		r.GET("/categories", injectUserID(testUserID), NewCategoryHandler(svc).GetCategories)

		rec := doRequest(r, http.MethodGet, "/categories", "")
		assertStatus(t, rec, http.StatusOK)
		categories := parseJSON(t, rec)["categories"].(map[string]interface{})
		if used := categories["used"].([]interface{}); len(used) != 1 || used[0] != "Pets" {
			t.Errorf("unexpected used categories %v", used)
		}
	})

	t.Run("returns 500 on unexpected error", func(t *testing.T) {
		svc := &mockCategoryService{
			getCategoriesFn: func(context.Context, string) (*services.CategorySuggestions, error) {
				return nil, apperrors.ErrInternalServer
			},
		}
		r := gin.New()
		r.GET("/categories", injectUserID(testUserID), NewCategoryHandler(svc).GetCategories)

		rec := doRequest(r, http.MethodGet, "/categories", "")
		assertStatus(t, rec, http.StatusInternalServerError)
		assertErrorCode(t, parseJSON(t, rec), "INTERNAL_ERROR")
	})
}
