package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "fintrack/internal/errors"
)

const (
	testSecret = "test-jwt-secret"
	testIssuer = "https://auth.example.test"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func doRequest(r *gin.Engine, header, value string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/test", http.NoBody)
	if value != "" {
		req.Header.Set(header, value)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse response body: %v", err)
	}
	return result
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	errObj, ok := parseBody(t, rec)["error"].(map[string]interface{})
	if !ok {
		t.Fatal("expected error object in response")
	}
	code, _ := errObj["code"].(string)
	return code
}

func TestWebhookAuthMiddleware(t *testing.T) {
	tests := []struct {
		name          string
		configured    string
		sent          string
		wantStatus    int
		wantErrorCode string
	}{
		{name: "valid_secret", configured: "hook-secret", sent: "hook-secret", wantStatus: http.StatusOK},
		{name: "wrong_secret", configured: "hook-secret", sent: "nope", wantStatus: http.StatusUnauthorized, wantErrorCode: "INVALID_WEBHOOK_SECRET"},
		{name: "missing_secret", configured: "hook-secret", wantStatus: http.StatusUnauthorized, wantErrorCode: "INVALID_WEBHOOK_SECRET"},
		{name: "partial_match_rejected", configured: "hook-secret", sent: "hook", wantStatus: http.StatusUnauthorized, wantErrorCode: "INVALID_WEBHOOK_SECRET"},
		{name: "not_configured", configured: "", sent: "anything", wantStatus: http.StatusServiceUnavailable, wantErrorCode: "WEBHOOK_NOT_CONFIGURED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(WebhookAuthMiddleware(tt.configured))
			r.POST("/test", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

			rec := doRequest(r, WebhookSecretHeader, tt.sent)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantErrorCode != "" {
				if code := errorCode(t, rec); code != tt.wantErrorCode {
					t.Errorf("error code = %q, want %q", code, tt.wantErrorCode)
				}
			}
		})
	}
}

func TestAuthMiddleware(t *testing.T) {
	userID := uuid.NewString()

	valid, err := IssueAccessToken(testSecret, testIssuer, userID, time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	expired, _ := IssueAccessToken(testSecret, testIssuer, userID, -time.Minute)
	wrongKey, _ := IssueAccessToken("other-secret", testIssuer, userID, time.Hour)
	wrongIssuer, _ := IssueAccessToken(testSecret, "someone-else", userID, time.Hour)
	badSubject, _ := IssueAccessToken(testSecret, testIssuer, "42", time.Hour)

	tests := []struct {
		name          string
		header        string
		wantStatus    int
		wantErrorCode string
	}{
		{name: "valid", header: "Bearer " + valid, wantStatus: http.StatusOK},
		{name: "lowercase_scheme", header: "bearer " + valid, wantStatus: http.StatusOK},
		{name: "missing_header", header: "", wantStatus: http.StatusUnauthorized, wantErrorCode: "UNAUTHORIZED"},
		{name: "wrong_scheme", header: "Basic abc", wantStatus: http.StatusUnauthorized, wantErrorCode: "UNAUTHORIZED"},
		{name: "expired", header: "Bearer " + expired, wantStatus: http.StatusUnauthorized, wantErrorCode: "INVALID_TOKEN"},
		{name: "wrong_key", header: "Bearer " + wrongKey, wantStatus: http.StatusUnauthorized, wantErrorCode: "INVALID_TOKEN"},
		{name: "wrong_issuer", header: "Bearer " + wrongIssuer, wantStatus: http.StatusUnauthorized, wantErrorCode: "INVALID_TOKEN"},
		{name: "subject_not_uuid", header: "Bearer " + badSubject, wantStatus: http.StatusUnauthorized, wantErrorCode: "INVALID_TOKEN"},
		{name: "garbage", header: "Bearer not.a.jwt", wantStatus: http.StatusUnauthorized, wantErrorCode: "INVALID_TOKEN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(AuthMiddleware(testSecret, testIssuer))
			r.POST("/test", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{"user_id": c.GetString(UserIDKey)})
			})

			rec := doRequest(r, "Authorization", tt.header)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantErrorCode != "" {
				if code := errorCode(t, rec); code != tt.wantErrorCode {
					t.Errorf("error code = %q, want %q", code, tt.wantErrorCode)
				}
				return
			}
			if got, _ := parseBody(t, rec)["user_id"].(string); got != userID {
				t.Errorf("user_id = %q, want %q", got, userID)
			}
		})
	}
}

func TestAuthMiddlewareWithoutIssuerCheck(t *testing.T) {
	token, _ := IssueAccessToken(testSecret, "any-issuer", uuid.NewString(), time.Hour)

	r := gin.New()
	r.Use(AuthMiddleware(testSecret, ""))
	r.POST("/test", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	if rec := doRequest(r, "Authorization", "Bearer "+token); rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "app_error", err: apperrors.ErrBudgetNotFound, wantStatus: http.StatusNotFound, wantCode: "BUDGET_NOT_FOUND"},
		{name: "wrapped_app_error", err: apperrors.Wrap(apperrors.ErrStoreUnavailable, errors.New("dial tcp")), wantStatus: http.StatusServiceUnavailable, wantCode: "STORE_UNAVAILABLE"},
		{name: "plain_error", err: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantCode: "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(ErrorHandler())
			r.POST("/test", func(c *gin.Context) { _ = c.Error(tt.err) })

			rec := doRequest(r, "", "")
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if code := errorCode(t, rec); code != tt.wantCode {
				t.Errorf("error code = %q, want %q", code, tt.wantCode)
			}
			if body := rec.Body.String(); tt.name == "wrapped_app_error" && strings.Contains(body, "dial tcp") {
				t.Error("internal error detail leaked to client")
			}
		})
	}
}

func TestRequestLoggingSetsRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogging())
	r.POST("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := doRequest(r, "", "")
	if _, err := uuid.Parse(rec.Header().Get("X-Request-ID")); err != nil {
		t.Errorf("expected generated request id, got %q", rec.Header().Get("X-Request-ID"))
	}

	incoming := uuid.NewString()
	rec = doRequest(r, "X-Request-ID", incoming)
	if got := rec.Header().Get("X-Request-ID"); got != incoming {
		t.Errorf("expected incoming request id %s, got %s", incoming, got)
	}

	rec = doRequest(r, "X-Request-ID", "not-a-uuid")
	if got := rec.Header().Get("X-Request-ID"); got == "not-a-uuid" {
		t.Error("malformed request id must be replaced")
	}
}
