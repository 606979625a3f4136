package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
)

// WebhookSecretHeader carries the shared secret on store notifications.
const WebhookSecretHeader = "X-Webhook-Secret"

// WebhookAuthMiddleware guards endpoints called by the record store. It
// compares the X-Webhook-Secret header with the configured secret in
// constant time. With no secret configured the endpoints are disabled.
func WebhookAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			abortWithError(c, apperrors.ErrWebhookNotConfigured)
			return
		}
		got := c.GetHeader(WebhookSecretHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
			abortWithError(c, apperrors.ErrInvalidWebhookSecret)
			return
		}
		c.Next()
	}
}
