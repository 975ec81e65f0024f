// file: internals/helpers/audit_context.go
package helper

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"galangdana_backend/internals/store"
)

// RequestContext membangun context.Context ber-AuditContext dari request
// Fiber. Subject diambil dari Locals("user_id") (diisi middleware auth);
// fallback ke subject yang diberikan (mis. "guest", "stripe", "scheduler").
func RequestContext(c *fiber.Ctx, fallbackSubject string) context.Context {
	subject := fallbackSubject
	if userID, ok := c.Locals("user_id").(string); ok && userID != "" {
		subject = userID
	}
	return store.WithAuditContext(c.UserContext(), store.AuditContext{
		Subject:   subject,
		SourceIP:  c.IP(),
		UserAgent: c.Get(fiber.HeaderUserAgent),
		Route:     c.Method() + " " + c.OriginalURL(),
	})
}
