// file: internals/features/audit/audit_logs/controller/audit_log_controller.go
package controller

import (
	"sort"

	"github.com/gofiber/fiber/v2"

	database "galangdana_backend/internals/databases"
	helper "galangdana_backend/internals/helpers"
)

type AuditLogController struct{}

func NewAuditLogController() *AuditLogController {
	return &AuditLogController{}
}

// GET /api/a/audit-logs
// Trail hanya bisa dibaca, tidak ada endpoint tulis/hapus.
func (h *AuditLogController) List(c *fiber.Ctx) error {
	logs, err := database.AuditLogs.Scan(helper.RequestContext(c, "admin"))
	if err != nil {
		return helper.FromError(c, err)
	}
	sort.Slice(logs, func(i, j int) bool { return logs[i].AuditLogAt > logs[j].AuditLogAt })
	return helper.Success(c, "Audit trail", logs)
}
