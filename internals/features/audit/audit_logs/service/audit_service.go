// file: internals/features/audit/audit_logs/service/audit_service.go
package service

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	auditModel "galangdana_backend/internals/features/audit/audit_logs/model"
	"galangdana_backend/internals/store"
)

// retensi nominal untuk field ttl; tidak pernah dipakai sebagai trigger
// delete oleh core
const auditRetention = 2 * 365 * 24 * time.Hour

/* =========================================================
   TrailWriter: sink audit untuk Conditional Store
   Best-effort: gagal tulis audit dicatat di log aplikasi,
   TIDAK pernah menggagalkan / me-rollback operasi utamanya.
========================================================= */

type TrailWriter struct {
	table *store.Table[auditModel.AuditLog]
}

func NewTrailWriter(table *store.Table[auditModel.AuditLog]) *TrailWriter {
	return &TrailWriter{table: table}
}

func (w *TrailWriter) Record(ctx context.Context, action string, table string, objectID string, detail map[string]any) {
	ac := store.AuditContextFrom(ctx)
	now := time.Now().UTC()

	entry := auditModel.AuditLog{
		AuditLogID:        uuid.NewString(),
		AuditLogObject:    table + "/" + objectID,
		AuditLogSubject:   ac.Subject,
		AuditLogAction:    action,
		AuditLogAt:        now.Unix(),
		AuditLogSourceIP:  ac.SourceIP,
		AuditLogUserAgent: ac.UserAgent,
		AuditLogRoute:     ac.Route,
		AuditLogMetadata:  detail,
		AuditLogTTL:       now.Add(auditRetention).Unix(),
	}

	if err := w.table.Insert(ctx, &entry, nil); err != nil {
		log.Printf("[AUDIT ERROR] gagal tulis audit %s %s/%s: %v", action, table, objectID, err)
	}
}

// RecordSecurity mencatat kejadian keamanan (signature gagal, token ditolak).
// Dipanggil di luar jalur mutasi store, subject diambil dari ctx.
func (w *TrailWriter) RecordSecurity(ctx context.Context, object string, detail map[string]any) {
	w.Record(ctx, store.ActionSecurity, "security", object, detail)
}
