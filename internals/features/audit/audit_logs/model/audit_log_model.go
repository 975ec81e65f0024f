// file: internals/features/audit/audit_logs/model/audit_log_model.go
package model

/* ================================
   MODEL: audit_logs (append-only)
   Tidak pernah di-update atau dihapus oleh core; field ttl ada untuk
   kebijakan retensi tapi bukan trigger delete di sini.
================================ */

type AuditLog struct {
	AuditLogID string `dynamodbav:"audit_log_id" json:"audit_log_id" validate:"required,uuid4"`

	// Apa yang terdampak: "<tabel>/<object id>"
	AuditLogObject string `dynamodbav:"audit_log_object" json:"audit_log_object" validate:"required"`
	// Siapa yang melakukan: user id / "scheduler" / "stripe" / "system"
	AuditLogSubject string `dynamodbav:"audit_log_subject" json:"audit_log_subject" validate:"required"`

	AuditLogAction string `dynamodbav:"audit_log_action" json:"audit_log_action" validate:"required,oneof=create edit plus login security run"`
	AuditLogAt     int64  `dynamodbav:"audit_log_at"     json:"audit_log_at"     validate:"required"`

	// Metadata request
	AuditLogSourceIP  string `dynamodbav:"audit_log_source_ip"  json:"audit_log_source_ip"`
	AuditLogUserAgent string `dynamodbav:"audit_log_user_agent" json:"audit_log_user_agent"`
	AuditLogRoute     string `dynamodbav:"audit_log_route"      json:"audit_log_route"`

	// Blob bebas (nested JSON)
	AuditLogMetadata map[string]any `dynamodbav:"audit_log_metadata" json:"audit_log_metadata"`

	AuditLogTTL int64 `dynamodbav:"audit_log_ttl" json:"audit_log_ttl"`
}
