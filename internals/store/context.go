// file: internals/store/context.go
package store

import "context"

/* =========================================================
   AuditContext: identitas request yang di-thread eksplisit
   (bukan global ambient) ke setiap operasi ledger & store
========================================================= */

type AuditContext struct {
	Subject   string // siapa: user id / "scheduler" / "stripe" / "system"
	SourceIP  string
	UserAgent string
	Route     string // method + path mentah
}

type auditContextKey struct{}

func WithAuditContext(ctx context.Context, ac AuditContext) context.Context {
	return context.WithValue(ctx, auditContextKey{}, ac)
}

// AuditContextFrom mengembalikan AuditContext dari ctx; fallback subject
// "system" untuk proses non-request (scheduler internal, bootstrap).
func AuditContextFrom(ctx context.Context) AuditContext {
	if ac, ok := ctx.Value(auditContextKey{}).(AuditContext); ok {
		return ac
	}
	return AuditContext{Subject: "system"}
}
