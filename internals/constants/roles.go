// file: internals/constants/roles.go
package constants

import "fmt"

// Role yang dikenal platform
const (
	RoleAdmin     = "admin"     // pengelola fundraiser (scoped by groups)
	RoleViewer    = "viewer"    // read-only admin panel
	RoleScheduler = "scheduler" // identitas khusus trigger collector
)

// Template pesan error role
const (
	ErrOnlyAdminsCanAccess    = "❌ Hanya admin yang boleh mengakses fitur %s."
	ErrOnlySchedulerCanAccess = "❌ Endpoint %s hanya untuk scheduler."
)

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

func RoleErrorScheduler(feature string) string {
	return fmt.Sprintf(ErrOnlySchedulerCanAccess, feature)
}

// ==========================
// ✅ Grouped Role Slices
// ==========================
var (
	AdminOnly = []string{
		RoleAdmin,
	}

	AdminAndViewer = []string{
		RoleAdmin,
		RoleViewer,
	}

	SchedulerOnly = []string{
		RoleScheduler,
	}
)
