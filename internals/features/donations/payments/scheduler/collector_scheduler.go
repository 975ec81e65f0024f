// file: internals/features/donations/payments/scheduler/collector_scheduler.go
package scheduler

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"galangdana_backend/internals/features/donations/payments/service"
	"galangdana_backend/internals/store"
)

// StartCollectorScheduler menjalankan kolektor installment secara periodik
// di dalam proses. Di deployment dgn cron eksternal cukup set
// COLLECTOR_INTERVAL_MINUTES=0 dan panggil POST /api/s/collect dari luar.
func StartCollectorScheduler() {
	intervalMinutes := 60
	if val := os.Getenv("COLLECTOR_INTERVAL_MINUTES"); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			intervalMinutes = parsed
		}
	}
	if intervalMinutes <= 0 {
		log.Println("[COLLECTOR] Scheduler internal dimatikan (COLLECTOR_INTERVAL_MINUTES <= 0)")
		return
	}

	go func() {
		for {
			log.Println("[COLLECTOR] Menjalankan putaran penagihan installment...")

			ctx := store.WithAuditContext(context.Background(), store.AuditContext{
				Subject: "scheduler",
				Route:   "internal collector tick",
			})
			if report, err := service.CollectDuePayments(ctx, time.Now()); err != nil {
				log.Printf("[COLLECTOR ERROR] Putaran gagal: %v", err)
			} else if report.Due == 0 {
				log.Println("[COLLECTOR] Tidak ada installment jatuh tempo")
			}

			time.Sleep(time.Duration(intervalMinutes) * time.Minute)
		}
	}()
}
