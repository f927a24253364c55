package jobs

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"hostelcore/dto"
)

// LedgerReconciler định nghĩa interface cho việc đối chiếu sổ cái
type LedgerReconciler interface {
	Reconcile() ([]dto.ReconcileMismatch, error)
}

var ledgerReconciler LedgerReconciler

// SetLedgerReconciler thiết lập implementation cho LedgerReconciler
func SetLedgerReconciler(reconciler LedgerReconciler) {
	ledgerReconciler = reconciler
}

// InitCronJobs khởi tạo các cron jobs
func InitCronJobs(c *cron.Cron) error {
	// Cron job đối chiếu occupancy chạy lúc 2h30 mỗi ngày
	_, err := c.AddFunc("30 2 * * *", func() {
		now := time.Now()
		log.Printf("Đang chạy đối chiếu sổ cái occupancy lúc: %v", now)
		if ledgerReconciler == nil {
			log.Printf("Lỗi: LedgerReconciler chưa được thiết lập")
			return
		}
		mismatches, err := ledgerReconciler.Reconcile()
		if err != nil {
			log.Printf("Lỗi khi đối chiếu sổ cái: %v", err)
			return
		}
		if len(mismatches) == 0 {
			log.Printf("Đối chiếu xong, không có sai lệch")
			return
		}
		for _, mismatch := range mismatches {
			log.Printf("Sai lệch occupancy phòng %s: %s", mismatch.RoomNumber, mismatch.Detail)
		}
	})
	if err != nil {
		return err
	}

	c.Start()
	log.Println("Cron jobs initialized successfully")
	return nil
}
