// services/scheduler.go
package services

import (
	"log"
	"time"

	"chess-escrow-service/models"

	"github.com/go-co-op/gocron/v2"
)

// StartReportScheduler logs a periodic treasury summary so operators can
// spot fee accumulation (or its absence) without querying the API.
func (s *TreasuryService) StartReportScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(func() {
			cfg, err := loadConfig(s.DB)
			if err != nil {
				log.Printf("[Scheduler] treasury report skipped: %v", err)
				return
			}

			var treasury models.Account
			if err := s.DB.First(&treasury, "id = ?", cfg.TreasuryID).Error; err != nil {
				log.Printf("[Scheduler] treasury account load failed: %v", err)
				return
			}

			var open int64
			s.DB.Model(&models.Match{}).
				Where("status IN ?", []models.MatchStatus{models.StatusWaiting, models.StatusInProgress}).
				Count(&open)

			log.Printf("[Scheduler] treasury balance %d, open matches %d", treasury.Balance, open)
		}),
	)
}
