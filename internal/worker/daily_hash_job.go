package worker

import (
	"context"
	"errors"
	"log"
	"time"

	"donation-service/internal/services"
)

// DailyHashJob publishes yesterday's digest automatically. Admins can still
// regenerate any day by hand; the job only fills days nobody published yet.
type DailyHashJob struct {
	verification *services.VerificationService
	interval     time.Duration
}

func NewDailyHashJob(verification *services.VerificationService) *DailyHashJob {
	return &DailyHashJob{
		verification: verification,
		interval:     time.Hour,
	}
}

func (j *DailyHashJob) Run(ctx context.Context) {
	log.Printf("daily hash job started, interval %s", j.interval)
	j.tick()

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("daily hash job stopped")
			return
		case <-ticker.C:
			j.tick()
		}
	}
}

func (j *DailyHashJob) tick() {
	enabled, err := j.verification.Enabled()
	if err != nil {
		log.Printf("daily hash job: failed to read verification flag: %v", err)
		return
	}
	if !enabled {
		return
	}

	yesterday := time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02")

	if _, err = j.verification.GetHash(yesterday); err == nil {
		return
	}
	if !errors.Is(err, services.ErrHashNotFound) {
		log.Printf("daily hash job: failed to check %s: %v", yesterday, err)
		return
	}

	result, err := j.verification.Generate(yesterday)
	if err != nil {
		log.Printf("daily hash job: failed to generate %s: %v", yesterday, err)
		return
	}
	if result.Hash == nil {
		log.Printf("daily hash job: no completed donations on %s", yesterday)
		return
	}
	log.Printf("daily hash job: published %s over %d transactions", yesterday, result.TransactionsCount)
}
