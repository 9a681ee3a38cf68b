package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Arghadee4102H/ASEarnHub/internal/logger"
	"github.com/Arghadee4102H/ASEarnHub/internal/services"
)

// AuditJob periodically recomputes every balance from the event log and logs
// any drift. It never mutates balances.
type AuditJob struct {
	service *services.AuditService
}

func NewAuditJob(db *gorm.DB) *AuditJob {
	return &AuditJob{
		service: services.NewAuditService(db),
	}
}

// Start begins the periodic balance audit. It stops when ctx is cancelled.
func (j *AuditJob) Start(ctx context.Context, interval time.Duration) {
	go func() {
		j.run(ctx)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				j.run(ctx)
			}
		}
	}()
}

func (j *AuditJob) run(ctx context.Context) {
	drifts, err := j.service.AuditAll(ctx)
	if err != nil {
		logger.Log.Error("balance audit failed", zap.Error(err))
		return
	}
	if len(drifts) == 0 {
		logger.Log.Debug("balance audit clean")
	}
}
