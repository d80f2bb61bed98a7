package cron

import (
	"context"
	"time"

	"coinplay/config"
	kycRepo "coinplay/database/repository/kyc"
	"coinplay/services/kyc"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeKYCReconcile = "kyc:reconcile"

// reconcileInterval controls how often stale pending records are re-polled.
const reconcileInterval = 15 * time.Minute

// staleAfter is how long a pending record may sit without an update before
// the worker polls the provider on its behalf.
const staleAfter = time.Hour

// InitKYCReconcileWorker runs the async worker in the background. It sweeps
// pending verification records that have not moved in a while and asks the
// lifecycle service to refresh them, so users who never revisit the status
// page still converge on the provider's decision.
func InitKYCReconcileWorker(kycSvc kyc.KYCService, records kycRepo.VerificationRecordRepository) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 5,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeKYCReconcile, handleReconcileTask(kycSvc, records))

	go scheduleReconcileTasks(redisOpts)

	go func() {
		logger := zap.L()
		logger.Info("starting KYC reconcile worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				logger.Error("failed to start reconcile worker",
					zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
				if attempts == maxAttempts {
					logger.Fatal("reconcile worker could not start, giving up")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

// scheduleReconcileTasks enqueues a reconcile task on a fixed interval.
func scheduleReconcileTasks(redisOpts asynq.RedisClientOpt) {
	client := asynq.NewClient(redisOpts)
	defer client.Close()

	ticker := time.NewTicker(reconcileInterval)
	defer ticker.Stop()

	for range ticker.C {
		task := asynq.NewTask(TypeKYCReconcile, nil)
		if _, err := client.Enqueue(task, asynq.MaxRetry(2)); err != nil {
			zap.L().Warn("failed to enqueue reconcile task", zap.Error(err))
		}
	}
}

func handleReconcileTask(kycSvc kyc.KYCService, records kycRepo.VerificationRecordRepository) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		logger := zap.L()

		cutoff := time.Now().Add(-staleAfter)
		stale, err := records.ListStalePending(ctx, cutoff)
		if err != nil {
			logger.Error("failed to list stale pending records", zap.Error(err))
			return err
		}
		if len(stale) == 0 {
			return nil
		}

		logger.Info("reconciling stale pending verifications", zap.Int("count", len(stale)))

		for _, rec := range stale {
			// GetStatus polls the provider and applies any change; a degraded
			// poll leaves the record as is, which is fine here.
			if _, err := kycSvc.GetStatus(ctx, rec.UserID); err != nil {
				logger.Warn("reconcile poll failed",
					zap.String("userID", rec.UserID),
					zap.String("externalID", rec.ExternalID),
					zap.Error(err))
			}
		}
		return nil
	}
}
