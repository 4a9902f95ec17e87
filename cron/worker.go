package cron

import (
	"context"
	"log"
	"time"

	"tourly/config"
	"tourly/services/payment"

	"github.com/hibiken/asynq"
)

const TypePaymentSweep = "payment:sweep"

// Payments unsettled for longer than this get swept: stuck redirects are
// re-resolved against the provider, stale captures expire to failed.
const stuckAfter = 10 * time.Minute

// InitPaymentSweepWorker runs the async worker and its periodic scheduler in
// the background. The sweep catches redirect payments whose client never
// came back to trigger resolution, and direct captures whose outcome was
// never confirmed.
func InitPaymentSweepWorker(reconciler *payment.StatusReconciler) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisSweepDB,
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
	mux.HandleFunc(TypePaymentSweep, handleSweepTask(reconciler))

	go func() {
		log.Println("[PaymentSweep] Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[PaymentSweep] Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[PaymentSweep] Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()

	scheduler := asynq.NewScheduler(redisOpts, nil)
	if _, err := scheduler.Register("@every 5m", asynq.NewTask(TypePaymentSweep, nil)); err != nil {
		log.Printf("[PaymentSweep] Failed to register sweep schedule: %v", err)
		return
	}

	go func() {
		if err := scheduler.Run(); err != nil {
			log.Printf("[PaymentSweep] Scheduler stopped: %v", err)
		}
	}()
}

func handleSweepTask(reconciler *payment.StatusReconciler) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := reconciler.Sweep(time.Now().Add(-stuckAfter), 100); err != nil {
			log.Printf("[PaymentSweep] Sweep failed: %v", err)
			return err
		}
		return nil
	}
}
