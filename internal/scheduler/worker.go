package scheduler

import (
	"context"
	"fmt"

	"checkout_backend/platform/apperr"
	"checkout_backend/platform/config"
	"checkout_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// PurchaseRecorder writes a purchase outcome to the ledger.
type PurchaseRecorder interface {
	RecordPurchase(ctx context.Context, payload RecordPurchasePayload) error
}

type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, recorder PurchaseRecorder, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			log.Error("scheduler task failed", "task", task.Type(), "error", err)
		}),
	})

	w := &Worker{
		server: server,
		mux:    newMux(recorder),
		log:    log,
	}
	return w, nil
}

func newMux(recorder PurchaseRecorder) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskRecordPurchase, recordPurchaseHandler(recorder))
	return mux
}

func recordPurchaseHandler(recorder PurchaseRecorder) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		payload, err := ParseRecordPurchasePayload(task)
		if err != nil {
			return err
		}
		err = recorder.RecordPurchase(ctx, payload)
		if apperr.GetKind(err) == apperr.KindValidation {
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		return err
	}
}

// Run processes tasks until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	if w == nil || w.server == nil {
		return nil
	}

	if err := w.server.Start(w.mux); err != nil {
		return fmt.Errorf("start scheduler worker: %w", err)
	}
	w.log.Info("scheduler worker started")

	<-ctx.Done()
	w.server.Shutdown()
	w.log.Info("scheduler worker stopped")
	return nil
}
