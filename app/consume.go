package app

import (
	"context"
	"errors"
	"fmt"

	"storyreel/kafka"
	"storyreel/types"
)

// Runner executes one pipeline run
type Runner interface {
	Run(ctx context.Context, req types.RunRequest) (types.RunSummary, error)
}

// RunRequestHandler runs the orchestrator once per RunRequest message. Failed
// runs are logged and their messages marked; only cancellation leaves a
// message unmarked.
func (a *App) RunRequestHandler(r Runner) *kafka.TypedMessageHandler[types.RunRequest] {
	return &kafka.TypedMessageHandler[types.RunRequest]{
		Validate: func(req *types.RunRequest) bool {
			if req.Count < 0 {
				a.log.Warn("dropping run request with negative count", "run", req.ID)
				return false
			}
			return true
		},
		Process: func(ctx context.Context, req *types.RunRequest) error {
			a.log.Info("run requested", "run", req.ID, "category", req.Category)
			sum, err := r.Run(ctx, *req)
			switch {
			case err == nil:
				return nil
			case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
				return err
			default:
				a.log.Error("requested run failed", "run", sum.RunID, "error", err)
				return nil
			}
		},
		AlwaysMark: true,
		Logger:     a.log,
	}
}

// ConsumeRuns consumes run requests until ctx is done
func (a *App) ConsumeRuns(ctx context.Context) error {
	c, err := kafka.NewConsumer(kafka.ConsumerConfig{
		Brokers: a.Config.KafkaBrokers,
		Topic:   a.Config.KafkaTopicRunRequests,
		GroupID: a.Config.KafkaConsumerGroupID,
		Handler: a.RunRequestHandler(a.Orchestrator),
		Logger:  a.log,
	})
	if err != nil {
		return fmt.Errorf("kafka consumer: %w", err)
	}
	defer c.Close()

	if err := c.Start(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	<-ctx.Done()
	return nil
}
