// Package logging writes kernz pipeline events to a zap logger.
//
// The pipeline never logs on its own; Attach subscribes to its stage and run events
// instead, so logging stays outside the execution path.
package logging

import (
	"context"

	"go.uber.org/zap"

	"github.com/zoobzio/kernz"
)

// Attach logs every stage completion at debug level, successful runs at info level
// and failed runs at warn level. A nil logger is replaced by zap.NewNop.
func Attach(pipeline *kernz.Pipeline, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(
		zap.String("pipeline", pipeline.Identity().Name()),
		zap.Stringer("pipeline_id", pipeline.Identity().ID()),
	)

	if err := pipeline.OnStageComplete(func(_ context.Context, event kernz.PipelineEvent) error {
		fields := []zap.Field{
			zap.String("stage", event.StageName),
			zap.Int("stage_number", event.StageNumber),
			zap.Int("total_stages", event.TotalStages),
			zap.Duration("duration", event.Duration),
			zap.Bool("success", event.Success),
		}
		if event.Error != nil {
			fields = append(fields, zap.Error(event.Error))
		}
		logger.Debug("stage complete", fields...)
		return nil
	}); err != nil {
		return err
	}

	return pipeline.OnRunComplete(func(_ context.Context, event kernz.PipelineEvent) error {
		fields := []zap.Field{
			zap.Int("completed_stages", event.CompletedStages),
			zap.Int("total_stages", event.TotalStages),
			zap.Duration("duration", event.TotalDuration),
		}
		if event.Success {
			logger.Info("run succeeded", fields...)
			return nil
		}
		logger.Warn("run failed", append(fields, zap.Error(event.Error))...)
		return nil
	})
}
