package consumer

import (
	"context"
	"encoding/json"

	"go-hrms/internal/bootstrap"
	"go-hrms/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeLeaveDecisions turns leave decision events into audit log
// entries. Undecodable messages are committed and skipped.
func ConsumeLeaveDecisions(
	ctx context.Context,
	reader *kafkago.Reader,
	auditLogger bootstrap.AuditLogger,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.leave_decided")
	log.Info("leave decision consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("leave decision consumer stopped")
				return
			}
			log.Error("fetch leave decision message failed", zap.Error(err))
			continue
		}

		var event events.LeaveDecided
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode leave_decided event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		auditLogger.Log(ctx, bootstrap.AuditLog{
			Action:  "LEAVE_" + event.Status,
			Actor:   event.DecidedBy,
			Message: "leave request decided",
			Meta: map[string]any{
				"leave_id":       event.LeaveID,
				"user_id":        event.UserID,
				"leave_type":     event.LeaveType,
				"number_of_days": event.NumberOfDays,
				"decided_at":     event.DecidedAt,
			},
		})

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit leave decision message failed", zap.Error(err))
			continue
		}

		log.Info("leave decision audited",
			zap.String("leave_id", event.LeaveID),
			zap.String("status", event.Status),
		)
	}
}
