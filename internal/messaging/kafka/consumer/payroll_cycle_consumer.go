package consumer

import (
	"context"
	"encoding/json"

	"go-hrms/internal/bootstrap"
	"go-hrms/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumePayrollCycle audits payroll lifecycle events so every
// generated, approved and paid record leaves a trace.
func ConsumePayrollCycle(
	ctx context.Context,
	reader *kafkago.Reader,
	auditLogger bootstrap.AuditLogger,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.payroll_cycle")
	log.Info("payroll cycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("payroll cycle consumer stopped")
				return
			}
			log.Error("fetch payroll cycle message failed", zap.Error(err))
			continue
		}

		var event events.PayrollCycle
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode payroll_cycle event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		auditLogger.Log(ctx, bootstrap.AuditLog{
			Action:  "PAYROLL_" + event.Action,
			Message: "payroll lifecycle event",
			Meta: map[string]any{
				"payroll_id":  event.PayrollID,
				"user_id":     event.UserID,
				"month":       event.Month,
				"year":        event.Year,
				"net_salary":  event.NetSalary,
				"occurred_at": event.OccurredAt,
			},
		})

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit payroll cycle message failed", zap.Error(err))
			continue
		}

		log.Info("payroll cycle audited",
			zap.String("payroll_id", event.PayrollID),
			zap.String("action", event.Action),
		)
	}
}
