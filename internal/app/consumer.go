package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go-hrms/internal/bootstrap"
	"go-hrms/internal/events"
	"go-hrms/internal/messaging/kafka/consumer"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

func RunConsumer() error {
	logger := zap.L().Named("app.consumer")

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	auditLogger := bootstrap.NewStdoutAuditLogger()

	leaveReader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{kafkaBroker},
		Topic:          events.TopicLeaveDecided,
		GroupID:        "go-hrms-audit",
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer leaveReader.Close()

	payrollReader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{kafkaBroker},
		Topic:          events.TopicPayrollCycle,
		GroupID:        "go-hrms-audit",
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer payrollReader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.ConsumeLeaveDecisions(ctx, leaveReader, auditLogger, logger)
	go consumer.ConsumePayrollCycle(ctx, payrollReader, auditLogger, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
