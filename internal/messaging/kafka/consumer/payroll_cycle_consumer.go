package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"kazini-payroll/internal/events"
	"kazini-payroll/internal/messaging/kafka"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ReportGenerator is satisfied by payrollcycle.Service.
type ReportGenerator interface {
	GenerateReport(ctx context.Context, companyID, cycleID string) (string, error)
}

// CycleDisbursedHandler renders and stores the report of every disbursed cycle.
// Other events on the cycle topic are acknowledged and ignored.
func CycleDisbursedHandler(reports ReportGenerator, logger *zap.Logger) HandlerFunc {
	log := logger.Named("kafka.consumer.payroll_cycle")
	return func(ctx context.Context, msg kafkago.Message) error {
		if kafka.Header(msg, kafka.HeaderEventType) != events.PayrollCycleDisbursed {
			return nil
		}

		var event events.PayrollCycleDisbursedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			return fmt.Errorf("%w: decode %s: %v", ErrPoison, events.PayrollCycleDisbursed, err)
		}
		if event.CycleID == "" || event.CompanyID == "" {
			return fmt.Errorf("%w: %s without cycle or company", ErrPoison, events.PayrollCycleDisbursed)
		}

		url, err := reports.GenerateReport(ctx, event.CompanyID, event.CycleID)
		if err != nil {
			return err
		}

		log.Info("payroll cycle report generated",
			zap.String("cycle_id", event.CycleID),
			zap.String("company_id", event.CompanyID),
			zap.String("report_url", url),
		)
		return nil
	}
}

func ConsumePayrollCycleDisbursed(ctx context.Context, reader MessageReader, reports ReportGenerator, logger *zap.Logger, opts ...Option) {
	Run(ctx, "payroll_cycle", reader, CycleDisbursedHandler(reports, logger), logger, opts...)
}
