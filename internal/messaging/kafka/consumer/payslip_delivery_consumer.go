package consumer

import (
	"context"
	"encoding/json"
	"go-payroll/internal/events"
	"go-payroll/internal/payslip"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumePayslipDelivery applies delivery confirmations from the mail
// transport and employee portal onto the payslip status machine. The
// machine is forward-only, so duplicated or reordered confirmations
// commit cleanly without corrupting history.
func ConsumePayslipDelivery(
	ctx context.Context,
	reader *kafkago.Reader,
	payslipService payslip.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.payslip_delivery")
	log.Info("payslip delivery consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("payslip delivery consumer stopped")
				return
			}
			log.Error("fetch payslip delivery message failed", zap.Error(err))
			continue
		}

		var event events.PayslipDeliveryUpdatedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode payslip delivery event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if event.Status != "" {
			if _, err := payslipService.AdvanceStatus(ctx, event.PayslipID, event.Status); err != nil {
				log.Error("advance payslip status failed",
					zap.String("payslip_id", event.PayslipID),
					zap.String("status", event.Status),
					zap.Error(err),
				)
				continue
			}
		}

		if event.EmailStatus != "" {
			if _, err := payslipService.AdvanceEmailStatus(ctx, event.PayslipID, event.EmailStatus); err != nil {
				log.Error("advance payslip email status failed",
					zap.String("payslip_id", event.PayslipID),
					zap.String("email_status", event.EmailStatus),
					zap.Error(err),
				)
				continue
			}
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit payslip delivery message failed", zap.Error(err))
			continue
		}

		log.Info("payslip delivery update applied",
			zap.String("payslip_id", event.PayslipID),
			zap.String("channel", event.Channel),
		)
	}
}
