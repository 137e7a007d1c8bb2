// Package audit provides the default change log sink: structured log
// output. Deployments with a dedicated audit store swap in their own
// lease.ChangeLogSink.
package audit

import (
	"context"

	"go.uber.org/zap"

	"lease-service/internal/lease"
)

// ZapSink writes change log entries to the service log.
type ZapSink struct {
	log *zap.Logger
}

// NewZapSink returns a sink writing to the given logger.
func NewZapSink(log *zap.Logger) *ZapSink {
	return &ZapSink{log: log}
}

// Log records one audit entry.
func (s *ZapSink) Log(_ context.Context, entry lease.ChangeLogEntry) error {
	s.log.Info("lease change log",
		zap.String("action", entry.Action),
		zap.String("message", entry.Message),
		zap.Uint("beneficiary_id", entry.BeneficiaryID),
		zap.Uint("user_id", entry.UserID))
	return nil
}
