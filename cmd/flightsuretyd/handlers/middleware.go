package handlers

import (
	"context"
	"time"

	"github.com/flightsurety/smart-contract/internal/ledger"
	"github.com/flightsurety/smart-contract/internal/platform/logger"
	"github.com/flightsurety/smart-contract/internal/platform/metrics"
	"github.com/flightsurety/smart-contract/internal/platform/node"
	"github.com/flightsurety/smart-contract/pkg/inspector"
)

// RequestLogger logs each request with its sender and duration.
func RequestLogger(next node.Handler) node.Handler {
	return func(ctx context.Context, req *inspector.Request) (interface{}, error) {
		v := node.GetValues(ctx)

		result, err := next(ctx, req)
		if err != nil {
			logger.Warn(ctx, "%s : %s from %s failed : %s", v.TraceID, req.Action, req.Sender(),
				err)
		} else {
			logger.Verbose(ctx, "%s : %s from %s (%s)", v.TraceID, req.Action, req.Sender(),
				time.Since(v.Now))
		}

		return result, err
	}
}

// Counts updates the airline gauges after each request.
func Counts(l *ledger.Ledger, m *metrics.Metrics) node.Middleware {
	return func(next node.Handler) node.Handler {
		return func(ctx context.Context, req *inspector.Request) (interface{}, error) {
			result, err := next(ctx, req)
			m.SetCounts(l.GetAirlineCount(), l.GetParticipantCount())
			return result, err
		}
	}
}
