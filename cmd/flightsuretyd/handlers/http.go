package handlers

import (
	"net/http"
	"time"

	"github.com/flightsurety/smart-contract/internal/access"
	"github.com/flightsurety/smart-contract/internal/airline"
	"github.com/flightsurety/smart-contract/internal/app"
	"github.com/flightsurety/smart-contract/internal/ledger"
	"github.com/flightsurety/smart-contract/internal/platform/db"
	"github.com/flightsurety/smart-contract/internal/platform/logger"
	"github.com/flightsurety/smart-contract/internal/platform/metrics"
	"github.com/flightsurety/smart-contract/internal/platform/node"
	"github.com/flightsurety/smart-contract/internal/platform/protomux"
	"github.com/flightsurety/smart-contract/pkg/inspector"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opencensus.io/trace"
)

// NewRouter returns the HTTP routes. Signed requests are verified and then triggered on
// the api.
func NewRouter(api protomux.Handler, masterDB *db.DB, config *node.Config,
	m *metrics.Metrics) *gin.Engine {

	r := gin.New()
	r.Use(gin.Recovery())

	r.POST("/v1/requests", func(c *gin.Context) {
		start := time.Now()

		ctx, span := trace.StartSpan(c.Request.Context(), "handlers.Request")
		defer span.End()
		traceID := span.SpanContext().TraceID.String()

		var req inspector.Request
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, m, "unknown", traceID, start, errors.Wrap(inspector.ErrDecodeFail, err.Error()))
			return
		}

		if err := req.Verify(ctx, time.Now(), config.RequestTimeout); err != nil {
			logger.Warn(ctx, "%s : Rejected request %s : %s", traceID, req.Action, err)
			respondError(c, m, req.Action, traceID, start, err)
			return
		}

		result, err := api.Trigger(ctx, &req)
		if err != nil {
			respondError(c, m, req.Action, traceID, start, err)
			return
		}

		if m != nil {
			m.Observe(req.Action, metrics.OutcomeSuccess, start)
		}
		c.JSON(http.StatusOK, Response{
			Action:  req.Action,
			TraceID: traceID,
			Result:  result,
		})
	})

	r.GET("/healthz", func(c *gin.Context) {
		if err := masterDB.StatusCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if m != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})))
	}

	return r
}

func respondError(c *gin.Context, m *metrics.Metrics, action, traceID string, start time.Time,
	err error) {

	status := StatusCode(err)
	if m != nil {
		outcome := metrics.OutcomeRejected
		if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
			outcome = metrics.OutcomeError
		}
		m.Observe(action, outcome, start)
	}

	c.JSON(status, Response{
		TraceID: traceID,
		Error:   err.Error(),
	})
}

// StatusCode maps an error to the HTTP status returned for it.
func StatusCode(err error) int {
	if access.IsPermissionDenied(err) {
		return http.StatusForbidden
	}

	switch errors.Cause(err) {
	case ledger.ErrNotOperational:
		return http.StatusServiceUnavailable
	case protomux.ErrUnknownAction:
		return http.StatusNotFound
	case inspector.ErrDecodeFail, inspector.ErrBadSignature, inspector.ErrStale,
		inspector.ErrMissingAction, airline.ErrInvalidName, airline.ErrInvalidAmount,
		ledger.ErrInvalidAddress, app.ErrNameMismatch:
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}
