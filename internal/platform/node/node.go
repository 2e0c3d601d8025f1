package node

import (
	"context"
	"time"

	"github.com/flightsurety/smart-contract/internal/platform/logger"
	"github.com/flightsurety/smart-contract/internal/platform/protomux"
	"github.com/flightsurety/smart-contract/pkg/inspector"

	"github.com/shopspring/decimal"
	"go.opencensus.io/trace"
)

// ctxKey represents the type of value for the context key.
type ctxKey int

// KeyValues is how request values or stored/retrieved.
const KeyValues ctxKey = 1

// Values represent state for each request.
type Values struct {
	TraceID string
	Now     time.Time
}

// Node configuration
type Config struct {
	FundingThreshold  decimal.Decimal
	MultipartyMinimum int
	ConsensusPercent  int
	RequestTimeout    time.Duration
}

// A Handler is a type that handles a request within our own little mini framework.
type Handler func(ctx context.Context, req *inspector.Request) (interface{}, error)

// Middleware wraps a Handler to run code before and after it.
type Middleware func(Handler) Handler

// App is the entrypoint into our application and what configures our context
// object for each of our handlers.
type App struct {
	mux *protomux.ProtoMux
	mw  []Middleware
}

// New creates an App value that handle a set of actions for the application.
func New(mw ...Middleware) *App {
	return &App{
		mux: protomux.New(),
		mw:  mw,
	}
}

// Handle is our mechanism for mounting Handlers for a given action
// this makes for really easy, convenient request handling.
func (a *App) Handle(action string, handler Handler, mw ...Middleware) {

	// Wrap up the application-wide first, this will call the first function
	// of each middleware which will return a function of type Handler.
	handler = wrapMiddleware(wrapMiddleware(handler, mw), a.mw)

	// The function to execute for each request.
	h := func(ctx context.Context, req *inspector.Request) (interface{}, error) {

		// Start trace span.
		ctx, span := trace.StartSpan(ctx, "internal.platform.node")
		defer span.End()

		// Set the context with the required values to
		// process the request.
		ctx = ContextWithValues(ctx, span.SpanContext().TraceID.String(), time.Now())

		// Call the wrapped handler functions.
		return handler(ctx, req)
	}

	// Add this handler for the specified action.
	a.mux.Handle(action, h)
}

// Trigger runs the handlers registered for the request's action.
func (a *App) Trigger(ctx context.Context, req *inspector.Request) (interface{}, error) {
	return a.mux.Trigger(ctx, req)
}

// Actions returns the registered action names.
func (a *App) Actions() []string {
	return a.mux.Actions()
}

// ContextWithValues returns a context carrying request values and the trace ID for
// logging.
func ContextWithValues(ctx context.Context, traceID string, now time.Time) context.Context {
	v := Values{
		TraceID: traceID,
		Now:     now,
	}
	ctx = context.WithValue(ctx, KeyValues, &v)
	return logger.ContextWithTraceID(ctx, traceID)
}

// GetValues returns the request values from the context, or zero values.
func GetValues(ctx context.Context) *Values {
	v, ok := ctx.Value(KeyValues).(*Values)
	if !ok {
		return &Values{Now: time.Now()}
	}
	return v
}

// wrapMiddleware creates a new handler by wrapping middleware around a final
// handler. The middlewares' Handlers will be executed by requests in the order
// they are provided.
func wrapMiddleware(handler Handler, mw []Middleware) Handler {

	// Loop backwards through the middleware invoking each one. Replace the
	// handler with the new wrapped handler. Looping backwards ensures that the
	// first middleware of the slice is the first to be executed by requests.
	for i := len(mw) - 1; i >= 0; i-- {
		h := mw[i]
		if h != nil {
			handler = h(handler)
		}
	}

	return handler
}
