package protomux

import (
	"context"
	"sort"

	"github.com/flightsurety/smart-contract/pkg/inspector"

	"github.com/pkg/errors"
)

var (
	// ErrUnknownAction occurs when no handler is registered for a request's action.
	ErrUnknownAction = errors.New("Unknown action")
)

// Handler is the interface for this Protocol Mux
type Handler interface {
	Trigger(context.Context, *inspector.Request) (interface{}, error)
	Actions() []string
}

// A HandlerFunc handles a verified request and returns the result for the caller.
type HandlerFunc func(ctx context.Context, req *inspector.Request) (interface{}, error)

type ProtoMux struct {
	Handlers       map[string][]HandlerFunc
	DefaultHandler HandlerFunc
}

func New() *ProtoMux {
	pm := &ProtoMux{
		Handlers: make(map[string][]HandlerFunc),
	}

	return pm
}

// Handle registers a new handler
func (p *ProtoMux) Handle(action string, handler HandlerFunc) {
	p.Handlers[action] = append(p.Handlers[action], handler)
}

// HandleDefault registers the handler used for actions without a registered handler.
func (p *ProtoMux) HandleDefault(handler HandlerFunc) {
	p.DefaultHandler = handler
}

// Trigger fires the handlers for the request's action. The result of the last handler is
// returned.
func (p *ProtoMux) Trigger(ctx context.Context, req *inspector.Request) (interface{}, error) {
	handlers, exists := p.Handlers[req.Action]
	if !exists {
		if p.DefaultHandler == nil {
			return nil, errors.Wrap(ErrUnknownAction, req.Action)
		}
		handlers = []HandlerFunc{p.DefaultHandler}
	}

	// Notify the handlers
	var result interface{}
	for _, handler := range handlers {
		var err error
		result, err = handler(ctx, req)
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}

// Actions returns the sorted names of the registered actions.
func (p *ProtoMux) Actions() []string {
	result := make([]string, 0, len(p.Handlers))
	for action := range p.Handlers {
		result = append(result, action)
	}
	sort.Strings(result)
	return result
}
