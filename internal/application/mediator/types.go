package mediator

import "context"

// Request is any command or query value. Handlers are looked up by its
// dynamic type, so requests are usually sent as pointers.
type Request interface{}

// Response is whatever the handler returns
type Response interface{}

// RequestHandler serves one request type
type RequestHandler interface {
	Handle(ctx context.Context, request Request) (Response, error)
}

// HandlerFunc adapts a function to RequestHandler
type HandlerFunc func(ctx context.Context, request Request) (Response, error)

func (f HandlerFunc) Handle(ctx context.Context, request Request) (Response, error) {
	return f(ctx, request)
}

// Middleware runs around a handler and decides whether to call next
type Middleware func(ctx context.Context, request Request, next HandlerFunc) (Response, error)
