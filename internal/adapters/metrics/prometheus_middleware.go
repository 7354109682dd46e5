package metrics

import (
	"context"
	"fmt"
	"strings"

	"github.com/andrescamacho/supplychain-go/internal/application/mediator"
)

// PrometheusMiddleware observes every request sent through the mediator.
// A nil collector passes requests through untouched.
func PrometheusMiddleware(collector *CommandMetricsCollector) mediator.Middleware {
	return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		if collector == nil {
			return next(ctx, request)
		}
		done := collector.begin(requestName(request))
		response, err := next(ctx, request)
		done(err)
		return response, err
	}
}

// requestName drops pointer and package, so *commands.StepTickCommand becomes StepTickCommand
func requestName(request mediator.Request) string {
	if request == nil {
		return "unknown"
	}
	name := strings.TrimLeft(fmt.Sprintf("%T", request), "*")
	return name[strings.LastIndex(name, ".")+1:]
}
