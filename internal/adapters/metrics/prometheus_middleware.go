package metrics

import (
	"context"
	"reflect"
	"strings"
	"time"

	"github.com/andrescamacho/farmsim-go/internal/application/mediator"
)

// PrometheusMiddleware records the duration and outcome of every request
// sent through the mediator. Request names drop their package prefix, so
// "*commands.ExecuteDecisionCommand" is recorded as "ExecuteDecisionCommand".
func PrometheusMiddleware(collector *CommandMetricsCollector) mediator.Middleware {
	return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		if collector == nil {
			return next(ctx, request)
		}

		commandName := extractCommandName(request)
		start := time.Now()

		response, err := next(ctx, request)

		collector.RecordCommandExecution(commandName, time.Since(start).Seconds(), err == nil)
		return response, err
	}
}

func extractCommandName(request mediator.Request) string {
	if request == nil {
		return "UnknownCommand"
	}

	fullName := strings.TrimPrefix(reflect.TypeOf(request).String(), "*")
	if i := strings.LastIndex(fullName, "."); i >= 0 {
		return fullName[i+1:]
	}
	return fullName
}
