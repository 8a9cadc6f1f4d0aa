// Package temporal dials the Temporal frontend with tracing and structured logging.
package temporal

import (
	"log/slog"

	"go.opentelemetry.io/otel/trace"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
)

// DialOptions selects the Temporal frontend.
type DialOptions struct {
	Address   string
	Namespace string
	Tracer    trace.Tracer
	Logger    *slog.Logger
}

// ClientOptions builds SDK options carrying the OpenTelemetry tracing interceptor.
func ClientOptions(opts DialOptions) (client.Options, error) {
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(temporalotel.TracerOptions{Tracer: opts.Tracer})
	if err != nil {
		return client.Options{}, err
	}
	address := opts.Address
	if address == "" {
		address = client.DefaultHostPort
	}
	namespace := opts.Namespace
	if namespace == "" {
		namespace = client.DefaultNamespace
	}
	options := client.Options{HostPort: address, Namespace: namespace}
	if opts.Logger != nil {
		options.Logger = workerlog.NewStructuredLogger(opts.Logger)
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return options, nil
}

// Dial connects a client using ClientOptions.
func Dial(opts DialOptions) (client.Client, error) {
	options, err := ClientOptions(opts)
	if err != nil {
		return nil, err
	}
	return client.Dial(options)
}
