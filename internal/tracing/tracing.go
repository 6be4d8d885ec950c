// Package tracing sets up OpenTelemetry for the CLI.
package tracing

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	oerrors "github.com/opmodel/modkit/internal/errors"
)

const (
	ExporterNone   = "none"
	ExporterStdout = "stdout"

	defaultServiceName = "modkit"
)

// ValidExporters lists the accepted exporter names.
func ValidExporters() []string {
	return []string{ExporterNone, ExporterStdout}
}

// Config selects the exporter.
type Config struct {
	// Exporter is "none" (default) or "stdout".
	Exporter string

	// ServiceName identifies the process in exported spans.
	ServiceName string

	// Writer receives stdout spans. Defaults to os.Stderr so span dumps never
	// mix with command output.
	Writer io.Writer
}

// Provider owns the tracer provider for the lifetime of a command.
type Provider struct {
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
}

// NewProvider builds a provider and installs it globally. With the "none"
// exporter the global provider is left as is and a no-op tracer is returned.
func NewProvider(cfg Config) (*Provider, error) {
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = defaultServiceName
	}

	var exporter sdktrace.SpanExporter
	switch cfg.Exporter {
	case ExporterNone, "":
		return &Provider{tracer: noop.NewTracerProvider().Tracer(serviceName)}, nil
	case ExporterStdout:
		w := cfg.Writer
		if w == nil {
			w = os.Stderr
		}
		var err error
		exporter, err = stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("create stdout exporter: %w", err)
		}
	default:
		return nil, oerrors.NewInvalidArgumentError(
			fmt.Sprintf("unsupported trace exporter %q", cfg.Exporter), "tracing.exporter", ValidExporters())
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", serviceName))),
		// Spans are written as they end.
		sdktrace.WithSyncer(exporter),
	)
	otel.SetTracerProvider(provider)

	return &Provider{provider: provider, tracer: provider.Tracer(serviceName)}, nil
}

// Tracer returns the tracer. It is a no-op tracer when tracing is off.
func (p *Provider) Tracer() trace.Tracer {
	return p.tracer
}

// Enabled reports whether spans are exported.
func (p *Provider) Enabled() bool {
	return p.provider != nil
}

// Shutdown flushes and stops the provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.provider == nil {
		return nil
	}
	return p.provider.Shutdown(ctx)
}
