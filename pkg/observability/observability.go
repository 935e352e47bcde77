// Package observability provides pluggable error reporting for veldt
// worlds.
//
// The system manager captures lifecycle failures into ErrorReports; this
// package forwards them to an error tracking backend. Two reporters ship
// with the package: ConsoleReporter for development and SentryReporter for
// production. Custom backends implement ErrorReporter.
//
//	reporter, err := observability.NewSentryReporter(os.Getenv("SENTRY_DSN"),
//	    observability.WithEnvironment("production"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	observability.SetErrorReporter(reporter)
//	defer reporter.Flush(5 * time.Second)
//
//	world.Systems.AddErrorSink(observability.SystemSink(reporter))
package observability

import (
	"os"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/rs/zerolog"

	"veldt/pkg/ecs"
)

// ErrorContext carries the context attached to a reported error.
type ErrorContext struct {
	// System is the type name of the offending system, if any.
	System string
	// Phase is the lifecycle phase the error occurred in, if any.
	Phase string
}

// ErrorReporter is the interface error tracking backends implement.
type ErrorReporter interface {
	// ReportError sends one error with its context.
	ReportError(err error, ctx ErrorContext)
	// Flush waits until buffered reports are delivered or the timeout
	// elapses. Returns whether everything was delivered.
	Flush(timeout time.Duration) bool
}

var (
	reporterMu     sync.RWMutex
	globalReporter ErrorReporter
)

// SetErrorReporter installs the global reporter.
func SetErrorReporter(r ErrorReporter) {
	reporterMu.Lock()
	defer reporterMu.Unlock()
	globalReporter = r
}

// GetErrorReporter returns the global reporter, or nil if none is set.
func GetErrorReporter() ErrorReporter {
	reporterMu.RLock()
	defer reporterMu.RUnlock()
	return globalReporter
}

// SystemSink adapts a reporter into an error sink for
// ecs.SystemManager.AddErrorSink.
func SystemSink(r ErrorReporter) func(ecs.ErrorReport) {
	return func(report ecs.ErrorReport) {
		r.ReportError(report.Err, ErrorContext{
			System: report.Key.String(),
			Phase:  report.Phase.String(),
		})
	}
}

// ==============================================
// Console Reporter
// ==============================================

// ConsoleReporter logs errors to stderr, for development.
type ConsoleReporter struct {
	log zerolog.Logger
}

// NewConsoleReporter creates a console reporter. Set verbose to add a
// timestamp to each entry; reports are logged at error level either way.
func NewConsoleReporter(verbose bool) *ConsoleReporter {
	logger := zerolog.New(os.Stderr)
	if verbose {
		logger = logger.With().Timestamp().Logger()
	}
	return &ConsoleReporter{log: logger}
}

// ReportError implements ErrorReporter.
func (c *ConsoleReporter) ReportError(err error, ctx ErrorContext) {
	c.log.Error().
		Str("system", ctx.System).
		Str("phase", ctx.Phase).
		Err(err).
		Msg("system error")
}

// Flush implements ErrorReporter. Console output is unbuffered.
func (c *ConsoleReporter) Flush(_ time.Duration) bool { return true }

// ==============================================
// Sentry Reporter
// ==============================================

// SentryReporter sends errors to Sentry, for production monitoring. Each
// reporter owns its own hub, so multiple worlds can report independently.
type SentryReporter struct {
	hub *sentry.Hub
}

// SentryOption configures the Sentry client.
type SentryOption func(*sentry.ClientOptions)

// WithEnvironment sets the Sentry environment tag.
func WithEnvironment(environment string) SentryOption {
	return func(o *sentry.ClientOptions) { o.Environment = environment }
}

// WithRelease sets the Sentry release version.
func WithRelease(release string) SentryOption {
	return func(o *sentry.ClientOptions) { o.Release = release }
}

// WithDebug enables Sentry debug mode.
func WithDebug() SentryOption {
	return func(o *sentry.ClientOptions) { o.Debug = true }
}

// WithBeforeSend sets a callback to modify events before sending.
func WithBeforeSend(fn func(*sentry.Event, *sentry.EventHint) *sentry.Event) SentryOption {
	return func(o *sentry.ClientOptions) { o.BeforeSend = fn }
}

// NewSentryReporter creates a reporter for the given DSN. An empty DSN
// yields a disabled client, which is convenient in development.
func NewSentryReporter(dsn string, opts ...SentryOption) (*SentryReporter, error) {
	options := sentry.ClientOptions{Dsn: dsn}
	for _, opt := range opts {
		opt(&options)
	}
	client, err := sentry.NewClient(options)
	if err != nil {
		return nil, err
	}
	return &SentryReporter{hub: sentry.NewHub(client, sentry.NewScope())}, nil
}

// ReportError implements ErrorReporter.
func (s *SentryReporter) ReportError(err error, ctx ErrorContext) {
	s.hub.WithScope(func(scope *sentry.Scope) {
		if ctx.System != "" {
			scope.SetTag("system", ctx.System)
		}
		if ctx.Phase != "" {
			scope.SetTag("phase", ctx.Phase)
		}
		s.hub.CaptureException(err)
	})
}

// Flush implements ErrorReporter.
func (s *SentryReporter) Flush(timeout time.Duration) bool {
	return s.hub.Client().Flush(timeout)
}
