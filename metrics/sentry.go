// Package metrics captures unexpected (non-predictable) failures for
// observability, using getsentry/sentry-go for process-level fault
// reporting. Reporting is opt-in: Init is a no-op unless SENTRY_DSN is
// set, so nothing in this package is required to run the server.
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
)

// Reporter captures unexpected faults encountered while serving tool
// calls or exporting MIDI. The predictable, typed errors in package errs
// are never reported here — only panics, fatal transport faults and
// filesystem faults that mean something is actually broken.
type Reporter struct {
	enabled bool
}

// Init configures the global Sentry client if dsn is non-empty, and
// returns a Reporter wired to it. An empty dsn yields a Reporter whose
// methods are all no-ops.
func Init(dsn string) (*Reporter, error) {
	if dsn == "" {
		return &Reporter{enabled: false}, nil
	}
	if err := sentry.Init(sentry.ClientOptions{Dsn: dsn}); err != nil {
		return nil, err
	}
	return &Reporter{enabled: true}, nil
}

// CapturePanic reports a recovered panic from the dispatch boundary,
// tagging it with the tool name that was executing.
func (r *Reporter) CapturePanic(tool string, recovered any) {
	if !r.enabled {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("tool", tool)
		sentry.CaptureException(fmt.Errorf("panic in tool %q: %v", tool, recovered))
	})
}

// CaptureFatal reports a fatal, process-ending fault such as a transport
// framing error, tagging it with the subsystem that raised it.
func (r *Reporter) CaptureFatal(subsystem string, err error) {
	if !r.enabled {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("subsystem", subsystem)
		sentry.CaptureException(err)
	})
}

// CaptureExportFailure reports a filesystem fault encountered while
// writing a MIDI export.
func (r *Reporter) CaptureExportFailure(path string, err error) {
	if !r.enabled {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("export_path", path)
		sentry.CaptureException(err)
	})
}

// RecordDispatchDuration records how long a tool call took as a Sentry
// span, so slow tool calls show up in the same trace view this corpus
// already uses for LLM generation latency.
func (r *Reporter) RecordDispatchDuration(tool string, d time.Duration, success bool) {
	if !r.enabled {
		return
	}
	span := sentry.StartSpan(context.Background(), "dispatch.tool_call")
	defer span.Finish()
	span.SetTag("tool", tool)
	span.SetTag("success", fmt.Sprintf("%t", success))
	span.SetData("duration_ms", d.Milliseconds())
	if success {
		span.Status = sentry.SpanStatusOK
	} else {
		span.Status = sentry.SpanStatusInternalError
	}
}

// Flush blocks until buffered events are sent or timeout elapses, for use
// at process shutdown.
func (r *Reporter) Flush(timeout time.Duration) {
	if !r.enabled {
		return
	}
	sentry.Flush(timeout)
}
