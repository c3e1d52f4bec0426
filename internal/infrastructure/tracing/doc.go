/*
Package tracing provides lightweight request tracing backed by structured logs.

Spans carry a trace id that is propagated through X-Trace-ID and X-Span-ID
headers. Finished spans are buffered and logged by a collector goroutine, so
tracing never blocks a request. Span and trace ids are prefixed ULIDs.

# Usage

	tracer := tracing.New("retrodesk", logger.Logger)
	defer tracer.Close()

	router.Use(tracing.HTTPMiddleware(tracer))

	span, ctx := tracer.StartSpan(ctx, "paint.connection")
	defer func() {
		span.Finish()
		tracer.Submit(span)
	}()
*/
package tracing
