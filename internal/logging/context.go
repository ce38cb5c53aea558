package logging

import (
	"context"
	"maps"
)

type contextKey string

const contextFieldsKey contextKey = "academy.logging.fields"

// ContextWithFields returns a context carrying structured logging fields.
// Fields already present on the context are kept; new values override them.
func ContextWithFields(ctx context.Context, fields map[string]any) context.Context {
	if ctx == nil || len(fields) == 0 {
		return ctx
	}
	existing := ContextFields(ctx)
	merged := make(map[string]any, len(existing)+len(fields))
	maps.Copy(merged, existing)
	maps.Copy(merged, fields)
	return context.WithValue(ctx, contextFieldsKey, merged)
}

// ContextFields extracts logging fields previously attached to ctx. The
// returned map is a copy.
func ContextFields(ctx context.Context) map[string]any {
	if ctx == nil {
		return nil
	}
	fields, ok := ctx.Value(contextFieldsKey).(map[string]any)
	if !ok || len(fields) == 0 {
		return nil
	}
	return maps.Clone(fields)
}

// RequestFields returns the fields attached to request scoped loggers.
func RequestFields(requestID, method, path string) map[string]any {
	fields := map[string]any{}
	if requestID != "" {
		fields["request_id"] = requestID
	}
	if method != "" {
		fields["method"] = method
	}
	if path != "" {
		fields["path"] = path
	}
	return fields
}
