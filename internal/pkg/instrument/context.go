package instrument

import "context"

type correlationIDKey struct{}

// SetCorrelationID stores the correlation ID used to stitch logs together
// across HTTP requests, consumed messages and background deliveries.
func SetCorrelationID(ctx context.Context, cID string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, cID)
}

// GetCorrelationID returns the correlation ID from ctx or an empty string.
func GetCorrelationID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	cID, _ := ctx.Value(correlationIDKey{}).(string)
	return cID
}

// Detach returns a context that survives cancellation of ctx but keeps its
// correlation ID. Work handed to background workers uses it.
func Detach(ctx context.Context) context.Context {
	return context.WithoutCancel(ctx)
}
