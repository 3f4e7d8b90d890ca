package contextutils

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// RequestIDHeader carries the id of a request, a client provided value is kept
const RequestIDHeader = "X-Request-Id"

// contextKey is the wrapper we use for the names of the keys we store in Contexts
type contextKey struct {
	name string
}

var contextKeyRequestID = &contextKey{"requestId"}

// WithContextRequestID adds the request id to the context
func WithContextRequestID(ctx context.Context, requestID string) context.Context {
	return withContextKeyVal(ctx, contextKeyRequestID, requestID)
}

func withContextKeyVal(ctx context.Context, key *contextKey, val string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, key, val)
}

// GetContextRequestID returns the request id stored in the context, empty when there's none
func GetContextRequestID(ctx context.Context) string {
	return getContextKey(ctx, contextKeyRequestID)
}

func getContextKey(ctx context.Context, key *contextKey) string {
	if ctx == nil {
		return ""
	}
	val, _ := ctx.Value(key).(string)
	return val
}

// NewRequestIDHandler assigns an id to every request and echoes it in the response headers
func NewRequestIDHandler(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, requestID)
		handler.ServeHTTP(w, r.WithContext(WithContextRequestID(r.Context(), requestID)))
	})
}
