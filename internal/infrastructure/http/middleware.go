package httpserver

import (
	"net/http"
	"time"

	"fxconvert-service/internal/infrastructure/logx"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	headerRequestID = "X-Request-ID"
	headerTraceID   = "X-Trace-Id"
)

// requestScope echoes or mints the request and trace IDs and attaches them to
// the request logger.
func requestScope(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := headerOrNew(r, headerRequestID)
		tid := headerOrNew(r, headerTraceID)
		w.Header().Set(headerRequestID, rid)
		w.Header().Set(headerTraceID, tid)
		ctx := logx.WithContext(r.Context(), zap.String("request_id", rid), zap.String("trace_id", tid))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func headerOrNew(r *http.Request, name string) string {
	if v := r.Header.Get(name); v != "" {
		return v
	}
	return uuid.NewString()
}

// recoverJSON turns a handler panic into the JSON 500 envelope.
func recoverJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logx.WithFields(r.Context()).Error("http.panic", zap.Any("error", rec))
				internalError(w)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		logx.WithFields(r.Context()).Info("http.request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
