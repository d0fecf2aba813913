package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContextTraceIDKey stores the per-request trace id in the Gin context.
const ContextTraceIDKey = "trace_id"

// Trace assigns every request a trace id, honoring one supplied by the
// caller, and echoes it back so log lines can be correlated.
func Trace() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		traceID := ctx.GetHeader("X-Trace-ID")
		if traceID == "" {
			traceID = uuid.NewString()
		}
		ctx.Set(ContextTraceIDKey, traceID)
		ctx.Header("X-Trace-ID", traceID)
		ctx.Next()
	}
}
