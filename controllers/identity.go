package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/petmily/petboard/middleware"
)

// getUserID extracts the acting identity injected by the auth middleware.
// A missing identity means the caller is anonymous.
func getUserID(ctx *gin.Context) (uint, bool) {
	value, exists := ctx.Get(middleware.ContextUserIDKey)
	if !exists {
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		return uint(v), true
	case int64:
		return uint(v), true
	case float64:
		return uint(v), true
	default:
		return 0, false
	}
}

// isOwner is the ownership guard applied to every mutating operation:
// only the resource author may mutate it, and an anonymous caller never
// owns anything.
func isOwner(actingID, authorID uint) bool {
	return actingID != 0 && actingID == authorID
}
