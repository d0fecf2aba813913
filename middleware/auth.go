package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/petmily/petboard/utils"
)

// ContextUserIDKey is the key used to store the authenticated acting
// identity in the Gin context.
const ContextUserIDKey = "user_id"

// AuthRequired ensures the request carries a valid bearer token and
// injects the acting identity into the context. The engine trusts the
// token's identity claim; issuing tokens is the auth collaborator's job.
func AuthRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		claims, errCode, errMsg := bearerClaims(ctx)
		if claims == nil {
			utils.Error(ctx, http.StatusUnauthorized, errCode, errMsg)
			ctx.Abort()
			return
		}

		ctx.Set(ContextUserIDKey, claims.UserID)
		ctx.Next()
	}
}

// AuthOptional injects the acting identity when a valid bearer token is
// present and leaves the request anonymous otherwise. Used on read
// endpoints that render the caller's like state.
func AuthOptional() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if claims, _, _ := bearerClaims(ctx); claims != nil {
			ctx.Set(ContextUserIDKey, claims.UserID)
		}
		ctx.Next()
	}
}

func bearerClaims(ctx *gin.Context) (*utils.Claims, int, string) {
	authHeader := ctx.GetHeader("Authorization")
	if authHeader == "" {
		return nil, 40101, "authorization header missing"
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, 40102, "invalid authorization header format"
	}

	tokenString := strings.TrimSpace(parts[1])
	if tokenString == "" {
		return nil, 40103, "empty bearer token"
	}

	claims, err := utils.ParseToken(tokenString)
	if err != nil {
		return nil, 40104, "invalid token"
	}
	return claims, 0, ""
}
