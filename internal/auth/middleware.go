package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/harshgurla/codeassess/internal/dto"
)

const claimsKey = "auth_claims"

// Middleware extracts and verifies the bearer token, storing the claims in
// the gin context for handlers.
func Middleware(tm *TokenManager) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Missing bearer token", Reason: "unauthorized"})
			return
		}
		claims, err := tm.Parse(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Invalid or expired token", Reason: "unauthorized"})
			return
		}
		ctx.Set(claimsKey, claims)
		ctx.Next()
	}
}

// RequireRole fails closed with 403 when the authenticated principal does not
// carry the expected role.
func RequireRole(role string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		claims := ClaimsFrom(ctx)
		if claims == nil || claims.Role != role {
			ctx.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{Message: "Access denied", Reason: "forbidden"})
			return
		}
		ctx.Next()
	}
}

// ClaimsFrom returns the verified claims previously stored by Middleware, or
// nil when the request was not authenticated.
func ClaimsFrom(ctx *gin.Context) *Claims {
	v, ok := ctx.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*Claims)
	return claims
}
