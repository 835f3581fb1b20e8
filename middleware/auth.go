package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mayank2130/user-leagues/models"
	"github.com/mayank2130/user-leagues/utils"
)

const (
	// ContextMemberIDKey is the key used to store the authenticated member ID in Gin context.
	ContextMemberIDKey = "member_id"
	// ContextCommunityIDKey stores the member's community ID inside Gin context.
	ContextCommunityIDKey = "community_id"
	// ContextRoleKey stores the member's role inside Gin context.
	ContextRoleKey = "role"
	// ContextWhopUserIDKey stores the platform user id inside Gin context.
	ContextWhopUserIDKey = "whop_user_id"
)

// AuthRequired ensures the request carries a valid app session JWT.
func AuthRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")
		if authHeader == "" {
			utils.Error(ctx, http.StatusUnauthorized, 40101, "authorization header missing")
			ctx.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			utils.Error(ctx, http.StatusUnauthorized, 40102, "invalid authorization header format")
			ctx.Abort()
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			utils.Error(ctx, http.StatusUnauthorized, 40103, "empty bearer token")
			ctx.Abort()
			return
		}

		claims, err := utils.ParseToken(tokenString)
		if err != nil {
			utils.Error(ctx, http.StatusUnauthorized, 40105, "invalid token")
			ctx.Abort()
			return
		}

		ctx.Set(ContextMemberIDKey, claims.MemberID)
		ctx.Set(ContextCommunityIDKey, claims.CommunityID)
		ctx.Set(ContextRoleKey, claims.Role)
		ctx.Set(ContextWhopUserIDKey, claims.WhopUserID)
		ctx.Next()
	}
}

// AdminRequired gates admin endpoints. Must run after AuthRequired.
func AdminRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		role, _ := ctx.Get(ContextRoleKey)
		if role != models.RoleAdmin {
			utils.Error(ctx, http.StatusForbidden, 40301, "admin access required")
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}
