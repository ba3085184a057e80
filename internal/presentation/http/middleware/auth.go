package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/orderdesk-api/internal/domain/entity"
	"github.com/sangkips/orderdesk-api/internal/domain/enum"
	"github.com/sangkips/orderdesk-api/internal/presentation/http/dto/response"
	"github.com/sangkips/orderdesk-api/pkg/apperror"
	"github.com/sangkips/orderdesk-api/pkg/utils"
)

const (
	// ActorKey is the gin context key holding the authenticated entity.Actor
	ActorKey = "actor"
	// UserIDKey is the gin context key holding the authenticated user's id
	UserIDKey = "user_id"
)

// AuthMiddleware creates a JWT authentication middleware
func AuthMiddleware(jwtManager *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Authorization header is required")
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateAccessToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		userID := claims.UserID
		role := enum.UserRole(claims.Role)
		if userID == uuid.Nil || !role.IsValid() {
			response.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(UserIDKey, userID)
		c.Set(ActorKey, entity.Actor{UserID: userID, Email: claims.Email, Role: role})

		c.Next()
	}
}

// UserLookup loads the current state of an authenticated user
type UserLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
}

// RequireActiveUser runs after AuthMiddleware. It rejects tokens of deleted or
// deactivated users and refreshes the actor's role and email from the database,
// so admin changes apply before the token expires.
func RequireActiveUser(users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			response.Unauthorized(c, "User not authenticated")
			c.Abort()
			return
		}

		user, err := users.GetByID(c.Request.Context(), actor.UserID)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		if user == nil {
			response.Unauthorized(c, "User no longer exists")
			c.Abort()
			return
		}
		if !user.IsActive {
			response.Error(c, apperror.ErrInactiveAccount)
			c.Abort()
			return
		}

		actor.Role = user.Role
		actor.Email = user.Email
		c.Set(ActorKey, actor)
		c.Next()
	}
}

// GetActor returns the actor set by AuthMiddleware
func GetActor(c *gin.Context) (entity.Actor, bool) {
	v, exists := c.Get(ActorKey)
	if !exists {
		return entity.Actor{}, false
	}
	actor, ok := v.(entity.Actor)
	return actor, ok
}

// RequireStaff rejects actors that may not use the CRM back office
func RequireStaff() gin.HandlerFunc {
	return requireActor(entity.Actor.IsStaff)
}

// RequireAdmin rejects actors without an admin role
func RequireAdmin() gin.HandlerFunc {
	return requireActor(entity.Actor.IsAdmin)
}

func requireActor(allowed func(entity.Actor) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			response.Unauthorized(c, "User not authenticated")
			c.Abort()
			return
		}
		if !allowed(actor) {
			response.Forbidden(c, "Insufficient role privileges")
			c.Abort()
			return
		}
		c.Next()
	}
}
