package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	settlementapp "github.com/houseledger/backend/internal/application/settlement"
	"github.com/houseledger/backend/internal/domain/household"
	"github.com/houseledger/backend/internal/infrastructure/auth"
	"github.com/houseledger/backend/internal/infrastructure/logger"
	"github.com/houseledger/backend/internal/interfaces/http/dto"
)

// JWT context keys
const (
	JWTClaimsKey  = "jwt_claims"
	ActorKey      = "actor"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// JWTAuthMiddleware validates the bearer token and stores the resolved
// actor in the gin context. Requests without a valid access token are
// rejected with 401.
func JWTAuthMiddleware(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthHeaderKey)
		if authHeader == "" {
			abortUnauthorized(c, "Missing authorization header")
			return
		}
		if !strings.HasPrefix(authHeader, BearerPrefix) {
			abortUnauthorized(c, "Invalid authorization header format")
			return
		}
		tokenString := strings.TrimPrefix(authHeader, BearerPrefix)
		if tokenString == "" {
			abortUnauthorized(c, "Missing token")
			return
		}

		claims, err := jwtService.ValidateAccessToken(tokenString)
		if err != nil {
			if errors.Is(err, auth.ErrExpiredToken) {
				abortUnauthorized(c, "Token has expired")
				return
			}
			abortUnauthorized(c, "Token validation failed")
			return
		}

		actor, err := actorFromClaims(claims)
		if err != nil {
			abortUnauthorized(c, "Token carries malformed identity claims")
			return
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(ActorKey, actor)

		// thread identity into the request logger
		ctx := c.Request.Context()
		log := logger.FromContext(ctx)
		ctx, log = logger.WithUserID(ctx, log, claims.UserID)
		ctx, _ = logger.WithHouseID(ctx, log, claims.HouseID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func actorFromClaims(claims *auth.Claims) (settlementapp.Actor, error) {
	memberID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return settlementapp.Actor{}, err
	}
	houseID, err := uuid.Parse(claims.HouseID)
	if err != nil {
		return settlementapp.Actor{}, err
	}
	role := household.Role(claims.Role)
	if !role.IsValid() {
		return settlementapp.Actor{}, errors.New("unknown role claim")
	}
	return settlementapp.Actor{
		MemberID: memberID,
		HouseID:  houseID,
		Role:     role,
	}, nil
}

// GetActor returns the authenticated actor stored by JWTAuthMiddleware
func GetActor(c *gin.Context) (settlementapp.Actor, bool) {
	value, exists := c.Get(ActorKey)
	if !exists {
		return settlementapp.Actor{}, false
	}
	actor, ok := value.(settlementapp.Actor)
	return actor, ok
}

// AdminOnly rejects requests whose actor does not hold the ADMIN role.
// Application services still re-check permissions; this middleware only
// short-circuits the obvious cases.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			abortUnauthorized(c, "Authentication required")
			return
		}
		if !actor.IsAdmin() {
			requestID := c.GetString(RequestIDHeader)
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse(dto.ErrCodeForbidden, "Admin role required", requestID))
			return
		}
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	requestID := c.GetString(RequestIDHeader)
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponse(dto.ErrCodeUnauthorized, message, requestID))
}
