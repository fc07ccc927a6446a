package middleware

import (
	"context"
	"errors"
	"fmt"
	"strings"

	autherrors "go-staffhub/internal/auth/errors"
	"go-staffhub/internal/shared/apperror"
	"go-staffhub/internal/shared/contextutil"
	"go-staffhub/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// Identity is what the employee directory knows about an authenticated user.
type Identity struct {
	Actor  contextutil.Actor
	Active bool
}

// IdentityResolver maps a user id from a token to an employee.
// A NOT_FOUND AppError means the user has no employee record.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, userID string) (Identity, error)
}

// AuthMiddleware validates the bearer token (or access_token cookie) and
// stores its user id. It does not consult the directory.
func AuthMiddleware(secret string) gin.HandlerFunc {
	key := []byte(secret)
	return func(c *gin.Context) {
		if !authenticateToken(c, key) {
			return
		}
		c.Next()
	}
}

// ResolveEmployee turns the authenticated user into an Actor. Users without
// an employee record, or with an inactive one, are refused with 403.
func ResolveEmployee(resolver IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !resolveIdentity(c, resolver) {
			return
		}
		c.Next()
	}
}

// Authenticate chains token validation and employee resolution. The rest of
// the chain runs only once both have succeeded.
func Authenticate(secret string, resolver IdentityResolver) gin.HandlerFunc {
	key := []byte(secret)
	return func(c *gin.Context) {
		if !authenticateToken(c, key) {
			return
		}
		if !resolveIdentity(c, resolver) {
			return
		}
		c.Next()
	}
}

// authenticateToken aborts the request and returns false when no valid
// token is present.
func authenticateToken(c *gin.Context, key []byte) bool {
	authHeader := c.GetHeader("Authorization")
	tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
	if !found {
		tokenString = ""
	}

	if tokenString == "" {
		if cookie, err := c.Cookie("access_token"); err == nil {
			tokenString = cookie
		}
	}

	if tokenString == "" {
		abortWith(c, autherrors.ErrTokenMissing)
		return false
	}

	userID, err := parseUserID(tokenString, key)
	if err != nil {
		abortWith(c, err)
		return false
	}

	c.Set("user_id", userID)
	ctx := contextutil.WithUserID(c.Request.Context(), userID)
	c.Request = c.Request.WithContext(ctx)
	return true
}

func resolveIdentity(c *gin.Context, resolver IdentityResolver) bool {
	ctx := c.Request.Context()
	userID := c.GetString("user_id")
	if userID == "" {
		abortWith(c, apperror.ErrUnauthorized)
		return false
	}

	identity, err := resolver.ResolveIdentity(ctx, userID)
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.Code == apperror.CodeNotFound {
			abortWith(c, autherrors.ErrNotAnEmployee)
			return false
		}
		contextutil.GetLogger(ctx, zap.L()).Error("identity resolution failed", zap.Error(err))
		abortWith(c, err)
		return false
	}
	if !identity.Active {
		abortWith(c, autherrors.ErrAccountInactive)
		return false
	}

	actor := identity.Actor
	c.Set("employee_id", actor.EmployeeID)
	c.Set("role", actor.Role)

	ctx = contextutil.WithActor(ctx, actor)
	reqLogger := contextutil.GetLogger(ctx, zap.L()).With(
		zap.String("user_id", userID),
		zap.String("employee_id", actor.EmployeeID),
	)
	ctx = contextutil.WithLogger(ctx, reqLogger)
	c.Request = c.Request.WithContext(ctx)
	return true
}

func parseUserID(tokenString string, key []byte) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return key, nil
	})
	if err != nil || !token.Valid {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", autherrors.ErrTokenExpired
		}
		return "", autherrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", autherrors.ErrInvalidToken
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", autherrors.ErrInvalidToken
	}
	return userID, nil
}

func abortWith(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Abort(c, httpErr.Status, httpErr.Code, httpErr.Message)
}
