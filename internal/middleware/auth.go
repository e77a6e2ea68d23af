package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/voluntr/volunteer-api/internal/model"
	apperrors "github.com/voluntr/volunteer-api/pkg/errors"
	"github.com/voluntr/volunteer-api/pkg/httputil"
)

// ContextClaims is the gin context key holding the authenticated principal
const ContextClaims = "claims"

// Role allow-list presets. Each is just a named allow-list; the check
// itself lives in RequireRole.
var (
	VolunteerOnly       = []model.Role{model.RoleVolunteer}
	OrganizationOnly    = []model.Role{model.RoleOrganization}
	AdminOnly           = []model.Role{model.RoleAdmin}
	VolunteerOrAdmin    = []model.Role{model.RoleVolunteer, model.RoleAdmin}
	OrganizationOrAdmin = []model.Role{model.RoleOrganization, model.RoleAdmin}
)

// TokenValidator validates a bearer token and returns its claims
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*model.TokenClaims, error)
}

type AuthMiddleware struct {
	authSvc TokenValidator
}

func NewAuthMiddleware(authSvc TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{authSvc: authSvc}
}

// Authenticate verifies the bearer token and stores the claims in the
// request context. Fails closed: no credential means 401.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httputil.RespondWithError(c, apperrors.Unauthenticated("missing authorization header"))
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			httputil.RespondWithError(c, apperrors.Unauthenticated("invalid authorization format"))
			c.Abort()
			return
		}

		claims, err := m.authSvc.ValidateToken(c.Request.Context(), parts[1])
		if err != nil {
			httputil.RespondWithError(c, apperrors.Unauthenticated("invalid token"))
			c.Abort()
			return
		}

		c.Set(ContextClaims, claims)
		c.Next()
	}
}

// RequireRole permits the call iff the authenticated principal's role
// claim parses to one of the allowed roles. A missing or unknown role
// claim means 403, not 401: the caller is authenticated, just not
// permitted.
func (m *AuthMiddleware) RequireRole(allowed ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			httputil.RespondWithError(c, apperrors.Unauthenticated("authentication required"))
			c.Abort()
			return
		}

		role, ok := model.ParseRole(string(claims.Role))
		if !ok {
			httputil.RespondWithError(c, apperrors.Forbidden("unknown role"))
			c.Abort()
			return
		}

		for _, a := range allowed {
			if role == a {
				c.Next()
				return
			}
		}

		httputil.RespondWithError(c, apperrors.Forbidden("insufficient role"))
		c.Abort()
	}
}

// GetClaims returns the authenticated principal, or nil
func GetClaims(c *gin.Context) *model.TokenClaims {
	v, exists := c.Get(ContextClaims)
	if !exists {
		return nil
	}
	claims, ok := v.(*model.TokenClaims)
	if !ok {
		return nil
	}
	return claims
}
