package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/notifyd/internal/infrastructure/auth"
	"github.com/orris-inc/notifyd/internal/shared/constants"
	"github.com/orris-inc/notifyd/internal/shared/logger"
	"github.com/orris-inc/notifyd/internal/shared/utils"
)

// accessTokenQueryParam lets EventSource clients, which cannot set headers,
// authenticate the stream endpoint.
const accessTokenQueryParam = "access_token"

type authOptions struct {
	allowQueryToken bool
}

// AuthOption configures a RequireAuth handler.
type AuthOption func(*authOptions)

// AllowQueryToken also accepts the token from the access_token query
// parameter. Only routes serving EventSource clients should enable it.
func AllowQueryToken() AuthOption {
	return func(o *authOptions) {
		o.allowQueryToken = true
	}
}

type tokenVerifier interface {
	Verify(tokenString string) (*auth.Claims, error)
}

type AuthMiddleware struct {
	jwtService tokenVerifier
	logger     logger.Interface
}

func NewAuthMiddleware(jwtService tokenVerifier, logger logger.Interface) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		logger:     logger,
	}
}

// RequireAuth rejects the request with 401 unless it carries a valid access token.
// On success the caller's id and role are stored in the gin context.
func (m *AuthMiddleware) RequireAuth(opts ...AuthOption) gin.HandlerFunc {
	var o authOptions
	for _, opt := range opts {
		opt(&o)
	}

	return func(c *gin.Context) {
		var token string
		if o.allowQueryToken {
			token = c.Query(accessTokenQueryParam)
		}

		if authHeader := c.GetHeader(constants.HeaderAuthorization); authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				utils.ErrorResponse(c, http.StatusUnauthorized, "invalid authorization header format")
				c.Abort()
				return
			}
			token = parts[1]
		}

		if token == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "missing authorization token")
			c.Abort()
			return
		}

		claims, err := m.jwtService.Verify(token)
		if err != nil {
			m.logger.Warnw("failed to verify token", "error", err)
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, claims.UserID)
		c.Set(constants.ContextKeyUserRole, string(claims.Role))

		c.Next()
	}
}
