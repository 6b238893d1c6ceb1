// Package authhandler provides per-request authentication helpers.
package authhandler

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"jan-server/services/thread-api/internal/domain"
	middleware "jan-server/services/thread-api/internal/interfaces/httpserver/middlewares"
	"jan-server/services/thread-api/internal/interfaces/httpserver/responses"
	"jan-server/services/thread-api/internal/utils/platformerrors"
)

const requesterContextKey = "requester"

// AuthHandler coordinates per-request authentication helpers.
type AuthHandler struct {
	logger zerolog.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{logger: logger}
}

// GetRequesterFromContext returns the authenticated requester identity.
func GetRequesterFromContext(c *gin.Context) (domain.Principal, bool) {
	val, ok := c.Get(requesterContextKey)
	if !ok || val == nil {
		return domain.Principal{}, false
	}
	principal, ok := val.(domain.Principal)
	return principal, ok && principal.ID != ""
}

// WithUserAuthChain requires an authenticated principal before executing
// handlers.
func (h *AuthHandler) WithUserAuthChain(handlers ...gin.HandlerFunc) []gin.HandlerFunc {
	chain := []gin.HandlerFunc{h.ensureRequester()}
	return append(chain, handlers...)
}

func (h *AuthHandler) ensureRequester() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetRequesterFromContext(c); ok {
			c.Next()
			return
		}

		principal, ok := middleware.PrincipalFromContext(c)
		if !ok {
			responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "authentication required", "5e1d3524-929e-4c7a-9bb7-0a8b74fa6f10")
			c.Abort()
			return
		}
		if principal.ID == "" {
			h.logger.Warn().Str("path", c.FullPath()).Msg("principal without subject")
			responses.HandleNewError(c, platformerrors.ErrorTypeUnauthorized, "invalid user identity", "a6c6d3d0-5ca3-4235-9d54-8c4af3b04d62")
			c.Abort()
			return
		}

		c.Set(requesterContextKey, principal)
		c.Next()
	}
}
