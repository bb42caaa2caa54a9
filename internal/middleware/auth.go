package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/anyulbade/agency-platform/internal/auth"
)

// Actor resolves the caller from the Authorization header. Requests
// without a token continue anonymously; a present but invalid token is
// rejected.
func Actor(v *auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID, err := v.ActorID(c.GetHeader("Authorization"))
		if errors.Is(err, auth.ErrMissingToken) {
			c.Next()
			return
		}
		if err != nil {
			log.Warn().Err(err).Str("path", c.Request.URL.Path).Msg("rejected token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
			return
		}

		c.Request = c.Request.WithContext(auth.WithActor(c.Request.Context(), actorID))
		c.Next()
	}
}

func RequireActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		if auth.ActorFromContext(c.Request.Context()) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
			return
		}
		c.Next()
	}
}
